package services

import (
	"fmt"
	"time"

	"tableorder-telegram/models"
)

// MissingRequiredOptionError names the first required, enabled option group
// the customer has not picked a choice for.
type MissingRequiredOptionError struct {
	GroupID   int64
	GroupName string
}

func (e *MissingRequiredOptionError) Error() string {
	return fmt.Sprintf("required option %q not selected", e.GroupName)
}

// EnabledOptionGroups returns the menu's option groups that are active at
// both the join and the group level, in menu order.
func EnabledOptionGroups(menu *models.Menu) []models.MenuOptionGroup {
	var groups []models.MenuOptionGroup
	for _, mg := range menu.OptionGroups {
		if mg.Disable || mg.OptionGroup.Disable {
			continue
		}
		groups = append(groups, mg)
	}
	return groups
}

// ComputeLineTotal prices one cart line: base price plus the selected
// choice of every enabled group, multiplied by quantity. Selections that
// point at groups or choices the menu does not carry contribute nothing.
func ComputeLineTotal(menu *models.Menu, selections map[int64]int64, quantity int) int64 {
	if quantity < 1 {
		quantity = 1
	}
	var extra int64
	for _, mg := range EnabledOptionGroups(menu) {
		choiceID, ok := selections[mg.OptionGroup.ID]
		if !ok {
			continue
		}
		for _, ch := range mg.OptionGroup.Choices {
			if ch.ID == choiceID {
				extra += ch.Price
				break
			}
		}
	}
	return (menu.Price + extra) * int64(quantity)
}

// ValidateSelections checks that every required enabled group has a choice.
// The error reports the first unmet group in menu order; callers must not
// let the line into the cart while this fails.
func ValidateSelections(menu *models.Menu, selections map[int64]int64) error {
	for _, mg := range EnabledOptionGroups(menu) {
		if !mg.OptionGroup.IsRequired {
			continue
		}
		if _, ok := selections[mg.OptionGroup.ID]; !ok {
			return &MissingRequiredOptionError{
				GroupID:   mg.OptionGroup.ID,
				GroupName: mg.OptionGroup.Name,
			}
		}
	}
	return nil
}

// BuildLineItem snapshots the configured menu into a cart line. Selections
// are copied and filtered to the menu's enabled groups so a stale mapping
// cannot carry suppressed options into the cart.
func BuildLineItem(menu *models.Menu, quantity int, note string, selections map[int64]int64) models.CartLineItem {
	if quantity < 1 {
		quantity = 1
	}
	kept := make(map[int64]int64, len(selections))
	for _, mg := range EnabledOptionGroups(menu) {
		if choiceID, ok := selections[mg.OptionGroup.ID]; ok {
			kept[mg.OptionGroup.ID] = choiceID
		}
	}
	return models.CartLineItem{
		MenuID:     menu.ID,
		Name:       menu.Name,
		BasePrice:  menu.Price,
		TotalPrice: ComputeLineTotal(menu, kept, quantity),
		Quantity:   quantity,
		Note:       note,
		Selections: kept,
		Timestamp:  time.Now().UnixMilli(),
	}
}
