package services

import (
	"tableorder-telegram/models"
)

// Catalog lookups over the menus and categories loaded at session start.
// The catalog is read-only client side; these helpers never mutate it.

// ActiveCategories filters out disabled categories, keeping server order.
func ActiveCategories(categories []models.Category) []models.Category {
	var out []models.Category
	for _, c := range categories {
		if c.Disable {
			continue
		}
		out = append(out, c)
	}
	return out
}

// MenusForCategory returns the enabled menus of one category, keeping server order.
func MenusForCategory(menus []models.Menu, categoryID int64) []models.Menu {
	var out []models.Menu
	for _, m := range menus {
		if m.Disable || m.CategoryID != categoryID {
			continue
		}
		out = append(out, m)
	}
	return out
}

// FindMenu returns the menu with the given id, or nil when the catalog no
// longer carries it.
func FindMenu(menus []models.Menu, menuID int64) *models.Menu {
	for i := range menus {
		if menus[i].ID == menuID {
			return &menus[i]
		}
	}
	return nil
}

// FindMenuOptionGroup looks up a menu's option group join by the option
// group id, regardless of disable flags. Used when resolving names for
// lines added before a catalog change.
func FindMenuOptionGroup(menu *models.Menu, optionGroupID int64) *models.MenuOptionGroup {
	for i := range menu.OptionGroups {
		if menu.OptionGroups[i].OptionGroup.ID == optionGroupID {
			return &menu.OptionGroups[i]
		}
	}
	return nil
}

// FindChoice returns the choice with the given id within a group, or nil.
func FindChoice(group *models.OptionGroup, choiceID int64) *models.OptionChoice {
	for i := range group.Choices {
		if group.Choices[i].ID == choiceID {
			return &group.Choices[i]
		}
	}
	return nil
}
