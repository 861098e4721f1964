package models

// Catalog types mirror the restaurant API payloads for /categories and /menus.

type Category struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Disable bool   `json:"disable"`
}

type OptionChoice struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Price   int64  `json:"price"`
	Disable bool   `json:"disable"`
}

type OptionGroup struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	IsRequired bool           `json:"isRequired"`
	Disable    bool           `json:"disable"`
	Choices    []OptionChoice `json:"choices"`
}

// MenuOptionGroup joins a menu to an option group. Its own Disable flag
// suppresses the group for this menu without disabling the group globally.
type MenuOptionGroup struct {
	ID            int64       `json:"id"`
	MenuID        int64       `json:"menuId"`
	OptionGroupID int64       `json:"optionGroupId"`
	Disable       bool        `json:"disable"`
	OptionGroup   OptionGroup `json:"optionGroup"`
}

type Menu struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name"`
	Price        int64             `json:"price"`
	ImageURL     string            `json:"imageUrl"`
	CategoryID   int64             `json:"categoryId"`
	Disable      bool              `json:"disable"`
	OptionGroups []MenuOptionGroup `json:"optionGroups"`
}

// TableSession is the response of /table-session/session-info for a valid token.
type TableSession struct {
	TableNumber string `json:"tableNumber"`
}
