package models

// CartLineItem is one configured line in the cart. It snapshots the menu
// name and prices at selection time; edits replace the whole line.
type CartLineItem struct {
	MenuID     int64           `json:"menuId"`
	Name       string          `json:"name"`
	BasePrice  int64           `json:"basePrice"`
	TotalPrice int64           `json:"totalPrice"`
	Quantity   int             `json:"quantity"`
	Note       string          `json:"note"`
	Selections map[int64]int64 `json:"selectedOptions"` // option group id -> chosen choice id
	Timestamp  int64           `json:"timestamp"`       // unix millis at creation
}
