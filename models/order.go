package models

// OrderOption carries both the numeric ids and the names resolved from the
// catalog at submission time, so the kitchen sees what the customer saw.
type OrderOption struct {
	OptionGroupID  int64  `json:"optionGroupId"`
	OptionChoiceID int64  `json:"optionChoiceId"`
	GroupName      string `json:"groupName"`
	ChoiceName     string `json:"choiceName"`
}

type OrderItem struct {
	MenuID   int64         `json:"menuId"`
	Quantity int           `json:"quantity"`
	Remark   string        `json:"remark"`
	Options  []OrderOption `json:"options"`
}

// CreateOrderRequest is the POST /orders body.
type CreateOrderRequest struct {
	Token string      `json:"token"`
	Items []OrderItem `json:"items"`
}

// HistoryOption is a flattened (group name, choice name) pair from a past order line.
type HistoryOption struct {
	OptionGroup  string `json:"optionGroup"`
	OptionChoice string `json:"optionChoice"`
}

// HistoryEntry is one order line from /orders/my-orders, read-only and
// rendered in the order the server delivers it.
type HistoryEntry struct {
	ID          int64
	MenuName    string
	ImageURL    string
	Quantity    int
	PriceAtTime int64
	Status      string
	Options     []HistoryOption
}
