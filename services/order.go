package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"sync"

	"tableorder-telegram/api"
	"tableorder-telegram/models"
)

// UnknownOptionLabel stands in for option names that no longer resolve
// against the loaded catalog; the catalog may have changed since the line
// was added.
const UnknownOptionLabel = "Unknown"

var (
	// ErrEmptyCart and ErrSubmitInFlight are precondition failures callers
	// treat as a no-op.
	ErrEmptyCart      = errors.New("cart is empty")
	ErrSubmitInFlight = errors.New("order submission already in flight")
)

// OrderSubmitter turns a table's cart into one order-creation request and
// reconciles cart state with the outcome. A per-table in-flight flag stops
// a second submission while one is outstanding; it is set before the
// network call and cleared on every path out.
type OrderSubmitter struct {
	client *api.Client
	carts  *CartStore

	mu      sync.Mutex
	sending map[string]bool // table number -> submission outstanding
}

func NewOrderSubmitter(client *api.Client, carts *CartStore) *OrderSubmitter {
	return &OrderSubmitter{
		client:  client,
		carts:   carts,
		sending: make(map[string]bool),
	}
}

// Sending reports whether a submission for the table is outstanding.
func (s *OrderSubmitter) Sending(tableNumber string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending[tableNumber]
}

// Submit sends the table's cart as one order, resolving human-readable
// option names from the loaded menu catalog. On success the cart is
// cleared, durable entry included. On failure the cart is left intact for
// a user-initiated retry; the returned error carries the server message
// when one was provided.
func (s *OrderSubmitter) Submit(ctx context.Context, token, tableNumber string, menus []models.Menu) error {
	if strings.TrimSpace(token) == "" {
		return ErrNoToken
	}
	items := s.carts.Items(tableNumber)
	if len(items) == 0 {
		return ErrEmptyCart
	}

	s.mu.Lock()
	if s.sending[tableNumber] {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	s.sending[tableNumber] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.sending, tableNumber)
		s.mu.Unlock()
	}()

	req := BuildOrderRequest(token, items, menus)
	if err := s.client.CreateOrder(ctx, req); err != nil {
		return err
	}
	if err := s.carts.Clear(ctx, tableNumber); err != nil {
		// Order is already accepted; a stale mirror is the lesser problem.
		log.Printf("clear cart table=%s: %v", tableNumber, err)
	}
	return nil
}

// BuildOrderRequest maps cart lines to the POST /orders body, resolving
// each selection's group and choice names from the catalog and falling
// back to UnknownOptionLabel where they no longer resolve. Options are
// emitted in ascending group id order so the body is deterministic.
func BuildOrderRequest(token string, items []models.CartLineItem, menus []models.Menu) models.CreateOrderRequest {
	req := models.CreateOrderRequest{
		Token: token,
		Items: make([]models.OrderItem, 0, len(items)),
	}
	for _, it := range items {
		menu := FindMenu(menus, it.MenuID)

		groupIDs := make([]int64, 0, len(it.Selections))
		for gid := range it.Selections {
			groupIDs = append(groupIDs, gid)
		}
		sort.Slice(groupIDs, func(i, j int) bool { return groupIDs[i] < groupIDs[j] })

		var opts []models.OrderOption
		for _, gid := range groupIDs {
			cid := it.Selections[gid]
			groupName, choiceName := UnknownOptionLabel, UnknownOptionLabel
			if menu != nil {
				if mg := FindMenuOptionGroup(menu, gid); mg != nil {
					groupName = mg.OptionGroup.Name
					if ch := FindChoice(&mg.OptionGroup, cid); ch != nil {
						choiceName = ch.Name
					}
				}
			}
			opts = append(opts, models.OrderOption{
				OptionGroupID:  gid,
				OptionChoiceID: cid,
				GroupName:      groupName,
				ChoiceName:     choiceName,
			})
		}
		req.Items = append(req.Items, models.OrderItem{
			MenuID:   it.MenuID,
			Quantity: it.Quantity,
			Remark:   it.Note,
			Options:  opts,
		})
	}
	return req
}
