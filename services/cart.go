package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"tableorder-telegram/models"
	"tableorder-telegram/store"
)

// cartKey is the durable key for a table's cart; one entry per table.
func cartKey(tableNumber string) string {
	return "cart_" + tableNumber
}

// CartStore keeps the in-process line items per active table and mirrors
// every change to the durable store. Replace is the single write path: add,
// edit and remove are all expressed as a full replacement of the sequence.
// Reads and writes go read-then-write without compare-and-swap; one chat
// owns a table's cart and the last write wins.
type CartStore struct {
	kv *store.Store

	mu    sync.RWMutex
	items map[string][]models.CartLineItem
}

func NewCartStore(kv *store.Store) *CartStore {
	return &CartStore{
		kv:    kv,
		items: make(map[string][]models.CartLineItem),
	}
}

// Load reads the persisted cart for the table into memory. Absent or
// malformed values yield an empty cart; a stale mirror must never block
// the ordering flow.
func (c *CartStore) Load(ctx context.Context, tableNumber string) []models.CartLineItem {
	raw, ok, err := c.kv.Get(ctx, cartKey(tableNumber))
	if err != nil {
		log.Printf("cart load table=%s: %v", tableNumber, err)
		ok = false
	}
	var items []models.CartLineItem
	if ok {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			log.Printf("cart parse table=%s: %v", tableNumber, err)
			items = nil
		}
	}
	c.mu.Lock()
	c.items[tableNumber] = items
	c.mu.Unlock()
	return items
}

// Replace sets the in-process cart for the table and rewrites the durable mirror.
func (c *CartStore) Replace(ctx context.Context, tableNumber string, items []models.CartLineItem) error {
	c.mu.Lock()
	c.items[tableNumber] = items
	c.mu.Unlock()

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart items: %w", err)
	}
	return c.kv.Set(ctx, cartKey(tableNumber), string(raw))
}

// Clear empties the table's cart and removes the durable entry. Called only
// after the server confirmed the order.
func (c *CartStore) Clear(ctx context.Context, tableNumber string) error {
	c.mu.Lock()
	delete(c.items, tableNumber)
	c.mu.Unlock()
	return c.kv.Delete(ctx, cartKey(tableNumber))
}

func (c *CartStore) Items(tableNumber string) []models.CartLineItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items[tableNumber]
}

// Count is the number of distinct line items, not the summed quantity.
func (c *CartStore) Count(tableNumber string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items[tableNumber])
}

func (c *CartStore) Subtotal(tableNumber string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var total int64
	for _, it := range c.items[tableNumber] {
		total += it.TotalPrice
	}
	return total
}
