package services

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"tableorder-telegram/models"
	"tableorder-telegram/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	kv, err := store.Open(filepath.Join(t.TempDir(), "cart.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func sampleItems() []models.CartLineItem {
	return []models.CartLineItem{
		{
			MenuID: 7, Name: "Tom Yum", BasePrice: 100, TotalPrice: 240,
			Quantity: 2, Note: "less spicy",
			Selections: map[int64]int64{10: 101},
			Timestamp:  1700000000000,
		},
		{
			MenuID: 9, Name: "Green Tea", BasePrice: 150, TotalPrice: 150,
			Quantity: 1, Selections: map[int64]int64{},
			Timestamp: 1700000000001,
		},
	}
}

func TestCartRoundTrip(t *testing.T) {
	ctx := context.Background()
	carts := NewCartStore(testStore(t))
	items := sampleItems()

	if err := carts.Replace(ctx, "A1", items); err != nil {
		t.Fatalf("replace: %v", err)
	}

	// Load re-reads the durable mirror, so this also covers a restart.
	loaded := carts.Load(ctx, "A1")
	if !reflect.DeepEqual(loaded, items) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, items)
	}
	if carts.Count("A1") != 2 {
		t.Errorf("Count = %d, want 2", carts.Count("A1"))
	}
	if carts.Subtotal("A1") != 390 {
		t.Errorf("Subtotal = %d, want 390", carts.Subtotal("A1"))
	}
}

func TestCartLoadAbsent(t *testing.T) {
	carts := NewCartStore(testStore(t))
	if items := carts.Load(context.Background(), "B2"); len(items) != 0 {
		t.Errorf("absent cart should load empty, got %+v", items)
	}
}

func TestCartLoadCorruptValue(t *testing.T) {
	ctx := context.Background()
	kv := testStore(t)
	if err := kv.Set(ctx, "cart_B2", "{not json"); err != nil {
		t.Fatalf("seed corrupt value: %v", err)
	}
	carts := NewCartStore(kv)
	if items := carts.Load(ctx, "B2"); len(items) != 0 {
		t.Errorf("corrupt cart should load empty, got %+v", items)
	}
}

func TestCartClearRemovesDurableEntry(t *testing.T) {
	ctx := context.Background()
	kv := testStore(t)
	carts := NewCartStore(kv)

	if err := carts.Replace(ctx, "A1", sampleItems()); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := carts.Clear(ctx, "A1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if carts.Count("A1") != 0 {
		t.Errorf("Count after clear = %d, want 0", carts.Count("A1"))
	}
	if _, ok, err := kv.Get(ctx, "cart_A1"); err != nil || ok {
		t.Errorf("durable entry still present after clear (ok=%v, err=%v)", ok, err)
	}
}

func TestCartsAreKeyedByTable(t *testing.T) {
	ctx := context.Background()
	carts := NewCartStore(testStore(t))

	if err := carts.Replace(ctx, "A1", sampleItems()[:1]); err != nil {
		t.Fatalf("replace A1: %v", err)
	}
	if err := carts.Replace(ctx, "B2", sampleItems()); err != nil {
		t.Fatalf("replace B2: %v", err)
	}
	if carts.Count("A1") != 1 || carts.Count("B2") != 2 {
		t.Errorf("cross-table leak: A1=%d B2=%d", carts.Count("A1"), carts.Count("B2"))
	}
}
