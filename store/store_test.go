package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	if _, ok, err := s.Get(ctx, "cart_A1"); err != nil || ok {
		t.Fatalf("fresh key: ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "cart_A1", `[{"menuId":7}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get(ctx, "cart_A1")
	if err != nil || !ok || v != `[{"menuId":7}]` {
		t.Errorf("get: v=%q ok=%v err=%v", v, ok, err)
	}

	// Upsert replaces the value for an existing key.
	if err := s.Set(ctx, "cart_A1", "[]"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if v, _, _ = s.Get(ctx, "cart_A1"); v != "[]" {
		t.Errorf("after upsert: v=%q", v)
	}

	if err := s.Delete(ctx, "cart_A1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ = s.Get(ctx, "cart_A1"); ok {
		t.Error("key survived delete")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	if err := s.Set(ctx, "cart_A1", "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "cart_B2", "b"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "cart_A1"); err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := s.Get(ctx, "cart_B2"); !ok || v != "b" {
		t.Errorf("unrelated key affected: v=%q ok=%v", v, ok)
	}
}
