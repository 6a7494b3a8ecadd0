package kv

import (
	"context"
	"path/filepath"
	"testing"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	sqliteStore, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { sqliteStore.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqliteStore,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
				t.Fatalf("get missing: ok=%v err=%v", ok, err)
			}

			if err := store.Set(ctx, "k", []byte(`{"a":1}`)); err != nil {
				t.Fatalf("set: %v", err)
			}
			value, ok, err := store.Get(ctx, "k")
			if err != nil || !ok || string(value) != `{"a":1}` {
				t.Fatalf("get after set: %q ok=%v err=%v", value, ok, err)
			}

			if err := store.Set(ctx, "k", []byte(`{"a":2}`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			value, _, _ = store.Get(ctx, "k")
			if string(value) != `{"a":2}` {
				t.Fatalf("overwrite not visible: %q", value)
			}

			if err := store.Delete(ctx, "k"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, ok, _ := store.Get(ctx, "k"); ok {
				t.Fatal("key still present after delete")
			}

			// Deleting an absent key is not an error.
			if err := store.Delete(ctx, "k"); err != nil {
				t.Fatalf("delete absent: %v", err)
			}
		})
	}
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "persist.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Set(ctx, "durable", []byte("yes")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	value, ok, err := reopened.Get(ctx, "durable")
	if err != nil || !ok || string(value) != "yes" {
		t.Fatalf("value lost across reopen: %q ok=%v err=%v", value, ok, err)
	}
}
