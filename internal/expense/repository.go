// Package expense stores each user's expense collection under a key derived
// from the user id, so collections are partitioned per user and survive
// logout/login cycles.
package expense

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"trijoshh/internal/core"
	"trijoshh/internal/kv"
)

// keyPrefix namespaces expense collections in the durable store.
const keyPrefix = "expenses_"

// Key returns the storage key for a user's collection. It is a pure
// function of the user id.
func Key(userID string) string {
	return keyPrefix + userID
}

// Repository hands out per-user collections backed by the durable store.
type Repository struct {
	store kv.Store
	newID func() string
}

func NewRepository(store kv.Store) *Repository {
	return &Repository{store: store, newID: uuid.NewString}
}

// ForUser loads the collection for userID. Absent or malformed data yields
// an empty collection; storage problems are logged, never surfaced.
func (r *Repository) ForUser(ctx context.Context, userID string) *Collection {
	c := &Collection{
		store:  r.store,
		newID:  r.newID,
		userID: userID,
	}

	data, ok, err := r.store.Get(ctx, Key(userID))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load expenses, starting empty",
			"user_id", userID, "error", err)
		return c
	}
	if !ok {
		return c
	}
	if err := json.Unmarshal(data, &c.items); err != nil {
		slog.WarnContext(ctx, "Malformed expense data, starting empty",
			"user_id", userID, "error", err)
		c.items = nil
	}
	return c
}

// Collection is the working set of one user's expenses. Mutations update
// memory first and then persist the full collection back to the user's key;
// a failed write keeps the in-memory mutation and is only logged.
type Collection struct {
	mu     sync.Mutex
	store  kv.Store
	newID  func() string
	userID string
	items  []core.Expense
}

// UserID returns the owning user's id.
func (c *Collection) UserID() string {
	return c.userID
}

// List returns a copy of the collection in insertion order.
func (c *Collection) List() []core.Expense {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.Expense, len(c.items))
	copy(out, c.items)
	return out
}

// Add assigns a fresh id to the draft, appends it, and persists.
func (c *Collection) Add(ctx context.Context, draft core.Expense) core.Expense {
	c.mu.Lock()
	defer c.mu.Unlock()

	draft.ID = c.newID()
	c.items = append(c.items, draft)
	c.persist(ctx)
	return draft
}

// Update replaces the expense with a matching id and reports whether a
// replacement happened. Unknown ids are a no-op: replacement, not upsert.
func (c *Collection) Update(ctx context.Context, e core.Expense) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == e.ID {
			c.items[i] = e
			c.persist(ctx)
			return true
		}
	}
	return false
}

// Delete removes the expense with the given id and reports whether it was
// present.
func (c *Collection) Delete(ctx context.Context, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.persist(ctx)
			return true
		}
	}
	return false
}

// persist writes the whole collection back. Callers hold c.mu.
func (c *Collection) persist(ctx context.Context) {
	data, err := json.Marshal(c.items)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to marshal expenses",
			"user_id", c.userID, "error", err)
		return
	}
	if err := c.store.Set(ctx, Key(c.userID), data); err != nil {
		slog.ErrorContext(ctx, "Failed to persist expenses, in-memory state kept",
			"user_id", c.userID, "count", len(c.items), "error", err)
	}
}
