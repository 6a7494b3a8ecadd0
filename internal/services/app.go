// Package services wires authentication, the per-user expense repository,
// and the optional event publisher into the application workflow: the
// session decides which collection is live, and every derived view is
// recomputed from that collection.
package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"trijoshh/internal/auth"
	"trijoshh/internal/core"
	"trijoshh/internal/events"
	"trijoshh/internal/expense"
	"trijoshh/internal/export"
)

// ErrNoSession is returned by expense operations when nobody is logged in.
var ErrNoSession = errors.New("no active session")

// EventPublisher is the outbound event feed. Satisfied by *events.Client.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, userID, expenseID, action string) error
}

// App is the application controller. At most one session is active at a
// time; its working collection is loaded on login and dropped on logout
// while the durable copy stays untouched. The controller is shared across
// concurrent HTTP handlers, so the working collection is swapped under a
// lock; the collection itself guards its own items.
type App struct {
	auth      *auth.Service
	repo      *expense.Repository
	publisher EventPublisher // may be nil

	mu      sync.RWMutex
	working *expense.Collection
}

// NewApp builds the controller. If the session store already holds a valid
// session (e.g. after an in-place restart of the volatile store scope), the
// matching collection is loaded immediately.
func NewApp(ctx context.Context, authSvc *auth.Service, repo *expense.Repository, publisher EventPublisher) *App {
	a := &App{auth: authSvc, repo: repo, publisher: publisher}
	if user, ok := authSvc.CurrentUser(ctx); ok {
		a.working = repo.ForUser(ctx, user.ID)
	}
	return a
}

// collection returns the live working collection or ErrNoSession.
func (a *App) collection() (*expense.Collection, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.working == nil {
		return nil, ErrNoSession
	}
	return a.working, nil
}

func (a *App) setWorking(c *expense.Collection) {
	a.mu.Lock()
	a.working = c
	a.mu.Unlock()
}

// SignUp registers an account, establishes its session, and loads the (new,
// empty) expense collection.
func (a *App) SignUp(ctx context.Context, email, password string) (core.User, error) {
	user, err := a.auth.SignUp(ctx, email, password)
	if err != nil {
		return core.User{}, err
	}
	a.setWorking(a.repo.ForUser(ctx, user.ID))
	return user, nil
}

// LogIn authenticates and loads the user's persisted collection.
func (a *App) LogIn(ctx context.Context, email, password string) (core.User, error) {
	user, err := a.auth.LogIn(ctx, email, password)
	if err != nil {
		return core.User{}, err
	}
	a.setWorking(a.repo.ForUser(ctx, user.ID))
	return user, nil
}

// LogOut tears down the session and clears the working collection. The
// durable copy remains untouched until the user logs back in.
func (a *App) LogOut(ctx context.Context) error {
	if err := a.auth.LogOut(ctx); err != nil {
		return err
	}
	a.setWorking(nil)
	return nil
}

// CurrentUser reports the active session's user, if any.
func (a *App) CurrentUser(ctx context.Context) (core.User, bool) {
	return a.auth.CurrentUser(ctx)
}

// Expenses returns the sorted view of the live collection.
func (a *App) Expenses(by core.SortBy, order core.SortOrder) ([]core.Expense, error) {
	c, err := a.collection()
	if err != nil {
		return nil, err
	}
	return core.Sort(c.List(), by, order), nil
}

// AddExpense validates the draft, appends it with a fresh id, and publishes
// a created event.
func (a *App) AddExpense(ctx context.Context, draft core.Expense) (core.Expense, error) {
	c, err := a.collection()
	if err != nil {
		return core.Expense{}, err
	}
	if err := draft.Validate(); err != nil {
		return core.Expense{}, err
	}
	added := c.Add(ctx, draft)
	a.publish(ctx, c.UserID(), added.ID, events.ActionCreated)
	return added, nil
}

// UpdateExpense replaces an existing expense by id. An unknown id is a
// no-op and publishes nothing.
func (a *App) UpdateExpense(ctx context.Context, e core.Expense) error {
	c, err := a.collection()
	if err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}
	if c.Update(ctx, e) {
		a.publish(ctx, c.UserID(), e.ID, events.ActionUpdated)
	}
	return nil
}

// DeleteExpense removes an expense by id. An absent id is a no-op and
// publishes nothing.
func (a *App) DeleteExpense(ctx context.Context, id string) error {
	c, err := a.collection()
	if err != nil {
		return err
	}
	if c.Delete(ctx, id) {
		a.publish(ctx, c.UserID(), id, events.ActionDeleted)
	}
	return nil
}

// Total sums the live collection.
func (a *App) Total() (core.Money, error) {
	c, err := a.collection()
	if err != nil {
		return core.Money{}, err
	}
	return core.Total(c.List()), nil
}

// Breakdown aggregates the live collection per category.
func (a *App) Breakdown() ([]core.CategoryAmount, error) {
	c, err := a.collection()
	if err != nil {
		return nil, err
	}
	return core.Breakdown(c.List()), nil
}

// ExportCSV writes the live collection as CSV and returns the suggested
// filename for the download.
func (a *App) ExportCSV(w io.Writer) (string, error) {
	c, err := a.collection()
	if err != nil {
		return "", err
	}
	if err := export.WriteCSV(w, c.List()); err != nil {
		return "", err
	}
	return export.Filename(time.Now()), nil
}

func (a *App) publish(ctx context.Context, userID, expenseID, action string) {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.PublishExpenseEvent(ctx, userID, expenseID, action); err != nil {
		slog.WarnContext(ctx, "Failed to publish expense event, continuing",
			"expense_id", expenseID, "action", action, "error", err)
	}
}
