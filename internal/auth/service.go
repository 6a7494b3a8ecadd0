// Package auth registers and authenticates users against the durable
// credential table and maintains the volatile session record.
//
// Credentials are stored in plaintext: this mirrors the product's explicit
// local-simulation model, not an oversight. The session lives in a separate
// volatile store so registered accounts outlive a restart while the active
// login does not.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"trijoshh/internal/core"
	"trijoshh/internal/kv"
)

const (
	// UsersKey is the fixed durable key holding the account table.
	UsersKey = "trijoshh_users"
	// SessionKey is the fixed volatile key holding the active login.
	SessionKey = "trijoshh_currentUser"
)

// storedCredential is a user plus their plaintext password. It never leaves
// this package.
type storedCredential struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Service authenticates users. The durable store must survive restarts; the
// session store must not.
type Service struct {
	durable kv.Store
	session kv.Store
	newID   func() string
}

func NewService(durable, session kv.Store) *Service {
	return &Service{
		durable: durable,
		session: session,
		newID:   uuid.NewString,
	}
}

// SignUp registers a new account and establishes a session for it.
// The returned user never carries the password.
func (s *Service) SignUp(ctx context.Context, email, password string) (core.User, error) {
	creds, err := s.loadCredentials(ctx)
	if err != nil {
		return core.User{}, fmt.Errorf("load accounts: %w", err)
	}

	for _, c := range creds {
		if strings.EqualFold(c.Email, email) {
			return core.User{}, ErrDuplicateAccount
		}
	}

	cred := storedCredential{
		ID:       s.newID(),
		Email:    email,
		Password: password,
	}
	creds = append(creds, cred)
	if err := s.saveCredentials(ctx, creds); err != nil {
		return core.User{}, fmt.Errorf("save accounts: %w", err)
	}

	user := core.User{ID: cred.ID, Email: cred.Email}
	if err := s.establishSession(ctx, user); err != nil {
		return core.User{}, err
	}

	slog.InfoContext(ctx, "Account created", "user_id", user.ID)
	return user, nil
}

// LogIn authenticates against the stored credentials. Email matching is
// case-insensitive; the password must match exactly.
func (s *Service) LogIn(ctx context.Context, email, password string) (core.User, error) {
	creds, err := s.loadCredentials(ctx)
	if err != nil {
		return core.User{}, fmt.Errorf("load accounts: %w", err)
	}

	for _, c := range creds {
		if strings.EqualFold(c.Email, email) {
			if c.Password != password {
				return core.User{}, ErrInvalidCredentials
			}
			user := core.User{ID: c.ID, Email: c.Email}
			if err := s.establishSession(ctx, user); err != nil {
				return core.User{}, err
			}
			slog.InfoContext(ctx, "User logged in", "user_id", user.ID)
			return user, nil
		}
	}

	return core.User{}, ErrInvalidCredentials
}

// LogOut clears the session. It is idempotent.
func (s *Service) LogOut(ctx context.Context) error {
	if err := s.session.Delete(ctx, SessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// CurrentUser reads the active session. Missing, unreadable, or malformed
// session data all report an absent session, never an error.
func (s *Service) CurrentUser(ctx context.Context) (core.User, bool) {
	data, ok, err := s.session.Get(ctx, SessionKey)
	if err != nil {
		slog.WarnContext(ctx, "Session read failed, treating as logged out", "error", err)
		return core.User{}, false
	}
	if !ok {
		return core.User{}, false
	}

	var user core.User
	if err := json.Unmarshal(data, &user); err != nil || user.ID == "" {
		slog.WarnContext(ctx, "Malformed session data, treating as logged out", "error", err)
		return core.User{}, false
	}
	return user, true
}

func (s *Service) establishSession(ctx context.Context, user core.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.session.Set(ctx, SessionKey, data); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *Service) loadCredentials(ctx context.Context) ([]storedCredential, error) {
	data, ok, err := s.durable.Get(ctx, UsersKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var creds []storedCredential
	if err := json.Unmarshal(data, &creds); err != nil {
		// A corrupt account table would otherwise lock everyone out of
		// sign-up. Degrade to empty and log, matching the storage policy.
		slog.WarnContext(ctx, "Malformed account table, treating as empty", "error", err)
		return nil, nil
	}
	return creds, nil
}

func (s *Service) saveCredentials(ctx context.Context, creds []storedCredential) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return s.durable.Set(ctx, UsersKey, data)
}
