package auth

import (
	"context"
	"errors"
	"testing"

	"trijoshh/internal/kv"
)

func newTestService() *Service {
	return NewService(kv.NewMemoryStore(), kv.NewMemoryStore())
}

func TestSignUpAndCurrentUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	user, err := svc.SignUp(ctx, "a@example.com", "secret")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if user.ID == "" || user.Email != "a@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	current, ok := svc.CurrentUser(ctx)
	if !ok || current != user {
		t.Fatalf("expected session for %+v, got %+v ok=%v", user, current, ok)
	}
}

func TestSignUpDuplicateEmailCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if _, err := svc.SignUp(ctx, "a@example.com", "secret"); err != nil {
		t.Fatalf("first sign up: %v", err)
	}
	_, err := svc.SignUp(ctx, "A@Example.COM", "other")
	if !errors.Is(err, ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}
}

func TestLogIn(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	if _, err := svc.SignUp(ctx, "a@example.com", "secret"); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if err := svc.LogOut(ctx); err != nil {
		t.Fatalf("log out: %v", err)
	}

	cases := []struct {
		name     string
		email    string
		password string
		ok       bool
	}{
		{"exact match", "a@example.com", "secret", true},
		{"email case-insensitive", "A@EXAMPLE.com", "secret", true},
		{"wrong password", "a@example.com", "Secret", false},
		{"unknown email", "b@example.com", "secret", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user, err := svc.LogIn(ctx, tc.email, tc.password)
			if tc.ok {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				if user.Email != "a@example.com" {
					t.Fatalf("unexpected user: %+v", user)
				}
				return
			}
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestLogOutIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if err := svc.LogOut(ctx); err != nil {
		t.Fatalf("log out with no session: %v", err)
	}

	if _, err := svc.SignUp(ctx, "a@example.com", "secret"); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if err := svc.LogOut(ctx); err != nil {
		t.Fatalf("log out: %v", err)
	}
	if _, ok := svc.CurrentUser(ctx); ok {
		t.Fatal("session survived log out")
	}
	if err := svc.LogOut(ctx); err != nil {
		t.Fatalf("second log out: %v", err)
	}
}

func TestCurrentUserMalformedSession(t *testing.T) {
	ctx := context.Background()
	session := kv.NewMemoryStore()
	svc := NewService(kv.NewMemoryStore(), session)

	if err := session.Set(ctx, SessionKey, []byte("{not json")); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	if _, ok := svc.CurrentUser(ctx); ok {
		t.Fatal("malformed session reported as logged in")
	}
}

func TestAccountsSurviveSessionStore(t *testing.T) {
	ctx := context.Background()
	durable := kv.NewMemoryStore()

	svc := NewService(durable, kv.NewMemoryStore())
	if _, err := svc.SignUp(ctx, "a@example.com", "secret"); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	// A fresh session store models a new browser session: the account is
	// still there, the login is not.
	restarted := NewService(durable, kv.NewMemoryStore())
	if _, ok := restarted.CurrentUser(ctx); ok {
		t.Fatal("session leaked into the new scope")
	}
	if _, err := restarted.LogIn(ctx, "a@example.com", "secret"); err != nil {
		t.Fatalf("log in after restart: %v", err)
	}
}
