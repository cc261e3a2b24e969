package session

import (
	"errors"
	"testing"
	"time"

	"github.com/rpjhariharan/newscraft/pkg/models"
)

func TestRegister(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"valid", "alice", "secret", nil},
		{"empty username", "", "secret", ErrEmptyCredentials},
		{"empty password", "alice", "", ErrEmptyCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			err := s.Register(tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	s := New()
	if err := s.Register("alice", "secret"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if err := s.Register("alice", "other"); !errors.Is(err, ErrDuplicateUsername) {
		t.Errorf("duplicate Register() error = %v, want ErrDuplicateUsername", err)
	}
}

func TestLoginLogout(t *testing.T) {
	s := New()
	if err := s.Register("alice", "secret"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := s.Login("alice", "wrong"); !errors.Is(err, ErrInvalidLogin) {
		t.Errorf("Login() with wrong password error = %v, want ErrInvalidLogin", err)
	}
	if s.Authenticated() {
		t.Error("session should not be authenticated after failed login")
	}

	if err := s.Login("bob", "secret"); !errors.Is(err, ErrInvalidLogin) {
		t.Errorf("Login() with unknown user error = %v, want ErrInvalidLogin", err)
	}

	if err := s.Login("alice", "secret"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if !s.Authenticated() || s.Username() != "alice" {
		t.Error("session should be authenticated as alice")
	}

	s.Logout()
	if s.Authenticated() || s.Username() != "" {
		t.Error("logout should clear the authenticated state")
	}
}

func TestRateLimit(t *testing.T) {
	s := New()
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	for i := 0; i < DailyLimit; i++ {
		if !s.Allow("alice") {
			t.Fatalf("Allow() = false after %d generations, want true", i)
		}
		s.Record("alice")
	}

	// The 11th request within the window must be refused.
	if s.Allow("alice") {
		t.Error("Allow() = true after reaching the daily limit")
	}

	// Another user is unaffected.
	if !s.Allow("bob") {
		t.Error("Allow() for a different user should be true")
	}

	// Within the window the counter stays put.
	current = current.Add(23 * time.Hour)
	if s.Allow("alice") {
		t.Error("Allow() = true before the window elapsed")
	}

	// After more than 24 hours the counter resets before the check.
	current = current.Add(2 * time.Hour)
	if !s.Allow("alice") {
		t.Error("Allow() = false after the rolling window elapsed")
	}
}

func TestHistory(t *testing.T) {
	s := New()

	if _, err := s.Last("alice"); !errors.Is(err, ErrNoHistory) {
		t.Errorf("Last() on empty history error = %v, want ErrNoHistory", err)
	}

	first := models.Entry{ID: "1", Query: "evs", Content: "first"}
	second := models.Entry{ID: "2", Query: "evs", Content: "second"}
	s.Append("alice", first)
	s.Append("alice", second)

	last, err := s.Last("alice")
	if err != nil {
		t.Fatalf("Last() error = %v", err)
	}
	if last.ID != "2" {
		t.Errorf("Last() = %q, want the most recent entry", last.ID)
	}

	history := s.History("alice")
	if len(history) != 2 || history[0].ID != "1" {
		t.Errorf("History() = %v, want ordered copies", history)
	}

	// Another user's history stays separate.
	if len(s.History("bob")) != 0 {
		t.Error("History() for a different user should be empty")
	}
	if _, err := s.Last("bob"); !errors.Is(err, ErrNoHistory) {
		t.Errorf("Last() for a different user error = %v, want ErrNoHistory", err)
	}
}
