// Package session tracks authentication state, per-user generation
// quotas on a rolling 24-hour window, and the generation history used
// for refinement. State lives in memory for the lifetime of the
// process; accounts do not survive a restart.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/rpjhariharan/newscraft/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

// Quota limits and window for the rate controller.
const (
	DailyLimit  = 10
	ResetWindow = 24 * time.Hour
)

var (
	ErrEmptyCredentials  = errors.New("username and password are required")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrInvalidLogin      = errors.New("invalid username or password")
	ErrNotAuthenticated  = errors.New("not logged in")
	ErrRateLimited       = errors.New("daily generation limit reached")
	ErrNoHistory         = errors.New("no generated content to refine")
)

type quota struct {
	count     int
	lastReset time.Time
}

// Session is the explicit state object for user accounts, quotas and
// per-user generation history.
type Session struct {
	mu            sync.Mutex
	users         map[string][]byte // username -> bcrypt hash
	quotas        map[string]*quota
	history       map[string][]models.Entry
	authenticated bool
	username      string
	now           func() time.Time
}

// New creates an empty, unauthenticated session.
func New() *Session {
	return &Session{
		users:   make(map[string][]byte),
		quotas:  make(map[string]*quota),
		history: make(map[string][]models.Entry),
		now:     time.Now,
	}
}

// Register adds a username/password pair. Duplicates and empty fields
// are rejected.
func (s *Session) Register(username, password string) error {
	if username == "" || password == "" {
		return ErrEmptyCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.users[username] = hash
	return nil
}

// Login authenticates against the registered credential mapping.
func (s *Session) Login(username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, ok := s.users[username]
	if !ok {
		return ErrInvalidLogin
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return ErrInvalidLogin
	}

	s.authenticated = true
	s.username = username
	return nil
}

// Logout clears the authenticated state.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = false
	s.username = ""
}

// Authenticated reports whether a user is logged in.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Username returns the logged-in username, or empty.
func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// Allow reports whether the user may generate content. The counter
// resets to zero once more than the reset window has elapsed since the
// last reset, before the limit is checked.
func (s *Session) Allow(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allowLocked(username)
}

func (s *Session) allowLocked(username string) bool {
	q, ok := s.quotas[username]
	if !ok {
		q = &quota{lastReset: s.now()}
		s.quotas[username] = q
	}
	if s.now().Sub(q.lastReset) > ResetWindow {
		q.count = 0
		q.lastReset = s.now()
	}
	return q.count < DailyLimit
}

// Record counts one successful generation (including refinements)
// against the user's quota.
func (s *Session) Record(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.quotas[username]
	if !ok {
		q = &quota{lastReset: s.now()}
		s.quotas[username] = q
	}
	q.count++
}

// Append adds an entry to the user's generation history.
func (s *Session) Append(username string, entry models.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[username] = append(s.history[username], entry)
}

// Last returns the user's most recent entry, the refinement target.
func (s *Session) Last(username string) (models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.history[username]
	if len(entries) == 0 {
		return models.Entry{}, ErrNoHistory
	}
	return entries[len(entries)-1], nil
}

// History returns a copy of the user's generation history in order.
func (s *Session) History(username string) []models.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Entry, len(s.history[username]))
	copy(out, s.history[username])
	return out
}
