// Package session provides view sessions: the single piece of mutable state
// in domainmap. A session holds the currently focused node ID for one viewer
// of one dataset, and mediates the search-to-focus and click-to-focus
// transitions the renderer drives.
//
// The node table itself is immutable after assembly; only the focus field
// changes, and every read-modify-write of it is mutex-guarded so a
// multi-threaded host (the HTTP serve mode) cannot interleave transitions
// within one logical request.
//
// Storage backends:
//   - memory: in-process store for serve mode and tests
//   - file: JSON files under the user config dir, so consecutive CLI
//     invocations share focus state
package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkoller/domainmap/pkg/hierarchy"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")
)

// DefaultTTL is the default session lifetime.
const DefaultTTL = 24 * time.Hour

// Session is one viewer's navigation state for one dataset.
// The zero value is not usable - use New.
type Session struct {
	ID        string    `json:"id"`
	Dataset   string    `json:"dataset"` // content hash of the workbook
	Focus     string    `json:"focus,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	mu sync.Mutex
}

// New creates a session for the given dataset hash with a random ID.
func New(dataset string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Dataset:   dataset,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the session has exceeded its TTL.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// FocusID returns the current focus, or "" when none is set.
func (s *Session) FocusID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Focus
}

// SetFocus records a selection event carrying the clicked node's ID.
// An empty ID is a no-op, per the renderer event contract. Returns whether
// the focus changed.
func (s *Session) SetFocus(id string) bool {
	if id == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Focus == id {
		return false
	}
	s.Focus = id
	return true
}

// Clear resets the focus; the next resolver pass renders the full tree with
// every node tagged Other.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Focus = ""
}

// ResolveSearch matches term case-insensitively against all node labels and,
// on at least one match, focuses the first match in table iteration order.
// On no match the focus is left unchanged, never an error. Returns the
// focused ID and whether anything matched.
func (s *Session) ResolveSearch(term string, t *hierarchy.Tree) (string, bool) {
	if strings.TrimSpace(term) == "" {
		return "", false
	}
	id, ok := t.SearchLabel(term)
	if !ok {
		return "", false
	}
	s.SetFocus(id)
	return id, true
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(id string) (*Session, error)

	// Set stores a session.
	Set(s *Session) error

	// Delete removes a session.
	Delete(id string) error

	// Cleanup removes expired sessions.
	Cleanup() error
}
