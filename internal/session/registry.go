package session

import (
	"errors"
	"sync"

	"companion_bot/internal/engine"
	"companion_bot/internal/persona"
)

var (
	// ErrAlreadyOnboarding is returned when onboarding is started for a
	// user who already has a live onboarding or conversation.
	ErrAlreadyOnboarding = errors.New("session already active for user")
	// ErrNoSession is returned when an operation needs a live entry and
	// none exists.
	ErrNoSession = errors.New("no active session for user")
)

// Entry is one user's live state: either an onboarding dialogue or a
// conversation, never both. All message handling for the user runs under
// the entry mutex, so turns apply in strict arrival order.
type Entry struct {
	mu         sync.Mutex
	Onboarding *persona.Onboarding
	Engine     *engine.Conversation
}

// Promote replaces the onboarding dialogue with a finished conversation.
// Caller holds the entry lock (inside With).
func (e *Entry) Promote(conv *engine.Conversation) {
	e.Onboarding = nil
	e.Engine = conv
}

// Registry maps user identifiers to their single live entry. Lookups and
// inserts are safe under concurrent access from different user workers;
// cross-user operations share no locks beyond the map itself.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// StartOnboarding lazily creates an entry in the onboarding state and
// returns the first prompt. Fails with ErrAlreadyOnboarding if the user
// already has a live entry of either kind.
func (r *Registry) StartOnboarding(userID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[userID]; ok {
		return "", ErrAlreadyOnboarding
	}
	ob := persona.NewOnboarding()
	r.entries[userID] = &Entry{Onboarding: ob}
	return ob.Prompt(), nil
}

// Restore attaches a conversation rebuilt from persistence. Fails with
// ErrAlreadyOnboarding if the user already has a live entry of either kind.
func (r *Registry) Restore(userID string, conv *engine.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[userID]; ok {
		return ErrAlreadyOnboarding
	}
	r.entries[userID] = &Entry{Engine: conv}
	return nil
}

// Exists reports whether the user has a live entry.
func (r *Registry) Exists(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[userID]
	return ok
}

// HasConversation reports whether the user's entry holds a conversation.
func (r *Registry) HasConversation(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[userID]
	return ok && e.Engine != nil
}

// Remove tears down the user's entry, whichever kind it is.
func (r *Registry) Remove(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, userID)
}

// With runs fn with the user's entry held under its per-user lock. Two
// concurrent messages from the same user cannot interleave state
// transitions or memory mutations; different users proceed independently.
func (r *Registry) With(userID string, fn func(*Entry) error) error {
	r.mu.RLock()
	e, ok := r.entries[userID]
	r.mu.RUnlock()
	if !ok {
		return ErrNoSession
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e)
}

// ForEachConversation visits every live conversation under its entry lock.
// Used by the periodic snapshot task.
func (r *Registry) ForEachConversation(fn func(userID string, conv *engine.Conversation)) {
	r.mu.RLock()
	snapshot := make(map[string]*Entry, len(r.entries))
	for id, e := range r.entries {
		snapshot[id] = e
	}
	r.mu.RUnlock()

	for id, e := range snapshot {
		e.mu.Lock()
		if e.Engine != nil {
			fn(id, e.Engine)
		}
		e.mu.Unlock()
	}
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
