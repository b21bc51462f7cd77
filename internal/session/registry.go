// Package session tracks the remote crop sessions served over SSH.
package session

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// ID uniquely identifies a session (one SSH connection).
type ID string

// Info describes an active session.
type Info struct {
	ID      ID
	User    string
	Remote  string
	Started time.Time
	Source  string // Image being cropped, empty while in the menu
}

// ErrFull is returned by Register when the registry is at capacity.
var ErrFull = errors.New("session: too many active sessions")

// Registry tracks active sessions.
// Thread-safe for concurrent access.
type Registry struct {
	mu       sync.RWMutex
	sessions map[ID]Info
	limit    int
}

// NewRegistry creates a registry admitting at most limit sessions.
// A limit of 0 or less means unlimited.
func NewRegistry(limit int) *Registry {
	return &Registry{
		sessions: make(map[ID]Info),
		limit:    limit,
	}
}

// Register adds a session. Registering an ID again replaces its info.
func (r *Registry) Register(info Info) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[info.ID]; !ok && r.limit > 0 && len(r.sessions) >= r.limit {
		return ErrFull
	}
	r.sessions[info.ID] = info
	return nil
}

// Unregister removes a session from the registry.
func (r *Registry) Unregister(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// SetSource records which image a session is cropping.
// Unknown IDs are ignored.
func (r *Registry) SetSource(id ID, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if info, ok := r.sessions[id]; ok {
		info.Source = source
		r.sessions[id] = info
	}
}

// Get retrieves a session by ID.
func (r *Registry) Get(id ID) (Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.sessions[id]
	return info, ok
}

// Count returns the number of registered sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// List returns all sessions, oldest first.
func (r *Registry) List() []Info {
	r.mu.RLock()
	list := make([]Info, 0, len(r.sessions))
	for _, info := range r.sessions {
		list = append(list, info)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].Started.Equal(list[j].Started) {
			return list[i].ID < list[j].ID
		}
		return list[i].Started.Before(list[j].Started)
	})
	return list
}
