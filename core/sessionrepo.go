package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pickle/logger"
	"pickle/models"
)

// SessionRepo is the extension-side session cache: an explicit repository
// with change notification instead of an ambient storage key. The cached
// session is persisted as a JSON state file so it survives restarts; every
// mutation (including Clear) notifies registered listeners, which covers
// multi-consumer consistency the way the extension's storage change
// listener did.
type SessionRepo struct {
	path string

	mu        sync.RWMutex
	session   *models.Session
	listeners []func(*models.Session)
}

func NewSessionRepo(path string) (*SessionRepo, error) {
	repo := &SessionRepo{path: path}
	if err := repo.load(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *SessionRepo) load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading session state file %s: %w", r.path, err)
	}
	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		logger.Warn("SessionRepo: discarding unreadable session state file %s: %v", r.path, err)
		return nil
	}
	r.session = &session
	return nil
}

func (r *SessionRepo) persist() {
	if r.path == "" {
		return
	}
	if r.session == nil {
		if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
			logger.Warn("SessionRepo: failed to remove session state file: %v", err)
		}
		return
	}
	data, err := json.MarshalIndent(r.session, "", "  ")
	if err != nil {
		logger.Error("SessionRepo: failed to marshal session state: %v", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0750); err != nil {
		logger.Warn("SessionRepo: failed to create session state directory: %v", err)
		return
	}
	if err := os.WriteFile(r.path, data, 0600); err != nil {
		logger.Error("SessionRepo: failed to write session state file: %v", err)
	}
}

func (r *SessionRepo) snapshotListeners() []func(*models.Session) {
	listeners := make([]func(*models.Session), len(r.listeners))
	copy(listeners, r.listeners)
	return listeners
}

// Get returns the cached session, or nil when signed out.
func (r *SessionRepo) Get() *models.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.session == nil {
		return nil
	}
	copied := *r.session
	return &copied
}

// Set replaces the cached session and notifies listeners.
func (r *SessionRepo) Set(session models.Session) {
	r.mu.Lock()
	r.session = &session
	r.persist()
	copied := session
	listeners := r.snapshotListeners()
	r.mu.Unlock()
	for _, listener := range listeners {
		listener(&copied)
	}
}

// Clear removes the cached session (sign-out) and notifies listeners with
// a nil session.
func (r *SessionRepo) Clear() {
	r.mu.Lock()
	r.session = nil
	r.persist()
	listeners := r.snapshotListeners()
	r.mu.Unlock()
	for _, listener := range listeners {
		listener(nil)
	}
}

// OnChange registers a listener called after every Set and Clear. The
// listener receives the new session, nil on Clear.
func (r *SessionRepo) OnChange(listener func(*models.Session)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, listener)
}
