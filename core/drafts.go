package core

import (
	"sync"

	"pickle/models"
)

// DraftStore holds the per-tab draft notes of in-flight captures. Drafts
// are addressed by tab id: written only by the orchestrator, read by the
// overlay UI. Readers tolerate eventually-consistent reads; the IsLoading
// flag signals staleness.
type DraftStore struct {
	mu     sync.RWMutex
	drafts map[int64]models.DraftNote
}

func NewDraftStore() *DraftStore {
	return &DraftStore{drafts: make(map[int64]models.DraftNote)}
}

// Put writes the draft for a tab, superseding any prior draft.
func (s *DraftStore) Put(draft models.DraftNote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draft.TabID] = draft
}

// Get returns the draft for a tab, if one exists.
func (s *DraftStore) Get(tabID int64) (models.DraftNote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	draft, ok := s.drafts[tabID]
	return draft, ok
}

// Update applies fn to the draft for a tab, if one exists.
func (s *DraftStore) Update(tabID int64, fn func(*models.DraftNote)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[tabID]
	if !ok {
		return false
	}
	fn(&draft)
	s.drafts[tabID] = draft
	return true
}

// Remove drops the draft for a tab (after save or discard).
func (s *DraftStore) Remove(tabID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, tabID)
}
