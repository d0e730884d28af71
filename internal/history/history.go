package history

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"
)

// Entry is one answered question about a letter.
type Entry struct {
	ID        string    `json:"id"`
	LetterID  string    `json:"letter_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats summarizes the store's contents.
type Stats struct {
	Insights int `json:"total_insights"`
	Letters  int `json:"letters_with_history"`
}

// Store is an in-memory insight cache and per-letter question history.
// Repeating a question about the same letter returns the cached answer
// instead of a second model call. Nothing survives a restart; a bounded
// entry count keeps memory flat, evicting oldest first.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]*Entry
	byLetter map[string][]string
	order    []string
	limit    int
}

func New(limit int) *Store {
	return &Store{
		entries:  make(map[string]*Entry),
		byLetter: make(map[string][]string),
		limit:    limit,
	}
}

// key hashes the normalized question under the letter id, the same lookup
// shape as caching by (letter, question) pairs.
func key(letterID, question string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(question))))
	return letterID + ":" + hex.EncodeToString(sum[:])
}

// Get returns the cached answer for a question about a letter, if any.
func (s *Store) Get(letterID, question string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key(letterID, question)]
	if !ok {
		return nil, false
	}
	copied := *e
	return &copied, true
}

// Put records an answered question, replacing any previous answer to the
// same question about the same letter.
func (s *Store) Put(letterID, question, answer, model string) *Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(letterID, question)
	if existing, ok := s.entries[k]; ok {
		existing.Answer = answer
		existing.Model = model
		existing.CreatedAt = time.Now()
		copied := *existing
		return &copied
	}

	e := &Entry{
		ID:        k,
		LetterID:  letterID,
		Question:  strings.TrimSpace(question),
		Answer:    answer,
		Model:     model,
		CreatedAt: time.Now(),
	}
	s.entries[k] = e
	s.byLetter[letterID] = append(s.byLetter[letterID], k)
	s.order = append(s.order, k)

	if s.limit > 0 && len(s.order) > s.limit {
		s.evictOldest()
	}

	copied := *e
	return &copied
}

// History returns a letter's answered questions, newest first.
func (s *Store) History(letterID string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := s.byLetter[letterID]
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		if e, ok := s.entries[k]; ok {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Delete removes one history entry. Returns false when the entry does not
// exist under that letter.
func (s *Store) Delete(letterID, entryID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[entryID]
	if !ok || e.LetterID != letterID {
		return false
	}
	s.remove(entryID)
	return true
}

// Stats reports cache contents.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	letters := 0
	for _, keys := range s.byLetter {
		if len(keys) > 0 {
			letters++
		}
	}
	return Stats{Insights: len(s.entries), Letters: letters}
}

// Clear drops everything.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*Entry)
	s.byLetter = make(map[string][]string)
	s.order = nil
}

func (s *Store) evictOldest() {
	if len(s.order) == 0 {
		return
	}
	s.remove(s.order[0])
}

// remove must be called with the write lock held.
func (s *Store) remove(k string) {
	e, ok := s.entries[k]
	if !ok {
		return
	}
	delete(s.entries, k)

	keys := s.byLetter[e.LetterID]
	for i, kk := range keys {
		if kk == k {
			s.byLetter[e.LetterID] = append(keys[:i], keys[i+1:]...)
			break
		}
	}
	if len(s.byLetter[e.LetterID]) == 0 {
		delete(s.byLetter, e.LetterID)
	}

	for i, kk := range s.order {
		if kk == k {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
