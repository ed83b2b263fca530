package application

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DraftStore keeps form sessions in memory. Drafts idle longer than ttl are dropped by Sweep.
type DraftStore struct {
	mu   sync.RWMutex
	byID map[string]*Draft
	ttl  time.Duration
	now  func() time.Time
}

func NewDraftStore(ttl time.Duration) *DraftStore {
	return &DraftStore{
		byID: make(map[string]*Draft),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *DraftStore) Create() Draft {
	d := NewDraft(uuid.NewString(), s.now())

	s.mu.Lock()
	s.byID[d.ID] = d
	s.mu.Unlock()
	return d.clone()
}

func (s *DraftStore) Get(id string) (Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.byID[id]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	return d.clone(), nil
}

// Update runs fn under the store lock. The returned snapshot reflects any change fn made,
// including recorded field errors, even when fn fails.
func (s *DraftStore) Update(id string, fn func(d *Draft, now time.Time) error) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.byID[id]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	err := fn(d, s.now())
	return d.clone(), err
}

func (s *DraftStore) Delete(id string) {
	s.mu.Lock()
	delete(s.byID, id)
	s.mu.Unlock()
}

// Sweep drops abandoned drafts and returns how many were removed.
func (s *DraftStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, d := range s.byID {
		if d.UpdatedAt.Before(cutoff) {
			delete(s.byID, id)
			n++
		}
	}
	return n
}

func (s *DraftStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
