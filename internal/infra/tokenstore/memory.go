package tokenstore

import (
	"sync"

	"github.com/sihhealth/healthbot/internal/domain"
	"github.com/sihhealth/healthbot/internal/ports"
)

// MemoryStore keeps the session for the life of the process only
// (used by --no-persist and tests).
type MemoryStore struct {
	mu   sync.Mutex
	sess domain.Session

	Saves  int
	Clears int
}

func NewMemoryStore(initial domain.Session) *MemoryStore {
	return &MemoryStore{sess: initial}
}

var _ ports.TokenStore = (*MemoryStore)(nil)

func (s *MemoryStore) Load() (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess, nil
}

func (s *MemoryStore) Save(sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = sess
	s.Saves++
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = domain.Session{}
	s.Clears++
	return nil
}

// Snapshot returns the stored session and counters under the lock.
func (s *MemoryStore) Snapshot() (domain.Session, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess, s.Saves, s.Clears
}
