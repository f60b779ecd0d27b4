package tokenstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sihhealth/healthbot/internal/domain"
	"github.com/sihhealth/healthbot/internal/ports"
)

// Keys under which the tokens are persisted.
const (
	KeyAccess  = "access"
	KeyRefresh = "refresh"
)

// JSONStore keeps the session in a single small JSON file:
//
//	{"access": "...", "refresh": "...", "saved_at": "..."}
//
// Absence of the file, or of an entry, means no session.
type JSONStore struct {
	path string
	now  func() time.Time

	mu sync.Mutex
}

type Option func(*JSONStore)

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

func NewJSONStore(path string, opts ...Option) *JSONStore {
	s := &JSONStore{
		path: filepath.Clean(path),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.TokenStore = (*JSONStore)(nil)

// Path returns the file backing the store.
func (s *JSONStore) Path() string { return s.path }

func (s *JSONStore) Load() (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Session{}, nil
		}
		return domain.Session{}, &domain.OpError{
			Op:   "tokenstore.read",
			Kind: domain.KindExecution,
			Path: s.path,
			Err:  err,
		}
	}

	var raw map[string]string
	if err := json.Unmarshal(b, &raw); err != nil {
		return domain.Session{}, &domain.OpError{
			Op:   "tokenstore.unmarshal",
			Kind: domain.KindInvalidConfig,
			Path: s.path,
			Err:  err,
		}
	}

	return domain.Session{
		AccessToken:  raw[KeyAccess],
		RefreshToken: raw[KeyRefresh],
	}, nil
}

func (s *JSONStore) Save(sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return &domain.OpError{
			Op:   "tokenstore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	payload := map[string]string{
		"saved_at": s.now().UTC().Format(time.RFC3339),
	}
	if sess.AccessToken != "" {
		payload[KeyAccess] = sess.AccessToken
	}
	if sess.RefreshToken != "" {
		payload[KeyRefresh] = sess.RefreshToken
	}

	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return &domain.OpError{
			Op:   "tokenstore.marshal",
			Kind: domain.KindExecution,
			Path: s.path,
			Err:  err,
		}
	}

	// Atomic-ish write: tmp then rename.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return &domain.OpError{
			Op:   "tokenstore.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{
			Op:   "tokenstore.rename",
			Kind: domain.KindExecution,
			Path: s.path,
			Err:  err,
		}
	}
	return nil
}

func (s *JSONStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &domain.OpError{
			Op:   "tokenstore.remove",
			Kind: domain.KindExecution,
			Path: s.path,
			Err:  err,
		}
	}
	return nil
}
