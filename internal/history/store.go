// internal/history/store.go
package history

import (
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultMaxEntries caps the log length
	DefaultMaxEntries = 10
	// DefaultKey names the persisted blob
	DefaultKey = "ezquery_history"
)

// Store manages the bounded, de-duplicated query history log.
// The log is ordered most-recent-first.
type Store struct {
	mu      sync.Mutex
	blobs   BlobStore
	key     string
	max     int
	entries []Entry
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

// Option configures a Store
type Option func(*Store)

// WithMaxEntries sets the log cap. Non-positive values are ignored.
func WithMaxEntries(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.max = n
		}
	}
}

// WithKey sets the blob key the log is persisted under
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for persistence failures
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a history store persisting through blobs.
// Call Load to restore a previously saved log.
func NewStore(blobs BlobStore, opts ...Option) *Store {
	s := &Store{
		blobs:  blobs,
		key:    DefaultKey,
		max:    DefaultMaxEntries,
		logger: zap.NewNop(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the blob store if it holds resources
func (s *Store) Close() error {
	if c, ok := s.blobs.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Load restores the log from the blob store. A missing or malformed blob
// yields an empty log; the failure is logged, never returned.
func (s *Store) Load() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil

	raw, err := s.blobs.Get(s.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("history: read failed, starting empty", zap.Error(err))
		}
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.logger.Warn("history: stored log is malformed, starting empty", zap.Error(err))
		return nil
	}

	s.entries = dedupe(entries, s.max)
	return s.snapshot()
}

// Record appends a new entry for sql. Any older entry with identical text is
// removed first, so repeated queries move to the front.
func (s *Store) Record(sql string, status Status) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := Entry{
		ID:        s.newID(),
		SQL:       sql,
		Timestamp: s.now(),
		Status:    status,
	}

	next := make([]Entry, 0, len(s.entries)+1)
	next = append(next, entry)
	for _, e := range s.entries {
		if e.SQL != sql {
			next = append(next, e)
		}
	}
	if len(next) > s.max {
		next = next[:s.max]
	}
	s.entries = next

	s.save()
	return entry
}

// Clear empties the log and removes the persisted blob
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	if err := s.blobs.Remove(s.key); err != nil {
		s.logger.Warn("history: remove failed", zap.Error(err))
	}
}

// Entries returns a copy of the log, most recent first
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Get returns the entry with the given id
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Len returns the number of entries
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// save serializes the full log. Caller holds mu.
func (s *Store) save() {
	entries := s.entries
	if entries == nil {
		entries = []Entry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		s.logger.Warn("history: encode failed", zap.Error(err))
		return
	}
	if err := s.blobs.Set(s.key, string(b)); err != nil {
		s.logger.Warn("history: write failed", zap.Error(err))
	}
}

func (s *Store) snapshot() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// dedupe enforces log invariants on data read back from storage
func dedupe(entries []Entry, max int) []Entry {
	seen := make(map[string]bool, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if seen[e.SQL] {
			continue
		}
		seen[e.SQL] = true
		out = append(out, e)
		if len(out) == max {
			break
		}
	}
	return out
}
