// apps/go-server/internal/store/memory.go
//
// In-memory session store for the HTTP surface.
//
// Characteristics:
//   - Stores *game.Session values keyed by ID, each wrapped in a Record
//     that serialises access to the session.
//   - Concurrency-safe via RWMutex on the map (reads shared, writes exclusive).
//   - Sessions idle longer than the TTL are dropped by Sweep.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cryptic/apps/go-server/internal/game"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// Record guards one session. All reads and writes of the session go through
// Do so concurrent requests for the same game are serialised.
type Record struct {
	mu       sync.Mutex
	session  *game.Session
	lastSeen time.Time
}

// Do runs fn with exclusive access to the session.
func (r *Record) Do(fn func(s *game.Session) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.session)
}

// ID returns the session id.
func (r *Record) ID() string { return r.session.ID }

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *game.Session) (*Record, error)

	// Get retrieves a session record by ID and marks it as seen.
	Get(ctx context.Context, id string) (*Record, error)

	// Delete drops a session.
	Delete(ctx context.Context, id string) error

	// Sweep drops sessions idle since before now-TTL and returns how many.
	Sweep(now time.Time) int

	// Len is the number of live sessions.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex
	sessions map[string]*Record
	ttl      time.Duration
	now      func() time.Time
}

// Option configures the memory store.
type Option func(*memory)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option { return func(m *memory) { m.now = now } }

// NewMemoryStore constructs an in-memory Store. A ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration, opts ...Option) Store {
	m := &memory{sessions: make(map[string]*Record), ttl: ttl, now: time.Now}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *memory) Save(ctx context.Context, s *game.Session) (*Record, error) {
	if s == nil || s.ID == "" {
		return nil, errors.New("session has no id")
	}
	rec := &Record{session: s, lastSeen: m.now()}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = rec
	return rec, nil
}

func (m *memory) Get(ctx context.Context, id string) (*Record, error) {
	m.mu.RLock()
	rec, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	now := m.now()
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if m.expired(rec, now) {
		return nil, ErrNotFound
	}
	rec.lastSeen = now
	return rec, nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *memory) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, rec := range m.sessions {
		rec.mu.Lock()
		stale := m.expired(rec, now)
		rec.mu.Unlock()
		if stale {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *memory) expired(rec *Record, now time.Time) bool {
	return m.ttl > 0 && now.Sub(rec.lastSeen) > m.ttl
}

// RunSweeper calls st.Sweep every interval until ctx is done.
func RunSweeper(ctx context.Context, st Store, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := st.Sweep(now); n > 0 {
				log.Info().Int("dropped", n).Int("live", st.Len()).Msg("swept idle sessions")
			}
		}
	}
}
