package history

import (
	"log"
	"sort"
	"sync"
	"time"

	"retail-assistant/internal/storage"
)

// Session is the chat history owned by one user session.
// It starts from what the store holds and writes the whole sequence back on every append.
type Session struct {
	mu    sync.Mutex
	store storage.Store
	turns []storage.ChatTurn
	now   func() time.Time
}

func NewSession(store storage.Store) *Session {
	return &Session{store: store, turns: store.Load(), now: time.Now}
}

// Append records a turn and persists the full history.
// A failed save is logged; the turn stays in memory.
func (s *Session) Append(role, message string, response *string) storage.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	turn := storage.ChatTurn{
		Role:      role,
		Message:   message,
		Response:  response,
		Timestamp: s.now().Format(time.RFC3339Nano),
	}
	s.turns = append(s.turns, turn)
	if err := s.store.Save(s.turns); err != nil {
		log.Printf("Error saving chat history: %v", err)
	}
	return turn
}

func (s *Session) Turns() []storage.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]storage.ChatTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// DefaultIdleTimeout is how long a session may go unused before Manager drops it.
const DefaultIdleTimeout = 30 * time.Minute

type managedSession struct {
	session  *Session
	lastUsed time.Time
}

// Manager hands out sessions by key (web cookie, telegram chat id).
// Sessions that have not been fetched for the idle timeout are dropped on the next Get.
type Manager struct {
	mu       sync.Mutex
	store    storage.Store
	sessions map[string]*managedSession
	idle     time.Duration
	now      func() time.Time
}

func NewManager(store storage.Store) *Manager {
	return &Manager{
		store:    store,
		sessions: make(map[string]*managedSession),
		idle:     DefaultIdleTimeout,
		now:      time.Now,
	}
}

// SetIdleTimeout changes the eviction window; zero or less keeps sessions forever.
func (m *Manager) SetIdleTimeout(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idle = d
}

func (m *Manager) Get(key string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.evictIdle(now)
	ms, ok := m.sessions[key]
	if !ok {
		ms = &managedSession{session: NewSession(m.store)}
		m.sessions[key] = ms
	}
	ms.lastUsed = now
	return ms.session
}

func (m *Manager) Reset(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
}

// Len reports how many sessions are currently held.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) evictIdle(now time.Time) {
	if m.idle <= 0 {
		return
	}
	for key, ms := range m.sessions {
		if now.Sub(ms.lastUsed) > m.idle {
			delete(m.sessions, key)
		}
	}
}

// SortNewestFirst returns a copy of turns ordered by timestamp, latest first.
// Unparseable timestamps are compared as strings.
func SortNewestFirst(turns []storage.ChatTurn) []storage.ChatTurn {
	out := make([]storage.ChatTurn, len(turns))
	copy(out, turns)
	sort.SliceStable(out, func(i, j int) bool {
		return newer(out[i].Timestamp, out[j].Timestamp)
	})
	return out
}

func newer(a, b string) bool {
	ta, errA := time.Parse(time.RFC3339Nano, a)
	tb, errB := time.Parse(time.RFC3339Nano, b)
	if errA == nil && errB == nil {
		return ta.After(tb)
	}
	return a > b
}
