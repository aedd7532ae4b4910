package state

import (
	"sync"
	"sync/atomic"
	"time"
)

// MemoryStore is an in-memory Store. Sessions do not survive a restart.
type MemoryStore struct {
	sessions sync.Map // int64 -> Session
	active   atomic.Int64
	now      func() time.Time
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// Get returns a copy of the stored session or a fresh StepNone session.
func (m *MemoryStore) Get(userID int64) Session {
	if v, ok := m.sessions.Load(userID); ok {
		return v.(Session).Clone()
	}
	return Session{UserID: userID, Step: StepNone, Answers: make(map[string]string)}
}

// Set stores a copy of s for userID. A StepNone session with no answers is
// equivalent to no session and is cleared instead.
func (m *MemoryStore) Set(userID int64, s Session) {
	if s.Step == "" {
		s.Step = StepNone
	}
	if s.Step == StepNone && len(s.Answers) == 0 {
		m.Clear(userID)
		return
	}
	s = s.Clone()
	s.UserID = userID
	s.UpdatedAt = m.now()
	if _, loaded := m.sessions.Swap(userID, s); !loaded {
		m.active.Add(1)
	}
}

// Clear removes the session for userID.
func (m *MemoryStore) Clear(userID int64) {
	if _, loaded := m.sessions.LoadAndDelete(userID); loaded {
		m.active.Add(-1)
	}
}

// Active reports the number of stored sessions.
func (m *MemoryStore) Active() int {
	return int(m.active.Load())
}
