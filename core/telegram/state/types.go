package state

import "time"

// Step identifies the position of a user inside a scripted conversation.
type Step string

// StepNone is both the initial state and the state a finished conversation resets to.
const StepNone Step = "none"

// Session stores conversation step and collected answers for a user.
type Session struct {
	UserID    int64
	Step      Step
	Answers   map[string]string
	UpdatedAt time.Time
}

// Answer returns the collected value for key.
func (s Session) Answer(key string) (string, bool) {
	v, ok := s.Answers[key]
	return v, ok
}

// Clone returns a deep copy so callers never share the answers map.
func (s Session) Clone() Session {
	out := s
	out.Answers = make(map[string]string, len(s.Answers))
	for k, v := range s.Answers {
		out.Answers[k] = v
	}
	return out
}

// Store keeps one session per user. Updates for one user are expected to
// arrive in order; distinct users may be served concurrently.
type Store interface {
	// Get returns the session for userID, or a fresh StepNone session.
	Get(userID int64) Session
	Set(userID int64, s Session)
	Clear(userID int64)
	// Active reports how many users currently have a session stored.
	Active() int
}
