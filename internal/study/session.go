package study

import (
	"context"
	"time"
)

// Session is one uploaded document and the study aids generated from it.
type Session struct {
	ID           string             `json:"id"`
	DocumentName string             `json:"documentName"`
	DocumentText string             `json:"documentText"`
	CreatedAt    time.Time          `json:"createdAt"`
	Activities   map[Activity]State `json:"activities"`
}

// State returns the activity's state, not_generated when it was never requested.
func (s Session) State(a Activity) State {
	if st, ok := s.Activities[a]; ok && st.Status != "" {
		return st
	}
	return State{Status: StatusNotGenerated}
}

func (s *Session) setState(a Activity, st State) {
	if s.Activities == nil {
		s.Activities = make(map[Activity]State, len(Activities))
	}
	s.Activities[a] = st
}

// SessionRepository abstracts how study sessions are stored (in-memory, Redis).
// Implementations expire sessions after their configured TTL.
type SessionRepository interface {
	Create(ctx context.Context, s Session) error
	// Get returns ErrSessionNotFound for unknown or expired sessions.
	Get(ctx context.Context, id string) (Session, error)
	// Update atomically applies fn to the stored session. When fn returns an
	// error nothing is written and the error is returned unchanged.
	Update(ctx context.Context, id string, fn func(*Session) error) (Session, error)
	Delete(ctx context.Context, id string) error
}
