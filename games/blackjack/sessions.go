package blackjack

import "sync"

// SessionGuard enforces at most one in-flight game per participant. Admit
// is an atomic check-and-insert so two concurrent starts cannot both pass;
// Release is idempotent and must run on every exit path.
type SessionGuard struct {
	mu     sync.Mutex
	active map[int64]struct{}
}

// NewSessionGuard creates an empty guard
func NewSessionGuard() *SessionGuard {
	return &SessionGuard{active: make(map[int64]struct{})}
}

// Admit reserves a session slot for the participant
func (sg *SessionGuard) Admit(participantID int64) error {
	sg.mu.Lock()
	defer sg.mu.Unlock()

	if _, exists := sg.active[participantID]; exists {
		return &AlreadyActiveError{ParticipantID: participantID}
	}
	sg.active[participantID] = struct{}{}
	return nil
}

// Release frees the participant's slot. Releasing an absent participant is
// a no-op.
func (sg *SessionGuard) Release(participantID int64) {
	sg.mu.Lock()
	defer sg.mu.Unlock()
	delete(sg.active, participantID)
}

// Active returns the number of participants mid-session
func (sg *SessionGuard) Active() int {
	sg.mu.Lock()
	defer sg.mu.Unlock()
	return len(sg.active)
}
