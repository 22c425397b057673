package notifications

import "time"

// State is a notification lifecycle state.
type State string

const (
	StatePending  State = "pendiente"
	StateViewed   State = "vista"
	StateAccepted State = "aceptada"
	StateRejected State = "rechazada"
)

// Notification is a per-expert alert for one expert match. ViewedAt
// and RespondedAt are each set exactly once, on the first transition
// into their state.
type Notification struct {
	ID          string
	ExpertID    string
	ProjectID   string
	MatchID     string
	Score       int
	State       State
	ViewedAt    *time.Time
	RespondedAt *time.Time
	CreatedAt   time.Time
}
