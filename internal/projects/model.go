package projects

import "time"

// State is a project lifecycle state. Values are the platform's
// canonical Spanish identifiers persisted in storage.
type State string

const (
	StateApproval   State = "aprobacion"
	StateWaiting    State = "en_espera"
	StatePublished  State = "publicado"
	StateInProgress State = "en_proceso"
	StateCompleted  State = "completado"
	StateCancelled  State = "cancelado"
)

// transitions is the legal transition table. States absent from a
// value set are unreachable from the key; terminal states map to nil.
var transitions = map[State][]State{
	StateApproval:   {StateWaiting, StatePublished, StateCancelled},
	StateWaiting:    {StatePublished, StateCancelled},
	StatePublished:  {StateInProgress, StateCancelled, StateCompleted},
	StateInProgress: {StateCompleted, StateCancelled},
	StateCompleted:  nil,
	StateCancelled:  nil,
}

// Valid reports whether s is a known lifecycle state.
func (s State) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether s admits no further transitions.
func (s State) Terminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether target is a legal next state.
func (s State) CanTransitionTo(target State) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Project is a unit of work derived from an analysis, offered to experts.
type Project struct {
	ID          string
	UserID      string
	AnalysisID  string
	Active      bool
	State       State
	Industry    string
	Categories  []string
	Objective   string
	Published   bool
	Extra       map[string]any
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
