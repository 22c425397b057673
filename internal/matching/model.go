package matching

import "time"

// State is an expert match lifecycle state.
type State string

const (
	StatePending   State = "pendiente"
	StateAccepted  State = "aceptado"
	StateRejected  State = "rechazado"
	StateContacted State = "contactado"
)

// ExpertMatch is a scored pairing between a published project and an
// expert, created in bulk on publish and mutated independently after.
type ExpertMatch struct {
	ID           string
	ProjectID    string
	ExpertID     string
	Score        int
	BestIndustry string
	State        State
	CreatedAt    time.Time
}
