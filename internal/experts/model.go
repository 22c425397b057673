package experts

import "time"

// Expert is a consultant available for project matching.
type Expert struct {
	ID         string
	Name       string
	Email      string
	Industries []string
	Categories []string
	Active     bool
	CreatedAt  time.Time
}
