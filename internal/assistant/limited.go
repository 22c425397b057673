package assistant

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Limited wraps a Client with a concurrency bound. The assistant call
// is the highest-latency step in the system; the semaphore keeps a
// burst of handlers from piling requests onto the upstream service.
type Limited struct {
	base Client
	sem  *semaphore.Weighted
}

// NewLimited wraps base allowing at most maxInFlight concurrent calls.
func NewLimited(base Client, maxInFlight int64) *Limited {
	if maxInFlight <= 0 {
		maxInFlight = 1
	}
	return &Limited{base: base, sem: semaphore.NewWeighted(maxInFlight)}
}

// GenerateProposals waits for a slot or ctx expiry, then delegates.
func (l *Limited) GenerateProposals(ctx context.Context, input DiagnosticInput) ([]Proposal, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer l.sem.Release(1)
	return l.base.GenerateProposals(ctx, input)
}

var _ Client = (*Limited)(nil)
