package evaluator

import (
	"context"
	"math/rand"
	"time"

	"hwstatus/dispatch"
)

// Simulated stands in for a slow availability check: it waits Latency, then
// picks a classification uniformly at random.
type Simulated struct {
	Latency time.Duration
	pick    func(n int) int
}

func NewSimulated(latency time.Duration) *Simulated {
	return &Simulated{Latency: latency, pick: rand.Intn}
}

func (s *Simulated) Evaluate(ctx context.Context, provider, name string) (dispatch.Status, error) {
	if s.Latency > 0 {
		timer := time.NewTimer(s.Latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	all := dispatch.Statuses()
	pick := s.pick
	if pick == nil {
		pick = rand.Intn
	}
	return all[pick(len(all))], nil
}
