package dispatch

import (
	"sort"
	"sync"
)

type entry struct {
	seq int
	res Result
}

// Aggregator collects one Result per task. Submit is safe for concurrent use.
// Drain must only be called after every submitter has returned.
type Aggregator struct {
	mu      sync.Mutex
	entries []entry
}

func NewAggregator(n int) *Aggregator {
	if n < 0 {
		n = 0
	}
	return &Aggregator{entries: make([]entry, 0, n)}
}

// Submit records r as the outcome of input position seq.
func (a *Aggregator) Submit(seq int, r Result) {
	a.mu.Lock()
	a.entries = append(a.entries, entry{seq: seq, res: r})
	a.mu.Unlock()
}

func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

// Drain returns the collected results in input order.
func (a *Aggregator) Drain() []Result {
	a.mu.Lock()
	entries := a.entries
	a.entries = nil
	a.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	out := make([]Result, len(entries))
	for i, e := range entries {
		out[i] = e.res
	}
	return out
}
