package dispatch

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_ConcurrentSubmit(t *testing.T) {
	const n = 100
	for run := 0; run < 50; run++ {
		agg := NewAggregator(n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				agg.Submit(i, Result{Provider: "p", Name: fmt.Sprintf("item-%d", i), Availability: StatusLow})
			}()
		}
		wg.Wait()

		out := agg.Drain()
		require.Len(t, out, n)
		seen := make(map[string]bool, n)
		for i, r := range out {
			assert.Equal(t, fmt.Sprintf("item-%d", i), r.Name)
			assert.False(t, seen[r.Name], "duplicate %s", r.Name)
			seen[r.Name] = true
		}
	}
}

func TestAggregator_DrainEmpty(t *testing.T) {
	agg := NewAggregator(0)
	out := agg.Drain()
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestAggregator_DrainRestoresInputOrder(t *testing.T) {
	agg := NewAggregator(3)
	agg.Submit(2, Result{Name: "c"})
	agg.Submit(0, Result{Name: "a"})
	agg.Submit(1, Result{Name: "b"})
	assert.Equal(t, 3, agg.Len())

	out := agg.Drain()
	require.Len(t, out, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{out[0].Name, out[1].Name, out[2].Name})
	assert.Equal(t, 0, agg.Len())
}
