package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]Status{
		"HIGH":     StatusHigh,
		" medium ": StatusMedium,
		"Low":      StatusLow,
	} {
		got, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseStatus("unknown")
	assert.Error(t, err)
}

func TestStatusesIsClosedDomain(t *testing.T) {
	all := Statuses()
	assert.Equal(t, []Status{StatusHigh, StatusMedium, StatusLow}, all)
	all[0] = "MUTATED"
	assert.Equal(t, StatusHigh, Statuses()[0])
	assert.False(t, Status("").Valid())
}
