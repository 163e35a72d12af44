package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNopTimer(t *testing.T) {
	tm := NopTimer()
	require.NotNil(t, tm)

	// safe to observe any number of times
	tm.ObserveDuration()
	tm.ObserveDuration()
}
