package congestionaware

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iti/netanalytical/common"
)

func TestChunkAdvanceAndArrival(t *testing.T) {
	c := NewChunk(1024, Route{0, 1, 2}, nil)
	require.Equal(t, common.DeviceId(0), c.Current())
	next, ok := c.Next()
	require.True(t, ok)
	require.Equal(t, common.DeviceId(1), next)
	require.False(t, c.Arrived())

	c.Advance()
	require.Equal(t, common.DeviceId(1), c.Current())
	require.False(t, c.Arrived())

	c.Advance()
	require.Equal(t, common.DeviceId(2), c.Current())
	require.True(t, c.Arrived())

	_, ok = c.Next()
	require.False(t, ok)
}

func TestChunkAdvancePastArrivalPanics(t *testing.T) {
	c := NewChunk(1024, Route{0, 1}, nil)
	c.Advance()
	require.True(t, c.Arrived())
	require.Panics(t, func() { c.Advance() })
}

func TestChunkCompletionCallback(t *testing.T) {
	var completed *Chunk
	c := NewChunk(1024, Route{0, 1}, func(done *Chunk) { completed = done })
	c.Advance()
	if c.Arrived() && c.OnComplete != nil {
		c.OnComplete(c)
	}
	require.Same(t, c, completed)
}

func TestNewChunkAcceptsSingleDeviceRoute(t *testing.T) {
	c := NewChunk(1024, Route{0}, nil)
	require.True(t, c.Arrived())
	require.Equal(t, common.DeviceId(0), c.Current())
}

func TestNewChunkRejectsEmptyRoute(t *testing.T) {
	require.Panics(t, func() { NewChunk(1024, Route{}, nil) })
}

func TestNewChunkRejectsNonPositiveSize(t *testing.T) {
	require.Panics(t, func() { NewChunk(0, Route{0, 1}, nil) })
}

func TestRouteHops(t *testing.T) {
	require.Equal(t, 0, Route{}.Hops())
	require.Equal(t, 3, Route{0, 1, 2, 3}.Hops())
}
