package congestionaware

import (
	"testing"

	"github.com/iti/rngstream"
	"github.com/stretchr/testify/require"

	"github.com/iti/netanalytical/common"
	"github.com/iti/netanalytical/eventqueue"
)

func newTwoDimTestTopology(eq *eventqueue.EventQueue, rng *rngstream.RngStream) *MultiDimTopology {
	dim0Template := NewRing(eq, 4, 50, 500, FIFO, rng)
	dim1Template := NewFullyConnected(eq, 4, 100, 200, FIFO, rng)
	return NewMultiDimTopology(eq, []DimensionSpec{
		{Template: dim0Template, NPUsCount: 4, Bandwidth: 50, Latency: 500},
		{Template: dim1Template, NPUsCount: 4, Bandwidth: 100, Latency: 200},
	}, FIFO, rng)
}

func TestMultiDimTotalNPUsCountIsProduct(t *testing.T) {
	eq := eventqueue.New()
	rng := rngstream.New("multidim-count")
	m := newTwoDimTestTopology(eq, rng)
	require.Equal(t, 16, m.NPUsCount())
}

func TestMultiDimSameDim1OnlyRoutesWithinDim0(t *testing.T) {
	eq := eventqueue.New()
	rng := rngstream.New("multidim-dim0")
	m := newTwoDimTestTopology(eq, rng)

	// global id = a0 + a1*4 (dim0 fastest-varying). a0 differs, a1 same.
	route := m.Route(0, 1)
	require.Equal(t, common.DeviceId(0), route[0])
	require.Equal(t, common.DeviceId(1), route[len(route)-1])
	require.Equal(t, m.Hops(0, 1), route.Hops())
}

func TestMultiDimCrossesBothDimensions(t *testing.T) {
	eq := eventqueue.New()
	rng := rngstream.New("multidim-both")
	m := newTwoDimTestTopology(eq, rng)

	// global 0 = (a0=0,a1=0); global 5 = (a0=1,a1=1): differs in both dims.
	route := m.Route(0, 5)
	require.Equal(t, common.DeviceId(0), route[0])
	require.Equal(t, common.DeviceId(5), route[len(route)-1])
	require.Greater(t, len(route), 2)
}

func TestMultiDimSendDeliversChunk(t *testing.T) {
	eq := eventqueue.New()
	rng := rngstream.New("multidim-send")
	m := newTwoDimTestTopology(eq, rng)

	var arrived bool
	route := m.Route(0, 5)
	c := NewChunk(1024, route, func(*Chunk) { arrived = true })
	m.Send(c)
	eq.Run()

	require.True(t, arrived)
}

func TestMultiDimRouteSameDeviceIsSingleElement(t *testing.T) {
	eq := eventqueue.New()
	rng := rngstream.New("multidim-same")
	m := newTwoDimTestTopology(eq, rng)

	require.Equal(t, Route{3}, m.Route(3, 3))
	require.Equal(t, 0, m.Hops(3, 3))
	require.Equal(t, common.EventTime(0), completionTime(eq, m, 3, 3, 1024))
}

func TestMultiDimLazilyReusesConnectionsAcrossRequests(t *testing.T) {
	eq := eventqueue.New()
	rng := rngstream.New("multidim-lazy")
	m := newTwoDimTestTopology(eq, rng)

	m.Route(0, 1)
	poolSizeAfterFirst := len(m.pool.devices)
	m.Route(0, 1)
	require.Equal(t, poolSizeAfterFirst, len(m.pool.devices))
}
