package congestionaware

import (
	"testing"

	"github.com/iti/rngstream"
	"github.com/stretchr/testify/require"

	"github.com/iti/netanalytical/common"
	"github.com/iti/netanalytical/eventqueue"
)

func completionTime(eq *eventqueue.EventQueue, topo Topology, src, dst common.DeviceId, size common.ChunkSize) common.EventTime {
	route := topo.Route(src, dst)
	var done common.EventTime
	c := NewChunk(size, route, func(*Chunk) { done = eq.CurrentTime() })
	topo.Send(c)
	eq.Run()
	return done
}

func TestRingRouteTakesShorterArc(t *testing.T) {
	eq := eventqueue.New()
	rng := rngstream.New("ring-test")
	r := NewRing(eq, 8, 50, 500, FIFO, rng)

	require.Equal(t, 3, r.Hops(1, 4))
	require.Equal(t, 1, r.Hops(1, 0))
	require.Equal(t, 1, r.Hops(0, 1))
}

func TestFullyConnectedIsAlwaysOneHop(t *testing.T) {
	eq := eventqueue.New()
	rng := rngstream.New("fc-test")
	f := NewFullyConnected(eq, 8, 50, 500, FIFO, rng)

	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			if i == j {
				continue
			}
			require.Equal(t, 1, f.Hops(common.DeviceId(i), common.DeviceId(j)))
		}
	}
}

func TestSwitchIsAlwaysTwoHops(t *testing.T) {
	eq := eventqueue.New()
	rng := rngstream.New("switch-test")
	s := NewSwitch(eq, 8, 50, 500, FIFO, rng)

	require.Equal(t, 2, s.Hops(1, 4))
	route := s.Route(1, 4)
	require.Equal(t, Route{1, 8, 4}, route)
}

func TestHopCountOrderingAcrossTopologies(t *testing.T) {
	eqRing := eventqueue.New()
	eqFC := eventqueue.New()
	eqSwitch := eventqueue.New()
	rng := rngstream.New("ordering-test")

	ring := NewRing(eqRing, 8, 50, 500, FIFO, rng)
	fc := NewFullyConnected(eqFC, 8, 50, 500, FIFO, rng)
	sw := NewSwitch(eqSwitch, 8, 50, 500, FIFO, rng)

	size := common.ChunkSize(1048576)
	ringTime := completionTime(eqRing, ring, 1, 4, size)
	fcTime := completionTime(eqFC, fc, 1, 4, size)
	switchTime := completionTime(eqSwitch, sw, 1, 4, size)

	require.Less(t, fcTime, switchTime)
	require.Less(t, switchTime, ringTime)
}

func TestRingAllGatherCompletesAndOrdersAfterLastInjection(t *testing.T) {
	eq := eventqueue.New()
	rng := rngstream.New("allgather-test")
	r := NewRing(eq, 8, 50, 500, FIFO, rng)

	completions := 0
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			if i == j {
				continue
			}
			route := r.Route(common.DeviceId(i), common.DeviceId(j))
			c := NewChunk(1048576, route, func(*Chunk) { completions++ })
			r.Send(c)
		}
	}
	eq.Run()

	require.Equal(t, 56, completions)
	require.True(t, eq.Finished())
}

// TestRouteSameDeviceIsSingleElementZeroHops checks the universal
// same-device invariant: route(i,i) is a single-device route with zero
// hops, and sending such a chunk completes immediately, at the time it
// was sent, without ever touching a Link.
func TestRouteSameDeviceIsSingleElementZeroHops(t *testing.T) {
	eq := eventqueue.New()
	rng := rngstream.New("same-device-test")
	r := NewRing(eq, 8, 50, 500, FIFO, rng)

	require.Equal(t, Route{3}, r.Route(3, 3))
	require.Equal(t, 0, r.Hops(3, 3))
	require.Equal(t, common.EventTime(0), completionTime(eq, r, 3, 3, 1024))
}

func TestCloneProducesIndependentColdNetwork(t *testing.T) {
	eq := eventqueue.New()
	rng := rngstream.New("clone-test")
	r := NewRing(eq, 4, 50, 500, FIFO, rng)

	clone := r.Clone().(*Ring)
	require.NotSame(t, r.pool, clone.pool)

	// sending on the original must not make the clone's link busy
	c := NewChunk(1000, r.Route(0, 1), nil)
	r.Send(c)
	require.True(t, r.pool.Device(0).outbound[1].busy)
	require.False(t, clone.pool.Device(0).outbound[1].busy)
}
