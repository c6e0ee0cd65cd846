package congestionaware

import (
	"testing"

	"github.com/iti/rngstream"
	"github.com/stretchr/testify/require"

	"github.com/iti/netanalytical/common"
	"github.com/iti/netanalytical/eventqueue"
)

// ringAdjacency builds a degree-2 full-graph ExpanderGraphFile equivalent
// to an 8-node ring, enough to exercise routing without depending on a
// fixture file.
func ringAdjacency(n int) *ExpanderGraphFile {
	adj := make([][]int, n)
	for i := 0; i < n; i++ {
		adj[i] = []int{(i + 1) % n, (i - 1 + n) % n}
	}
	return &ExpanderGraphFile{NodeCount: n, Degree: 2, ConnectedGraphAdjacency: adj}
}

func TestExpanderGraphShortestPathMatchesRingDistance(t *testing.T) {
	eq := eventqueue.New()
	rng := rngstream.New("expander-test")
	eg := NewExpanderGraph(eq, 8, 50, 500, ringAdjacency(8), ShortestPath, FIFO, rng)

	require.Equal(t, 3, eg.Hops(1, 4))
	require.Equal(t, 3, eg.Distance(1, 4))
}

func TestExpanderGraphRouteIsMemoized(t *testing.T) {
	eq := eventqueue.New()
	rng := rngstream.New("expander-memo")
	eg := NewExpanderGraph(eq, 8, 50, 500, ringAdjacency(8), ShortestPath, FIFO, rng)

	first := eg.Route(1, 4)
	second := eg.Route(1, 4)
	require.Equal(t, first, second)
}

func TestExpanderGraphRandomTopKRouteIsNoShorterThanDistance(t *testing.T) {
	eq := eventqueue.New()
	rng := rngstream.New("expander-topk")
	eg := NewExpanderGraph(eq, 8, 50, 500, ringAdjacency(8), RandomTopK, FIFO, rng)

	shortest := eg.Distance(1, 4)
	route := eg.Route(1, 4)
	require.GreaterOrEqual(t, route.Hops(), shortest)
	require.Equal(t, common.DeviceId(1), route[0])
	require.Equal(t, common.DeviceId(4), route[len(route)-1])
}

func TestExpanderGraphRejectsSplitGraphWithoutGroups(t *testing.T) {
	eq := eventqueue.New()
	rng := rngstream.New("expander-split-bad")
	file := &ExpanderGraphFile{NodeCount: 16, Degree: 2}
	require.Panics(t, func() {
		NewExpanderGraph(eq, 8, 50, 500, file, ShortestPath, FIFO, rng)
	})
}

func TestExpanderGraphRouteSameDeviceIsSingleElement(t *testing.T) {
	eq := eventqueue.New()
	rng := rngstream.New("expander-same")
	eg := NewExpanderGraph(eq, 8, 50, 500, ringAdjacency(8), ShortestPath, FIFO, rng)

	require.Equal(t, Route{2}, eg.Route(2, 2))
	require.Equal(t, 0, eg.Distance(2, 2))
	require.Equal(t, common.EventTime(0), completionTime(eq, eg, 2, 2, 1024))
}
