package congestionunaware

import (
	"testing"

	"github.com/iti/rngstream"
	"github.com/stretchr/testify/require"

	"github.com/iti/netanalytical/common"
)

func degreeFourExpander(n int) *ExpanderGraphFile {
	adj := make([][]int, n)
	for i := 0; i < n; i++ {
		adj[i] = []int{
			(i + 1) % n, (i - 1 + n) % n,
			(i + 3) % n, (i - 3 + n) % n,
		}
	}
	return &ExpanderGraphFile{NodeCount: n, Degree: 4, ConnectedGraphAdjacency: adj}
}

func TestSwitchOrExpanderSwitchModeIsAlwaysTwoHops(t *testing.T) {
	rng := rngstream.New("soe-cu-switch")
	s := NewSwitchOrExpander(16, 50, 500, degreeFourExpander(16), ShortestPath, rng)

	require.Equal(t, 2, s.Hops(1, 4))
}

func TestSwitchOrExpanderMoEModeRoutesThroughExpander(t *testing.T) {
	rng := rngstream.New("soe-cu-moe")
	s := NewSwitchOrExpander(16, 50, 500, degreeFourExpander(16), ShortestPath, rng)
	s.SetMoEModeAll(true)

	route := s.Route(1, 4)
	require.NotContains(t, route, s.switchTopology.switchID)
	require.Equal(t, route.Hops(), s.Hops(1, 4))
}

func TestSwitchOrExpanderMixedModeIsAnError(t *testing.T) {
	rng := rngstream.New("soe-cu-mixed")
	s := NewSwitchOrExpander(16, 50, 500, degreeFourExpander(16), ShortestPath, rng)
	s.SetMoEMode(1, true)
	s.SetMoEMode(4, false)

	require.Panics(t, func() { s.Route(1, 4) })
}

func TestSwitchOrExpanderWithoutExpanderFallsBackToSwitch(t *testing.T) {
	rng := rngstream.New("soe-cu-no-expander")
	s := NewSwitchOrExpander(8, 50, 500, nil, ShortestPath, rng)
	s.SetMoEModeAll(true)

	require.Equal(t, 2, s.Hops(1, 4))
	require.Equal(t, s.switchTopology.Send(1, 4, 1048576), s.Send(1, 4, 1048576))
}

func TestSwitchOrExpanderRouteSameDeviceIsSingleElement(t *testing.T) {
	rng := rngstream.New("soe-cu-same")
	s := NewSwitchOrExpander(16, 50, 500, degreeFourExpander(16), ShortestPath, rng)
	s.SetMoEModeAll(true)

	require.Equal(t, Route{5}, s.Route(5, 5))
	require.Equal(t, 0, s.Hops(5, 5))
	require.Equal(t, common.EventTime(0), s.Send(5, 5, 1048576))
}
