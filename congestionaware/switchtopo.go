package congestionaware

import (
	"github.com/iti/rngstream"

	"github.com/iti/netanalytical/common"
	"github.com/iti/netanalytical/eventqueue"
)

// Switch connects npusCount NPUs to a single central switch device (id
// npusCount); every route between distinct NPUs is two hops, via the
// switch.
type Switch struct {
	*basicTopology
	switchID common.DeviceId
}

// NewSwitch builds a star topology of npusCount NPUs around one switch.
func NewSwitch(eq *eventqueue.EventQueue, npusCount int, bandwidth common.Bandwidth, latency common.Latency, discipline QueueDiscipline, rng *rngstream.RngStream) *Switch {
	s := &Switch{
		basicTopology: newBasicTopology(BuildingBlockSwitch, eq, npusCount, npusCount+1, bandwidth, latency, discipline, rng),
		switchID:      common.DeviceId(npusCount),
	}
	for i := 0; i < npusCount; i++ {
		s.connect(common.DeviceId(i), s.switchID)
	}
	return s
}

// Route returns [src, switch, dst].
func (s *Switch) Route(src, dst common.DeviceId) Route {
	s.requireNPU(src)
	s.requireNPU(dst)
	if src == dst {
		return Route{src}
	}
	return Route{src, s.switchID, dst}
}

// Hops is always 2 between distinct NPUs.
func (s *Switch) Hops(src, dst common.DeviceId) int {
	return s.Route(src, dst).Hops()
}

// Clone deep-copies the topology.
func (s *Switch) Clone() Topology {
	clone := *s.basicTopology
	clone.pool = s.clonePool()
	return &Switch{basicTopology: &clone, switchID: s.switchID}
}
