package congestionaware

import (
	"github.com/iti/rngstream"

	"github.com/iti/netanalytical/common"
	"github.com/iti/netanalytical/eventqueue"
)

// FullyConnected links every pair of NPUs directly: any route is a single
// hop.
type FullyConnected struct {
	*basicTopology
}

// NewFullyConnected builds a complete graph over npusCount NPUs.
func NewFullyConnected(eq *eventqueue.EventQueue, npusCount int, bandwidth common.Bandwidth, latency common.Latency, discipline QueueDiscipline, rng *rngstream.RngStream) *FullyConnected {
	f := &FullyConnected{basicTopology: newBasicTopology(BuildingBlockFullyConnected, eq, npusCount, npusCount, bandwidth, latency, discipline, rng)}
	for i := 0; i < npusCount; i++ {
		for j := i + 1; j < npusCount; j++ {
			f.connect(common.DeviceId(i), common.DeviceId(j))
		}
	}
	return f
}

// Route returns the direct [src, dst] link.
func (f *FullyConnected) Route(src, dst common.DeviceId) Route {
	f.requireNPU(src)
	f.requireNPU(dst)
	if src == dst {
		return Route{src}
	}
	return Route{src, dst}
}

// Hops is always 1 between distinct NPUs.
func (f *FullyConnected) Hops(src, dst common.DeviceId) int {
	return f.Route(src, dst).Hops()
}

// Clone deep-copies the topology.
func (f *FullyConnected) Clone() Topology {
	clone := *f.basicTopology
	clone.pool = f.clonePool()
	return &FullyConnected{basicTopology: &clone}
}
