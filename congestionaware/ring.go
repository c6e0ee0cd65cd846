package congestionaware

import (
	"github.com/iti/rngstream"

	"github.com/iti/netanalytical/common"
	"github.com/iti/netanalytical/eventqueue"
)

// Ring connects npusCount NPUs in a cycle: device i links to (i+1)%n and
// (i-1)%n. There are no dedicated switch devices — devicesCount equals
// npusCount.
type Ring struct {
	*basicTopology
}

// NewRing builds a ring of npusCount NPUs, each link carrying bandwidth
// (GB/s) and latency (ns).
func NewRing(eq *eventqueue.EventQueue, npusCount int, bandwidth common.Bandwidth, latency common.Latency, discipline QueueDiscipline, rng *rngstream.RngStream) *Ring {
	r := &Ring{basicTopology: newBasicTopology(BuildingBlockRing, eq, npusCount, npusCount, bandwidth, latency, discipline, rng)}
	for i := 0; i < npusCount; i++ {
		next := common.DeviceId((i + 1) % npusCount)
		r.connect(common.DeviceId(i), next)
	}
	return r
}

// Route returns the shorter of the two arcs between src and dst, ties
// broken toward the clockwise (increasing-index) direction.
func (r *Ring) Route(src, dst common.DeviceId) Route {
	r.requireNPU(src)
	r.requireNPU(dst)
	n := r.npusCount
	if src == dst {
		return Route{src}
	}

	clockwise := []common.DeviceId{src}
	for cur := src; cur != dst; {
		cur = common.DeviceId((int(cur) + 1) % n)
		clockwise = append(clockwise, cur)
	}

	counter := []common.DeviceId{src}
	for cur := src; cur != dst; {
		cur = common.DeviceId((int(cur) - 1 + n) % n)
		counter = append(counter, cur)
	}

	if len(counter) < len(clockwise) {
		return Route(counter)
	}
	return Route(clockwise)
}

// Hops is the number of links traversed by Route(src,dst).
func (r *Ring) Hops(src, dst common.DeviceId) int {
	return r.Route(src, dst).Hops()
}

// Clone deep-copies the ring, producing an independent, cold network with
// the same topology.
func (r *Ring) Clone() Topology {
	clone := *r.basicTopology
	clone.pool = r.clonePool()
	return &Ring{basicTopology: &clone}
}
