package congestionunaware

import "github.com/iti/netanalytical/common"

// Ring connects npusCount NPUs in a cycle; routes take the shorter arc.
type Ring struct {
	*basicTopology
}

// NewRing builds a ring of npusCount NPUs sharing one bandwidth/latency.
func NewRing(npusCount int, bandwidth common.Bandwidth, latency common.Latency) *Ring {
	return &Ring{basicTopology: newBasicTopology(BuildingBlockRing, npusCount, npusCount, bandwidth, latency)}
}

// Route returns the shorter of the two arcs between src and dst, ties
// broken toward the clockwise (increasing-index) direction.
func (r *Ring) Route(src, dst common.DeviceId) Route {
	r.requireNPU(src)
	r.requireNPU(dst)
	if src == dst {
		return Route{src}
	}
	n := r.npusCount

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

// Send computes the single-pass delay for a chunk of size bytes.
func (r *Ring) Send(src, dst common.DeviceId, size common.ChunkSize) common.EventTime {
	return r.delay(r.Hops(src, dst), size)
}

// Clone returns an independent copy; a Ring carries no mutable state, so
// this is a value copy.
func (r *Ring) Clone() Topology {
	clone := *r.basicTopology
	return &Ring{basicTopology: &clone}
}
