package congestionunaware

import "github.com/iti/netanalytical/common"

// FullyConnected links every pair of NPUs directly: any route is a single
// hop.
type FullyConnected struct {
	*basicTopology
}

// NewFullyConnected builds a complete graph over npusCount NPUs.
func NewFullyConnected(npusCount int, bandwidth common.Bandwidth, latency common.Latency) *FullyConnected {
	return &FullyConnected{basicTopology: newBasicTopology(BuildingBlockFullyConnected, npusCount, npusCount, bandwidth, latency)}
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

// Send computes the single-pass delay for a chunk of size bytes.
func (f *FullyConnected) Send(src, dst common.DeviceId, size common.ChunkSize) common.EventTime {
	return f.delay(f.Hops(src, dst), size)
}

// Clone returns an independent copy.
func (f *FullyConnected) Clone() Topology {
	clone := *f.basicTopology
	return &FullyConnected{basicTopology: &clone}
}
