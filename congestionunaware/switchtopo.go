package congestionunaware

import "github.com/iti/netanalytical/common"

// Switch connects npusCount NPUs to a single central switch device (id
// npusCount); every route between distinct NPUs is two hops.
type Switch struct {
	*basicTopology
	switchID common.DeviceId
}

// NewSwitch builds a star topology of npusCount NPUs around one switch.
func NewSwitch(npusCount int, bandwidth common.Bandwidth, latency common.Latency) *Switch {
	return &Switch{
		basicTopology: newBasicTopology(BuildingBlockSwitch, npusCount, npusCount+1, bandwidth, latency),
		switchID:      common.DeviceId(npusCount),
	}
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

// Send computes the single-pass delay for a chunk of size bytes.
func (s *Switch) Send(src, dst common.DeviceId, size common.ChunkSize) common.EventTime {
	return s.delay(s.Hops(src, dst), size)
}

// Clone returns an independent copy.
func (s *Switch) Clone() Topology {
	clone := *s.basicTopology
	return &Switch{basicTopology: &clone, switchID: s.switchID}
}
