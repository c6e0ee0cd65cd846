// Package congestionunaware mirrors the building-block family in
// congestionaware but skips device/link simulation entirely: every
// topology reports routes and hop counts with the same combinatorics, and
// Send is a pure closed-form delay — hops*latency plus one serialization
// term for the chunk — with no notion of concurrent flows contending for
// bandwidth.
package congestionunaware

import (
	"fmt"

	"github.com/iti/netanalytical/common"
)

// BuildingBlock identifies which combinatorial structure a Topology
// implements.
type BuildingBlock int

const (
	BuildingBlockRing BuildingBlock = iota
	BuildingBlockFullyConnected
	BuildingBlockSwitch
	BuildingBlockFatTree
	BuildingBlockExpanderGraph
	BuildingBlockSwitchOrExpander
	BuildingBlockMultiDim
)

func (b BuildingBlock) String() string {
	switch b {
	case BuildingBlockRing:
		return "Ring"
	case BuildingBlockFullyConnected:
		return "FullyConnected"
	case BuildingBlockSwitch:
		return "Switch"
	case BuildingBlockFatTree:
		return "FatTree"
	case BuildingBlockExpanderGraph:
		return "ExpanderGraph"
	case BuildingBlockSwitchOrExpander:
		return "SwitchOrExpander"
	case BuildingBlockMultiDim:
		return "MultiDim"
	default:
		return "Unknown"
	}
}

// Topology is the congestion-unaware contract. It answers the same
// Route/Hops questions as congestionaware.Topology, but Send computes a
// single-pass delay directly rather than simulating link contention.
type Topology interface {
	Route(src, dst common.DeviceId) Route
	Hops(src, dst common.DeviceId) int
	Send(src, dst common.DeviceId, size common.ChunkSize) common.EventTime
	NPUsCount() int
	Clone() Topology
}

// basicTopology holds the fields shared by every non-composite building
// block: one bandwidth and one latency for the whole fabric, used by the
// closed-form delay formula.
type basicTopology struct {
	kind         BuildingBlock
	npusCount    int
	devicesCount int
	bandwidth    common.Bandwidth
	latency      common.Latency
}

func newBasicTopology(kind BuildingBlock, npusCount, devicesCount int, bandwidth common.Bandwidth, latency common.Latency) *basicTopology {
	if npusCount <= 0 {
		panic("congestionunaware: npus_count must be positive")
	}
	if devicesCount < npusCount {
		panic("congestionunaware: devices_count must be at least npus_count")
	}
	if latency < 0 {
		panic("congestionunaware: latency must be non-negative")
	}
	return &basicTopology{
		kind:         kind,
		npusCount:    npusCount,
		devicesCount: devicesCount,
		bandwidth:    common.BandwidthBpns(bandwidth),
		latency:      latency,
	}
}

func (b *basicTopology) NPUsCount() int {
	return b.npusCount
}

// BuildingBlockType reports which combinatorial structure built this
// topology.
func (b *basicTopology) BuildingBlockType() BuildingBlock {
	return b.kind
}

func (b *basicTopology) requireNPU(id common.DeviceId) {
	if id < 0 || int(id) >= b.npusCount {
		panic(fmt.Sprintf("congestionunaware: device id %d is not an NPU in a topology of %d NPUs", id, b.npusCount))
	}
}

// delay is the congestion-unaware communication delay for a path of hops
// hops: one latency per hop crossed, plus a single serialization term for
// the whole chunk at this topology's bandwidth — unlike congestionaware's
// Link, which re-serializes the chunk at every hop, an unaware topology
// models one ideal end-to-end pass.
func (b *basicTopology) delay(hops int, size common.ChunkSize) common.EventTime {
	if size <= 0 {
		panic("congestionunaware: chunk size must be positive")
	}
	if hops < 0 {
		panic("congestionunaware: hop count must be non-negative")
	}
	if hops == 0 {
		return 0
	}
	serialization := common.EventTime(float64(size) / float64(b.bandwidth))
	return common.EventTime(hops)*common.EventTime(b.latency) + serialization
}
