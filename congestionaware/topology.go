// Package congestionaware implements the event-driven topology family: each
// basic-topology variant builds a graph of Device and Link instances over a
// shared eventqueue.EventQueue, and routing a Chunk across it produces
// realistic completion times shaped by link contention.
package congestionaware

import (
	"fmt"

	"github.com/iti/rngstream"

	"github.com/iti/netanalytical/common"
	"github.com/iti/netanalytical/eventqueue"
)

// BuildingBlock identifies which basic-topology construction produced a
// Topology, mirroring the variant tag carried by multi-dimensional
// topologies that stack basic topologies along independent dimensions.
type BuildingBlock int

const (
	BuildingBlockRing BuildingBlock = iota
	BuildingBlockFullyConnected
	BuildingBlockSwitch
	BuildingBlockFatTree
	BuildingBlockExpanderGraph
	BuildingBlockSwitchOrExpander
	BuildingBlockEpExpander
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
	case BuildingBlockEpExpander:
		return "EpExpander"
	default:
		return "Unknown"
	}
}

// Topology is implemented by every congestion-aware topology, basic or
// multi-dimensional. Route and Hops describe a src/dst pair without
// touching simulated time; Send actually injects a Chunk into the network.
type Topology interface {
	Route(src, dst common.DeviceId) Route
	Hops(src, dst common.DeviceId) int
	Send(chunk *Chunk)
	NPUsCount() int
	Clone() Topology
}

// basicTopology is the shared base embedded by Ring, FullyConnected,
// Switch, FatTree, ExpanderGraph and EpExpanderTopology.
// It owns the device pool and link-construction defaults common to all of
// them.
type basicTopology struct {
	kind         BuildingBlock
	npusCount    int
	devicesCount int
	bandwidth    common.Bandwidth
	latency      common.Latency
	discipline   QueueDiscipline
	eq           *eventqueue.EventQueue
	rng          *rngstream.RngStream
	pool         *DevicePool
}

func newBasicTopology(kind BuildingBlock, eq *eventqueue.EventQueue, npusCount, devicesCount int, bandwidth common.Bandwidth, latency common.Latency, discipline QueueDiscipline, rng *rngstream.RngStream) *basicTopology {
	if npusCount <= 0 {
		panic("congestionaware: npus_count must be positive")
	}
	if devicesCount < npusCount {
		panic("congestionaware: devices_count must be at least npus_count")
	}
	return &basicTopology{
		kind:         kind,
		npusCount:    npusCount,
		devicesCount: devicesCount,
		bandwidth:    bandwidth,
		latency:      latency,
		discipline:   discipline,
		eq:           eq,
		rng:          rng,
		pool:         NewDevicePool(),
	}
}

// connect installs a bidirectional pair of links between a and b.
func (b *basicTopology) connect(a, c common.DeviceId) {
	da := b.pool.GetOrCreate(a)
	dc := b.pool.GetOrCreate(c)
	da.Connect(c, NewLink(b.eq, b.bandwidth, b.latency, b.discipline, b.rng))
	dc.Connect(a, NewLink(b.eq, b.bandwidth, b.latency, b.discipline, b.rng))
}

// connectDirected installs a single outbound link from a to c only. No
// topology in this package calls it; they all wire links in both
// directions through connect.
func (b *basicTopology) connectDirected(a, c common.DeviceId) {
	da := b.pool.GetOrCreate(a)
	da.Connect(c, NewLink(b.eq, b.bandwidth, b.latency, b.discipline, b.rng))
}

func (b *basicTopology) NPUsCount() int {
	return b.npusCount
}

func (b *basicTopology) Latency() common.Latency {
	return b.latency
}

func (b *basicTopology) BuildingBlockType() BuildingBlock {
	return b.kind
}

// Send positions the chunk at its current device and hands it to that
// device's Send, which resolves the right outbound link. A chunk whose
// route is already exhausted (src == dst) completes immediately, without
// ever touching a Link.
func (b *basicTopology) Send(chunk *Chunk) {
	if chunk.Arrived() {
		if chunk.OnComplete != nil {
			chunk.OnComplete(chunk)
		}
		return
	}
	b.pool.Device(chunk.Current()).Send(chunk)
}

func (b *basicTopology) requireNPU(id common.DeviceId) {
	if id < 0 || int(id) >= b.npusCount {
		panic(fmt.Sprintf("congestionaware: device id %d is not an NPU in a topology of %d NPUs", id, b.npusCount))
	}
}

// clonePool deep copies the device pool, keeping the same EventQueue and
// rng (those are process-wide, not per-slice).
func (b *basicTopology) clonePool() *DevicePool {
	return b.pool.Clone()
}
