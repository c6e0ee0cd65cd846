package congestionaware

import (
	"fmt"

	"github.com/iti/rngstream"

	"github.com/iti/netanalytical/common"
	"github.com/iti/netanalytical/eventqueue"
)

// FatTreeRouting selects how FatTree picks among equally-valid spine/core
// paths when more than one exists between a pod pair.
type FatTreeRouting int

const (
	FatTreeDeterministic FatTreeRouting = iota
	FatTreeRandom
)

// ParseFatTreeRouting maps a config string onto a FatTreeRouting, defaulting
// to Deterministic for an empty or unrecognized value.
func ParseFatTreeRouting(s string) FatTreeRouting {
	switch s {
	case "Random":
		return FatTreeRandom
	default:
		return FatTreeDeterministic
	}
}

// FatTree is a k-ary fat tree: npusCount NPUs hang off leaf switches,
// leaves connect to spine switches within a pod, and spines connect to
// core switches across pods. k must be even and positive; NPUs are spread
// across leaf switches k/2 at a time, so the last pod may be only
// partially subscribed when npusCount isn't a multiple of k/2.
type FatTree struct {
	*basicTopology
	k                                   int
	routing                             FatTreeRouting
	npuToLeaf                           []int
	leafOffset, spineOffset, coreOffset int
	numLeaf, numSpine, numCore          int
}

// NewFatTree builds a fat tree of radix k hosting npusCount NPUs.
func NewFatTree(eq *eventqueue.EventQueue, npusCount, k int, bandwidth common.Bandwidth, latency common.Latency, routing FatTreeRouting, discipline QueueDiscipline, rng *rngstream.RngStream) *FatTree {
	if k <= 0 || k%2 != 0 {
		panic("congestionaware: fat tree radix k must be positive and even")
	}
	numLeaf := (k * k) / 2
	numSpine := (k * k) / 4
	numCore := (k / 2) * (k / 2)
	devicesCount := npusCount + numLeaf + numSpine + numCore

	ft := &FatTree{
		basicTopology: newBasicTopology(BuildingBlockFatTree, eq, npusCount, devicesCount, bandwidth, latency, discipline, rng),
		k:             k,
		routing:       routing,
		npuToLeaf:     make([]int, npusCount),
		numLeaf:       numLeaf,
		numSpine:      numSpine,
		numCore:       numCore,
	}
	ft.leafOffset = npusCount
	ft.spineOffset = npusCount + numLeaf
	ft.coreOffset = npusCount + numLeaf + numSpine

	npusPerLeafIdeal := k / 2
	npuID := 0
	npusPerLeaf := make([]int, numLeaf)
	for leaf := 0; leaf < numLeaf && npuID < npusCount; leaf++ {
		n := npusPerLeafIdeal
		if npusCount-npuID < n {
			n = npusCount - npuID
		}
		npusPerLeaf[leaf] = n
		for i := 0; i < n && npuID < npusCount; i++ {
			ft.npuToLeaf[npuID] = leaf
			npuID++
		}
	}

	npuID = 0
	for leaf := 0; leaf < numLeaf; leaf++ {
		for i := 0; i < npusPerLeaf[leaf]; i++ {
			ft.connect(common.DeviceId(npuID), common.DeviceId(ft.leafOffset+leaf))
			npuID++
		}
	}

	pods := k
	for pod := 0; pod < pods; pod++ {
		for i := 0; i < k/2; i++ {
			for j := 0; j < k/2; j++ {
				leafIndex := pod*(k/2) + i
				spineIndex := pod*(k/2) + j
				ft.connect(common.DeviceId(ft.leafOffset+leafIndex), common.DeviceId(ft.spineOffset+spineIndex))
			}
		}
	}

	for i := 0; i < k/2; i++ {
		for j := 0; j < k/2; j++ {
			for pod := 0; pod < pods; pod++ {
				spineIndex := pod*(k/2) + i
				coreIndex := i*(k/2) + j
				ft.connect(common.DeviceId(ft.spineOffset+spineIndex), common.DeviceId(ft.coreOffset+coreIndex))
			}
		}
	}

	return ft
}

func (ft *FatTree) randInRange(n int) int {
	idx := int(ft.rng.RandU01() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// Route implements the leaf/spine/core path selection described in the
// construction: same leaf is 3 devices, same pod is 5, cross pod is 7.
func (ft *FatTree) Route(src, dst common.DeviceId) Route {
	ft.requireNPU(src)
	ft.requireNPU(dst)
	if src == dst {
		return Route{src}
	}

	k := ft.k
	srcLeaf := ft.npuToLeaf[src]
	dstLeaf := ft.npuToLeaf[dst]

	if srcLeaf == dstLeaf {
		return Route{src, common.DeviceId(ft.leafOffset + srcLeaf), dst}
	}

	srcPod := srcLeaf / (k / 2)
	dstPod := dstLeaf / (k / 2)
	srcLeafInPod := srcLeaf % (k / 2)
	dstLeafInPod := dstLeaf % (k / 2)

	if srcPod == dstPod {
		spineInPod := srcLeafInPod
		if ft.routing == FatTreeRandom {
			spineInPod = ft.randInRange(k / 2)
		}
		spineIndex := srcPod*(k/2) + spineInPod
		return Route{
			src,
			common.DeviceId(ft.leafOffset + srcLeaf),
			common.DeviceId(ft.spineOffset + spineIndex),
			common.DeviceId(ft.leafOffset + dstLeaf),
			dst,
		}
	}

	// A spine at position p within its pod is wired to every core in core
	// row p, for every pod (see the connect loop above) — it has no link
	// to any other row. Crossing pods therefore has to enter and leave
	// the core layer through the same row: the source-side and dest-side
	// spine must share one "group" position, or there is no core common
	// to both. coreCol merely picks which core within that row to use;
	// every core in a row reaches every pod's spine at that row.
	group := srcLeafInPod
	coreCol := dstLeafInPod
	if ft.routing == FatTreeRandom {
		group = ft.randInRange(k / 2)
		coreCol = ft.randInRange(k / 2)
	}
	srcSpineIndex := srcPod*(k/2) + group
	dstSpineIndex := dstPod*(k/2) + group
	coreIndex := group*(k/2) + coreCol

	return Route{
		src,
		common.DeviceId(ft.leafOffset + srcLeaf),
		common.DeviceId(ft.spineOffset + srcSpineIndex),
		common.DeviceId(ft.coreOffset + coreIndex),
		common.DeviceId(ft.spineOffset + dstSpineIndex),
		common.DeviceId(ft.leafOffset + dstLeaf),
		dst,
	}
}

// Hops is the length of Route(src,dst) minus one; Random routing is not
// memoized, so repeated calls may pick different spines and cores for the
// same pair, but the hop count (2, 4 or 6) is the same every time.
func (ft *FatTree) Hops(src, dst common.DeviceId) int {
	return ft.Route(src, dst).Hops()
}

// Clone deep-copies the fat tree's device graph; leaf assignment and
// routing configuration are immutable and shared by value.
func (ft *FatTree) Clone() Topology {
	clone := *ft
	basic := *ft.basicTopology
	basic.pool = ft.clonePool()
	clone.basicTopology = &basic
	clone.npuToLeaf = append([]int(nil), ft.npuToLeaf...)
	return &clone
}

func (ft *FatTree) String() string {
	return fmt.Sprintf("FatTree(k=%d, npus=%d)", ft.k, ft.npusCount)
}
