package congestionunaware

import (
	"fmt"

	"github.com/iti/rngstream"

	"github.com/iti/netanalytical/common"
)

// FatTreeRouting selects how FatTree picks among equally-valid spine/core
// paths when more than one exists between a pod pair.
type FatTreeRouting int

const (
	FatTreeDeterministic FatTreeRouting = iota
	FatTreeRandom
)

// ParseFatTreeRouting maps a config string onto a FatTreeRouting,
// defaulting to Deterministic for an empty or unrecognized value.
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
// core switches across pods.
type FatTree struct {
	*basicTopology
	k                                   int
	routing                             FatTreeRouting
	rng                                 *rngstream.RngStream
	npuToLeaf                           []int
	leafOffset, spineOffset, coreOffset int
	numLeaf, numSpine, numCore          int
}

// NewFatTree builds a fat tree of radix k hosting npusCount NPUs.
func NewFatTree(npusCount, k int, bandwidth common.Bandwidth, latency common.Latency, routing FatTreeRouting, rng *rngstream.RngStream) *FatTree {
	if k <= 0 || k%2 != 0 {
		panic("congestionunaware: fat tree radix k must be positive and even")
	}
	numLeaf := (k * k) / 2
	numSpine := (k * k) / 4
	numCore := (k / 2) * (k / 2)
	devicesCount := npusCount + numLeaf + numSpine + numCore

	ft := &FatTree{
		basicTopology: newBasicTopology(BuildingBlockFatTree, npusCount, devicesCount, bandwidth, latency),
		k:             k,
		routing:       routing,
		rng:           rng,
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

	return ft
}

func (ft *FatTree) randInRange(n int) int {
	idx := int(ft.rng.RandU01() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// Route implements the leaf/spine/core path selection: same leaf is 3
// devices, same pod is 5, cross pod is 7.
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

	// A spine at position p within its pod only reaches core row p (see
	// congestionaware.FatTree's construction, which this mirrors); the
	// source-side and dest-side spine must share one "group" position for
	// there to be a common core between them. coreCol only picks which
	// core within that row carries the path.
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

// Hops is the length of Route(src,dst) minus one.
func (ft *FatTree) Hops(src, dst common.DeviceId) int {
	return ft.Route(src, dst).Hops()
}

// Send computes the single-pass delay for a chunk of size bytes.
func (ft *FatTree) Send(src, dst common.DeviceId, size common.ChunkSize) common.EventTime {
	return ft.delay(ft.Hops(src, dst), size)
}

// Clone deep-copies the leaf assignment; routing configuration and rng are
// shared by reference.
func (ft *FatTree) Clone() Topology {
	clone := *ft
	basic := *ft.basicTopology
	clone.basicTopology = &basic
	clone.npuToLeaf = append([]int(nil), ft.npuToLeaf...)
	return &clone
}

func (ft *FatTree) String() string {
	return fmt.Sprintf("FatTree(k=%d, npus=%d)", ft.k, ft.npusCount)
}
