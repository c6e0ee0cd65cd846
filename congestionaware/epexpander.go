package congestionaware

import (
	"fmt"

	"github.com/iti/rngstream"
	"golang.org/x/exp/slices"

	"github.com/iti/netanalytical/common"
	"github.com/iti/netanalytical/eventqueue"
)

// RouteInfo is one pre-computed candidate path between two EpExpander
// nodes, as stored in the routes file.
type RouteInfo struct {
	Path   []common.DeviceId
	Hops   int
	Weight float64
}

// EpExpanderFile is the on-disk description of a pre-routed expander,
// loaded from JSON by the config package and handed to NewEpExpander.
type EpExpanderFile struct {
	Metadata struct {
		NodeCount int  `json:"node_count"`
		Degree    int  `json:"degree"`
		EpNodes   *int `json:"ep_nodes,omitempty"`
	} `json:"metadata"`
	Routes map[string]map[string][]struct {
		Path   []int   `json:"path"`
		Hops   int     `json:"hops"`
		Weight float64 `json:"weight"`
	} `json:"routes"`
}

// EpExpanderTopology is an expander whose routes were computed offline:
// route(src,dst) samples one of a list of weighted candidate paths rather
// than computing a path at request time. A per-layer deterministic
// permutation lets successive layers reinterpret local NPU ranks as
// different expander nodes, so repeated collective phases spread load
// differently.
type EpExpanderTopology struct {
	*basicTopology
	nodeCount             int
	epNodeCount            int
	routes                 map[common.DeviceId]map[common.DeviceId][]RouteInfo
	numPermutationLayers   int
	permutations           map[int][]int
}

// NewEpExpander builds an EpExpanderTopology from file.
func NewEpExpander(eq *eventqueue.EventQueue, bandwidth common.Bandwidth, latency common.Latency, file *EpExpanderFile, numPermutationLayers int, discipline QueueDiscipline, rng *rngstream.RngStream) *EpExpanderTopology {
	nodeCount := file.Metadata.NodeCount
	epNodeCount := nodeCount
	if file.Metadata.EpNodes != nil {
		epNodeCount = *file.Metadata.EpNodes
	}

	e := &EpExpanderTopology{
		basicTopology:        newBasicTopology(BuildingBlockEpExpander, eq, nodeCount, nodeCount, bandwidth, latency, discipline, rng),
		nodeCount:            nodeCount,
		epNodeCount:          epNodeCount,
		routes:               make(map[common.DeviceId]map[common.DeviceId][]RouteInfo),
		numPermutationLayers: numPermutationLayers,
		permutations:         make(map[int][]int),
	}

	adjacency := make(map[common.DeviceId][]common.DeviceId)
	for srcStr, dstMap := range file.Routes {
		var src int
		fmt.Sscanf(srcStr, "%d", &src)
		srcID := common.DeviceId(src)
		e.routes[srcID] = make(map[common.DeviceId][]RouteInfo)

		for dstStr, options := range dstMap {
			var dst int
			fmt.Sscanf(dstStr, "%d", &dst)
			dstID := common.DeviceId(dst)

			infos := make([]RouteInfo, 0, len(options))
			for _, opt := range options {
				path := make([]common.DeviceId, len(opt.Path))
				for i, p := range opt.Path {
					path[i] = common.DeviceId(p)
				}
				infos = append(infos, RouteInfo{Path: path, Hops: opt.Hops, Weight: opt.Weight})

				for i := 0; i+1 < len(path); i++ {
					a, b := path[i], path[i+1]
					if !slices.Contains(adjacency[a], b) {
						adjacency[a] = append(adjacency[a], b)
					}
					if !slices.Contains(adjacency[b], a) {
						adjacency[b] = append(adjacency[b], a)
					}
				}
			}
			e.routes[srcID][dstID] = infos
		}
	}

	for a, neighbors := range adjacency {
		for _, b := range neighbors {
			if a < b {
				e.connect(a, b)
			}
		}
	}

	return e
}

// selectRoute samples one of the candidate routes between src and dst,
// proportional to its weight.
func (e *EpExpanderTopology) selectRoute(src, dst common.DeviceId) RouteInfo {
	options, ok := e.routes[src][dst]
	if !ok || len(options) == 0 {
		panic(fmt.Sprintf("congestionaware: no precomputed route from %d to %d", src, dst))
	}
	if len(options) == 1 {
		return options[0]
	}

	r := e.rng.RandU01()
	cumulative := 0.0
	for _, opt := range options {
		cumulative += opt.Weight
		if r < cumulative {
			return opt
		}
	}
	return options[len(options)-1]
}

// Route samples a weighted precomputed path from src to dst. src == dst
// returns the single-device degenerate route.
func (e *EpExpanderTopology) Route(src, dst common.DeviceId) Route {
	if src == dst {
		return Route{src}
	}
	return Route(e.selectRoute(src, dst).Path)
}

// Hops is the length of Route(src,dst) minus one.
func (e *EpExpanderTopology) Hops(src, dst common.DeviceId) int {
	return e.Route(src, dst).Hops()
}

// effectiveLayer folds layerID into [0, numPermutationLayers) when
// numPermutationLayers > 0, otherwise uses layerID itself.
func (e *EpExpanderTopology) effectiveLayer(layerID int) int {
	if e.numPermutationLayers > 0 {
		return layerID % e.numPermutationLayers
	}
	return layerID
}

// Permutation returns the layer's deterministic mapping from local rank to
// expander node id, generating and caching it on first use.
func (e *EpExpanderTopology) Permutation(layerID int) []int {
	effective := e.effectiveLayer(layerID)
	if perm, ok := e.permutations[effective]; ok {
		return perm
	}

	perm := make([]int, e.epNodeCount)
	for i := range perm {
		perm[i] = i
	}
	layerRng := rngstream.New(fmt.Sprintf("epexpander-layer-%d", effective))
	for i := len(perm) - 1; i > 0; i-- {
		j := int(layerRng.RandU01() * float64(i+1))
		if j > i {
			j = i
		}
		perm[i], perm[j] = perm[j], perm[i]
	}

	e.permutations[effective] = perm
	return perm
}

// RouteWithPermutation routes between the permuted images of src and dst
// for the given layer. src == dst is checked on the raw local ranks, before
// any permutation is built, and returns the single-device degenerate route.
func (e *EpExpanderTopology) RouteWithPermutation(src, dst common.DeviceId, layerID int) Route {
	if src == dst {
		return Route{src}
	}
	perm := e.Permutation(layerID)
	permutedSrc := common.DeviceId(perm[src])
	permutedDst := common.DeviceId(perm[dst])
	return e.Route(permutedSrc, permutedDst)
}

// AllRoutesWithPermutation returns every weighted candidate path between
// the permuted images of src and dst for the given layer.
func (e *EpExpanderTopology) AllRoutesWithPermutation(src, dst common.DeviceId, layerID int) []Route {
	if src == dst {
		return []Route{{src}}
	}
	perm := e.Permutation(layerID)
	permutedSrc := common.DeviceId(perm[src])
	permutedDst := common.DeviceId(perm[dst])

	options, ok := e.routes[permutedSrc][permutedDst]
	if !ok || len(options) == 0 {
		panic(fmt.Sprintf("congestionaware: no precomputed route from %d to %d", permutedSrc, permutedDst))
	}
	out := make([]Route, len(options))
	for i, opt := range options {
		out[i] = Route(opt.Path)
	}
	return out
}

// Clone deep-copies the device graph. The route table is immutable after
// construction; it and the lazily filled permutation cache are shared by
// reference with the original.
func (e *EpExpanderTopology) Clone() Topology {
	clone := *e
	basic := *e.basicTopology
	basic.pool = e.clonePool()
	clone.basicTopology = &basic
	return &clone
}
