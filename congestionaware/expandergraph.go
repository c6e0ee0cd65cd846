package congestionaware

import (
	"fmt"

	"github.com/iti/rngstream"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/iti/netanalytical/common"
	"github.com/iti/netanalytical/eventqueue"
)

// ExpanderGraphRouting selects how ExpanderGraph computes routes.
type ExpanderGraphRouting int

const (
	ShortestPath ExpanderGraphRouting = iota
	RandomTopK
)

// ParseExpanderGraphRouting maps a config string onto an
// ExpanderGraphRouting, defaulting to ShortestPath.
func ParseExpanderGraphRouting(s string) ExpanderGraphRouting {
	switch s {
	case "RandomTopK":
		return RandomTopK
	default:
		return ShortestPath
	}
}

// randomTopKSize is the maximum number of shortest simple paths cached per
// (src,dst) pair under RandomTopK routing.
const randomTopKSize = 16

// randomTopKMinRank is the rank (0-indexed) that sampling starts from when
// more than that many paths were found.
const randomTopKMinRank = 4

// ExpanderGraphFile is the on-disk description of an expander's adjacency,
// loaded from JSON by the config package and handed to NewExpanderGraph.
type ExpanderGraphFile struct {
	NodeCount int        `json:"node_count"`
	Degree    int        `json:"degree"`
	Groups    *struct {
		A []int `json:"A"`
		B []int `json:"B"`
	} `json:"groups,omitempty"`
	ConnectedGraphAdjacency [][]int `json:"connected_graph_adjacency"`
	SplitGraphAdjacency     [][]int `json:"split_graph_adjacency,omitempty"`
}

// ExpanderGraph is a degree-regular random graph over the NPUs themselves
// (no dedicated switch devices). Routes are BFS shortest paths or, under
// RandomTopK, a uniform sample from up to 16 Yen-style shortest simple
// paths: from those at rank 4 and beyond when more than 4 were found,
// otherwise from all of them.
type ExpanderGraph struct {
	*basicTopology
	routing      ExpanderGraphRouting
	adjacency    map[common.DeviceId][]common.DeviceId
	g            *simple.UndirectedGraph
	routeCache   map[[2]common.DeviceId]Route
	distCache    map[[2]common.DeviceId]int
	topKCache    map[[2]common.DeviceId][]Route
}

// NewExpanderGraph builds an expander over npusCount NPUs from file, which
// must describe either a full graph (node_count == npusCount) or a split
// graph (node_count == 2*npusCount, using group "A").
func NewExpanderGraph(eq *eventqueue.EventQueue, npusCount int, bandwidth common.Bandwidth, latency common.Latency, file *ExpanderGraphFile, routing ExpanderGraphRouting, discipline QueueDiscipline, rng *rngstream.RngStream) *ExpanderGraph {
	eg := &ExpanderGraph{
		basicTopology: newBasicTopology(BuildingBlockExpanderGraph, eq, npusCount, npusCount, bandwidth, latency, discipline, rng),
		routing:       routing,
		adjacency:     make(map[common.DeviceId][]common.DeviceId, npusCount),
		g:             simple.NewUndirectedGraph(),
		routeCache:    make(map[[2]common.DeviceId]Route),
		distCache:     make(map[[2]common.DeviceId]int),
		topKCache:     make(map[[2]common.DeviceId][]Route),
	}
	for i := 0; i < npusCount; i++ {
		eg.g.AddNode(simple.Node(i))
	}

	if npusCount*2 == file.NodeCount {
		eg.loadSplitGraph(file)
	} else if npusCount == file.NodeCount {
		eg.loadFullGraph(file)
	} else {
		panic(fmt.Sprintf("congestionaware: expander npus_count %d matches neither full graph (node_count %d) nor split graph (node_count/2)", npusCount, file.NodeCount))
	}

	for i := 0; i < npusCount; i++ {
		if got := len(eg.adjacency[common.DeviceId(i)]); got != file.Degree {
			logrus.WithFields(logrus.Fields{"device": i, "degree": got, "expected": file.Degree}).
				Warn("congestionaware: expander node degree does not match metadata")
		}
	}

	return eg
}

func (eg *ExpanderGraph) connectNodes(a, b int) {
	if a == b {
		logrus.WithField("device", a).Warn("congestionaware: expander refuses to self-connect a node")
		return
	}
	da, db := common.DeviceId(a), common.DeviceId(b)
	if slices.Contains(eg.adjacency[da], db) {
		logrus.WithFields(logrus.Fields{"a": a, "b": b}).Warn("congestionaware: expander edge already exists")
		return
	}
	eg.adjacency[da] = append(eg.adjacency[da], db)
	eg.adjacency[db] = append(eg.adjacency[db], da)
	eg.g.SetEdge(eg.g.NewEdge(simple.Node(a), simple.Node(b)))
	eg.connect(da, db)
}

func (eg *ExpanderGraph) loadFullGraph(file *ExpanderGraphFile) {
	for nodeID, neighbors := range file.ConnectedGraphAdjacency {
		for _, neighbor := range neighbors {
			if nodeID < neighbor {
				eg.connectNodes(nodeID, neighbor)
			}
		}
	}
}

func (eg *ExpanderGraph) loadSplitGraph(file *ExpanderGraphFile) {
	if file.Groups == nil {
		panic("congestionaware: split expander graph file is missing groups.A")
	}
	groupA := file.Groups.A
	nodeToNPU := make(map[int]int, len(groupA))
	inGroupA := make(map[int]bool, len(groupA))
	for npu, node := range groupA {
		nodeToNPU[node] = npu
		inGroupA[node] = true
	}

	for nodeID, neighbors := range file.SplitGraphAdjacency {
		if !inGroupA[nodeID] {
			continue
		}
		npuID := nodeToNPU[nodeID]
		for _, neighborNode := range neighbors {
			if !inGroupA[neighborNode] {
				continue
			}
			neighborNPU := nodeToNPU[neighborNode]
			if npuID < neighborNPU {
				eg.connectNodes(npuID, neighborNPU)
			}
		}
	}
}

// Route returns a path from src to dst per the configured routing
// algorithm, memoized.
func (eg *ExpanderGraph) Route(src, dst common.DeviceId) Route {
	eg.requireNPU(src)
	eg.requireNPU(dst)
	if src == dst {
		return Route{src}
	}

	switch eg.routing {
	case RandomTopK:
		return eg.routeTopK(src, dst)
	default:
		return eg.routeShortestPath(src, dst)
	}
}

func (eg *ExpanderGraph) routeShortestPath(src, dst common.DeviceId) Route {
	key := [2]common.DeviceId{src, dst}
	if cached, ok := eg.routeCache[key]; ok {
		return cached
	}

	shortest := path.DijkstraFrom(simple.Node(int64(src)), eg.g)
	nodes, _ := shortest.To(int64(dst))
	if len(nodes) == 0 {
		panic(fmt.Sprintf("congestionaware: no path from %d to %d in expander graph", src, dst))
	}
	route := make(Route, len(nodes))
	for i, n := range nodes {
		route[i] = common.DeviceId(n.ID())
	}
	eg.routeCache[key] = route
	return route
}

func (eg *ExpanderGraph) routeTopK(src, dst common.DeviceId) Route {
	key := [2]common.DeviceId{src, dst}
	paths, ok := eg.topKCache[key]
	if !ok {
		candidates := path.YenKShortestPaths(eg.g, randomTopKSize, simple.Node(int64(src)), simple.Node(int64(dst)))
		paths = make([]Route, 0, len(candidates))
		for _, nodes := range candidates {
			r := make(Route, len(nodes))
			for i, n := range nodes {
				r[i] = common.DeviceId(n.ID())
			}
			paths = append(paths, r)
		}
		eg.topKCache[key] = paths
	}
	if len(paths) == 0 {
		panic(fmt.Sprintf("congestionaware: no path from %d to %d in expander graph", src, dst))
	}

	start := 0
	if len(paths) > randomTopKMinRank {
		start = randomTopKMinRank
	}
	idx := start + int(eg.rng.RandU01()*float64(len(paths)-start))
	if idx >= len(paths) {
		idx = len(paths) - 1
	}
	return paths[idx]
}

// Hops is the length of Route(src,dst) minus one.
func (eg *ExpanderGraph) Hops(src, dst common.DeviceId) int {
	return eg.Route(src, dst).Hops()
}

// Distance returns the unweighted graph distance between src and dst,
// memoized independently of Route (RandomTopK routes are not shortest
// paths, but Distance always reports the true shortest-path length).
func (eg *ExpanderGraph) Distance(src, dst common.DeviceId) int {
	eg.requireNPU(src)
	eg.requireNPU(dst)
	if src == dst {
		return 0
	}
	key := [2]common.DeviceId{src, dst}
	if d, ok := eg.distCache[key]; ok {
		return d
	}

	weighted := path.DijkstraFrom(simple.Node(int64(src)), eg.g)
	_, weight := weighted.To(int64(dst))
	d := int(weight)
	eg.distCache[key] = d
	return d
}

// Clone deep-copies the device graph. Adjacency and the gonum graph are
// immutable after construction; they and the lazily filled route, distance
// and top-K caches are shared by reference with the original.
func (eg *ExpanderGraph) Clone() Topology {
	clone := *eg
	basic := *eg.basicTopology
	basic.pool = eg.clonePool()
	clone.basicTopology = &basic
	return &clone
}
