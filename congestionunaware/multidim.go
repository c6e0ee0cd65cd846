package congestionunaware

import (
	"fmt"

	"github.com/iti/netanalytical/common"
)

// DimensionSpec describes one dimension of a MultiDimTopology: a template
// Topology to route within, used both for local routing and for that
// dimension's own Send delay.
type DimensionSpec struct {
	Template  Topology
	NPUsCount int
}

type switchKey struct {
	dim      int
	sliceKey string
	localID  common.DeviceId
}

// MultiDimTopology composes an ordered list of basic-topology dimensions
// into a single address space, exactly as congestionaware's version does,
// but with no device pool: routing is dimension-ordered and Send sums each
// crossed dimension's own closed-form delay.
type MultiDimTopology struct {
	dims      []DimensionSpec
	strides   []int
	npusCount int

	switchGlobalID map[switchKey]common.DeviceId
	nextSwitchID   common.DeviceId
}

// NewMultiDimTopology composes specs, dimension 0 fastest-varying.
func NewMultiDimTopology(specs []DimensionSpec) *MultiDimTopology {
	if len(specs) == 0 {
		panic("congestionunaware: multi-dim topology requires at least one dimension")
	}
	strides := make([]int, len(specs))
	total := 1
	for i, spec := range specs {
		if spec.NPUsCount <= 0 {
			panic("congestionunaware: every multi-dim dimension needs a positive npus_count")
		}
		strides[i] = total
		total *= spec.NPUsCount
	}
	return &MultiDimTopology{
		dims:           specs,
		strides:        strides,
		npusCount:      total,
		switchGlobalID: make(map[switchKey]common.DeviceId),
		nextSwitchID:   common.DeviceId(total),
	}
}

func (m *MultiDimTopology) decompose(id common.DeviceId) []int {
	coords := make([]int, len(m.dims))
	for i := range m.dims {
		coords[i] = (int(id) / m.strides[i]) % m.dims[i].NPUsCount
	}
	return coords
}

func (m *MultiDimTopology) compose(coords []int) common.DeviceId {
	id := 0
	for i, c := range coords {
		id += c * m.strides[i]
	}
	return common.DeviceId(id)
}

func (m *MultiDimTopology) requireNPU(id common.DeviceId) {
	if id < 0 || int(id) >= m.npusCount {
		panic(fmt.Sprintf("congestionunaware: device id %d is not an NPU in a multi-dim topology of %d NPUs", id, m.npusCount))
	}
}

func sliceKeyString(dimIndex int, coords []int) string {
	key := fmt.Sprintf("%d", dimIndex)
	for i, c := range coords {
		if i == dimIndex {
			continue
		}
		key += fmt.Sprintf(",%d", c)
	}
	return key
}

// translate maps a device id local to dimension dimIndex's topology into
// the shared global address space.
func (m *MultiDimTopology) translate(dimIndex int, coords []int, localID common.DeviceId) common.DeviceId {
	n := m.dims[dimIndex].NPUsCount
	if int(localID) < n {
		translated := append([]int(nil), coords...)
		translated[dimIndex] = int(localID)
		return m.compose(translated)
	}

	key := switchKey{dim: dimIndex, sliceKey: sliceKeyString(dimIndex, coords), localID: localID}
	if id, ok := m.switchGlobalID[key]; ok {
		return id
	}
	id := m.nextSwitchID
	m.nextSwitchID++
	m.switchGlobalID[key] = id
	return id
}

// Route advances one dimension at a time from src toward dst, appending
// each dimension's local hop sequence translated to global ids.
func (m *MultiDimTopology) Route(src, dst common.DeviceId) Route {
	m.requireNPU(src)
	m.requireNPU(dst)

	srcCoords := m.decompose(src)
	dstCoords := m.decompose(dst)
	cur := append([]int(nil), srcCoords...)

	route := Route{src}
	for i := range m.dims {
		if cur[i] == dstCoords[i] {
			continue
		}
		localRoute := m.dims[i].Template.Route(common.DeviceId(cur[i]), common.DeviceId(dstCoords[i]))
		for _, localID := range localRoute[1:] {
			global := m.translate(i, cur, localID)
			route = append(route, global)
		}
		cur[i] = dstCoords[i]
	}
	return route
}

// Hops is the length of Route(src,dst) minus one.
func (m *MultiDimTopology) Hops(src, dst common.DeviceId) int {
	return m.Route(src, dst).Hops()
}

// Send sums each crossed dimension's own closed-form delay: one
// serialization term per dimension traversed, at that dimension's own
// bandwidth, plus that dimension's hop*latency contribution.
func (m *MultiDimTopology) Send(src, dst common.DeviceId, size common.ChunkSize) common.EventTime {
	m.requireNPU(src)
	m.requireNPU(dst)

	srcCoords := m.decompose(src)
	dstCoords := m.decompose(dst)

	var total common.EventTime
	for i := range m.dims {
		if srcCoords[i] == dstCoords[i] {
			continue
		}
		total += m.dims[i].Template.Send(common.DeviceId(srcCoords[i]), common.DeviceId(dstCoords[i]), size)
	}
	return total
}

func (m *MultiDimTopology) NPUsCount() int {
	return m.npusCount
}

// Clone returns a fresh MultiDimTopology over the same dimension specs;
// per-dimension templates are cloned so their own mutable caches (e.g. an
// ExpanderGraph's route cache) start empty.
func (m *MultiDimTopology) Clone() Topology {
	clonedDims := make([]DimensionSpec, len(m.dims))
	for i, d := range m.dims {
		clonedDims[i] = DimensionSpec{Template: d.Template.Clone(), NPUsCount: d.NPUsCount}
	}
	return NewMultiDimTopology(clonedDims)
}
