package congestionaware

import (
	"fmt"

	"github.com/iti/rngstream"

	"github.com/iti/netanalytical/common"
	"github.com/iti/netanalytical/eventqueue"
)

// DimensionSpec describes one dimension of a MultiDimTopology: a template
// BasicTopology to clone per slice, plus the parameters needed to lazily
// wire up cross-slice links at the dimension's own bandwidth and latency.
type DimensionSpec struct {
	Template  Topology
	NPUsCount int
	Bandwidth common.Bandwidth
	Latency   common.Latency
}

type switchKey struct {
	dim      int
	sliceKey string
	localID  common.DeviceId
}

// MultiDimTopology composes an ordered list of basic-topology dimensions
// into a single address space. A global DeviceId decomposes into a
// mixed-radix coordinate tuple, one coordinate per dimension, dimension 0
// fastest-varying. Routing is dimension-ordered: the route advances one
// dimension at a time until every coordinate matches the destination.
type MultiDimTopology struct {
	eq         *eventqueue.EventQueue
	dims       []DimensionSpec
	strides    []int
	npusCount  int
	discipline QueueDiscipline
	rng        *rngstream.RngStream

	pool *DevicePool

	slices         map[string]Topology
	switchGlobalID map[switchKey]common.DeviceId
	nextSwitchID   common.DeviceId
}

// NewMultiDimTopology composes specs, dimension 0 fastest-varying.
func NewMultiDimTopology(eq *eventqueue.EventQueue, specs []DimensionSpec, discipline QueueDiscipline, rng *rngstream.RngStream) *MultiDimTopology {
	if len(specs) == 0 {
		panic("congestionaware: multi-dim topology requires at least one dimension")
	}
	strides := make([]int, len(specs))
	total := 1
	for i, spec := range specs {
		if spec.NPUsCount <= 0 {
			panic("congestionaware: every multi-dim dimension needs a positive npus_count")
		}
		strides[i] = total
		total *= spec.NPUsCount
	}
	return &MultiDimTopology{
		eq:             eq,
		dims:           specs,
		strides:        strides,
		npusCount:      total,
		discipline:     discipline,
		rng:            rng,
		pool:           NewDevicePool(),
		slices:         make(map[string]Topology),
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
		panic(fmt.Sprintf("congestionaware: device id %d is not an NPU in a multi-dim topology of %d NPUs", id, m.npusCount))
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

// sliceFor returns the (lazily cloned) per-slice topology instance for
// dimension dimIndex at the other dimensions' current coordinates.
func (m *MultiDimTopology) sliceFor(dimIndex int, coords []int) Topology {
	key := sliceKeyString(dimIndex, coords)
	if t, ok := m.slices[key]; ok {
		return t
	}
	clone := m.dims[dimIndex].Template.Clone()
	m.slices[key] = clone
	return clone
}

// translate maps a device id local to dimension dimIndex's slice topology
// into the shared global address space: NPU-range local ids become the
// coordinate tuple with dim dimIndex substituted; out-of-range local ids
// name an internal switch, which is assigned a fresh global id the first
// time this (dimension, slice, local id) triple is seen.
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

func (m *MultiDimTopology) lazyConnect(a, b common.DeviceId, dimIndex int) {
	da := m.pool.GetOrCreate(a)
	if da.Connected(b) {
		return
	}
	spec := m.dims[dimIndex]
	db := m.pool.GetOrCreate(b)
	da.Connect(b, NewLink(m.eq, spec.Bandwidth, spec.Latency, m.discipline, m.rng))
	db.Connect(a, NewLink(m.eq, spec.Bandwidth, spec.Latency, m.discipline, m.rng))
}

// Route advances one dimension at a time from src toward dst, appending
// each dimension's local hop sequence (translated to global ids) and
// lazily wiring up the links it crosses.
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
		slice := m.sliceFor(i, cur)
		localRoute := slice.Route(common.DeviceId(cur[i]), common.DeviceId(dstCoords[i]))
		for _, localID := range localRoute[1:] {
			global := m.translate(i, cur, localID)
			m.lazyConnect(route[len(route)-1], global, i)
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

// Send positions chunk at its current device and hands it to that
// device's outbound link toward the next hop, exactly as a BasicTopology
// does — the difference is entirely in how MultiDim built its device pool.
// A same-device chunk never crosses any dimension, so its device was
// never lazily created in the pool; it completes immediately instead of
// being looked up.
func (m *MultiDimTopology) Send(chunk *Chunk) {
	if chunk.Arrived() {
		if chunk.OnComplete != nil {
			chunk.OnComplete(chunk)
		}
		return
	}
	m.pool.Device(chunk.Current()).Send(chunk)
}

func (m *MultiDimTopology) NPUsCount() int {
	return m.npusCount
}

// Clone returns a cold MultiDimTopology over the same dimension specs:
// fresh device pool, fresh slice clones, fresh switch-id allocation.
func (m *MultiDimTopology) Clone() Topology {
	return NewMultiDimTopology(m.eq, m.dims, m.discipline, m.rng)
}
