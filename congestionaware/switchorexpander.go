package congestionaware

import (
	"fmt"

	"github.com/iti/rngstream"
	"golang.org/x/exp/slices"

	"github.com/iti/netanalytical/common"
	"github.com/iti/netanalytical/eventqueue"
)

// SwitchOrExpander is a hybrid topology holding both a Switch over the same
// NPUs and, optionally, an ExpanderGraph built from them. Each NPU carries
// an independent MoE-routing flag; routing a pair whose devices disagree on
// the flag is an error.
type SwitchOrExpander struct {
	switchTopology   *Switch
	expanderTopology *ExpanderGraph
	moeMode          map[common.DeviceId]bool
	npusCount        int
}

// NewSwitchOrExpander builds the switch topology unconditionally and the
// expander topology only when file is non-nil.
func NewSwitchOrExpander(eq *eventqueue.EventQueue, npusCount int, bandwidth common.Bandwidth, latency common.Latency, file *ExpanderGraphFile, routing ExpanderGraphRouting, discipline QueueDiscipline, rng *rngstream.RngStream) *SwitchOrExpander {
	s := &SwitchOrExpander{
		switchTopology: NewSwitch(eq, npusCount, bandwidth, latency, discipline, rng),
		moeMode:        make(map[common.DeviceId]bool, npusCount),
		npusCount:      npusCount,
	}
	if file != nil {
		s.expanderTopology = NewExpanderGraph(eq, npusCount, bandwidth, latency, file, routing, discipline, rng)
	}
	return s
}

// SetMoEMode sets the MoE-routing flag for a single device.
func (s *SwitchOrExpander) SetMoEMode(device common.DeviceId, enabled bool) {
	s.moeMode[device] = enabled
}

// SetMoEModeAll sets the MoE-routing flag for every NPU in the topology.
func (s *SwitchOrExpander) SetMoEModeAll(enabled bool) {
	for i := 0; i < s.npusCount; i++ {
		s.moeMode[common.DeviceId(i)] = enabled
	}
}

func (s *SwitchOrExpander) requireSameMode(src, dst common.DeviceId) bool {
	srcMode := s.moeMode[src]
	dstMode := s.moeMode[dst]
	if srcMode != dstMode {
		panic(fmt.Sprintf("congestionaware: switch-or-expander route(%d,%d) mixes MoE mode (%v vs %v)", src, dst, srcMode, dstMode))
	}
	return srcMode
}

func (s *SwitchOrExpander) usesExpander(src, dst common.DeviceId) bool {
	return s.requireSameMode(src, dst) && s.expanderTopology != nil
}

// Route delegates to the expander when both devices have MoE enabled and an
// expander was configured, otherwise to the switch.
func (s *SwitchOrExpander) Route(src, dst common.DeviceId) Route {
	if s.usesExpander(src, dst) {
		return s.expanderTopology.Route(src, dst)
	}
	return s.switchTopology.Route(src, dst)
}

// Hops is the length of Route(src,dst) minus one.
func (s *SwitchOrExpander) Hops(src, dst common.DeviceId) int {
	return s.Route(src, dst).Hops()
}

// Distance returns the expander's true shortest-path distance in MoE mode,
// or the switch's fixed 2-hop distance otherwise.
func (s *SwitchOrExpander) Distance(src, dst common.DeviceId) int {
	if src == dst {
		return 0
	}
	if s.usesExpander(src, dst) {
		return s.expanderTopology.Distance(src, dst)
	}
	return s.switchTopology.Route(src, dst).Hops()
}

// Send routes the chunk through whichever sub-topology produced its route:
// a route touching the switch's dedicated device id belongs to the switch
// network, everything else belongs to the expander network.
func (s *SwitchOrExpander) Send(chunk *Chunk) {
	if chunk.Arrived() {
		if chunk.OnComplete != nil {
			chunk.OnComplete(chunk)
		}
		return
	}
	if slices.Contains(chunk.Route, s.switchTopology.switchID) {
		s.switchTopology.Send(chunk)
		return
	}
	if s.expanderTopology == nil {
		panic("congestionaware: switch-or-expander received a non-switch route with no expander configured")
	}
	s.expanderTopology.Send(chunk)
}

func (s *SwitchOrExpander) NPUsCount() int {
	return s.npusCount
}

// Clone deep-copies both sub-topologies and the MoE mode map.
func (s *SwitchOrExpander) Clone() Topology {
	clone := &SwitchOrExpander{
		switchTopology: s.switchTopology.Clone().(*Switch),
		npusCount:      s.npusCount,
		moeMode:        make(map[common.DeviceId]bool, len(s.moeMode)),
	}
	for k, v := range s.moeMode {
		clone.moeMode[k] = v
	}
	if s.expanderTopology != nil {
		clone.expanderTopology = s.expanderTopology.Clone().(*ExpanderGraph)
	}
	return clone
}
