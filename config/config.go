// Package config loads a topology description (YAML or JSON) and the
// auxiliary graph/route files it references, and builds the corresponding
// congestionaware or congestionunaware Multi-Dim Topology. It is the
// Parser/Builder component: the only part of this module that touches the
// filesystem.
package config

import (
	"fmt"
)

// NetworkConfig is the topology config: one entry per list index names one
// dimension. Every list must have the same length; optional per-dimension
// fields may be left zero-valued when not needed by that dimension's
// topology kind.
type NetworkConfig struct {
	Topology  []string  `json:"topology" yaml:"topology"`
	NPUsCount []int     `json:"npus_count" yaml:"npus_count"`
	Bandwidth []float64 `json:"bandwidth" yaml:"bandwidth"`
	Latency   []int64   `json:"latency" yaml:"latency"`

	InputFile        []string `json:"inputfile,omitempty" yaml:"inputfile,omitempty"`
	RoutingAlgorithm []string `json:"routing_algorithm,omitempty" yaml:"routing_algorithm,omitempty"`
	FatTreeRadix     []int    `json:"fattree_radix,omitempty" yaml:"fattree_radix,omitempty"`
	ResiliencyNPUs   *bool    `json:"resiliency_npus,omitempty" yaml:"resiliency_npus,omitempty"`
}

// dimensionCount returns the number of dimensions, having already been
// validated to be consistent across the required lists.
func (c *NetworkConfig) dimensionCount() int {
	return len(c.Topology)
}

// validate enforces §7's "Configuration errors" taxonomy: dimension length
// mismatch, unknown topology name, bandwidth <= 0, latency < 0 are all
// fatal at construction. Graph-level problems (degree mismatch) are the
// building blocks' own concern and surface as warnings, not here.
func (c *NetworkConfig) validate() error {
	n := c.dimensionCount()
	if n == 0 {
		return fmt.Errorf("config: topology must name at least one dimension")
	}
	for name, length := range map[string]int{
		"npus_count": len(c.NPUsCount),
		"bandwidth":  len(c.Bandwidth),
		"latency":    len(c.Latency),
	} {
		if length != n {
			return fmt.Errorf("config: %s has length %d, expected %d (one per dimension)", name, length, n)
		}
	}
	for _, optional := range []struct {
		name   string
		length int
	}{
		{"inputfile", len(c.InputFile)},
		{"routing_algorithm", len(c.RoutingAlgorithm)},
		{"fattree_radix", len(c.FatTreeRadix)},
	} {
		if optional.length != 0 && optional.length != n {
			return fmt.Errorf("config: %s has length %d, expected 0 or %d", optional.name, optional.length, n)
		}
	}

	for i := 0; i < n; i++ {
		if !knownTopologyName(c.Topology[i]) {
			return fmt.Errorf("config: dimension %d names unknown topology %q", i, c.Topology[i])
		}
		if c.Bandwidth[i] <= 0 {
			return fmt.Errorf("config: dimension %d bandwidth %g must be positive", i, c.Bandwidth[i])
		}
		if c.Latency[i] < 0 {
			return fmt.Errorf("config: dimension %d latency %d must be non-negative", i, c.Latency[i])
		}
		if c.NPUsCount[i] <= 0 {
			return fmt.Errorf("config: dimension %d npus_count %d must be positive", i, c.NPUsCount[i])
		}
	}
	return nil
}

func knownTopologyName(name string) bool {
	switch name {
	case "Ring", "FullyConnected", "Switch", "FatTree", "ExpanderGraph", "SwitchOrExpander":
		return true
	default:
		return false
	}
}

func (c *NetworkConfig) inputFile(i int) string {
	if i < len(c.InputFile) {
		return c.InputFile[i]
	}
	return ""
}

func (c *NetworkConfig) routingAlgorithm(i int) string {
	if i < len(c.RoutingAlgorithm) {
		return c.RoutingAlgorithm[i]
	}
	return ""
}

func (c *NetworkConfig) fatTreeRadix(i int) int {
	if i < len(c.FatTreeRadix) && c.FatTreeRadix[i] > 0 {
		return c.FatTreeRadix[i]
	}
	return 4
}

// resilientNPUsCount applies the optional resiliency_npus flag: when set,
// every dimension is built with N/8 extra NPUs beyond its configured
// npus_count. The extra NPUs are ordinary addressable, routable NPUs; no
// failure handling or re-routing is attached to them. The spec leaves the exact
// meaning of "enabling an extra N/8 spare devices" open; this is the
// decision recorded in DESIGN.md.
func (c *NetworkConfig) resilientNPUsCount(i int) int {
	n := c.NPUsCount[i]
	if c.ResiliencyNPUs != nil && *c.ResiliencyNPUs {
		return n + n/8
	}
	return n
}

