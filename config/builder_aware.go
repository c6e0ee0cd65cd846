package config

import (
	"fmt"

	"github.com/iti/rngstream"

	"github.com/iti/netanalytical/common"
	"github.com/iti/netanalytical/congestionaware"
	"github.com/iti/netanalytical/eventqueue"
)

// BuildAware constructs a congestion-aware Multi-Dim Topology from cfg,
// sharing eq across every dimension (there is exactly one event queue per
// simulation run) and rng as the process-wide random source for FatTree
// Random routing and ExpanderGraph RandomTopK sampling. Every link is built
// with the FIFO queue discipline.
func BuildAware(cfg *NetworkConfig, eq *eventqueue.EventQueue, rng *rngstream.RngStream) (*congestionaware.MultiDimTopology, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	specs := make([]congestionaware.DimensionSpec, cfg.dimensionCount())
	for i := range specs {
		npus := cfg.resilientNPUsCount(i)
		bandwidth := common.Bandwidth(cfg.Bandwidth[i])
		latency := common.Latency(cfg.Latency[i])

		topo, err := buildAwareDimension(cfg, i, npus, bandwidth, latency, eq, rng)
		if err != nil {
			return nil, err
		}
		specs[i] = congestionaware.DimensionSpec{
			Template:  topo,
			NPUsCount: npus,
			Bandwidth: bandwidth,
			Latency:   latency,
		}
	}

	return congestionaware.NewMultiDimTopology(eq, specs, congestionaware.FIFO, rng), nil
}

func buildAwareDimension(cfg *NetworkConfig, i, npus int, bandwidth common.Bandwidth, latency common.Latency, eq *eventqueue.EventQueue, rng *rngstream.RngStream) (congestionaware.Topology, error) {
	switch cfg.Topology[i] {
	case "Ring":
		return congestionaware.NewRing(eq, npus, bandwidth, latency, congestionaware.FIFO, rng), nil
	case "FullyConnected":
		return congestionaware.NewFullyConnected(eq, npus, bandwidth, latency, congestionaware.FIFO, rng), nil
	case "Switch":
		return congestionaware.NewSwitch(eq, npus, bandwidth, latency, congestionaware.FIFO, rng), nil
	case "FatTree":
		routing := congestionaware.ParseFatTreeRouting(cfg.routingAlgorithm(i))
		return congestionaware.NewFatTree(eq, npus, cfg.fatTreeRadix(i), bandwidth, latency, routing, congestionaware.FIFO, rng), nil
	case "ExpanderGraph":
		file, err := loadAwareExpanderFile(cfg.inputFile(i))
		if err != nil {
			return nil, err
		}
		routing := congestionaware.ParseExpanderGraphRouting(cfg.routingAlgorithm(i))
		return congestionaware.NewExpanderGraph(eq, npus, bandwidth, latency, file, routing, congestionaware.FIFO, rng), nil
	case "SwitchOrExpander":
		var file *congestionaware.ExpanderGraphFile
		if cfg.inputFile(i) != "" {
			var err error
			file, err = loadAwareExpanderFile(cfg.inputFile(i))
			if err != nil {
				return nil, err
			}
		}
		routing := congestionaware.ParseExpanderGraphRouting(cfg.routingAlgorithm(i))
		return congestionaware.NewSwitchOrExpander(eq, npus, bandwidth, latency, file, routing, congestionaware.FIFO, rng), nil
	default:
		return nil, fmt.Errorf("config: dimension %d names unknown topology %q", i, cfg.Topology[i])
	}
}

func loadAwareExpanderFile(filename string) (*congestionaware.ExpanderGraphFile, error) {
	if filename == "" {
		return nil, fmt.Errorf("config: ExpanderGraph dimension requires an inputfile")
	}
	file := &congestionaware.ExpanderGraphFile{}
	if err := loadJSONFile(filename, file); err != nil {
		return nil, err
	}
	return file, nil
}

// LoadEpExpanderFile reads a pre-routed-expander JSON file for direct use
// with congestionaware.NewEpExpander; EpExpander is not driven by the
// topology-list config (it has no congestion-unaware counterpart and no
// Deterministic/Random/ShortestPath/RandomTopK routing_algorithm field to
// select it by), so callers construct it directly.
func LoadEpExpanderFile(filename string) (*congestionaware.EpExpanderFile, error) {
	file := &congestionaware.EpExpanderFile{}
	if err := loadJSONFile(filename, file); err != nil {
		return nil, err
	}
	return file, nil
}
