package config

import (
	"fmt"

	"github.com/iti/rngstream"

	"github.com/iti/netanalytical/common"
	"github.com/iti/netanalytical/congestionunaware"
)

// BuildUnaware constructs a congestion-unaware Multi-Dim Topology from
// cfg. rng is only consulted by dimensions using FatTree Random routing or
// ExpanderGraph RandomTopK sampling.
func BuildUnaware(cfg *NetworkConfig, rng *rngstream.RngStream) (*congestionunaware.MultiDimTopology, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	specs := make([]congestionunaware.DimensionSpec, cfg.dimensionCount())
	for i := range specs {
		npus := cfg.resilientNPUsCount(i)
		bandwidth := common.Bandwidth(cfg.Bandwidth[i])
		latency := common.Latency(cfg.Latency[i])

		topo, err := buildUnawareDimension(cfg, i, npus, bandwidth, latency, rng)
		if err != nil {
			return nil, err
		}
		specs[i] = congestionunaware.DimensionSpec{Template: topo, NPUsCount: npus}
	}

	return congestionunaware.NewMultiDimTopology(specs), nil
}

func buildUnawareDimension(cfg *NetworkConfig, i, npus int, bandwidth common.Bandwidth, latency common.Latency, rng *rngstream.RngStream) (congestionunaware.Topology, error) {
	switch cfg.Topology[i] {
	case "Ring":
		return congestionunaware.NewRing(npus, bandwidth, latency), nil
	case "FullyConnected":
		return congestionunaware.NewFullyConnected(npus, bandwidth, latency), nil
	case "Switch":
		return congestionunaware.NewSwitch(npus, bandwidth, latency), nil
	case "FatTree":
		routing := congestionunaware.ParseFatTreeRouting(cfg.routingAlgorithm(i))
		return congestionunaware.NewFatTree(npus, cfg.fatTreeRadix(i), bandwidth, latency, routing, rng), nil
	case "ExpanderGraph":
		file, err := loadUnawareExpanderFile(cfg.inputFile(i))
		if err != nil {
			return nil, err
		}
		routing := congestionunaware.ParseExpanderGraphRouting(cfg.routingAlgorithm(i))
		return congestionunaware.NewExpanderGraph(npus, bandwidth, latency, file, routing, rng), nil
	case "SwitchOrExpander":
		var file *congestionunaware.ExpanderGraphFile
		if cfg.inputFile(i) != "" {
			var err error
			file, err = loadUnawareExpanderFile(cfg.inputFile(i))
			if err != nil {
				return nil, err
			}
		}
		routing := congestionunaware.ParseExpanderGraphRouting(cfg.routingAlgorithm(i))
		return congestionunaware.NewSwitchOrExpander(npus, bandwidth, latency, file, routing, rng), nil
	default:
		return nil, fmt.Errorf("config: dimension %d names unknown topology %q", i, cfg.Topology[i])
	}
}

func loadUnawareExpanderFile(filename string) (*congestionunaware.ExpanderGraphFile, error) {
	if filename == "" {
		return nil, fmt.Errorf("config: ExpanderGraph dimension requires an inputfile")
	}
	file := &congestionunaware.ExpanderGraphFile{}
	if err := loadJSONFile(filename, file); err != nil {
		return nil, err
	}
	return file, nil
}
