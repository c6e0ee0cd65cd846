package config

import (
	"testing"

	"github.com/iti/rngstream"
	"github.com/stretchr/testify/require"

	"github.com/iti/netanalytical/eventqueue"
)

func validRingConfig() *NetworkConfig {
	return &NetworkConfig{
		Topology:  []string{"Ring"},
		NPUsCount: []int{8},
		Bandwidth: []float64{50},
		Latency:   []int64{500},
	}
}

func TestValidateRejectsMismatchedLengths(t *testing.T) {
	cfg := validRingConfig()
	cfg.Bandwidth = []float64{50, 100}
	require.Error(t, cfg.validate())
}

func TestValidateRejectsUnknownTopology(t *testing.T) {
	cfg := validRingConfig()
	cfg.Topology[0] = "Mesh"
	require.Error(t, cfg.validate())
}

func TestValidateRejectsNonPositiveBandwidth(t *testing.T) {
	cfg := validRingConfig()
	cfg.Bandwidth[0] = 0
	require.Error(t, cfg.validate())
}

func TestValidateRejectsNegativeLatency(t *testing.T) {
	cfg := validRingConfig()
	cfg.Latency[0] = -1
	require.Error(t, cfg.validate())
}

func TestBuildAwareSingleRingDimension(t *testing.T) {
	cfg := validRingConfig()
	eq := eventqueue.New()
	rng := rngstream.New("config-aware-test")

	topo, err := BuildAware(cfg, eq, rng)
	require.NoError(t, err)
	require.Equal(t, 8, topo.NPUsCount())
}

func TestBuildUnawareSingleRingDimension(t *testing.T) {
	cfg := validRingConfig()
	rng := rngstream.New("config-unaware-test")

	topo, err := BuildUnaware(cfg, rng)
	require.NoError(t, err)
	require.Equal(t, 8, topo.NPUsCount())
}

func TestResiliencyNPUsAddsOneEighthSpares(t *testing.T) {
	cfg := validRingConfig()
	enabled := true
	cfg.ResiliencyNPUs = &enabled
	rng := rngstream.New("config-resiliency-test")

	topo, err := BuildUnaware(cfg, rng)
	require.NoError(t, err)
	require.Equal(t, 9, topo.NPUsCount())
}

func TestBuildAwareExpanderGraphWithoutInputFileIsError(t *testing.T) {
	cfg := &NetworkConfig{
		Topology:  []string{"ExpanderGraph"},
		NPUsCount: []int{8},
		Bandwidth: []float64{50},
		Latency:   []int64{500},
	}
	eq := eventqueue.New()
	rng := rngstream.New("config-expander-no-file")

	_, err := BuildAware(cfg, eq, rng)
	require.Error(t, err)
}

func TestBuildAwareMultiDimensionComposesNPUsCount(t *testing.T) {
	cfg := &NetworkConfig{
		Topology:  []string{"Ring", "FullyConnected"},
		NPUsCount: []int{4, 4},
		Bandwidth: []float64{50, 100},
		Latency:   []int64{500, 200},
	}
	eq := eventqueue.New()
	rng := rngstream.New("config-multidim-test")

	topo, err := BuildAware(cfg, eq, rng)
	require.NoError(t, err)
	require.Equal(t, 16, topo.NPUsCount())
}
