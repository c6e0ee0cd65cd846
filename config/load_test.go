package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadNetworkConfigYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "topo.yaml")
	contents := "topology: [Ring]\nnpus_count: [8]\nbandwidth: [50]\nlatency: [500]\n"
	require.NoError(t, os.WriteFile(file, []byte(contents), 0o644))

	cfg, err := LoadNetworkConfig(file)
	require.NoError(t, err)
	require.Equal(t, []string{"Ring"}, cfg.Topology)
	require.Equal(t, []int{8}, cfg.NPUsCount)
}

func TestLoadNetworkConfigJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "topo.json")
	contents := `{"topology":["Switch"],"npus_count":[8],"bandwidth":[50],"latency":[500]}`
	require.NoError(t, os.WriteFile(file, []byte(contents), 0o644))

	cfg, err := LoadNetworkConfig(file)
	require.NoError(t, err)
	require.Equal(t, []string{"Switch"}, cfg.Topology)
}

func TestLoadNetworkConfigMissingFile(t *testing.T) {
	_, err := LoadNetworkConfig("/nonexistent/topo.yaml")
	require.Error(t, err)
}

func TestLoadNetworkConfigUnrecognizedExtension(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "topo.txt")
	require.NoError(t, os.WriteFile(file, []byte("topology: [Ring]"), 0o644))

	_, err := LoadNetworkConfig(file)
	require.Error(t, err)
}

func TestLoadNetworkConfigRejectsInvalidContent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "topo.yaml")
	contents := "topology: [Mesh]\nnpus_count: [8]\nbandwidth: [50]\nlatency: [500]\n"
	require.NoError(t, os.WriteFile(file, []byte(contents), 0o644))

	_, err := LoadNetworkConfig(file)
	require.Error(t, err)
}
