package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadNetworkConfig reads a topology config from filename. The file's
// extension selects the decoder: .yaml/.yml uses gopkg.in/yaml.v3, .json
// uses the standard library decoder; any other extension is a
// configuration error.
func LoadNetworkConfig(filename string) (*NetworkConfig, error) {
	info, err := os.Stat(filename)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("config: topology file %q does not exist or cannot be read", filename)
	}
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("config: reading topology file %q: %w", filename, err)
	}

	cfg := &NetworkConfig{}
	switch ext := strings.ToLower(path.Ext(filename)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, cfg)
	case ".json":
		err = json.Unmarshal(raw, cfg)
	default:
		return nil, fmt.Errorf("config: topology file %q has unrecognized extension %q (want .yaml, .yml or .json)", filename, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("config: parsing topology file %q: %w", filename, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadJSONFile decodes dest from the JSON file at filename. Both the
// expander-graph and pre-routed-expander file formats are JSON regardless
// of the topology config's own format, following the original source's
// nlohmann::json usage for those auxiliary files.
func loadJSONFile(filename string, dest any) error {
	info, err := os.Stat(filename)
	if err != nil || info.IsDir() {
		return fmt.Errorf("config: graph file %q does not exist or cannot be read", filename)
	}
	raw, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("config: reading graph file %q: %w", filename, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("config: parsing graph file %q: %w", filename, err)
	}
	return nil
}
