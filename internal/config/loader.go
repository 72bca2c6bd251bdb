package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadNebula loads Nebula configuration.
// Search order: customPath -> ~/.nebula/configs/nebula.yaml -> ./configs/nebula.yaml -> embedded default
// Files are layered over the defaults, so a partial file only overrides
// the keys it sets.
func LoadNebula(customPath string) (NebulaConfig, error) {
	cfg := DefaultNebulaConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("nebula.yaml"); userCfgPath != "" {
		if loaded, ok := tryLoad(userCfgPath); ok {
			return loaded, nil
		}
	}

	// Try local configs directory
	if loaded, ok := tryLoad(filepath.Join("configs", "nebula.yaml")); ok {
		return loaded, nil
	}

	// Use embedded default YAML
	embedded := DefaultNebulaConfig()
	if err := yaml.Unmarshal(defaultNebulaYAML, &embedded); err != nil || embedded.Validate() != nil {
		return DefaultNebulaConfig(), nil // Fallback to hardcoded if embed fails
	}
	return embedded, nil
}

// tryLoad reads an optional config file. Missing or broken files are
// ignored so the next source in the search order is used.
func tryLoad(path string) (NebulaConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return NebulaConfig{}, false
	}
	cfg := DefaultNebulaConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return NebulaConfig{}, false
	}
	if cfg.Validate() != nil {
		return NebulaConfig{}, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nebula", "configs", filename)
}
