package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GameFile is the file name looked up in the config directories.
const GameFile = "game.yaml"

// LoadGame loads the game tuning.
// Search order: customPath -> ~/.beatstep/configs/game.yaml -> ./configs/game.yaml -> embedded default
// Values missing from a file keep their defaults.
func LoadGame(customPath string) (GameConfig, error) {
	cfg := DefaultGameConfig()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	if userCfgPath := userConfigPath(GameFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if parsed, ok := parseGame(data); ok {
				return parsed, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", GameFile)); err == nil {
		if parsed, ok := parseGame(data); ok {
			return parsed, nil
		}
	}

	if parsed, ok := parseGame(defaultGameYAML); ok {
		return parsed, nil
	}
	return DefaultGameConfig(), nil // Fallback to hardcoded if embed fails
}

// parseGame overlays data on the defaults; ok is false when the result is unusable.
func parseGame(data []byte) (GameConfig, bool) {
	cfg := DefaultGameConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	if err := cfg.Validate(); err != nil {
		return cfg, false
	}
	return cfg, true
}

// DataDir returns ~/.beatstep, or empty if home is unavailable.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".beatstep")
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	dir := DataDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "configs", filename)
}
