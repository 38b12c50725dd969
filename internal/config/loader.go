package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadFlappy loads and validates the flappy configuration.
// Search order: customPath -> ~/.flappy/configs/flappy.yaml -> ./configs/flappy.yaml -> embedded default.
// Files are decoded on top of the defaults, so a partial file only
// overrides the keys it names.
func LoadFlappy(customPath string) (FlappyConfig, error) {
	cfg := DefaultFlappyConfig()

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

	for _, path := range []string{userConfigPath("flappy.yaml"), filepath.Join("configs", "flappy.yaml")} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		candidate := DefaultFlappyConfig()
		if err := yaml.Unmarshal(data, &candidate); err != nil {
			continue
		}
		if err := candidate.Validate(); err != nil {
			return candidate, fmt.Errorf("config %s: %w", path, err)
		}
		return candidate, nil
	}

	if err := yaml.Unmarshal(defaultFlappyYAML, &cfg); err != nil {
		return DefaultFlappyConfig(), nil
	}
	return cfg, cfg.Validate()
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".flappy", "configs", filename)
}

// ApplyFlappyPreset adjusts pacing for a difficulty preset. Normal leaves
// the loaded values untouched. The result is re-validated because a custom
// config combined with the hard preset can shrink the gap below the margin.
func ApplyFlappyPreset(cfg *FlappyConfig, preset DifficultyPreset) error {
	switch preset {
	case DifficultyEasy:
		cfg.Obstacles.GapHeight += 30
		cfg.Obstacles.ScrollSpeed *= 0.75
		cfg.Obstacles.SpawnThreshold += 40
	case DifficultyHard:
		cfg.Obstacles.GapHeight -= 20
		cfg.Obstacles.ScrollSpeed *= 1.25
		cfg.Obstacles.SpawnThreshold -= 20
	}
	return cfg.Validate()
}
