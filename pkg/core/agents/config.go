package agents

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config tunes the orchestration layer: fan-out width, triage thresholds,
// and the default ranking strategy. Loaded from config/agents.yaml.
type Config struct {
	Concurrency    int     `yaml:"concurrency"`
	ShortlistScore float64 `yaml:"shortlist_score"`
	RejectScore    float64 `yaml:"reject_score"`
	Strategy       string  `yaml:"strategy"`
	ApplyFilters   bool    `yaml:"apply_filters"`
}

// DefaultAgentConfig returns the documented defaults.
func DefaultAgentConfig() Config {
	return Config{
		Concurrency:    4,
		ShortlistScore: 70,
		RejectScore:    40,
	}
}

// LoadAgentConfig reads a Config from YAML, keeping defaults for unset keys.
func LoadAgentConfig(path string) (Config, error) {
	cfg := DefaultAgentConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read agent config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse agent config: %w", err)
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 4
	}
	if cfg.ShortlistScore <= cfg.RejectScore {
		return cfg, fmt.Errorf("shortlist_score %.1f must exceed reject_score %.1f", cfg.ShortlistScore, cfg.RejectScore)
	}
	return cfg, nil
}
