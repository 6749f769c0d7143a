package ranking

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// StrategyWeights re-weights the four sub-scores for one investment strategy.
type StrategyWeights struct {
	Financial float64 `yaml:"financial" json:"financial"`
	Market    float64 `yaml:"market" json:"market"`
	Risk      float64 `yaml:"risk" json:"risk"`
	Liquidity float64 `yaml:"liquidity" json:"liquidity"`
}

// Config carries every tunable of the ranking engine. Nothing in the scoring
// path reads a hardcoded weight; the constants all live here and can be
// loaded from config/scoring.yaml.
type Config struct {
	Weights StrategyWeights `yaml:"weights"`

	// Hard filter gates, applied post-scoring when filtering is requested.
	MinCashOnCash float64 `yaml:"min_cash_on_cash"` // Fraction, e.g. 0.06
	MinCapRate    float64 `yaml:"min_cap_rate"`     // Fraction, e.g. 0.05

	// Strategy-specific re-weightings keyed by strategy name.
	Strategies map[string]StrategyWeights `yaml:"strategies"`
}

// Built-in strategy names.
const (
	StrategyCashFlow     = "cash_flow"
	StrategyAppreciation = "appreciation"
	StrategyValueAdd     = "value_add"
	StrategyBalanced     = "balanced"
)

// DefaultConfig returns the documented default weights and gates.
func DefaultConfig() Config {
	base := StrategyWeights{Financial: 0.40, Market: 0.30, Risk: 0.20, Liquidity: 0.10}
	return Config{
		Weights:       base,
		MinCashOnCash: 0.06,
		MinCapRate:    0.05,
		Strategies: map[string]StrategyWeights{
			StrategyCashFlow:     {Financial: 0.55, Market: 0.15, Risk: 0.20, Liquidity: 0.10},
			StrategyAppreciation: {Financial: 0.20, Market: 0.50, Risk: 0.15, Liquidity: 0.15},
			StrategyValueAdd:     {Financial: 0.35, Market: 0.30, Risk: 0.20, Liquidity: 0.15},
			StrategyBalanced:     base,
		},
	}
}

// LoadConfig reads a Config from a YAML file, filling unset strategies from
// the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read ranking config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse ranking config: %w", err)
	}
	if cfg.Strategies == nil {
		cfg.Strategies = DefaultConfig().Strategies
	}
	return cfg, nil
}

// Validate checks that every weight set sums to 1.
func (c Config) Validate() error {
	check := func(name string, w StrategyWeights) error {
		sum := w.Financial + w.Market + w.Risk + w.Liquidity
		if sum < 0.999 || sum > 1.001 {
			return fmt.Errorf("%s weights sum to %.4f, want 1.0", name, sum)
		}
		return nil
	}
	if err := check("overall", c.Weights); err != nil {
		return err
	}
	for name, w := range c.Strategies {
		if err := check("strategy "+name, w); err != nil {
			return err
		}
	}
	return nil
}
