// Package config loads engine settings from defaults, an optional yaml
// file and ANIMALCHESS_-prefixed environment variables, in that order of
// increasing priority.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/AlanRexcop/animal-chess/eval"
)

type Config struct {
	// Search limits used when a request does not carry its own.
	MaxDepth     int `mapstructure:"max-depth"`
	TimeBudgetMs int `mapstructure:"time-budget-ms"`
	// TTMemFraction sizes the transposition table as a fraction of system
	// memory.
	TTMemFraction float64 `mapstructure:"tt-mem-fraction"`

	NatsURL     string `mapstructure:"nats-url"`
	NatsChannel string `mapstructure:"nats-channel"`
	ListenAddr  string `mapstructure:"listen-addr"`
	Debug       bool   `mapstructure:"debug"`

	// Weights overrides the evaluator's tuned constants; any key left unset
	// keeps its default.
	Weights eval.Weights `mapstructure:"weights"`
}

// Load reads configuration. configPath may be empty; a missing file is
// fine, a malformed one is not.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("animalchess")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("max-depth", 8)
	v.SetDefault("time-budget-ms", 3000)
	v.SetDefault("tt-mem-fraction", 0.05)
	v.SetDefault("nats-url", "nats://localhost:4222")
	v.SetDefault("nats-channel", "animalchess.bot")
	v.SetDefault("listen-addr", ":8087")
	v.SetDefault("debug", false)
	setWeightDefaults(v, eval.DefaultWeights())

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setWeightDefaults(v *viper.Viper, w eval.Weights) {
	v.SetDefault("weights.advance-per-row", w.AdvancePerRow)
	v.SetDefault("weights.linger-penalty", w.LingerPenalty)
	v.SetDefault("weights.linger-rows", w.LingerRows)
	v.SetDefault("weights.trapped-penalty", w.TrappedPenalty)
	v.SetDefault("weights.den-approach", w.DenApproach)
	v.SetDefault("weights.central-control", w.CentralControl)
	v.SetDefault("weights.threat-capture", w.ThreatCapture)
	v.SetDefault("weights.threat-adjacent", w.ThreatAdjacent)
	v.SetDefault("weights.rat-near-elephant", w.RatNearElephant)
	v.SetDefault("weights.elephant-near-rat", w.ElephantNearRat)
	v.SetDefault("weights.rat-hunt-distance", w.RatHuntDistance)
}

func (c *Config) validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("max-depth must be >= 1, got %d", c.MaxDepth)
	}
	if c.TimeBudgetMs < 1 {
		return fmt.Errorf("time-budget-ms must be >= 1, got %d", c.TimeBudgetMs)
	}
	if c.TTMemFraction <= 0 || c.TTMemFraction > 0.5 {
		return fmt.Errorf("tt-mem-fraction must be in (0, 0.5], got %v", c.TTMemFraction)
	}
	return nil
}
