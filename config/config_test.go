package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/AlanRexcop/animal-chess/eval"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	cfg, err := Load("")
	is.NoErr(err)
	is.Equal(cfg.MaxDepth, 8)
	is.Equal(cfg.TimeBudgetMs, 3000)
	is.Equal(cfg.TTMemFraction, 0.05)
	is.Equal(cfg.NatsChannel, "animalchess.bot")
	is.Equal(cfg.Weights, eval.DefaultWeights())
}

func TestEnvOverride(t *testing.T) {
	is := is.New(t)
	t.Setenv("ANIMALCHESS_MAX_DEPTH", "12")
	t.Setenv("ANIMALCHESS_NATS_URL", "nats://chess:4222")
	cfg, err := Load("")
	is.NoErr(err)
	is.Equal(cfg.MaxDepth, 12)
	is.Equal(cfg.NatsURL, "nats://chess:4222")
}

func TestConfigFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "max-depth: 6\ntime-budget-ms: 1500\nweights:\n  den-approach: 500\n"
	is.NoErr(os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	is.NoErr(err)
	is.Equal(cfg.MaxDepth, 6)
	is.Equal(cfg.TimeBudgetMs, 1500)
	is.Equal(cfg.Weights.DenApproach, 500)
	// Untouched weights keep their defaults.
	is.Equal(cfg.Weights.AdvancePerRow, eval.DefaultWeights().AdvancePerRow)
}

func TestMalformedFileRejected(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	is.NoErr(os.WriteFile(path, []byte("max-depth: [unterminated"), 0o644))
	_, err := Load(path)
	is.True(err != nil)
}

func TestValidation(t *testing.T) {
	is := is.New(t)
	t.Setenv("ANIMALCHESS_MAX_DEPTH", "0")
	_, err := Load("")
	is.True(err != nil)

	t.Setenv("ANIMALCHESS_MAX_DEPTH", "8")
	t.Setenv("ANIMALCHESS_TT_MEM_FRACTION", "0.9")
	_, err = Load("")
	is.True(err != nil)
}
