package allot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/allot/strategy"
	allottest "github.com/arloliu/allot/testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, "greedy", cfg.Strategy)
	require.Equal(t, []string{"A", "B", "C"}, cfg.Competency.Levels)
	require.Equal(t, strategy.OrderEffortDesc, cfg.Greedy.Order)
	require.Equal(t, 2, cfg.Greedy.LookaheadDepth)
	require.Equal(t, 0.3, cfg.Greedy.LookaheadWeight)
	require.Equal(t, strategy.UnitHours, cfg.Greedy.EffortUnit)
	require.Equal(t, 50, cfg.Genetic.PopulationSize)
	require.Equal(t, 100, cfg.Genetic.Generations)
	require.Equal(t, 0.1, cfg.Genetic.MutationRate)
	require.Equal(t, 0.8, cfg.Genetic.CrossoverRate)
	require.Equal(t, 3, cfg.Genetic.TournamentSize)
	require.Equal(t, 1, cfg.Genetic.Elitism)
	require.Equal(t, uint64(1), cfg.Genetic.Seed)
	require.Len(t, cfg.Genetic.Presets, 3)
	require.Equal(t, time.Duration(0), cfg.TimeBudget)
	require.Equal(t, 30*time.Second, cfg.SourceTimeout)
	require.Equal(t, 10*time.Second, cfg.PublishTimeout)
	require.Equal(t, "allot-results", cfg.Publish.Bucket)
	require.Equal(t, "allot", cfg.Publish.KeyPrefix)
	require.NoError(t, cfg.Validate())
}

func TestSetDefaults(t *testing.T) {
	t.Run("applies defaults to empty config", func(t *testing.T) {
		cfg := Config{}
		SetDefaults(&cfg)

		require.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("preserves custom values", func(t *testing.T) {
		cfg := Config{
			Strategy:   "genetic",
			Competency: CompetencyConfig{Levels: []string{"junior", "senior"}},
			Greedy: strategy.GreedyConfig{
				Order:          strategy.OrderInput,
				LookaheadDepth: 4,
				MultiAssign:    true,
			},
			Genetic: strategy.GeneticConfig{
				PopulationSize: 20,
				Seed:           42,
				Workers:        4,
			},
			TimeBudget:    5 * time.Second,
			SourceTimeout: time.Minute,
		}
		SetDefaults(&cfg)

		require.Equal(t, "genetic", cfg.Strategy)
		require.Equal(t, []string{"junior", "senior"}, cfg.Competency.Levels)
		require.Equal(t, strategy.OrderInput, cfg.Greedy.Order)
		require.Equal(t, 4, cfg.Greedy.LookaheadDepth)
		require.True(t, cfg.Greedy.MultiAssign)
		require.Equal(t, 20, cfg.Genetic.PopulationSize)
		require.Equal(t, uint64(42), cfg.Genetic.Seed)
		require.Equal(t, 4, cfg.Genetic.Workers)
		require.Equal(t, 5*time.Second, cfg.TimeBudget)
		require.Equal(t, time.Minute, cfg.SourceTimeout)

		// Unset fields still get defaults.
		require.Equal(t, 100, cfg.Genetic.Generations)
		require.Equal(t, 10*time.Second, cfg.PublishTimeout)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{"unknown strategy", func(cfg *Config) { cfg.Strategy = "random" }},
		{"duplicate competency level", func(cfg *Config) { cfg.Competency.Levels = []string{"A", "A"} }},
		{"unknown greedy order", func(cfg *Config) { cfg.Greedy.Order = "shortest" }},
		{"negative lookahead depth", func(cfg *Config) { cfg.Greedy.LookaheadDepth = -1 }},
		{"negative lookahead weight", func(cfg *Config) { cfg.Greedy.LookaheadWeight = -0.5 }},
		{"unknown effort unit", func(cfg *Config) { cfg.Greedy.EffortUnit = "days" }},
		{"population too small", func(cfg *Config) { cfg.Genetic.PopulationSize = 1 }},
		{"negative generations", func(cfg *Config) { cfg.Genetic.Generations = -1 }},
		{"mutation rate above one", func(cfg *Config) { cfg.Genetic.MutationRate = 1.5 }},
		{"negative crossover rate", func(cfg *Config) { cfg.Genetic.CrossoverRate = -0.1 }},
		{"tournament larger than population", func(cfg *Config) { cfg.Genetic.TournamentSize = 51 }},
		{"elitism larger than population", func(cfg *Config) { cfg.Genetic.Elitism = 60 }},
		{"invalid preset", func(cfg *Config) {
			cfg.Genetic.Presets = []strategy.Preset{{PopulationSize: 1, Generations: 10, MutationRate: 0.1}}
		}},
		{"negative time budget", func(cfg *Config) { cfg.TimeBudget = -time.Second }},
		{"negative timeout", func(cfg *Config) { cfg.PublishTimeout = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	t.Run("reports every violation", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Strategy = "random"
		cfg.Genetic.MutationRate = 2

		err := cfg.Validate()
		require.ErrorContains(t, err, "strategy")
		require.ErrorContains(t, err, "mutation rate")
	})
}

func TestConfig_ValidateWithWarnings(t *testing.T) {
	t.Run("warns on heavy lookahead and tiny population", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Strategy = "genetic"
		cfg.Greedy.LookaheadWeight = 2
		cfg.Genetic.PopulationSize = 4
		cfg.Genetic.TournamentSize = 2

		logger := allottest.NewRecordingLogger()
		cfg.ValidateWithWarnings(logger)

		messages := logger.Messages()
		require.Len(t, messages, 2)
		require.Contains(t, messages[0], "lookahead weight")
		require.Contains(t, messages[1], "population")
	})

	t.Run("silent for defaults", func(t *testing.T) {
		cfg := DefaultConfig()
		logger := allottest.NewRecordingLogger()
		cfg.ValidateWithWarnings(logger)

		require.Empty(t, logger.Entries())
	})
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	require.NoError(t, cfg.Validate())
	require.Less(t, cfg.Genetic.PopulationSize, DefaultConfig().Genetic.PopulationSize)
	require.Less(t, cfg.Genetic.Generations, DefaultConfig().Genetic.Generations)
	require.Len(t, cfg.Genetic.Presets, 2)
}

func TestConfig_YAMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = "genetic_sweep"
	cfg.TimeBudget = 3 * time.Second
	cfg.Genetic.Seed = 7

	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	loaded, err := ParseConfig(data)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestParseConfig(t *testing.T) {
	t.Run("partial document gets defaults", func(t *testing.T) {
		cfg, err := ParseConfig([]byte(`
strategy: optimal
competency:
  levels: [junior, mid, senior]
timeBudget: 2s
genetic:
  seed: 99
`))
		require.NoError(t, err)
		require.Equal(t, "optimal", cfg.Strategy)
		require.Equal(t, []string{"junior", "mid", "senior"}, cfg.Competency.Levels)
		require.Equal(t, 2*time.Second, cfg.TimeBudget)
		require.Equal(t, uint64(99), cfg.Genetic.Seed)
		require.Equal(t, 50, cfg.Genetic.PopulationSize)
		require.NoError(t, cfg.Validate())
	})

	t.Run("empty document is the default config", func(t *testing.T) {
		cfg, err := ParseConfig(nil)
		require.NoError(t, err)
		require.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		_, err := ParseConfig([]byte("stratgey: greedy\n"))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strategy: genetic\ngenetic:\n  workers: 2\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "genetic", cfg.Strategy)
	require.Equal(t, 2, cfg.Genetic.Workers)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
