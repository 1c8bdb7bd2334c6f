package allot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/allot/competency"
	"github.com/arloliu/allot/publish"
	"github.com/arloliu/allot/strategy"
)

// CompetencyConfig declares the competency scale.
type CompetencyConfig struct {
	// Levels lists competency labels from lowest to highest (default A, B, C).
	Levels []string `yaml:"levels"`
}

// Config is the configuration for the Planner.
//
// All duration fields accept standard Go duration strings like "30s", "5m".
type Config struct {
	// Strategy selects the allocation strategy:
	// "optimal", "greedy" (default), "genetic" or "genetic_sweep".
	Strategy string `yaml:"strategy"`

	// Competency declares the ordinal competency scale.
	Competency CompetencyConfig `yaml:"competency"`

	// Greedy configures the greedy allocator.
	Greedy strategy.GreedyConfig `yaml:"greedy"`

	// Genetic configures the genetic allocator and sweep.
	Genetic strategy.GeneticConfig `yaml:"genetic"`

	// TimeBudget bounds the wall-clock time of a greedy or genetic run.
	// The budget is checked between tasks or generations, never mid-evaluation.
	// For genetic_sweep it bounds the whole sweep, not each preset.
	// 0 means no limit.
	TimeBudget time.Duration `yaml:"timeBudget"`

	// SourceTimeout bounds loading people and tasks from the record source.
	SourceTimeout time.Duration `yaml:"sourceTimeout"`

	// PublishTimeout bounds publishing a result.
	PublishTimeout time.Duration `yaml:"publishTimeout"`

	// Publish configures the NATS KV result bucket used by the CLI.
	Publish publish.Config `yaml:"publish"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		Strategy: strategy.NameGreedy,
		Competency: CompetencyConfig{
			Levels: slices.Clone(competency.DefaultLevels),
		},
		Greedy: strategy.GreedyConfig{
			Order:           strategy.OrderEffortDesc,
			LookaheadDepth:  strategy.DefaultLookaheadDepth,
			LookaheadWeight: strategy.DefaultLookaheadWeight,
			EffortUnit:      strategy.UnitHours,
		},
		Genetic: strategy.GeneticConfig{
			PopulationSize: strategy.DefaultPopulationSize,
			Generations:    strategy.DefaultGenerations,
			MutationRate:   strategy.DefaultMutationRate,
			CrossoverRate:  strategy.DefaultCrossoverRate,
			TournamentSize: strategy.DefaultTournamentSize,
			Elitism:        strategy.DefaultElitism,
			Seed:           strategy.DefaultSeed,
			Workers:        1,
			EffortUnit:     strategy.UnitHours,
			Presets:        strategy.DefaultPresets(),
		},
		TimeBudget:     0, // No limit
		SourceTimeout:  30 * time.Second,
		PublishTimeout: 10 * time.Second,
		Publish: publish.Config{
			Bucket:    "allot-results",
			KeyPrefix: publish.DefaultKeyPrefix,
		},
	}
}

// SetDefaults fills in missing configuration values with defaults.
//
// Boolean switches are never changed; zero numeric values are replaced.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Strategy == "" {
		cfg.Strategy = defaults.Strategy
	}
	if len(cfg.Competency.Levels) == 0 {
		cfg.Competency.Levels = defaults.Competency.Levels
	}

	g := &cfg.Greedy
	if g.Order == "" {
		g.Order = defaults.Greedy.Order
	}
	if g.LookaheadDepth == 0 {
		g.LookaheadDepth = defaults.Greedy.LookaheadDepth
	}
	if g.LookaheadWeight == 0 {
		g.LookaheadWeight = defaults.Greedy.LookaheadWeight
	}
	if g.EffortUnit == "" {
		g.EffortUnit = defaults.Greedy.EffortUnit
	}

	ga := &cfg.Genetic
	if ga.PopulationSize == 0 {
		ga.PopulationSize = defaults.Genetic.PopulationSize
	}
	if ga.Generations == 0 {
		ga.Generations = defaults.Genetic.Generations
	}
	if ga.MutationRate == 0 {
		ga.MutationRate = defaults.Genetic.MutationRate
	}
	if ga.CrossoverRate == 0 {
		ga.CrossoverRate = defaults.Genetic.CrossoverRate
	}
	if ga.TournamentSize == 0 {
		ga.TournamentSize = defaults.Genetic.TournamentSize
	}
	if ga.Elitism == 0 {
		ga.Elitism = defaults.Genetic.Elitism
	}
	if ga.Seed == 0 {
		ga.Seed = defaults.Genetic.Seed
	}
	if ga.Workers == 0 {
		ga.Workers = defaults.Genetic.Workers
	}
	if ga.EffortUnit == "" {
		ga.EffortUnit = defaults.Genetic.EffortUnit
	}
	if len(ga.Presets) == 0 {
		ga.Presets = defaults.Genetic.Presets
	}

	if cfg.SourceTimeout == 0 {
		cfg.SourceTimeout = defaults.SourceTimeout
	}
	if cfg.PublishTimeout == 0 {
		cfg.PublishTimeout = defaults.PublishTimeout
	}
	if cfg.Publish.Bucket == "" {
		cfg.Publish.Bucket = defaults.Publish.Bucket
	}
	if cfg.Publish.KeyPrefix == "" {
		cfg.Publish.KeyPrefix = defaults.Publish.KeyPrefix
	}
	// Note: TimeBudget of 0 is valid (no limit), so we don't apply default
}

// Validate checks configuration constraints and returns error for invalid values.
//
// Hard Validation Rules:
//   - Strategy is one of the built-in strategy names
//   - Competency levels form a valid scale (non-empty, unique, non-blank)
//   - Greedy order and effort units are known; lookahead depth and weight >= 0
//   - Genetic population >= 2, generations >= 0, rates in [0, 1]
//   - Tournament size in [1, population], elitism in [0, population]
//   - Every sweep preset has population >= 2 and a mutation rate in [0, 1]
//   - Durations are not negative
//
// Returns:
//   - error: Validation error wrapping ErrInvalidConfig, nil if valid
func (cfg *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if !slices.Contains(strategy.Names(), cfg.Strategy) {
		fail("strategy %q must be one of %v", cfg.Strategy, strategy.Names())
	}
	if _, err := competency.Parse(cfg.Competency.Levels...); err != nil {
		fail("competency levels: %w", err)
	}

	g := cfg.Greedy
	if g.Order != strategy.OrderEffortDesc && g.Order != strategy.OrderInput {
		fail("greedy order %q must be %q or %q", g.Order, strategy.OrderEffortDesc, strategy.OrderInput)
	}
	if g.LookaheadDepth < 0 {
		fail("greedy lookahead depth must be >= 0, got %d", g.LookaheadDepth)
	}
	if g.LookaheadWeight < 0 {
		fail("greedy lookahead weight must be >= 0, got %v", g.LookaheadWeight)
	}
	if !g.EffortUnit.Valid() {
		fail("greedy effort unit %q must be %q or %q", g.EffortUnit, strategy.UnitHours, strategy.UnitPersonMonths)
	}

	ga := cfg.Genetic
	if ga.PopulationSize < 2 {
		fail("genetic population size must be >= 2, got %d", ga.PopulationSize)
	}
	if ga.Generations < 0 {
		fail("genetic generations must be >= 0, got %d", ga.Generations)
	}
	if !validRate(ga.MutationRate) {
		fail("genetic mutation rate must be in [0, 1], got %v", ga.MutationRate)
	}
	if !validRate(ga.CrossoverRate) {
		fail("genetic crossover rate must be in [0, 1], got %v", ga.CrossoverRate)
	}
	if ga.TournamentSize < 1 || ga.TournamentSize > ga.PopulationSize {
		fail("genetic tournament size (%d) must be in [1, population size %d]", ga.TournamentSize, ga.PopulationSize)
	}
	if ga.Elitism < 0 || ga.Elitism > ga.PopulationSize {
		fail("genetic elitism (%d) must be in [0, population size %d]", ga.Elitism, ga.PopulationSize)
	}
	if ga.Workers < 0 {
		fail("genetic workers must be >= 0, got %d", ga.Workers)
	}
	if !ga.EffortUnit.Valid() {
		fail("genetic effort unit %q must be %q or %q", ga.EffortUnit, strategy.UnitHours, strategy.UnitPersonMonths)
	}
	for i, p := range ga.Presets {
		if p.PopulationSize < 2 || p.Generations < 0 || !validRate(p.MutationRate) {
			fail("genetic preset %d is invalid: %+v", i, p)
		}
	}

	if cfg.TimeBudget < 0 {
		fail("time budget must be >= 0, got %v", cfg.TimeBudget)
	}
	if cfg.SourceTimeout < 0 || cfg.PublishTimeout < 0 {
		fail("timeouts must be >= 0")
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func validRate(v float64) bool {
	return v >= 0 && v <= 1
}

// ValidateWithWarnings checks configuration and logs warnings for non-recommended values.
//
// This is called after Validate() in NewPlanner() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	if cfg.Greedy.LookaheadWeight > 1 {
		logger.Warn(
			"greedy lookahead weight above 1 lets future tasks outweigh the current one",
			"lookahead_weight", cfg.Greedy.LookaheadWeight,
			"recommended", strategy.DefaultLookaheadWeight,
		)
	}

	if cfg.Genetic.PopulationSize < 10 && (cfg.Strategy == strategy.NameGenetic) {
		logger.Warn(
			"genetic population is very small, search quality may suffer",
			"population_size", cfg.Genetic.PopulationSize,
			"recommended", "20 or higher",
		)
	}

	if cfg.Genetic.Workers > runtime.GOMAXPROCS(0) {
		logger.Warn(
			"genetic workers exceed GOMAXPROCS",
			"workers", cfg.Genetic.Workers,
			"gomaxprocs", runtime.GOMAXPROCS(0),
		)
	}
}

// TestConfig returns a configuration optimized for fast test execution.
//
// Genetic search runs on small populations for few generations. Use
// DefaultConfig() for production planning.
//
// Returns:
//   - Config: Configuration with small search budgets for tests
//
// Example:
//
//	cfg := allot.TestConfig()
//	cfg.Strategy = "genetic"
//	planner, err := allot.NewPlanner(&cfg, src)
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.Genetic.PopulationSize = 12
	cfg.Genetic.Generations = 15
	cfg.Genetic.Presets = []strategy.Preset{
		{PopulationSize: 10, Generations: 10, MutationRate: 0.10},
		{PopulationSize: 12, Generations: 8, MutationRate: 0.05},
	}
	cfg.SourceTimeout = 5 * time.Second
	cfg.PublishTimeout = 5 * time.Second

	return cfg
}

// LoadConfig reads a YAML configuration file and applies defaults.
//
// Unknown fields are rejected so typos surface early.
//
// Parameters:
//   - path: Path to the YAML file
//
// Returns:
//   - Config: Loaded configuration with defaults applied (not yet validated)
//   - error: Read or decode error
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes a YAML configuration and applies defaults.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: decode config: %w", ErrInvalidConfig, err)
	}
	SetDefaults(&cfg)

	return cfg, nil
}
