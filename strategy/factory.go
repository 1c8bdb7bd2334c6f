package strategy

import (
	"fmt"
	"time"

	"github.com/arloliu/allot/competency"
	"github.com/arloliu/allot/internal/logging"
	"github.com/arloliu/allot/types"
)

// GreedyConfig holds the greedy allocator settings.
type GreedyConfig struct {
	// Order is the task processing order: "effort_desc" (default) or "input".
	Order string `yaml:"order"`

	// LookaheadDepth is how many upcoming tasks the lookahead considers.
	LookaheadDepth int `yaml:"lookaheadDepth"`

	// LookaheadWeight scales the lookahead score.
	LookaheadWeight float64 `yaml:"lookaheadWeight"`

	// DisableLookahead turns lookahead scoring off.
	DisableLookahead bool `yaml:"disableLookahead"`

	// MultiAssign splits a task over several ranked candidates per pass.
	MultiAssign bool `yaml:"multiAssign"`

	// DisableFallback turns the fallback pass off.
	DisableFallback bool `yaml:"disableFallback"`

	// EffortUnit is how task effort is read: "hours" (default) or "person_months".
	EffortUnit EffortUnit `yaml:"effortUnit"`
}

// GeneticConfig holds the genetic allocator and sweep settings.
type GeneticConfig struct {
	PopulationSize int     `yaml:"populationSize"`
	Generations    int     `yaml:"generations"`
	MutationRate   float64 `yaml:"mutationRate"`
	CrossoverRate  float64 `yaml:"crossoverRate"`
	TournamentSize int     `yaml:"tournamentSize"`
	Elitism        int     `yaml:"elitism"`
	Seed           uint64  `yaml:"seed"`

	// Workers is the number of goroutines evaluating fitness.
	Workers int `yaml:"workers"`

	// DisableCache turns the fitness memo off.
	DisableCache bool `yaml:"disableCache"`

	// EffortUnit is how task effort is read: "hours" (default) or "person_months".
	EffortUnit EffortUnit `yaml:"effortUnit"`

	// Presets are the sweep presets. Empty means DefaultPresets.
	Presets []Preset `yaml:"presets"`
}

// Settings selects and configures a strategy for FromConfig.
type Settings struct {
	// Name is one of NameOptimal, NameGreedy, NameGenetic, NameGeneticSweep.
	Name string

	Greedy  GreedyConfig
	Genetic GeneticConfig

	// TimeBudget bounds hour-based runs. Zero means no limit.
	TimeBudget time.Duration

	// Scale is the competency scale. Nil means competency.Default().
	Scale *competency.Scale

	// Logger receives strategy logs. Nil means a no-op logger.
	Logger types.Logger
}

// Names returns the names FromConfig accepts.
func Names() []string {
	return []string{NameOptimal, NameGreedy, NameGenetic, NameGeneticSweep}
}

// FromConfig builds the strategy named by s.Name.
//
// Zero numeric settings keep the strategy's own defaults.
//
// Parameters:
//   - s: Strategy selection and settings
//
// Returns:
//   - types.AllocationStrategy: Configured strategy
//   - error: types.ErrUnknownStrategy for an unrecognized name
func FromConfig(s Settings) (types.AllocationStrategy, error) {
	if s.Scale == nil {
		s.Scale = competency.Default()
	}
	if s.Logger == nil {
		s.Logger = logging.NewNop()
	}

	switch s.Name {
	case NameOptimal:
		return NewOptimal(WithOptimalScale(s.Scale), WithOptimalLogger(s.Logger)), nil
	case NameGreedy:
		return NewGreedy(greedyOptions(s)...), nil
	case NameGenetic:
		return NewGenetic(geneticOptions(s)...), nil
	case NameGeneticSweep:
		var presets []Preset
		if len(s.Genetic.Presets) > 0 {
			presets = s.Genetic.Presets
		}

		sweep, err := NewGeneticSweep(presets, geneticOptions(s)...)
		if err != nil {
			return nil, err
		}

		return sweep, nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownStrategy, s.Name)
	}
}

func greedyOptions(s Settings) []GreedyOption {
	c := s.Greedy
	opts := []GreedyOption{
		WithGreedyScale(s.Scale),
		WithGreedyLogger(s.Logger),
		WithMultiAssign(c.MultiAssign),
		WithFallback(!c.DisableFallback),
		WithGreedyTimeBudget(s.TimeBudget),
	}
	if c.Order != "" {
		opts = append(opts, WithTaskOrder(c.Order))
	}
	if c.EffortUnit != "" {
		opts = append(opts, WithGreedyEffortUnit(c.EffortUnit))
	}

	depth, weight := DefaultLookaheadDepth, DefaultLookaheadWeight
	if c.LookaheadDepth > 0 {
		depth = c.LookaheadDepth
	}
	if c.LookaheadWeight > 0 {
		weight = c.LookaheadWeight
	}
	if c.DisableLookahead {
		depth = 0
	}

	return append(opts, WithLookahead(depth, weight))
}

func geneticOptions(s Settings) []GeneticOption {
	c := s.Genetic
	opts := []GeneticOption{
		WithGeneticScale(s.Scale),
		WithGeneticLogger(s.Logger),
		WithFitnessCache(!c.DisableCache),
		WithGeneticTimeBudget(s.TimeBudget),
	}
	if c.PopulationSize > 0 {
		opts = append(opts, WithPopulationSize(c.PopulationSize))
	}
	if c.Generations > 0 {
		opts = append(opts, WithGenerations(c.Generations))
	}
	if c.MutationRate > 0 {
		opts = append(opts, WithMutationRate(c.MutationRate))
	}
	if c.CrossoverRate > 0 {
		opts = append(opts, WithCrossoverRate(c.CrossoverRate))
	}
	if c.TournamentSize > 0 {
		opts = append(opts, WithTournamentSize(c.TournamentSize))
	}
	if c.Elitism > 0 {
		opts = append(opts, WithElitism(c.Elitism))
	}
	if c.Seed > 0 {
		opts = append(opts, WithSeed(c.Seed))
	}
	if c.Workers > 0 {
		opts = append(opts, WithWorkers(c.Workers))
	}
	if c.EffortUnit != "" {
		opts = append(opts, WithGeneticEffortUnit(c.EffortUnit))
	}

	return opts
}
