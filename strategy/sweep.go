package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/arloliu/allot/internal/logging"
	"github.com/arloliu/allot/types"
)

// Preset is one hyperparameter combination of a genetic sweep.
type Preset struct {
	PopulationSize int     `yaml:"populationSize"`
	Generations    int     `yaml:"generations"`
	MutationRate   float64 `yaml:"mutationRate"`
}

// DefaultPresets returns the sweep presets used when none are configured.
func DefaultPresets() []Preset {
	return []Preset{
		{PopulationSize: 50, Generations: 100, MutationRate: 0.10},
		{PopulationSize: 100, Generations: 150, MutationRate: 0.05},
		{PopulationSize: 75, Generations: 200, MutationRate: 0.15},
	}
}

// GeneticSweep runs the genetic allocator once per preset and keeps the run
// with the highest best fitness.
//
// Preset i runs with seed + i, so the sweep is as reproducible as a single
// run. The first preset wins ties. A time budget set with
// WithGeneticTimeBudget bounds the whole sweep: each preset gets what is left
// of it, and presets that would start after it ran out are skipped.
type GeneticSweep struct {
	presets    []Preset
	base       []GeneticOption
	seed       uint64
	timeBudget time.Duration
	logger     types.Logger
	now        func() time.Time
}

var _ types.AllocationStrategy = (*GeneticSweep)(nil)

// NewGeneticSweep creates a sweep over presets.
//
// Parameters:
//   - presets: Hyperparameter presets, run in order (nil means DefaultPresets)
//   - opts: Options applied to every run before the preset's own settings
//
// Returns:
//   - *GeneticSweep: Configured sweep
//   - error: ErrNoPresets if presets is non-nil but empty
func NewGeneticSweep(presets []Preset, opts ...GeneticOption) (*GeneticSweep, error) {
	if presets == nil {
		presets = DefaultPresets()
	}
	if len(presets) == 0 {
		return nil, ErrNoPresets
	}

	base := NewGenetic(opts...)
	logger := base.logger
	if logger == nil {
		logger = logging.NewNop()
	}

	return &GeneticSweep{
		presets:    append([]Preset(nil), presets...),
		base:       opts,
		seed:       base.seed,
		timeBudget: base.timeBudget,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Name returns "genetic_sweep".
func (s *GeneticSweep) Name() string { return NameGeneticSweep }

// Presets returns a copy of the sweep's presets.
func (s *GeneticSweep) Presets() []Preset {
	return append([]Preset(nil), s.presets...)
}

// Allocate runs every preset sequentially and returns the fittest result.
// Generations in the returned result sums all runs. Truncated is set if any
// run was truncated or presets were skipped on the time budget. The first
// preset always runs.
func (s *GeneticSweep) Allocate(ctx context.Context, people []types.Person, tasks []types.Task) (*types.Result, error) {
	var (
		best        *types.Result
		generations int
		truncated   bool
	)

	b := startBudgetAt(s.timeBudget, s.now)
	for i, p := range s.presets {
		opts := append(append([]GeneticOption(nil), s.base...),
			WithPopulationSize(p.PopulationSize),
			WithGenerations(p.Generations),
			WithMutationRate(p.MutationRate),
			WithSeed(s.seed+uint64(i)), //nolint:gosec // preset index is small
		)
		if s.timeBudget > 0 {
			left := b.remaining()
			if left <= 0 && i > 0 {
				s.logger.Warn("sweep time budget exhausted", "skipped_presets", len(s.presets)-i)
				truncated = true

				break
			}
			opts = append(opts, WithGeneticTimeBudget(max(left, time.Nanosecond)))
		}

		res, err := NewGenetic(opts...).Allocate(ctx, people, tasks)
		if err != nil {
			return nil, fmt.Errorf("preset %d: %w", i, err)
		}
		s.logger.Debug("sweep preset finished", "preset", i,
			"population_size", p.PopulationSize, "generations", p.Generations,
			"mutation_rate", p.MutationRate, "best_fitness", res.Fitness)

		generations += res.Generations
		truncated = truncated || res.Truncated
		if best == nil || res.Fitness > best.Fitness {
			best = res
		}
	}

	best.Strategy = NameGeneticSweep
	best.Generations = generations
	best.Truncated = truncated

	return best, nil
}
