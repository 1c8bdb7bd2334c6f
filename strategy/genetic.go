package strategy

import (
	"cmp"
	"context"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/arloliu/allot/competency"
	"github.com/arloliu/allot/internal/fitness"
	"github.com/arloliu/allot/internal/logging"
	"github.com/arloliu/allot/types"
)

// Genetic defaults.
const (
	DefaultPopulationSize = 50
	DefaultGenerations    = 100
	DefaultMutationRate   = 0.1
	DefaultCrossoverRate  = 0.8
	DefaultTournamentSize = 3
	DefaultElitism        = 1
	DefaultSeed           = 1
)

// Genetic is the population-based heuristic allocator.
//
// A chromosome holds one person index per task. Fitness is computed by the
// shared fitness.Evaluator on a fresh simulated ledger per chromosome. The
// best chromosome seen over all generations is returned, so the recorded best
// fitness never decreases.
//
// Runs are reproducible: all random draws come from a PCG generator seeded
// by WithSeed and happen on the calling goroutine. Worker goroutines only
// evaluate fitness.
type Genetic struct {
	scale          *competency.Scale
	logger         types.Logger
	unit           EffortUnit
	populationSize int
	generations    int
	mutationRate   float64
	crossoverRate  float64
	tournamentSize int
	elitism        int
	seed           uint64
	workers        int
	timeBudget     time.Duration
	cache          bool
}

var _ types.AllocationStrategy = (*Genetic)(nil)

// GeneticOption configures a Genetic allocator.
type GeneticOption func(*Genetic)

// NewGenetic creates a new genetic allocator.
//
// Out-of-range settings are clamped and reported through the logger.
//
// Parameters:
//   - opts: Optional configuration
//
// Returns:
//   - *Genetic: Allocator with population 50, 100 generations, mutation 0.1,
//     crossover 0.8, tournament 3, elitism 1 and seed 1
//
// Example:
//
//	g := strategy.NewGenetic(
//	    strategy.WithSeed(42),
//	    strategy.WithWorkers(runtime.GOMAXPROCS(0)),
//	)
func NewGenetic(opts ...GeneticOption) *Genetic {
	g := &Genetic{
		scale:          competency.Default(),
		logger:         logging.NewNop(),
		unit:           UnitHours,
		populationSize: DefaultPopulationSize,
		generations:    DefaultGenerations,
		mutationRate:   DefaultMutationRate,
		crossoverRate:  DefaultCrossoverRate,
		tournamentSize: DefaultTournamentSize,
		elitism:        DefaultElitism,
		seed:           DefaultSeed,
		workers:        1,
		cache:          true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	g.normalizeConfig()

	return g
}

func (g *Genetic) normalizeConfig() {
	if g.scale == nil {
		g.scale = competency.Default()
	}
	if g.logger == nil {
		g.logger = logging.NewNop()
	}
	if !g.unit.Valid() {
		g.logger.Warn("unknown effort unit, using hours", "unit", string(g.unit))
		g.unit = UnitHours
	}
	if g.populationSize < 2 {
		g.logger.Warn("population size too small, using 2", "population_size", g.populationSize)
		g.populationSize = 2
	}
	if g.generations < 0 {
		g.generations = 0
	}
	g.mutationRate = clampRate(g.logger, "mutation_rate", g.mutationRate)
	g.crossoverRate = clampRate(g.logger, "crossover_rate", g.crossoverRate)
	if g.tournamentSize < 1 || g.tournamentSize > g.populationSize {
		clamped := max(1, min(g.tournamentSize, g.populationSize))
		g.logger.Warn("tournament size out of range, clamping",
			"tournament_size", g.tournamentSize, "clamped", clamped)
		g.tournamentSize = clamped
	}
	if g.elitism < 0 || g.elitism > g.populationSize {
		clamped := max(0, min(g.elitism, g.populationSize))
		g.logger.Warn("elitism out of range, clamping", "elitism", g.elitism, "clamped", clamped)
		g.elitism = clamped
	}
	if g.workers < 1 {
		g.workers = 1
	}
}

func clampRate(logger types.Logger, name string, v float64) float64 {
	if v >= 0 && v <= 1 {
		return v
	}
	clamped := 0.0
	if !math.IsNaN(v) {
		clamped = max(0, min(v, 1))
	}
	logger.Warn("rate out of range, clamping", "option", name, "value", v, "clamped", clamped)

	return clamped
}

// WithPopulationSize sets the number of chromosomes per generation.
func WithPopulationSize(n int) GeneticOption {
	return func(g *Genetic) {
		g.populationSize = n
	}
}

// WithGenerations sets the number of generations to evolve.
func WithGenerations(n int) GeneticOption {
	return func(g *Genetic) {
		g.generations = n
	}
}

// WithMutationRate sets the per-gene mutation probability.
func WithMutationRate(rate float64) GeneticOption {
	return func(g *Genetic) {
		g.mutationRate = rate
	}
}

// WithCrossoverRate sets the single-point crossover probability.
func WithCrossoverRate(rate float64) GeneticOption {
	return func(g *Genetic) {
		g.crossoverRate = rate
	}
}

// WithTournamentSize sets how many distinct individuals a tournament samples.
func WithTournamentSize(k int) GeneticOption {
	return func(g *Genetic) {
		g.tournamentSize = k
	}
}

// WithElitism sets how many top individuals survive unchanged.
func WithElitism(k int) GeneticOption {
	return func(g *Genetic) {
		g.elitism = k
	}
}

// WithSeed sets the random seed.
func WithSeed(seed uint64) GeneticOption {
	return func(g *Genetic) {
		g.seed = seed
	}
}

// WithWorkers sets the number of goroutines evaluating fitness.
// The result does not depend on this value.
func WithWorkers(n int) GeneticOption {
	return func(g *Genetic) {
		g.workers = n
	}
}

// WithGeneticScale sets the competency scale.
func WithGeneticScale(scale *competency.Scale) GeneticOption {
	return func(g *Genetic) {
		g.scale = scale
	}
}

// WithGeneticLogger sets the logger.
func WithGeneticLogger(logger types.Logger) GeneticOption {
	return func(g *Genetic) {
		g.logger = logger
	}
}

// WithGeneticEffortUnit sets how Task.Effort is read.
func WithGeneticEffortUnit(unit EffortUnit) GeneticOption {
	return func(g *Genetic) {
		g.unit = unit
	}
}

// WithGeneticTimeBudget bounds the wall-clock time of a run. It is checked
// between generations. Zero means no limit. Passed to NewGeneticSweep it
// bounds the whole sweep.
func WithGeneticTimeBudget(d time.Duration) GeneticOption {
	return func(g *Genetic) {
		g.timeBudget = d
	}
}

// WithFitnessCache enables or disables the per-run fitness memo.
func WithFitnessCache(enabled bool) GeneticOption {
	return func(g *Genetic) {
		g.cache = enabled
	}
}

// Name returns "genetic".
func (g *Genetic) Name() string { return NameGenetic }

// Seed returns the configured seed.
func (g *Genetic) Seed() uint64 { return g.seed }

// Allocate evolves a population and converts the best chromosome into
// assignments.
//
// Genes whose person is eligible and has enough free hours become
// assignments with Effort in hours and the monthly breakdown; the other genes
// become warnings. When the time budget runs out the best chromosome so far
// is returned with Truncated set.
//
// Parameters:
//   - ctx: Context checked between generations
//   - people: Candidate people
//   - tasks: Tasks to allocate
//
// Returns:
//   - *types.Result: Assignments, Fitness, FitnessHistory and Generations
//   - error: types.ErrEmptyInput or a context error
func (g *Genetic) Allocate(ctx context.Context, people []types.Person, tasks []types.Task) (*types.Result, error) {
	if err := checkInput(people, tasks); err != nil {
		return nil, err
	}

	hourTasks := inHours(tasks, g.unit)
	eval := fitness.New(people, hourTasks, g.scale)
	r := rand.New(rand.NewPCG(g.seed, g.seed^0x9E3779B97F4A7C15)) //nolint:gosec // reproducible search, not security
	b := startBudget(g.timeBudget)

	var memo *fitnessCache
	if g.cache {
		memo = newFitnessCache()
	}

	nTasks, nPeople := len(hourTasks), len(people)
	population := make([][]int, g.populationSize)
	for i := range population {
		genes := make([]int, nTasks)
		for t := range genes {
			genes[t] = r.IntN(nPeople)
		}
		population[i] = genes
	}
	scores := g.evaluate(eval, memo, population)

	bestIdx := argmax(scores)
	best := slices.Clone(population[bestIdx])
	bestFitness := scores[bestIdx]
	history := []float64{bestFitness}

	res := newResult(NameGenetic, hourTasks)
	generations := 0
	for gen := 1; gen <= g.generations; gen++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if b.exhausted() {
			res.Truncated = true
			g.logger.Warn("genetic time budget exhausted", "generation", gen, "best_fitness", bestFitness)

			break
		}

		population = g.nextGeneration(r, population, scores, nPeople)
		scores = g.evaluate(eval, memo, population)
		generations++

		if i := argmax(scores); scores[i] > bestFitness {
			bestFitness = scores[i]
			best = slices.Clone(population[i])
		}
		history = append(history, bestFitness)
		g.logger.Debug("generation evolved", "generation", gen, "best_fitness", bestFitness)
	}

	g.fillResult(eval, res, best)
	res.Fitness = bestFitness
	res.FitnessHistory = history
	res.Generations = generations
	if memo != nil {
		g.logger.Debug("fitness cache", "entries", memo.Size(), "hits", memo.Hits())
	}

	return res, nil
}

// nextGeneration builds a population of the same size from elites and
// tournament-selected offspring.
func (g *Genetic) nextGeneration(r *rand.Rand, population [][]int, scores []float64, nPeople int) [][]int {
	n := len(population)
	next := make([][]int, 0, n)

	if g.elitism > 0 {
		ranked := make([]int, n)
		for i := range ranked {
			ranked[i] = i
		}
		slices.SortStableFunc(ranked, func(a, b int) int {
			return cmp.Compare(scores[b], scores[a])
		})
		for _, i := range ranked[:g.elitism] {
			next = append(next, slices.Clone(population[i]))
		}
	}

	for len(next) < n {
		a := population[g.tournament(r, scores)]
		b := population[g.tournament(r, scores)]
		c1, c2 := g.crossover(r, a, b)
		g.mutate(r, c1, nPeople)
		g.mutate(r, c2, nPeople)
		next = append(next, c1)
		if len(next) < n {
			next = append(next, c2)
		}
	}

	return next
}

// tournament samples tournamentSize distinct individuals and returns the
// index of the fittest. The first sampled wins ties.
func (g *Genetic) tournament(r *rand.Rand, scores []float64) int {
	idx := r.Perm(len(scores))[:g.tournamentSize]
	winner := idx[0]
	for _, i := range idx[1:] {
		if scores[i] > scores[winner] {
			winner = i
		}
	}

	return winner
}

func (g *Genetic) crossover(r *rand.Rand, a, b []int) ([]int, []int) {
	c1, c2 := slices.Clone(a), slices.Clone(b)
	if len(a) < 2 || r.Float64() >= g.crossoverRate {
		return c1, c2
	}

	cut := 1 + r.IntN(len(a)-1)
	copy(c1[cut:], b[cut:])
	copy(c2[cut:], a[cut:])

	return c1, c2
}

func (g *Genetic) mutate(r *rand.Rand, genes []int, nPeople int) {
	for i := range genes {
		if r.Float64() < g.mutationRate {
			genes[i] = r.IntN(nPeople)
		}
	}
}

// evaluate scores every chromosome. Each worker writes only its own slots, so
// the scores are identical for any worker count.
func (g *Genetic) evaluate(eval *fitness.Evaluator, memo *fitnessCache, population [][]int) []float64 {
	scores := make([]float64, len(population))
	score := func(i int) {
		genes := population[i]
		if memo != nil {
			if f, ok := memo.Get(genes); ok {
				scores[i] = f
				return
			}
		}
		f := eval.Fitness(genes)
		if memo != nil {
			memo.Put(genes, f)
		}
		scores[i] = f
	}

	workers := min(g.workers, len(population))
	if workers <= 1 {
		for i := range population {
			score(i)
		}

		return scores
	}

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			for i := start; i < len(population); i += workers {
				score(i)
			}
		}(w)
	}
	wg.Wait()

	return scores
}

func (g *Genetic) fillResult(eval *fitness.Evaluator, res *types.Result, best []int) {
	_, outcomes := eval.Evaluate(best)
	people, tasks := eval.People(), eval.Tasks()
	l := eval.NewLedger()

	for t, out := range outcomes {
		task := tasks[t]
		switch {
		case !out.Eligible:
			res.Warnings = append(res.Warnings, types.NoCandidateWarning{TaskID: task.ID, Reason: "assigned person is not eligible"})
		case !out.Feasible:
			res.Warnings = append(res.Warnings, types.NoCandidateWarning{TaskID: task.ID, Reason: "assigned person lacks free hours"})
		default:
			p := best[t]
			hours := eval.Apply(l, p, out.Months)
			res.Assignments = append(res.Assignments, types.Assignment{
				PersonID:  people[p].ID,
				TaskID:    task.ID,
				ProjectID: task.ProjectID,
				Effort:    hours,
				Score:     out.Score,
				Months:    out.Months,
			})
			res.TotalAssigned += hours
		}
	}
	res.Ledger = l.Snapshot()
}

// argmax returns the index of the highest score, first on ties.
func argmax(scores []float64) int {
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}

	return best
}
