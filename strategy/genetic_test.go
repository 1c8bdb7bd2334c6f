package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	allottest "github.com/arloliu/allot/testing"
	"github.com/arloliu/allot/types"
)

func geneticFixture() ([]types.Person, []types.Task) {
	people := []types.Person{
		allottest.Person("P1", "C", 1.0, "01/2025:1.0,02/2025:1.0,03/2025:0.5"),
		allottest.Person("P2", "B", 0.5, "01/2025:1.0,02/2025:0.5"),
		allottest.Person("P3", "A", 1.0, "02/2025:1.0,03/2025:1.0"),
		allottest.Person("P4", "B", 1.0, "01/2025:0.5,03/2025:1.0"),
	}
	tasks := []types.Task{
		allottest.Task("T1", "X", "C", 120, "01/2025", "02/2025"),
		allottest.Task("T2", "X", "B", 80, "01/2025", "01/2025"),
		allottest.Task("T3", "X", "A", 100, "02/2025", "03/2025"),
		allottest.Task("T4", "Y", "B", 60, "03/2025", "03/2025"),
		allottest.Task("T5", "Y", "A", 40, "01/2025", "03/2025"),
	}

	return people, tasks
}

func TestGenetic_Name(t *testing.T) {
	require.Equal(t, "genetic", NewGenetic().Name())
}

func TestGenetic_FitnessHistoryNeverDecreases(t *testing.T) {
	people, tasks := geneticFixture()

	res, err := NewGenetic(WithGenerations(40), WithPopulationSize(20), WithSeed(3)).
		Allocate(context.Background(), people, tasks)
	require.NoError(t, err)

	require.Equal(t, 40, res.Generations)
	require.Len(t, res.FitnessHistory, 41)
	for i := 1; i < len(res.FitnessHistory); i++ {
		require.GreaterOrEqual(t, res.FitnessHistory[i], res.FitnessHistory[i-1], "generation %d", i)
	}
	require.Equal(t, res.FitnessHistory[len(res.FitnessHistory)-1], res.Fitness)
	require.False(t, res.Truncated)
}

func TestGenetic_SameSeedSameResult(t *testing.T) {
	people, tasks := geneticFixture()
	opts := []GeneticOption{WithGenerations(25), WithPopulationSize(16), WithSeed(99)}

	a, err := NewGenetic(opts...).Allocate(context.Background(), people, tasks)
	require.NoError(t, err)
	b, err := NewGenetic(opts...).Allocate(context.Background(), people, tasks)
	require.NoError(t, err)

	require.Equal(t, a.Assignments, b.Assignments)
	require.Equal(t, a.Warnings, b.Warnings)
	require.Equal(t, a.FitnessHistory, b.FitnessHistory)
}

func TestGenetic_ParallelMatchesSequential(t *testing.T) {
	people, tasks := geneticFixture()
	base := []GeneticOption{WithGenerations(25), WithPopulationSize(24), WithSeed(5)}

	seq, err := NewGenetic(append(base, WithWorkers(1))...).Allocate(context.Background(), people, tasks)
	require.NoError(t, err)
	par, err := NewGenetic(append(base, WithWorkers(4))...).Allocate(context.Background(), people, tasks)
	require.NoError(t, err)
	noCache, err := NewGenetic(append(base, WithWorkers(3), WithFitnessCache(false))...).
		Allocate(context.Background(), people, tasks)
	require.NoError(t, err)

	require.Equal(t, seq.FitnessHistory, par.FitnessHistory)
	require.Equal(t, seq.Assignments, par.Assignments)
	require.Equal(t, seq.FitnessHistory, noCache.FitnessHistory)
	require.Equal(t, seq.Assignments, noCache.Assignments)
}

func TestGenetic_FindsBestChromosome(t *testing.T) {
	people := []types.Person{
		allottest.Person("P1", "C", 1.0, "01/2025:1.0"),
		allottest.Person("P2", "A", 1.0, "01/2025:1.0"),
	}
	tasks := []types.Task{
		allottest.Task("T1", "X", "C", 80, "01/2025", "01/2025"),
		allottest.Task("T2", "X", "A", 80, "01/2025", "01/2025"),
	}

	res, err := NewGenetic(WithPopulationSize(20), WithGenerations(30), WithSeed(1)).
		Allocate(context.Background(), people, tasks)
	require.NoError(t, err)

	// Both genes earn the exact-level bonus on a full month: 2 * 160 * 2 + 1000.
	require.InDelta(t, 1640.0, res.Fitness, 1e-9)
	require.Empty(t, res.Warnings)
	require.Len(t, res.Assignments, 2)
	require.Equal(t, "P1", res.Assignments[0].PersonID)
	require.Equal(t, "P2", res.Assignments[1].PersonID)
	require.InDelta(t, 80.0, res.Assignments[0].Effort, 1e-9)
	require.InDelta(t, 320.0, res.Assignments[0].Score, 1e-9)
	require.InDelta(t, 160.0, res.TotalAssigned, 1e-9)
	require.InDelta(t, 80.0, res.Ledger["P1"][types.MustParseMonth("01/2025")], 1e-9)
}

func TestGenetic_ReportsInfeasibleGenes(t *testing.T) {
	p := allottest.Person("P1", "B", 1.0, "01/2025:1.0")
	p.Commitments = types.ParseCommitments("01/2025:Y")
	tasks := []types.Task{allottest.Task("T1", "X", "B", 40, "01/2025", "01/2025")}

	res, err := NewGenetic(WithGenerations(2), WithPopulationSize(4)).
		Allocate(context.Background(), []types.Person{p}, tasks)
	require.NoError(t, err)

	require.Empty(t, res.Assignments)
	require.Len(t, res.Warnings, 1)
	require.Equal(t, "assigned person lacks free hours", res.Warnings[0].Reason)
	// Coverage 1000, one conflicting month and one shortfall.
	require.InDelta(t, 300.0, res.Fitness, 1e-9)
}

func TestGenetic_ZeroGenerations(t *testing.T) {
	people, tasks := geneticFixture()

	res, err := NewGenetic(WithGenerations(0)).Allocate(context.Background(), people, tasks)
	require.NoError(t, err)
	require.Zero(t, res.Generations)
	require.Len(t, res.FitnessHistory, 1)
	require.Equal(t, len(tasks), len(res.Assignments)+len(res.Warnings))
}

func TestGenetic_EmptyInput(t *testing.T) {
	_, err := NewGenetic().Allocate(context.Background(), nil, nil)
	require.ErrorIs(t, err, types.ErrEmptyInput)
}

func TestGenetic_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	people, tasks := geneticFixture()

	_, err := NewGenetic().Allocate(ctx, people, tasks)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGenetic_NormalizeConfig(t *testing.T) {
	logger := allottest.NewRecordingLogger()
	g := NewGenetic(
		WithGeneticLogger(logger),
		WithPopulationSize(1),
		WithTournamentSize(10),
		WithElitism(-1),
		WithMutationRate(1.5),
		WithCrossoverRate(-0.1),
		WithWorkers(0),
		WithGenerations(-3),
	)

	require.Equal(t, 2, g.populationSize)
	require.Equal(t, 2, g.tournamentSize)
	require.Zero(t, g.elitism)
	require.InDelta(t, 1.0, g.mutationRate, 1e-12)
	require.Zero(t, g.crossoverRate)
	require.Equal(t, 1, g.workers)
	require.Zero(t, g.generations)
	require.Len(t, logger.Entries(), 5)
}

func TestGenetic_Defaults(t *testing.T) {
	g := NewGenetic()

	require.Equal(t, DefaultPopulationSize, g.populationSize)
	require.Equal(t, DefaultGenerations, g.generations)
	require.InDelta(t, DefaultMutationRate, g.mutationRate, 1e-12)
	require.InDelta(t, DefaultCrossoverRate, g.crossoverRate, 1e-12)
	require.Equal(t, DefaultTournamentSize, g.tournamentSize)
	require.Equal(t, DefaultElitism, g.elitism)
	require.Equal(t, uint64(DefaultSeed), g.Seed())
}

func TestArgmax_FirstOnTies(t *testing.T) {
	require.Equal(t, 1, argmax([]float64{1, 3, 3, 2}))
	require.Equal(t, 0, argmax([]float64{5}))
}

func TestFitnessCache(t *testing.T) {
	c := newFitnessCache()

	_, ok := c.Get([]int{0, 1})
	require.False(t, ok)

	c.Put([]int{0, 1}, 42)
	f, ok := c.Get([]int{0, 1})
	require.True(t, ok)
	require.InDelta(t, 42.0, f, 1e-12)

	_, ok = c.Get([]int{1, 0})
	require.False(t, ok)

	// First value wins.
	c.Put([]int{0, 1}, 7)
	f, _ = c.Get([]int{0, 1})
	require.InDelta(t, 42.0, f, 1e-12)

	require.Equal(t, 1, c.Size())
	require.Equal(t, int64(2), c.Hits())
}

func BenchmarkGenetic_Allocate(b *testing.B) {
	people, tasks := geneticFixture()
	g := NewGenetic(WithGenerations(20), WithPopulationSize(30))

	for b.Loop() {
		_, _ = g.Allocate(context.Background(), people, tasks)
	}
}
