package ledger

import (
	"math/rand/v2"
	"testing"

	"github.com/arloliu/allot/types"
	"github.com/stretchr/testify/require"
)

var (
	jan = types.MustParseMonth("01/2025")
	feb = types.MustParseMonth("02/2025")
	mar = types.MustParseMonth("03/2025")
)

func testPeople() []types.Person {
	return []types.Person{
		{ID: "P1", PartTimeFactor: 1.0, Availability: types.ParseAvailability("01/2025:0.5,02/2025:0.5")},
		{ID: "P2", PartTimeFactor: 0.5, Availability: types.ParseAvailability("01/2025:0.25")},
	}
}

func TestCapacity(t *testing.T) {
	l := New(testPeople())

	require.Equal(t, 80.0, l.Capacity("P1", jan))
	require.Equal(t, 80.0, l.Capacity("P2", jan))
	require.Equal(t, 0.0, l.Capacity("P1", mar))
	require.Equal(t, 0.0, l.Capacity("missing", jan))
}

func TestCommitAndAvailable(t *testing.T) {
	l := New(testPeople())

	l.Commit("P1", jan, 30)
	l.Commit("P1", jan, 50)
	require.Equal(t, 80.0, l.Committed("P1", jan))
	require.Equal(t, 0.0, l.Available("P1", jan))
	require.Equal(t, 80.0, l.AvailableOver("P1", []types.Month{jan, feb}))

	l.Commit("P1", feb, 0)
	require.Empty(t, l.Snapshot()["P1"][feb])
}

func TestCommitPanics(t *testing.T) {
	l := New(testPeople())

	require.Panics(t, func() { l.Commit("P1", jan, 80.5) })
	require.Panics(t, func() { l.Commit("P1", jan, -1) })
	require.Panics(t, func() { l.Commit("P1", mar, 1) })
	require.NotPanics(t, func() { l.Commit("P1", jan, 80+Epsilon/2) })
	require.Equal(t, 80.0, l.Committed("P1", jan))
}

func TestFork(t *testing.T) {
	parent := New(testPeople())
	parent.Commit("P1", jan, 20)

	child := parent.Fork()
	require.Equal(t, 20.0, child.Committed("P1", jan))

	child.Commit("P1", jan, 40)
	child.Commit("P2", jan, 10)
	require.Equal(t, 60.0, child.Committed("P1", jan))
	require.Equal(t, 20.0, parent.Committed("P1", jan))
	require.Equal(t, 0.0, parent.Committed("P2", jan))

	grandchild := child.Fork()
	grandchild.Commit("P1", feb, 5)
	require.Equal(t, 60.0, grandchild.Committed("P1", jan))
	require.Equal(t, map[string]map[types.Month]float64{
		"P1": {jan: 60, feb: 5},
		"P2": {jan: 10},
	}, grandchild.Snapshot())
	require.Equal(t, map[string]map[types.Month]float64{"P1": {jan: 20}}, parent.Snapshot())
}

func TestNeverExceedsCapacity(t *testing.T) {
	people := testPeople()
	l := New(people)
	rng := rand.New(rand.NewPCG(3, 5))
	months := []types.Month{jan, feb, mar}

	for range 1000 {
		p := people[rng.IntN(len(people))].ID
		m := months[rng.IntN(len(months))]
		h := rng.Float64() * 30
		if h > l.Available(p, m) {
			require.Panics(t, func() { l.Commit(p, m, h+1) })
			continue
		}
		l.Commit(p, m, h)
	}

	for _, p := range people {
		for _, m := range months {
			require.LessOrEqual(t, l.Committed(p.ID, m), l.Capacity(p.ID, m)+Epsilon)
		}
	}
}
