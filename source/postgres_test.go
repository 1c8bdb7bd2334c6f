package source

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	allottest "github.com/arloliu/allot/testing"
	"github.com/arloliu/allot/types"
)

func openTestPostgres(t *testing.T, opts ...PostgresOption) *Postgres {
	t.Helper()

	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping postgres test")
	}

	ctx := context.Background()
	p, err := Open(ctx, "", opts...)
	require.NoError(t, err)
	t.Cleanup(p.Close)

	_, err = p.pool.Exec(ctx, `TRUNCATE people, tasks`)
	require.NoError(t, err)

	return p
}

func TestOpen_RequiresDSN(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Open(context.Background(), "")
	require.ErrorIs(t, err, ErrDSNRequired)
}

func TestPostgres_RoundTrip(t *testing.T) {
	p := openTestPostgres(t)
	ctx := context.Background()

	alice := allottest.Person("P1", "B", 1.0, "01/2025:0.5,02/2025:1")
	alice.Commitments = types.ParseCommitments("03/2025:Y")
	alice.Skills = []string{"go"}
	bob := allottest.Person("P2", "C", 0.5, "01/2025:1")
	bob.Skills = []string{}
	bob.Commitments = map[types.Month]string{}

	require.NoError(t, p.UpsertPeople(ctx, []types.Person{bob, alice}))
	require.NoError(t, p.UpsertTasks(ctx, []types.Task{
		allottest.Task("T2", "Y", "C", 2, "01/2025", "01/2025"),
		allottest.Task("T1", "X", "B", 160, "01/2025", "02/2025"),
	}))

	people, err := p.ListPeople(ctx)
	require.NoError(t, err)
	require.Equal(t, []types.Person{alice, bob}, people)

	tasks, err := p.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Equal(t, "T1", tasks[0].ID)
	require.Equal(t, types.MustParseMonth("02/2025"), tasks[0].End)
}

func TestPostgres_ProjectFilter(t *testing.T) {
	p := openTestPostgres(t, WithProjects("Y"))
	ctx := context.Background()

	require.NoError(t, p.UpsertTasks(ctx, []types.Task{
		allottest.Task("T1", "X", "B", 1, "01/2025", "01/2025"),
		allottest.Task("T2", "Y", "B", 1, "01/2025", "01/2025"),
	}))

	tasks, err := p.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "T2", tasks[0].ID)
}
