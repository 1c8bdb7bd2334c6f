package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validPeople() []Person {
	return []Person{
		{ID: "P1", Competency: "B", PartTimeFactor: 1.0},
		{ID: "P2", Competency: "C", PartTimeFactor: 0.5},
	}
}

func validTasks() []Task {
	return []Task{
		{ID: "T1", ProjectID: "X", MinCompetency: "B", Effort: 4, Start: MustParseMonth("01/2025"), End: MustParseMonth("02/2025")},
		{ID: "T2", ProjectID: "X", MinCompetency: "C", Effort: 2, Start: MustParseMonth("01/2025"), End: MustParseMonth("01/2025")},
	}
}

func TestValidateInput(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		require.NoError(t, ValidateInput(validPeople(), validTasks()))
	})

	t.Run("empty people", func(t *testing.T) {
		require.ErrorIs(t, ValidateInput(nil, validTasks()), ErrEmptyInput)
	})

	t.Run("empty tasks", func(t *testing.T) {
		require.ErrorIs(t, ValidateInput(validPeople(), nil), ErrEmptyInput)
	})

	tests := []struct {
		name   string
		mutate func(p []Person, tk []Task)
		substr string
	}{
		{"duplicate person", func(p []Person, _ []Task) { p[1].ID = "P1" }, `duplicate person id "P1"`},
		{"blank person id", func(p []Person, _ []Task) { p[0].ID = " " }, "blank id"},
		{"zero part-time factor", func(p []Person, _ []Task) { p[0].PartTimeFactor = 0 }, "part-time factor"},
		{"negative time budget", func(p []Person, _ []Task) { p[0].TimeBudget = -1 }, "time budget"},
		{"duplicate task", func(_ []Person, tk []Task) { tk[1].ID = "T1" }, `duplicate task id "T1"`},
		{"zero effort", func(_ []Person, tk []Task) { tk[0].Effort = 0 }, "effort must be > 0"},
		{"end before start", func(_ []Person, tk []Task) { tk[0].End = MustParseMonth("12/2024") }, "before start"},
		{"missing months", func(_ []Person, tk []Task) { tk[0].Start = Month{} }, "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			people, tasks := validPeople(), validTasks()
			tt.mutate(people, tasks)

			err := ValidateInput(people, tasks)
			require.ErrorIs(t, err, ErrInvalidInput)
			require.Contains(t, err.Error(), tt.substr)
		})
	}
}

func TestTaskSpan(t *testing.T) {
	task := validTasks()[0]
	require.Equal(t, 2, task.Span())
	require.Equal(t, []Month{MustParseMonth("01/2025"), MustParseMonth("02/2025")}, task.Months())
}

func TestPersonHelpers(t *testing.T) {
	p := Person{
		ID:          "P1",
		Skills:      []string{"go", "sql"},
		Commitments: map[Month]string{MustParseMonth("01/2025"): "X"},
	}

	require.Equal(t, 1.0, p.ScoreWeight())
	p.TimeBudget = 0.5
	require.Equal(t, 0.5, p.ScoreWeight())

	require.True(t, p.HasSkill("go"))
	require.False(t, p.HasSkill("rust"))
	require.False(t, p.HasSkill(""))

	require.False(t, p.CommittedElsewhere(MustParseMonth("01/2025"), "X"))
	require.True(t, p.CommittedElsewhere(MustParseMonth("01/2025"), "Y"))
	require.False(t, p.CommittedElsewhere(MustParseMonth("02/2025"), "Y"))
}

func TestResultHelpers(t *testing.T) {
	r := &Result{
		Assignments: []Assignment{
			{PersonID: "P1", TaskID: "T1", ProjectID: "X", Effort: 80},
			{PersonID: "P2", TaskID: "T1", ProjectID: "X", Effort: 40, Fallback: true},
			{PersonID: "P1", TaskID: "T2", ProjectID: "Y", Effort: 10},
		},
		Warnings: []NoCandidateWarning{{TaskID: "T3"}},
	}

	require.Equal(t, map[string]float64{"T1": 120, "T2": 10}, r.AssignedEffortByTask())
	require.Equal(t, []string{"X", "Y"}, r.ProjectIDs())
	require.Len(t, r.AssignmentsForProject("X"), 2)
	require.Equal(t, 1, r.UnassignedCount())
}
