package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/allot"
	allottest "github.com/arloliu/allot/testing"
	"github.com/arloliu/allot/trigger"
)

const samplePlan = `
people:
  - id: P1
    competency: B
    partTimeFactor: 1.0
    availability: "01/2025:0.5,02/2025:0.5"
  - id: P2
    competency: C
    partTimeFactor: 0.5
    availability: "03/2025:1.0"
tasks:
  - id: T1
    projectId: X
    minCompetency: B
    effort: 160
    start: "01/2025"
    end: "02/2025"
  - id: T2
    projectId: X
    minCompetency: C
    effort: 40
    start: "01/2025"
    end: "01/2025"
`

func writePlan(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd("test")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())

	return out.String(), err
}

func TestNewRootCmd_HasSubcommands(t *testing.T) {
	root := NewRootCmd("test")

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"plan", "serve", "config", "db", "version"} {
		require.True(t, names[want], "expected subcommand %q", want)
	}
	require.NotNil(t, root.PersistentFlags().Lookup("log-level"))
}

func TestNewRootCmd_Version(t *testing.T) {
	require.Equal(t, "1.2.3", NewRootCmd("1.2.3").Version)
	require.Equal(t, "dev", NewRootCmd("").Version)

	out, err := execute(t, "version")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "allot test"))
}

func TestConfigCmd_PrintsDefaults(t *testing.T) {
	out, err := execute(t, "config")
	require.NoError(t, err)

	cfg, err := allot.ParseConfig([]byte(out))
	require.NoError(t, err)
	require.Equal(t, allot.DefaultConfig(), cfg)
}

func TestConfigCmd_LoadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strategy: optimal\n"), 0o600))

	out, err := execute(t, "config", "--config", path)
	require.NoError(t, err)
	require.Contains(t, out, "strategy: optimal")

	require.NoError(t, os.WriteFile(path, []byte("strategy: bogus\n"), 0o600))
	_, err = execute(t, "config", "--config", path)
	require.ErrorIs(t, err, allot.ErrInvalidConfig)
}

func TestPlanCmd_Table(t *testing.T) {
	path := writePlan(t, samplePlan)
	metricsFile := filepath.Join(t.TempDir(), "allot.prom")

	out, err := execute(t, "plan", "--input", path, "--metrics-file", metricsFile)
	require.NoError(t, err)
	require.Contains(t, out, "(greedy)")
	require.Contains(t, out, "PERSON")
	require.Contains(t, out, "01/2025:80,02/2025:80")
	require.Contains(t, out, "required 200, assigned 160, fallback 40")

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	require.Contains(t, string(metrics), "allot_planner_runs_total")
}

func TestPlanCmd_JSON(t *testing.T) {
	path := writePlan(t, samplePlan)

	out, err := execute(t, "plan", "--input", path, "--strategy", "optimal", "--format", "json")
	require.NoError(t, err)

	var result allot.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Equal(t, "optimal", result.Strategy)
	require.NotEmpty(t, result.RunID)
	require.Len(t, result.Assignments, 2)
}

func TestPlanCmd_GeneticSeedIsDeterministic(t *testing.T) {
	path := writePlan(t, samplePlan)
	args := []string{"plan", "--input", path, "--strategy", "genetic", "--seed", "7", "--format", "json"}

	decode := func(out string) allot.Result {
		var r allot.Result
		require.NoError(t, json.Unmarshal([]byte(out), &r))
		return r
	}

	first, err := execute(t, args...)
	require.NoError(t, err)
	second, err := execute(t, args...)
	require.NoError(t, err)

	a, b := decode(first), decode(second)
	require.Equal(t, a.Assignments, b.Assignments)
	require.Equal(t, a.FitnessHistory, b.FitnessHistory)
}

func TestPlanCmd_Errors(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	path := writePlan(t, samplePlan)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no source", []string{"plan"}, "no record source"},
		{"bad format", []string{"plan", "--input", path, "--format", "xml"}, "unknown format"},
		{"unknown strategy", []string{"plan", "--input", path, "--strategy", "random"}, "invalid configuration"},
		{"missing file", []string{"plan", "--input", filepath.Join(t.TempDir(), "nope.yaml")}, "read plan file"},
		{"bad log level", []string{"plan", "--input", path, "--log-level", "loud"}, "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestPlanCmd_PublishesToNATS(t *testing.T) {
	srv, nc := allottest.StartEmbeddedNATS(t)
	path := writePlan(t, samplePlan)

	_, err := execute(t, "plan", "--input", path, "--nats-url", srv.ClientURL(), "--bucket", "cli-results")
	require.NoError(t, err)

	js, err := jetstream.New(nc)
	require.NoError(t, err)
	kv, err := js.KeyValue(context.Background(), "cli-results")
	require.NoError(t, err)

	entry, err := kv.Get(context.Background(), "allot.project.X")
	require.NoError(t, err)
	require.Contains(t, string(entry.Value()), `"project_id":"X"`)
}

func TestServeCmd_AnswersRequests(t *testing.T) {
	srv, nc := allottest.StartEmbeddedNATS(t)
	path := writePlan(t, samplePlan)

	ctx, cancel := context.WithCancel(context.Background())
	root := NewRootCmd("test")
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"serve", "--input", path, "--nats-url", srv.ClientURL(), "--no-publish", "--subject", "test.plan"})

	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	var reply trigger.Reply
	require.Eventually(t, func() bool {
		msg, err := nc.Request("test.plan", nil, time.Second)
		if err != nil {
			return false
		}
		return json.Unmarshal(msg.Data, &reply) == nil
	}, 10*time.Second, 50*time.Millisecond)

	require.Equal(t, "greedy", reply.Strategy)
	require.NotEmpty(t, reply.RunID)
	require.Equal(t, 2, reply.Assignments)
	require.Empty(t, reply.Error)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestServeCmd_RequiresNATS(t *testing.T) {
	path := writePlan(t, samplePlan)
	_, err := execute(t, "serve", "--input", path)
	require.ErrorContains(t, err, "--nats-url is required")
}

func TestDBCmd_RequiresDSN(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	path := writePlan(t, samplePlan)

	_, err := execute(t, "db", "import", "--input", path)
	require.Error(t, err)

	_, err = execute(t, "db", "import")
	require.ErrorContains(t, err, "--input is required")

	_, err = execute(t, "db", "export")
	require.Error(t, err)
}
