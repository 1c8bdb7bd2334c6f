package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/arloliu/allot"
	"github.com/arloliu/allot/publish"
	"github.com/arloliu/allot/source"
	"github.com/arloliu/allot/types"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

var errNoSource = errors.New("no record source: pass --input or --database-url (or set DATABASE_URL)")

type planFlags struct {
	input       string
	configPath  string
	strategy    string
	seed        uint64
	timeBudget  time.Duration
	format      string
	databaseURL string
	projects    []string
	natsURL     string
	bucket      string
	metricsFile string
}

// register adds the flags shared by plan and serve.
func (f *planFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.input, "input", "i", "", "YAML plan file with people and tasks")
	flags.StringVar(&f.configPath, "config", "", "Configuration file (default: built-in defaults)")
	flags.StringVarP(&f.strategy, "strategy", "s", "", "Strategy: optimal, greedy, genetic, genetic_sweep")
	flags.Uint64Var(&f.seed, "seed", 0, "Genetic random seed")
	flags.DurationVar(&f.timeBudget, "time-budget", 0, "Wall-clock budget for greedy and genetic runs (0 = none)")
	flags.StringVar(&f.databaseURL, "database-url", "", "PostgreSQL connection string (env: DATABASE_URL)")
	flags.StringSliceVar(&f.projects, "project", nil, "Restrict PostgreSQL tasks to these project IDs")
	flags.StringVar(&f.natsURL, "nats-url", "", "NATS server URL; results are published to JetStream KV")
	flags.StringVar(&f.bucket, "bucket", "", "KV bucket for published results (default from config)")
}

func newPlanCmd() *cobra.Command {
	f := &planFlags{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run an allocation and print the result",
		Long: "Run an allocation over people and tasks read from a YAML plan file or PostgreSQL.\n\n" +
			"With --nats-url the result is also published to a JetStream KV bucket.",
		Example: "  allot plan --input plan.yaml\n" +
			"  allot plan --input plan.yaml --strategy genetic --seed 7 --format json\n" +
			"  allot plan --database-url postgres://localhost/staffing --project X --nats-url nats://localhost:4222",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, f)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&f.format, "format", "f", formatTable, "Output format: table or json")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics in text format to this file")

	return cmd
}

func runPlan(cmd *cobra.Command, f *planFlags) error {
	if f.format != formatTable && f.format != formatJSON {
		return fmt.Errorf("unknown format %q: use %q or %q", f.format, formatTable, formatJSON)
	}

	env, err := setup(cmd, f, f.natsURL != "")
	if err != nil {
		return err
	}
	defer env.close()

	result, planErr := env.planner.Plan(cmd.Context())
	if result == nil {
		return planErr
	}

	out := cmd.OutOrStdout()
	if f.format == formatJSON {
		err = renderJSON(out, result)
	} else {
		err = renderTable(out, result)
	}
	if err != nil {
		return err
	}

	if f.metricsFile != "" {
		if err := prometheus.WriteToTextfile(f.metricsFile, env.registry); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	return planErr
}

// plannerEnv bundles a planner with the resources it holds open.
type plannerEnv struct {
	planner  *allot.Planner
	registry *prometheus.Registry
	logger   types.Logger
	conn     *nats.Conn
	closers  []func()
}

func (e *plannerEnv) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// setup resolves configuration and the record source, connects to NATS when
// --nats-url is given and builds the planner. With publishResults the planner
// publishes every result to the configured KV bucket.
func setup(cmd *cobra.Command, f *planFlags, publishResults bool) (*plannerEnv, error) {
	cfg, err := loadConfig(f.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("strategy") {
		cfg.Strategy = f.strategy
	}
	if flags.Changed("seed") {
		cfg.Genetic.Seed = f.seed
	}
	if flags.Changed("time-budget") {
		cfg.TimeBudget = f.timeBudget
	}
	if flags.Changed("bucket") {
		cfg.Publish.Bucket = f.bucket
	}

	logger, err := loggerFor(cmd)
	if err != nil {
		return nil, err
	}

	env := &plannerEnv{registry: prometheus.NewRegistry(), logger: logger}
	ok := false
	defer func() {
		if !ok {
			env.close()
		}
	}()

	ctx := cmd.Context()
	src, closeSource, err := openSource(ctx, f)
	if err != nil {
		return nil, err
	}
	env.closers = append(env.closers, closeSource)

	metrics := allot.NewPrometheusMetrics(env.registry, "allot")
	opts := []allot.Option{allot.WithLogger(logger), allot.WithMetrics(metrics)}

	if f.natsURL != "" {
		nc, err := nats.Connect(f.natsURL, nats.Name("allot-cli"))
		if err != nil {
			return nil, fmt.Errorf("connect to NATS: %w", err)
		}
		env.conn = nc
		env.closers = append(env.closers, nc.Close)

		if publishResults {
			js, err := jetstream.New(nc)
			if err != nil {
				return nil, fmt.Errorf("create JetStream context: %w", err)
			}
			pub, err := publish.Open(ctx, js, cfg.Publish, publish.WithLogger(logger), publish.WithMetrics(metrics))
			if err != nil {
				return nil, err
			}
			opts = append(opts, allot.WithPublisher(pub))
		}
	}

	env.planner, err = allot.NewPlanner(&cfg, src, opts...)
	if err != nil {
		return nil, err
	}
	ok = true

	return env, nil
}

// openSource picks the YAML file when --input is given, PostgreSQL otherwise.
func openSource(ctx context.Context, f *planFlags) (types.RecordSource, func(), error) {
	if f.input != "" {
		src, err := source.LoadFile(f.input)
		if err != nil {
			return nil, nil, err
		}

		return src, func() {}, nil
	}

	if f.databaseURL == "" && os.Getenv("DATABASE_URL") == "" {
		return nil, nil, errNoSource
	}

	pg, err := source.Open(ctx, f.databaseURL, source.WithProjects(f.projects...))
	if err != nil {
		return nil, nil, err
	}

	return pg, pg.Close, nil
}
