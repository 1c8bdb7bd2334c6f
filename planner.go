package allot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arloliu/allot/competency"
	"github.com/arloliu/allot/internal/hooks"
	"github.com/arloliu/allot/internal/logging"
	"github.com/arloliu/allot/internal/metrics"
	"github.com/arloliu/allot/strategy"
	"github.com/arloliu/allot/types"
)

// Planner runs allocation plans: it loads people and tasks from a
// RecordSource, runs the configured strategy, reports metrics and hooks, and
// optionally publishes the result.
//
// A Planner is safe for concurrent use; runs are serialized.
type Planner struct {
	cfg       Config
	source    RecordSource
	strategy  AllocationStrategy
	publisher ResultPublisher
	hooks     Hooks
	metrics   MetricsCollector
	logger    Logger

	mu   sync.Mutex
	last *Result
}

// NewPlanner creates a new Planner.
//
// The configuration is completed with SetDefaults and validated. Unless
// WithStrategy is given, the strategy is built from cfg.Strategy.
//
// Parameters:
//   - cfg: Planner configuration (must not be nil)
//   - source: Record source for people and tasks (must not be nil)
//   - opts: Optional dependencies (strategy, publisher, hooks, metrics, logger)
//
// Returns:
//   - *Planner: Configured planner
//   - error: ErrInvalidConfig, ErrSourceRequired or ErrUnknownStrategy
//
// Example:
//
//	cfg := allot.DefaultConfig()
//	cfg.Strategy = "optimal"
//	planner, err := allot.NewPlanner(&cfg, source.NewStatic(people, tasks))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := planner.Plan(ctx)
func NewPlanner(cfg *Config, source RecordSource, opts ...Option) (*Planner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if source == nil {
		return nil, ErrSourceRequired
	}

	c := *cfg
	SetDefaults(&c)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	options := &plannerOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.metrics == nil {
		options.metrics = metrics.NewNop()
	}
	if options.logger == nil {
		options.logger = logging.NewNop()
	}

	c.ValidateWithWarnings(options.logger)

	s := options.strategy
	if s == nil {
		scale, err := competency.Parse(c.Competency.Levels...)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		s, err = strategy.FromConfig(strategy.Settings{
			Name:       c.Strategy,
			Greedy:     c.Greedy,
			Genetic:    c.Genetic,
			TimeBudget: c.TimeBudget,
			Scale:      scale,
			Logger:     options.logger,
		})
		if err != nil {
			return nil, err
		}
	}

	return &Planner{
		cfg:       c,
		source:    source,
		strategy:  s,
		publisher: options.publisher,
		hooks:     hooks.WithDefaults(options.hooks),
		metrics:   options.metrics,
		logger:    options.logger,
	}, nil
}

// Config returns a copy of the effective configuration.
func (p *Planner) Config() Config {
	return p.cfg
}

// Strategy returns the strategy the planner runs.
func (p *Planner) Strategy() AllocationStrategy {
	return p.strategy
}

// LastResult returns the most recent successful result, or nil.
func (p *Planner) LastResult() *Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.last
}

// Plan loads people and tasks from the source and runs one allocation.
//
// Source loading is bounded by Config.SourceTimeout.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - *Result: Allocation result (also returned alongside a publish error)
//   - error: Source, validation, strategy or ErrPublishFailed error
func (p *Planner) Plan(ctx context.Context) (*Result, error) {
	people, tasks, err := p.load(ctx)
	if err != nil {
		p.fail(ctx, err)
		return nil, err
	}

	return p.PlanRecords(ctx, people, tasks)
}

// PlanRecords runs one allocation on the given records, bypassing the source.
//
// The run is validated first; unassigned tasks are reported as warnings in
// the result and through Hooks.OnTaskUnassigned, never as errors. When a
// publisher is configured the result is published after the hooks run, bounded
// by Config.PublishTimeout. A publish failure is returned together with the
// result.
//
// Parameters:
//   - ctx: Context for cancellation
//   - people: Person records
//   - tasks: Task records
//
// Returns:
//   - *Result: Allocation result
//   - error: Validation, strategy or ErrPublishFailed error
func (p *Planner) PlanRecords(ctx context.Context, people []Person, tasks []Task) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	name := p.strategy.Name()

	if err := types.ValidateInput(people, tasks); err != nil {
		p.metrics.RecordRunAttempt(name, false)
		p.fail(ctx, err)

		return nil, err
	}

	p.logger.Debug("allocation started", "strategy", name, "people", len(people), "tasks", len(tasks))

	start := time.Now()
	result, err := p.strategy.Allocate(ctx, people, tasks)
	elapsed := time.Since(start)
	if err != nil {
		p.metrics.RecordRunAttempt(name, false)
		err = fmt.Errorf("allocate with %s: %w", name, err)
		p.fail(ctx, err)

		return nil, err
	}

	result.Duration = elapsed
	if id, idErr := uuid.NewV7(); idErr == nil {
		result.RunID = id.String()
	} else {
		result.RunID = uuid.NewString()
	}

	p.record(result)
	p.logger.Info("allocation completed",
		"run_id", result.RunID,
		"strategy", result.Strategy,
		"assignments", len(result.Assignments),
		"unassigned", result.UnassignedCount(),
		"fallback_effort", result.FallbackEffort,
		"truncated", result.Truncated,
		"duration", elapsed,
	)

	for _, w := range result.Warnings {
		p.logger.Warn("task not fully assigned", "run_id", result.RunID, "task_id", w.TaskID, "reason", w.Reason)
		if hookErr := p.hooks.OnTaskUnassigned(ctx, w); hookErr != nil {
			p.logger.Error("OnTaskUnassigned hook failed", "task_id", w.TaskID, "error", hookErr)
		}
	}
	if hookErr := p.hooks.OnPlanCompleted(ctx, result); hookErr != nil {
		p.logger.Error("OnPlanCompleted hook failed", "run_id", result.RunID, "error", hookErr)
	}

	p.last = result

	if p.publisher == nil {
		return result, nil
	}

	pubCtx, cancel := context.WithTimeout(ctx, p.cfg.PublishTimeout)
	defer cancel()
	if err := p.publisher.Publish(pubCtx, result); err != nil {
		if !errors.Is(err, ErrPublishFailed) {
			err = fmt.Errorf("%w: %w", ErrPublishFailed, err)
		}
		p.fail(ctx, err)

		return result, err
	}
	p.logger.Debug("result published", "run_id", result.RunID)

	return result, nil
}

func (p *Planner) load(ctx context.Context) ([]Person, []Task, error) {
	loadCtx, cancel := context.WithTimeout(ctx, p.cfg.SourceTimeout)
	defer cancel()

	people, err := p.source.ListPeople(loadCtx)
	if err != nil {
		return nil, nil, fmt.Errorf("list people: %w", err)
	}
	tasks, err := p.source.ListTasks(loadCtx)
	if err != nil {
		return nil, nil, fmt.Errorf("list tasks: %w", err)
	}

	return people, tasks, nil
}

func (p *Planner) record(result *Result) {
	name := result.Strategy
	fallbacks := 0
	for _, a := range result.Assignments {
		if a.Fallback {
			fallbacks++
		}
	}

	p.metrics.RecordRunAttempt(name, true)
	p.metrics.RecordRunDuration(name, result.Duration.Seconds())
	p.metrics.RecordAssignments(name, len(result.Assignments), fallbacks)
	p.metrics.RecordUnassignedTasks(name, result.UnassignedCount())
	if len(result.FitnessHistory) > 0 {
		p.metrics.RecordBestFitness(name, result.Fitness)
	}
}

func (p *Planner) fail(ctx context.Context, err error) {
	p.logger.Error("plan failed", "strategy", p.strategy.Name(), "error", err)
	if hookErr := p.hooks.OnError(ctx, err); hookErr != nil {
		p.logger.Error("OnError hook failed", "error", hookErr)
	}
}
