package allot

// Option configures a Planner with optional dependencies.
type Option func(*plannerOptions)

// plannerOptions holds optional Planner configuration.
type plannerOptions struct {
	strategy  AllocationStrategy
	hooks     *Hooks
	metrics   MetricsCollector
	logger    Logger
	publisher ResultPublisher
}

// WithStrategy sets a custom allocation strategy.
//
// When set, the Strategy field of Config is ignored.
//
// Parameters:
//   - strategy: AllocationStrategy implementation
//
// Returns:
//   - Option: Functional option for NewPlanner
//
// Example:
//
//	s := strategy.NewGreedy(strategy.WithLookahead(3, 0.5))
//	planner, err := allot.NewPlanner(&cfg, src, allot.WithStrategy(s))
func WithStrategy(strategy AllocationStrategy) Option {
	return func(o *plannerOptions) {
		o.strategy = strategy
	}
}

// WithHooks sets plan event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewPlanner
//
// Example:
//
//	hooks := &allot.Hooks{
//	    OnTaskUnassigned: func(ctx context.Context, w allot.NoCandidateWarning) error {
//	        return notifyStaffing(w.TaskID, w.Reason)
//	    },
//	}
//	planner, err := allot.NewPlanner(&cfg, src, allot.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *plannerOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewPlanner
//
// Example:
//
//	metrics := allot.NewPrometheusMetrics(prometheus.DefaultRegisterer, "allot")
//	planner, err := allot.NewPlanner(&cfg, src, allot.WithMetrics(metrics))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *plannerOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewPlanner
//
// Example:
//
//	logger := allot.NewSlogLogger(slog.Default())
//	planner, err := allot.NewPlanner(&cfg, src, allot.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *plannerOptions) {
		o.logger = logger
	}
}

// WithPublisher sets where completed results are published.
//
// Without a publisher, Plan only returns the result.
//
// Parameters:
//   - publisher: ResultPublisher implementation (e.g. *publish.KVPublisher)
//
// Returns:
//   - Option: Functional option for NewPlanner
//
// Example:
//
//	pub, err := publish.Open(ctx, js, cfg.Publish)
//	planner, err := allot.NewPlanner(&cfg, src, allot.WithPublisher(pub))
func WithPublisher(publisher ResultPublisher) Option {
	return func(o *plannerOptions) {
		o.publisher = publisher
	}
}
