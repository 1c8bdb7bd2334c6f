package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/arloliu/allot/internal/logging"
	"github.com/arloliu/allot/internal/natsutil"
	"github.com/arloliu/allot/types"
)

// DefaultSubject is the request subject used when Config.Subject is empty.
const DefaultSubject = "allot.plan.request"

var (
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("responder already started")

	// ErrNilConn is returned when the NATS connection is nil.
	ErrNilConn = errors.New("NATS connection is required")
)

// Planner runs one allocation. *allot.Planner satisfies it.
type Planner interface {
	Plan(ctx context.Context) (*types.Result, error)
}

// Config configures a Responder.
type Config struct {
	// Subject is the request subject (default DefaultSubject).
	Subject string `yaml:"subject"`

	// QueueGroup shares requests among replicas when set.
	QueueGroup string `yaml:"queueGroup"`

	// MaxRetries is the number of extra subscribe attempts (default 3).
	MaxRetries int `yaml:"maxRetries"`

	// RetryBackoff is the base delay between subscribe attempts (default 200ms).
	RetryBackoff time.Duration `yaml:"retryBackoff"`

	// MaxBackoff caps the delay between attempts (default 5s).
	MaxBackoff time.Duration `yaml:"maxBackoff"`

	// PlanTimeout bounds a single plan run (default 1m).
	PlanTimeout time.Duration `yaml:"planTimeout"`

	// Seed makes retry jitter deterministic when non-zero.
	Seed uint64 `yaml:"-"`
}

func (c *Config) setDefaults() {
	if c.Subject == "" {
		c.Subject = DefaultSubject
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 200 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 5 * time.Second
	}
	if c.PlanTimeout <= 0 {
		c.PlanTimeout = time.Minute
	}
}

// Reply is the JSON body sent back for every request.
type Reply struct {
	RunID          string   `json:"run_id,omitempty"`
	Strategy       string   `json:"strategy,omitempty"`
	Assignments    int      `json:"assignments"`
	Unassigned     []string `json:"unassigned,omitempty"`
	TotalRequired  float64  `json:"total_required"`
	TotalAssigned  float64  `json:"total_assigned"`
	FallbackEffort float64  `json:"fallback_effort,omitempty"`
	Truncated      bool     `json:"truncated,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// Option configures a Responder.
type Option func(*Responder)

// WithLogger sets the logger.
func WithLogger(logger types.Logger) Option {
	return func(r *Responder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Responder answers plan requests on a NATS subject.
type Responder struct {
	conn    *nats.Conn
	planner Planner
	cfg     Config
	logger  types.Logger

	mu      sync.Mutex
	sub     *nats.Subscription
	baseCtx context.Context //nolint:containedctx // lifetime of the subscription
	served  atomic.Int64
}

// NewResponder creates a Responder. Call Start to subscribe.
//
// Parameters:
//   - conn: NATS connection
//   - planner: Planner run for each request
//   - cfg: Subject, queue group and retry settings (zero values use defaults)
//   - opts: Optional logger
//
// Returns:
//   - *Responder: Unstarted responder
//
// Example:
//
//	r := trigger.NewResponder(nc, planner, trigger.Config{QueueGroup: "allot"})
//	if err := r.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Stop()
func NewResponder(conn *nats.Conn, planner Planner, cfg Config, opts ...Option) *Responder {
	cfg.setDefaults()
	r := &Responder{
		conn:    conn,
		planner: planner,
		cfg:     cfg,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Subject returns the subscribed request subject.
func (r *Responder) Subject() string {
	return r.cfg.Subject
}

// Served returns the number of requests answered.
func (r *Responder) Served() int64 {
	return r.served.Load()
}

// Start subscribes to the request subject, retrying connectivity failures
// with jittered backoff. Other subscribe errors fail immediately.
//
// Plans triggered by requests run with a context derived from ctx, so
// cancelling ctx aborts in-flight plans; call Stop to unsubscribe.
//
// Parameters:
//   - ctx: Lifetime context for the subscription and the plans it runs
//
// Returns:
//   - error: ErrNilConn, ErrAlreadyStarted, ctx.Err() or the last subscribe error
func (r *Responder) Start(ctx context.Context) error {
	if r.conn == nil {
		return ErrNilConn
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sub != nil {
		return ErrAlreadyStarted
	}
	r.baseCtx = ctx

	rng := newRetryRNG(r.cfg.Seed)
	var (
		sub      *nats.Subscription
		err      error
		delay    time.Duration
		attempts int
	)
	for attempt := 0; attempt <= r.cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		attempts++

		if r.cfg.QueueGroup != "" {
			sub, err = r.conn.QueueSubscribe(r.cfg.Subject, r.cfg.QueueGroup, r.handle)
		} else {
			sub, err = r.conn.Subscribe(r.cfg.Subject, r.handle)
		}
		if err == nil || !natsutil.IsConnectivityError(err) {
			break
		}

		if attempt < r.cfg.MaxRetries {
			delay = jitterBackoff(delay, r.cfg.RetryBackoff, 2.0, r.cfg.MaxBackoff, rng)
			r.logger.Warn("subscribe failed, retrying", "subject", r.cfg.Subject, "attempt", attempt+1, "delay", delay, "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	if err != nil {
		return fmt.Errorf("subscribe to %s (%d attempts): %w", r.cfg.Subject, attempts, natsutil.Classify(err))
	}

	r.sub = sub
	r.logger.Info("plan responder started", "subject", r.cfg.Subject, "queue_group", r.cfg.QueueGroup)

	return nil
}

// Stop drains the subscription. Requests already received are still answered.
func (r *Responder) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sub == nil {
		return nil
	}
	err := r.sub.Drain()
	r.sub = nil
	if err != nil {
		return fmt.Errorf("drain %s: %w", r.cfg.Subject, err)
	}

	return nil
}

func (r *Responder) handle(msg *nats.Msg) {
	r.mu.Lock()
	base := r.baseCtx
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(base, r.cfg.PlanTimeout)
	defer cancel()

	reply := r.run(ctx)
	r.served.Add(1)

	if msg.Reply == "" {
		return
	}
	data, err := json.Marshal(reply)
	if err != nil {
		r.logger.Error("encode plan reply", "error", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		r.logger.Warn("respond to plan request", "error", err)
	}
}

func (r *Responder) run(ctx context.Context) Reply {
	result, err := r.planner.Plan(ctx)
	if result == nil {
		if err == nil {
			err = errors.New("planner returned no result")
		}
		r.logger.Error("requested plan failed", "error", err)

		return Reply{Error: err.Error()}
	}

	reply := Reply{
		RunID:          result.RunID,
		Strategy:       result.Strategy,
		Assignments:    len(result.Assignments),
		TotalRequired:  result.TotalRequired,
		TotalAssigned:  result.TotalAssigned,
		FallbackEffort: result.FallbackEffort,
		Truncated:      result.Truncated,
	}
	for _, w := range result.Warnings {
		reply.Unassigned = append(reply.Unassigned, w.TaskID)
	}
	// A result with an error means publishing failed after a successful run.
	if err != nil {
		reply.Error = err.Error()
	}

	return reply
}
