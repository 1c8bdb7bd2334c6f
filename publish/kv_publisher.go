package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/allot/internal/kvutil"
	"github.com/arloliu/allot/internal/logging"
	"github.com/arloliu/allot/internal/metrics"
	"github.com/arloliu/allot/internal/natsutil"
	"github.com/arloliu/allot/types"
)

// DefaultKeyPrefix is the key prefix used when none is configured.
const DefaultKeyPrefix = "allot"

const (
	projectSegment = "project"
	summarySegment = "summary"
)

// ErrNilResult is returned when Publish is called without a result.
var ErrNilResult = errors.New("nil result")

// ProjectDocument is the JSON document stored per project.
type ProjectDocument struct {
	Version     int64              `json:"version"`
	RunID       string             `json:"run_id"`
	Strategy    string             `json:"strategy"`
	ProjectID   string             `json:"project_id"`
	PublishedAt time.Time          `json:"published_at"`
	Assignments []types.Assignment `json:"assignments"`
}

// SummaryDocument is the JSON document describing the whole run.
type SummaryDocument struct {
	Version        int64                      `json:"version"`
	RunID          string                     `json:"run_id"`
	Strategy       string                     `json:"strategy"`
	PublishedAt    time.Time                  `json:"published_at"`
	Projects       []string                   `json:"projects"`
	Warnings       []types.NoCandidateWarning `json:"warnings,omitempty"`
	TotalRequired  float64                    `json:"total_required"`
	TotalAssigned  float64                    `json:"total_assigned"`
	FallbackEffort float64                    `json:"fallback_effort,omitempty"`
	Fitness        float64                    `json:"fitness,omitempty"`
	Truncated      bool                       `json:"truncated,omitempty"`
	Duration       time.Duration              `json:"duration"`
}

// Config configures the KV bucket opened by Open.
type Config struct {
	// Bucket is the KV bucket name. Required.
	Bucket string `yaml:"bucket"`

	// KeyPrefix prefixes every key (default "allot").
	KeyPrefix string `yaml:"keyPrefix"`

	// TTL expires result keys (0 = keep forever).
	TTL time.Duration `yaml:"ttl"`

	// History is the number of revisions kept per key (default 5).
	History uint8 `yaml:"history"`

	// MaxRetries bounds bucket creation attempts (default 3).
	MaxRetries int `yaml:"maxRetries"`
}

// KVPublisher publishes results to a NATS JetStream KV bucket.
//
// It implements types.ResultPublisher and is safe for concurrent use;
// concurrent Publish calls are serialized.
type KVPublisher struct {
	kv        jetstream.KeyValue
	prefix    string
	keyPrefix string // cached "prefix.project."

	mu             sync.Mutex
	currentVersion int64
	lastPublish    time.Time

	logger  types.Logger
	metrics types.PublisherMetrics
	now     func() time.Time
}

var _ types.ResultPublisher = (*KVPublisher)(nil)

// Option configures a KVPublisher.
type Option func(*KVPublisher)

// WithKeyPrefix sets the key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(p *KVPublisher) {
		p.prefix = prefix
	}
}

// WithLogger sets the logger.
func WithLogger(logger types.Logger) Option {
	return func(p *KVPublisher) {
		p.logger = logger
	}
}

// WithMetrics sets the publisher metrics.
func WithMetrics(m types.PublisherMetrics) Option {
	return func(p *KVPublisher) {
		p.metrics = m
	}
}

// NewKVPublisher creates a publisher on an existing bucket.
//
// The version counter starts at zero; call DiscoverHighestVersion before the
// first Publish to continue from versions already stored in the bucket.
//
// Parameters:
//   - kv: NATS KV bucket for results
//   - opts: Optional configuration
//
// Returns:
//   - *KVPublisher: A new publisher instance
func NewKVPublisher(kv jetstream.KeyValue, opts ...Option) *KVPublisher {
	p := &KVPublisher{
		kv:      kv,
		prefix:  DefaultKeyPrefix,
		logger:  logging.NewNop(),
		metrics: metrics.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.prefix == "" {
		p.prefix = DefaultKeyPrefix
	}
	if p.logger == nil {
		p.logger = logging.NewNop()
	}
	if p.metrics == nil {
		p.metrics = metrics.NewNop()
	}
	p.keyPrefix = p.prefix + "." + projectSegment + "."

	return p
}

// Open creates or opens the configured bucket and returns a publisher whose
// version counter continues from the highest version stored.
//
// Parameters:
//   - ctx: Context for bucket creation and version discovery
//   - js: JetStream context
//   - cfg: Bucket configuration
//   - opts: Optional publisher configuration (cfg.KeyPrefix is applied first)
//
// Returns:
//   - *KVPublisher: Ready publisher
//   - error: Wrapped types.ErrInvalidConfig, or a KV error (connectivity
//     failures wrap types.ErrConnectivity)
//
// Example:
//
//	js, _ := jetstream.New(nc)
//	pub, err := publish.Open(ctx, js, publish.Config{Bucket: "allot-results"})
//	if err != nil { /* handle */ }
//	planner, err := allot.NewPlanner(&cfg, src, allot.WithPublisher(pub))
func Open(ctx context.Context, js jetstream.JetStream, cfg Config, opts ...Option) (*KVPublisher, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: publish bucket is required", types.ErrInvalidConfig)
	}

	kv, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
		Bucket:      cfg.Bucket,
		Description: "allocation results",
		TTL:         cfg.TTL,
		History:     cfg.History,
	}, cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("open result bucket %s: %w", cfg.Bucket, natsutil.Classify(err))
	}

	all := opts
	if cfg.KeyPrefix != "" {
		all = append([]Option{WithKeyPrefix(cfg.KeyPrefix)}, opts...)
	}
	p := NewKVPublisher(kv, all...)
	if err := p.DiscoverHighestVersion(ctx); err != nil {
		return nil, err
	}

	return p, nil
}

// DiscoverHighestVersion scans the bucket for the highest stored version.
//
// This keeps versions monotonic across publisher restarts.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - error: Nil on success (an empty bucket is not an error), error on KV access failure
func (p *KVPublisher) DiscoverHighestVersion(ctx context.Context) error {
	keys, err := p.ownKeys(ctx)
	if err != nil {
		return err
	}

	p.logger.Debug("discovering highest version", "total_keys", len(keys), "prefix", p.prefix)

	highest := int64(0)
	for _, key := range keys {
		entry, err := p.kv.Get(ctx, key)
		if err != nil {
			p.logger.Debug("failed to read result key", "key", key, "error", err)
			continue
		}

		var doc struct {
			Version int64 `json:"version"`
		}
		if err := json.Unmarshal(entry.Value(), &doc); err != nil {
			p.logger.Debug("failed to unmarshal result document", "key", key, "error", err)
			continue
		}
		highest = max(highest, doc.Version)
	}

	p.mu.Lock()
	p.currentVersion = highest
	p.mu.Unlock()

	if highest > 0 {
		p.logger.Info("discovered existing results", "highest_version", highest, "checked_keys", len(keys))
	}

	return nil
}

// ownKeys lists keys under the publisher's prefix.
func (p *KVPublisher) ownKeys(ctx context.Context) ([]string, error) {
	keys, err := p.kv.Keys(ctx)
	if err != nil {
		if types.IsNoKeysFoundError(err) || errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to list KV keys: %w", natsutil.Classify(err))
	}

	own := keys[:0]
	for _, key := range keys {
		if strings.HasPrefix(key, p.prefix+".") {
			own = append(own, key)
		}
	}

	return own, nil
}

// cleanupStaleProjects removes project keys that are not in keep.
// Failures are logged and skipped.
func (p *KVPublisher) cleanupStaleProjects(ctx context.Context, keep map[string]bool) error {
	keys, err := p.ownKeys(ctx)
	if err != nil {
		return err
	}

	deleted := 0
	for _, key := range keys {
		if !strings.HasPrefix(key, p.keyPrefix) || keep[key] {
			continue
		}
		p.logger.Debug("deleting stale project result", "key", key)
		if err := p.kv.Delete(ctx, key); err != nil {
			p.logger.Warn("failed to delete stale project result", "key", key, "error", err)
			continue
		}
		deleted++
	}

	if deleted > 0 {
		p.logger.Info("cleaned up stale project results", "deleted_count", deleted)
	}

	return nil
}

// Publish stores the result under a new version.
//
// One document is written per project that has assignments, then the run
// summary. The summary is written last so a consumer that sees a new summary
// version can read every project document of that version.
//
// Parameters:
//   - ctx: Context for cancellation
//   - res: Complete allocation result
//
// Returns:
//   - error: Wrapped types.ErrPublishFailed (and types.ErrConnectivity for network failures)
func (p *KVPublisher) Publish(ctx context.Context, res *types.Result) (err error) {
	if res == nil {
		return fmt.Errorf("%w: %w", types.ErrPublishFailed, ErrNilResult)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()
	defer func() {
		p.metrics.RecordPublishDuration(time.Since(start).Seconds(), err == nil)
	}()

	p.currentVersion++
	version := p.currentVersion
	publishedAt := p.now().UTC()
	projects := res.ProjectIDs()

	keep := make(map[string]bool, len(projects))
	for _, projectID := range projects {
		keep[p.ProjectKey(projectID)] = true
	}
	if err := p.cleanupStaleProjects(ctx, keep); err != nil {
		p.logger.Warn("stale result cleanup failed, continuing with publish", "error", err)
	}

	for _, projectID := range projects {
		doc := ProjectDocument{
			Version:     version,
			RunID:       res.RunID,
			Strategy:    res.Strategy,
			ProjectID:   projectID,
			PublishedAt: publishedAt,
			Assignments: res.AssignmentsForProject(projectID),
		}
		if err := p.put(ctx, p.ProjectKey(projectID), doc); err != nil {
			return err
		}
		p.logger.Debug("published project result", "project_id", projectID,
			"assignments", len(doc.Assignments), "version", version)
	}

	summary := SummaryDocument{
		Version:        version,
		RunID:          res.RunID,
		Strategy:       res.Strategy,
		PublishedAt:    publishedAt,
		Projects:       slices.Clone(projects),
		Warnings:       res.Warnings,
		TotalRequired:  res.TotalRequired,
		TotalAssigned:  res.TotalAssigned,
		FallbackEffort: res.FallbackEffort,
		Fitness:        res.Fitness,
		Truncated:      res.Truncated,
		Duration:       res.Duration,
	}
	if summary.Projects == nil {
		summary.Projects = []string{}
	}
	if err := p.put(ctx, p.SummaryKey(), summary); err != nil {
		return err
	}

	p.lastPublish = publishedAt
	p.logger.Info("result published",
		"version", version,
		"run_id", res.RunID,
		"projects", len(projects),
		"warnings", len(res.Warnings))

	return nil
}

func (p *KVPublisher) put(ctx context.Context, key string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %w", types.ErrPublishFailed, key, err)
	}
	if _, err := p.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("%w: put %s: %w", types.ErrPublishFailed, key, natsutil.Classify(err))
	}

	return nil
}

// ProjectKey returns the key of a project's result document.
func (p *KVPublisher) ProjectKey(projectID string) string {
	return p.keyPrefix + kvutil.SanitizeKeyToken(projectID)
}

// SummaryKey returns the key of the run summary document.
func (p *KVPublisher) SummaryKey() string {
	return p.prefix + "." + summarySegment
}

// CurrentVersion returns the version of the latest publish.
//
// Returns:
//   - int64: Current version number (0 if nothing was published or discovered)
func (p *KVPublisher) CurrentVersion() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.currentVersion
}

// LastPublishTime returns the time of the last successful publish.
func (p *KVPublisher) LastPublishTime() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.lastPublish
}

// CleanupAll removes every key under the publisher's prefix.
//
// The version counter is kept, so a later Publish still produces a higher
// version than anything published before.
func (p *KVPublisher) CleanupAll(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	keys, err := p.ownKeys(ctx)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := p.kv.Delete(ctx, key); err != nil {
			p.logger.Warn("failed to delete result key", "key", key, "error", err)
		}
	}
	p.logger.Info("cleaned up all results", "keys", len(keys))

	return nil
}
