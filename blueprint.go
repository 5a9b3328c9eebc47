package blueprint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aretw0/blueprint/internal/engine"
	"github.com/aretw0/blueprint/internal/logging"
	"github.com/aretw0/blueprint/pkg/domain"
	"github.com/aretw0/blueprint/pkg/ports"
	"github.com/aretw0/blueprint/pkg/session"
	"github.com/aretw0/blueprint/pkg/templates"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a cached blueprint stays valid.
const DefaultTTL = 5 * time.Minute

const tracerName = "github.com/aretw0/blueprint"

// Service is the high-level entry point: it loads rosters and catalogs,
// runs the engine and caches the result per session.
type Service struct {
	sessions    *session.Manager
	catalogs    ports.CatalogSource
	templates   ports.TemplateSource
	cache       ports.BlueprintCache
	diagnostics ports.Diagnostics
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	tracer      trace.Tracer
	ttl         time.Duration
	now         func() time.Time

	engineOpts  []engine.Option
	sessionOpts []session.Option
	pipeline    *engine.Pipeline

	flight singleflight.Group
	stats  counters
}

// Option defines a functional option for configuring the Service.
type Option func(*Service)

// WithCache enables blueprint caching.
func WithCache(cache ports.BlueprintCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithTTL sets how long cached blueprints live.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.ttl = ttl
	}
}

// WithTemplates replaces the built-in template registry.
func WithTemplates(src ports.TemplateSource) Option {
	return func(s *Service) {
		s.templates = src
	}
}

// WithDiagnostics sends a report for every computed blueprint to sink.
// The sink is called synchronously; wrap slow sinks in observability.AsyncDiagnostics.
func WithDiagnostics(sink ports.Diagnostics) Option {
	return func(s *Service) {
		s.diagnostics = sink
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Service) {
		s.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithLocker serializes session writes across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(s *Service) {
		s.sessionOpts = append(s.sessionOpts, session.WithLocker(locker))
	}
}

// WithWorkers bounds the per-client fan-out of a single run.
func WithWorkers(n int) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, engine.WithWorkers(n))
	}
}

// WithCohesionWeight sets the group-score bonus per additional sharing client.
func WithCohesionWeight(weight float64) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, engine.WithCohesionWeight(weight))
	}
}

// WithClock replaces time.Now for cache timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a Service over a roster and a catalog source.
func New(roster ports.Roster, catalogs ports.CatalogSource, opts ...Option) *Service {
	s := &Service{
		catalogs:  catalogs,
		templates: templates.NewRegistry(),
		logger:    logging.NewNop(),
		ttl:       DefaultTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}

	s.sessionOpts = append(s.sessionOpts, session.WithLogger(s.logger))
	s.sessions = session.NewManager(roster, s.sessionOpts...)
	s.pipeline = engine.New(append([]engine.Option{engine.WithLogger(s.logger)}, s.engineOpts...)...)
	return s
}

// Result is the answer to a Generate call. Coalesced callers share the same
// Blueprint value, so it must be treated as read-only.
type Result struct {
	Blueprint   *domain.Blueprint
	RunID       string
	GeneratedAt time.Time
	Cached      bool
	Shared      bool // computed by a concurrent call for the same session
}

type computed struct {
	blueprint   *domain.Blueprint
	runID       string
	generatedAt time.Time
}

// Generate returns the blueprint of a session.
//
// A cached blueprint is returned when it was computed from the current roster,
// unless force is set. Concurrent calls that loaded the same roster share one
// computation. Cache failures never fail the call.
func (s *Service) Generate(ctx context.Context, sessionID string, force bool) (res *Result, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "blueprint.Generate", trace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.Bool("force", force),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	event := &domain.GenerationEvent{SessionID: sessionID}
	defer func() {
		event.Err = err
		event.Duration = time.Since(start)
		if s.hooks.OnGenerate != nil {
			s.hooks.OnGenerate(ctx, event)
		}
	}()

	// Read before loading: a roster change between the two makes gen stale,
	// which keeps this result out of the cache.
	gen := s.sessions.Generation(sessionID)
	group, err := s.sessions.Roster().LoadGroup(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %q: %w", sessionID, err)
	}
	event.TemplateType = group.TemplateType
	event.Clients = len(group.Clients)

	fp, err := Fingerprint(group)
	if err != nil {
		return nil, err
	}

	if !force {
		if entry := s.lookup(ctx, sessionID, fp); entry != nil {
			event.Cached = true
			event.TemplateType = entry.TemplateType
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &Result{Blueprint: entry.Blueprint, GeneratedAt: entry.Timestamp, Cached: true}, nil
		}
	}

	// Callers only share a computation over the exact roster they loaded.
	key := sessionID + "@" + strconv.FormatUint(gen, 10) + "@" + fp

	// The computation outlives any single caller; each caller may still give up.
	ch := s.flight.DoChan(key, func() (any, error) {
		return s.compute(context.WithoutCancel(ctx), group, fp, gen)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		c := r.Val.(*computed)
		if r.Shared {
			s.stats.coalesced.Add(1)
		}
		event.Shared = r.Shared
		event.TemplateType = c.blueprint.TemplateType
		event.Warnings = c.blueprint.ValidationWarnings
		return &Result{Blueprint: c.blueprint, RunID: c.runID, GeneratedAt: c.generatedAt, Shared: r.Shared}, nil
	}
}

// lookup returns a cache entry matching the roster fingerprint, or nil.
func (s *Service) lookup(ctx context.Context, sessionID, fp string) *ports.CacheEntry {
	if s.cache == nil {
		return nil
	}

	result := domain.CacheHit
	defer func() {
		if s.hooks.OnCache != nil {
			s.hooks.OnCache(ctx, &domain.CacheEvent{SessionID: sessionID, Result: result})
		}
	}()

	entry, err := s.cache.Get(ctx, sessionID)
	switch {
	case errors.Is(err, domain.ErrCacheMiss):
		result = domain.CacheMiss
		s.stats.misses.Add(1)
		return nil
	case err != nil:
		result = domain.CacheError
		s.stats.errors.Add(1)
		s.logger.Warn("Blueprint cache read failed", "session_id", sessionID, "err", err)
		return nil
	case entry.Fingerprint != fp || entry.Blueprint == nil:
		result = domain.CacheStale
		s.stats.stale.Add(1)
		return nil
	}
	s.stats.hits.Add(1)
	return entry
}

func (s *Service) compute(ctx context.Context, group domain.GroupContext, fp string, gen uint64) (*computed, error) {
	ctx, span := s.tracer.Start(ctx, "blueprint.compute", trace.WithAttributes(
		attribute.Int("clients", len(group.Clients)),
	))
	defer span.End()

	start := time.Now()
	tmpl, err := s.templates.Template(group.TemplateType)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalogs.LoadCatalog(ctx, group.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("load catalog for business %q: %w", group.BusinessID, err)
	}

	bp, err := s.pipeline.Run(ctx, group, tmpl, catalog)
	if err != nil {
		return nil, err
	}
	s.stats.computed.Add(1)

	c := &computed{blueprint: bp, runID: uuid.NewString(), generatedAt: s.now()}
	span.SetAttributes(
		attribute.String("template", tmpl.Type),
		attribute.Int("warnings", len(bp.ValidationWarnings)),
	)

	s.store(ctx, group, fp, gen, c)
	s.record(ctx, group, c, time.Since(start))

	s.logger.Info("Blueprint generated",
		"session_id", group.SessionID,
		"run_id", c.runID,
		"template", tmpl.Type,
		"clients", len(group.Clients),
		"warnings", len(bp.ValidationWarnings),
	)
	return c, nil
}

// store caches a result unless the roster changed while it was computed.
func (s *Service) store(ctx context.Context, group domain.GroupContext, fp string, gen uint64, c *computed) {
	if s.cache == nil {
		return
	}
	entry := &ports.CacheEntry{
		Blueprint:    c.blueprint,
		Timestamp:    c.generatedAt,
		ClientCount:  len(group.Clients),
		TemplateType: c.blueprint.TemplateType,
		Fingerprint:  fp,
	}

	err := s.sessions.WithLock(ctx, group.SessionID, func(ctx context.Context) error {
		if s.sessions.Generation(group.SessionID) != gen {
			s.logger.Debug("Roster changed during generation, not caching", "session_id", group.SessionID)
			return nil
		}
		return s.cache.Set(ctx, group.SessionID, entry, s.ttl)
	})
	if err != nil {
		s.stats.errors.Add(1)
		s.logger.Warn("Blueprint cache write failed", "session_id", group.SessionID, "err", err)
	}
}

func (s *Service) record(ctx context.Context, group domain.GroupContext, c *computed, took time.Duration) {
	if s.diagnostics == nil {
		return
	}
	assignments := 0
	for _, b := range c.blueprint.Blocks {
		assignments += len(b.Assignments)
	}
	report := domain.DiagnosticReport{
		RunID:        c.runID,
		SessionID:    group.SessionID,
		TemplateType: c.blueprint.TemplateType,
		Clients:      len(group.Clients),
		Blocks:       len(c.blueprint.Blocks),
		Assignments:  assignments,
		Warnings:     c.blueprint.ValidationWarnings,
		Duration:     took,
		GeneratedAt:  c.generatedAt,
	}
	if err := s.diagnostics.Record(ctx, report); err != nil {
		s.logger.Warn("Diagnostics sink failed", "run_id", c.runID, "err", err)
	}
}

// UpdatePreferences changes one client's preferences and drops the session's
// cached blueprint.
func (s *Service) UpdatePreferences(ctx context.Context, sessionID, clientID string, prefs domain.Preferences) error {
	err := s.sessions.UpdatePreferences(ctx, sessionID, clientID, prefs, func(ctx context.Context) error {
		s.evict(ctx, sessionID)
		return nil
	})
	if err != nil {
		return err
	}
	if s.hooks.OnInvalidate != nil {
		s.hooks.OnInvalidate(ctx, sessionID)
	}
	return nil
}

// Invalidate drops the session's cached blueprint. In-flight computations
// for the session finish but are not cached.
func (s *Service) Invalidate(ctx context.Context, sessionID string) error {
	err := s.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s.sessions.Bump(sessionID)
		s.evict(ctx, sessionID)
		return nil
	})
	if err != nil {
		return err
	}
	if s.hooks.OnInvalidate != nil {
		s.hooks.OnInvalidate(ctx, sessionID)
	}
	return nil
}

func (s *Service) evict(ctx context.Context, sessionID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		s.stats.errors.Add(1)
		s.logger.Warn("Blueprint cache delete failed", "session_id", sessionID, "err", err)
	}
}

// Templates lists the available template types.
func (s *Service) Templates() []string {
	return s.templates.Types()
}

// Template resolves a template type; empty selects the default.
func (s *Service) Template(templateType string) (domain.Template, error) {
	return s.templates.Template(templateType)
}

// Sessions returns the session manager.
func (s *Service) Sessions() *session.Manager {
	return s.sessions
}

// Fingerprint identifies a roster. Equal rosters have equal fingerprints.
func Fingerprint(group domain.GroupContext) (string, error) {
	data, err := json.Marshal(group)
	if err != nil {
		return "", fmt.Errorf("fingerprint roster: %w", err)
	}
	return strconv.FormatUint(xxhash.Sum64(data), 16), nil
}
