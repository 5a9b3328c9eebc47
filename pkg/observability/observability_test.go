package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/blueprint/internal/logging"
	"github.com/aretw0/blueprint/pkg/domain"
	"github.com/aretw0/blueprint/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnGenerate(ctx, &domain.GenerationEvent{
		TemplateType: "full_body_bmf",
		Duration:     5 * time.Millisecond,
		Warnings:     []domain.Warning{{Code: domain.WarnNoSharedCandidates}, {Code: domain.WarnNoSharedCandidates}},
	})
	hooks.OnGenerate(ctx, &domain.GenerationEvent{TemplateType: "full_body_bmf", Cached: true})
	hooks.OnGenerate(ctx, &domain.GenerationEvent{TemplateType: "full_body_bmf", Err: &domain.InsufficientDataError{SessionID: "s", Clients: 1}})
	hooks.OnGenerate(ctx, &domain.GenerationEvent{Err: domain.ErrSessionNotFound})
	hooks.OnCache(ctx, &domain.CacheEvent{Result: domain.CacheHit})
	hooks.OnCache(ctx, &domain.CacheEvent{Result: domain.CacheStale})
	hooks.OnInvalidate(ctx, "s")

	expected := `
# HELP blueprint_generations_total Generation requests by template and outcome.
# TYPE blueprint_generations_total counter
blueprint_generations_total{outcome="cached",template="full_body_bmf"} 1
blueprint_generations_total{outcome="computed",template="full_body_bmf"} 1
blueprint_generations_total{outcome="invalid",template="full_body_bmf"} 1
blueprint_generations_total{outcome="not_found",template=""} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "blueprint_generations_total"))

	assert.Equal(t, 1, testutil.CollectAndCount(reg, "blueprint_generation_duration_seconds"))
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "blueprint_invalidations_total"))
	assert.Equal(t, 2, testutil.CollectAndCount(reg, "blueprint_cache_lookups_total"))

	expectedWarnings := `
# HELP blueprint_warnings_total Validation warnings attached to computed blueprints.
# TYPE blueprint_warnings_total counter
blueprint_warnings_total{code="no_shared_candidates"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expectedWarnings), "blueprint_warnings_total"))
}

func TestCombine(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnInvalidate: func(context.Context, string) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{
		OnInvalidate: func(context.Context, string) { calls = append(calls, "b") },
		OnCache:      func(context.Context, *domain.CacheEvent) { calls = append(calls, "b-cache") },
	}

	hooks := observability.Combine(a, b)
	hooks.OnInvalidate(context.Background(), "s")
	hooks.OnCache(context.Background(), &domain.CacheEvent{})
	hooks.OnGenerate(context.Background(), &domain.GenerationEvent{})

	assert.Equal(t, []string{"a", "b", "b-cache"}, calls)
}

type recordingSink struct {
	mu      sync.Mutex
	reports []domain.DiagnosticReport
	block   chan struct{}
	err     error
}

func (s *recordingSink) Record(_ context.Context, r domain.DiagnosticReport) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, r)
	return s.err
}

func TestAsyncDiagnostics_Forwards(t *testing.T) {
	sink := &recordingSink{err: errors.New("sink down")}
	async := observability.NewAsyncDiagnostics(sink, 4, nil)

	for _, id := range []string{"r1", "r2"} {
		require.NoError(t, async.Record(context.Background(), domain.DiagnosticReport{RunID: id}))
	}
	async.Close()

	require.Len(t, sink.reports, 2)
	assert.Equal(t, "r1", sink.reports[0].RunID)
	assert.Zero(t, async.Dropped())
}

func TestAsyncDiagnostics_DropsWhenFull(t *testing.T) {
	sink := &recordingSink{block: make(chan struct{})}
	async := observability.NewAsyncDiagnostics(sink, 1, nil)

	for i := 0; i < 10; i++ {
		require.NoError(t, async.Record(context.Background(), domain.DiagnosticReport{}))
	}
	assert.Positive(t, async.Dropped(), "a stuck sink must never block Record")

	close(sink.block)
	async.Close()
}

func TestLogDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	sink := observability.NewLogDiagnostics(logging.NewWithFormat(&buf, slog.LevelInfo, "json"))

	err := sink.Record(context.Background(), domain.DiagnosticReport{RunID: "run-1", SessionID: "s1", Clients: 3})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"run_id":"run-1"`)
	assert.Contains(t, buf.String(), `"clients":3`)
}
