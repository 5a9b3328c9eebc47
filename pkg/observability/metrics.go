// Package observability turns service lifecycle events into Prometheus
// metrics and diagnostic records.
package observability

import (
	"context"
	"errors"

	"github.com/aretw0/blueprint/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	generations   *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	warnings      *prometheus.CounterVec
	cache         *prometheus.CounterVec
	invalidations prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blueprint_generations_total",
			Help: "Generation requests by template and outcome.",
		}, []string{"template", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blueprint_generation_duration_seconds",
			Help:    "Time spent computing blueprints.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"template"}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blueprint_warnings_total",
			Help: "Validation warnings attached to computed blueprints.",
		}, []string{"code"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blueprint_cache_lookups_total",
			Help: "Blueprint cache lookups by result.",
		}, []string{"result"}),
		invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blueprint_invalidations_total",
			Help: "Explicit and preference-driven cache invalidations.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.generations, m.duration, m.warnings, m.cache, m.invalidations)
	}
	return m
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGenerate: func(_ context.Context, e *domain.GenerationEvent) {
			m.generations.WithLabelValues(e.TemplateType, outcome(e)).Inc()
			if e.Err != nil || e.Cached || e.Shared {
				return
			}
			m.duration.WithLabelValues(e.TemplateType).Observe(e.Duration.Seconds())
			for _, w := range e.Warnings {
				m.warnings.WithLabelValues(string(w.Code)).Inc()
			}
		},
		OnCache: func(_ context.Context, e *domain.CacheEvent) {
			m.cache.WithLabelValues(string(e.Result)).Inc()
		},
		OnInvalidate: func(context.Context, string) {
			m.invalidations.Inc()
		},
	}
}

func outcome(e *domain.GenerationEvent) string {
	switch {
	case e.Err == nil && e.Cached:
		return "cached"
	case e.Err == nil && e.Shared:
		return "shared"
	case e.Err == nil:
		return "computed"
	case domain.IsValidation(e.Err):
		return "invalid"
	case errors.Is(e.Err, domain.ErrSessionNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// Combine fans every event out to all the given hooks, in order.
func Combine(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGenerate: func(ctx context.Context, e *domain.GenerationEvent) {
			for _, h := range all {
				if h.OnGenerate != nil {
					h.OnGenerate(ctx, e)
				}
			}
		},
		OnCache: func(ctx context.Context, e *domain.CacheEvent) {
			for _, h := range all {
				if h.OnCache != nil {
					h.OnCache(ctx, e)
				}
			}
		},
		OnInvalidate: func(ctx context.Context, sessionID string) {
			for _, h := range all {
				if h.OnInvalidate != nil {
					h.OnInvalidate(ctx, sessionID)
				}
			}
		},
	}
}
