package observability

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/aretw0/blueprint/internal/logging"
	"github.com/aretw0/blueprint/pkg/domain"
	"github.com/aretw0/blueprint/pkg/ports"
)

// LogDiagnostics writes reports to a structured logger.
type LogDiagnostics struct {
	logger *slog.Logger
}

// NewLogDiagnostics creates a diagnostics sink over logger.
func NewLogDiagnostics(logger *slog.Logger) *LogDiagnostics {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LogDiagnostics{logger: logger}
}

// Record implements ports.Diagnostics.
func (d *LogDiagnostics) Record(ctx context.Context, r domain.DiagnosticReport) error {
	d.logger.InfoContext(ctx, "blueprint diagnostics",
		"run_id", r.RunID,
		"session_id", r.SessionID,
		"template", r.TemplateType,
		"clients", r.Clients,
		"blocks", r.Blocks,
		"assignments", r.Assignments,
		"warnings", len(r.Warnings),
		"duration", r.Duration,
	)
	return nil
}

// AsyncDiagnostics forwards reports to another sink on a background goroutine.
// Record never blocks: when the buffer is full the report is dropped.
type AsyncDiagnostics struct {
	next    ports.Diagnostics
	logger  *slog.Logger
	queue   chan domain.DiagnosticReport
	dropped atomic.Int64

	closeOnce sync.Once
	done      chan struct{}
}

// NewAsyncDiagnostics starts the forwarding goroutine. Call Close to stop it.
func NewAsyncDiagnostics(next ports.Diagnostics, buffer int, logger *slog.Logger) *AsyncDiagnostics {
	if buffer <= 0 {
		buffer = 64
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	a := &AsyncDiagnostics{
		next:   next,
		logger: logger,
		queue:  make(chan domain.DiagnosticReport, buffer),
		done:   make(chan struct{}),
	}
	go a.loop()
	return a
}

func (a *AsyncDiagnostics) loop() {
	defer close(a.done)
	for r := range a.queue {
		if err := a.next.Record(context.Background(), r); err != nil {
			a.logger.Warn("diagnostics sink failed", "run_id", r.RunID, "err", err)
		}
	}
}

// Record implements ports.Diagnostics.
func (a *AsyncDiagnostics) Record(_ context.Context, r domain.DiagnosticReport) error {
	select {
	case a.queue <- r:
	default:
		a.dropped.Add(1)
	}
	return nil
}

// Dropped counts reports discarded because the buffer was full.
func (a *AsyncDiagnostics) Dropped() int64 {
	return a.dropped.Load()
}

// Close drains the queue and stops the goroutine. Record must not be called afterwards.
func (a *AsyncDiagnostics) Close() {
	a.closeOnce.Do(func() { close(a.queue) })
	<-a.done
}
