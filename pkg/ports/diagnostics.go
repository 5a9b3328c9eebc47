package ports

import (
	"context"

	"github.com/aretw0/blueprint/pkg/domain"
)

// Diagnostics receives a report for every computed blueprint.
// Implementations must not rely on being called; failures never affect generation.
type Diagnostics interface {
	Record(ctx context.Context, report domain.DiagnosticReport) error
}
