/*
Package observability watches the blueprint service from the outside.

Metrics turns lifecycle hooks into Prometheus series. LogDiagnostics and
AsyncDiagnostics receive the per-run diagnostic report.
*/
package observability
