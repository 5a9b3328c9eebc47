// Package memory provides in-process adapters for the blueprint ports.
// They back tests, the CLI and single-replica deployments.
package memory
