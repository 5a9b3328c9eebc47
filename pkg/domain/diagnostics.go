package domain

import "time"

// DiagnosticReport is the optional record emitted after each computed run.
type DiagnosticReport struct {
	RunID        string        `json:"run_id"`
	SessionID    string        `json:"session_id"`
	TemplateType string        `json:"template_type"`
	Clients      int           `json:"clients"`
	Blocks       int           `json:"blocks"`
	Assignments  int           `json:"assignments"`
	Warnings     []Warning     `json:"warnings,omitempty"`
	Duration     time.Duration `json:"duration"`
	GeneratedAt  time.Time     `json:"generated_at"`
}
