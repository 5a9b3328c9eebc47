package domain

import "fmt"

// BlockDefinition is the static description of one round in a template.
type BlockDefinition struct {
	ID                    string            `json:"id" yaml:"id"`
	Name                  string            `json:"name" yaml:"name"`
	FunctionTags          []string          `json:"function_tags,omitempty" yaml:"function_tags,omitempty"`
	MovementPatternFilter []string          `json:"movement_pattern_filter,omitempty" yaml:"movement_pattern_filter,omitempty"`
	MaxExercises          int               `json:"max_exercises" yaml:"max_exercises"`
	SharedRatio           float64           `json:"shared_ratio" yaml:"shared_ratio"`
	SelectionStrategy     SelectionStrategy `json:"selection_strategy" yaml:"selection_strategy"`

	// CandidateCount caps the individual candidates exposed per client. Zero exposes all.
	CandidateCount int `json:"candidate_count,omitempty" yaml:"candidate_count,omitempty"`
}

// Template is an ordered list of blocks for a template type.
type Template struct {
	Type        string            `json:"type" yaml:"type"`
	Name        string            `json:"name,omitempty" yaml:"name,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Blocks      []BlockDefinition `json:"blocks" yaml:"blocks"`
}

// Validate checks block invariants and ID uniqueness.
func (t Template) Validate() error {
	var errs []error
	if t.Type == "" {
		errs = append(errs, &ValidationError{Key: "type", Reason: "required"})
	}
	if len(t.Blocks) == 0 {
		errs = append(errs, &ValidationError{Key: "blocks", Reason: "at least one block is required", Value: t.Type})
	}
	seen := make(map[string]struct{}, len(t.Blocks))
	for i, b := range t.Blocks {
		key := fmt.Sprintf("blocks[%d]", i)
		if b.ID == "" {
			errs = append(errs, &ValidationError{Key: key + ".id", Reason: "required"})
		}
		if _, dup := seen[b.ID]; dup {
			errs = append(errs, &ValidationError{Key: key + ".id", Reason: "duplicate block id", Value: b.ID})
		}
		seen[b.ID] = struct{}{}
		if b.MaxExercises < 1 {
			errs = append(errs, &ValidationError{Key: key + ".max_exercises", Reason: "must be at least 1", Value: b.MaxExercises})
		}
		if b.SharedRatio < 0 || b.SharedRatio > 1 {
			errs = append(errs, &ValidationError{Key: key + ".shared_ratio", Reason: "must be within [0, 1]", Value: b.SharedRatio})
		}
		if !b.SelectionStrategy.Valid() {
			errs = append(errs, &ValidationError{Key: key + ".selection_strategy", Reason: "unknown strategy", Value: b.SelectionStrategy})
		}
		if b.CandidateCount < 0 {
			errs = append(errs, &ValidationError{Key: key + ".candidate_count", Reason: "must not be negative", Value: b.CandidateCount})
		}
	}
	return aggregate(errs)
}

// TotalExercises is the number of exercises one client performs across all blocks.
func (t Template) TotalExercises() int {
	n := 0
	for _, b := range t.Blocks {
		n += b.MaxExercises
	}
	return n
}
