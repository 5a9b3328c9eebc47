package domain

import (
	"fmt"
	"slices"
)

// Exercise is an immutable catalog record.
type Exercise struct {
	ID               string         `json:"id" yaml:"id" mapstructure:"id"`
	Name             string         `json:"name" yaml:"name" mapstructure:"name"`
	PrimaryMuscle    string         `json:"primary_muscle" yaml:"primary_muscle" mapstructure:"primary_muscle"`
	SecondaryMuscles []string       `json:"secondary_muscles,omitempty" yaml:"secondary_muscles,omitempty" mapstructure:"secondary_muscles"`
	MovementPattern  string         `json:"movement_pattern,omitempty" yaml:"movement_pattern,omitempty" mapstructure:"movement_pattern"`
	Modality         string         `json:"modality,omitempty" yaml:"modality,omitempty" mapstructure:"modality"`
	Equipment        []string       `json:"equipment,omitempty" yaml:"equipment,omitempty" mapstructure:"equipment"`
	ComplexityLevel  Level          `json:"complexity_level" yaml:"complexity_level" mapstructure:"complexity_level"`
	StrengthLevel    Level          `json:"strength_level" yaml:"strength_level" mapstructure:"strength_level"`
	LoadedJoints     []string       `json:"loaded_joints,omitempty" yaml:"loaded_joints,omitempty" mapstructure:"loaded_joints"`
	FunctionTags     []string       `json:"function_tags,omitempty" yaml:"function_tags,omitempty" mapstructure:"function_tags"`
	FatigueProfile   FatigueProfile `json:"fatigue_profile,omitempty" yaml:"fatigue_profile,omitempty" mapstructure:"fatigue_profile"`
}

// Validate checks the fields every stage relies on.
func (e Exercise) Validate() error {
	var errs []error
	if e.ID == "" {
		errs = append(errs, &ValidationError{Key: "id", Reason: "required"})
	}
	if e.Name == "" {
		errs = append(errs, &ValidationError{Key: "name", Reason: "required", Value: e.ID})
	}
	if e.PrimaryMuscle == "" {
		errs = append(errs, &ValidationError{Key: "primary_muscle", Reason: "required", Value: e.ID})
	}
	if !e.StrengthLevel.Valid() {
		errs = append(errs, &ValidationError{Key: "strength_level", Reason: "unknown level", Value: e.StrengthLevel})
	}
	if !e.ComplexityLevel.Valid() {
		errs = append(errs, &ValidationError{Key: "complexity_level", Reason: "unknown level", Value: e.ComplexityLevel})
	}
	return aggregate(errs)
}

// Clone returns a deep copy so callers cannot alias catalog slices.
func (e Exercise) Clone() Exercise {
	e.SecondaryMuscles = slices.Clone(e.SecondaryMuscles)
	e.Equipment = slices.Clone(e.Equipment)
	e.LoadedJoints = slices.Clone(e.LoadedJoints)
	e.FunctionTags = slices.Clone(e.FunctionTags)
	return e
}

// PartitionCatalog splits a catalog into usable records and the reasons the
// others were rejected (invalid fields or a duplicate ID; the first record wins).
func PartitionCatalog(catalog []Exercise) (valid []Exercise, rejected []error) {
	seen := make(map[string]struct{}, len(catalog))
	for _, ex := range catalog {
		if err := ex.Validate(); err != nil {
			rejected = append(rejected, fmt.Errorf("exercise %q: %w", ex.ID, err))
			continue
		}
		if _, dup := seen[ex.ID]; dup {
			rejected = append(rejected, &ValidationError{Key: "id", Reason: "duplicate exercise id", Value: ex.ID})
			continue
		}
		seen[ex.ID] = struct{}{}
		valid = append(valid, ex)
	}
	return valid, rejected
}
