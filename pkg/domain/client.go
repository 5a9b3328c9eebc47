package domain

import (
	"fmt"
	"slices"
)

// Client defaults used when a record leaves a field empty.
const (
	DefaultCapacity      = LevelModerate
	DefaultIntensity     = IntensityModerate
	DefaultSets          = 10
	DefaultCohesionRatio = 0.5
)

// ExerciseRequests holds explicit exercise names a client asked for or against.
type ExerciseRequests struct {
	Include []string `json:"include,omitempty" yaml:"include,omitempty" mapstructure:"include"`
	Avoid   []string `json:"avoid,omitempty" yaml:"avoid,omitempty" mapstructure:"avoid"`
}

// ClientContext is the per-run view of one checked-in client.
type ClientContext struct {
	ClientID         string           `json:"client_id" yaml:"client_id" mapstructure:"client_id"`
	Name             string           `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	StrengthCapacity Level            `json:"strength_capacity" yaml:"strength_capacity" mapstructure:"strength_capacity"`
	SkillCapacity    Level            `json:"skill_capacity" yaml:"skill_capacity" mapstructure:"skill_capacity"`
	PrimaryGoal      string           `json:"primary_goal,omitempty" yaml:"primary_goal,omitempty" mapstructure:"primary_goal"`
	Intensity        Intensity        `json:"intensity" yaml:"intensity" mapstructure:"intensity"`
	MuscleTarget     []string         `json:"muscle_target,omitempty" yaml:"muscle_target,omitempty" mapstructure:"muscle_target"`
	MuscleLessen     []string         `json:"muscle_lessen,omitempty" yaml:"muscle_lessen,omitempty" mapstructure:"muscle_lessen"`
	ExerciseRequests ExerciseRequests `json:"exercise_requests" yaml:"exercise_requests" mapstructure:"exercise_requests"`
	AvoidJoints      []string         `json:"avoid_joints,omitempty" yaml:"avoid_joints,omitempty" mapstructure:"avoid_joints"`
	DefaultSets      int              `json:"default_sets,omitempty" yaml:"default_sets,omitempty" mapstructure:"default_sets"`

	// CohesionRatio is the share of the workout this client should do with
	// the group. Zero selects DefaultCohesionRatio.
	CohesionRatio float64 `json:"cohesion_ratio,omitempty" yaml:"cohesion_ratio,omitempty" mapstructure:"cohesion_ratio"`
}

// WithDefaults returns a copy with empty fields set to the client defaults.
// Unknown values are left untouched so CheckProfile can report them.
func (c ClientContext) WithDefaults() ClientContext {
	if c.StrengthCapacity == "" {
		c.StrengthCapacity = DefaultCapacity
	}
	if c.SkillCapacity == "" {
		c.SkillCapacity = DefaultCapacity
	}
	if c.Intensity == "" {
		c.Intensity = DefaultIntensity
	}
	if c.DefaultSets == 0 {
		c.DefaultSets = DefaultSets
	}
	if c.CohesionRatio == 0 {
		c.CohesionRatio = DefaultCohesionRatio
	}
	return c
}

// CheckProfile validates the profile fields the filter and scorer depend on.
// A failing profile degrades that client only; the rest of the group is still planned.
func (c ClientContext) CheckProfile() error {
	var errs []error
	if !c.StrengthCapacity.Valid() {
		errs = append(errs, &ValidationError{Key: "strength_capacity", Reason: "unknown level", Value: c.StrengthCapacity})
	}
	if !c.SkillCapacity.Valid() {
		errs = append(errs, &ValidationError{Key: "skill_capacity", Reason: "unknown level", Value: c.SkillCapacity})
	}
	if !c.Intensity.Valid() {
		errs = append(errs, &ValidationError{Key: "intensity", Reason: "unknown intensity", Value: c.Intensity})
	}
	if c.CohesionRatio < 0 || c.CohesionRatio > 1 {
		errs = append(errs, &ValidationError{Key: "cohesion_ratio", Reason: "must be within [0, 1]", Value: c.CohesionRatio})
	}
	if c.DefaultSets < 0 {
		errs = append(errs, &ValidationError{Key: "default_sets", Reason: "must not be negative", Value: c.DefaultSets})
	}
	if err := aggregate(errs); err != nil {
		return fmt.Errorf("client %q: %w", c.ClientID, err)
	}
	return nil
}

// Preferences is the mutable part of a ClientContext, updated between generations.
// Nil slices and empty strings leave the current value in place.
type Preferences struct {
	Intensity    Intensity         `json:"intensity,omitempty" mapstructure:"intensity"`
	PrimaryGoal  string            `json:"primary_goal,omitempty" mapstructure:"primary_goal"`
	MuscleTarget []string          `json:"muscle_target,omitempty" mapstructure:"muscle_target"`
	MuscleLessen []string          `json:"muscle_lessen,omitempty" mapstructure:"muscle_lessen"`
	Requests     *ExerciseRequests `json:"exercise_requests,omitempty" mapstructure:"exercise_requests"`
	AvoidJoints  []string          `json:"avoid_joints,omitempty" mapstructure:"avoid_joints"`
}

// Validate rejects preference values that could never be applied.
func (p Preferences) Validate() error {
	if p.Intensity != "" && !p.Intensity.Valid() {
		return &ValidationError{Key: "intensity", Reason: "unknown intensity", Value: p.Intensity}
	}
	return nil
}

// Apply returns a copy of the client with the preferences merged in.
func (c ClientContext) Apply(p Preferences) ClientContext {
	if p.Intensity != "" {
		c.Intensity = p.Intensity
	}
	if p.PrimaryGoal != "" {
		c.PrimaryGoal = p.PrimaryGoal
	}
	if p.MuscleTarget != nil {
		c.MuscleTarget = slices.Clone(p.MuscleTarget)
	}
	if p.MuscleLessen != nil {
		c.MuscleLessen = slices.Clone(p.MuscleLessen)
	}
	if p.Requests != nil {
		c.ExerciseRequests = ExerciseRequests{
			Include: slices.Clone(p.Requests.Include),
			Avoid:   slices.Clone(p.Requests.Avoid),
		}
	}
	if p.AvoidJoints != nil {
		c.AvoidJoints = slices.Clone(p.AvoidJoints)
	}
	return c
}

// Clone returns a deep copy of the client.
func (c ClientContext) Clone() ClientContext {
	c.MuscleTarget = slices.Clone(c.MuscleTarget)
	c.MuscleLessen = slices.Clone(c.MuscleLessen)
	c.AvoidJoints = slices.Clone(c.AvoidJoints)
	c.ExerciseRequests.Include = slices.Clone(c.ExerciseRequests.Include)
	c.ExerciseRequests.Avoid = slices.Clone(c.ExerciseRequests.Avoid)
	return c
}
