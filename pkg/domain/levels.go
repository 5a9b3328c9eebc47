package domain

import (
	"fmt"

	"github.com/aretw0/blueprint/pkg/normalize"
)

// Level is a cascading capacity or difficulty level.
// A client with capacity L may perform exercises at L or any level below it.
type Level string

const (
	LevelVeryLow  Level = "very_low"
	LevelLow      Level = "low"
	LevelModerate Level = "moderate"
	LevelHigh     Level = "high"
)

// Levels lists every level in ascending order.
var Levels = []Level{LevelVeryLow, LevelLow, LevelModerate, LevelHigh}

// Rank returns the position of the level in the cascade, or -1 if unknown.
func (l Level) Rank() int {
	for i, lv := range Levels {
		if lv == l {
			return i
		}
	}
	return -1
}

// Valid reports whether the level is part of the cascade.
func (l Level) Valid() bool { return l.Rank() >= 0 }

// LevelAt returns the level at the given rank, clamped to the cascade bounds.
func LevelAt(rank int) Level {
	if rank < 0 {
		rank = 0
	}
	if rank >= len(Levels) {
		rank = len(Levels) - 1
	}
	return Levels[rank]
}

// ParseLevel accepts the canonical spelling plus common variants
// ("Very Low", "very-low").
func ParseLevel(s string) (Level, error) {
	l := Level(normalize.Token(s))
	if !l.Valid() {
		return "", fmt.Errorf("unknown level %q", s)
	}
	return l, nil
}

// Intensity is the client's preferred session intensity.
type Intensity string

const (
	IntensityLow      Intensity = "low"
	IntensityModerate Intensity = "moderate"
	IntensityHigh     Intensity = "high"
)

// Valid reports whether the intensity is known.
func (i Intensity) Valid() bool {
	switch i {
	case IntensityLow, IntensityModerate, IntensityHigh:
		return true
	}
	return false
}

// ParseIntensity accepts "medium" as an alias for moderate.
func ParseIntensity(s string) (Intensity, error) {
	tok := normalize.Token(s)
	if tok == "medium" {
		return IntensityModerate, nil
	}
	i := Intensity(tok)
	if !i.Valid() {
		return "", fmt.Errorf("unknown intensity %q", s)
	}
	return i, nil
}

// FatigueProfile classifies how an exercise taxes the body.
type FatigueProfile string

const (
	FatigueLowLocal         FatigueProfile = "low_local"
	FatigueModerateLocal    FatigueProfile = "moderate_local"
	FatigueHighLocal        FatigueProfile = "high_local"
	FatigueModerateSystemic FatigueProfile = "moderate_systemic"
	FatigueHighSystemic     FatigueProfile = "high_systemic"
	FatigueMetabolic        FatigueProfile = "metabolic"
)

// SelectionStrategy defines how a block's slots are filled.
type SelectionStrategy string

const (
	// StrategyDeterministic assigns each client its own top-ranked candidates.
	StrategyDeterministic SelectionStrategy = "deterministic"
	// StrategyRequestDriven places explicit requests and muscle targets, leaving
	// the remaining seats open for the downstream planner.
	StrategyRequestDriven SelectionStrategy = "request_driven"
)

// Valid reports whether the strategy is known.
func (s SelectionStrategy) Valid() bool {
	return s == StrategyDeterministic || s == StrategyRequestDriven
}
