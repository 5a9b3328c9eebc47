package engine

import "github.com/aretw0/blueprint/pkg/domain"

// Weights are the scoring constants.
type Weights struct {
	Base            float64
	IncludeBoost    float64
	TargetPrimary   float64
	TargetSecondary float64
	LessenPrimary   float64
	LessenSecondary float64
	Min, Max        float64

	// Intensity maps a client's intensity and an exercise's fatigue profile
	// to a score adjustment. Missing entries adjust by zero.
	Intensity map[domain.Intensity]map[domain.FatigueProfile]float64
}

// DefaultWeights returns the production scoring constants.
func DefaultWeights() Weights {
	low := map[domain.FatigueProfile]float64{
		domain.FatigueLowLocal:         1.5,
		domain.FatigueModerateLocal:    0.75,
		domain.FatigueHighLocal:        -1.5,
		domain.FatigueModerateSystemic: -0.75,
		domain.FatigueHighSystemic:     -1.5,
		domain.FatigueMetabolic:        -1.5,
	}
	high := make(map[domain.FatigueProfile]float64, len(low))
	for k, v := range low {
		high[k] = -v
	}
	return Weights{
		Base:            5.0,
		IncludeBoost:    5.0,
		TargetPrimary:   3.0,
		TargetSecondary: 1.5,
		LessenPrimary:   3.0,
		LessenSecondary: 1.5,
		Min:             0,
		Max:             10,
		Intensity: map[domain.Intensity]map[domain.FatigueProfile]float64{
			domain.IntensityLow:  low,
			domain.IntensityHigh: high,
		},
	}
}

// Cohesion and pool constants.
const (
	DefaultCohesionWeight = 0.5
	// PoolFactor sizes each client's contribution to a block's shared pool
	// relative to the block's MaxExercises.
	PoolFactor = 1.5
	// CohesionTolerance is how many shared exercises a client may miss
	// before a cohesion warning is recorded.
	CohesionTolerance = 2
)
