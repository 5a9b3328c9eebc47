package engine

import (
	"github.com/aretw0/blueprint/pkg/domain"
	"github.com/aretw0/blueprint/pkg/normalize"
)

// FilterResult is the eligible set for one client.
type FilterResult struct {
	Eligible []domain.Exercise
	// RelaxedSteps counts how many levels the capacity band was widened.
	RelaxedSteps int
	// Exhausted is set when nothing survived even the widest band.
	Exhausted bool
}

// Filter returns the exercises a client may perform.
//
// Avoided names and exercises loading an avoided joint are always removed.
// The strength/skill band is applied next; explicitly requested exercises
// bypass it. When the band leaves nothing, it is widened one level at a time.
func Filter(catalog []domain.Exercise, client domain.ClientContext) FilterResult {
	allowed := hardFilter(catalog, client)
	include := normalize.NewSet(client.ExerciseRequests.Include...)

	strength := client.StrengthCapacity.Rank()
	skill := client.SkillCapacity.Rank()
	top := len(domain.Levels) - 1

	for step := 0; ; step++ {
		eligible := band(allowed, strength+step, skill+step, include)
		if len(eligible) > 0 || (strength+step >= top && skill+step >= top) {
			return FilterResult{
				Eligible:     eligible,
				RelaxedSteps: step,
				Exhausted:    len(eligible) == 0,
			}
		}
	}
}

// SafeSubset is the fallback list for a client whose profile could not be read:
// the easiest exercises in the catalog, still honoring avoid rules.
func SafeSubset(catalog []domain.Exercise, client domain.ClientContext) []domain.Exercise {
	limit := domain.LevelLow.Rank()
	return band(hardFilter(catalog, client), limit, limit, nil)
}

func hardFilter(catalog []domain.Exercise, client domain.ClientContext) []domain.Exercise {
	avoid := normalize.NewSet(client.ExerciseRequests.Avoid...)
	joints := normalize.TokenSet(client.AvoidJoints)

	out := make([]domain.Exercise, 0, len(catalog))
	for _, ex := range catalog {
		if avoid.Has(ex.Name) || normalize.Intersects(joints, ex.LoadedJoints) {
			continue
		}
		out = append(out, ex)
	}
	return out
}

func band(exercises []domain.Exercise, strength, skill int, include normalize.Set) []domain.Exercise {
	var out []domain.Exercise
	for _, ex := range exercises {
		if include.Has(ex.Name) ||
			(ex.StrengthLevel.Rank() <= strength && ex.ComplexityLevel.Rank() <= skill) {
			out = append(out, ex)
		}
	}
	return out
}
