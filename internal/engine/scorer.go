package engine

import (
	"cmp"
	"slices"

	"github.com/aretw0/blueprint/pkg/domain"
	"github.com/aretw0/blueprint/pkg/normalize"
)

// Score ranks one exercise for one client. It is a pure function of its inputs.
func Score(ex domain.Exercise, client domain.ClientContext, w Weights) domain.ScoredExercise {
	b := domain.ScoreBreakdown{Base: w.Base}

	for _, inc := range client.ExerciseRequests.Include {
		if normalize.Equal(inc, ex.Name) {
			b.IncludeBoost = w.IncludeBoost
			break
		}
	}
	for _, target := range client.MuscleTarget {
		b.MuscleTargetBonus += muscleWeight(ex, target, w.TargetPrimary, w.TargetSecondary)
	}
	for _, lessen := range client.MuscleLessen {
		b.MuscleLessenPenalty += muscleWeight(ex, lessen, w.LessenPrimary, w.LessenSecondary)
	}
	b.IntensityAdjustment = w.Intensity[client.Intensity][ex.FatigueProfile]

	b.Total = b.Base + b.IncludeBoost + b.MuscleTargetBonus - b.MuscleLessenPenalty + b.IntensityAdjustment
	return domain.ScoredExercise{
		Exercise:  ex,
		Score:     min(max(b.Total, w.Min), w.Max),
		Breakdown: b,
	}
}

// muscleWeight returns primary if the exercise's primary muscle matches the
// preference, secondary if only a secondary muscle does, zero otherwise.
func muscleWeight(ex domain.Exercise, pref string, primary, secondary float64) float64 {
	if normalize.MatchesMuscle(ex.PrimaryMuscle, pref) {
		return primary
	}
	for _, m := range ex.SecondaryMuscles {
		if normalize.MatchesMuscle(m, pref) {
			return secondary
		}
	}
	return 0
}

// ScoreAll scores and ranks the eligible exercises for a client.
func ScoreAll(eligible []domain.Exercise, client domain.ClientContext, w Weights) []domain.ScoredExercise {
	out := make([]domain.ScoredExercise, len(eligible))
	for i, ex := range eligible {
		out[i] = Score(ex, client, w)
	}
	SortScored(out)
	return out
}

// ScoreNeutral ranks exercises on the base score only.
func ScoreNeutral(exercises []domain.Exercise, w Weights) []domain.ScoredExercise {
	out := make([]domain.ScoredExercise, len(exercises))
	for i, ex := range exercises {
		out[i] = domain.ScoredExercise{
			Exercise:  ex,
			Score:     w.Base,
			Breakdown: domain.ScoreBreakdown{Base: w.Base, Total: w.Base},
		}
	}
	SortScored(out)
	return out
}

// SortScored orders by score descending, then name ascending.
func SortScored(list []domain.ScoredExercise) {
	slices.SortStableFunc(list, func(a, b domain.ScoredExercise) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(normalize.Name(a.Name), normalize.Name(b.Name)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// BlockCandidates narrows a ranked list to the exercises a block accepts.
// An empty tag or pattern filter accepts everything. Patterns compare by
// category, so a "lunges" filter accepts a "lunge" exercise.
func BlockCandidates(scored []domain.ScoredExercise, def domain.BlockDefinition) []domain.ScoredExercise {
	tags := normalize.TokenSet(def.FunctionTags)
	patterns := normalize.CategorySet(def.MovementPatternFilter)

	out := make([]domain.ScoredExercise, 0, len(scored))
	for _, s := range scored {
		if len(tags) > 0 && !normalize.Intersects(tags, s.FunctionTags) {
			continue
		}
		if len(patterns) > 0 && !normalize.HasCategory(patterns, s.MovementPattern) {
			continue
		}
		out = append(out, s)
	}
	return out
}
