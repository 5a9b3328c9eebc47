package engine

import (
	"testing"

	"github.com/aretw0/blueprint/pkg/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func find(t *testing.T, catalog []domain.Exercise, name string) domain.Exercise {
	t.Helper()
	for _, e := range catalog {
		if e.Name == name {
			return e
		}
	}
	t.Fatalf("exercise %q not in catalog", name)
	return domain.Exercise{}
}

func TestScore_Breakdown(t *testing.T) {
	w := DefaultWeights()
	cat := testCatalog()

	tests := []struct {
		name     string
		exercise string
		client   domain.ClientContext
		want     domain.ScoreBreakdown
		score    float64
	}{
		{
			name:     "Base only",
			exercise: "Plank",
			client:   client("c1"),
			want:     domain.ScoreBreakdown{Base: 5, Total: 5},
			score:    5,
		},
		{
			name:     "Target and lessen on the same exercise",
			exercise: "Push-Up",
			client: client("c1", func(c *domain.ClientContext) {
				c.MuscleTarget = []string{"chest"}
				c.MuscleLessen = []string{"arms"}
			}),
			want:  domain.ScoreBreakdown{Base: 5, MuscleTargetBonus: 3, MuscleLessenPenalty: 1.5, Total: 6.5},
			score: 6.5,
		},
		{
			name:     "Secondary muscle match",
			exercise: "Goblet Squat",
			client: client("c1", func(c *domain.ClientContext) {
				c.MuscleTarget = []string{"glutes"}
			}),
			want:  domain.ScoreBreakdown{Base: 5, MuscleTargetBonus: 1.5, Total: 6.5},
			score: 6.5,
		},
		{
			name:     "Low intensity prefers local fatigue",
			exercise: "Lat Pulldown",
			client:   client("c1", func(c *domain.ClientContext) { c.Intensity = domain.IntensityLow }),
			want:     domain.ScoreBreakdown{Base: 5, IntensityAdjustment: 1.5, Total: 6.5},
			score:    6.5,
		},
		{
			name:     "High intensity prefers metabolic work",
			exercise: "Assault Bike Sprint",
			client:   client("c1", func(c *domain.ClientContext) { c.Intensity = domain.IntensityHigh }),
			want:     domain.ScoreBreakdown{Base: 5, IntensityAdjustment: 1.5, Total: 6.5},
			score:    6.5,
		},
		{
			name:     "Include plus targets clamps at ten",
			exercise: "Goblet Squat",
			client: client("c1", func(c *domain.ClientContext) {
				c.ExerciseRequests.Include = []string{"goblet squat"}
				c.MuscleTarget = []string{"quads", "legs"}
			}),
			want:  domain.ScoreBreakdown{Base: 5, IncludeBoost: 5, MuscleTargetBonus: 6, Total: 16},
			score: 10,
		},
		{
			name:     "Penalties clamp at zero",
			exercise: "Back Squat",
			client: client("c1", func(c *domain.ClientContext) {
				c.Intensity = domain.IntensityLow
				c.MuscleLessen = []string{"quads", "legs", "glutes"}
			}),
			want:  domain.ScoreBreakdown{Base: 5, MuscleLessenPenalty: 7.5, IntensityAdjustment: -1.5, Total: -4},
			score: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(find(t, cat, tt.exercise), tt.client, w)
			if diff := cmp.Diff(tt.want, got.Breakdown); diff != "" {
				t.Errorf("breakdown mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.score, got.Score)
		})
	}
}

func TestScore_IsPure(t *testing.T) {
	c := client("c1", func(c *domain.ClientContext) {
		c.MuscleTarget = []string{"back"}
		c.Intensity = domain.IntensityHigh
	})
	catalog := testCatalog()

	first := ScoreAll(catalog, c, DefaultWeights())
	second := ScoreAll(catalog, c, DefaultWeights())

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("scoring is not deterministic (-first +second):\n%s", diff)
	}
}

func TestScoreAll_Ordering(t *testing.T) {
	c := client("c1", func(c *domain.ClientContext) { c.MuscleTarget = []string{"core"} })
	scored := ScoreAll(testCatalog(), c, DefaultWeights())

	require.GreaterOrEqual(t, len(scored), 3)
	assert.Equal(t, []string{"Dead Bug", "Plank"}, names(scored[:2]), "ties are broken by name")
	for i := 1; i < len(scored); i++ {
		assert.GreaterOrEqual(t, scored[i-1].Score, scored[i].Score)
	}
}

func TestBlockCandidates(t *testing.T) {
	scored := ScoreNeutral(testCatalog(), DefaultWeights())

	t.Run("Tags and patterns", func(t *testing.T) {
		def := domain.BlockDefinition{
			FunctionTags:          []string{"primary_strength", "secondary_strength"},
			MovementPatternFilter: []string{"squat", "hinge", "lunge"},
		}
		assert.ElementsMatch(t, []string{
			"Back Squat", "Goblet Squat", "Hip Thrust", "Kettlebell Swing", "Reverse Lunge", "Romanian Deadlift",
		}, names(BlockCandidates(scored, def)))
	})

	t.Run("Patterns only", func(t *testing.T) {
		def := domain.BlockDefinition{MovementPatternFilter: []string{"vertical_pull", "horizontal_pull"}}
		assert.ElementsMatch(t, []string{"Lat Pulldown", "Pull-Up", "Seated Cable Row"}, names(BlockCandidates(scored, def)))
	})

	t.Run("Plural patterns", func(t *testing.T) {
		def := domain.BlockDefinition{MovementPatternFilter: []string{"Lunges", "Vertical Pulls"}}
		assert.ElementsMatch(t, []string{"Lat Pulldown", "Pull-Up", "Reverse Lunge"}, names(BlockCandidates(scored, def)))
	})

	t.Run("No filter accepts everything", func(t *testing.T) {
		assert.Len(t, BlockCandidates(scored, domain.BlockDefinition{}), len(scored))
	})
}
