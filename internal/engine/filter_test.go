package engine

import (
	"testing"

	"github.com/aretw0/blueprint/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestFilter_CapacityCascade(t *testing.T) {
	c := client("c1", func(c *domain.ClientContext) {
		c.StrengthCapacity = domain.LevelLow
		c.SkillCapacity = domain.LevelLow
	})

	res := Filter(testCatalog(), c)

	assert.Zero(t, res.RelaxedSteps)
	for _, e := range res.Eligible {
		assert.LessOrEqual(t, e.StrengthLevel.Rank(), domain.LevelLow.Rank(), e.Name)
		assert.LessOrEqual(t, e.ComplexityLevel.Rank(), domain.LevelLow.Rank(), e.Name)
	}
	assert.Contains(t, exerciseNames(res.Eligible), "Goblet Squat")
	assert.Contains(t, exerciseNames(res.Eligible), "Plank", "lower levels cascade into a higher capacity")
	assert.NotContains(t, exerciseNames(res.Eligible), "Kettlebell Swing", "moderate complexity is above a low skill band")
}

func TestFilter_AvoidRules(t *testing.T) {
	c := client("c1", func(c *domain.ClientContext) {
		c.AvoidJoints = []string{"Knees"}
		c.ExerciseRequests.Avoid = []string{"plank"}
	})

	got := exerciseNames(Filter(testCatalog(), c).Eligible)

	assert.NotContains(t, got, "Goblet Squat")
	assert.NotContains(t, got, "Reverse Lunge")
	assert.NotContains(t, got, "Plank")
	assert.Contains(t, got, "Dead Bug")
}

func TestFilter_IncludeBypassesBandOnly(t *testing.T) {
	t.Run("Include overrides capacity", func(t *testing.T) {
		c := client("c1", func(c *domain.ClientContext) {
			c.StrengthCapacity = domain.LevelLow
			c.ExerciseRequests.Include = []string{"back squat"}
		})
		assert.Contains(t, exerciseNames(Filter(testCatalog(), c).Eligible), "Back Squat")
	})

	t.Run("Avoided joint beats include", func(t *testing.T) {
		c := client("c1", func(c *domain.ClientContext) {
			c.AvoidJoints = []string{"spine"}
			c.ExerciseRequests.Include = []string{"Back Squat"}
		})
		assert.NotContains(t, exerciseNames(Filter(testCatalog(), c).Eligible), "Back Squat")
	})

	t.Run("Avoided name beats include", func(t *testing.T) {
		c := client("c1", func(c *domain.ClientContext) {
			c.ExerciseRequests.Include = []string{"Plank"}
			c.ExerciseRequests.Avoid = []string{"PLANK"}
		})
		assert.NotContains(t, exerciseNames(Filter(testCatalog(), c).Eligible), "Plank")
	})
}

func TestFilter_Relaxation(t *testing.T) {
	catalog := []domain.Exercise{
		ex("m1", "Front Squat", "quads", nil, "squat", nil, domain.LevelModerate, domain.LevelModerate, nil, ""),
		ex("h1", "Snatch", "quads", nil, "hinge", nil, domain.LevelHigh, domain.LevelHigh, nil, ""),
	}
	c := client("c1", func(c *domain.ClientContext) {
		c.StrengthCapacity = domain.LevelVeryLow
		c.SkillCapacity = domain.LevelVeryLow
	})

	res := Filter(catalog, c)

	assert.Equal(t, 2, res.RelaxedSteps)
	assert.False(t, res.Exhausted)
	assert.Equal(t, []string{"Front Squat"}, exerciseNames(res.Eligible))
}

func TestFilter_Exhausted(t *testing.T) {
	catalog := []domain.Exercise{
		ex("k1", "Box Jump", "quads", nil, "jump", nil, domain.LevelLow, domain.LevelLow, list("knees"), ""),
	}
	c := client("c1", func(c *domain.ClientContext) { c.AvoidJoints = []string{"knees"} })

	res := Filter(catalog, c)

	assert.True(t, res.Exhausted)
	assert.Empty(t, res.Eligible)
}

func TestSafeSubset(t *testing.T) {
	c := client("c1", func(c *domain.ClientContext) {
		c.StrengthCapacity = "elite"
		c.AvoidJoints = []string{"elbows"}
	})

	got := SafeSubset(testCatalog(), c)

	assert.NotEmpty(t, got)
	for _, e := range got {
		assert.LessOrEqual(t, e.StrengthLevel.Rank(), domain.LevelLow.Rank())
		assert.LessOrEqual(t, e.ComplexityLevel.Rank(), domain.LevelLow.Rank())
		assert.NotContains(t, e.LoadedJoints, "elbows")
	}
}
