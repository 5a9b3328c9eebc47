package engine

import (
	"github.com/aretw0/blueprint/pkg/domain"
)

func ex(id, name, primary string, secondary []string, pattern string, tags []string, strength, complexity domain.Level, joints []string, fatigue domain.FatigueProfile) domain.Exercise {
	return domain.Exercise{
		ID:               id,
		Name:             name,
		PrimaryMuscle:    primary,
		SecondaryMuscles: secondary,
		MovementPattern:  pattern,
		FunctionTags:     tags,
		StrengthLevel:    strength,
		ComplexityLevel:  complexity,
		LoadedJoints:     joints,
		FatigueProfile:   fatigue,
	}
}

func list(v ...string) []string { return v }

// testCatalog is a small but complete catalog covering every built-in block.
func testCatalog() []domain.Exercise {
	const (
		vl = domain.LevelVeryLow
		lo = domain.LevelLow
		md = domain.LevelModerate
		hi = domain.LevelHigh
	)
	return []domain.Exercise{
		ex("ex01", "Goblet Squat", "quads", list("glutes"), "squat", list("primary_strength"), lo, lo, list("knees"), domain.FatigueModerateLocal),
		ex("ex02", "Back Squat", "quads", list("glutes", "hamstrings"), "squat", list("primary_strength"), hi, md, list("knees", "spine"), domain.FatigueHighSystemic),
		ex("ex03", "Romanian Deadlift", "hamstrings", list("glutes", "lower_back"), "hinge", list("primary_strength"), md, md, list("hips", "spine"), domain.FatigueModerateSystemic),
		ex("ex04", "Kettlebell Swing", "glutes", list("hamstrings"), "hinge", list("secondary_strength", "capacity"), lo, md, list("hips"), domain.FatigueMetabolic),
		ex("ex05", "Reverse Lunge", "quads", list("glutes"), "lunge", list("secondary_strength"), lo, lo, list("knees"), domain.FatigueModerateLocal),
		ex("ex06", "Pull-Up", "lats", list("biceps"), "vertical_pull", list("primary_strength"), hi, md, list("shoulders"), domain.FatigueModerateLocal),
		ex("ex07", "Lat Pulldown", "lats", list("biceps"), "vertical_pull", list("secondary_strength"), lo, vl, list("shoulders"), domain.FatigueLowLocal),
		ex("ex08", "Seated Cable Row", "upper_back", list("biceps"), "horizontal_pull", list("secondary_strength"), lo, vl, nil, domain.FatigueLowLocal),
		ex("ex09", "Push-Up", "chest", list("triceps", "delts"), "horizontal_push", list("secondary_strength"), lo, lo, list("wrists", "shoulders"), domain.FatigueModerateLocal),
		ex("ex10", "Dumbbell Bench Press", "chest", list("triceps"), "horizontal_push", list("primary_strength"), md, lo, list("shoulders"), domain.FatigueModerateLocal),
		ex("ex11", "Bicep Curl", "biceps", nil, "", list("accessory"), vl, vl, list("elbows"), domain.FatigueLowLocal),
		ex("ex12", "Tricep Pushdown", "triceps", nil, "", list("accessory"), vl, vl, list("elbows"), domain.FatigueLowLocal),
		ex("ex13", "Plank", "core", list("shoulders"), "core", list("core"), vl, vl, nil, domain.FatigueLowLocal),
		ex("ex14", "Dead Bug", "core", nil, "core", list("core"), vl, lo, nil, domain.FatigueLowLocal),
		ex("ex15", "Assault Bike Sprint", "quads", nil, "", list("capacity"), lo, vl, nil, domain.FatigueMetabolic),
		ex("ex16", "Calf Raise", "calves", nil, "", list("accessory"), vl, vl, list("ankles"), domain.FatigueLowLocal),
		ex("ex17", "Lateral Raise", "delts", nil, "", list("accessory"), vl, vl, list("shoulders"), domain.FatigueLowLocal),
		ex("ex18", "Hip Thrust", "glutes", list("hamstrings"), "hinge", list("secondary_strength"), md, lo, list("hips"), domain.FatigueModerateLocal),
	}
}

func client(id string, mutate ...func(*domain.ClientContext)) domain.ClientContext {
	c := domain.ClientContext{
		ClientID:         id,
		StrengthCapacity: domain.LevelModerate,
		SkillCapacity:    domain.LevelModerate,
		Intensity:        domain.IntensityModerate,
	}
	for _, m := range mutate {
		m(&c)
	}
	return c
}

func names(list []domain.ScoredExercise) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Name
	}
	return out
}

func exerciseNames(list []domain.Exercise) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Name
	}
	return out
}
