package normalize

// consolidated maps catalog muscle names to the muscle groups clients choose from.
var consolidated = map[string]string{
	"lats":              "back",
	"upper_back":        "back",
	"back":              "back",
	"lower_back":        "core",
	"chest":             "chest",
	"upper_chest":       "chest",
	"lower_chest":       "chest",
	"shoulders":         "shoulders",
	"delts":             "shoulders",
	"adductors":         "hips",
	"abductors":         "hips",
	"hips":              "hips",
	"core":              "core",
	"obliques":          "obliques",
	"lower_abs":         "core",
	"upper_abs":         "core",
	"biceps":            "biceps",
	"triceps":           "triceps",
	"traps":             "traps",
	"glutes":            "glutes",
	"quads":             "quads",
	"hamstrings":        "hamstrings",
	"calves":            "calves",
	"shins":             "calves",
	"tibialis_anterior": "calves",
}

// groups expands colloquial preference words into consolidated muscles.
var groups = map[string][]string{
	"legs":       {"quads", "hamstrings", "glutes", "calves"},
	"upper_body": {"chest", "back", "shoulders", "biceps", "triceps"},
	"lower_body": {"glutes", "quads", "hamstrings", "calves", "hips"},
	"arms":       {"biceps", "triceps"},
	"abs":        {"core", "obliques"},
}

// Muscle returns the consolidated group for a catalog muscle.
// Unknown muscles are returned as their Token.
func Muscle(m string) string {
	t := Token(m)
	if c, ok := consolidated[t]; ok {
		return c
	}
	return t
}

// ExpandTarget turns a client preference ("legs", "Upper Back", "glutes")
// into the consolidated muscles it covers.
func ExpandTarget(pref string) []string {
	t := Token(pref)
	if t == "" {
		return nil
	}
	if g, ok := groups[t]; ok {
		return g
	}
	// "quad", "glute" and "bicep" are common in free text.
	if _, ok := consolidated[t]; !ok {
		if _, ok := consolidated[t+"s"]; ok {
			t += "s"
		}
	}
	return []string{Muscle(t)}
}

// MatchesMuscle reports whether a catalog muscle satisfies a client preference.
func MatchesMuscle(exerciseMuscle, pref string) bool {
	if Token(exerciseMuscle) == "" {
		return false
	}
	m := Muscle(exerciseMuscle)
	for _, want := range ExpandTarget(pref) {
		if m == want {
			return true
		}
	}
	return false
}
