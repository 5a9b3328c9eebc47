package normalize

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func loadFixture[T any](t *testing.T, path string) []T {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var cases []T
	require.NoError(t, yaml.Unmarshal(data, &cases))
	require.NotEmpty(t, cases)
	return cases
}

func TestName_Fixtures(t *testing.T) {
	type fixture struct {
		In    string `yaml:"in"`
		Name  string `yaml:"name"`
		Token string `yaml:"token"`
	}
	for _, tc := range loadFixture[fixture](t, "testdata/names.yaml") {
		t.Run(tc.In, func(t *testing.T) {
			assert.Equal(t, tc.Name, Name(tc.In))
			assert.Equal(t, tc.Token, Token(tc.In))
		})
	}
}

func TestSingular_Fixtures(t *testing.T) {
	type fixture struct {
		In   string `yaml:"in"`
		Want string `yaml:"want"`
	}
	for _, tc := range loadFixture[fixture](t, "testdata/singular.yaml") {
		t.Run(tc.In, func(t *testing.T) {
			assert.Equal(t, tc.Want, Singular(tc.In))
		})
	}
}

func TestMatchesMuscle_Fixtures(t *testing.T) {
	type fixture struct {
		Muscle string `yaml:"muscle"`
		Pref   string `yaml:"pref"`
		Match  bool   `yaml:"match"`
	}
	for _, tc := range loadFixture[fixture](t, "testdata/muscles.yaml") {
		t.Run(tc.Muscle+"_vs_"+tc.Pref, func(t *testing.T) {
			assert.Equal(t, tc.Match, MatchesMuscle(tc.Muscle, tc.Pref))
		})
	}
}

func TestExpandTarget(t *testing.T) {
	if diff := cmp.Diff([]string{"biceps", "triceps"}, ExpandTarget("Arms")); diff != "" {
		t.Errorf("ExpandTarget(Arms) mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"back"}, ExpandTarget("lats"))
	assert.Nil(t, ExpandTarget("   "))
}

func TestSet(t *testing.T) {
	s := NewSet("Goblet Squat", "")
	assert.True(t, s.Has("goblet squat"))
	assert.True(t, s.Has(" GOBLET  SQUAT"))
	assert.False(t, s.Has("Goblet Squats"))
	assert.Len(t, s, 1)
}

func TestIntersects(t *testing.T) {
	avoid := TokenSet([]string{"Knees", "lower back"})
	assert.True(t, Intersects(avoid, []string{"shoulders", "knees"}))
	assert.True(t, Intersects(avoid, []string{"lower_back"}))
	assert.False(t, Intersects(avoid, []string{"wrists"}))
	assert.False(t, Intersects(avoid, nil))
}

func TestCategorySet(t *testing.T) {
	patterns := CategorySet([]string{"Lunges", "horizontal pulls", "press"})
	assert.True(t, HasCategory(patterns, "lunge"))
	assert.True(t, HasCategory(patterns, "horizontal_pull"))
	assert.True(t, HasCategory(patterns, "Press"))
	assert.False(t, HasCategory(patterns, "squat"))
	assert.False(t, HasCategory(patterns))
}
