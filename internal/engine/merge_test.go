package engine

import (
	"testing"

	"github.com/aretw0/blueprint/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(id, name string, score float64) domain.ScoredExercise {
	return domain.ScoredExercise{Exercise: domain.Exercise{ID: id, Name: name}, Score: score}
}

func TestMerge_SharedByWholeGroup(t *testing.T) {
	inputs := []ClientCandidates{
		{ClientID: "a", Candidates: []domain.ScoredExercise{scored("x", "Row", 8), scored("y", "Plank", 6)}},
		{ClientID: "b", Candidates: []domain.ScoredExercise{scored("x", "Row", 6), scored("z", "Curl", 5)}},
		{ClientID: "c", Candidates: []domain.ScoredExercise{scored("x", "Row", 7)}},
	}

	shared, analysis := Merge(inputs, 2, 0.5)

	require.Len(t, shared, 1)
	row := shared[0]
	assert.Equal(t, []string{"a", "b", "c"}, row.ClientsSharing)
	assert.Equal(t, 1.0, row.CohesionBonus)
	assert.InDelta(t, 7.0, row.AverageScore, 1e-9)
	assert.InDelta(t, 8.0, row.GroupScore, 1e-9)
	assert.Len(t, row.ClientScores, 3)
	assert.Equal(t, 1, analysis.FullGroup)
}

func TestMerge_AverageOverHoldersOnly(t *testing.T) {
	inputs := []ClientCandidates{
		{ClientID: "a", Candidates: []domain.ScoredExercise{scored("x", "Row", 9)}},
		{ClientID: "b", Candidates: []domain.ScoredExercise{scored("x", "Row", 5)}},
		{ClientID: "c", Candidates: []domain.ScoredExercise{scored("q", "Squat", 9)}},
	}

	shared, analysis := Merge(inputs, 1, 0.5)

	require.Len(t, shared, 1)
	assert.InDelta(t, 7.0, shared[0].AverageScore, 1e-9)
	assert.Equal(t, 0.5, shared[0].CohesionBonus)
	assert.False(t, shared[0].ClientScores[2].HasExercise)
	assert.Zero(t, shared[0].ClientScores[2].IndividualScore)
	assert.Equal(t, 1, analysis.Majority)
}

func TestMerge_PoolSizeLimitsContribution(t *testing.T) {
	inputs := []ClientCandidates{
		{ClientID: "a", Candidates: []domain.ScoredExercise{scored("x", "Row", 9), scored("y", "Plank", 8)}},
		{ClientID: "b", Candidates: []domain.ScoredExercise{scored("z", "Curl", 9), scored("y", "Plank", 8)}},
	}

	shared, _ := Merge(inputs, 1, 0.5)
	assert.Empty(t, shared, "Plank is outside both top-1 pools")

	shared, _ = Merge(inputs, 2, 0.5)
	require.Len(t, shared, 1)
	assert.Equal(t, "Plank", shared[0].Name)
}

func TestMerge_Ordering(t *testing.T) {
	inputs := []ClientCandidates{
		{ClientID: "a", Candidates: []domain.ScoredExercise{scored("1", "Bravo", 6), scored("2", "Alpha", 6), scored("3", "Charlie", 9)}},
		{ClientID: "b", Candidates: []domain.ScoredExercise{scored("1", "Bravo", 6), scored("2", "Alpha", 6), scored("3", "Charlie", 9)}},
	}

	shared, analysis := Merge(inputs, 3, 0.5)

	require.Len(t, shared, 3)
	assert.Equal(t, []string{"Charlie", "Alpha", "Bravo"}, []string{shared[0].Name, shared[1].Name, shared[2].Name})
	for _, g := range shared {
		assert.GreaterOrEqual(t, len(g.ClientsSharing), 2, "cohesion bonus requires at least two holders")
	}
	assert.Equal(t, 1.0, analysis.Score)
}

func TestMerge_Empty(t *testing.T) {
	shared, analysis := Merge(nil, 2, 0.5)
	assert.Empty(t, shared)
	assert.Zero(t, analysis)
}

func TestPoolSize(t *testing.T) {
	assert.Equal(t, 2, PoolSize(1))
	assert.Equal(t, 3, PoolSize(2))
	assert.Equal(t, 8, PoolSize(5))
}
