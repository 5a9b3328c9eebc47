package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupContext_Validate(t *testing.T) {
	t.Run("Valid roster", func(t *testing.T) {
		g := GroupContext{SessionID: "s1", Clients: []ClientContext{{ClientID: "a"}, {ClientID: "b"}}}
		assert.NoError(t, g.Validate())
	})

	t.Run("Single client is insufficient", func(t *testing.T) {
		g := GroupContext{SessionID: "s1", Clients: []ClientContext{{ClientID: "a"}}}
		var ide *InsufficientDataError
		require.True(t, errors.As(g.Validate(), &ide))
		assert.Equal(t, 1, ide.Clients)
	})

	t.Run("Duplicate and empty IDs are validation errors", func(t *testing.T) {
		g := GroupContext{SessionID: "s1", Clients: []ClientContext{{ClientID: "a"}, {ClientID: "a"}, {}}}
		err := g.Validate()
		assert.True(t, IsValidation(err))
		assert.Len(t, ValidationErrors(err), 2)
	})

	t.Run("Missing session", func(t *testing.T) {
		assert.True(t, IsValidation(GroupContext{}.Validate()))
	})
}

func TestGroupContext_Clone(t *testing.T) {
	g := GroupContext{SessionID: "s1", Clients: []ClientContext{{ClientID: "a", MuscleTarget: []string{"chest"}}}}
	c := g.Clone()
	c.Clients[0].MuscleTarget[0] = "back"
	assert.Equal(t, "chest", g.Clients[0].MuscleTarget[0])
}

func TestTemplate_Validate(t *testing.T) {
	valid := Template{Type: "t", Blocks: []BlockDefinition{
		{ID: "A", MaxExercises: 1, SelectionStrategy: StrategyDeterministic},
	}}
	assert.NoError(t, valid.Validate())
	assert.Equal(t, 1, valid.TotalExercises())

	bad := Template{Type: "t", Blocks: []BlockDefinition{
		{ID: "A", MaxExercises: 0, SelectionStrategy: "random"},
		{ID: "A", MaxExercises: 1, SharedRatio: 2, SelectionStrategy: StrategyRequestDriven},
	}}
	err := bad.Validate()
	assert.True(t, IsValidation(err))
	assert.Len(t, ValidationErrors(err), 4)
}

func TestPartitionCatalog(t *testing.T) {
	ok := Exercise{ID: "1", Name: "Squat", PrimaryMuscle: "quads", StrengthLevel: LevelLow, ComplexityLevel: LevelLow}
	missing := Exercise{ID: "2", Name: "Mystery"}
	dup := ok
	dup.Name = "Squat Again"

	valid, rejected := PartitionCatalog([]Exercise{ok, missing, dup})
	assert.Equal(t, []Exercise{ok}, valid)
	assert.Len(t, rejected, 2)
}
