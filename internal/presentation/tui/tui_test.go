package tui

import (
	"bytes"
	"testing"

	"github.com/aretw0/blueprint/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown(t *testing.T) {
	bp := &domain.Blueprint{
		SessionID:    "tuesday-6am",
		TemplateType: "full_body_bmf",
		ClientIDs:    []string{"ana", "ben"},
		Blocks: []domain.BlockPlan{{
			Block: domain.Block{
				BlockDefinition: domain.BlockDefinition{ID: "round1", Name: "Round 1"},
				Slots:           domain.BlockSlots{Total: 4, ActualSharedAvailable: 1},
			},
			Assignments: []domain.Assignment{
				{ClientID: "ana", ExerciseName: "Push-Up", Reason: domain.ReasonClientRequest},
				{ClientID: "ana", ExerciseName: "Squat", Reason: domain.ReasonTopScore},
				{ClientID: "ben", ExerciseName: "Squat", Reason: domain.ReasonTopScore},
			},
			OpenSlots: map[string]int{"ben": 1},
		}},
		CohesionTracking: []domain.ClientCohesion{
			{ClientID: "ana", CohesionRatio: 0.5, TargetShared: 2, CurrentShared: 1, Status: domain.CohesionNeedsMore},
		},
		UnplacedRequests: map[string][]string{"ben": {"Plank"}},
		ValidationWarnings: []domain.Warning{
			{Code: domain.WarnAssignmentGap, Message: "ben has 1 open slot"},
		},
	}

	md := Markdown(bp)
	assert.Contains(t, md, "# Session tuesday-6am")
	assert.Contains(t, md, "## Round 1")
	assert.Contains(t, md, "| ana | Push-Up *(requested)*, Squat |")
	assert.Contains(t, md, "| ben | Squat, _1 open_ |")
	assert.Contains(t, md, "| ana | 0.50 | 1/2 | needs_more |")
	assert.Contains(t, md, "- ben: Plank")
	assert.Contains(t, md, "- `assignment_gap` ben has 1 open slot")
}

func TestRenderer(t *testing.T) {
	render, err := NewRenderer(80)
	require.NoError(t, err)
	out, err := render("# Hello")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "v1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
}
