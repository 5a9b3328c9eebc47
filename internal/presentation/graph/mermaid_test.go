package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/blueprint/internal/presentation/graph"
	"github.com/aretw0/blueprint/pkg/domain"
)

func sample() *domain.Blueprint {
	return &domain.Blueprint{
		SessionID:    "s1",
		TemplateType: "full_body_bmf",
		Blocks: []domain.BlockPlan{
			{
				Block: domain.Block{BlockDefinition: domain.BlockDefinition{ID: "round-1", Name: "Round 1"}},
				Assignments: []domain.Assignment{
					{ClientID: "ben", ExerciseID: "ex.squat", ExerciseName: "Goblet Squat"},
					{ClientID: "ana", ExerciseID: "ex.squat", ExerciseName: "Goblet Squat"},
				},
			},
			{
				Block: domain.Block{BlockDefinition: domain.BlockDefinition{ID: "final", Name: "Final \"Round\""}},
				Assignments: []domain.Assignment{
					{ClientID: "ana", ExerciseID: "plank", ExerciseName: "Plank"},
					{ClientID: "ben", ExerciseID: "dead-bug", ExerciseName: "Dead Bug"},
				},
			},
		},
	}
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		overlay  *graph.Overlay
		contains []string
		excludes []string
	}{
		{
			name: "Spine And Fan Out",
			contains: []string{
				"graph TD\n",
				"block_round_1[[\"Round 1\"]]",
				"block_round_1 ==> block_final",
				"round_1_ex_squat(\"Goblet Squat\")",
				"block_round_1 -- \"ana, ben\" --> round_1_ex_squat",
				"block_final -- \"ben\" --> final_dead_bug",
			},
		},
		{
			name:     "Quote Escaping",
			contains: []string{"block_final[[\"Final 'Round'\"]]"},
		},
		{
			name:     "Shared Style",
			contains: []string{"class round_1_ex_squat shared;"},
			excludes: []string{"class final_plank shared;", "client;"},
		},
		{
			name:    "Client Overlay",
			overlay: &graph.Overlay{ClientID: "ana"},
			contains: []string{
				"class round_1_ex_squat client;",
				"class final_plank client;",
			},
			excludes: []string{"class final_dead_bug client;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(sample(), tt.overlay)
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("expected output to contain %q, got:\n%s", s, got)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(got, s) {
					t.Errorf("expected output not to contain %q, got:\n%s", s, got)
				}
			}
		})
	}
}

func TestGenerateMermaidNil(t *testing.T) {
	if got := graph.GenerateMermaid(nil, nil); got != "graph TD\n" {
		t.Errorf("unexpected output for nil blueprint: %q", got)
	}
}
