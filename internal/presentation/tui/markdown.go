// Package tui renders blueprints for terminals.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/blueprint/pkg/domain"
)

// Markdown formats a blueprint as a markdown document: one table per
// block listing each client's exercises, then cohesion and warnings.
func Markdown(bp *domain.Blueprint) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Session %s\n\n", bp.SessionID)
	fmt.Fprintf(&sb, "Template `%s` with %d clients.\n\n", bp.TemplateType, len(bp.ClientIDs))

	for _, plan := range bp.Blocks {
		name := plan.Block.Name
		if name == "" {
			name = plan.Block.ID
		}
		fmt.Fprintf(&sb, "## %s\n\n", name)
		fmt.Fprintf(&sb, "%d shared of %d seats.\n\n", plan.Block.Slots.ActualSharedAvailable, plan.Block.Slots.Total)

		sb.WriteString("| Client | Exercises |\n|---|---|\n")
		for _, id := range bp.ClientIDs {
			var picks []string
			for _, a := range plan.AssignmentsFor(id) {
				picks = append(picks, exerciseCell(a))
			}
			if open := plan.OpenSlots[id]; open > 0 {
				picks = append(picks, fmt.Sprintf("_%d open_", open))
			}
			fmt.Fprintf(&sb, "| %s | %s |\n", id, strings.Join(picks, ", "))
		}
		sb.WriteString("\n")
	}

	if len(bp.CohesionTracking) > 0 {
		sb.WriteString("## Cohesion\n\n| Client | Ratio | Shared | Status |\n|---|---|---|---|\n")
		for _, c := range bp.CohesionTracking {
			fmt.Fprintf(&sb, "| %s | %.2f | %d/%d | %s |\n", c.ClientID, c.CohesionRatio, c.CurrentShared, c.TargetShared, c.Status)
		}
		sb.WriteString("\n")
	}

	if len(bp.UnplacedRequests) > 0 {
		sb.WriteString("## Unplaced requests\n\n")
		ids := make([]string, 0, len(bp.UnplacedRequests))
		for id := range bp.UnplacedRequests {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Fprintf(&sb, "- %s: %s\n", id, strings.Join(bp.UnplacedRequests[id], ", "))
		}
		sb.WriteString("\n")
	}

	if len(bp.ValidationWarnings) > 0 {
		sb.WriteString("## Warnings\n\n")
		for _, w := range bp.ValidationWarnings {
			fmt.Fprintf(&sb, "- `%s` %s\n", w.Code, w.Message)
		}
	}
	return sb.String()
}

func exerciseCell(a domain.Assignment) string {
	switch a.Reason {
	case domain.ReasonClientRequest:
		return a.ExerciseName + " *(requested)*"
	case domain.ReasonMuscleTarget:
		return a.ExerciseName + " *(target)*"
	default:
		return a.ExerciseName
	}
}
