// Package graph draws blueprints as Mermaid flowcharts.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/blueprint/pkg/domain"
)

// Overlay highlights one client's path through the blueprint.
type Overlay struct {
	ClientID string
}

// GenerateMermaid produces a Mermaid flowchart of a blueprint.
// Blocks form the spine in template order; each block fans out to the
// exercises placed in it, labelled with the clients performing them.
// Exercises done by more than one client get the shared style.
func GenerateMermaid(bp *domain.Blueprint, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if bp == nil {
		return sb.String()
	}

	var shared, highlighted []string
	prev := ""
	for _, plan := range bp.Blocks {
		blockID := sanitizeMermaidID("block_" + plan.Block.ID)
		name := plan.Block.Name
		if name == "" {
			name = plan.Block.ID
		}
		sb.WriteString(fmt.Sprintf("    %s[[\"%s\"]]\n", blockID, escape(name)))
		if prev != "" {
			sb.WriteString(fmt.Sprintf("    %s ==> %s\n", prev, blockID))
		}
		prev = blockID

		// Group clients by exercise, keeping first-seen order.
		var order []string
		clients := make(map[string][]string)
		names := make(map[string]string)
		for _, a := range plan.Assignments {
			if _, ok := clients[a.ExerciseID]; !ok {
				order = append(order, a.ExerciseID)
			}
			clients[a.ExerciseID] = append(clients[a.ExerciseID], a.ClientID)
			names[a.ExerciseID] = a.ExerciseName
		}

		for _, exID := range order {
			nodeID := sanitizeMermaidID(plan.Block.ID + "_" + exID)
			who := clients[exID]
			sort.Strings(who)
			sb.WriteString(fmt.Sprintf("    %s(\"%s\")\n", nodeID, escape(names[exID])))
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", blockID, strings.Join(who, ", "), nodeID))
			if len(who) > 1 {
				shared = append(shared, nodeID)
			}
			if overlay != nil && contains(who, overlay.ClientID) {
				highlighted = append(highlighted, nodeID)
			}
		}
	}

	if len(shared) > 0 || len(highlighted) > 0 {
		sb.WriteString("\n    %% Styles\n")
		sb.WriteString("    classDef shared fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef client fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, id := range shared {
			sb.WriteString(fmt.Sprintf("    class %s shared;\n", id))
		}
		// Applied last so the client style wins over shared.
		for _, id := range highlighted {
			sb.WriteString(fmt.Sprintf("    class %s client;\n", id))
		}
	}

	return sb.String()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
