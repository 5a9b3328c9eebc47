package engine

import (
	"fmt"

	"github.com/aretw0/blueprint/pkg/domain"
)

// assemble closes a run: it records requests that never found a slot and
// the cohesion state of every client.
func assemble(bp *domain.Blueprint, assigner *Assigner, tracker *Tracker) {
	if unplaced := assigner.Unplaced(); len(unplaced) > 0 {
		bp.UnplacedRequests = unplaced
		for _, id := range bp.ClientIDs {
			for _, req := range unplaced[id] {
				bp.ValidationWarnings = append(bp.ValidationWarnings, domain.Warning{
					Code:     domain.WarnUnplacedRequest,
					ClientID: id,
					Message:  fmt.Sprintf("Requested exercise %q could not be placed for client %s", req, id),
				})
			}
		}
	}

	bp.CohesionTracking = tracker.Report()
	for _, c := range bp.CohesionTracking {
		if c.Shortfall() > CohesionTolerance {
			bp.ValidationWarnings = append(bp.ValidationWarnings, domain.Warning{
				Code:     domain.WarnCohesionShortfall,
				ClientID: c.ClientID,
				Message:  fmt.Sprintf("Client %s has %d of %d target shared exercises", c.ClientID, c.CurrentShared, c.TargetShared),
			})
		}
	}
}
