package engine

import (
	"fmt"
	"slices"

	"github.com/aretw0/blueprint/pkg/domain"
	"github.com/aretw0/blueprint/pkg/normalize"
)

// Assigner carries the state shared by all blocks of one run: the
// used-exercise guard, pending include requests and uncovered muscle targets.
type Assigner struct {
	order   []string
	used    map[string]normalize.Set
	pending map[string][]string
	targets map[string][]string
}

// NewAssigner creates the assignment state for a roster.
func NewAssigner(clients []domain.ClientContext) *Assigner {
	a := &Assigner{
		used:    make(map[string]normalize.Set, len(clients)),
		pending: make(map[string][]string, len(clients)),
		targets: make(map[string][]string, len(clients)),
	}
	for _, c := range clients {
		a.order = append(a.order, c.ClientID)
		a.used[c.ClientID] = normalize.NewSet()
		seen := normalize.NewSet()
		for _, inc := range c.ExerciseRequests.Include {
			if normalize.Name(inc) == "" || seen.Has(inc) {
				continue
			}
			seen.Add(inc)
			a.pending[c.ClientID] = append(a.pending[c.ClientID], inc)
		}
		a.targets[c.ClientID] = slices.Clone(c.MuscleTarget)
	}
	return a
}

// BlockResult is what Assign produced for one block.
type BlockResult struct {
	Assignments []domain.Assignment
	OpenSlots   map[string]int
	Warnings    []domain.Warning
}

// Assign fills one block. slots.PerClient is the number of individual seats
// per client; it shrinks when a deterministic block cannot fill a client's seats.
func (a *Assigner) Assign(def domain.BlockDefinition, slots *domain.BlockSlots, candidates map[string][]domain.ScoredExercise) BlockResult {
	res := BlockResult{OpenSlots: make(map[string]int)}
	for _, id := range a.order {
		seats := slots.PerClient[id]
		if seats <= 0 {
			continue
		}
		var placed []domain.Assignment
		if def.SelectionStrategy == domain.StrategyDeterministic {
			placed = a.deterministic(id, seats, candidates[id])
			if len(placed) < seats {
				res.Warnings = append(res.Warnings, domain.Warning{
					Code:     domain.WarnAssignmentGap,
					BlockID:  def.ID,
					ClientID: id,
					Message:  fmt.Sprintf("%s: only %d of %d slot(s) could be filled for client %s", def.ID, len(placed), seats, id),
				})
				slots.PerClient[id] = len(placed)
			}
		} else {
			placed = a.requestDriven(id, seats, candidates[id])
			if open := seats - len(placed); open > 0 {
				res.OpenSlots[id] = open
			}
		}
		res.Assignments = append(res.Assignments, placed...)
	}
	return res
}

// Unplaced returns include requests that no block could place.
func (a *Assigner) Unplaced() map[string][]string {
	out := make(map[string][]string)
	for _, id := range a.order {
		if len(a.pending[id]) > 0 {
			out[id] = slices.Clone(a.pending[id])
		}
	}
	return out
}

func (a *Assigner) deterministic(clientID string, seats int, candidates []domain.ScoredExercise) []domain.Assignment {
	var out []domain.Assignment
	for _, c := range candidates {
		if len(out) == seats {
			break
		}
		if a.used[clientID].Has(c.Name) {
			continue
		}
		out = append(out, a.place(clientID, c, domain.ReasonTopScore))
	}
	return out
}

func (a *Assigner) requestDriven(clientID string, seats int, candidates []domain.ScoredExercise) []domain.Assignment {
	var out []domain.Assignment

	var deferred []string
	for _, req := range slices.Clone(a.pending[clientID]) {
		if len(out) == seats {
			deferred = append(deferred, req)
			continue
		}
		c, ok := a.findUnused(clientID, candidates, func(s domain.ScoredExercise) bool {
			return normalize.Equal(s.Name, req)
		})
		if !ok {
			deferred = append(deferred, req)
			continue
		}
		out = append(out, a.place(clientID, c, domain.ReasonClientRequest))
	}
	a.pending[clientID] = deferred

	if len(out) < seats && len(a.targets[clientID]) > 0 {
		c, ok := a.findUnused(clientID, candidates, func(s domain.ScoredExercise) bool {
			return len(coveredTargets(s.Exercise, a.targets[clientID])) > 0
		})
		if ok {
			out = append(out, a.place(clientID, c, domain.ReasonMuscleTarget))
		}
	}
	return out
}

func (a *Assigner) findUnused(clientID string, candidates []domain.ScoredExercise, match func(domain.ScoredExercise) bool) (domain.ScoredExercise, bool) {
	for _, c := range candidates {
		if !a.used[clientID].Has(c.Name) && match(c) {
			return c, true
		}
	}
	return domain.ScoredExercise{}, false
}

// place records the assignment in the used guard, settles a matching
// include request and marks the muscle targets it covers.
func (a *Assigner) place(clientID string, c domain.ScoredExercise, reason domain.AssignmentReason) domain.Assignment {
	a.used[clientID].Add(c.Name)
	if a.satisfyRequest(clientID, c.Name) {
		reason = domain.ReasonClientRequest
	}
	if covered := coveredTargets(c.Exercise, a.targets[clientID]); len(covered) > 0 {
		a.targets[clientID] = slices.DeleteFunc(a.targets[clientID], func(t string) bool {
			return slices.Contains(covered, t)
		})
	}
	return domain.Assignment{
		ClientID:     clientID,
		ExerciseID:   c.ID,
		ExerciseName: c.Name,
		Reason:       reason,
		Score:        c.Score,
	}
}

func (a *Assigner) satisfyRequest(clientID, name string) bool {
	pending := a.pending[clientID]
	i := slices.IndexFunc(pending, func(req string) bool { return normalize.Equal(req, name) })
	if i < 0 {
		return false
	}
	a.pending[clientID] = slices.Delete(pending, i, i+1)
	return true
}

func coveredTargets(ex domain.Exercise, targets []string) []string {
	var out []string
	for _, t := range targets {
		if muscleWeight(ex, t, 1, 1) > 0 {
			out = append(out, t)
		}
	}
	return out
}
