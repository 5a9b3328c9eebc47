package engine

import (
	"math"

	"github.com/aretw0/blueprint/pkg/domain"
)

// Tracker follows each client's progress toward its shared-exercise target
// across the blocks of one run. It only biases allocation; targets are not guaranteed.
type Tracker struct {
	order   []string
	ratio   map[string]float64
	target  map[string]int
	current map[string]int
}

// NewTracker creates a tracker for the given clients.
// totalExercises is the number of exercises one client performs in the template.
func NewTracker(clients []domain.ClientContext, totalExercises int) *Tracker {
	t := &Tracker{
		ratio:   make(map[string]float64, len(clients)),
		target:  make(map[string]int, len(clients)),
		current: make(map[string]int, len(clients)),
	}
	for _, c := range clients {
		ratio := c.CohesionRatio
		if ratio == 0 {
			ratio = domain.DefaultCohesionRatio
		}
		t.order = append(t.order, c.ClientID)
		t.ratio[c.ClientID] = ratio
		t.target[c.ClientID] = int(math.Round(float64(totalExercises) * ratio))
	}
	return t
}

// Credit records one shared exercise for the client.
func (t *Tracker) Credit(clientID string) {
	if _, ok := t.target[clientID]; ok {
		t.current[clientID]++
	}
}

// Behind reports whether the client has fewer shared exercises than its
// target prorated to progress (0..1 of the workout already planned).
func (t *Tracker) Behind(clientID string, progress float64) bool {
	target, ok := t.target[clientID]
	if !ok {
		return false
	}
	return float64(t.current[clientID]) < math.Floor(float64(target)*progress)
}

// Report returns the final state in roster order.
func (t *Tracker) Report() []domain.ClientCohesion {
	out := make([]domain.ClientCohesion, 0, len(t.order))
	for _, id := range t.order {
		c := domain.ClientCohesion{
			ClientID:      id,
			CohesionRatio: t.ratio[id],
			TargetShared:  t.target[id],
			CurrentShared: t.current[id],
		}
		switch s := c.Shortfall(); {
		case s == 0:
			c.Status = domain.CohesionSatisfied
		case s <= CohesionTolerance:
			c.Status = domain.CohesionOnTrack
		default:
			c.Status = domain.CohesionNeedsMore
		}
		out = append(out, c)
	}
	return out
}

// Allocate computes the slot allocation of one block.
//
// Every client has MaxExercises seats and each shared slot takes one seat from
// every client, so a client's individual seats are MaxExercises minus the
// shared slots. Total counts group seats. Shared slots are capped by the
// shared pool, and request-driven blocks get one extra shared slot while most
// clients are behind on cohesion, as long as an individual seat remains.
func Allocate(def domain.BlockDefinition, clientIDs []string, poolSize int, t *Tracker, progress float64) domain.BlockSlots {
	n := len(clientIDs)
	slots := domain.BlockSlots{
		Total:        def.MaxExercises * n,
		TargetShared: int(math.Floor(float64(def.MaxExercises) * def.SharedRatio)),
		PerClient:    make(map[string]int, n),
	}
	if n == 0 {
		return slots
	}

	behind := 0
	for _, id := range clientIDs {
		if t != nil && t.Behind(id, progress) {
			behind++
		}
	}
	if def.SelectionStrategy == domain.StrategyRequestDriven && def.SharedRatio > 0 &&
		behind*2 > n && slots.TargetShared+1 < def.MaxExercises {
		slots.TargetShared++
		slots.CohesionBoost = true
	}

	slots.ActualSharedAvailable = min(slots.TargetShared, poolSize)
	individual := slots.Total - slots.ActualSharedAvailable*n
	slots.IndividualPerClient = individual / n
	for _, id := range clientIDs {
		slots.PerClient[id] = slots.IndividualPerClient
	}
	return slots
}
