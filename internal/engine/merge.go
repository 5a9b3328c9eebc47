package engine

import (
	"cmp"
	"math"
	"slices"

	"github.com/aretw0/blueprint/pkg/domain"
	"github.com/aretw0/blueprint/pkg/normalize"
)

// ClientCandidates is one client's ranked contribution to a block.
type ClientCandidates struct {
	ClientID   string
	Candidates []domain.ScoredExercise
}

// PoolSize is how many of its top candidates each client contributes to a block's pool.
func PoolSize(maxExercises int) int {
	return int(math.Ceil(float64(maxExercises) * PoolFactor))
}

// Merge builds the shared candidate pool of a block.
//
// Each client contributes its top poolSize candidates. An exercise held by at
// least two clients becomes a shared candidate scored as the mean of its
// holders' scores plus (holders-1)*cohesionWeight.
func Merge(inputs []ClientCandidates, poolSize int, cohesionWeight float64) ([]domain.GroupScoredExercise, domain.CohesionAnalysis) {
	type entry struct {
		ex      domain.Exercise
		holders map[string]float64
	}
	entries := make(map[string]*entry)
	var order []string

	for _, in := range inputs {
		top := in.Candidates[:min(poolSize, len(in.Candidates))]
		for _, s := range top {
			e, ok := entries[s.ID]
			if !ok {
				e = &entry{ex: s.Exercise, holders: make(map[string]float64)}
				entries[s.ID] = e
				order = append(order, s.ID)
			}
			e.holders[in.ClientID] = s.Score
		}
	}

	var shared []domain.GroupScoredExercise
	totalHolders := 0
	for _, id := range order {
		e := entries[id]
		totalHolders += len(e.holders)
		if len(e.holders) < 2 {
			continue
		}

		g := domain.GroupScoredExercise{Exercise: e.ex}
		sum := 0.0
		for _, in := range inputs {
			score, has := e.holders[in.ClientID]
			g.ClientScores = append(g.ClientScores, domain.ClientScore{
				ClientID:        in.ClientID,
				IndividualScore: score,
				HasExercise:     has,
			})
			if has {
				g.ClientsSharing = append(g.ClientsSharing, in.ClientID)
				sum += score
			}
		}
		g.AverageScore = sum / float64(len(g.ClientsSharing))
		g.CohesionBonus = float64(len(g.ClientsSharing)-1) * cohesionWeight
		g.GroupScore = g.AverageScore + g.CohesionBonus
		shared = append(shared, g)
	}

	slices.SortStableFunc(shared, func(a, b domain.GroupScoredExercise) int {
		if c := cmp.Compare(b.GroupScore, a.GroupScore); c != 0 {
			return c
		}
		if c := cmp.Compare(len(b.ClientsSharing), len(a.ClientsSharing)); c != 0 {
			return c
		}
		if c := cmp.Compare(normalize.Name(a.Name), normalize.Name(b.Name)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return shared, analyze(shared, len(inputs), len(order), totalHolders)
}

func analyze(shared []domain.GroupScoredExercise, clients, unique, holders int) domain.CohesionAnalysis {
	var a domain.CohesionAnalysis
	for _, g := range shared {
		n := len(g.ClientsSharing)
		switch {
		case n == clients:
			a.FullGroup++
		case n*2 > clients:
			a.Majority++
		default:
			a.Minority++
		}
	}
	if unique > 0 {
		a.AverageClientsPer = float64(holders) / float64(unique)
	}
	if clients > 1 && unique > 0 {
		a.Score = min(max((a.AverageClientsPer-1)/float64(clients-1), 0), 1)
	}
	return a
}
