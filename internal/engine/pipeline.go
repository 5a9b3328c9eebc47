package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/aretw0/blueprint/internal/logging"
	"github.com/aretw0/blueprint/pkg/domain"
	"golang.org/x/sync/errgroup"
)

// Pipeline runs the blueprint stages. It holds configuration only and is
// safe for concurrent use by independent sessions.
type Pipeline struct {
	weights        Weights
	cohesionWeight float64
	workers        int
	logger         *slog.Logger
}

// Option configures the Pipeline.
type Option func(*Pipeline)

// WithWeights overrides the scoring constants.
func WithWeights(w Weights) Option {
	return func(p *Pipeline) {
		p.weights = w
	}
}

// WithCohesionWeight sets the bonus per additional client sharing an exercise.
func WithCohesionWeight(weight float64) Option {
	return func(p *Pipeline) {
		p.cohesionWeight = weight
	}
}

// WithWorkers bounds the per-client fan-out. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger configures a logger for the Pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		weights:        DefaultWeights(),
		cohesionWeight: DefaultCohesionWeight,
		workers:        runtime.GOMAXPROCS(0),
		logger:         logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// clientResult is the per-client output of the fan-out phase.
type clientResult struct {
	client   domain.ClientContext
	scored   []domain.ScoredExercise
	dropped  bool
	warnings []domain.Warning
}

// Run generates a Blueprint for the group.
//
// Structural problems (bad roster, bad template, fewer than two clients) are
// returned as errors. Everything else degrades to warnings on the Blueprint.
func (p *Pipeline) Run(ctx context.Context, group domain.GroupContext, tmpl domain.Template, catalog []domain.Exercise) (*domain.Blueprint, error) {
	if err := group.Validate(); err != nil {
		return nil, err
	}
	if err := tmpl.Validate(); err != nil {
		return nil, fmt.Errorf("template %q: %w", tmpl.Type, err)
	}

	bp := &domain.Blueprint{
		SessionID:          group.SessionID,
		BusinessID:         group.BusinessID,
		TemplateType:       tmpl.Type,
		ClientIDs:          group.ClientIDs(),
		ValidationWarnings: []domain.Warning{},
	}

	valid, rejected := domain.PartitionCatalog(catalog)
	if len(rejected) > 0 {
		bp.ValidationWarnings = append(bp.ValidationWarnings, domain.Warning{
			Code:    domain.WarnInvalidExercise,
			Message: fmt.Sprintf("%d catalog record(s) skipped; first: %v", len(rejected), rejected[0]),
		})
	}

	results, err := p.prepare(ctx, group.Clients, valid)
	if err != nil {
		return nil, err
	}

	var planned []domain.ClientContext
	for _, r := range results {
		bp.ValidationWarnings = append(bp.ValidationWarnings, r.warnings...)
		if !r.dropped {
			planned = append(planned, r.client)
		}
	}

	all := make([]domain.ClientContext, len(results))
	for i, r := range results {
		all[i] = r.client
	}

	tracker := NewTracker(planned, tmpl.TotalExercises())
	assigner := NewAssigner(all)
	total := float64(tmpl.TotalExercises())
	done := 0

	for _, def := range tmpl.Blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		plan, warnings := p.planBlock(def, results, tracker, assigner, float64(done)/total)
		bp.Blocks = append(bp.Blocks, plan)
		bp.ValidationWarnings = append(bp.ValidationWarnings, warnings...)
		done += def.MaxExercises

		p.logger.Debug("Block planned",
			"session_id", group.SessionID,
			"block", def.ID,
			"shared", len(plan.SharedCandidates),
			"assignments", len(plan.Assignments),
		)
	}

	assemble(bp, assigner, tracker)
	return bp, nil
}

// prepare filters and scores every client on a bounded worker group.
// Results keep roster order; Wait is the barrier before the block phase.
func (p *Pipeline) prepare(ctx context.Context, clients []domain.ClientContext, catalog []domain.Exercise) ([]clientResult, error) {
	results := make([]clientResult, len(clients))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, c := range clients {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.prepareClient(c, catalog)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Pipeline) prepareClient(c domain.ClientContext, catalog []domain.Exercise) clientResult {
	c = c.WithDefaults()
	res := clientResult{client: c}

	if err := c.CheckProfile(); err != nil {
		p.logger.Warn("Client profile rejected, using safe subset", "client_id", c.ClientID, "err", err)
		res.dropped = true
		res.scored = ScoreNeutral(SafeSubset(catalog, c), p.weights)
		res.warnings = append(res.warnings, domain.Warning{
			Code:     domain.WarnClientDropped,
			ClientID: c.ClientID,
			Message:  fmt.Sprintf("Client %s left out of shared planning: %v", c.ClientID, err),
		})
		return res
	}

	fr := Filter(catalog, c)
	switch {
	case fr.Exhausted:
		res.warnings = append(res.warnings, domain.Warning{
			Code:     domain.WarnFilterExhausted,
			ClientID: c.ClientID,
			Message:  fmt.Sprintf("No exercise passes the restrictions of client %s", c.ClientID),
		})
	case fr.RelaxedSteps > 0:
		res.warnings = append(res.warnings, domain.Warning{
			Code:     domain.WarnFilterRelaxed,
			ClientID: c.ClientID,
			Message:  fmt.Sprintf("Capacity band for client %s widened by %d level(s)", c.ClientID, fr.RelaxedSteps),
		})
	}
	res.scored = ScoreAll(fr.Eligible, c, p.weights)
	return res
}

func (p *Pipeline) planBlock(def domain.BlockDefinition, results []clientResult, tracker *Tracker, assigner *Assigner, progress float64) (domain.BlockPlan, []domain.Warning) {
	var warnings []domain.Warning

	ids := make([]string, len(results))
	candidates := make(map[string][]domain.ScoredExercise, len(results))
	var contributions []ClientCandidates
	for i, r := range results {
		id := r.client.ClientID
		ids[i] = id
		list := BlockCandidates(r.scored, def)
		candidates[id] = list
		if len(list) == 0 {
			warnings = append(warnings, domain.Warning{
				Code:     domain.WarnEmptyCandidates,
				BlockID:  def.ID,
				ClientID: id,
				Message:  fmt.Sprintf("%s: no candidates for client %s", def.ID, id),
			})
		}
		if !r.dropped {
			contributions = append(contributions, ClientCandidates{ClientID: id, Candidates: list})
		}
	}

	shared, analysis := Merge(contributions, PoolSize(def.MaxExercises), p.cohesionWeight)
	slots := Allocate(def, ids, len(shared), tracker, progress)

	switch {
	case len(shared) == 0:
		warnings = append(warnings, domain.Warning{
			Code:    domain.WarnNoSharedCandidates,
			BlockID: def.ID,
			Message: fmt.Sprintf("%s: No exercises available for sharing (target was %d)", def.ID, slots.TargetShared),
		})
	case slots.ActualSharedAvailable < slots.TargetShared:
		warnings = append(warnings, domain.Warning{
			Code:    domain.WarnSharedShortfall,
			BlockID: def.ID,
			Message: fmt.Sprintf("%s: %d shared slot(s) available, target was %d", def.ID, slots.ActualSharedAvailable, slots.TargetShared),
		})
	}

	for _, g := range shared[:slots.ActualSharedAvailable] {
		for _, id := range g.ClientsSharing {
			tracker.Credit(id)
		}
	}

	assigned := assigner.Assign(def, &slots, candidates)
	warnings = append(warnings, assigned.Warnings...)

	exposed := make(map[string][]domain.ScoredExercise, len(candidates))
	for id, list := range candidates {
		if def.CandidateCount > 0 && len(list) > def.CandidateCount {
			list = list[:def.CandidateCount]
		}
		exposed[id] = list
	}

	plan := domain.BlockPlan{
		Block:                domain.Block{BlockDefinition: def, Slots: slots},
		SharedCandidates:     shared[:min(len(shared), 2*def.MaxExercises)],
		IndividualCandidates: exposed,
		Assignments:          assigned.Assignments,
		Cohesion:             analysis,
	}
	if len(assigned.OpenSlots) > 0 {
		plan.OpenSlots = assigned.OpenSlots
	}
	return plan, warnings
}
