package reconcile

import (
	"context"
	"fmt"
)

// ReconcileWithPlan performs reconciliation and returns a plan with results
// and actions. It does NOT execute actions; use ApplyPlan for that.
func ReconcileWithPlan(ctx context.Context, spec *Spec, opts ReconcileOptions) (*ReconcilePlan, error) {
	cache, err := loadCache(ctx, spec)
	if err != nil {
		return nil, err
	}

	results := reconcileFromCache(cache)
	summary, actions := buildPlanFromResults(results, opts)

	return &ReconcilePlan{
		Results: results,
		Actions: actions,
		Summary: summary,
	}, nil
}

// ApplyPlan executes the plan's repairs through the adapter's Mutator.
// Requires opts.Confirmed=true and opts.DryRun=false to actually execute.
func ApplyPlan(ctx context.Context, spec *Spec, plan *ReconcilePlan, opts ReconcileOptions) (int, error) {
	if !opts.Confirmed || opts.DryRun || len(plan.Actions) == 0 {
		return 0, nil
	}

	mutator, ok := spec.Adapter.(Mutator)
	if !ok {
		return 0, fmt.Errorf("adapter %s does not implement Mutator interface", spec.Adapter.Name())
	}

	rooms := make([]string, 0, len(plan.Actions))
	seen := make(map[string]struct{}, len(plan.Actions))
	for _, a := range plan.Actions {
		if _, dup := seen[a.Room]; dup {
			continue
		}
		seen[a.Room] = struct{}{}
		rooms = append(rooms, a.Room)
	}

	executed, err := mutator.RepairRooms(ctx, rooms)
	InvalidateCache(spec)
	if err != nil {
		return executed, fmt.Errorf("failed to repair rooms: %w", err)
	}
	return executed, nil
}

// ReconcileAndApply plans and, when confirmed, applies the repairs.
func ReconcileAndApply(ctx context.Context, spec *Spec, opts ReconcileOptions) (*ReconcilePlan, int, error) {
	plan, err := ReconcileWithPlan(ctx, spec, opts)
	if err != nil {
		return nil, 0, err
	}

	executed, err := ApplyPlan(ctx, spec, plan, opts)
	return plan, executed, err
}

func buildPlanFromResults(results []ReconcileResult, opts ReconcileOptions) (PlanSummary, []Action) {
	var summary PlanSummary
	var actions []Action

	summary.TotalRooms = len(results)

	for _, r := range results {
		if r.DormerPresent {
			summary.Occupied++
		}
		if !r.InLayout && (r.RoomPresent || r.DormerPresent) {
			summary.OutsideLayout++
		}
		if r.Payments > 0 && !r.RoomPresent && !r.DormerPresent {
			summary.OrphanPayments++
			continue
		}

		var action *Action
		switch {
		case !r.RoomPresent && (r.DormerPresent || r.InLayout):
			summary.MissingRooms++
			action = &Action{Type: ActionAddRoom, Room: r.Room, Reason: "room record missing"}
		case r.RoomPresent && r.DormerPresent && r.Status != StatusOccupied:
			summary.StatusDrift++
			action = &Action{Type: ActionMarkOccupied, Room: r.Room, Reason: fmt.Sprintf("dormer %s assigned", r.Dormer)}
		case r.RoomPresent && !r.DormerPresent && r.Status != StatusVacant:
			summary.StatusDrift++
			action = &Action{Type: ActionMarkVacant, Room: r.Room, Reason: "no dormer assigned"}
		}

		if action != nil && opts.DoFix {
			actions = append(actions, *action)
			summary.RepairActions++
		}
	}

	return summary, actions
}
