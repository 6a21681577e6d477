package reconcile

import "time"

// ReconcileResult is the reconciliation output for a single room number.
type ReconcileResult struct {
	// Room is the room number.
	Room string `json:"room"`

	// RoomPresent indicates whether a room record exists.
	RoomPresent bool `json:"room_present"`

	// Status is the recorded status, empty when RoomPresent is false.
	Status string `json:"status,omitempty"`

	// DormerPresent indicates whether a dormer is assigned to the room.
	DormerPresent bool `json:"dormer_present"`

	// Dormer is the assigned dormer's name.
	Dormer string `json:"dormer,omitempty"`

	// InLayout indicates whether the dormitory setup generates this room.
	// Always true when no setup exists.
	InLayout bool `json:"in_layout"`

	// Payments is the number of payment records for the room.
	Payments int `json:"payments"`

	// Mismatch describes each detected inconsistency,
	// e.g. "status: recorded Vacant, dormer assigned".
	Mismatch []string `json:"mismatch"`
}

// Spec defines the configuration for a reconciliation operation.
type Spec struct {
	// Adapter loads the sources.
	Adapter Adapter

	// CacheTTL is the time-to-live for cached indices.
	// If zero, caching is disabled.
	CacheTTL time.Duration
}

// CacheKey returns the key under which this spec's indices are cached.
func (s *Spec) CacheKey() string {
	return s.Adapter.Name()
}

// ActionType represents the type of repair.
type ActionType string

const (
	// ActionMarkOccupied sets a room with a dormer to Occupied.
	ActionMarkOccupied ActionType = "mark_occupied"
	// ActionMarkVacant sets a room without a dormer to Vacant.
	ActionMarkVacant ActionType = "mark_vacant"
	// ActionAddRoom creates a missing room record.
	ActionAddRoom ActionType = "add_room"
)

// Action represents a planned repair.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Room is the room number.
	Room string `json:"room"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`
}

// ReconcilePlan contains reconciliation results and planned actions.
type ReconcilePlan struct {
	// Results contains per-room reconciliation data.
	Results []ReconcileResult `json:"results"`

	// Actions contains planned repairs.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a reconcile plan.
type PlanSummary struct {
	// TotalRooms is the number of distinct room numbers seen in any source.
	TotalRooms int `json:"total_rooms"`

	// Occupied counts rooms with a dormer.
	Occupied int `json:"occupied"`

	// MissingRooms counts room numbers with no room record.
	MissingRooms int `json:"missing_rooms"`

	// StatusDrift counts room records whose status disagrees with the dormers.
	StatusDrift int `json:"status_drift"`

	// OutsideLayout counts rooms the dormitory setup does not generate.
	OutsideLayout int `json:"outside_layout"`

	// OrphanPayments counts rooms with payment records but neither a room
	// record nor a dormer.
	OrphanPayments int `json:"orphan_payments"`

	// RepairActions counts planned repairs.
	RepairActions int `json:"repair_actions"`
}

// Clean reports whether nothing needs attention.
func (s PlanSummary) Clean() bool {
	return s.MissingRooms == 0 && s.StatusDrift == 0 && s.OutsideLayout == 0 && s.OrphanPayments == 0
}

// ReconcileOptions controls reconcile behavior.
type ReconcileOptions struct {
	// DryRun prevents execution of any repairs if true.
	DryRun bool

	// DoFix plans repairs for status drift and missing rooms.
	DoFix bool

	// Confirmed indicates the operator confirmed the repairs.
	// If false, repairs will not execute regardless of DryRun.
	Confirmed bool
}
