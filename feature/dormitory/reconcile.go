package dormitory

import (
	"context"
	"strings"

	"dormitory-manager/core/reconcile"
)

// ReconcileAdapter exposes the persisted collections to the occupancy
// reconcile. It reads the repository directly since the engine repairs
// status drift in memory on load.
type ReconcileAdapter struct {
	repo Repository
	svc  *Service
}

// NewReconcileAdapter creates an adapter over repo. Repairs go through svc.
func NewReconcileAdapter(repo Repository, svc *Service) *ReconcileAdapter {
	return &ReconcileAdapter{repo: repo, svc: svc}
}

// Name implements reconcile.Adapter.
func (a *ReconcileAdapter) Name() string {
	return "dormitory"
}

// LoadRoomIndex implements reconcile.Adapter.
func (a *ReconcileAdapter) LoadRoomIndex(ctx context.Context) (map[string]string, error) {
	rooms, err := a.repo.LoadRooms(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]string, len(rooms))
	for _, r := range rooms {
		if _, dup := index[r.Number]; !dup {
			index[r.Number] = string(r.Status)
		}
	}
	return index, nil
}

// LoadDormerIndex implements reconcile.Adapter.
func (a *ReconcileAdapter) LoadDormerIndex(ctx context.Context) (map[string]string, error) {
	dormers, err := a.repo.LoadDormers(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]string, len(dormers))
	for _, d := range dormers {
		if _, dup := index[d.RoomNumber]; !dup {
			index[d.RoomNumber] = d.FullName()
		}
	}
	return index, nil
}

// LoadLayoutSet implements reconcile.Adapter.
func (a *ReconcileAdapter) LoadLayoutSet(ctx context.Context) (map[string]struct{}, error) {
	d, err := a.repo.LoadDormitory(ctx)
	if err != nil || d == nil {
		return nil, err
	}
	set := make(map[string]struct{}, d.TotalRooms())
	for _, n := range d.RoomNumbers() {
		set[n] = struct{}{}
	}
	return set, nil
}

// LoadPaymentIndex implements reconcile.Adapter. Payment room numbers are
// matched case-insensitively against room records, so they are folded onto
// the spelling used by the rooms collection when one exists.
func (a *ReconcileAdapter) LoadPaymentIndex(ctx context.Context) (map[string]int, error) {
	payments, err := a.repo.LoadPayments(ctx)
	if err != nil {
		return nil, err
	}
	rooms, err := a.repo.LoadRooms(ctx)
	if err != nil {
		return nil, err
	}
	canonical := make(map[string]string, len(rooms))
	for _, r := range rooms {
		canonical[strings.ToUpper(r.Number)] = r.Number
	}

	index := make(map[string]int)
	for _, p := range payments {
		room := p.RoomNumber
		if c, ok := canonical[strings.ToUpper(room)]; ok {
			room = c
		}
		index[room]++
	}
	return index, nil
}

// RepairRooms implements reconcile.Mutator. The rooms collection is always
// rewritten, so every listed room counts as repaired even when the engine
// already held the corrected status.
func (a *ReconcileAdapter) RepairRooms(ctx context.Context, rooms []string) (int, error) {
	if _, err := a.svc.RepairRooms(ctx, rooms); err != nil {
		return 0, err
	}
	return len(rooms), nil
}

var (
	_ reconcile.Adapter = (*ReconcileAdapter)(nil)
	_ reconcile.Mutator = (*ReconcileAdapter)(nil)
)
