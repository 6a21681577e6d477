package reconcile

import (
	"context"
	"sort"
	"strconv"
)

// Recorded room statuses understood by the engine.
const (
	StatusOccupied = "Occupied"
	StatusVacant   = "Vacant"
)

// ReconcileAll compares every room number found in any source and returns
// one result per room, ordered by room number.
func ReconcileAll(ctx context.Context, spec *Spec) ([]ReconcileResult, error) {
	cache, err := loadCache(ctx, spec)
	if err != nil {
		return nil, err
	}
	return reconcileFromCache(cache), nil
}

// ReconcileOne reconciles a single room.
func ReconcileOne(ctx context.Context, spec *Spec, room string) (*ReconcileResult, error) {
	cache, err := loadCache(ctx, spec)
	if err != nil {
		return nil, err
	}
	result := buildResult(room, cache)
	return &result, nil
}

func loadCache(ctx context.Context, spec *Spec) (*ReconcileCache, error) {
	if spec.CacheTTL > 0 {
		return GetOrBuildCache(ctx, spec)
	}
	return BuildCache(ctx, spec)
}

func reconcileFromCache(cache *ReconcileCache) []ReconcileResult {
	union := buildUnion(cache)

	results := make([]ReconcileResult, 0, len(union))
	for room := range union {
		results = append(results, buildResult(room, cache))
	}

	sort.Slice(results, func(i, j int) bool {
		return lessRoom(results[i].Room, results[j].Room)
	})
	return results
}

// buildUnion collects the room numbers of all four sources.
func buildUnion(cache *ReconcileCache) map[string]struct{} {
	union := make(map[string]struct{})
	for room := range cache.RoomIndex {
		union[room] = struct{}{}
	}
	for room := range cache.DormerIndex {
		union[room] = struct{}{}
	}
	for room := range cache.LayoutSet {
		union[room] = struct{}{}
	}
	for room := range cache.PaymentIndex {
		union[room] = struct{}{}
	}
	return union
}

func buildResult(room string, cache *ReconcileCache) ReconcileResult {
	status, roomPresent := cache.RoomIndex[room]
	dormer, dormerPresent := cache.DormerIndex[room]

	inLayout := true
	if cache.LayoutSet != nil {
		_, inLayout = cache.LayoutSet[room]
	}

	result := ReconcileResult{
		Room:          room,
		RoomPresent:   roomPresent,
		Status:        status,
		DormerPresent: dormerPresent,
		Dormer:        dormer,
		InLayout:      inLayout,
		Payments:      cache.PaymentIndex[room],
		Mismatch:      []string{},
	}

	switch {
	case roomPresent && dormerPresent && status != StatusOccupied:
		result.Mismatch = append(result.Mismatch, "status: recorded "+status+", dormer assigned")
	case roomPresent && !dormerPresent && status != StatusVacant:
		result.Mismatch = append(result.Mismatch, "status: recorded "+status+", no dormer")
	case !roomPresent && dormerPresent:
		result.Mismatch = append(result.Mismatch, "room record missing, dormer assigned")
	case !roomPresent && cache.LayoutSet != nil && inLayout:
		result.Mismatch = append(result.Mismatch, "room record missing from layout")
	}

	if !inLayout && (roomPresent || dormerPresent) {
		result.Mismatch = append(result.Mismatch, "room not generated by setup")
	}
	if result.Payments > 0 && !roomPresent && !dormerPresent {
		result.Mismatch = append(result.Mismatch, "payments for unknown room")
	}
	return result
}

// lessRoom orders numeric room numbers numerically and falls back to string
// order otherwise.
func lessRoom(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil && na != nb {
		return na < nb
	}
	return a < b
}
