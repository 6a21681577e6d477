package reconcile

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAdapter serves fixed indices and counts loads.
type mockAdapter struct {
	name     string
	rooms    map[string]string
	dormers  map[string]string
	layout   map[string]struct{}
	payments map[string]int
	roomErr  error
	loads    atomic.Int32
}

func (m *mockAdapter) Name() string {
	if m.name == "" {
		return "mock"
	}
	return m.name
}

func (m *mockAdapter) LoadRoomIndex(ctx context.Context) (map[string]string, error) {
	m.loads.Add(1)
	if m.roomErr != nil {
		return nil, m.roomErr
	}
	return m.rooms, nil
}

func (m *mockAdapter) LoadDormerIndex(ctx context.Context) (map[string]string, error) {
	return m.dormers, nil
}

func (m *mockAdapter) LoadLayoutSet(ctx context.Context) (map[string]struct{}, error) {
	return m.layout, nil
}

func (m *mockAdapter) LoadPaymentIndex(ctx context.Context) (map[string]int, error) {
	return m.payments, nil
}

func layout(rooms ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(rooms))
	for _, r := range rooms {
		set[r] = struct{}{}
	}
	return set
}

func TestBuildCache_ErrorHandling(t *testing.T) {
	adapter := &mockAdapter{roomErr: fmt.Errorf("rooms unreadable")}

	_, err := BuildCache(context.Background(), &Spec{Adapter: adapter})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rooms unreadable")
}

func TestReconcileAll_UnionKeys(t *testing.T) {
	adapter := &mockAdapter{
		rooms:    map[string]string{"101": StatusVacant},
		dormers:  map[string]string{"102": "Alice Smith"},
		layout:   layout("101", "102", "103"),
		payments: map[string]int{"999": 2},
	}

	results, err := ReconcileAll(context.Background(), &Spec{Adapter: adapter})
	require.NoError(t, err)

	var rooms []string
	for _, r := range results {
		rooms = append(rooms, r.Room)
	}
	assert.Equal(t, []string{"101", "102", "103", "999"}, rooms)
}

func TestReconcileAll_Consistent(t *testing.T) {
	adapter := &mockAdapter{
		rooms:   map[string]string{"101": StatusOccupied, "102": StatusVacant},
		dormers: map[string]string{"101": "Alice Smith"},
		layout:  layout("101", "102"),
	}

	results, err := ReconcileAll(context.Background(), &Spec{Adapter: adapter})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		assert.True(t, r.RoomPresent)
		assert.True(t, r.InLayout)
		assert.Empty(t, r.Mismatch, r.Room)
	}
	assert.True(t, results[0].DormerPresent)
	assert.Equal(t, "Alice Smith", results[0].Dormer)
}

func TestReconcileAll_MismatchDetection(t *testing.T) {
	adapter := &mockAdapter{
		rooms: map[string]string{
			"101": StatusVacant,
			"102": StatusOccupied,
			"301": StatusVacant,
		},
		dormers: map[string]string{
			"101": "Alice Smith",
			"103": "Bob Jones",
		},
		layout:   layout("101", "102", "103", "104"),
		payments: map[string]int{"900": 1},
	}

	results, err := ReconcileAll(context.Background(), &Spec{Adapter: adapter})
	require.NoError(t, err)

	byRoom := make(map[string]ReconcileResult)
	for _, r := range results {
		byRoom[r.Room] = r
	}

	assert.Equal(t, []string{"status: recorded Vacant, dormer assigned"}, byRoom["101"].Mismatch)
	assert.Equal(t, []string{"status: recorded Occupied, no dormer"}, byRoom["102"].Mismatch)
	assert.Equal(t, []string{"room record missing, dormer assigned"}, byRoom["103"].Mismatch)
	assert.Equal(t, []string{"room record missing from layout"}, byRoom["104"].Mismatch)
	assert.Equal(t, []string{"room not generated by setup"}, byRoom["301"].Mismatch)
	assert.False(t, byRoom["301"].InLayout)
	assert.Contains(t, byRoom["900"].Mismatch, "payments for unknown room")
}

func TestReconcileAll_NoLayout(t *testing.T) {
	adapter := &mockAdapter{
		rooms: map[string]string{"7": StatusVacant},
	}

	results, err := ReconcileAll(context.Background(), &Spec{Adapter: adapter})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].InLayout)
	assert.Empty(t, results[0].Mismatch)
}

func TestReconcileAll_NumericOrder(t *testing.T) {
	adapter := &mockAdapter{
		rooms: map[string]string{"1001": StatusVacant, "201": StatusVacant, "B1": StatusVacant, "99": StatusVacant},
	}

	results, err := ReconcileAll(context.Background(), &Spec{Adapter: adapter})
	require.NoError(t, err)

	var rooms []string
	for _, r := range results {
		rooms = append(rooms, r.Room)
	}
	assert.Equal(t, []string{"99", "201", "1001", "B1"}, rooms)
}

func TestCache_Hit(t *testing.T) {
	adapter := &mockAdapter{name: "cache-hit", rooms: map[string]string{"101": StatusVacant}}
	spec := &Spec{Adapter: adapter, CacheTTL: time.Minute}
	defer InvalidateCache(spec)

	for i := 0; i < 3; i++ {
		_, err := ReconcileAll(context.Background(), spec)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), adapter.loads.Load())
}

func TestCache_Expiration(t *testing.T) {
	adapter := &mockAdapter{name: "cache-expire", rooms: map[string]string{"101": StatusVacant}}
	spec := &Spec{Adapter: adapter, CacheTTL: 20 * time.Millisecond}
	defer InvalidateCache(spec)

	_, err := ReconcileAll(context.Background(), spec)
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)

	_, err = ReconcileAll(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, int32(2), adapter.loads.Load())
}

func TestCache_Invalidate(t *testing.T) {
	adapter := &mockAdapter{name: "cache-invalidate", rooms: map[string]string{"101": StatusVacant}}
	spec := &Spec{Adapter: adapter, CacheTTL: time.Minute}
	defer InvalidateCache(spec)

	_, err := ReconcileAll(context.Background(), spec)
	require.NoError(t, err)
	InvalidateCache(spec)
	_, err = ReconcileAll(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, int32(2), adapter.loads.Load())
}

func TestCache_DisabledWithoutTTL(t *testing.T) {
	adapter := &mockAdapter{name: "cache-disabled", rooms: map[string]string{"101": StatusVacant}}
	spec := &Spec{Adapter: adapter}

	for i := 0; i < 2; i++ {
		_, err := ReconcileAll(context.Background(), spec)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), adapter.loads.Load())
}

func TestReconcileOne(t *testing.T) {
	adapter := &mockAdapter{
		rooms:   map[string]string{"101": StatusVacant},
		dormers: map[string]string{"101": "Alice Smith"},
	}

	result, err := ReconcileOne(context.Background(), &Spec{Adapter: adapter}, "101")
	require.NoError(t, err)
	assert.True(t, result.RoomPresent)
	assert.True(t, result.DormerPresent)
	assert.NotEmpty(t, result.Mismatch)
}

func TestReconcileOne_NotFound(t *testing.T) {
	adapter := &mockAdapter{rooms: map[string]string{}}

	result, err := ReconcileOne(context.Background(), &Spec{Adapter: adapter}, "404")
	require.NoError(t, err)
	assert.False(t, result.RoomPresent)
	assert.False(t, result.DormerPresent)
	assert.Empty(t, result.Mismatch)
}
