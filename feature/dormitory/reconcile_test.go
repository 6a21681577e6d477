package dormitory

import (
	"context"
	"testing"

	"dormitory-manager/core/reconcile"
	"dormitory-manager/feature/dormitory/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func driftedRepo() *memRepo {
	return &memRepo{
		dormitory: &models.Dormitory{Name: "North Hall", Address: "1 Campus Rd", Floors: 1, RoomsPerFloor: 3},
		rooms: []models.Room{
			{Number: "101", Status: models.RoomVacant},
			{Number: "102", Status: models.RoomOccupied},
		},
		dormers: []models.Dormer{
			{FirstName: "Alice", LastName: "Reyes", RoomNumber: "101"},
		},
		payments: []models.Payment{
			{RoomNumber: "101", Month: "February", Amount: 300},
			{RoomNumber: "555", Month: "February", Amount: 300},
		},
	}
}

func TestReconcileAdapter_Indices(t *testing.T) {
	ctx := context.Background()
	adapter := NewReconcileAdapter(driftedRepo(), nil)

	rooms, err := adapter.LoadRoomIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"101": "Vacant", "102": "Occupied"}, rooms)

	dormers, err := adapter.LoadDormerIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"101": "Alice Reyes"}, dormers)

	layout, err := adapter.LoadLayoutSet(ctx)
	require.NoError(t, err)
	assert.Len(t, layout, 3)
	assert.Contains(t, layout, "103")

	payments, err := adapter.LoadPaymentIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"101": 1, "555": 1}, payments)
}

func TestReconcileAdapter_NoSetup(t *testing.T) {
	layout, err := NewReconcileAdapter(&memRepo{}, nil).LoadLayoutSet(context.Background())
	require.NoError(t, err)
	assert.Nil(t, layout)
}

func TestReconcileAdapter_RepairsPersistedDrift(t *testing.T) {
	ctx := context.Background()
	repo := driftedRepo()
	svc := NewService(NewEngine(), repo, zap.NewNop())
	require.NoError(t, svc.Load(ctx))

	spec := &reconcile.Spec{Adapter: NewReconcileAdapter(repo, svc)}
	plan, executed, err := reconcile.ReconcileAndApply(ctx, spec, reconcile.ReconcileOptions{DoFix: true, Confirmed: true})
	require.NoError(t, err)

	assert.Equal(t, 2, plan.Summary.StatusDrift)
	assert.Equal(t, 1, plan.Summary.MissingRooms)
	assert.Equal(t, 1, plan.Summary.OrphanPayments)
	assert.Equal(t, 3, executed)

	after, err := reconcile.ReconcileWithPlan(ctx, spec, reconcile.ReconcileOptions{DoFix: true})
	require.NoError(t, err)
	assert.Zero(t, after.Summary.StatusDrift)
	assert.Zero(t, after.Summary.MissingRooms)
	assert.Empty(t, after.Actions)
	assert.Equal(t, 1, after.Summary.OrphanPayments)
}
