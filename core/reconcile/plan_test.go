package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mutatingAdapter adds a testify mock Mutator to mockAdapter.
type mutatingAdapter struct {
	*mockAdapter
	mock.Mock
}

func (m *mutatingAdapter) RepairRooms(ctx context.Context, rooms []string) (int, error) {
	args := m.Called(ctx, rooms)
	return args.Int(0), args.Error(1)
}

func driftAdapter() *mockAdapter {
	return &mockAdapter{
		rooms: map[string]string{
			"101": StatusVacant,
			"102": StatusOccupied,
			"104": StatusVacant,
		},
		dormers: map[string]string{
			"101": "Alice Smith",
			"103": "Bob Jones",
		},
		layout:   layout("101", "102", "103", "104"),
		payments: map[string]int{"900": 3},
	}
}

func TestReconcileWithPlan_Summary(t *testing.T) {
	plan, err := ReconcileWithPlan(context.Background(), &Spec{Adapter: driftAdapter()}, ReconcileOptions{})
	require.NoError(t, err)

	assert.Equal(t, 5, plan.Summary.TotalRooms)
	assert.Equal(t, 2, plan.Summary.Occupied)
	assert.Equal(t, 2, plan.Summary.StatusDrift)
	assert.Equal(t, 1, plan.Summary.MissingRooms)
	assert.Equal(t, 1, plan.Summary.OrphanPayments)
	assert.Equal(t, 0, plan.Summary.RepairActions)
	assert.Empty(t, plan.Actions)
	assert.False(t, plan.Summary.Clean())
}

func TestReconcileWithPlan_RepairActions(t *testing.T) {
	plan, err := ReconcileWithPlan(context.Background(), &Spec{Adapter: driftAdapter()}, ReconcileOptions{DoFix: true})
	require.NoError(t, err)

	assert.Equal(t, []Action{
		{Type: ActionMarkOccupied, Room: "101", Reason: "dormer Alice Smith assigned"},
		{Type: ActionMarkVacant, Room: "102", Reason: "no dormer assigned"},
		{Type: ActionAddRoom, Room: "103", Reason: "room record missing"},
	}, plan.Actions)
	assert.Equal(t, 3, plan.Summary.RepairActions)
}

func TestReconcileWithPlan_Clean(t *testing.T) {
	adapter := &mockAdapter{
		rooms:   map[string]string{"101": StatusOccupied},
		dormers: map[string]string{"101": "Alice Smith"},
		layout:  layout("101"),
	}

	plan, err := ReconcileWithPlan(context.Background(), &Spec{Adapter: adapter}, ReconcileOptions{DoFix: true})
	require.NoError(t, err)
	assert.True(t, plan.Summary.Clean())
	assert.Empty(t, plan.Actions)
}

func TestApplyPlan_ConfirmationGating(t *testing.T) {
	tests := []struct {
		name string
		opts ReconcileOptions
	}{
		{name: "not confirmed", opts: ReconcileOptions{DoFix: true}},
		{name: "dry run", opts: ReconcileOptions{DoFix: true, Confirmed: true, DryRun: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := &mutatingAdapter{mockAdapter: driftAdapter()}
			spec := &Spec{Adapter: adapter}

			plan, executed, err := ReconcileAndApply(context.Background(), spec, tt.opts)
			require.NoError(t, err)
			assert.NotEmpty(t, plan.Actions)
			assert.Zero(t, executed)
			adapter.AssertNotCalled(t, "RepairRooms", mock.Anything, mock.Anything)
		})
	}
}

func TestApplyPlan_Executes(t *testing.T) {
	adapter := &mutatingAdapter{mockAdapter: driftAdapter()}
	adapter.On("RepairRooms", mock.Anything, []string{"101", "102", "103"}).Return(3, nil)

	_, executed, err := ReconcileAndApply(context.Background(), &Spec{Adapter: adapter}, ReconcileOptions{DoFix: true, Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 3, executed)
	adapter.AssertExpectations(t)
}

func TestApplyPlan_MutatorError(t *testing.T) {
	adapter := &mutatingAdapter{mockAdapter: driftAdapter()}
	adapter.On("RepairRooms", mock.Anything, mock.Anything).Return(0, errors.New("disk full"))

	_, _, err := ReconcileAndApply(context.Background(), &Spec{Adapter: adapter}, ReconcileOptions{DoFix: true, Confirmed: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestApplyPlan_RequiresMutator(t *testing.T) {
	spec := &Spec{Adapter: driftAdapter()}
	plan, err := ReconcileWithPlan(context.Background(), spec, ReconcileOptions{DoFix: true})
	require.NoError(t, err)

	_, err = ApplyPlan(context.Background(), spec, plan, ReconcileOptions{DoFix: true, Confirmed: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not implement Mutator")
}
