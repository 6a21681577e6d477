package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dormitory-manager/core/reconcile"
	"dormitory-manager/feature/dormitory/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOccupancyCacheDroppedOnCommit(t *testing.T) {
	ctx := context.Background()
	c, dataDir := newCLI(t)
	configDir = c.configDir
	t.Setenv("SERVER_OCCUPANCY_CACHE_SECONDS", "60")

	a, err := bootstrap(ctx)
	require.NoError(t, err)
	defer a.close()
	spec := a.occupancy()
	assert.Equal(t, time.Minute, spec.CacheTTL)

	require.NoError(t, a.svc.Setup(ctx, models.Dormitory{Name: "North Hall", Address: "1 Campus Rd", Floors: 1, RoomsPerFloor: 2}))

	got, err := reconcile.ReconcileOne(ctx, spec, "102")
	require.NoError(t, err)
	assert.True(t, got.RoomPresent)

	// Edits behind the service are not seen until the cache expires.
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "roomStatus.txt"), []byte("101,Vacant\n"), 0o644))
	got, err = reconcile.ReconcileOne(ctx, spec, "102")
	require.NoError(t, err)
	assert.True(t, got.RoomPresent)

	_, err = a.svc.AssignRoom(ctx, "101", models.DormerDetails{FirstName: "Alice", LastName: "Reyes"}, 100, time.Now())
	require.NoError(t, err)

	got, err = reconcile.ReconcileOne(ctx, spec, "101")
	require.NoError(t, err)
	assert.True(t, got.DormerPresent)
	assert.Equal(t, reconcile.StatusOccupied, got.Status)
}

func TestOccupancyCacheDisabled(t *testing.T) {
	c, _ := newCLI(t)
	configDir = c.configDir
	t.Setenv("SERVER_OCCUPANCY_CACHE_SECONDS", "0")

	a, err := bootstrap(context.Background())
	require.NoError(t, err)
	defer a.close()
	assert.Zero(t, a.occupancy().CacheTTL)
}
