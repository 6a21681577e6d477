package integrity

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"dormitory-manager/core/database"
	"dormitory-manager/core/reconcile"
	"dormitory-manager/core/storage/mocks"
	"dormitory-manager/feature/persistence/flatfile"
	"dormitory-manager/feature/persistence/sqlstore"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// occupancyAdapter serves fixed reconcile indices and records repairs.
type occupancyAdapter struct {
	rooms    map[string]string
	dormers  map[string]string
	repaired []string
}

func (a *occupancyAdapter) Name() string { return "integrity-test" }

func (a *occupancyAdapter) LoadRoomIndex(context.Context) (map[string]string, error) {
	return a.rooms, nil
}

func (a *occupancyAdapter) LoadDormerIndex(context.Context) (map[string]string, error) {
	return a.dormers, nil
}

func (a *occupancyAdapter) LoadLayoutSet(context.Context) (map[string]struct{}, error) {
	return nil, nil
}

func (a *occupancyAdapter) LoadPaymentIndex(context.Context) (map[string]int, error) {
	return nil, nil
}

func (a *occupancyAdapter) RepairRooms(_ context.Context, rooms []string) (int, error) {
	a.repaired = append(a.repaired, rooms...)
	for _, r := range rooms {
		if _, ok := a.dormers[r]; ok {
			a.rooms[r] = reconcile.StatusOccupied
		} else {
			a.rooms[r] = reconcile.StatusVacant
		}
	}
	return len(rooms), nil
}

func healthyFiles(t *testing.T) *flatfile.Store {
	t.Helper()
	store := flatfile.New(t.TempDir(), flatfile.DefaultFiles, zap.NewNop())
	_, err := store.EnsureFiles()
	require.NoError(t, err)
	return store
}

func TestService_SkipsUnconfiguredChecks(t *testing.T) {
	svc := NewService(Options{}, zap.NewNop())

	report := svc.Run(context.Background())

	assert.True(t, report.Healthy)
	assert.Equal(t, StatusSkipped, report.Files.Status)
	assert.Equal(t, StatusSkipped, report.Server.Status)
	assert.Equal(t, StatusSkipped, report.Storage.Status)
	assert.Equal(t, StatusSkipped, report.Occupancy.Status)
}

func TestService_Files(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dormers.txt"), []byte("101,too,few\n"), 0o644))
	svc := NewService(Options{Files: flatfile.New(dir, flatfile.DefaultFiles, zap.NewNop())}, zap.NewNop())

	report, err := svc.CheckFiles(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Healthy)
	assert.Equal(t, 1, report.Malformed)

	created, err := svc.FixFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"setup.txt", "roomStatus.txt", "paymentStatus.txt"}, created)
}

func TestService_Server(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, sqlstore.New(db, zap.NewNop()).Migrate())

	svc := NewService(Options{DB: db}, zap.NewNop())
	report, err := svc.CheckServer()
	require.NoError(t, err)
	assert.True(t, report.Matched)
}

func TestService_Structure(t *testing.T) {
	mockClient := new(mocks.Client)
	svc := NewService(Options{Client: mockClient, Bucket: "dormitory", Prefix: "backups"}, zap.NewNop())

	t.Run("CheckStructure", func(t *testing.T) {
		mockClient.On("BucketExists", mock.Anything, "dormitory").Return(true, nil)
		mockClient.On("ListObjects", mock.Anything, "dormitory", mock.Anything).Return(mocks.Objects())

		missing, err := svc.CheckStructure(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, []string{"backups"}, missing)
	})

	t.Run("FixStructure", func(t *testing.T) {
		mockClient.On("PutObject", mock.Anything, "dormitory", "backups/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)
		err := svc.FixStructure(context.Background(), []string{"backups"})
		assert.NoError(t, err)
	})
}

func TestService_Occupancy(t *testing.T) {
	adapter := &occupancyAdapter{
		rooms:   map[string]string{"101": reconcile.StatusVacant, "102": reconcile.StatusVacant},
		dormers: map[string]string{"101": "Alice Reyes"},
	}
	svc := NewService(Options{Occupancy: &reconcile.Spec{Adapter: adapter}}, zap.NewNop())

	plan, repaired, err := svc.CheckOccupancy(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, plan.Summary.StatusDrift)
	assert.Zero(t, repaired)
	assert.Empty(t, adapter.repaired)

	_, repaired, err = svc.CheckOccupancy(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)
	assert.Equal(t, []string{"101"}, adapter.repaired)
}

func TestService_RunReportsIssues(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "dormitory").Return(false, nil)

	adapter := &occupancyAdapter{
		rooms:   map[string]string{"101": reconcile.StatusOccupied},
		dormers: map[string]string{},
	}
	svc := NewService(Options{
		Files:     healthyFiles(t),
		Client:    mockClient,
		Bucket:    "dormitory",
		Prefix:    "backups",
		Occupancy: &reconcile.Spec{Adapter: adapter},
	}, zap.NewNop())

	report := svc.Run(context.Background())

	assert.False(t, report.Healthy)
	assert.Equal(t, StatusOK, report.Files.Status)
	assert.Equal(t, StatusSkipped, report.Server.Status)
	assert.Equal(t, StatusError, report.Storage.Status)
	assert.Contains(t, report.Storage.Error, "bucket does not exist")
	assert.Equal(t, StatusIssues, report.Occupancy.Status)
}
