package integrity

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"dormitory-manager/core/reconcile"
	"dormitory-manager/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func setupTestApp(t *testing.T) (*fiber.App, *mocks.Client, sqlmock.Sqlmock, *occupancyAdapter) {
	app := fiber.New()
	mockClient := new(mocks.Client)
	db, sqlMock := setupMockDB(t)
	adapter := &occupancyAdapter{
		rooms:   map[string]string{"101": reconcile.StatusOccupied},
		dormers: map[string]string{},
	}
	svc := NewService(Options{
		Files:     healthyFiles(t),
		DB:        db,
		Client:    mockClient,
		Bucket:    "test-bucket",
		Prefix:    "backups",
		Occupancy: &reconcile.Spec{Adapter: adapter},
	}, zap.NewNop())
	NewHandler(svc).RegisterRoutes(app)
	return app, mockClient, sqlMock, adapter
}

func decode(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r).Decode(&body))
	return body
}

func TestHandleFilesCheck(t *testing.T) {
	app, _, _, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/files", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Equal(t, true, body["healthy"])
}

func TestHandleStorageCheck(t *testing.T) {
	app, mockClient, _, _ := setupTestApp(t)

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(mocks.Objects())

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/storage", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Equal(t, "checked", body["status"])
	assert.Equal(t, []any{"backups"}, body["missing"])
}

func TestHandleStorageCheck_FixCreatesBucket(t *testing.T) {
	app, mockClient, _, _ := setupTestApp(t)

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)
	mockClient.On("MakeBucket", mock.Anything, "test-bucket", mock.Anything).Return(nil)
	mockClient.On("PutObject", mock.Anything, "test-bucket", "backups/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/storage?fix=true", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Equal(t, "fixed", body["status"])
	mockClient.AssertCalled(t, "MakeBucket", mock.Anything, "test-bucket", mock.Anything)
}

func TestHandleServerCheck(t *testing.T) {
	app, _, sqlMock, _ := setupTestApp(t)

	for i := 0; i < 4; i++ {
		sqlMock.ExpectQuery("SHOW COLUMNS").WillReturnRows(sqlmock.NewRows([]string{"Field", "Type"}))
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/server", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Equal(t, false, body["matched"])
}

func TestHandleOccupancyCheck(t *testing.T) {
	app, _, _, adapter := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/occupancy?fix=true", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Equal(t, float64(1), body["repaired"])
	assert.Equal(t, []string{"101"}, adapter.repaired)
}

func TestHandleIntegrityCheck(t *testing.T) {
	app, mockClient, sqlMock, _ := setupTestApp(t)

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, assert.AnError)
	for i := 0; i < 4; i++ {
		sqlMock.ExpectQuery(".*").WillReturnError(assert.AnError)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity", nil), 2000)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Equal(t, false, body["healthy"])
	storage := body["storage"].(map[string]any)
	assert.Equal(t, StatusError, storage["status"])
}

func TestHandleSkippedCheck(t *testing.T) {
	app := fiber.New()
	NewHandler(NewService(Options{}, zap.NewNop())).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/server", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
