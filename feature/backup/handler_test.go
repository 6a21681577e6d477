package backup

import (
	"net/http/httptest"
	"testing"

	"dormitory-manager/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHandleList(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "dormitory", mock.Anything).Return(mocks.Objects("backups/" + testStamp + "/"))

	app := fiber.New()
	NewHandler(newBackupService(client, 0, nil, nil)).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/backups", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestHandleRestore_NoBackups(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "dormitory", mock.Anything).Return(mocks.Objects())

	app := fiber.New()
	NewHandler(newBackupService(client, 0, nil, nil)).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("POST", "/backups/latest/restore", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestFeature_DisabledWithoutService(t *testing.T) {
	f := NewFeature(nil, true)
	assert.Equal(t, "backup", f.Name())
	assert.False(t, f.IsEnabled())
}
