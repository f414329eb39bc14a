package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"diffing-research/core/storage"
	"diffing-research/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestApp(t *testing.T, client storage.Client, db *gorm.DB) *fiber.App {
	t.Helper()
	app := fiber.New()
	NewHandler(NewService(client, "diffing", "", db, zap.NewNop())).RegisterRoutes(app)
	return app
}

func TestHandleStorageCheck_Fix(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "diffing").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "diffing", mock.Anything).Return(nil)
	app := setupTestApp(t, client, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/storage?fix=true", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "fixed", body["status"])
	client.AssertCalled(t, "MakeBucket", mock.Anything, "diffing", mock.Anything)
}

func TestHandleChecks_Disabled(t *testing.T) {
	app := setupTestApp(t, nil, nil)

	for _, path := range []string{"/integrity/storage", "/integrity/schema", "/integrity/archive"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode, path)
	}
}

func TestHandleSchemaCheck(t *testing.T) {
	app := setupTestApp(t, nil, memoryDB(t))

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/schema", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Table   string `json:"table"`
		Matched bool   `json:"matched"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "catalog_movies", body.Table)
	assert.True(t, body.Matched)
}

func TestHandleIntegrityCheck(t *testing.T) {
	app := setupTestApp(t, nil, memoryDB(t))

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "error", body["storage"]["status"])
	assert.Equal(t, "error", body["archive"]["status"])
	assert.Equal(t, true, body["schema"]["matched"])
}
