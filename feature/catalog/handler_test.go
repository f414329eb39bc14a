package catalog

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"diffing-research/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T, fetcher PageFetcher, archive *Archive) *fiber.App {
	t.Helper()
	app := fiber.New()
	NewHandler(newTestService(PolicyResample, fetcher), archive).RegisterRoutes(app)
	return app
}

func TestHandleRefreshAndListPages(t *testing.T) {
	app := setupTestApp(t, &countingFetcher{pages: testPages()}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/catalog/pages", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/catalog/refresh", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/catalog/pages", nil))
	require.NoError(t, err)

	var body struct {
		Pages []PageInfo `json:"pages"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Pages, 4)
	assert.Equal(t, "popular", body.Pages[0].Category)
	assert.Equal(t, 3, body.Pages[0].Movies)
}

func TestHandleRefresh_NoPages(t *testing.T) {
	app := setupTestApp(t, &countingFetcher{}, nil)

	resp, err := app.Test(httptest.NewRequest("POST", "/catalog/refresh", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestHandleSnapshots_ArchiveDisabled(t *testing.T) {
	app := setupTestApp(t, &countingFetcher{}, nil)

	for _, path := range []string{"/catalog/snapshots", "/catalog/snapshots/table/x"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode, path)
	}
}

func TestHandleSnapshots(t *testing.T) {
	client := new(mocks.Client)
	app := setupTestApp(t, &countingFetcher{}, NewArchive(client, "diffing"))

	client.On("ListObjects", mock.Anything, "diffing", minio.ListObjectsOptions{Prefix: "snapshots/table/", Recursive: true}).
		Return(objectsChan("snapshots/table/a.json"))
	client.On("GetObject", mock.Anything, "diffing", "snapshots/table/missing.json", mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})

	resp, err := app.Test(httptest.NewRequest("GET", "/catalog/snapshots?board=table", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Snapshots []ArchiveEntry `json:"snapshots"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Snapshots, 1)
	assert.Equal(t, "table/a", body.Snapshots[0].Name)

	resp, err = app.Test(httptest.NewRequest("GET", "/catalog/snapshots/table/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestLoader(t *testing.T) {
	feature := NewFeature(newTestService(PolicyResample, &countingFetcher{}), nil)

	assert.Equal(t, "catalog", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NoError(t, feature.Load(fiber.New()))
}
