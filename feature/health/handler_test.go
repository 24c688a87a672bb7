package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tracker-comparer/core/fetch"
	"tracker-comparer/core/storage/mocks"
	"tracker-comparer/feature/health/checks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, status int) (*fiber.App, *mocks.Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	client := new(mocks.Client)
	svc := NewService(client, "exports", "", nil, fetch.New(fetch.Config{}),
		[]checks.Target{{Name: "Site", URL: srv.URL}}, zap.NewNop())

	app := fiber.New()
	require.NoError(t, NewFeature(svc).Load(app))
	return app, client
}

func TestHandleHealth(t *testing.T) {
	app, client := setupTestApp(t, http.StatusOK)
	client.On("BucketExists", mock.Anything, "exports").Return(true, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil), 5000)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var report Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, StatusHealthy, report.Status)
	assert.Equal(t, checks.StatusDisabled, report.Database.Status)
	require.Len(t, report.Trackers, 1)
	assert.Equal(t, checks.StatusOK, report.Trackers[0].Status)
}

func TestHandleHealth_Degraded(t *testing.T) {
	app, client := setupTestApp(t, http.StatusNotFound)
	client.On("BucketExists", mock.Anything, "exports").Return(false, assert.AnError)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var report Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, StatusDegraded, report.Status)
	assert.Equal(t, checks.StatusError, report.Storage.Status)
}

func TestHandleStorage_Fix(t *testing.T) {
	app, client := setupTestApp(t, http.StatusOK)
	client.On("BucketExists", mock.Anything, "exports").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "exports", minio.MakeBucketOptions{}).Return(nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/health/storage?fix=true", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "fixed", body["status"])
	client.AssertCalled(t, "MakeBucket", mock.Anything, "exports", minio.MakeBucketOptions{})
}

func TestHandleStorage_CheckOnly(t *testing.T) {
	app, client := setupTestApp(t, http.StatusOK)
	client.On("BucketExists", mock.Anything, "exports").Return(true, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/health/storage", nil))
	require.NoError(t, err)

	var check checks.Check
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&check))
	assert.Equal(t, checks.StatusOK, check.Status)
	client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}
