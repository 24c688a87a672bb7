package checks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tracker-comparer/core/database"
	"tracker-comparer/core/fetch"
	"tracker-comparer/core/storage/mocks"
	"tracker-comparer/feature/preferences"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCheckBucket(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, StatusDisabled, CheckBucket(ctx, nil, "b").Status)

	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "ok").Return(true, nil)
	client.On("BucketExists", mock.Anything, "gone").Return(false, nil)
	client.On("BucketExists", mock.Anything, "broken").Return(false, assert.AnError)

	assert.Equal(t, StatusOK, CheckBucket(ctx, client, "ok").Status)

	gone := CheckBucket(ctx, client, "gone")
	assert.Equal(t, StatusWarning, gone.Status)
	assert.Equal(t, []string{"gone"}, gone.Missing)

	broken := CheckBucket(ctx, client, "broken")
	assert.Equal(t, StatusError, broken.Status)
	assert.Contains(t, broken.Detail, "failed to check bucket existence")
}

func TestFixBucket(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "gone").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "gone", minio.MakeBucketOptions{Region: "eu"}).Return(nil)

	require.NoError(t, FixBucket(context.Background(), client, "gone", "eu"))
	client.AssertExpectations(t)

	assert.Error(t, FixBucket(context.Background(), nil, "gone", ""))
}

func TestCheckDatabase(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, StatusDisabled, CheckDatabase(ctx, nil).Status)

	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE preferences (key TEXT PRIMARY KEY, value TEXT)").Error)

	stale := CheckDatabase(ctx, db)
	assert.Equal(t, StatusWarning, stale.Status)
	assert.Equal(t, []string{"updated_at"}, stale.Missing)

	fresh, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, preferences.NewStore(fresh).Migrate())
	current := CheckDatabase(ctx, fresh)
	assert.Equal(t, StatusOK, current.Status)
	assert.Equal(t, "sqlite", current.Detail)
}

func TestCheckTrackers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/nohead", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
	mux.HandleFunc("/down", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	got := CheckTrackers(context.Background(), fetch.New(fetch.Config{}), []Target{
		{"Up", srv.URL + "/up"},
		{"No HEAD", srv.URL + "/nohead"},
		{"Down", srv.URL + "/down"},
	})
	require.Len(t, got, 3)
	assert.Equal(t, StatusOK, got[0].Status)
	assert.Equal(t, StatusWarning, got[1].Status)
	assert.Equal(t, StatusError, got[2].Status)
	assert.Equal(t, "Down", got[2].Name)
}

func TestDefaultTargets(t *testing.T) {
	targets := DefaultTargets()
	require.Len(t, targets, 7)
	for _, target := range targets {
		assert.NotEmpty(t, target.Name)
		assert.Contains(t, target.URL, "https://")
	}
}
