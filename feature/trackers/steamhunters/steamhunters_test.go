package steamhunters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"tracker-comparer/core/fetch"
	"tracker-comparer/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchStarted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/steam-users/7656/licenses", r.URL.Path)
		assert.Equal(t, "started", r.URL.Query().Get("state"))
		_, _ = w.Write([]byte(`{
			"620": {"isInvalid": false, "achievementUnlockCount": 51, "isCompleted": true, "app": {"name": "Portal 2", "achievementCount": 51}},
			"400": {"isInvalid": true, "achievementUnlockCount": 15, "isCompleted": true, "app": {"name": "Portal", "achievementCount": 15, "isRestricted": true}},
			"70": {"isInvalid": false, "achievementUnlockCount": 2, "isCompleted": false, "app": {"name": "Half-Life", "achievementCount": 10}}
		}`))
	}))
	defer srv.Close()

	tr := New(fetch.New(fetch.Config{}), reconcile.Profile{SteamID: "7656"}, WithBaseURL(srv.URL))
	got, err := tr.FetchStarted(context.Background(), reconcile.Params{})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []int{70, 400, 620}, []int{got[0].ID, got[1].ID, got[2].ID})

	assert.Equal(t, reconcile.False, got[0].IsCompleted)
	assert.Equal(t, reconcile.True, got[0].IsTrusted)

	// Invalid licenses are completed but do not count.
	assert.Equal(t, reconcile.True, got[1].IsCompleted)
	assert.False(t, got[1].IsCounted)
	assert.Equal(t, reconcile.False, got[1].IsTrusted)

	assert.True(t, got[2].IsCounted)
	assert.Equal(t, "Portal 2", got[2].Name)
}

func TestRecoveryLink(t *testing.T) {
	tr := New(nil, reconcile.Profile{SteamID: "7656"})
	rec := tr.RecoveryLink([]reconcile.Record{{ID: 620, Unlocked: 51, Total: reconcile.IntPtr(51)}})

	assert.Equal(t, "https://steamhunters.com/profiles/7656/recover?utm_campaign=userscript", rec.URL)
	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, "2.0", rec.Form["version"])
	assert.JSONEq(t, `{"version":"2.0","apps":[{"appid":620,"unlocked":51,"total":51}]}`, rec.Form["apps"])
}

func TestAppIDResolver_Batches(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		ids := r.URL.Query()["tsaGameIds"]
		assert.LessOrEqual(t, len(ids), BatchSize)

		out := "{"
		for i, id := range ids {
			if i > 0 {
				out += ","
			}
			n, _ := strconv.Atoi(id)
			appID := n * 10
			if n == 5 {
				appID = 0
			}
			out += `"` + id + `":` + strconv.Itoa(appID)
		}
		_, _ = w.Write([]byte(out + "}"))
	}))
	defer srv.Close()

	ids := make([]int, 250)
	for i := range ids {
		ids[i] = i + 1
	}

	got, err := NewAppIDResolver(fetch.New(fetch.Config{}), srv.URL).Resolve(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Len(t, got, 249)
	assert.Equal(t, 10, got[1])
	assert.Equal(t, 2500, got[250])
	_, ok := got[5]
	assert.False(t, ok)
}
