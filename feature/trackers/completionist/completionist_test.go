package completionist

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"tracker-comparer/core/fetch"
	"tracker-comparer/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(rows, pagination string) string {
	return `<html><body><table class="games-list"><tbody>` + rows + `</tbody></table>` + pagination + `</body></html>`
}

func row(id int, name, counts, extra string) string {
	return fmt.Sprintf(`<tr><td></td><td><a href="/steam/profile/7656/app/%d">%s</a>%s</td><td></td><td></td><td>%s</td></tr>`, id, name, extra, counts)
}

func TestFetchStarted_Paginated(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/steam/profile/7656/apps", r.URL.Path)
		assert.Equal(t, "started", r.URL.Query().Get("completion"))

		pagination := `<ul class="pagination"><li><a href="?page=2">2</a></li><li><a href="/steam/profile/7656/apps?display=flat&amp;page=3">3</a></li></ul>`
		switch r.URL.Query().Get("page") {
		case "":
			_, _ = w.Write([]byte(page(row(10, "Alpha", "12 / 15", "")+row(20, "Beta", "1,000 / 1,000", ""), pagination)))
		case "2":
			_, _ = w.Write([]byte(page(row(30, "Gamma", "5", `<i class="fa fa-spinner"></i>`), pagination)))
		case "3":
			_, _ = w.Write([]byte(page(row(40, "Delta", "0 / 3", ""), pagination)))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tr := New(fetch.New(fetch.Config{Concurrency: 2}), reconcile.Profile{SteamID: "7656"}, WithBaseURL(srv.URL))
	got, err := tr.FetchStarted(context.Background(), reconcile.Params{})
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	require.Len(t, got, 4)
	assert.Equal(t, []int{10, 20, 30, 40}, []int{got[0].ID, got[1].ID, got[2].ID, got[3].ID})

	assert.Equal(t, "Alpha", got[0].Name)
	assert.Equal(t, reconcile.False, got[0].IsPerfect)
	assert.Equal(t, reconcile.Unknown, got[0].IsCompleted)
	assert.Equal(t, reconcile.True, got[0].IsTrusted)

	assert.Equal(t, 1000, got[1].Unlocked)
	assert.Equal(t, reconcile.True, got[1].IsCompleted)
	assert.True(t, got[1].IsCounted)

	assert.Equal(t, 5, *got[2].Total)
	assert.Equal(t, reconcile.False, got[2].IsTrusted)
}

func TestFetchStarted_PageFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(page(row(1, "A", "1 / 2", ""), `<div class="pagination"><a href="?page=2">2</a></div>`)))
	}))
	defer srv.Close()

	tr := New(fetch.New(fetch.Config{}), reconcile.Profile{SteamID: "7656"}, WithBaseURL(srv.URL))
	_, err := tr.FetchStarted(context.Background(), reconcile.Params{})
	assert.True(t, fetch.IsStatus(err, http.StatusNotFound))
}

func TestRecoveryLink(t *testing.T) {
	tr := New(nil, reconcile.Profile{SteamID: "7656"})
	rec := tr.RecoveryLink([]reconcile.Record{{ID: 1}, {ID: 2}})
	assert.Equal(t, "https://completionist.me/steam/recover/profile", rec.URL)
	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, map[string]string{"app_ids": "1,2", "profile_id": "7656"}, rec.Form)

	assert.Equal(t, "https://completionist.me/steam/profile/7656/app/9?utm_campaign=userscript", tr.TitleLink(reconcile.Record{ID: 9}))
}
