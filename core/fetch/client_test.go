package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(attempts int, opts ...Option) *Client {
	opts = append([]Option{WithBackoffStep(time.Millisecond)}, opts...)
	return New(Config{MaxAttempts: attempts, TimeoutSeconds: 5, Concurrency: 2}, opts...)
}

func TestDo_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	resp, err := testClient(10).Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(resp.Body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDo_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(4).Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusServiceUnavailable))
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestDo_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(10).Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.False(t, IsStatus(err, http.StatusUnauthorized))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDo_RetriesTooManyRequests(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := testClient(3).Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDo_InjectsCookiesAndForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		_, _ = w.Write([]byte(r.Header.Get("Cookie") + "|" + r.PostForm.Get("sessionid") + "|" + r.Header.Get("X-Test")))
	}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	c := testClient(1, WithCookies(map[string]string{u.Hostname(): "sid=abc"}))

	text, err := c.Text(context.Background(), Request{
		Method: http.MethodPost,
		URL:    srv.URL,
		Header: map[string]string{"Cookie": "game_view=thumb", "X-Test": "1"},
		Form:   url.Values{"sessionid": {"s1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "game_view=thumb; sid=abc|s1|1", text)

	text, err = c.Text(context.Background(), Request{URL: srv.URL, Anonymous: true})
	require.NoError(t, err)
	assert.Equal(t, "||", text)
}

func TestJSON_And_Document(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token":"t-1"}`))
	})
	mux.HandleFunc("/html", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><ul><li class="row">a</li><li class="row">b</li></ul></body></html>`))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := testClient(1)

	var v struct {
		Token string `json:"token"`
	}
	require.NoError(t, c.JSON(context.Background(), Request{URL: srv.URL + "/json"}, &v))
	assert.Equal(t, "t-1", v.Token)

	assert.Error(t, c.JSON(context.Background(), Request{URL: srv.URL + "/broken"}, &v))

	doc, err := c.Document(context.Background(), Request{URL: srv.URL + "/html"})
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Find(".row").Length())
	assert.Equal(t, "/html", doc.Url.Path)
}

func TestFinalURL_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/steam/id/1", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/user/4242", http.StatusFound)
	})
	mux.HandleFunc("/user/4242", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	u, err := testClient(1).FinalURL(context.Background(), srv.URL+"/steam/id/1")
	require.NoError(t, err)
	assert.Equal(t, "/user/4242", u.Path)
}

func TestDo_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := New(Config{MaxAttempts: 1, RequestsPerSecond: 20, Burst: 1})
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.Get(context.Background(), srv.URL)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestCookieHosts(t *testing.T) {
	hosts := CookieConfig{Steam: "a", Exophase: "b"}.Hosts()
	assert.Equal(t, map[string]string{"steamcommunity.com": "a", "exophase.com": "b"}, hosts)

	c := testClient(1, WithCookies(hosts))
	assert.Equal(t, "b", c.cookieFor("api.exophase.com"))
	assert.Equal(t, "a", c.cookieFor("steamcommunity.com"))
	assert.Equal(t, "", c.cookieFor("notexophase.com"))
}
