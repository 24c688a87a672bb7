// Package fetch is the HTTP client shared by every service adapter.
//
// It owns the network policy the reconciliation engine relies on but does
// not implement itself:
//
//   - Retries with linear backoff (attempt n waits n*step) up to a fixed
//     attempt ceiling, via sethvargo/go-retry. Transport failures, 429 and
//     5xx responses are retried; other 4xx responses fail immediately.
//   - An optional per-host token bucket (golang.org/x/time/rate).
//   - Session cookies injected per host suffix, so adapters that need a
//     signed-in session never handle credentials themselves.
//   - HTML documents parsed with golang.org/x/net/html and wrapped in a
//     goquery.Document for selector-based scraping.
//
// # Usage
//
//	client := fetch.New(cfg.Fetch, fetch.WithCookies(cfg.Cookies.Hosts()))
//	doc, err := client.Document(ctx, fetch.Request{URL: u})
package fetch
