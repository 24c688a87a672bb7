// Package config provides configuration management for the tracker comparer.
//
// Values come from environment variables, optionally overlaid by a .env
// file. Defaults live in the `default` struct tags of each section.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key and the metrics toggle
//   - Log: logging level and format
//   - Database: preferences store (sqlite or mysql)
//   - Storage: MinIO bucket for exported comparisons
//   - Fetch: timeouts, retry policy, concurrency and throttling for trackers
//   - Cookies: signed-in session cookies per tracking service
//   - Compare: export prefix and whether Steam joins comparisons by default
//
// Environment keys are SECTION_KEY, e.g. FETCH_MAX_ATTEMPTS or COOKIES_STEAM.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Fetch.MaxAttempts)
package config
