package checks

import (
	"context"
	"net/http"

	"tracker-comparer/core/fetch"
	"tracker-comparer/core/pool"
	"tracker-comparer/feature/steam"
	"tracker-comparer/feature/trackers/astats"
	"tracker-comparer/feature/trackers/completionist"
	"tracker-comparer/feature/trackers/exophase"
	"tracker-comparer/feature/trackers/metagamerscore"
	"tracker-comparer/feature/trackers/steamhunters"
	"tracker-comparer/feature/trackers/truesteamachievements"
)

// Target is a service whose site should answer.
type Target struct {
	Name string
	URL  string
}

// DefaultTargets are the public sites every adapter talks to.
func DefaultTargets() []Target {
	return []Target{
		{astats.Name, astats.DefaultBaseURL},
		{completionist.Name, completionist.DefaultBaseURL},
		{exophase.Name, exophase.DefaultBaseURL},
		{metagamerscore.Name, metagamerscore.DefaultBaseURL},
		{steamhunters.Name, steamhunters.DefaultBaseURL},
		{truesteamachievements.Name, truesteamachievements.DefaultBaseURL},
		{steam.Name, steam.DefaultStatsBaseURL},
	}
}

// CheckTrackers probes every target with a HEAD request. A site that rejects
// HEAD still counts as reachable.
func CheckTrackers(ctx context.Context, client *fetch.Client, targets []Target) []Check {
	out, _ := pool.Map(ctx, client.Pool(), targets, func(ctx context.Context, t Target) (Check, error) {
		_, err := client.FinalURL(ctx, t.URL)
		switch {
		case err == nil:
			return Check{Name: t.Name, Status: StatusOK, Detail: t.URL}, nil
		case fetch.IsStatus(err, http.StatusForbidden, http.StatusMethodNotAllowed):
			return Check{Name: t.Name, Status: StatusWarning, Detail: err.Error()}, nil
		default:
			return failed(t.Name, err), nil
		}
	})
	return out
}
