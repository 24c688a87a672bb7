package steamhunters

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"tracker-comparer/core/fetch"
	"tracker-comparer/core/pool"
)

// BatchSize is the number of ids sent per app-ids request.
const BatchSize = 100

// AppIDResolver maps TrueSteamAchievements game ids to Steam app ids through
// the public Steam Hunters lookup.
type AppIDResolver struct {
	client  *fetch.Client
	baseURL string
}

// NewAppIDResolver creates a resolver. An empty baseURL means the public site.
func NewAppIDResolver(client *fetch.Client, baseURL string) *AppIDResolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &AppIDResolver{client: client, baseURL: baseURL}
}

// Resolve looks up ids in batches of BatchSize. Ids Steam Hunters does not
// know are absent from the result. A failed batch fails the whole call.
func (r *AppIDResolver) Resolve(ctx context.Context, tsaIDs []int) (map[int]int, error) {
	var batches [][]int
	for i := 0; i < len(tsaIDs); i += BatchSize {
		batches = append(batches, tsaIDs[i:min(i+BatchSize, len(tsaIDs))])
	}

	found, errs := pool.Map(ctx, r.client.Pool(), batches, func(ctx context.Context, batch []int) (map[string]int, error) {
		q := url.Values{}
		for _, id := range batch {
			q.Add("tsaGameIds", strconv.Itoa(id))
		}
		q.Set("utm_campaign", "userscript")

		var resp map[string]int
		if err := r.client.JSON(ctx, fetch.Request{URL: r.baseURL + "/api/apps/app-ids?" + q.Encode()}, &resp); err != nil {
			return nil, fmt.Errorf("steam hunters app ids: %w", err)
		}
		return resp, nil
	})
	if err := pool.FirstError(errs); err != nil {
		return nil, err
	}

	out := make(map[int]int)
	for _, m := range found {
		for k, appID := range m {
			tsaID, err := strconv.Atoi(k)
			if err != nil || appID <= 0 {
				continue
			}
			out[tsaID] = appID
		}
	}
	return out, nil
}
