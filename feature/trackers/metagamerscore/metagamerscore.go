// Package metagamerscore reads started Steam games from MetaGamerScore.
package metagamerscore

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"tracker-comparer/core/fetch"
	"tracker-comparer/core/pool"
	"tracker-comparer/core/reconcile"
	"tracker-comparer/core/utils"

	"github.com/PuerkitoBio/goquery"
)

const (
	Key            = "metagamerscore"
	Name           = "MetaGamerScore"
	DefaultBaseURL = "https://metagamerscore.com"
)

// viewCookie switches the games list to thumbnails and hides every
// non-Steam platform.
const viewCookie = "game_view=thumb; hide_pfs=[1,3,4,5,6,7,8,9,10,11,12,13,14]"

// Tracker is the MetaGamerScore adapter. Title links need the internal user
// id, which is only known after FetchStarted ran.
type Tracker struct {
	client  *fetch.Client
	profile reconcile.Profile
	baseURL string

	mu     sync.RWMutex
	userID string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithBaseURL points the adapter at another host.
func WithBaseURL(u string) Option {
	return func(t *Tracker) { t.baseURL = strings.TrimSuffix(u, "/") }
}

// New creates a MetaGamerScore adapter for profile.
func New(client *fetch.Client, profile reconcile.Profile, opts ...Option) *Tracker {
	t := &Tracker{client: client, profile: profile, baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Name() string { return Name }

func (t *Tracker) ProfileLink() string {
	return fmt.Sprintf("%s/steam/id/%s?utm_campaign=userscript", t.baseURL, t.profile.SteamID)
}

// TitleLink filters the user's games list by name. It is empty until the
// user id is known or when the record has no name.
func (t *Tracker) TitleLink(r reconcile.Record) string {
	t.mu.RLock()
	uid := t.userID
	t.mu.RUnlock()
	if uid == "" || r.Name == "" {
		return ""
	}
	filter := strings.ReplaceAll(url.QueryEscape(r.Name), "+", "%20")
	return fmt.Sprintf("%s/my_games?user=%s&filter=%s&utm_campaign=userscript", t.baseURL, uid, filter)
}

// RecoveryLink opens the Steam reconcile page.
func (t *Tracker) RecoveryLink(_ []reconcile.Record) *reconcile.Recovery {
	return &reconcile.Recovery{URL: t.baseURL + "/steam/index_reconcile", Method: http.MethodGet}
}

// FetchStarted resolves the user id from the profile redirect and walks the
// thumbnail games list. An empty first page is retried without the session
// cookie, since a signed-in session shows the viewer's own list settings.
func (t *Tracker) FetchStarted(ctx context.Context, _ reconcile.Params) ([]reconcile.Record, error) {
	final, err := t.client.FinalURL(ctx, t.ProfileLink())
	if err != nil {
		return nil, fmt.Errorf("metagamerscore profile: %w", err)
	}
	segments := strings.Split(final.Path, "/")
	if len(segments) < 3 || segments[2] == "" {
		return nil, reconcile.Formatf("metagamerscore: no user id in %s", final.Path)
	}
	t.mu.Lock()
	t.userID = segments[2]
	t.mu.Unlock()

	gamesURL := fmt.Sprintf("%s/my_games?user=%s&utm_campaign=userscript", t.baseURL, segments[2])
	req := fetch.Request{URL: gamesURL, Header: map[string]string{"Cookie": viewCookie}}

	doc, err := t.client.Document(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("metagamerscore page 1: %w", err)
	}
	records := parsePage(doc)

	if len(records) == 0 {
		req = fetch.Request{URL: gamesURL, Anonymous: true}
		if doc, err = t.client.Document(ctx, req); err != nil {
			return nil, fmt.Errorf("metagamerscore page 1: %w", err)
		}
		records = parsePage(doc)
	}

	pageCount := 1
	if href, ok := doc.Find(".last a").First().Attr("href"); ok {
		pageCount = utils.ParseCount(utils.QueryParam(fetch.AbsURL(doc, href), "page"))
	}

	pages := make([]int, 0)
	for p := 2; p <= pageCount; p++ {
		pages = append(pages, p)
	}
	rest, errs := pool.Map(ctx, t.client.Pool(), pages, func(ctx context.Context, page int) ([]reconcile.Record, error) {
		r := req
		r.URL = fmt.Sprintf("%s&page=%d", gamesURL, page)
		doc, err := t.client.Document(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("metagamerscore page %d: %w", page, err)
		}
		return parsePage(doc), nil
	})
	if err := pool.FirstError(errs); err != nil {
		return nil, err
	}
	for _, r := range rest {
		records = append(records, r...)
	}
	return records, nil
}

func parsePage(doc *goquery.Document) []reconcile.Record {
	var records []reconcile.Record
	doc.Find("#masonry-container > div").Each(func(_ int, thumb *goquery.Selection) {
		if !thumb.Find(".pfSm").First().HasClass("pfTSteam") {
			return
		}

		data := thumb.Find(".completiondata")
		if data.Length() < 2 {
			return
		}
		unlocked := utils.ParseCount(data.Eq(0).Text())
		total := utils.ParseCount(data.Eq(1).Text())
		if unlocked <= 0 {
			return
		}

		src, ok := thumb.Find(".gt_image").First().Attr("src")
		if !ok {
			return
		}
		_, imagePath, found := strings.Cut(src, "/apps/")
		if !found {
			return
		}
		id := utils.ParseCount(strings.Split(imagePath, "/")[0])
		if id <= 0 {
			return
		}

		perfect := unlocked >= total
		records = append(records, reconcile.Record{
			ID:          id,
			Name:        strings.TrimSpace(thumb.Find(".sort_gt_tt a").First().Text()),
			Unlocked:    unlocked,
			Total:       reconcile.IntPtr(total),
			IsPerfect:   reconcile.Bool(perfect),
			IsCompleted: reconcile.TrueOrUnknown(perfect),
			IsCounted:   perfect,
		})
	})
	return records
}
