// Package completionist reads started games from completionist.me.
package completionist

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"tracker-comparer/core/fetch"
	"tracker-comparer/core/pool"
	"tracker-comparer/core/reconcile"
	"tracker-comparer/core/utils"

	"github.com/PuerkitoBio/goquery"
)

const (
	Key            = "completionist"
	Name           = "completionist.me"
	DefaultBaseURL = "https://completionist.me"
)

// Tracker is the completionist.me adapter.
type Tracker struct {
	client  *fetch.Client
	profile reconcile.Profile
	baseURL string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithBaseURL points the adapter at another host.
func WithBaseURL(u string) Option {
	return func(t *Tracker) { t.baseURL = strings.TrimSuffix(u, "/") }
}

// New creates a completionist.me adapter for profile.
func New(client *fetch.Client, profile reconcile.Profile, opts ...Option) *Tracker {
	t := &Tracker{client: client, profile: profile, baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Name() string { return Name }

func (t *Tracker) ProfileLink() string {
	return fmt.Sprintf("%s/steam/profile/%s?utm_campaign=userscript", t.baseURL, t.profile.SteamID)
}

func (t *Tracker) TitleLink(r reconcile.Record) string {
	return fmt.Sprintf("%s/steam/profile/%s/app/%d?utm_campaign=userscript", t.baseURL, t.profile.SteamID, r.ID)
}

// RecoveryLink posts the app ids to the profile recovery form.
func (t *Tracker) RecoveryLink(games []reconcile.Record) *reconcile.Recovery {
	return &reconcile.Recovery{
		URL:    t.baseURL + "/steam/recover/profile",
		Method: http.MethodPost,
		Form: map[string]string{
			"app_ids":    reconcile.AppIDs(games),
			"profile_id": t.profile.SteamID,
		},
	}
}

// FetchStarted walks the flat started-games list. The first page tells how
// many pages follow; those are fetched through the client's pool.
func (t *Tracker) FetchStarted(ctx context.Context, _ reconcile.Params) ([]reconcile.Record, error) {
	listURL := fmt.Sprintf("%s/steam/profile/%s/apps?display=flat&sort=started&order=asc&completion=started&utm_campaign=userscript", t.baseURL, t.profile.SteamID)

	doc, err := t.client.Document(ctx, fetch.Request{URL: listURL})
	if err != nil {
		return nil, fmt.Errorf("completionist page 1: %w", err)
	}
	if doc.Find(".games-list").Length() == 0 {
		return nil, reconcile.Formatf("completionist: games list not found")
	}
	records := parsePage(doc)

	pageCount := 1
	if href, ok := doc.Find(".pagination a").Last().Attr("href"); ok {
		pageCount = utils.ParseCount(utils.QueryParam(fetch.AbsURL(doc, href), "page"))
	}
	if pageCount < 2 {
		return records, nil
	}

	pages := make([]int, 0, pageCount-1)
	for p := 2; p <= pageCount; p++ {
		pages = append(pages, p)
	}
	rest, errs := pool.Map(ctx, t.client.Pool(), pages, func(ctx context.Context, page int) ([]reconcile.Record, error) {
		doc, err := t.client.Document(ctx, fetch.Request{URL: fmt.Sprintf("%s&page=%d", listURL, page)})
		if err != nil {
			return nil, fmt.Errorf("completionist page %d: %w", page, err)
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
	doc.Find(".games-list tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Children().Filter("td")
		if cells.Length() < 5 {
			return
		}
		nameCell := cells.Eq(1)
		href, ok := nameCell.Find("a").First().Attr("href")
		if !ok {
			return
		}
		id := utils.ParseCount(utils.LastPathSegment(href))
		if id <= 0 {
			return
		}

		counts := cells.Eq(4).Text()
		unlocked, total, ok := utils.ParseFraction(counts)
		if !ok {
			// A lone number means every achievement is unlocked.
			unlocked = utils.ParseCount(counts)
			total = unlocked
		}
		perfect := unlocked >= total

		records = append(records, reconcile.Record{
			ID:          id,
			Name:        strings.TrimSpace(nameCell.Text()),
			Unlocked:    unlocked,
			Total:       reconcile.IntPtr(total),
			IsPerfect:   reconcile.Bool(perfect),
			IsCompleted: reconcile.TrueOrUnknown(perfect),
			IsCounted:   perfect,
			IsTrusted:   reconcile.Bool(nameCell.Find(".fa-spinner").Length() == 0),
		})
	})
	return records
}
