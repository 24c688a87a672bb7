// Package astats reads started games from the AStats games table.
package astats

import (
	"context"
	"fmt"
	"strings"

	"tracker-comparer/core/fetch"
	"tracker-comparer/core/reconcile"
	"tracker-comparer/core/utils"

	"github.com/PuerkitoBio/goquery"
)

const (
	Key            = "astats"
	Name           = "AStats"
	DefaultBaseURL = "https://astats.astats.nl"
)

// Tracker is the AStats adapter.
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

// New creates an AStats adapter for profile.
func New(client *fetch.Client, profile reconcile.Profile, opts ...Option) *Tracker {
	t := &Tracker{client: client, profile: profile, baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Name() string { return Name }

func (t *Tracker) ProfileLink() string {
	return fmt.Sprintf("%s/astats/User_Info.php?steamID64=%s&utm_campaign=userscript", t.baseURL, t.profile.SteamID)
}

func (t *Tracker) TitleLink(r reconcile.Record) string {
	return fmt.Sprintf("%s/astats/Steam_Game_Info.php?AppID=%d&SteamID64=%s&utm_campaign=userscript", t.baseURL, r.ID, t.profile.SteamID)
}

// FetchStarted parses the achievements-only games table. Unlocked counts
// include achievements AStats marks invalid; the total cell reads
// "total - invalid" when some are.
func (t *Tracker) FetchStarted(ctx context.Context, _ reconcile.Params) ([]reconcile.Record, error) {
	u := fmt.Sprintf("%s/astats/User_Games.php?Limit=0&Hidden=1&AchievementsOnly=1&SteamID64=%s&utm_campaign=userscript", t.baseURL, t.profile.SteamID)
	doc, err := t.client.Document(ctx, fetch.Request{URL: u})
	if err != nil {
		return nil, fmt.Errorf("astats games: %w", err)
	}

	tables := doc.Find("table:not(.Pager)")
	if tables.Length() == 0 {
		return nil, reconcile.Formatf("astats: games table not found")
	}

	var records []reconcile.Record
	tables.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		if r, ok := parseRow(doc, row); ok {
			records = append(records, r)
		}
	})
	return records, nil
}

func parseRow(doc *goquery.Document, row *goquery.Selection) (reconcile.Record, bool) {
	cells := row.Children().Filter("td")
	if cells.Length() < 5 {
		return reconcile.Record{}, false
	}

	validUnlocked := utils.ParseCount(cells.Eq(2).Text())
	unlocked := validUnlocked + utils.ParseCount(cells.Eq(3).Text())
	if unlocked <= 0 {
		return reconcile.Record{}, false
	}

	parts := strings.Split(cells.Eq(4).Text(), " - ")
	total := utils.ParseCount(parts[0])
	if total <= 0 {
		return reconcile.Record{}, false
	}
	validTotal := total
	for _, p := range parts[1:] {
		validTotal -= utils.ParseCount(p)
	}

	href, ok := row.Find(`a[href*="AppID="]`).First().Attr("href")
	if !ok {
		return reconcile.Record{}, false
	}
	id := utils.ParseCount(utils.QueryParam(fetch.AbsURL(doc, href), "AppID"))
	if id <= 0 {
		return reconcile.Record{}, false
	}

	perfect := unlocked >= total
	completed := perfect || validUnlocked > 0 && validUnlocked >= validTotal
	return reconcile.Record{
		ID:          id,
		Name:        strings.TrimSpace(cells.Eq(1).Text()),
		Unlocked:    unlocked,
		Total:       reconcile.IntPtr(total),
		IsPerfect:   reconcile.Bool(perfect),
		IsCompleted: reconcile.Bool(completed),
		IsCounted:   completed,
	}, true
}
