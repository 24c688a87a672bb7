// Package truesteamachievements reads started games from a
// TrueSteamAchievements gamer profile. TSA has no Steam id lookup, so the
// profile URL is supplied by the user, and TSA game ids are mapped to Steam
// app ids afterwards.
package truesteamachievements

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"tracker-comparer/core/fetch"
	"tracker-comparer/core/reconcile"
	"tracker-comparer/core/utils"
	"tracker-comparer/feature/trackers/steamhunters"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	Key            = "tsa"
	Name           = "TrueSteamAchievements"
	DefaultBaseURL = "https://truesteamachievements.com"
)

var (
	gamerIDPattern  = regexp.MustCompile(`gamerid=(\d+)`)
	urlNamePattern  = regexp.MustCompile(`game/([^/?#]+)`)
	gamePageAppLink = regexp.MustCompile(`app/(\d+)`)
)

// entry is a parsed games-list row before its Steam app id is known.
type entry struct {
	tsaID  int
	record reconcile.Record
}

// Tracker is the TrueSteamAchievements adapter.
type Tracker struct {
	client   *fetch.Client
	profile  reconcile.Profile
	baseURL  string
	resolver *steamhunters.AppIDResolver
	logger   *zap.Logger

	mu      sync.RWMutex
	gamerID string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithBaseURL points the adapter at another host.
func WithBaseURL(u string) Option {
	return func(t *Tracker) { t.baseURL = strings.TrimSuffix(u, "/") }
}

// WithResolver sets the TSA to Steam id resolver.
func WithResolver(r *steamhunters.AppIDResolver) Option {
	return func(t *Tracker) { t.resolver = r }
}

// WithLogger sets the logger used for ids that cannot be resolved.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// New creates a TrueSteamAchievements adapter.
func New(client *fetch.Client, profile reconcile.Profile, opts ...Option) *Tracker {
	t := &Tracker{client: client, profile: profile, baseURL: DefaultBaseURL, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	if t.resolver == nil {
		t.resolver = steamhunters.NewAppIDResolver(client, "")
	}
	return t
}

func (t *Tracker) Name() string { return Name }

// ProfileLink is empty: the profile is only known from the user's input.
func (t *Tracker) ProfileLink() string { return "" }

// TitleLink uses the TSA url name kept in Ref, falling back to the
// Steam app redirect page.
func (t *Tracker) TitleLink(r reconcile.Record) string {
	if r.Ref == "" {
		return fmt.Sprintf("%s/steamgame/%d?utm_campaign=userscript", t.baseURL, r.ID)
	}
	t.mu.RLock()
	gamerID := t.gamerID
	t.mu.RUnlock()
	return fmt.Sprintf("%s/game/%s/achievements?gamerid=%s&utm_campaign=userscript", t.baseURL, r.Ref, gamerID)
}

// GamesURL normalizes a profile reference into the gamer's games page.
// Bare gamer names are accepted.
func (t *Tracker) GamesURL(profileURL string) string {
	prefix := t.baseURL + "/gamer/"
	u := strings.TrimSuffix(strings.TrimSpace(profileURL), "/") + "/games?utm_campaign=userscript"
	if !strings.HasPrefix(u, prefix) {
		u = prefix + u
	}
	return u
}

// FetchStarted reads the full games list and maps every game to its Steam
// app id. Games whose id cannot be resolved are dropped.
func (t *Tracker) FetchStarted(ctx context.Context, params reconcile.Params) ([]reconcile.Record, error) {
	if params.ProfileURL == "" {
		return nil, reconcile.ErrProfileURLRequired
	}
	gamesURL := t.GamesURL(params.ProfileURL)

	page, err := t.client.Text(ctx, fetch.Request{URL: gamesURL})
	if err != nil {
		return nil, fmt.Errorf("tsa games page: %w", err)
	}
	m := gamerIDPattern.FindStringSubmatch(page)
	if m == nil {
		return nil, reconcile.Formatf("tsa: gamer id not found on %s", gamesURL)
	}
	t.mu.Lock()
	t.gamerID = m[1]
	t.mu.Unlock()

	listParams := "oGamerGamesList|oGamerGamesList_ItemsPerPage=99999999&txtGamerID=" + m[1]
	listURL := gamesURL + "&executeformfunction&function=AjaxList&params=" + url.QueryEscape(listParams)
	doc, err := t.client.Document(ctx, fetch.Request{URL: listURL})
	if err != nil {
		return nil, fmt.Errorf("tsa games list: %w", err)
	}

	entries := parseList(doc)
	if err := t.resolveIDs(ctx, entries); err != nil {
		return nil, err
	}

	records := make([]reconcile.Record, 0, len(entries))
	for _, e := range entries {
		if e.record.ID == 0 {
			t.logger.Warn("Dropping TSA game without a Steam app id",
				zap.Int("tsa_game_id", e.tsaID), zap.String("name", e.record.Name))
			continue
		}
		records = append(records, e.record)
	}
	return records, nil
}

// parseList reads the AjaxList table. The first row is the header and the
// last one the totals footer.
func parseList(doc *goquery.Document) []*entry {
	rows := doc.Find("tr")
	var entries []*entry
	for i := 1; i < rows.Length()-1; i++ {
		row := rows.Eq(i)
		cells := row.Children().Filter("td")
		if cells.Length() < 3 {
			continue
		}

		href, ok := row.Find(`a[href*="gameid="]`).First().Attr("href")
		if !ok {
			continue
		}
		tsaID := utils.ParseCount(utils.QueryParam(fetch.AbsURL(doc, href), "gameid"))

		first, _ := row.Find("a").First().Attr("href")
		ref := ""
		if m := urlNamePattern.FindStringSubmatch(first); m != nil {
			ref = m[1]
		}

		unlockedText, totalText, _ := strings.Cut(cells.Eq(2).Text(), " of ")
		unlocked := utils.ParseCount(unlockedText)
		total := utils.ParseCount(totalText)
		perfect := unlocked >= total

		entries = append(entries, &entry{
			tsaID: tsaID,
			record: reconcile.Record{
				Name:        strings.TrimSpace(cells.Eq(1).Text()),
				Unlocked:    unlocked,
				Total:       reconcile.IntPtr(total),
				IsPerfect:   reconcile.Bool(perfect),
				IsCompleted: reconcile.TrueOrUnknown(perfect),
				IsCounted:   perfect,
				Ref:         ref,
			},
		})
	}
	return entries
}

// resolveIDs fills record ids from the batch lookup, then scrapes the game
// page of whatever is left.
func (t *Tracker) resolveIDs(ctx context.Context, entries []*entry) error {
	ids := make([]int, len(entries))
	for i, e := range entries {
		ids[i] = e.tsaID
	}
	found, err := t.resolver.Resolve(ctx, ids)
	if err != nil {
		return err
	}

	var unset []*entry
	for _, e := range entries {
		if appID, ok := found[e.tsaID]; ok {
			e.record.ID = appID
		} else {
			unset = append(unset, e)
		}
	}

	errs := t.client.Pool().Run(ctx, len(unset), func(ctx context.Context, i int) error {
		e := unset[i]
		page, err := t.client.Text(ctx, fetch.Request{URL: t.TitleLink(e.record)})
		if err != nil {
			return err
		}
		if m := gamePageAppLink.FindStringSubmatch(page); m != nil {
			e.record.ID = utils.ParseCount(m[1])
		}
		return nil
	})
	for i, err := range errs {
		if err != nil {
			t.logger.Warn("TSA game page lookup failed", zap.Int("tsa_game_id", unset[i].tsaID), zap.Error(err))
		}
	}
	return nil
}
