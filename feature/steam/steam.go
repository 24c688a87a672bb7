// Package steam is the host platform collaborator. It answers the bulk
// started-games query from the profile showcases, and the per-title lookups
// the resolver falls back to for mismatched titles.
package steam

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"tracker-comparer/core/fetch"
	"tracker-comparer/core/pool"
	"tracker-comparer/core/reconcile"
	"tracker-comparer/core/utils"

	"github.com/goccy/go-json"
)

const (
	Key                  = "steam"
	Name                 = "Steam"
	DefaultStatsBaseURL  = "https://steamcommunity.com"
	favoriteGameShowcase = "6"
)

// stanleyDemoID is answered from the achievement showcase alone; its
// favorite-game preview has no progress line.
const stanleyDemoID = 247750

var (
	achievementShowcasePattern   = regexp.MustCompile(`g_rgAchievementShowcaseGamesWithAchievements = (.*);`)
	completionistShowcasePattern = regexp.MustCompile(`g_rgAchievementsCompletionshipShowcasePerfectGames = (.*);`)
	achievementsPattern          = regexp.MustCompile(`g_rgAchievements = ({.*});`)
	contentTitlePattern          = regexp.MustCompile(`'SetContentTitle', '(.*) Achievements'`)
	countPattern                 = regexp.MustCompile(`\d[\d,.]*`)
)

type showcaseGame struct {
	AppID           int    `json:"appid"`
	Name            string `json:"name"`
	NumAchievements int    `json:"num_achievements"`
}

type achievementTotals struct {
	Total       int `json:"total"`
	TotalClosed int `json:"totalClosed"`
}

// Host is the Steam community adapter.
type Host struct {
	client       *fetch.Client
	profile      reconcile.Profile
	statsBaseURL string
}

// Option configures a Host.
type Option func(*Host)

// WithStatsBaseURL points the public stats page at another host.
func WithStatsBaseURL(u string) Option {
	return func(h *Host) { h.statsBaseURL = strings.TrimSuffix(u, "/") }
}

// New creates the host adapter for profile.
func New(client *fetch.Client, profile reconcile.Profile, opts ...Option) *Host {
	h := &Host{client: client, profile: profile, statsBaseURL: DefaultStatsBaseURL}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Host) Name() string { return Name }

func (h *Host) ProfileLink() string { return h.profile.BaseURL() }

func (h *Host) TitleLink(r reconcile.Record) string {
	return fmt.Sprintf("%s/stats/%d?tab=achievements", h.profile.BaseURL(), r.ID)
}

// FetchStarted reads both achievement showcases and asks Steam for the
// counts of every id in params.TitleIDs plus the showcased games.
func (h *Host) FetchStarted(ctx context.Context, params reconcile.Params) ([]reconcile.Record, error) {
	doc, err := h.client.Document(ctx, fetch.Request{URL: h.profile.BaseURL() + "/edit/showcases"})
	if err != nil {
		return nil, fmt.Errorf("steam showcases: %w", err)
	}

	achievementGames, err := parseShowcase(doc.Find("#showcase_preview_17").Text(), achievementShowcasePattern)
	if err != nil {
		return nil, err
	}
	completionistGames, err := parseShowcase(doc.Find("#showcase_preview_23").Text(), completionistShowcasePattern)
	if err != nil {
		return nil, err
	}

	ids := unionIDs(params.TitleIDs, achievementGames, completionistGames)
	achievement := indexShowcase(achievementGames)
	completionist := indexShowcase(completionistGames)

	records, errs := pool.Map(ctx, h.client.Pool(), ids, func(ctx context.Context, id int) (reconcile.Record, error) {
		return h.startedGame(ctx, id, achievement, completionist)
	})
	if err := pool.FirstError(errs); err != nil {
		return nil, err
	}
	return records, nil
}

func (h *Host) startedGame(ctx context.Context, id int, achievement, completionist map[int]showcaseGame) (reconcile.Record, error) {
	if id == stanleyDemoID {
		unlocked, err := h.achievementShowcaseCount(ctx, id)
		if err != nil {
			return reconcile.Record{}, err
		}
		perfect := unlocked == 1
		return reconcile.Record{
			ID:          id,
			Name:        "The Stanley Parable Demo",
			Unlocked:    unlocked,
			Total:       reconcile.IntPtr(1),
			IsPerfect:   reconcile.Bool(perfect),
			IsCompleted: reconcile.Bool(perfect),
			IsCounted:   perfect,
			IsTrusted:   reconcile.True,
		}, nil
	}

	cGame, isCounted := completionist[id]
	aGame, isTrusted := achievement[id]

	unlocked, total, err := h.favoriteGameCounts(ctx, id)
	if err != nil {
		return reconcile.Record{}, err
	}
	if total == nil && isCounted {
		total = reconcile.IntPtr(cGame.NumAchievements)
	}
	if unlocked == nil {
		n, err := h.achievementShowcaseCount(ctx, id)
		if err != nil {
			return reconcile.Record{}, err
		}
		// The showcase caps its list; the completionist entry has the real count.
		if n == 9999 && isCounted {
			n = cGame.NumAchievements
		}
		unlocked = &n
	}

	name := aGame.Name
	if name == "" {
		name = cGame.Name
	}
	perfect := reconcile.PerfectFrom(*unlocked, total)
	return reconcile.Record{
		ID:          id,
		Name:        name,
		Unlocked:    *unlocked,
		Total:       total,
		IsPerfect:   perfect,
		IsCompleted: reconcile.TrueOrUnknown(perfect == reconcile.True),
		IsCounted:   isCounted,
		IsTrusted:   reconcile.Bool(isTrusted),
	}, nil
}

// favoriteGameCounts previews the favorite-game showcase for id. Both values
// are nil when the preview has no progress line.
func (h *Host) favoriteGameCounts(ctx context.Context, id int) (unlocked, total *int, err error) {
	form := url.Values{}
	form.Set("customization_type", favoriteGameShowcase)
	form.Set("sessionid", h.profile.SessionID)
	form.Set("slot_data", fmt.Sprintf(`{"0":{"appid":%d}}`, id))

	doc, err := h.client.Document(ctx, fetch.Request{
		Method: "POST",
		URL:    h.profile.BaseURL() + "/ajaxpreviewshowcase",
		Form:   form,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("steam favorite showcase %d: %w", id, err)
	}

	ellipsis := doc.Find(".ellipsis").First()
	if ellipsis.Length() == 0 {
		return nil, nil, nil
	}
	nums := countPattern.FindAllString(ellipsis.Text(), 2)
	if len(nums) < 2 {
		return nil, nil, nil
	}
	return reconcile.IntPtr(utils.ParseCount(nums[0])), reconcile.IntPtr(utils.ParseCount(nums[1])), nil
}

// achievementShowcaseCount counts the unlocked achievements the achievement
// showcase offers for id.
func (h *Host) achievementShowcaseCount(ctx context.Context, id int) (int, error) {
	u := fmt.Sprintf("%s/ajaxgetachievementsforgame/%d", h.profile.BaseURL(), id)
	doc, err := h.client.Document(ctx, fetch.Request{URL: u})
	if err != nil {
		return 0, fmt.Errorf("steam achievement showcase %d: %w", id, err)
	}

	list := doc.Find(".achievement_list")
	if list.Length() == 0 {
		if h3 := strings.TrimSpace(doc.Find("h3").First().Text()); h3 != "" {
			return 0, fmt.Errorf("steam achievement showcase %d: %s", id, h3)
		}
		return 0, reconcile.Formatf("steam: response is invalid: %s", u)
	}
	return list.Find(".achievement_list_item").Length(), nil
}

// LookupTitle parses the player's stats page for id.
func (h *Host) LookupTitle(ctx context.Context, id int) (*reconcile.Record, error) {
	body, err := h.client.Text(ctx, fetch.Request{
		URL:    fmt.Sprintf("%s/stats/%d/achievements?l=english", h.profile.BaseURL(), id),
		Header: map[string]string{"X-ValveUserAgent": "panorama"},
	})
	if err != nil {
		return nil, fmt.Errorf("steam stats %d: %w", id, err)
	}

	m := achievementsPattern.FindStringSubmatch(body)
	if m == nil {
		return nil, nil
	}
	var totals achievementTotals
	if err := json.Unmarshal([]byte(m[1]), &totals); err != nil {
		return nil, reconcile.Formatf("steam stats %d: %v", id, err)
	}

	perfect := totals.TotalClosed >= totals.Total
	r := &reconcile.Record{
		ID:          id,
		Unlocked:    totals.TotalClosed,
		Total:       reconcile.IntPtr(totals.Total),
		IsPerfect:   reconcile.Bool(perfect),
		IsCompleted: reconcile.TrueOrUnknown(perfect),
		IsCounted:   perfect,
	}
	if t := contentTitlePattern.FindStringSubmatch(body); t != nil {
		r.Name = t[1]
	}
	return r, nil
}

// CountAchievementRows counts the rows of the public global stats page.
func (h *Host) CountAchievementRows(ctx context.Context, id int) (int, error) {
	doc, err := h.client.Document(ctx, fetch.Request{
		URL:       h.statsBaseURL + "/stats/" + strconv.Itoa(id) + "/achievements",
		Anonymous: true,
	})
	if err != nil {
		return 0, fmt.Errorf("steam global stats %d: %w", id, err)
	}
	return doc.Find(".achieveRow").Length(), nil
}

// Validate flags records that break Steam's own completionist rules.
func (h *Host) Validate(r reconcile.Record) []string {
	var msgs []string
	if r.IsCounted {
		if r.IsPerfect == reconcile.False {
			msgs = append(msgs, "counted but not perfect on Steam")
		}
		if r.IsTrusted == reconcile.False {
			msgs = append(msgs, "counted but not trusted on Steam")
		}
	} else if r.IsPerfect == reconcile.True && r.IsTrusted == reconcile.True {
		msgs = append(msgs, "perfect & trusted but not counted on Steam")
	}
	return msgs
}

func parseShowcase(script string, pattern *regexp.Regexp) ([]showcaseGame, error) {
	m := pattern.FindStringSubmatch(script)
	if m == nil {
		return nil, reconcile.Formatf("steam: showcase data not found")
	}
	var games []showcaseGame
	if err := json.Unmarshal([]byte(m[1]), &games); err != nil {
		return nil, reconcile.Formatf("steam: showcase data: %v", err)
	}
	return games, nil
}

func indexShowcase(games []showcaseGame) map[int]showcaseGame {
	out := make(map[int]showcaseGame, len(games))
	for _, g := range games {
		if _, ok := out[g.AppID]; !ok {
			out[g.AppID] = g
		}
	}
	return out
}

// unionIDs keeps first-seen order: requested ids, then the showcases.
func unionIDs(requested []int, showcases ...[]showcaseGame) []int {
	seen := make(map[int]bool)
	var ids []int
	add := func(id int) {
		if id > 0 && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, id := range requested {
		add(id)
	}
	for _, games := range showcases {
		for _, g := range games {
			add(g.AppID)
		}
	}
	return ids
}
