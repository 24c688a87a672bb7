// Package steamhunters reads started games from the Steam Hunters API.
package steamhunters

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"tracker-comparer/core/fetch"
	"tracker-comparer/core/reconcile"
)

const (
	Key            = "steamhunters"
	Name           = "Steam Hunters"
	DefaultBaseURL = "https://steamhunters.com"
)

type appDetails struct {
	Name             string `json:"name"`
	AchievementCount int    `json:"achievementCount"`
	IsRestricted     bool   `json:"isRestricted"`
}

type license struct {
	IsInvalid              bool       `json:"isInvalid"`
	AchievementUnlockCount int        `json:"achievementUnlockCount"`
	IsCompleted            bool       `json:"isCompleted"`
	App                    appDetails `json:"app"`
}

// Tracker is the Steam Hunters adapter.
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

// New creates a Steam Hunters adapter for profile.
func New(client *fetch.Client, profile reconcile.Profile, opts ...Option) *Tracker {
	t := &Tracker{client: client, profile: profile, baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Name() string { return Name }

func (t *Tracker) ProfileLink() string {
	return fmt.Sprintf("%s/profiles/%s?utm_campaign=userscript", t.baseURL, t.profile.SteamID)
}

func (t *Tracker) TitleLink(r reconcile.Record) string {
	return fmt.Sprintf("%s/profiles/%s/apps/%d?utm_campaign=userscript", t.baseURL, t.profile.SteamID, r.ID)
}

// RecoveryLink posts the recover payload to the profile recovery form.
func (t *Tracker) RecoveryLink(games []reconcile.Record) *reconcile.Recovery {
	return &reconcile.Recovery{
		URL:    fmt.Sprintf("%s/profiles/%s/recover?utm_campaign=userscript", t.baseURL, t.profile.SteamID),
		Method: http.MethodPost,
		Form: map[string]string{
			"version": reconcile.RecoverVersion,
			"apps":    reconcile.RecoverJSON(games),
		},
	}
}

// FetchStarted lists the started licenses. Records are ordered by app id.
func (t *Tracker) FetchStarted(ctx context.Context, _ reconcile.Params) ([]reconcile.Record, error) {
	u := fmt.Sprintf("%s/api/steam-users/%s/licenses?state=started&utm_campaign=userscript", t.baseURL, t.profile.SteamID)

	var licenses map[string]license
	if err := t.client.JSON(ctx, fetch.Request{URL: u}, &licenses); err != nil {
		return nil, fmt.Errorf("steam hunters licenses: %w", err)
	}

	records := make([]reconcile.Record, 0, len(licenses))
	for key, l := range licenses {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, reconcile.Formatf("steam hunters: bad app id %q", key)
		}
		records = append(records, reconcile.Record{
			ID:          id,
			Name:        l.App.Name,
			Unlocked:    l.AchievementUnlockCount,
			Total:       reconcile.IntPtr(l.App.AchievementCount),
			IsPerfect:   reconcile.Bool(l.AchievementUnlockCount >= l.App.AchievementCount),
			IsCompleted: reconcile.Bool(l.IsCompleted),
			IsCounted:   l.IsCompleted && !l.IsInvalid,
			IsTrusted:   reconcile.Bool(!l.App.IsRestricted),
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}
