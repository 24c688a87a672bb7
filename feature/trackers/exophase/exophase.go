// Package exophase reads started games from the Exophase account API.
// It needs a signed-in Exophase session cookie.
package exophase

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"tracker-comparer/core/fetch"
	"tracker-comparer/core/reconcile"
)

const (
	Key               = "exophase"
	Name              = "Exophase"
	DefaultBaseURL    = "https://www.exophase.com"
	DefaultAPIBaseURL = "https://api.exophase.com"
)

type credentials struct {
	Token string `json:"token"`
}

type service struct {
	CanonicalID string `json:"canonical_id"`
	Environment string `json:"environment"`
}

type game struct {
	CanonicalID  string `json:"canonical_id"`
	Title        string `json:"title"`
	EarnedAwards int    `json:"earned_awards"`
	TotalAwards  int    `json:"total_awards"`
}

type overview struct {
	Success  bool              `json:"success"`
	Services []service        `json:"services"`
	Games    map[string][]game `json:"games"`
}

// Tracker is the Exophase adapter.
type Tracker struct {
	client     *fetch.Client
	profile    reconcile.Profile
	baseURL    string
	apiBaseURL string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithBaseURL points the website calls at another host.
func WithBaseURL(u string) Option {
	return func(t *Tracker) { t.baseURL = strings.TrimSuffix(u, "/") }
}

// WithAPIBaseURL points the API calls at another host.
func WithAPIBaseURL(u string) Option {
	return func(t *Tracker) { t.apiBaseURL = strings.TrimSuffix(u, "/") }
}

// New creates an Exophase adapter for profile.
func New(client *fetch.Client, profile reconcile.Profile, opts ...Option) *Tracker {
	t := &Tracker{client: client, profile: profile, baseURL: DefaultBaseURL, apiBaseURL: DefaultAPIBaseURL}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Name() string { return Name }

func (t *Tracker) ProfileLink() string {
	return fmt.Sprintf("%s/steam/id/%s?utm_campaign=userscript", t.baseURL, t.profile.SteamID)
}

func (t *Tracker) TitleLink(r reconcile.Record) string {
	return fmt.Sprintf("%s/steam/game/id/%d/stats/%s?utm_campaign=userscript", t.baseURL, r.ID, t.profile.SteamID)
}

// SignInLink is where the user signs in to Exophase.
func (t *Tracker) SignInLink() string {
	return t.baseURL + "/login/"
}

// RecoveryLink opens the account tools page; Exophase takes no parameters.
func (t *Tracker) RecoveryLink(_ []reconcile.Record) *reconcile.Recovery {
	return &reconcile.Recovery{URL: t.baseURL + "/account/#tools", Method: http.MethodGet}
}

// FetchStarted exchanges the session for an API token and lists the Steam
// games of the signed-in account. A session for a different Steam account
// is treated as not signed in.
func (t *Tracker) FetchStarted(ctx context.Context, _ reconcile.Params) ([]reconcile.Record, error) {
	var creds credentials
	err := t.client.JSON(ctx, fetch.Request{URL: t.baseURL + "/account/token?utm_campaign=userscript"}, &creds)
	if err != nil || creds.Token == "" {
		return nil, &reconcile.SignInError{Link: t.SignInLink()}
	}

	var ov overview
	err = t.client.JSON(ctx, fetch.Request{
		URL:    t.apiBaseURL + "/account/games?filter=steam&utm_campaign=userscript",
		Header: map[string]string{"Authorization": "Bearer " + creds.Token},
	}, &ov)
	if err != nil {
		return nil, fmt.Errorf("exophase games: %w", err)
	}

	if linked(ov.Services) != t.profile.SteamID {
		return nil, &reconcile.SignInError{Link: t.SignInLink(), As: t.profile.PersonaName}
	}

	games := ov.Games["steam"]
	records := make([]reconcile.Record, 0, len(games))
	for _, g := range games {
		id, err := strconv.Atoi(g.CanonicalID)
		if err != nil {
			return nil, reconcile.Formatf("exophase: bad canonical id %q", g.CanonicalID)
		}
		perfect := g.EarnedAwards >= g.TotalAwards
		records = append(records, reconcile.Record{
			ID:          id,
			Name:        g.Title,
			Unlocked:    g.EarnedAwards,
			Total:       reconcile.IntPtr(g.TotalAwards),
			IsPerfect:   reconcile.Bool(perfect),
			IsCompleted: reconcile.TrueOrUnknown(perfect),
			IsCounted:   perfect,
		})
	}
	return records, nil
}

func linked(services []service) string {
	for _, s := range services {
		if s.Environment == "steam" {
			return s.CanonicalID
		}
	}
	return ""
}
