package reconcile

import (
	"context"
	"strings"
)

// Profile is the player identity every adapter is constructed with.
type Profile struct {
	// SteamID is the 64-bit Steam id as a decimal string.
	SteamID string `json:"steamid"`

	// URL is the Steam community profile URL, with or without a trailing slash.
	URL string `json:"url"`

	// PersonaName is the player's display name, used in sign-in prompts.
	PersonaName string `json:"persona"`

	// SessionID is the Steam session id used by the host platform's form posts.
	SessionID string `json:"-"`

	// Own is true when the signed-in user is looking at their own profile.
	// Recovery links are only offered in that case.
	Own bool `json:"own"`
}

// BaseURL returns the profile URL without a trailing slash.
func (p Profile) BaseURL() string {
	if p.URL != "" {
		return strings.TrimSuffix(p.URL, "/")
	}
	return "https://steamcommunity.com/profiles/" + p.SteamID
}

// Params carries the per-run inputs an adapter may need.
type Params struct {
	// ProfileURL is the manual profile reference for services that cannot
	// derive one from the Steam id.
	ProfileURL string

	// TitleIDs is the id set the host platform's bulk endpoint is queried with.
	TitleIDs []int
}

// TitleLinker builds per-title deep links.
type TitleLinker interface {
	// TitleLink returns the deep link for the record, or "" when unavailable.
	TitleLink(r Record) string
}

// Adapter is implemented once per tracking service.
type Adapter interface {
	TitleLinker

	// Name returns the display name of the service (e.g. "Steam Hunters").
	Name() string

	// ProfileLink returns the player's page on the service, or "" when the
	// service has no stable per-profile URL.
	ProfileLink() string

	// FetchStarted returns every title the player has started on the service.
	// Implementations return a *SignInError when authentication is missing and
	// a *FormatError when the upstream response cannot be parsed.
	FetchStarted(ctx context.Context, params Params) ([]Record, error)
}

// Validator is implemented by the ground-truth service to flag records that
// break its own scoring policy.
type Validator interface {
	Validate(r Record) []string
}

// Recoverer is implemented by services that accept a rescan request for
// specific titles.
type Recoverer interface {
	RecoveryLink(games []Record) *Recovery
}

// HostPlatform is the ground-truth service. Besides the bulk started-games
// query it can be asked about single titles.
type HostPlatform interface {
	Adapter

	// LookupTitle parses the player's per-title achievements page.
	// It returns nil without error when the page has no parseable data.
	LookupTitle(ctx context.Context, id int) (*Record, error)

	// CountAchievementRows counts the achievements listed on the public,
	// unauthenticated page of a title.
	CountAchievementRows(ctx context.Context, id int) (int, error)
}
