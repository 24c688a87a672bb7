// Package trackers is the registry of tracking service adapters. Adapters
// are built per comparison from the player's profile.
package trackers

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"tracker-comparer/core/fetch"
	"tracker-comparer/core/reconcile"
	"tracker-comparer/feature/trackers/astats"
	"tracker-comparer/feature/trackers/completionist"
	"tracker-comparer/feature/trackers/exophase"
	"tracker-comparer/feature/trackers/metagamerscore"
	"tracker-comparer/feature/trackers/steamhunters"
	"tracker-comparer/feature/trackers/truesteamachievements"

	"go.uber.org/zap"
)

var (
	// ErrUnknownService is returned for a key no adapter is registered under.
	ErrUnknownService = errors.New("unknown service")
	// ErrOwnProfileOnly is returned when a service needs the player's own session.
	ErrOwnProfileOnly = errors.New("service is only available on your own profile")
)

// Deps are handed to every adapter factory.
type Deps struct {
	Client  *fetch.Client
	Profile reconcile.Profile
	Logger  *zap.Logger
}

// Entry describes one selectable service.
type Entry struct {
	Key             string `json:"key"`
	Name            string `json:"name"`
	NeedsProfileURL bool   `json:"needs_profile_url"`
	OwnProfileOnly  bool   `json:"own_profile_only"`

	Factory func(Deps) reconcile.Adapter `json:"-"`
}

var entries = []Entry{
	{
		Key:  astats.Key,
		Name: astats.Name,
		Factory: func(d Deps) reconcile.Adapter {
			return astats.New(d.Client, d.Profile)
		},
	},
	{
		Key:  completionist.Key,
		Name: completionist.Name,
		Factory: func(d Deps) reconcile.Adapter {
			return completionist.New(d.Client, d.Profile)
		},
	},
	{
		Key:            exophase.Key,
		Name:           exophase.Name,
		OwnProfileOnly: true,
		Factory: func(d Deps) reconcile.Adapter {
			return exophase.New(d.Client, d.Profile)
		},
	},
	{
		Key:  metagamerscore.Key,
		Name: metagamerscore.Name,
		Factory: func(d Deps) reconcile.Adapter {
			return metagamerscore.New(d.Client, d.Profile)
		},
	},
	{
		Key:  steamhunters.Key,
		Name: steamhunters.Name,
		Factory: func(d Deps) reconcile.Adapter {
			return steamhunters.New(d.Client, d.Profile)
		},
	},
	{
		Key:             truesteamachievements.Key,
		Name:            truesteamachievements.Name,
		NeedsProfileURL: true,
		Factory: func(d Deps) reconcile.Adapter {
			return truesteamachievements.New(d.Client, d.Profile, truesteamachievements.WithLogger(d.Logger))
		},
	},
}

// Available lists every registered service sorted by display name.
func Available() []Entry {
	out := append([]Entry(nil), entries...)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToUpper(out[i].Name) < strings.ToUpper(out[j].Name)
	})
	return out
}

// Lookup finds the entry registered under key.
func Lookup(key string) (Entry, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, e := range entries {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Build creates the adapters for keys in the given order. Repeated keys are
// built once.
func Build(keys []string, deps Deps) ([]reconcile.Adapter, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	seen := make(map[string]bool)
	var adapters []reconcile.Adapter
	for _, key := range keys {
		e, ok := Lookup(key)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownService, key)
		}
		if seen[e.Key] {
			continue
		}
		seen[e.Key] = true

		if e.OwnProfileOnly && !deps.Profile.Own {
			return nil, fmt.Errorf("%w: %s", ErrOwnProfileOnly, e.Name)
		}
		adapters = append(adapters, e.Factory(deps))
	}
	return adapters, nil
}
