package compare

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"tracker-comparer/core/fetch"
	"tracker-comparer/core/metrics"
	"tracker-comparer/core/reconcile"
	"tracker-comparer/core/storage"
	"tracker-comparer/feature/preferences"
	"tracker-comparer/feature/steam"
	"tracker-comparer/feature/trackers"

	"go.uber.org/zap"
)

var (
	// ErrSteamIDRequired is returned for requests without a Steam id.
	ErrSteamIDRequired = errors.New("steamid is required")
	// ErrStorageDisabled is returned when exports need a bucket and none is configured.
	ErrStorageDisabled = errors.New("export storage is not configured")
)

// Request describes one comparison.
type Request struct {
	SteamID       string   `json:"steamid"`
	ProfileURL    string   `json:"profile_url"`
	Persona       string   `json:"persona"`
	SessionID     string   `json:"sessionid"`
	Own           bool     `json:"own"`
	Services      []string `json:"services"`
	TSAProfileURL string   `json:"tsa_profile_url"`
}

// Adapters builds the trackers and host for one run.
type Adapters func(keys []string, deps trackers.Deps) ([]reconcile.Adapter, reconcile.HostPlatform, error)

// Service runs comparisons and exports.
type Service struct {
	cfg      Config
	fetchCfg fetch.Config
	cookies  fetch.CookieConfig
	engine   *reconcile.Engine
	storage  storage.Client
	bucket   string
	prefs    *preferences.Store
	logger   *zap.Logger
	metrics  *metrics.Recorder
	adapters Adapters
}

// Option configures a Service.
type Option func(*Service)

// WithStorage enables bucket exports.
func WithStorage(client storage.Client, bucket string) Option {
	return func(s *Service) {
		s.storage = client
		s.bucket = bucket
	}
}

// WithPreferences remembers manual profile URLs between runs.
func WithPreferences(store *preferences.Store) Option {
	return func(s *Service) { s.prefs = store }
}

// WithMetrics records fetch and comparison metrics.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAdapters replaces the registry-backed adapter builder.
func WithAdapters(a Adapters) Option {
	return func(s *Service) { s.adapters = a }
}

// NewService creates a compare service.
func NewService(cfg Config, fetchCfg fetch.Config, cookies fetch.CookieConfig, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		cfg:      cfg,
		fetchCfg: fetchCfg,
		cookies:  cookies,
		logger:   logger,
		adapters: buildAdapters,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = reconcile.NewEngine(reconcile.WithLogger(logger), reconcile.WithMetrics(s.metrics))
	return s
}

// buildAdapters builds registry trackers and the Steam host. The host key
// itself is not a tracker.
func buildAdapters(keys []string, deps trackers.Deps) ([]reconcile.Adapter, reconcile.HostPlatform, error) {
	var trackerKeys []string
	for _, k := range keys {
		if !IsHostKey(k) {
			trackerKeys = append(trackerKeys, k)
		}
	}
	adapters, err := trackers.Build(trackerKeys, deps)
	if err != nil {
		return nil, nil, err
	}
	return adapters, steam.New(deps.Client, deps.Profile), nil
}

// IsHostKey reports whether key selects the Steam host.
func IsHostKey(key string) bool {
	return strings.EqualFold(strings.TrimSpace(key), steam.Key)
}

// Services lists every selectable service including the host.
func Services() []trackers.Entry {
	host := trackers.Entry{Key: steam.Key, Name: steam.Name, OwnProfileOnly: true}
	return append(trackers.Available(), host)
}

// Compare runs one comparison.
func (s *Service) Compare(ctx context.Context, req Request) (*reconcile.Report, error) {
	if req.SteamID == "" {
		return nil, ErrSteamIDRequired
	}
	hostSelected := false
	for _, k := range req.Services {
		if IsHostKey(k) {
			hostSelected = true
		}
	}
	// Steam showcases are only readable with the owner's session.
	if hostSelected && !req.Own {
		return nil, fmt.Errorf("%w: %s", trackers.ErrOwnProfileOnly, steam.Name)
	}
	l := s.logger.With(zap.String("steamid", req.SteamID))

	profile := reconcile.Profile{
		SteamID:     req.SteamID,
		URL:         req.ProfileURL,
		PersonaName: req.Persona,
		SessionID:   req.SessionID,
		Own:         req.Own,
	}
	client := fetch.New(s.fetchCfg,
		fetch.WithLogger(l),
		fetch.WithMetrics(s.metrics),
		fetch.WithCookies(s.cookies.Hosts()))

	tsaURL, err := s.profileURL(ctx, req)
	if err != nil {
		return nil, err
	}

	adapters, host, err := s.adapters(req.Services, trackers.Deps{Client: client, Profile: profile, Logger: l})
	if err != nil {
		return nil, err
	}

	// compare.include_host only applies to the player's own profile. For
	// anyone else the host still resolves mismatched titles.
	includeHost := hostSelected || (s.cfg.IncludeHost && req.Own)

	return s.engine.Compare(ctx, reconcile.Request{
		Profile:     profile,
		Trackers:    adapters,
		Host:        host,
		IncludeHost: includeHost,
		Params:      reconcile.Params{ProfileURL: tsaURL},
	})
}

// profileURL returns the TSA profile URL for the run, remembering a
// supplied one and recalling the stored one when none is given.
func (s *Service) profileURL(ctx context.Context, req Request) (string, error) {
	if s.prefs == nil {
		return req.TSAProfileURL, nil
	}
	key := preferences.TSAProfileURLKey(req.SteamID)
	if req.TSAProfileURL != "" {
		if err := s.prefs.Set(ctx, key, req.TSAProfileURL); err != nil {
			s.logger.Warn("Failed to remember profile URL", zap.Error(err))
		}
		return req.TSAProfileURL, nil
	}
	value, _, err := s.prefs.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Failed to load remembered profile URL", zap.Error(err))
		return "", nil
	}
	return value, nil
}

// ExportCSV renders every pair of the report. Pairs are separated by a
// blank line.
func ExportCSV(report *reconcile.Report) ([]byte, error) {
	var buf bytes.Buffer
	for i, pair := range report.Pairs {
		if i > 0 {
			buf.WriteString("\n")
		}
		if err := reconcile.WriteCSV(&buf, pair); err != nil {
			return nil, fmt.Errorf("failed to write %s/%s csv: %w", pair.Source, pair.Target, err)
		}
	}
	return buf.Bytes(), nil
}

// ExportKey is the object key one pair is uploaded under.
func (s *Service) ExportKey(steamID string, pair reconcile.PairDiff) string {
	return path.Join(s.cfg.ExportPrefix, steamID, slug(pair.Source)+"_"+slug(pair.Target)+".csv")
}

// Upload writes one CSV per pair to the export bucket and returns the keys.
// Objects for the same profile and pair are overwritten.
func (s *Service) Upload(ctx context.Context, report *reconcile.Report) ([]string, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}
	if err := storage.EnsureBucket(ctx, s.storage, s.bucket, ""); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(report.Pairs))
	for _, pair := range report.Pairs {
		var buf bytes.Buffer
		if err := reconcile.WriteCSV(&buf, pair); err != nil {
			return nil, err
		}
		key := s.ExportKey(report.SteamID, pair)
		if err := storage.PutBytes(ctx, s.storage, s.bucket, key, "text/csv", buf.Bytes()); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	s.logger.Info("Uploaded comparison exports", zap.String("steamid", report.SteamID), zap.Int("objects", len(keys)))
	return keys, nil
}

// ListExports returns the uploaded export keys of a profile.
func (s *Service) ListExports(ctx context.Context, steamID string) ([]string, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}
	keys, err := storage.List(ctx, s.storage, s.bucket, path.Join(s.cfg.ExportPrefix, steamID)+"/")
	if err != nil {
		return nil, err
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}

// IsRequestError reports whether err was caused by the request itself.
func IsRequestError(err error) bool {
	return errors.Is(err, ErrSteamIDRequired) ||
		errors.Is(err, reconcile.ErrTooFewServices) ||
		errors.Is(err, trackers.ErrUnknownService) ||
		errors.Is(err, trackers.ErrOwnProfileOnly)
}

func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
