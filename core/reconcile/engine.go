package reconcile

import (
	"context"
	"sort"
	"time"

	"tracker-comparer/core/metrics"
	"tracker-comparer/core/pool"

	"go.uber.org/zap"
)

// Request describes one comparison run.
type Request struct {
	// Profile is the player being compared.
	Profile Profile

	// Trackers are the selected tracking services.
	Trackers []Adapter

	// Host is the ground-truth platform. It is always used for fallback
	// resolution when set, and takes part as a compared service only when
	// IncludeHost is true.
	Host        HostPlatform
	IncludeHost bool

	// Params are passed to every adapter.
	Params Params
}

// Engine runs comparisons.
type Engine struct {
	logger  *zap.Logger
	metrics *metrics.Recorder
	pool    *pool.Pool
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithPool sets the pool used for fallback resolution.
func WithPool(p *pool.Pool) Option {
	return func(e *Engine) { e.pool = p }
}

// NewEngine creates an engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger: zap.NewNop(),
		pool:   pool.New(pool.DefaultLimit),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compare collects every selected service, resolves mismatched titles and
// builds the report. Only a selection of fewer than two services is an
// error; service failures are reported per service.
func (e *Engine) Compare(ctx context.Context, req Request) (*Report, error) {
	adapters := append([]Adapter{}, req.Trackers...)
	if req.IncludeHost && req.Host != nil {
		adapters = append(adapters, req.Host)
	}
	if len(adapters) < 2 {
		return nil, ErrTooFewServices
	}

	start := e.now()
	l := e.logger.With(zap.String("steamid", req.Profile.SteamID))
	l.Info("Starting comparison", zap.Int("services", len(adapters)))

	results := Collect(ctx, req.Trackers, req.Params, l, e.metrics)

	// The host's bulk query needs the ids the trackers know about.
	if req.IncludeHost && req.Host != nil {
		params := req.Params
		params.TitleIDs = UnionIDs(results)
		results = append(results, Collect(ctx, []Adapter{req.Host}, params, l, e.metrics)...)
	}

	hostName := ""
	if req.Host != nil {
		hostName = req.Host.Name()
	}

	report := &Report{
		SteamID:       req.Profile.SteamID,
		GeneratedAt:   start,
		Results:       results,
		Mismatched:    []int{},
		Authoritative: []Record{},
		Pairs:         []PairDiff{},
		Violations:    validate(results, adapters),
	}
	opts := SummaryOptions{Host: hostName, Own: req.Profile.Own}

	withData := 0
	for _, res := range results {
		if res.HasData() {
			withData++
		}
	}

	if withData < 2 {
		l.Warn("Fewer than two services returned data", zap.Int("with_data", withData))
		report.Insufficient = true
		opts.Insufficient = true
		report.Summaries = Summarize(results, adapters, nil, nil, opts)
		return e.finish(report, start, l), nil
	}

	mismatched := FindMismatches(results)
	l.Info("Detected mismatched titles", zap.Int("mismatched", len(mismatched)))

	resolver := NewResolver(req.Host, e.pool, l, e.metrics)
	authoritative := resolver.ResolveAll(ctx, mismatched, results)

	report.Mismatched = mismatched
	for _, rec := range authoritative {
		report.Authoritative = append(report.Authoritative, rec)
	}
	sort.Slice(report.Authoritative, func(i, j int) bool {
		return report.Authoritative[i].ID < report.Authoritative[j].ID
	})

	report.Summaries = Summarize(results, adapters, authoritative, mismatched, opts)
	report.Pairs = DiffAll(sides(results, adapters))

	return e.finish(report, start, l), nil
}

func (e *Engine) finish(report *Report, start time.Time, l *zap.Logger) *Report {
	report.Duration = e.now().Sub(start)
	e.metrics.ObserveComparison()
	l.Info("Comparison finished",
		zap.Duration("duration", report.Duration),
		zap.Int("pairs", len(report.Pairs)),
		zap.Bool("insufficient", report.Insufficient))
	return report
}

// sides turns every ok result into a differ input.
func sides(results []Result, adapters []Adapter) []Side {
	byName := make(map[string]Adapter, len(adapters))
	for _, a := range adapters {
		byName[a.Name()] = a
	}

	var out []Side
	for _, res := range results {
		if res.Status != StatusOK {
			continue
		}
		side := Side{Name: res.Service, Records: res.Records}
		if a, ok := byName[res.Service]; ok {
			side.Links = a
		}
		out = append(out, side)
	}
	return out
}

// validate runs the Validator of every service that has one.
func validate(results []Result, adapters []Adapter) []Violation {
	validators := make(map[string]Validator)
	for _, a := range adapters {
		if v, ok := a.(Validator); ok {
			validators[a.Name()] = v
		}
	}

	var out []Violation
	for _, res := range results {
		v, ok := validators[res.Service]
		if !ok {
			continue
		}
		for _, rec := range res.Records {
			if msgs := v.Validate(rec); len(msgs) > 0 {
				out = append(out, Violation{
					Service:  res.Service,
					ID:       rec.ID,
					Name:     rec.DisplayName(),
					Messages: msgs,
				})
			}
		}
	}
	return out
}
