package reconcile

import (
	"context"

	"tracker-comparer/core/metrics"
	"tracker-comparer/core/pool"

	"go.uber.org/zap"
)

// Resolution sources, also used as metric labels.
const (
	SourceHostResult     = "host-result"
	SourceHostLookup     = "host-lookup"
	SourceCandidateMatch = "candidate-match"
	SourceCandidateFirst = "candidate-first"
)

// Resolver picks one authoritative record per mismatched title.
type Resolver struct {
	host    HostPlatform
	pool    *pool.Pool
	cache   *TitleCache
	logger  *zap.Logger
	metrics *metrics.Recorder
}

// NewResolver creates a resolver with a fresh per-run cache.
// host may be nil, in which case only collected records are used.
func NewResolver(host HostPlatform, p *pool.Pool, logger *zap.Logger, rec *metrics.Recorder) *Resolver {
	if p == nil {
		p = pool.New(pool.DefaultLimit)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		host:    host,
		pool:    p,
		cache:   NewTitleCache(),
		logger:  logger,
		metrics: rec,
	}
}

// ResolveAll resolves every id with bounded concurrency. A failed host lookup
// for one id degrades to the collected records for that id only.
func (r *Resolver) ResolveAll(ctx context.Context, ids []int, results []Result) map[int]Record {
	hostRecords, candidates := r.index(results)

	r.pool.Run(ctx, len(ids), func(ctx context.Context, i int) error {
		id := ids[i]
		r.cache.GetOrCompute(id, func() Record {
			rec, source := r.resolve(ctx, id, hostRecords, candidates[id])
			r.metrics.ObserveResolution(source)
			return rec
		})
		return nil
	})

	out := make(map[int]Record, len(ids))
	for _, id := range ids {
		if rec, ok := r.cache.Get(id); ok {
			out[id] = rec
		}
	}
	return out
}

// Resolve resolves a single id against the collected results.
func (r *Resolver) Resolve(ctx context.Context, id int, results []Result) Record {
	hostRecords, candidates := r.index(results)
	return r.cache.GetOrCompute(id, func() Record {
		rec, source := r.resolve(ctx, id, hostRecords, candidates[id])
		r.metrics.ObserveResolution(source)
		return rec
	})
}

func (r *Resolver) index(results []Result) (map[int]Record, map[int][]Record) {
	hostName := ""
	if r.host != nil {
		hostName = r.host.Name()
	}

	hostRecords := make(map[int]Record)
	candidates := make(map[int][]Record)
	for _, res := range results {
		if res.Status != StatusOK {
			continue
		}
		for _, rec := range res.Records {
			if hostName != "" && res.Service == hostName {
				hostRecords[rec.ID] = rec
				continue
			}
			candidates[rec.ID] = append(candidates[rec.ID], rec)
		}
	}
	return hostRecords, candidates
}

func (r *Resolver) resolve(ctx context.Context, id int, hostRecords map[int]Record, candidates []Record) (Record, string) {
	l := r.logger.With(zap.Int("appid", id))

	if rec, ok := hostRecords[id]; ok {
		return rec, SourceHostResult
	}

	if r.host != nil {
		rec, err := r.host.LookupTitle(ctx, id)
		switch {
		case err != nil:
			l.Warn("Per-title lookup failed, falling back to collected records", zap.Error(err))
		case rec != nil:
			out := *rec
			out.ID = id
			if out.Name == "" && len(candidates) > 0 {
				out.Name = candidates[0].Name
			}
			return out, SourceHostLookup
		default:
			l.Debug("Per-title lookup has no parseable data")
		}
	}

	if len(candidates) == 0 {
		return Record{ID: id}, SourceCandidateFirst
	}

	rows := 0
	if r.host != nil {
		n, err := r.host.CountAchievementRows(ctx, id)
		if err != nil {
			l.Warn("Achievement row count failed", zap.Error(err))
		} else {
			rows = n
		}
	}

	return PickCandidate(candidates, rows)
}

// PickCandidate chooses among conflicting collected records. A candidate whose
// total equals rows wins; otherwise the first candidate is used, capped to
// rows when rows is known.
//
// An unknown row count (rows <= 0) returns the first candidate unchanged
// rather than clamping unlocked to zero and clearing perfect: a failed row
// count says nothing about the player's progress.
func PickCandidate(candidates []Record, rows int) (Record, string) {
	if rows <= 0 {
		return candidates[0], SourceCandidateFirst
	}

	for _, c := range candidates {
		if c.Total != nil && *c.Total == rows {
			return c, SourceCandidateMatch
		}
	}

	first := candidates[0]
	out := Record{
		ID:       first.ID,
		Name:     first.Name,
		Unlocked: min(first.Unlocked, rows),
		Total:    IntPtr(rows),
	}
	perfect := out.Unlocked >= rows
	out.IsPerfect = Bool(perfect)
	out.IsCompleted = TrueOrUnknown(perfect)
	out.IsCounted = perfect
	return out, SourceCandidateFirst
}
