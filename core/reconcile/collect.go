package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	corelog "tracker-comparer/core/logger"
	"tracker-comparer/core/metrics"

	"go.uber.org/zap"
)

// Collect invokes every adapter concurrently and waits for all of them.
// Adapter failures never escape: each one becomes the status of its Result.
// Results are returned in adapter order.
func Collect(ctx context.Context, adapters []Adapter, params Params, logger *zap.Logger, rec *metrics.Recorder) []Result {
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]Result, len(adapters))
	var wg sync.WaitGroup
	wg.Add(len(adapters))

	for i, adapter := range adapters {
		go func() {
			defer wg.Done()
			results[i] = invoke(ctx, adapter, params, logger)
			rec.ObserveFetch(adapter.Name(), string(results[i].Status), results[i].Duration)
		}()
	}

	wg.Wait()
	return results
}

// invoke runs one adapter and converts its outcome into a Result.
func invoke(ctx context.Context, adapter Adapter, params Params, logger *zap.Logger) (res Result) {
	name := adapter.Name()
	l := corelog.ForService(logger, name)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			l.Error("Adapter panicked", zap.Any("panic", r))
			res = Result{Service: name, Status: StatusError, Records: []Record{}, Error: fmt.Sprintf("%v", r)}
		}
		res.Duration = time.Since(start)
	}()

	records, err := adapter.FetchStarted(ctx, params)
	if err != nil {
		return failed(name, err, l)
	}

	records = sanitize(records, l)
	l.Info("Fetched started games", zap.Int("games", len(records)))
	return Result{Service: name, Status: StatusOK, Records: records}
}

func failed(name string, err error, l *zap.Logger) Result {
	res := Result{Service: name, Records: []Record{}}

	var signIn *SignInError
	var format *FormatError
	switch {
	case errors.As(err, &signIn):
		l.Warn("Service needs sign in", zap.String("as", signIn.As))
		res.Status = StatusNeedsSignIn
		res.SignIn = &SignIn{Link: signIn.Link, As: signIn.As}
	case errors.As(err, &format):
		l.Error("Service returned an unexpected format", zap.Error(err))
		res.Status = StatusError
		res.NoData = true
		res.Error = "No achievements found"
	default:
		l.Error("Service failed", zap.Error(err))
		res.Status = StatusError
		res.Error = err.Error()
	}
	return res
}

// sanitize drops records that break the record invariants and keeps only the
// first record per id.
func sanitize(records []Record, l *zap.Logger) []Record {
	out := make([]Record, 0, len(records))
	seen := make(map[int]struct{}, len(records))
	for _, r := range records {
		if err := r.Validate(); err != nil {
			l.Warn("Dropping invalid record", zap.Error(err))
			continue
		}
		if _, dup := seen[r.ID]; dup {
			l.Debug("Dropping duplicate record", zap.Int("appid", r.ID))
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// UnionIDs returns every id present in the results, in first-seen order.
func UnionIDs(results []Result) []int {
	var ids []int
	seen := make(map[int]struct{})
	for _, res := range results {
		for _, r := range res.Records {
			if _, ok := seen[r.ID]; ok {
				continue
			}
			seen[r.ID] = struct{}{}
			ids = append(ids, r.ID)
		}
	}
	return ids
}
