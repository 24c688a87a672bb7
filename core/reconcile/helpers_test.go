package reconcile

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// fakeAdapter returns canned records.
type fakeAdapter struct {
	name        string
	records     []Record
	err         error
	panicWith   any
	profileLink string
	linkPrefix  string

	mu        sync.Mutex
	gotParams Params
}

func (f *fakeAdapter) Name() string        { return f.name }
func (f *fakeAdapter) ProfileLink() string { return f.profileLink }

func (f *fakeAdapter) TitleLink(r Record) string {
	if f.linkPrefix == "" {
		return ""
	}
	return fmt.Sprintf("%s/%d", f.linkPrefix, r.ID)
}

func (f *fakeAdapter) FetchStarted(ctx context.Context, params Params) ([]Record, error) {
	f.mu.Lock()
	f.gotParams = params
	f.mu.Unlock()
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	if f.err != nil {
		return nil, f.err
	}
	return append([]Record(nil), f.records...), nil
}

func (f *fakeAdapter) params() Params {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gotParams
}

// recoverAdapter also offers recovery links.
type recoverAdapter struct {
	*fakeAdapter
}

func (r recoverAdapter) RecoveryLink(games []Record) *Recovery {
	return &Recovery{
		URL:    "https://tracker.example/recover",
		Method: "POST",
		Form:   map[string]string{"version": RecoverVersion, "apps": RecoverJSON(games)},
	}
}

// fakeHost is a host platform with scripted per-title answers.
type fakeHost struct {
	fakeAdapter
	lookups   map[int]*Record
	lookupErr map[int]error
	rows      map[int]int
	rowsErr   error

	lookupCalls int32
	rowCalls    int32
}

func (h *fakeHost) LookupTitle(ctx context.Context, id int) (*Record, error) {
	atomic.AddInt32(&h.lookupCalls, 1)
	if err := h.lookupErr[id]; err != nil {
		return nil, err
	}
	if r, ok := h.lookups[id]; ok && r != nil {
		out := *r
		return &out, nil
	}
	return nil, nil
}

func (h *fakeHost) CountAchievementRows(ctx context.Context, id int) (int, error) {
	atomic.AddInt32(&h.rowCalls, 1)
	if h.rowsErr != nil {
		return 0, h.rowsErr
	}
	return h.rows[id], nil
}

func (h *fakeHost) Validate(r Record) []string {
	if r.IsCounted && r.IsPerfect == False {
		return []string{"counted but not perfect on Steam"}
	}
	return nil
}

// rec builds a record with a known total and derived perfection.
func rec(id, unlocked, total int) Record {
	return Record{
		ID:        id,
		Name:      fmt.Sprintf("Game %d", id),
		Unlocked:  unlocked,
		Total:     IntPtr(total),
		IsPerfect: PerfectFrom(unlocked, IntPtr(total)),
	}
}

func okResult(service string, records ...Record) Result {
	return Result{Service: service, Status: StatusOK, Records: records}
}
