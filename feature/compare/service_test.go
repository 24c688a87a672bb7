package compare

import (
	"context"
	"strings"
	"testing"

	"tracker-comparer/core/database"
	"tracker-comparer/core/fetch"
	"tracker-comparer/core/reconcile"
	"tracker-comparer/core/storage/mocks"
	"tracker-comparer/feature/preferences"
	"tracker-comparer/feature/trackers"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAdapter struct {
	name      string
	records   []reconcile.Record
	gotParams reconcile.Params
}

func (a *stubAdapter) Name() string                        { return a.name }
func (a *stubAdapter) ProfileLink() string                 { return "" }
func (a *stubAdapter) TitleLink(r reconcile.Record) string { return "" }

func (a *stubAdapter) FetchStarted(ctx context.Context, params reconcile.Params) ([]reconcile.Record, error) {
	a.gotParams = params
	return a.records, nil
}

type stubHost struct {
	stubAdapter
}

func (h *stubHost) LookupTitle(ctx context.Context, id int) (*reconcile.Record, error) {
	return nil, nil
}

func (h *stubHost) CountAchievementRows(ctx context.Context, id int) (int, error) {
	return 0, nil
}

func record(id, unlocked, total int) reconcile.Record {
	return reconcile.Record{
		ID:        id,
		Name:      "Game",
		Unlocked:  unlocked,
		Total:     reconcile.IntPtr(total),
		IsPerfect: reconcile.PerfectFrom(unlocked, reconcile.IntPtr(total)),
	}
}

type fixture struct {
	alpha, beta *stubAdapter
	host        *stubHost
	gotKeys     []string
}

func (f *fixture) build(keys []string, deps trackers.Deps) ([]reconcile.Adapter, reconcile.HostPlatform, error) {
	f.gotKeys = keys
	return []reconcile.Adapter{f.alpha, f.beta}, f.host, nil
}

func newFixture() *fixture {
	return &fixture{
		alpha: &stubAdapter{name: "Alpha", records: []reconcile.Record{record(1, 5, 10)}},
		beta:  &stubAdapter{name: "Steam Hunters", records: []reconcile.Record{record(1, 3, 10)}},
		host:  &stubHost{stubAdapter{name: "Steam", records: []reconcile.Record{record(1, 4, 10)}}},
	}
}

func newTestService(f *fixture, opts ...Option) *Service {
	opts = append([]Option{WithAdapters(f.build)}, opts...)
	return NewService(Config{ExportPrefix: "exports"}, fetch.Config{}, fetch.CookieConfig{}, zap.NewNop(), opts...)
}

func newPrefs(t *testing.T) *preferences.Store {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	store := preferences.NewStore(db)
	require.NoError(t, store.Migrate())
	return store
}

func TestCompare(t *testing.T) {
	f := newFixture()
	svc := newTestService(f)

	report, err := svc.Compare(context.Background(), Request{SteamID: "765", Services: []string{"alpha", "steamhunters"}})
	require.NoError(t, err)

	assert.Equal(t, "765", report.SteamID)
	assert.Equal(t, []int{1}, report.Mismatched)
	require.Len(t, report.Pairs, 1)
	assert.Equal(t, "Alpha", report.Pairs[0].Source)

	// The host resolves titles but is not compared unless selected.
	assert.Empty(t, f.host.gotParams.TitleIDs)
	assert.Len(t, report.Summaries, 2)
}

func TestCompare_SteamSelected(t *testing.T) {
	f := newFixture()
	svc := newTestService(f)

	report, err := svc.Compare(context.Background(), Request{SteamID: "765", Own: true, Services: []string{"alpha", "STEAM"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "STEAM"}, f.gotKeys)
	assert.Equal(t, []int{1}, f.host.gotParams.TitleIDs)
	assert.Len(t, report.Pairs, 3)
	require.Len(t, report.Authoritative, 1)
	assert.Equal(t, 4, report.Authoritative[0].Unlocked)
}

func TestCompare_SteamOwnProfileOnly(t *testing.T) {
	f := newFixture()
	svc := newTestService(f)

	_, err := svc.Compare(context.Background(), Request{SteamID: "765", Services: []string{"alpha", "steam"}})
	require.ErrorIs(t, err, trackers.ErrOwnProfileOnly)
	assert.ErrorContains(t, err, "Steam")
	assert.True(t, IsRequestError(err))
	assert.Nil(t, f.gotKeys, "no adapters are built for a rejected request")
}

func TestCompare_IncludeHostOnlyForOwnProfile(t *testing.T) {
	newService := func(f *fixture) *Service {
		return NewService(Config{ExportPrefix: "exports", IncludeHost: true}, fetch.Config{}, fetch.CookieConfig{}, zap.NewNop(), WithAdapters(f.build))
	}
	req := Request{SteamID: "765", Services: []string{"alpha", "steamhunters"}}

	other := newFixture()
	report, err := newService(other).Compare(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, report.Pairs, 1)
	assert.Empty(t, other.host.gotParams.TitleIDs)

	own := newFixture()
	req.Own = true
	report, err = newService(own).Compare(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, report.Pairs, 3)
	assert.Equal(t, []int{1}, own.host.gotParams.TitleIDs)
}

func TestCompare_SteamIDRequired(t *testing.T) {
	_, err := newTestService(newFixture()).Compare(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrSteamIDRequired)
	assert.True(t, IsRequestError(err))
}

func TestCompare_RemembersProfileURL(t *testing.T) {
	f := newFixture()
	prefs := newPrefs(t)
	svc := newTestService(f, WithPreferences(prefs))
	ctx := context.Background()

	_, err := svc.Compare(ctx, Request{SteamID: "765", TSAProfileURL: "Gordon"})
	require.NoError(t, err)
	assert.Equal(t, "Gordon", f.alpha.gotParams.ProfileURL)

	value, ok, err := prefs.Get(ctx, preferences.TSAProfileURLKey("765"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Gordon", value)

	f.alpha.gotParams = reconcile.Params{}
	_, err = svc.Compare(ctx, Request{SteamID: "765"})
	require.NoError(t, err)
	assert.Equal(t, "Gordon", f.alpha.gotParams.ProfileURL)
}

func TestBuildAdapters(t *testing.T) {
	deps := trackers.Deps{Client: fetch.New(fetch.Config{}), Profile: reconcile.Profile{SteamID: "765"}}

	adapters, host, err := buildAdapters([]string{"steam", "astats"}, deps)
	require.NoError(t, err)
	require.Len(t, adapters, 1)
	assert.Equal(t, "AStats", adapters[0].Name())
	require.NotNil(t, host)
	assert.Equal(t, "Steam", host.Name())

	_, _, err = buildAdapters([]string{"nope"}, deps)
	assert.ErrorIs(t, err, trackers.ErrUnknownService)
}

func TestExportCSV(t *testing.T) {
	report := &reconcile.Report{Pairs: []reconcile.PairDiff{
		{Source: "A", Target: "B", Differences: []reconcile.Difference{{ID: 1, Name: "One", Reasons: []string{"missing on B"}}}},
		{Source: "A", Target: "C", Differences: []reconcile.Difference{}},
	}}

	data, err := ExportCSV(report)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"App ID,Name,Differences,A URL,B URL",
		"1,One,missing on B,,",
		"",
		"App ID,Name,Differences,A URL,C URL",
		"",
	}, "\n"), string(data))
}

func TestUpload(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "exports-bucket").Return(true, nil)
	client.On("PutObject", mock.Anything, "exports-bucket", "exports/765/alpha_steam-hunters.csv", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	svc := newTestService(newFixture(), WithStorage(client, "exports-bucket"))
	report := &reconcile.Report{SteamID: "765", Pairs: []reconcile.PairDiff{{Source: "Alpha", Target: "Steam Hunters"}}}

	keys, err := svc.Upload(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, []string{"exports/765/alpha_steam-hunters.csv"}, keys)
	client.AssertExpectations(t)
}

func TestUpload_NoStorage(t *testing.T) {
	_, err := newTestService(newFixture()).Upload(context.Background(), &reconcile.Report{})
	assert.ErrorIs(t, err, ErrStorageDisabled)

	_, err = newTestService(newFixture()).ListExports(context.Background(), "765")
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

func TestListExports(t *testing.T) {
	client := new(mocks.Client)
	ch := make(chan minio.ObjectInfo, 2)
	ch <- minio.ObjectInfo{Key: "exports/765/a_b.csv"}
	ch <- minio.ObjectInfo{Key: "exports/765/a_c.csv"}
	close(ch)
	client.On("ListObjects", mock.Anything, "bucket", minio.ListObjectsOptions{Prefix: "exports/765/", Recursive: true}).
		Return((<-chan minio.ObjectInfo)(ch))

	keys, err := newTestService(newFixture(), WithStorage(client, "bucket")).ListExports(context.Background(), "765")
	require.NoError(t, err)
	assert.Equal(t, []string{"exports/765/a_b.csv", "exports/765/a_c.csv"}, keys)
}

func TestServices_IncludesHost(t *testing.T) {
	services := Services()
	require.Len(t, services, 7)
	assert.Equal(t, "steam", services[6].Key)
	assert.True(t, IsHostKey(" Steam "))
}
