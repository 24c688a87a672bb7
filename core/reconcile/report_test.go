package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_MissingAndRemoved(t *testing.T) {
	alpha := &fakeAdapter{name: "alpha", linkPrefix: "https://alpha.example/game"}
	results := []Result{okResult("alpha", rec(1, 2, 5), rec(2, 5, 5), rec(3, 3, 3))}
	authoritative := map[int]Record{
		1: rec(1, 4, 5),
		2: rec(2, 3, 5),
		3: {ID: 3, Name: "b game", Unlocked: 4, Total: IntPtr(4)},
		4: {ID: 4, Name: "A game", Unlocked: 1, Total: IntPtr(1)},
	}

	got := Summarize(results, []Adapter{alpha}, authoritative, []int{1, 2, 3, 4}, SummaryOptions{})
	require.Len(t, got, 1)
	s := got[0]
	assert.Equal(t, StateBehind, s.State)

	require.NotNil(t, s.Missing)
	// Sorted by name ignoring case.
	require.Len(t, s.Missing.Games, 3)
	assert.Equal(t, "A game", s.Missing.Games[0].Name)
	assert.Equal(t, "b game", s.Missing.Games[1].Name)
	assert.Equal(t, "Game 1", s.Missing.Games[2].Name)
	assert.Equal(t, 4, s.Missing.Achievements)
	assert.Equal(t, "4,3,1", s.Missing.AppIDs)
	assert.Equal(t, "https://alpha.example/game/4", s.Missing.Games[0].Link)

	require.NotNil(t, s.Removed)
	assert.Equal(t, 2, s.Removed.Achievements)
	assert.Equal(t, "2", s.Removed.AppIDs)
	assert.JSONEq(t, `{"version":"2.0","apps":[{"appid":2,"unlocked":3,"total":5}]}`, s.Removed.JSON)

	assert.Equal(t, "4 missing achievements in 3 games; 2 removed achievements in 1 game", s.Headline)
	assert.Nil(t, s.Recovery)
}

func TestSummarize_RecoveryOnlyWhenOwn(t *testing.T) {
	adapter := recoverAdapter{&fakeAdapter{name: "Hunters"}}
	results := []Result{okResult("Hunters", rec(1, 1, 2))}
	authoritative := map[int]Record{1: rec(1, 2, 2)}

	got := Summarize(results, []Adapter{adapter}, authoritative, []int{1}, SummaryOptions{})
	assert.Nil(t, got[0].Recovery)

	got = Summarize(results, []Adapter{adapter}, authoritative, []int{1}, SummaryOptions{Own: true})
	require.NotNil(t, got[0].Recovery)
	assert.Equal(t, "POST", got[0].Recovery.Method)
	assert.JSONEq(t, `{"version":"2.0","apps":[{"appid":1,"unlocked":2,"total":2}]}`, got[0].Recovery.Form["apps"])
}

func TestSummarize_LargeCountsAreGrouped(t *testing.T) {
	results := []Result{okResult("A", rec(1, 0, 2000))}
	authoritative := map[int]Record{1: rec(1, 1234, 2000)}

	got := Summarize(results, nil, authoritative, []int{1}, SummaryOptions{})
	assert.Equal(t, "1,234 missing achievements in 1 game", got[0].Headline)
}

func TestSummarize_StatusStates(t *testing.T) {
	results := []Result{
		{Service: "e", Status: StatusError, Records: []Record{}, Error: "boom"},
		{Service: "D", Status: StatusError, Records: []Record{}, NoData: true, Error: "No achievements found"},
		{Service: "c", Status: StatusNeedsSignIn, Records: []Record{}, SignIn: &SignIn{Link: "https://login"}},
		okResult("B"),
		okResult("Steam", rec(1, 1, 1)),
	}

	got := Summarize(results, nil, nil, nil, SummaryOptions{Host: "Steam"})
	require.Len(t, got, 4)

	assert.Equal(t, "B", got[0].Service)
	assert.Equal(t, StateNoData, got[0].State)
	assert.Equal(t, "No achievements found", got[0].Headline)

	assert.Equal(t, "c", got[1].Service)
	assert.Equal(t, StateNeedsSignIn, got[1].State)
	assert.Equal(t, "Sign in", got[1].Headline)

	assert.Equal(t, "D", got[2].Service)
	assert.Equal(t, StateNoData, got[2].State)

	assert.Equal(t, "e", got[3].Service)
	assert.Equal(t, StateError, got[3].State)
	assert.Equal(t, "boom", got[3].Headline)
}

func TestGameDelta_Delta(t *testing.T) {
	assert.Equal(t, 3, GameDelta{Authoritative: 5, Service: 2}.Delta())
	assert.Equal(t, 3, GameDelta{Authoritative: 2, Service: 5}.Delta())
}
