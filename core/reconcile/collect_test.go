package reconcile

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCollect_StatusesInAdapterOrder(t *testing.T) {
	adapters := []Adapter{
		&fakeAdapter{name: "ok", records: []Record{rec(1, 1, 2)}},
		&fakeAdapter{name: "signin", err: &SignInError{Link: "https://login", As: "me"}},
		&fakeAdapter{name: "format", err: fmt.Errorf("parse: %w", Formatf("no table"))},
		&fakeAdapter{name: "broken", err: errors.New("503")},
		&fakeAdapter{name: "panics", panicWith: "nil map"},
	}

	got := Collect(context.Background(), adapters, Params{}, zap.NewNop(), nil)
	require.Len(t, got, 5)

	assert.Equal(t, StatusOK, got[0].Status)
	assert.True(t, got[0].HasData())

	assert.Equal(t, StatusNeedsSignIn, got[1].Status)
	require.NotNil(t, got[1].SignIn)
	assert.Equal(t, "me", got[1].SignIn.As)

	assert.Equal(t, StatusError, got[2].Status)
	assert.True(t, got[2].NoData)
	assert.Equal(t, "No achievements found", got[2].Error)

	assert.Equal(t, StatusError, got[3].Status)
	assert.False(t, got[3].NoData)
	assert.Equal(t, "503", got[3].Error)

	assert.Equal(t, StatusError, got[4].Status)
	assert.Equal(t, "nil map", got[4].Error)

	for i, res := range got {
		assert.Equal(t, adapters[i].Name(), res.Service)
		assert.NotNil(t, res.Records)
	}
}

func TestCollect_DropsInvalidAndDuplicateRecords(t *testing.T) {
	bad := Record{ID: 2, Unlocked: 1, IsPerfect: True}
	adapter := &fakeAdapter{name: "A", records: []Record{rec(1, 1, 2), bad, rec(1, 2, 2), {ID: 3, Unlocked: -1}, rec(4, 0, 1)}}

	got := Collect(context.Background(), []Adapter{adapter}, Params{}, nil, nil)
	require.Len(t, got[0].Records, 2)
	assert.Equal(t, 1, got[0].Records[0].ID)
	assert.Equal(t, 1, got[0].Records[0].Unlocked)
	assert.Equal(t, 4, got[0].Records[1].ID)
}

func TestUnionIDs(t *testing.T) {
	results := []Result{
		okResult("A", rec(5, 0, 1), rec(2, 0, 1)),
		okResult("B", rec(2, 0, 1), rec(9, 0, 1)),
	}
	assert.Equal(t, []int{5, 2, 9}, UnionIDs(results))
}
