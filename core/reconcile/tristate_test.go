package reconcile

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTristate_JSON(t *testing.T) {
	type wrapper struct {
		Perfect   Tristate `json:"perfect"`
		Completed Tristate `json:"completed"`
		Trusted   Tristate `json:"trusted"`
	}

	data, err := json.Marshal(wrapper{Perfect: True, Completed: False})
	require.NoError(t, err)
	assert.JSONEq(t, `{"perfect":true,"completed":false,"trusted":null}`, string(data))

	var back wrapper
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, True, back.Perfect)
	assert.Equal(t, False, back.Completed)
	assert.Equal(t, Unknown, back.Trusted)

	var bad Tristate
	assert.Error(t, bad.UnmarshalJSON([]byte(`"yes"`)))
}

func TestTristate_Helpers(t *testing.T) {
	assert.Equal(t, True, Bool(true))
	assert.Equal(t, False, Bool(false))
	assert.Equal(t, Unknown, TrueOrUnknown(false))
	assert.False(t, Unknown.Known())
	assert.True(t, False.Known())
	assert.Equal(t, "unknown", Unknown.String())

	assert.Equal(t, Unknown, PerfectFrom(3, nil))
	assert.Equal(t, True, PerfectFrom(3, IntPtr(3)))
	assert.Equal(t, False, PerfectFrom(2, IntPtr(3)))
}
