package usage

import (
	"encoding/json"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDisabledUnderTest(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvEnabled, "true")

	c := Default()
	require.NotNil(t, c)
	assert.Same(t, c, Default())
	assert.False(t, c.Enabled())

	wrapped := Wrap1(c, addOne)
	assert.Equal(t, funcPointer(addOne), funcPointer(wrapped))
}

func TestSetDefault(t *testing.T) {
	previous := Default()
	t.Cleanup(func() { SetDefault(previous) })

	mock := NewMockHTTPClient()
	c := newTestClient(t, mock)
	SetDefault(c)
	assert.Same(t, c, Default())

	Disable()
	assert.False(t, c.Enabled())
	Enable()
	assert.True(t, c.Enabled())

	Init("c.app.hopsworks.ai", "4.0.0")
	assert.True(t, c.Enabled())

	out, err := GetEnv()
	require.NoError(t, err)

	var env map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.Equal(t, "4.0.0", env["backend_version"])
	assert.Equal(t, runtime.Version(), env["python_version"])
}

func TestPackageLevelInitOtherHostDisables(t *testing.T) {
	previous := Default()
	t.Cleanup(func() { SetDefault(previous) })

	c := newTestClient(t, NewMockHTTPClient())
	SetDefault(c)

	Init("localhost", "4.0.0")
	assert.False(t, c.Enabled())
}

func TestNilClientIsDisabled(t *testing.T) {
	var c *Client
	site := Site{Module: "hsfs.feature_group", Name: "FeatureGroup.Insert"}

	tests := []struct {
		name string
		call func(t *testing.T)
	}{
		{name: "Enabled", call: func(t *testing.T) { assert.False(t, c.Enabled()) }},
		{name: "Enable", call: func(t *testing.T) { c.Enable(); assert.False(t, c.Enabled()) }},
		{name: "Disable", call: func(*testing.T) { c.Disable() }},
		{name: "Init", call: func(t *testing.T) { c.Init("c.app.hopsworks.ai", "4.0.0"); assert.False(t, c.Enabled()) }},
		{name: "Identity", call: func(t *testing.T) { assert.Nil(t, c.Identity()) }},
		{name: "Env", call: func(t *testing.T) {
			out, err := c.Env()
			require.ErrorIs(t, err, ErrNoClient)
			assert.Empty(t, out)
		}},
		{name: "Count", call: func(t *testing.T) { assert.Zero(t, c.Count(site)) }},
		{name: "Dropped", call: func(t *testing.T) { assert.Zero(t, c.Dropped()) }},
		{name: "Observe", call: func(*testing.T) { c.Observe(site, time.Second, errInsert) }},
		{name: "Flush", call: func(t *testing.T) { assert.NoError(t, c.Flush(t.Context())) }},
		{name: "Close", call: func(t *testing.T) { assert.NoError(t, c.Close(t.Context())) }},
		{name: "Wrap1", call: func(t *testing.T) {
			got, err := Wrap1(c, addOne)(1)
			require.NoError(t, err)
			assert.Equal(t, 2, got)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() { tt.call(t) })
		})
	}
}

func TestPackageLevelFunctionsWithoutDefault(t *testing.T) {
	previous := Default()
	t.Cleanup(func() { SetDefault(previous) })

	SetDefault(nil)

	assert.NotPanics(t, func() {
		Enable()
		Disable()
		Init("c.app.hopsworks.ai", "4.0.0")
	})

	var (
		out string
		err error
	)
	assert.NotPanics(t, func() { out, err = GetEnv() })
	require.ErrorIs(t, err, ErrNoClient)
	assert.Empty(t, out)
}
