package framework

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Defaults(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, "no-framework", r.Framework().Name)
	assert.Equal(t, []string{"bootstrap-3", "bootstrap-4", "bootstrap-5", "daisyui", "material-design", "no-framework"}, r.Names())

	_, ok := r.ActiveTheme()
	assert.False(t, ok, "no-framework has no themes")
	assert.Nil(t, r.Themes())
}

func TestRegistry_SetFramework(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.SetFramework("bootstrap-4"))
	assert.Equal(t, "Bootstrap 4", r.Framework().Text)

	err := r.SetFramework("missing")
	assert.ErrorIs(t, err, ErrUnknownFramework)
	assert.Equal(t, "bootstrap-4", r.Framework().Name, "selection unchanged")

	require.NoError(t, r.SetFramework(""))
	assert.Equal(t, "no-framework", r.Framework().Name)
}

func TestRegistry_AssetsRequireExternalLoading(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.SetFramework("bootstrap-3"))
	assert.Empty(t, r.FrameworkStylesheets())
	assert.Empty(t, r.FrameworkScripts())

	r.SetLoadExternalAssets(true)
	assert.Len(t, r.FrameworkStylesheets(), 1)
	assert.Len(t, r.FrameworkScripts(), 2)
}

func TestRegistry_RegisterDefault(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Static{F: Framework{Name: "custom", Text: "Custom"}}, true))
	assert.Equal(t, "custom", r.Framework().Name)
	require.NoError(t, r.SetFramework("bootstrap-3"))
	require.NoError(t, r.SetFramework(""))
	assert.Equal(t, "custom", r.Framework().Name)

	assert.Error(t, r.Register(&Static{}, false))
}

func TestRegistry_ThemeRoundTrip(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.SetFramework("daisyui"))

	active, ok := r.ActiveTheme()
	require.True(t, ok)
	assert.Equal(t, "daisyui_light", active)

	capable, err := r.RequestThemeChange("daisyui_dark")
	require.True(t, capable)
	require.NoError(t, err)
	active, _ = r.ActiveTheme()
	assert.Equal(t, "daisyui_light", active, "request alone does not switch")

	assert.False(t, r.ConfirmTheme("daisyui_cupcake"))
	assert.True(t, r.ConfirmTheme("daisyui_dark"))
	active, _ = r.ActiveTheme()
	assert.Equal(t, "daisyui_dark", active)

	_, err = r.RequestThemeChange("nope")
	assert.ErrorIs(t, err, ErrUnknownTheme)
}

func TestThemeSet_RegisterUnregister(t *testing.T) {
	ts := NewThemeSet()
	assert.Equal(t, "", ts.ActiveTheme())

	ts.RegisterTheme("a", "A")
	ts.RegisterTheme("b", "B")
	ts.RegisterTheme("a", "A2")
	assert.Equal(t, []Theme{{Name: "a", Text: "A2"}, {Name: "b", Text: "B"}}, ts.Themes())
	assert.Equal(t, "a", ts.ActiveTheme())

	require.NoError(t, ts.RequestThemeChange("b"))
	pending, ok := ts.PendingTheme()
	assert.True(t, ok)
	assert.Equal(t, "b", pending)

	assert.True(t, ts.UnregisterTheme("a"))
	assert.Equal(t, "b", ts.ActiveTheme())
	assert.True(t, ts.UnregisterTheme("b"))
	_, ok = ts.PendingTheme()
	assert.False(t, ok)
	assert.False(t, ts.UnregisterTheme("b"))
	assert.Equal(t, "", ts.ActiveTheme())
}

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(`{"stylesheets":["a.css",1,"b.css"],"scripts":["x.js"]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.css", "b.css"}, m.Stylesheets)
	assert.Equal(t, []string{"x.js"}, m.Scripts)

	_, err = ParseManifest([]byte(`{"stylesheets":`))
	assert.Error(t, err)
	_, err = ParseManifest([]byte(`[]`))
	assert.Error(t, err)
}

func TestManifestLoader_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"stylesheets":["remote.css"],"scripts":[]}`))
	}))
	defer srv.Close()

	l := NewManifestLoader(WithRetries(3, time.Millisecond))
	m, err := l.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{"remote.css"}, m.Stylesheets)
	assert.Equal(t, int32(3), calls.Load())
}

func TestManifestLoader_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	l := NewManifestLoader(WithRetries(3, time.Millisecond))
	_, err := l.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestManifestLoader_FutureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	fallback := Manifest{Stylesheets: []string{"default.css"}}
	f := NewManifestLoader(WithRetries(1, time.Millisecond)).Load(context.Background(), srv.URL, fallback)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	m, err := f.Wait(ctx)
	assert.Error(t, err)
	assert.Equal(t, fallback, m)

	got, ok := f.Result()
	assert.True(t, ok)
	assert.Equal(t, fallback, got)
	assert.Error(t, f.Err())
}
