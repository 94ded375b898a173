package jsonform_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jsonform "github.com/reoring/jsonform"
	"github.com/reoring/jsonform/framework"
	"github.com/reoring/jsonform/internal/logging"
)

func assetService(t *testing.T, manifestURL string) *jsonform.Service {
	t.Helper()
	reg := framework.NewRegistry()
	require.NoError(t, reg.Register(&framework.Static{F: framework.Framework{
		Name:        "remote",
		Stylesheets: []string{"static.css"},
		ManifestURL: manifestURL,
	}}, false))
	s, err := jsonform.NewService(
		jsonform.WithLogger(logging.Nop()),
		jsonform.WithRegistry(reg),
		jsonform.WithManifestLoader(framework.NewManifestLoader(framework.WithRetries(1, time.Millisecond))),
	)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	require.NoError(t, s.SetOptions(map[string]any{"framework": "remote", "loadExternalAssets": true}))
	return s
}

func manifestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"stylesheets":["theme.css"],"scripts":["app.js"]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAssets_StaticListsNeedOptIn(t *testing.T) {
	s := newService(t)
	require.NoError(t, s.SetFramework("bootstrap-3"))
	assert.Empty(t, s.Assets().Stylesheets)

	require.NoError(t, s.SetOptions(map[string]any{"loadExternalAssets": true}))
	assert.NotEmpty(t, s.Assets().Stylesheets)
	assert.Len(t, s.Assets().Scripts, 2)
}

func TestAssets_ManifestApplied(t *testing.T) {
	srv := manifestServer(t)
	s := assetService(t, srv.URL)
	require.NoError(t, s.Initialize(jsonform.Input{Schema: nameSchema()}))
	assert.Equal(t, []string{"static.css"}, s.Assets().Stylesheets)

	load := s.LoadAssets(context.Background())
	require.NotNil(t, load)
	m, err := s.ApplyAssets(context.Background(), load)
	require.NoError(t, err)
	assert.Equal(t, []string{"theme.css"}, m.Stylesheets)
	assert.Equal(t, []string{"app.js"}, s.Assets().Scripts)
}

func TestAssets_SupersededSessionIgnored(t *testing.T) {
	srv := manifestServer(t)
	s := assetService(t, srv.URL)
	require.NoError(t, s.Initialize(jsonform.Input{Schema: nameSchema()}))
	load := s.LoadAssets(context.Background())
	require.NotNil(t, load)

	require.NoError(t, s.Initialize(jsonform.Input{Schema: nameSchema()}))
	_, err := s.ApplyAssets(context.Background(), load)
	assert.ErrorIs(t, err, jsonform.ErrSuperseded)
	assert.Equal(t, []string{"static.css"}, s.Assets().Stylesheets)
}

func TestAssets_FetchFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	s := assetService(t, srv.URL)
	require.NoError(t, s.Initialize(jsonform.Input{Schema: nameSchema()}))

	m, err := s.ApplyAssets(context.Background(), s.LoadAssets(context.Background()))
	assert.Error(t, err)
	assert.Equal(t, []string{"static.css"}, m.Stylesheets)
}

func TestAssets_NothingToLoad(t *testing.T) {
	s := newService(t)
	require.NoError(t, s.Initialize(jsonform.Input{Schema: nameSchema()}))
	assert.Nil(t, s.LoadAssets(context.Background()))
}
