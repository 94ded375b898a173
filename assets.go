package jsonform

import (
	"context"
	"errors"

	"github.com/reoring/jsonform/framework"
)

// ErrSuperseded is returned when an asset manifest arrives for a session
// that has since been replaced.
var ErrSuperseded = errors.New("jsonform: session superseded")

// AssetLoad is an asset manifest fetch started by LoadAssets.
type AssetLoad struct {
	SessionID string
	future    *framework.Future
}

// Assets returns the stylesheets and scripts to load for the current
// framework: the fetched manifest once applied, else the static lists.
// Both are empty unless loadExternalAssets is set.
func (s *Service) Assets() framework.Manifest {
	if !s.options.LoadExternalAssets {
		return framework.Manifest{}
	}
	if sess, ok := s.session(); ok && sess.assets != nil {
		return *sess.assets
	}
	return framework.Manifest{
		Stylesheets: s.frameworks.FrameworkStylesheets(),
		Scripts:     s.frameworks.FrameworkScripts(),
	}
}

// LoadAssets starts fetching the manifest of the current framework. It
// returns nil when there is nothing to fetch.
func (s *Service) LoadAssets(ctx context.Context) *AssetLoad {
	sess, ok := s.session()
	f := s.frameworks.Framework()
	if !ok || f == nil || f.ManifestURL == "" || !s.options.LoadExternalAssets {
		return nil
	}
	fallback := framework.Manifest{
		Stylesheets: s.frameworks.FrameworkStylesheets(),
		Scripts:     s.frameworks.FrameworkScripts(),
	}
	return &AssetLoad{
		SessionID: sess.id,
		future:    s.manifests.Load(ctx, f.ManifestURL, fallback),
	}
}

// ApplyAssets waits for load and stores its manifest in the session it was
// started for. A fetch failure still applies the fallback lists and
// returns the error alongside them.
func (s *Service) ApplyAssets(ctx context.Context, load *AssetLoad) (framework.Manifest, error) {
	if load == nil {
		return s.Assets(), nil
	}
	m, err := load.future.Wait(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return framework.Manifest{}, ctxErr
	}
	sess, ok := s.session()
	if !ok || sess.id != load.SessionID {
		s.logger.Debug("dropping assets of a replaced session", "session", load.SessionID)
		return framework.Manifest{}, ErrSuperseded
	}
	sess.assets = &m
	return m, err
}
