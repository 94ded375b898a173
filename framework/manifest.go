package framework

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"
	"github.com/tidwall/gjson"

	"github.com/reoring/jsonform/internal/logging"
)

// Manifest lists the external assets of a framework.
type Manifest struct {
	Stylesheets []string `json:"stylesheets"`
	Scripts     []string `json:"scripts"`
}

// ManifestLoader fetches asset manifests over HTTP.
type ManifestLoader struct {
	client      *resty.Client
	maxRetries  uint64
	baseBackoff time.Duration
	logger      logging.Logger
}

// LoaderOption configures a ManifestLoader.
type LoaderOption func(*ManifestLoader)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) LoaderOption {
	return func(l *ManifestLoader) { l.client.SetTimeout(d) }
}

// WithRetries sets the retry count and the first backoff interval.
func WithRetries(n uint64, base time.Duration) LoaderOption {
	return func(l *ManifestLoader) { l.maxRetries, l.baseBackoff = n, base }
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) LoaderOption {
	return func(l *ManifestLoader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewManifestLoader returns a loader with a 10s timeout and 3 retries.
func NewManifestLoader(opts ...LoaderOption) *ManifestLoader {
	l := &ManifestLoader{
		client:      resty.New().SetTimeout(10 * time.Second),
		maxRetries:  3,
		baseBackoff: 200 * time.Millisecond,
		logger:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Fetch downloads and parses the manifest at url. Transport errors and 5xx
// responses are retried.
func (l *ManifestLoader) Fetch(ctx context.Context, url string) (Manifest, error) {
	var body []byte
	backoff := retry.WithMaxRetries(l.maxRetries, retry.NewExponential(l.baseBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := l.client.R().SetContext(ctx).Get(url)
		if err != nil {
			l.logger.Debug("manifest fetch failed", "url", url, "error", err)
			return retry.RetryableError(err)
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("manifest %s: status %d", url, resp.StatusCode()))
		}
		if resp.StatusCode() != http.StatusOK {
			return fmt.Errorf("manifest %s: status %d", url, resp.StatusCode())
		}
		body = resp.Body()
		return nil
	})
	if err != nil {
		return Manifest{}, err
	}
	return ParseManifest(body)
}

// ParseManifest reads {"stylesheets": [...], "scripts": [...]}. Non-string
// entries are skipped.
func ParseManifest(body []byte) (Manifest, error) {
	if !gjson.ValidBytes(body) {
		return Manifest{}, errors.New("manifest: invalid JSON")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return Manifest{}, errors.New("manifest: not an object")
	}
	return Manifest{
		Stylesheets: stringList(doc.Get("stylesheets")),
		Scripts:     stringList(doc.Get("scripts")),
	}, nil
}

func stringList(r gjson.Result) []string {
	var out []string
	for _, item := range r.Array() {
		if item.Type == gjson.String {
			out = append(out, item.String())
		}
	}
	return out
}

// Load starts fetching url in the background. The Future resolves to the
// fetched manifest, or to fallback together with the error.
func (l *ManifestLoader) Load(ctx context.Context, url string, fallback Manifest) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		m, err := l.Fetch(ctx, url)
		if err != nil {
			l.logger.Warn("using default framework assets", "url", url, "error", err)
			f.manifest, f.err = fallback, err
			return
		}
		f.manifest = m
	}()
	return f
}

// Future is the single-shot result of Load.
type Future struct {
	done     chan struct{}
	manifest Manifest
	err      error
}

// Done is closed once the Future has resolved.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until the Future resolves or ctx ends. The manifest is
// usable even when err is non-nil.
func (f *Future) Wait(ctx context.Context) (Manifest, error) {
	select {
	case <-f.done:
		return f.manifest, f.err
	case <-ctx.Done():
		return Manifest{}, ctx.Err()
	}
}

// Result returns the resolved manifest without blocking.
func (f *Future) Result() (Manifest, bool) {
	select {
	case <-f.done:
		return f.manifest, true
	default:
		return Manifest{}, false
	}
}

// Err returns the fetch error once resolved.
func (f *Future) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}
