package framework

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds adapters by name and tracks the selected one.
type Registry struct {
	mu                 sync.RWMutex
	adapters           map[string]Adapter
	active             string
	defaultName        string
	loadExternalAssets bool
}

// NewRegistry returns a Registry with the built-in frameworks registered
// and "no-framework" selected.
func NewRegistry() *Registry {
	r := &Registry{adapters: map[string]Adapter{}}
	for _, a := range Builtins() {
		r.adapters[a.Config().Name] = a
	}
	r.active, r.defaultName = "no-framework", "no-framework"
	return r
}

// Register adds or replaces an adapter. With makeDefault it also becomes
// the default and current framework.
func (r *Registry) Register(a Adapter, makeDefault bool) error {
	if a == nil || a.Config() == nil || a.Config().Name == "" {
		return fmt.Errorf("register framework: missing name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	name := a.Config().Name
	r.adapters[name] = a
	if makeDefault {
		r.defaultName, r.active = name, name
	}
	return nil
}

// SetFramework selects a registered framework. An empty name selects the
// default.
func (r *Registry) SetFramework(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name == "" {
		name = r.defaultName
	}
	if _, ok := r.adapters[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFramework, name)
	}
	r.active = name
	return nil
}

// SetLoadExternalAssets controls whether stylesheets and scripts are
// reported.
func (r *Registry) SetLoadExternalAssets(load bool) {
	r.mu.Lock()
	r.loadExternalAssets = load
	r.mu.Unlock()
}

// Names lists the registered frameworks.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.adapters))
	for k := range r.adapters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Adapter returns the selected adapter.
func (r *Registry) Adapter() Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.adapters[r.active]
}

// Framework returns the configuration of the selected framework.
func (r *Registry) Framework() *Framework {
	if a := r.Adapter(); a != nil {
		return a.Config()
	}
	return nil
}

// FrameworkStylesheets lists the stylesheets of the selected framework,
// or nothing unless external assets are enabled.
func (r *Registry) FrameworkStylesheets() []string {
	r.mu.RLock()
	load := r.loadExternalAssets
	r.mu.RUnlock()
	if f := r.Framework(); load && f != nil {
		return append([]string(nil), f.Stylesheets...)
	}
	return nil
}

// FrameworkScripts is FrameworkStylesheets for scripts.
func (r *Registry) FrameworkScripts() []string {
	r.mu.RLock()
	load := r.loadExternalAssets
	r.mu.RUnlock()
	if f := r.Framework(); load && f != nil {
		return append([]string(nil), f.Scripts...)
	}
	return nil
}

func (r *Registry) themes() (ThemeCapable, bool) {
	tc, ok := r.Adapter().(ThemeCapable)
	return tc, ok
}

// ActiveTheme returns the theme of the selected framework, if it has any.
func (r *Registry) ActiveTheme() (string, bool) {
	tc, ok := r.themes()
	if !ok {
		return "", false
	}
	return tc.ActiveTheme(), true
}

// RequestThemeChange asks the selected framework to switch themes. It
// reports false when the framework has no themes.
func (r *Registry) RequestThemeChange(name string) (bool, error) {
	tc, ok := r.themes()
	if !ok {
		return false, nil
	}
	return true, tc.RequestThemeChange(name)
}

// ConfirmTheme reports that the renderer applied a requested theme.
func (r *Registry) ConfirmTheme(name string) bool {
	c, ok := r.Adapter().(interface{ ConfirmTheme(string) bool })
	return ok && c.ConfirmTheme(name)
}

// RegisterTheme adds a theme to the selected framework.
func (r *Registry) RegisterTheme(name, text string) bool {
	tc, ok := r.themes()
	if ok {
		tc.RegisterTheme(name, text)
	}
	return ok
}

// UnregisterTheme removes a theme from the selected framework.
func (r *Registry) UnregisterTheme(name string) bool {
	tc, ok := r.themes()
	return ok && tc.UnregisterTheme(name)
}

// Themes lists the themes of the selected framework.
func (r *Registry) Themes() []Theme {
	if tc, ok := r.themes(); ok {
		return tc.Themes()
	}
	return nil
}
