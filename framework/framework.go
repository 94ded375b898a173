// Package framework keeps the registry of CSS framework adapters a form can
// be styled with. An adapter is a static configuration record; adapters
// that support switchable themes also implement ThemeCapable.
package framework

import (
	"errors"
	"sync"
)

var (
	ErrUnknownFramework = errors.New("framework: unknown framework")
	ErrUnknownTheme     = errors.New("framework: unknown theme")
)

// Framework is the configuration of one CSS framework.
type Framework struct {
	Name        string   `json:"name" yaml:"name"`
	Text        string   `json:"text" yaml:"text"`
	Stylesheets []string `json:"stylesheets,omitempty" yaml:"stylesheets,omitempty"`
	Scripts     []string `json:"scripts,omitempty" yaml:"scripts,omitempty"`
	// ManifestURL, when set, points at a JSON document
	// {"stylesheets": [...], "scripts": [...]} replacing the static lists.
	ManifestURL string `json:"manifestUrl,omitempty" yaml:"manifestUrl,omitempty"`
	// WidgetStyles maps widget types to their CSS class options.
	WidgetStyles map[string]any `json:"widgetstyles,omitempty" yaml:"widgetstyles,omitempty"`
	// Widgets lists widget types the framework replaces.
	Widgets []string `json:"widgets,omitempty" yaml:"widgets,omitempty"`
}

// Adapter supplies a Framework.
type Adapter interface {
	Config() *Framework
}

// ThemeCapable is implemented by adapters whose theme can be switched.
type ThemeCapable interface {
	ActiveTheme() string
	RequestThemeChange(name string) error
	RegisterTheme(name, text string)
	UnregisterTheme(name string) bool
	Themes() []Theme
}

// Theme names one visual variant of a framework.
type Theme struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Static is an Adapter without themes.
type Static struct{ F Framework }

// Config returns the framework record.
func (s *Static) Config() *Framework { return &s.F }

// Themed is an Adapter with themes.
type Themed struct {
	Static
	*ThemeSet
}

// ThemeSet tracks the themes of an adapter. A requested change only becomes
// the active theme once the renderer confirms it with ConfirmTheme.
type ThemeSet struct {
	mu      sync.Mutex
	themes  []Theme
	active  string
	pending string
}

// NewThemeSet returns a ThemeSet with list registered and the first one active.
func NewThemeSet(list ...Theme) *ThemeSet {
	t := &ThemeSet{themes: append([]Theme(nil), list...)}
	if len(list) > 0 {
		t.active = list[0].Name
	}
	return t
}

// ActiveTheme returns the last confirmed theme.
func (t *ThemeSet) ActiveTheme() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// PendingTheme returns a requested theme not yet confirmed.
func (t *ThemeSet) PendingTheme() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending, t.pending != ""
}

// RequestThemeChange records a request to switch to a registered theme.
func (t *ThemeSet) RequestThemeChange(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.index(name) < 0 {
		return ErrUnknownTheme
	}
	if name == t.active {
		t.pending = ""
		return nil
	}
	t.pending = name
	return nil
}

// ConfirmTheme makes a pending request active. It reports false when name
// is not the pending theme.
func (t *ThemeSet) ConfirmTheme(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending == "" || t.pending != name {
		return false
	}
	t.active, t.pending = name, ""
	return true
}

// RegisterTheme adds or renames a theme.
func (t *ThemeSet) RegisterTheme(name, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.index(name); i >= 0 {
		t.themes[i].Text = text
		return
	}
	t.themes = append(t.themes, Theme{Name: name, Text: text})
	if t.active == "" {
		t.active = name
	}
}

// UnregisterTheme removes a theme. Removing the active theme falls back to
// the first remaining one.
func (t *ThemeSet) UnregisterTheme(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.index(name)
	if i < 0 {
		return false
	}
	t.themes = append(t.themes[:i:i], t.themes[i+1:]...)
	if t.pending == name {
		t.pending = ""
	}
	if t.active == name {
		t.active = ""
		if len(t.themes) > 0 {
			t.active = t.themes[0].Name
		}
	}
	return true
}

// Themes lists the registered themes.
func (t *ThemeSet) Themes() []Theme {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Theme(nil), t.themes...)
}

func (t *ThemeSet) index(name string) int {
	for i, th := range t.themes {
		if th.Name == name {
			return i
		}
	}
	return -1
}
