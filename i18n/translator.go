// Package i18n holds the localized messages shown for validation errors.
package i18n

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/reoring/jsonform/internal/jsonvalue"
)

// Translator retrieves localized messages for validator names.
// params carries the details a failing validator reported (for example
// "minimumLength" and "currentLength").
type Translator interface {
	Message(code string, params map[string]any) string
}

// MessageFunc builds a message from validator details.
type MessageFunc func(params map[string]any) string

// Languages lists the built-in dictionaries.
var Languages = []string{"en", "de", "es", "fr", "ja"}

var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_$]+)\s*\}\}`)

// Render substitutes {{name}} placeholders with values from params.
// Unknown placeholders render empty.
func Render(tmpl string, params map[string]any) string {
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := placeholderRe.FindStringSubmatch(m)[1]
		v, ok := params[key]
		if !ok || v == nil {
			return ""
		}
		switch t := v.(type) {
		case []any:
			parts := make([]string, len(t))
			for i, x := range t {
				parts[i] = jsonvalue.ToString(x)
			}
			return strings.Join(parts, ", ")
		}
		return jsonvalue.ToString(v)
	})
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, params map[string]any) string {
	for _, lang := range []string{t.lang, "en"} {
		msg, ok := dictionaries[lang][code]
		if !ok {
			continue
		}
		switch m := msg.(type) {
		case string:
			return Render(m, params)
		case MessageFunc:
			return m(params)
		}
	}
	return code
}

// New returns the dictionary Translator for lang, falling back to English.
func New(lang string) Translator {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	return dictTranslator{lang: lang}
}

// Messages returns a copy of the dictionary of lang. Values are either
// template strings or MessageFunc.
func Messages(lang string) map[string]any {
	d, ok := dictionaries[lang]
	if !ok {
		d = dictionaries["en"]
	}
	out := make(map[string]any, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the package Translator to a built-in dictionary.
func SetLanguage(lang string) {
	mu.Lock()
	currentTranslator = New(lang)
	mu.Unlock()
}

// SetTranslator replaces the package Translator. nil restores English.
func SetTranslator(tr Translator) {
	mu.Lock()
	defer mu.Unlock()
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for code using the package Translator.
func T(code string, params map[string]any) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, params)
}

// Format renders the messages of a control error map, one per validator,
// in the order of names. Messages configured in custom take precedence;
// a custom value may be a template string or a MessageFunc.
func Format(tr Translator, errs map[string]any, names []string, custom map[string]any) []string {
	if tr == nil {
		tr = New("en")
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		params, _ := errs[name].(map[string]any)
		switch m := custom[name].(type) {
		case string:
			out = append(out, Render(m, params))
			continue
		case MessageFunc:
			out = append(out, m(params))
			continue
		case func(map[string]any) string:
			out = append(out, m(params))
			continue
		}
		out = append(out, tr.Message(name, params))
	}
	return out
}

// decimalPlaces reports n when factor is 10^-n.
func decimalPlaces(factor any) (int32, bool) {
	f, ok := jsonvalue.ToFloat(factor)
	if !ok || f <= 0 || f >= 1 {
		return 0, false
	}
	d := decimal.NewFromFloat(f)
	places := -d.Exponent()
	if d.Equal(decimal.New(1, -places)) {
		return places, true
	}
	return 0, false
}

func multipleOf(decimals, multiple string) MessageFunc {
	return func(p map[string]any) string {
		if n, ok := decimalPlaces(p["multipleOfValue"]); ok {
			return Render(decimals, map[string]any{"decimals": fmt.Sprint(n)})
		}
		return Render(multiple, p)
	}
}

func format(messages map[string]string, fallback string) MessageFunc {
	return func(p map[string]any) string {
		f, _ := p["requiredFormat"].(string)
		if m, ok := messages[f]; ok {
			return m
		}
		return Render(fallback, p)
	}
}
