package schemautil

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	camelBoundary = regexp.MustCompile(`([a-z])([A-Z])`)
)

// words kept lowercase inside titles
var minorWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "but": true,
	"by": true, "en": true, "for": true, "if": true, "in": true, "nor": true,
	"of": true, "on": true, "or": true, "per": true, "the": true, "to": true,
	"v": true, "v.": true, "vs": true, "vs.": true, "via": true,
}

// FixTitle turns a property key such as "firstName" or "first_name" into a
// display title ("First Name").
func FixTitle(name string) string {
	if name == "" {
		return ""
	}
	s := camelBoundary.ReplaceAllString(name, "$1 $2")
	s = strings.ReplaceAll(s, "_", " ")
	return ToTitleCase(s)
}

// ToTitleCase capitalizes words except minor ones in the middle of the
// phrase. Words already containing capitals (acronyms, brands) are kept.
func ToTitleCase(s string) string {
	caser := cases.Title(language.English, cases.NoLower)
	words := strings.Fields(s)
	for i, w := range words {
		lower := strings.ToLower(w)
		if i > 0 && i < len(words)-1 && minorWords[lower] {
			words[i] = lower
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}
