package control

import (
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	hostnameRe   = regexp.MustCompile(`^(?i)[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?(?:\.[a-z0-9](?:[-0-9a-z]{0,61}[0-9a-z])?)*$`)
	colorRe      = regexp.MustCompile(`^(?i)#?(?:[0-9a-f]{3}|[0-9a-f]{6})$`)
	jsonPtrRe    = regexp.MustCompile(`^(?:/(?:[^~/]|~0|~1)*)*$`)
	relJSONPtrRe = regexp.MustCompile(`^(?:0|[1-9][0-9]*)(?:#|(?:/(?:[^~/]|~0|~1)*)*)$`)
	uriTmplRe    = regexp.MustCompile(`^(?:[^\x00-\x20"'<>%\\^` + "`" + `{|}]|%[0-9a-f]{2}|\{[+#./;?&=,!@|]?(?:[a-z0-9_]|%[0-9a-f]{2})+(?::[1-9][0-9]{0,3}|\*)?(?:,(?:[a-z0-9_]|%[0-9a-f]{2})+(?::[1-9][0-9]{0,3}|\*)?)*\})*$`)
	timeLayouts  = []string{"15:04:05Z07:00", "15:04:05.999999999Z07:00", "15:04:05", "15:04"}
)

// formatCheckers test string values against the named formats.
var formatCheckers = map[string]func(string) bool{
	"date": func(s string) bool {
		_, err := time.Parse("2006-01-02", s)
		return err == nil
	},
	"time": func(s string) bool {
		for _, l := range timeLayouts {
			if _, err := time.Parse(l, s); err == nil {
				return true
			}
		}
		return false
	},
	"date-time": func(s string) bool {
		_, err := time.Parse(time.RFC3339Nano, strings.ToUpper(s))
		return err == nil
	},
	"email": func(s string) bool {
		a, err := mail.ParseAddress(s)
		return err == nil && a.Address == s
	},
	"hostname": func(s string) bool { return len(s) <= 255 && hostnameRe.MatchString(s) },
	"ipv4": func(s string) bool {
		ip := net.ParseIP(s)
		return ip != nil && ip.To4() != nil && strings.Count(s, ".") == 3
	},
	"ipv6": func(s string) bool {
		ip := net.ParseIP(s)
		return ip != nil && strings.Contains(s, ":")
	},
	"uri": func(s string) bool {
		u, err := url.Parse(s)
		return err == nil && u.Scheme != ""
	},
	"uri-reference": func(s string) bool {
		_, err := url.Parse(s)
		return err == nil
	},
	"url": func(s string) bool {
		u, err := url.ParseRequestURI(s)
		return err == nil && u.Scheme != "" && u.Host != ""
	},
	"uri-template": uriTmplRe.MatchString,
	"uuid": func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil && len(s) == 36
	},
	"color":                 colorRe.MatchString,
	"json-pointer":          jsonPtrRe.MatchString,
	"relative-json-pointer": relJSONPtrRe.MatchString,
	"regex": func(s string) bool {
		_, err := regexp.Compile(s)
		return err == nil
	},
}

// CheckFormat reports whether s satisfies format. Unknown formats pass.
func CheckFormat(format, s string) bool {
	fn, ok := formatCheckers[format]
	if !ok {
		return true
	}
	return fn(s)
}

// KnownFormat reports whether format has a checker.
func KnownFormat(format string) bool {
	_, ok := formatCheckers[format]
	return ok
}
