package validate

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes for errors raised outside the schema validator.
const (
	CodeCompile = "compile_error"
	CodeRemote  = "remote_error"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer of the instance (for example: /items/2/price).
	Code    string // Schema keyword that failed, or one of the codes above.
	Message string
	// Params carries structured parameters reported by the validator.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		path := it.Path
		if path == "" {
			path = RootKey
		}
		fmt.Fprintf(b, "%s at %s", it.Code, path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
