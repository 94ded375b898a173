package jsonform

import (
	"errors"

	"github.com/reoring/jsonform/validate"
)

var (
	// ErrNoSchema is returned by Initialize when neither a schema nor data
	// to derive one from was given.
	ErrNoSchema = errors.New("jsonform: no usable schema")
	// ErrNotInitialized is returned by operations that need a built form.
	ErrNotInitialized = errors.New("jsonform: form not initialized")
	// ErrUnbound marks a widget operation on a layout node without a control.
	ErrUnbound = errors.New("jsonform: layout node is not bound to a control")
	// ErrInvalid is returned by Submit when invalid data may not be submitted.
	ErrInvalid = errors.New("jsonform: form data is invalid")
)

// Issue and Issues describe validation problems by JSON pointer.
type (
	Issue  = validate.Issue
	Issues = validate.Issues
)

// AsIssues extracts Issues from an error.
func AsIssues(err error) (Issues, bool) { return validate.AsIssues(err) }
