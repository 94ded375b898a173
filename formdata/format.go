package formdata

import (
	"regexp"

	"github.com/reoring/jsonform/internal/jsonvalue"
	"github.com/reoring/jsonform/internal/logging"
	"github.com/reoring/jsonform/jsonpointer"
	"github.com/reoring/jsonform/refs"
)

var (
	dateTimeSeconds = regexp.MustCompile(`(?i)^\d\d\d\d-[0-1]\d-[0-3]\dt[0-2]\d:[0-5]\d:[0-5]\d(?:\.\d+)?$`)
	dateTimeMinutes = regexp.MustCompile(`(?i)^\d\d\d\d-[0-1]\d-[0-3]\dt[0-2]\d:[0-5]\d$`)
	dateOnly        = regexp.MustCompile(`^\d\d\d\d-[0-1]\d-[0-3]\d$`)
)

// Options control Format.
type Options struct {
	// ReturnEmptyFields keeps empty leaves, arrays and objects in the output.
	ReturnEmptyFields bool
	// FixErrors forces values into their schema type instead of leaving
	// values that do not convert.
	FixErrors bool
	Logger    logging.Logger
}

// Format converts raw control values into output data typed by the schema
// types recorded in dm. Values that cannot be converted are passed through
// unchanged so validation can report them.
func Format(data any, dm Map, rc *refs.Context, opts Options) any {
	switch data.(type) {
	case map[string]any, []any:
	default:
		return data
	}
	if rc == nil {
		rc = refs.NewContext()
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	var out any
	if _, ok := data.([]any); ok {
		out = []any{}
	} else {
		out = map[string]any{}
	}
	set := func(pointer string, v any) {
		if pointer == "" {
			return
		}
		if next, err := jsonpointer.Set(out, pointer, v); err == nil {
			out = next
		}
	}

	jsonpointer.ForEachDeep(data, func(value any, pointer string) {
		_, isList := value.([]any)
		_, isMap := value.(map[string]any)
		if opts.ReturnEmptyFields && isList {
			set(pointer, []any{})
			return
		}
		if opts.ReturnEmptyFields && isMap {
			set(pointer, map[string]any{})
			return
		}

		generic := pointer
		if _, ok := dm.Lookup(pointer); !ok {
			generic = rc.CanonicalDataPointer(pointer)
		}
		entry, ok := dm.Lookup(generic)
		if !ok || entry.SchemaType == "" {
			if !isList && !isMap && value != nil {
				log.Warn("schema type not found for form value", "pointer", pointer)
				set(pointer, value)
			}
			return
		}

		switch t := entry.SchemaType; {
		case t == "null":
			set(pointer, nil)
		case t == "string" || t == "integer" || t == "number" || t == "boolean":
			if !jsonvalue.HasValue(value) && !opts.ReturnEmptyFields {
				break
			}
			var nv any
			if opts.FixErrors || (value == nil && opts.ReturnEmptyFields) {
				nv = jsonvalue.ToSchemaType(value, []string{t})
			} else {
				nv = jsonvalue.ToJSType(value, []string{t})
				if nv == nil {
					nv = value
				}
			}
			if nv != nil || opts.ReturnEmptyFields {
				set(pointer, nv)
			}
		case t == "object" && !opts.ReturnEmptyFields:
			for _, key := range entry.Required {
				child, ok := dm.Lookup(generic + "/" + jsonpointer.Escape(key))
				if !ok {
					continue
				}
				if _, present := jsonpointer.Get(out, pointer+"/"+jsonpointer.Escape(key)); present {
					continue
				}
				switch child.SchemaType {
				case "array":
					set(pointer+"/"+jsonpointer.Escape(key), []any{})
				case "object":
					set(pointer+"/"+jsonpointer.Escape(key), map[string]any{})
				}
			}
		}

		if s, ok := value.(string); ok && entry.SchemaFormat == "date-time" {
			switch {
			case dateTimeSeconds.MatchString(s):
				set(pointer, s+"Z")
			case dateTimeMinutes.MatchString(s):
				set(pointer, s+":00Z")
			case opts.FixErrors && dateOnly.MatchString(s):
				set(pointer, s+"T00:00:00Z")
			}
		}
	}, false)
	return out
}
