package jsonform

import (
	"fmt"
	"strconv"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/mohae/deepcopy"
)

// FormOptions are the session-wide settings of a form. SetSchemaDefaults,
// SetLayoutDefaults, AddSubmit and ValidateOnRender take true, false or
// "auto".
type FormOptions struct {
	AddSubmit            any            `mapstructure:"addSubmit" json:"addSubmit" koanf:"addSubmit"`
	Debug                bool           `mapstructure:"debug" json:"debug" koanf:"debug"`
	DisableInvalidSubmit bool           `mapstructure:"disableInvalidSubmit" json:"disableInvalidSubmit" koanf:"disableInvalidSubmit"`
	FormDisabled         bool           `mapstructure:"formDisabled" json:"formDisabled" koanf:"formDisabled"`
	FormReadonly         bool           `mapstructure:"formReadonly" json:"formReadonly" koanf:"formReadonly"`
	Framework            string         `mapstructure:"framework" json:"framework" koanf:"framework"`
	Language             string         `mapstructure:"language" json:"language" koanf:"language"`
	LoadExternalAssets   bool           `mapstructure:"loadExternalAssets" json:"loadExternalAssets" koanf:"loadExternalAssets"`
	ReturnEmptyFields    bool           `mapstructure:"returnEmptyFields" json:"returnEmptyFields" koanf:"returnEmptyFields"`
	SetSchemaDefaults    any            `mapstructure:"setSchemaDefaults" json:"setSchemaDefaults" koanf:"setSchemaDefaults"`
	SetLayoutDefaults    any            `mapstructure:"setLayoutDefaults" json:"setLayoutDefaults" koanf:"setLayoutDefaults"`
	ValidateOnRender     any            `mapstructure:"validateOnRender" json:"validateOnRender" koanf:"validateOnRender"`
	Widgets              map[string]any `mapstructure:"-" json:"widgets,omitempty" koanf:"-"`
	DefaultWidgetOptions map[string]any `mapstructure:"-" json:"defaultWidgetOptions" koanf:"-"`
}

// DefaultFormOptions returns the options a new Service starts with.
func DefaultFormOptions() FormOptions {
	return FormOptions{
		AddSubmit:            "auto",
		DisableInvalidSubmit: true,
		Framework:            "no-framework",
		Language:             "en",
		ReturnEmptyFields:    true,
		SetSchemaDefaults:    "auto",
		SetLayoutDefaults:    "auto",
		ValidateOnRender:     "auto",
		Widgets:              map[string]any{},
		DefaultWidgetOptions: map[string]any{
			"addable":            true,
			"orderable":          true,
			"removable":          true,
			"enableErrorState":   true,
			"enableSuccessState": true,
			"feedback":           false,
			"feedbackOnRender":   false,
			"notitle":            false,
			"disabled":           false,
			"readonly":           false,
			"returnEmptyFields":  true,
			"validationMessages": map[string]any{},
		},
	}
}

// mapOptions are merged rather than replaced.
var mapOptions = []string{"widgets", "defaultWidgetOptions", "defaultOptions"}

// policyOptions take true, false or "auto"; "true" and "false" strings
// from the environment become booleans.
var policyOptions = []string{"addSubmit", "setSchemaDefaults", "setLayoutDefaults", "validateOnRender"}

// Merge applies a partial option map on top of o. Unknown keys are
// ignored; "defaultOptions" is accepted as an alias of
// "defaultWidgetOptions".
func (o FormOptions) Merge(partial map[string]any) (FormOptions, error) {
	out := o.clone()
	scalars := make(map[string]any, len(partial))
	for k, v := range partial {
		scalars[k] = v
	}
	for _, k := range mapOptions {
		delete(scalars, k)
	}
	policies := make(map[string]any, len(policyOptions))
	for _, k := range policyOptions {
		v, ok := scalars[k]
		if !ok {
			continue
		}
		delete(scalars, k)
		p, err := policyValue(v)
		if err != nil {
			return o, fmt.Errorf("invalid %s option: %w", k, err)
		}
		policies[k] = p
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return o, fmt.Errorf("failed to create options decoder: %w", err)
	}
	if err := decoder.Decode(scalars); err != nil {
		return o, fmt.Errorf("failed to decode form options: %w", err)
	}
	for k, v := range policies {
		switch k {
		case "addSubmit":
			out.AddSubmit = v
		case "setSchemaDefaults":
			out.SetSchemaDefaults = v
		case "setLayoutDefaults":
			out.SetLayoutDefaults = v
		case "validateOnRender":
			out.ValidateOnRender = v
		}
	}

	if w, ok := partial["widgets"].(map[string]any); ok {
		if err := mergo.Merge(&out.Widgets, w, mergo.WithOverride); err != nil {
			return o, fmt.Errorf("failed to merge widgets: %w", err)
		}
	}
	for _, k := range []string{"defaultOptions", "defaultWidgetOptions"} {
		if dwo, ok := partial[k].(map[string]any); ok {
			if err := mergo.Merge(&out.DefaultWidgetOptions, deepcopy.Copy(dwo).(map[string]any), mergo.WithOverride); err != nil {
				return o, fmt.Errorf("failed to merge default widget options: %w", err)
			}
		}
	}
	return out, nil
}

// policyValue normalizes a policy option to a bool or "auto". The
// policies are not decoded with the other options: decoding into the
// current "auto" string would turn false into "0".
func policyValue(v any) (any, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		if t == "auto" {
			return t, nil
		}
		if b, err := strconv.ParseBool(t); err == nil {
			return b, nil
		}
	}
	return nil, fmt.Errorf("want true, false or \"auto\", got %v", v)
}

func (o FormOptions) clone() FormOptions {
	out := o
	out.Widgets, _ = deepcopy.Copy(o.Widgets).(map[string]any)
	out.DefaultWidgetOptions, _ = deepcopy.Copy(o.DefaultWidgetOptions).(map[string]any)
	if out.Widgets == nil {
		out.Widgets = map[string]any{}
	}
	if out.DefaultWidgetOptions == nil {
		out.DefaultWidgetOptions = map[string]any{}
	}
	return out
}

// widgetOptions returns the default widget options as seen by layout
// nodes: returnEmptyFields follows the form option, and a disabled or
// read-only form disables every widget.
func (o FormOptions) widgetOptions() map[string]any {
	out, _ := deepcopy.Copy(o.DefaultWidgetOptions).(map[string]any)
	if out == nil {
		out = map[string]any{}
	}
	out["returnEmptyFields"] = o.ReturnEmptyFields
	if o.FormDisabled {
		out["disabled"] = true
	}
	if o.FormReadonly {
		out["readonly"] = true
	}
	return out
}
