package main

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	jsonform "github.com/reoring/jsonform"
)

const envPrefix = "JSONFORM_"

// loadOptions layers form options: the defaults, then JSONFORM_* variables
// from the environment, then key=value overrides from the command line.
// Environment keys are matched case-insensitively, so JSONFORM_ADDSUBMIT
// sets addSubmit.
func loadOptions(overrides []string) (map[string]any, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(jsonform.DefaultFormOptions(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load default options: %w", err)
	}

	known := make(map[string]string)
	for _, key := range k.Keys() {
		known[strings.ToLower(key)] = key
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			name := strings.ToLower(strings.TrimPrefix(key, envPrefix))
			name = strings.ReplaceAll(name, "_", "")
			if path, ok := known[name]; ok {
				return path, value
			}
			return "", nil
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment options: %w", err)
	}

	for _, kv := range overrides {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid option %q, want key=value", kv)
		}
		if path, ok := known[strings.ToLower(key)]; ok {
			key = path
		}
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set option %q: %w", key, err)
		}
	}
	return k.Raw(), nil
}
