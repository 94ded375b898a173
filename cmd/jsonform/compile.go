package main

import (
	"fmt"
	"io"

	j "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	jsonform "github.com/reoring/jsonform"
	"github.com/reoring/jsonform/internal/jsondoc"
	"github.com/reoring/jsonform/internal/logging"
	"github.com/reoring/jsonform/layout"
	"github.com/reoring/jsonform/validate"
)

type compileFlags struct {
	schema    string
	layout    string
	data      string
	uiSchema  string
	format    string
	framework string
	language  string
	options   []string
	strict    bool
}

// compileResult is what the compile command prints.
type compileResult struct {
	Schema   map[string]any    `json:"schema"`
	Layout   any               `json:"layout"`
	Template any               `json:"template"`
	Data     any               `json:"data"`
	Valid    bool              `json:"valid"`
	Errors   validate.ErrorMap `json:"errors,omitempty"`
}

func newCompileCmd(logLevel *string) *cobra.Command {
	var f compileFlags
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Build a form and print its layout, template, data and validation result",
		Example: `  jsonform compile --schema person.schema.json --data person.json
  jsonform compile --schema form.yaml --option addSubmit=false --format yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.schema == "" && f.data == "" {
				return fmt.Errorf("one of --schema or --data is required")
			}
			return runCompile(cmd.OutOrStdout(), f, logging.Level(*logLevel))
		},
	}
	cmd.Flags().StringVar(&f.schema, "schema", "", "JSON Schema file (JSON or YAML)")
	cmd.Flags().StringVar(&f.layout, "layout", "", "layout file: a list of layout items")
	cmd.Flags().StringVar(&f.data, "data", "", "initial data file")
	cmd.Flags().StringVar(&f.uiSchema, "ui", "", "ui-schema file")
	cmd.Flags().StringVar(&f.format, "format", "json", "output format (json or yaml)")
	cmd.Flags().StringVar(&f.framework, "framework", "", "framework name")
	cmd.Flags().StringVar(&f.language, "language", "", "validation message language")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "reject JSON input with duplicate object keys")
	cmd.Flags().StringArrayVar(&f.options, "option", nil, "form option as key=value (repeatable)")
	return cmd
}

func runCompile(out io.Writer, f compileFlags, level logging.Level) error {
	if f.format != "json" && f.format != "yaml" {
		return fmt.Errorf("unknown format %q", f.format)
	}
	opts, err := loadOptions(f.options)
	if err != nil {
		return err
	}

	mode := jsondoc.Data
	if f.strict {
		mode |= jsondoc.Strict
	}
	in := jsonform.Input{Options: opts, Framework: f.framework, Language: f.language}
	if in.Schema, err = readDoc(f.schema, mode|jsondoc.Schema); err != nil {
		return err
	}
	if in.Layout, err = readDoc(f.layout, mode); err != nil {
		return err
	}
	if in.Data, err = readDoc(f.data, mode); err != nil {
		return err
	}
	if in.UISchema, err = readDoc(f.uiSchema, mode); err != nil {
		return err
	}

	cfg := logging.DefaultConfig()
	cfg.Level = level
	svc, err := jsonform.NewService(jsonform.WithLogger(logging.New(cfg)))
	if err != nil {
		return err
	}
	defer svc.Close()
	if err := svc.Initialize(in); err != nil {
		return fmt.Errorf("failed to build form: %w", err)
	}

	res := compileResult{
		Schema:   svc.Schema(),
		Layout:   printableLayout(svc.Layout()),
		Template: svc.Template(),
		Data:     svc.Value(),
		Valid:    svc.IsValid(),
		Errors:   svc.ValidationErrors(),
	}
	return writeResult(out, res, f.format)
}

// printableLayout copies nodes without their validation messages, which
// may hold message functions.
func printableLayout(nodes []*layout.Node) []*layout.Node {
	out := make([]*layout.Node, 0, len(nodes))
	for _, n := range nodes {
		c := n.Clone()
		c.Walk(func(n *layout.Node) { delete(n.Options, "validationMessages") })
		out = append(out, c)
	}
	return out
}

func readDoc(path string, mode jsondoc.Mode) (any, error) {
	if path == "" {
		return nil, nil
	}
	v, err := jsondoc.ReadFile(path, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return v, nil
}

func writeResult(out io.Writer, res compileResult, format string) error {
	b, err := jsondoc.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if format == "yaml" {
		// go through a plain tree so YAML keys match the JSON names
		var tree any
		if err := j.Unmarshal(b, &tree); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		if b, err = jsondoc.MarshalYAML(tree); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	} else {
		b = append(b, '\n')
	}
	_, err = out.Write(b)
	return err
}
