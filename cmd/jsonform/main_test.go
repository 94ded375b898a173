package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	j "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const personSchema = `{
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "age": {"type": "integer"}
  }
}`

func TestCompile_JSON(t *testing.T) {
	schema := writeFile(t, "person.json", personSchema)
	data := writeFile(t, "data.json", `{"name": "Ada", "age": 36}`)

	out, err := run(t, "compile", "--schema", schema, "--data", data, "--option", "addSubmit=false")
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, j.Unmarshal([]byte(out), &res))
	assert.Equal(t, true, res["valid"])
	assert.Equal(t, map[string]any{"name": "Ada", "age": 36.0}, res["data"])
	layout, ok := res["layout"].([]any)
	require.True(t, ok)
	assert.Len(t, layout, 2)
	assert.NotContains(t, res, "errors")
}

func TestCompile_YAMLInvalid(t *testing.T) {
	schema := writeFile(t, "person.yaml", "type: object\nrequired: [name]\nproperties:\n  name:\n    type: string\n    minLength: 1\n")

	out, err := run(t, "compile", "--schema", schema, "--format", "yaml")
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	assert.Equal(t, false, res["valid"])
	assert.Contains(t, res["errors"], "/name")
}

func TestCompile_Errors(t *testing.T) {
	_, err := run(t, "compile")
	assert.Error(t, err)

	schema := writeFile(t, "s.json", personSchema)
	_, err = run(t, "compile", "--schema", schema, "--format", "xml")
	assert.Error(t, err)

	_, err = run(t, "compile", "--schema", schema, "--option", "nokey")
	assert.Error(t, err)
}

func TestLoadOptions_EnvAndOverrides(t *testing.T) {
	t.Setenv("JSONFORM_RETURN_EMPTY_FIELDS", "false")
	t.Setenv("JSONFORM_LANGUAGE", "de")

	opts, err := loadOptions([]string{"language=fr", "addsubmit=false"})
	require.NoError(t, err)
	assert.Equal(t, "false", opts["returnEmptyFields"])
	assert.Equal(t, "fr", opts["language"])
	assert.Equal(t, "false", opts["addSubmit"])
	assert.Equal(t, "no-framework", opts["framework"])
}

func TestFrameworks(t *testing.T) {
	out, err := run(t, "frameworks")
	require.NoError(t, err)
	assert.Contains(t, out, "no-framework")
	assert.Contains(t, out, "bootstrap-5\tthemes: bootstrap-5-light, bootstrap-5-dark")
}

func TestCompile_StrictRejectsDuplicateKeys(t *testing.T) {
	schema := writeFile(t, "dup.json", `{"type":"object","properties":{"a":{"type":"string"},"a":{"type":"number"}}}`)
	_, err := run(t, "compile", "--schema", schema)
	require.NoError(t, err)
	_, err = run(t, "compile", "--schema", schema, "--strict")
	assert.ErrorContains(t, err, "/properties/a")
}
