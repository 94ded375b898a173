package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_RespectsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(&Config{Level: WarnLevel, Output: buf})
	l.Info("hidden")
	l.Warn("shown", "key", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "key=v")

	SetLevel(l, DebugLevel)
	l.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestNew_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(&Config{Level: InfoLevel, Output: buf, JSON: true})
	l.Error("boom", "code", 7)
	assert.Contains(t, buf.String(), `"msg":"boom"`)
	assert.Contains(t, buf.String(), `"code":7`)
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("ignored")
	SetLevel(l, DebugLevel)
}
