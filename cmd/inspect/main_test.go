package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/jsonapi/document"
)

const sample = `{
	"data": {"id": "1", "type": "Articles", "attributes": {"title": "Hello"},
		"relationships": {
			"author": {"data": {"id": "9", "type": "people"}},
			"tags": {"data": [{"id": "t1"}]}
		}},
	"included": [{"id": "9", "type": "people"}]
}`

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDocumentTypes(t *testing.T) {
	doc, err := document.Unmarshal([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, []string{"articles", "people", "tags"}, documentTypes(doc))
}

func TestRun(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, options{file: writeSample(t, sample), reassign: true}, false)
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "Result: resource")
	assert.Contains(t, got, "1_Articles")
	assert.Contains(t, got, "Pool (weak, 3 resources)")
	assert.Contains(t, got, "t1_tags [stub]")
	assert.NotContains(t, got, "9_people [stub]")
}

func TestRun_SelectedTypes(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, options{file: writeSample(t, sample), types: "people", dump: true}, false)
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "Registered types: people")
	assert.Contains(t, got, "(type not registered)")
	assert.Contains(t, got, "Pool (strong, 1 resources)")
	assert.Contains(t, got, "--- dump ---")
}

func TestRun_ContractViolation(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, options{file: writeSample(t, `{"data": {"id": "1"}}`)}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve")
}

func TestRun_Errors(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, options{file: writeSample(t, `{"errors": [{"status": "404", "title": "Not Found"}]}`)}, false)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "404: Not Found")
}

func TestRun_MissingFile(t *testing.T) {
	err := run(&bytes.Buffer{}, options{file: filepath.Join(t.TempDir(), "nope.json")}, false)
	assert.Error(t, err)
}

func TestUseInteractive(t *testing.T) {
	tests := []struct {
		name      string
		opts      options
		stdinTTY  bool
		stdoutTTY bool
		want      bool
	}{
		{"terminal", options{file: "doc.json", interactive: true}, true, true, true},
		{"not requested", options{file: "doc.json"}, true, true, false},
		{"stdout piped", options{file: "doc.json", interactive: true}, true, false, false},
		{"stdin piped", options{file: "doc.json", interactive: true}, false, true, false},
		{"document on stdin", options{file: "-", interactive: true}, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, useInteractive(tt.opts, tt.stdinTTY, tt.stdoutTTY))
		})
	}
}

func TestRun_InteractiveFallsBackToPlainOutput(t *testing.T) {
	opts := options{file: writeSample(t, sample), interactive: true}
	require.False(t, useInteractive(opts, false, false))

	var out bytes.Buffer
	require.NoError(t, run(&out, opts, false))
	assert.Contains(t, out.String(), "Result: resource")
}
