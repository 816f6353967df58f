package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, catalog string) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example\n"), 0o644))
	if catalog != "" {
		require.NoError(t, os.WriteFile(filepath.Join(root, "tools-config.txt"), []byte(catalog), 0o644))
	}
	sub := filepath.Join(root, "internal", "pkg")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	return sub
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	dir := writeProject(t, `
- ID: weather
- Description: Current weather
- ID: search
- Description: Web search
`)

	out, err := run(t, "list", "--start-dir", dir, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "weather")
	assert.Contains(t, out, "Web search")
}

func TestListCommand_NoCatalog(t *testing.T) {
	dir := writeProject(t, "")

	out, err := run(t, "list", "--start-dir", dir, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "No tools loaded")
}

func TestCallCommand(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"echo":"` + r.URL.Query().Get("q") + `"}`))
	}))
	defer api.Close()

	dir := writeProject(t, `
- ID: echo
- Description: Echo
- Input Schema: {"q": {"type": "string"}}
- Output Schema: {"echo": {"type": "string"}}
- Request Type: GET
- URL: /echo
`)

	out, err := run(t, "call", "echo", "--args", `{"q":"hi"}`,
		"--start-dir", dir, "--base-url", api.URL, "--log-level", "error")
	require.NoError(t, err)
	assert.JSONEq(t, `{"echo":"hi"}`, out)

	_, err = run(t, "call", "nope", "--start-dir", dir, "--log-level", "error")
	assert.ErrorContains(t, err, "TOOL_NOT_FOUND")
}

func TestValidateCommand(t *testing.T) {
	dir := writeProject(t, `
- ID: good
- Description: Complete
- Input Schema: {"q": {"type": "string"}}
- Output Schema: {"r": {"type": "string"}}
- Request Type: POST
- URL: https://api.example.com/good
- ID: bad
- Description: Incomplete
- Request Type: PATCH
`)

	out, err := run(t, "validate", "--start-dir", dir, "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, out, "good")
	assert.Contains(t, out, "supported request type (got PATCH)")
	assert.ErrorContains(t, err, "1 of 2")
}

func TestInvalidSettings(t *testing.T) {
	_, err := run(t, "list", "--log-level", "loud")
	assert.ErrorContains(t, err, "log_level")
}
