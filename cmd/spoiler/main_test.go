package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadavr95/spoiler"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "spoiler version "+spoiler.Version+"\n", out)
}

func TestConvertCommand(t *testing.T) {
	out, stderr, err := run(t, `<p>a</p><video></video>`, "convert", "--target", "model")
	require.NoError(t, err)
	assert.Equal(t, "<paragraph>a</paragraph>\n", out)
	assert.Contains(t, stderr, "skipped 1")
}

func TestConvertCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.html")
	require.NoError(t, os.WriteFile(path, []byte(`<p>file</p>`), 0o644))

	out, _, err := run(t, "", "convert", path)
	require.NoError(t, err)
	assert.Equal(t, "<p>file</p>\n", out)
}

func TestRoundTripCommand(t *testing.T) {
	_, _, err := run(t, `<details class="spoiler"><summary class="spoiler-title">T</summary><div class="spoiler-description"><p>D</p></div></details>`, "roundtrip")
	assert.NoError(t, err)

	out, _, err := run(t, `<p><span>lost</span></p>`, "roundtrip")
	assert.Error(t, err)
	assert.Contains(t, out, `- "`)
}

func TestInsertCommand(t *testing.T) {
	out, _, err := run(t, `<p>foobar</p>`, "insert", "--at", "0/3")
	require.NoError(t, err)
	assert.Equal(t,
		`<p>foo</p><details class="spoiler"><summary class="spoiler-title"></summary><div class="spoiler-description"><p></p></div></details><p>bar</p>`+"\n",
		out)

	_, _, err = run(t, `<p>a</p>`, "insert", "--at", "zero")
	assert.Error(t, err)
}

func TestSchemaCommand(t *testing.T) {
	out, _, err := run(t, "", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, "name: spoiler\n")
	assert.Contains(t, out, "- insertSpoiler")
}

func TestInspectCommand(t *testing.T) {
	out, _, err := run(t, `<p>x</p>`, "inspect", "--no-color", "--at", "0/1")
	require.NoError(t, err)
	assert.Contains(t, out, "paragraph <caret 1>")
	assert.Contains(t, out, "insertSpoiler: enabled")
}

func TestConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spoiler.yaml")
	require.NoError(t, os.WriteFile(path, []byte("editor:\n  label: Hidden\n"), 0o644))

	out, _, err := run(t, `<details class="spoiler"></details>`, "--config", path, "convert", "-t", "editing")
	require.NoError(t, err)
	assert.Contains(t, out, `aria-label="Hidden"`)

	_, _, err = run(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "schema")
	assert.ErrorContains(t, err, "failed to read config")
}
