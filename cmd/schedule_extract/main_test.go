package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/a3tai/schedify/internal/schedule"
	"github.com/a3tai/schedify/internal/testutil"
)

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Text(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "cor.pdf", testutil.BuildPDF(testutil.RegistrationText))

	code, stdout, stderr := runCLI(path)
	require.Equal(t, 0, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, "Processed Courses: 2\n"), stdout)
	assert.Contains(t, stdout, "IT202 - WEB DESIGN")
}

func TestRun_JSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "cor.pdf", testutil.BuildPDF(testutil.RegistrationText))
	out := filepath.Join(dir, "cor.json")

	code, stdout, stderr := runCLI("-format", "json", "-out", out, path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Wrote "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	parsed, err := schedule.DecodeJSON(data)
	require.NoError(t, err)
	assert.Len(t, parsed.Courses, 2)

	code, stdout, stderr = runCLI("-from-json", out)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, schedule.Summary(parsed), stdout)
}

func TestRun_XLSX(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "cor.pdf", testutil.BuildPDF(testutil.RegistrationText))
	out := filepath.Join(dir, "schedule.xlsx")

	code, _, stderr := runCLI("-format", "xlsx", "-out", out, path)
	require.Equal(t, 0, code, stderr)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Meetings")
	require.NoError(t, err)
	assert.Len(t, rows, 7, "header plus six meetings")
}

func TestRun_Verbose(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "cor.pdf", testutil.BuildPDF(testutil.RegistrationText))

	code, _, stderr := runCLI("-verbose", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "Rows: 3 candidate, 3 matched, 1 merged")
	assert.Contains(t, stderr, "extracted schedule")
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	letter := testutil.WriteFile(t, dir, "letter.pdf", testutil.BuildPDF("Dear student"))
	badJSON := testutil.WriteFile(t, dir, "bad.json", []byte(`{"courses":[{"code":"cs101"}]}`))

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{name: "no input", args: nil, wantCode: 2, wantErr: "exactly one input file"},
		{name: "bad format", args: []string{"-format", "csv", letter}, wantCode: 2, wantErr: "unsupported output format"},
		{name: "missing file", args: []string{filepath.Join(dir, "missing.pdf")}, wantCode: 1, wantErr: "does not exist"},
		{name: "no schedule table", args: []string{letter}, wantCode: 1, wantErr: "MALFORMED_DOCUMENT"},
		{name: "invalid json", args: []string{"-from-json", badJSON}, wantCode: 1, wantErr: "Error:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(tt.args...)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stderr, tt.wantErr)
		})
	}
}

func TestRun_Help(t *testing.T) {
	code, _, stderr := runCLI("-help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "USAGE:")
}
