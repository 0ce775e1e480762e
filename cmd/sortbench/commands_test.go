package main

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/sortbench/internal/apperr"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ENV_PATH", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))

	err := cmd.Execute()
	return out.String(), err
}

func smallRun(dir string, extra ...string) []string {
	args := []string{
		"run",
		"--sizes", "16,32",
		"--datasets", "sorted,random",
		"--algorithms", "insertion_sort,merge_sort,reference_sort",
		"--repeat", "2",
		"--number", "1",
		"--out", filepath.Join(dir, "out"),
	}
	return append(args, extra...)
}

func TestRunCmd_WritesArtifacts(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, smallRun(dir)...)
	require.NoError(t, err)
	assert.Contains(t, out, "reference_sort")

	for _, name := range []string{"results.csv", "REPORT.md", "report.json", "metrics.prom"} {
		assert.FileExists(t, filepath.Join(dir, "out", name))
	}

	f, err := os.Open(filepath.Join(dir, "out", "results.csv"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	// header plus 2 datasets × 2 sizes × 3 algorithms
	require.Len(t, records, 13)
	assert.Equal(t, []string{"dataset", "size", "algorithm", "min_s", "median_s", "max_s", "status"}, records[0])
	for _, rec := range records[1:] {
		assert.Equal(t, "ok", rec[6])
	}

	doc, err := os.ReadFile(filepath.Join(dir, "out", "REPORT.md"))
	require.NoError(t, err)
	assert.Contains(t, string(doc), "| Dataset | N | Algorithm | min (s) | median (s) | max (s) |")
}

func TestRunCmd_InvalidConfig(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, smallRun(dir, "--algorithms", "bogo_sort")...)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.NoDirExists(t, filepath.Join(dir, "out"))

	_, err = execute(t, smallRun(dir, "--sizes", "0")...)
	assert.True(t, apperr.IsValidation(err))
}

func TestRunCmd_SpecFile(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "bench.yaml")
	require.NoError(t, os.WriteFile(specPath, []byte(`
seed: 7
sizes: [8]
datasets: [many_dups]
algorithms: [merge_sort]
runs:
  repeat: 1
  number: 1
output:
  dir: `+filepath.Join(dir, "spec_out")+`
  report: SUMMARY.md
`), 0o644))

	_, err := execute(t, "run", "--config", specPath, "-q")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "spec_out", "SUMMARY.md"))
	assert.FileExists(t, filepath.Join(dir, "spec_out", "results.csv"))
}

func TestHistoryWorkflow(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "history.db")

	_, err := execute(t, smallRun(dir, "--history", "--history-path", db, "-q")...)
	require.NoError(t, err)

	out, err := execute(t, smallRun(dir, "--history", "--history-path", db, "-q")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Compared with run")

	out, err = execute(t, "history", "--history-path", db)
	require.NoError(t, err)
	assert.Contains(t, out, "MEASURED")
	assert.Contains(t, out, "2 of 2 runs")

	out, err = execute(t, "compare", "--history-path", db, "--threshold", "1000000")
	require.NoError(t, err)
	assert.Contains(t, out, "0 of 12 cells regressed")

	out, err = execute(t, "report", "--history-path", db, "--raw", "--out", filepath.Join(dir, "again"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# "))
	assert.FileExists(t, filepath.Join(dir, "again", "results.csv"))

	// trial samples survive the history round trip
	prom, err := os.ReadFile(filepath.Join(dir, "again", "metrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), `sortbench_trial_seconds_count{algorithm="merge_sort"} 8`)
}

func TestRunCmd_HistoryLoadFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "history.db")

	_, err := execute(t, smallRun(dir, "--history", "--history-path", db, "-q")...)
	require.NoError(t, err)

	conn, err := sql.Open("sqlite", db)
	require.NoError(t, err)
	_, err = conn.Exec(`UPDATE runs SET settings = '{'`)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	_, err = execute(t, smallRun(dir, "--history", "--history-path", db, "-q")...)
	require.Error(t, err)
	assert.ErrorContains(t, err, "load previous run")
	assert.False(t, errors.Is(err, apperr.ErrNotFound))

	// the new run is still stored and its artifacts kept
	assert.FileExists(t, filepath.Join(dir, "out", "results.csv"))
	conn, err = sql.Open("sqlite", db)
	require.NoError(t, err)
	defer conn.Close()
	var runs int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&runs))
	assert.Equal(t, 2, runs)
}

func TestCompareCmd_NeedsTwoRuns(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "history.db")

	_, err := execute(t, smallRun(dir, "--history", "--history-path", db, "-q")...)
	require.NoError(t, err)

	_, err = execute(t, "compare", "--history-path", db)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = execute(t, "compare", "not-an-id", "--history-path", db)
	assert.True(t, apperr.IsValidation(err))
}

func TestHistoryCmd_Empty(t *testing.T) {
	out, err := execute(t, "history", "--history-path", filepath.Join(t.TempDir(), "h.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "No runs stored yet.")
}

func TestReportCmd_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "REPORT.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n\nbody\n"), 0o644))

	out, err := execute(t, "report", "--file", path, "--raw")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nbody\n", out)
}

func TestSchemaCmd(t *testing.T) {
	out, err := execute(t, "schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "BenchSpec"`)
	assert.Contains(t, out, `"nearly_sorted"`)

	path := filepath.Join(t.TempDir(), "schemas", "sortbench.schema.json")
	_, err = execute(t, "schema", "--out", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, string(data))
}

func writeDotEnv(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("ENV_PATH", path)

	// godotenv never overrides a variable that is already set, even to ""
	for _, key := range []string{"LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestRootCmd_LogSettingsFromDotEnv(t *testing.T) {
	writeDotEnv(t, "LOG_LEVEL=not-a-level\n")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"schema"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorContains(t, err, `unknown log level "not-a-level"`)
}

func TestRootCmd_LogFlagsOverrideDotEnv(t *testing.T) {
	writeDotEnv(t, "LOG_LEVEL=not-a-level\nLOG_FORMAT=xml\n")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"schema", "--log-level", "error", "--log-format", "json"})

	require.NoError(t, cmd.Execute())
}
