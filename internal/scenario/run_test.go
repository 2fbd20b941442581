package scenario

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func runFile(t *testing.T, path string, opts Options) *Report {
	t.Helper()
	sc, err := Load(path)
	require.NoError(t, err)
	r, err := Run(context.Background(), sc, opts)
	require.NoError(t, err)
	return r
}

func requireAllPassed(t *testing.T, r *Report) {
	t.Helper()
	for _, res := range r.Results {
		require.Truef(t, res.Passed, "%s: %s", res.Check, res.Reason)
	}
}

func TestRunSequences(t *testing.T) {
	r := runFile(t, "testdata/sequences.yaml", Options{})
	require.Len(t, r.Results, 13)
	requireAllPassed(t, r)
	require.Equal(t, []string{"10", "20", "30"}, r.Results[0].Got)
	require.Equal(t, []string{"30", "20", "10"}, r.Results[1].Got)
}

func TestRunExplicit(t *testing.T) {
	r := runFile(t, "testdata/explicit.toml", Options{})
	requireAllPassed(t, r)
	require.Equal(t, "42", r.Results[0].Stop)
	require.Equal(t, "None", r.Results[1].Stop)
}

func TestRunReportsMismatches(t *testing.T) {
	src := `classes:
  - name: Seq
    items: [1, 2]
checks:
  - op: iter
    target: Seq
    values: [1, 2, 3]
  - op: length_hint
    target: Seq
    hint: 2
  - op: iter
    target: Seq
    error: TypeError
  - op: iter
    target: Seq
    error: NoSuchError
`
	sc, err := Parse("mismatch.yaml", []byte(src))
	require.NoError(t, err)
	r, err := Run(context.Background(), sc, Options{})
	require.NoError(t, err)
	require.Equal(t, 4, r.Failures())
	require.False(t, r.Passed())
	require.Equal(t, "expected values [1, 2, 3], got [1, 2]", r.Results[0].Reason)
	require.Equal(t, "expected hint 2, got none", r.Results[1].Reason)
	require.Equal(t, "expected TypeError, got no error", r.Results[2].Reason)
	require.Equal(t, `unknown exception class "NoSuchError"`, r.Results[3].Reason)
}

func TestRunMemoryLimit(t *testing.T) {
	src := `checks:
  - op: list
    value: [1, 2, 3, 4]
    error: MemoryError
`
	sc, err := Parse("memory.yaml", []byte(src))
	require.NoError(t, err)
	// the 4-element target fits, materializing a copy of it does not
	r, err := Run(context.Background(), sc, Options{MaxMemory: 80})
	require.NoError(t, err)
	requireAllPassed(t, r)
	require.Contains(t, r.Results[0].Error, "MemoryError")
}

func TestRunChargesTarget(t *testing.T) {
	src := `classes:
  - name: Seq
    items: [1]
checks:
  - op: iter
    target: Seq
    error: MemoryError
  - op: len
    value: "abc"
    error: MemoryError
`
	sc, err := Parse("target.yaml", []byte(src))
	require.NoError(t, err)
	r, err := Run(context.Background(), sc, Options{MaxMemory: 16})
	require.NoError(t, err)
	requireAllPassed(t, r)
}

func TestRunStopsOnCancel(t *testing.T) {
	sc, err := Load("testdata/sequences.yaml")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, err := Run(ctx, sc, Options{})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, r.Results)
}

func TestRunFilesKeepsOrder(t *testing.T) {
	paths := []string{"testdata/explicit.toml", "testdata/sequences.yaml", "testdata/explicit.toml"}
	reports, err := RunFiles(context.Background(), paths, Options{}, 2)
	require.NoError(t, err)
	require.Len(t, reports, 3)
	require.Equal(t, "explicit", reports[0].Scenario)
	require.Equal(t, "sequences", reports[1].Scenario)
	require.Equal(t, "explicit", reports[2].Scenario)
	for _, r := range reports {
		requireAllPassed(t, r)
	}
}

func TestRunFilesFailsOnBadFile(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("checks:\n  - op: nope\n    value: 1\n"), 0o644))
	_, err := RunFiles(context.Background(), []string{"testdata/sequences.yaml", bad}, Options{}, 1)
	require.ErrorContains(t, err, "unknown op")
}
