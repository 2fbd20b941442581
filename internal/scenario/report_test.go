package scenario

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleReports() []*Report {
	hint := int64(3)
	return []*Report{{
		Scenario: "demo",
		Path:     "demo.yaml",
		Results: []Result{
			{Check: "forward", Op: OpIter, Passed: true, Got: []string{"1", "2"}},
			{Check: "hint", Op: OpLengthHint, Passed: false, Hint: &hint, Reason: "expected hint 4, got 3"},
		},
	}}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleReports(), false))
	want := strings.Join([]string{
		"demo (demo.yaml)",
		"  PASS forward [1, 2]",
		"  FAIL hint",
		"       expected hint 4, got 3",
		"1 passed, 1 failed",
		"",
	}, "\n")
	require.Equal(t, want, buf.String())
}

func TestWriteTextColor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleReports(), true))
	require.Contains(t, buf.String(), "\x1b[")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReports()))

	var decoded []Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	require.Equal(t, "demo", decoded[0].Scenario)
	require.Equal(t, []string{"1", "2"}, decoded[0].Results[0].Got)
	require.EqualValues(t, 3, *decoded[0].Results[1].Hint)
	require.NotContains(t, buf.String(), `"stop"`)
}
