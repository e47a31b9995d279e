package newagent

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sonnes/callscope/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTestdata(t *testing.T, name string) *core.Transcript {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	var records []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &records))
	return (&Reader{}).Read(records)
}

func ids(invs []core.ToolInvocation) []string {
	var out []string
	for _, inv := range invs {
		out = append(out, inv.ID)
	}
	return out
}

func TestReadSplitsAndDeduplicates(t *testing.T) {
	tr := readTestdata(t, "repeated_history.json")

	assert.Equal(t, core.FormatNewAgent, tr.Format)
	assert.Empty(t, tr.Warnings)
	require.Len(t, tr.Turns, 3)

	first := tr.Turns[0]
	assert.Equal(t, 0, first.RecordIndex)
	assert.Equal(t, "panel/editAgent", first.Name)
	assert.Equal(t, []string{"tc1"}, ids(first.Response.Invocations))
	assert.Equal(t, []string{"Found it."}, first.Response.Value)
	assert.Len(t, first.Messages, 3)

	placeholder := tr.Turns[1]
	assert.Equal(t, 1, placeholder.RecordIndex)
	assert.True(t, placeholder.Response.Synthesized)
	assert.NotNil(t, placeholder.Response.Invocations)
	assert.Empty(t, placeholder.Response.Invocations)
	assert.Equal(t, []string{"Nothing to do."}, placeholder.Response.Value)

	last := tr.Turns[2]
	assert.Equal(t, 2, last.RecordIndex)
	assert.Equal(t, []string{"tc2", "tc3"}, ids(last.Response.Invocations), "tc1 repeats history and is dropped")
	assert.Equal(t, []string{"Final message."}, last.Response.Value)
	assert.Len(t, last.Messages, 5)
}

func TestReadKeepsBlocksSeparate(t *testing.T) {
	records := []json.RawMessage{json.RawMessage(`{
		"name": "agent",
		"requestMessages": [
			{"role": "user", "content": "go"},
			{"role": "assistant", "tool_calls": [{"id": "a", "function": {"name": "list_dir"}}]},
			{"role": "tool", "tool_call_id": "a", "content": "x"},
			{"role": "assistant", "tool_calls": [{"id": "b", "function": {"name": "read_file"}}]}
		],
		"response": {"type": "success", "value": "done"}
	}`)}

	tr := (&Reader{}).Read(records)
	require.Len(t, tr.Turns, 2)
	assert.Equal(t, []string{"a"}, ids(tr.Turns[0].Response.Invocations))
	assert.Empty(t, tr.Turns[0].Response.Value)
	assert.Len(t, tr.Turns[0].Messages, 2)
	assert.Equal(t, []string{"b"}, ids(tr.Turns[1].Response.Invocations))
	assert.Equal(t, []string{"done"}, tr.Turns[1].Response.Value)
}

func TestReadNeverDeduplicatesMissingIDs(t *testing.T) {
	rec := json.RawMessage(`{
		"name": "agent",
		"requestMessages": [
			{"role": "assistant", "tool_calls": [{"function": {"name": "run_in_terminal"}}]}
		],
		"response": {"type": "success"}
	}`)

	tr := (&Reader{}).Read([]json.RawMessage{rec, rec})
	require.Len(t, tr.Turns, 2)
	for _, turn := range tr.Turns {
		require.Len(t, turn.Response.Invocations, 1)
		assert.Equal(t, "run_in_terminal", turn.Response.Invocations[0].Name)
	}
}

func TestReadResponseLevelCalls(t *testing.T) {
	records := []json.RawMessage{json.RawMessage(`{
		"name": "agent",
		"requestMessages": [{"role": "user", "content": "hi"}],
		"response": {"type": "success", "toolCalls": [{"id": "r1", "name": "file_search", "arguments": "{}"}]}
	}`)}

	tr := (&Reader{}).Read(records)
	require.Len(t, tr.Turns, 1)
	assert.Equal(t, []string{"r1"}, ids(tr.Turns[0].Response.Invocations))
}

func TestReadMalformedRecord(t *testing.T) {
	tr := (&Reader{}).Read([]json.RawMessage{json.RawMessage(`{"name": 5}`)})

	require.Len(t, tr.Turns, 1)
	assert.Equal(t, core.FormatUnknown, tr.Turns[0].Format)
	require.Len(t, tr.Warnings, 1)
}
