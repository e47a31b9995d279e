package fetchlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sonnes/callscope/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRecords(t *testing.T, name string) []json.RawMessage {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	var records []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &records))
	return records
}

func TestRead(t *testing.T) {
	tr := (&Reader{}).Read(readRecords(t, "conversation.json"))

	assert.Equal(t, core.FormatFetchlog, tr.Format)
	assert.Empty(t, tr.Warnings)
	require.Len(t, tr.Turns, 2)

	first, second := tr.Turns[0], tr.Turns[1]
	assert.Equal(t, core.StatusToolCalls, first.Response.Status)
	assert.Empty(t, first.Response.Value, "tool-call turns keep no free text")
	assert.Equal(t, []core.ToolInvocation{
		{Name: "list_dir", Arguments: `{"path":"/src"}`, ID: "tc-1"},
	}, first.Response.Invocations)

	assert.Equal(t, core.StatusSuccess, second.Response.Status)
	assert.Equal(t, []string{"The directory holds main.go and parser.go."}, second.Response.Value)
	assert.Empty(t, second.Response.Invocations)
	require.Len(t, second.Messages, 4)
	assert.Equal(t, "tc-1", second.Messages[3].ToolCallID)
	assert.Len(t, second.Messages[2].ToolCalls, 1)
}

func TestReadUnifiesTools(t *testing.T) {
	tr := (&Reader{}).Read(readRecords(t, "conversation.json"))

	require.Len(t, tr.Turns, 2)
	for _, turn := range tr.Turns {
		require.Len(t, turn.Options.Tools, 1)
		assert.Equal(t, "list_dir", turn.Options.Tools[0].Name)
	}
}

func TestReadSharesRequestID(t *testing.T) {
	records := readRecords(t, "conversation.json")
	tr := (&Reader{}).Read(records)

	id := tr.Turns[0].Response.RequestID
	assert.NotEmpty(t, id)
	assert.Equal(t, id, tr.Turns[1].Response.RequestID)

	again := (&Reader{}).Read(records)
	assert.Equal(t, id, again.Turns[0].Response.RequestID, "id is stable across reloads")

	fewer := (&Reader{}).Read(records[:1])
	assert.NotEqual(t, id, fewer.Turns[0].Response.RequestID, "id depends on every record")
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name     string
		resp     response
		hasCalls bool
		want     core.Status
	}{
		{"explicit type", response{Type: "failed"}, false, core.StatusFailed},
		{"finish reason stop", response{FinishReason: "stop"}, false, core.StatusSuccess},
		{"snake finish reason", response{FinishReason2: "tool_calls"}, true, core.StatusToolCalls},
		{"error", response{FinishReason: "error"}, false, core.StatusFailed},
		{"inferred from calls", response{}, true, core.StatusToolCalls},
		{"empty", response{}, false, core.StatusSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.resp.status(tt.hasCalls))
		})
	}
}

func TestOutputPrefersValue(t *testing.T) {
	var r response
	require.NoError(t, json.Unmarshal([]byte(`{"value":["a","b"],"content":"ignored"}`), &r))
	assert.Equal(t, []string{"a", "b"}, r.output(core.StatusSuccess))

	var plain response
	require.NoError(t, json.Unmarshal([]byte(`{"content":"plain"}`), &plain))
	assert.Equal(t, []string{"plain"}, plain.output(core.StatusSuccess))
	assert.Nil(t, plain.output(core.StatusToolCalls))
}
