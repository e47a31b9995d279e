package json

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sonnes/callscope/core"
	"github.com/sonnes/callscope/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const transcript = `[
  {
    "requestMessages": [{"role": "user", "content": "hi"}],
    "response": {"type": "success", "requestId": "r1", "copilotFunctionCalls": [
      {"name": "read_file", "arguments": "{\"filePath\":\"a.go\"}", "id": "c1"},
      {"name": "list_dir", "arguments": "{\"path\":\"/\"}", "id": "c2"}
    ]}
  },
  {
    "requestMessages": [{"role": "tool", "tool_call_id": "c1", "content": "package a"}],
    "response": {"type": "success", "value": ["done"], "requestId": "r2", "copilotFunctionCalls": []}
  }
]`

func renderDoc(t *testing.T, r *Renderer, s *session.Session) Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, s))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	return doc
}

func TestRender(t *testing.T) {
	s := session.New()
	require.NoError(t, s.Load([]byte(transcript)))

	doc := renderDoc(t, &Renderer{Indent: true, Results: true}, s)

	assert.Equal(t, core.FormatSimRequests, doc.Format)
	assert.Equal(t, 2, doc.Turns)
	assert.Equal(t, 3, doc.Total)
	assert.False(t, doc.HideFrame)
	assert.Equal(t, []int{}, doc.FilteredIndices)
	require.Len(t, doc.Calls, 3)

	first := doc.Calls[0]
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, "read_file", first.Name)
	assert.Equal(t, "r1", first.RequestID)
	assert.Equal(t, core.StatusSuccess, first.Status)
	assert.NotEmpty(t, first.Color)
	require.NotNil(t, first.Result)
	assert.Equal(t, "package a", first.Result.Text)

	assert.Nil(t, doc.Calls[1].Result)
	assert.Equal(t, core.NoToolName, doc.Calls[2].Name)
	assert.Equal(t, []string{"done"}, doc.Calls[2].Output)
}

func TestRenderFiltered(t *testing.T) {
	s := session.New()
	require.NoError(t, s.Load([]byte(transcript)))
	s.SetNameFilter("list")

	doc := renderDoc(t, &Renderer{}, s)
	assert.Equal(t, "list", doc.NameFilter)
	assert.Equal(t, []int{1}, doc.FilteredIndices)
	require.Len(t, doc.Calls, 1)
	assert.Equal(t, 1, doc.Calls[0].Index)
	assert.Nil(t, doc.Calls[0].Result, "results are opt-in")
}
