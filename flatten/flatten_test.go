package flatten

import (
	"testing"

	"github.com/sonnes/callscope/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	turns := []core.Turn{
		{
			Format: core.FormatSimRequests,
			Response: core.Response{
				Status: core.StatusSuccess,
				Value:  []string{"Reading."},
				Invocations: []core.ToolInvocation{
					{Name: "read_file", Arguments: `{"filePath":"a.go"}`, ID: "c1"},
					{Name: "grep_search", Arguments: `{"query":"x"}`, ID: "c2"},
				},
			},
		},
		{
			Format:   core.FormatSimRequests,
			Response: core.Response{Status: core.StatusSuccess, Value: []string{"Done."}},
		},
	}

	calls := Flatten(turns)
	require.Len(t, calls, 3)

	assert.Equal(t, "read_file", calls[0].Name)
	assert.Equal(t, 0, calls[0].TurnIndex)
	assert.Equal(t, 0, calls[0].CallIndex)
	assert.Equal(t, "c1", calls[0].ID)
	assert.True(t, calls[0].HasFunction)
	assert.Same(t, &turns[0], calls[0].Turn)
	assert.Equal(t, []string{"Reading."}, calls[0].Output)

	assert.Equal(t, "grep_search", calls[1].Name)
	assert.Equal(t, 1, calls[1].CallIndex)
	assert.Equal(t, []string{"Reading."}, calls[1].Output, "only new-agent turns move text to the last call")

	assert.Equal(t, core.NoToolName, calls[2].Name)
	assert.Equal(t, 1, calls[2].TurnIndex)
	assert.Equal(t, -1, calls[2].CallIndex)
	assert.False(t, calls[2].HasFunction)
	assert.Empty(t, calls[2].Color, "colors are assigned separately")
}

func TestFlattenTrailingTextOnLastCall(t *testing.T) {
	turns := []core.Turn{{
		Format: core.FormatNewAgent,
		Response: core.Response{
			Synthesized: true,
			Value:       []string{"Final message."},
			Invocations: []core.ToolInvocation{
				{Name: "tool_one", ID: "tc1"},
				{Name: "tool_two", ID: "tc2"},
			},
		},
	}}

	calls := Flatten(turns)
	require.Len(t, calls, 2)
	assert.Empty(t, calls[0].Output)
	assert.Equal(t, []string{"Final message."}, calls[1].Output)
}

func TestFlattenSummarizePlaceholder(t *testing.T) {
	turns := []core.Turn{{
		Format: core.FormatNewAgent,
		Messages: []core.Message{
			textMsg(core.RoleUser, "Summarize the following actions in 6-7 words using past tense: did X."),
		},
		Response: core.Response{Synthesized: true, Invocations: []core.ToolInvocation{}},
	}}

	calls := Flatten(turns)
	require.Len(t, calls, 1)
	assert.Equal(t, Summarize, calls[0].Name)
	assert.True(t, calls[0].ConversationSummary)
	assert.True(t, calls[0].HasFunction)
	assert.True(t, calls[0].Synthetic)
	assert.Equal(t, -1, calls[0].CallIndex)
}

func TestFlattenRenamesNone(t *testing.T) {
	turns := []core.Turn{{
		Format: core.FormatSimRequests,
		Response: core.Response{
			Value:       []string{"*** Begin Patch\n*** Update File: a.go\n*** End Patch"},
			Invocations: []core.ToolInvocation{{Name: "none"}},
		},
	}}

	calls := Flatten(turns)
	require.Len(t, calls, 1)
	assert.Equal(t, PatchFile, calls[0].Name)
	assert.True(t, calls[0].Inferred)
	assert.False(t, calls[0].Synthetic)
	assert.Equal(t, 0, calls[0].CallIndex)
}

func TestInvocations(t *testing.T) {
	history := []core.Message{
		{Role: core.RoleAssistant, ToolCalls: []core.ToolInvocation{{Name: "list_dir", ID: "h1"}}},
		{Role: core.RoleUser, ToolCalls: []core.ToolInvocation{{Name: "ignored"}}},
	}

	tests := []struct {
		name string
		turn core.Turn
		want []string
	}{
		{
			name: "sim-requests reads the response",
			turn: core.Turn{Format: core.FormatSimRequests, Messages: history,
				Response: core.Response{Invocations: []core.ToolInvocation{{Name: "read_file"}}}},
			want: []string{"read_file"},
		},
		{
			name: "fetchlog reads the response",
			turn: core.Turn{Format: core.FormatFetchlog,
				Response: core.Response{Invocations: []core.ToolInvocation{{Name: "list_dir"}}}},
			want: []string{"list_dir"},
		},
		{
			name: "synthesized empty list is authoritative",
			turn: core.Turn{Format: core.FormatNewAgent, Messages: history,
				Response: core.Response{Synthesized: true, Invocations: []core.ToolInvocation{}}},
			want: nil,
		},
		{
			name: "unsplit new-agent turn reads assistant history",
			turn: core.Turn{Format: core.FormatNewAgent, Messages: history},
			want: []string{"list_dir"},
		},
		{
			name: "unknown format yields nothing",
			turn: core.Turn{Format: core.FormatUnknown, Messages: history,
				Response: core.Response{Invocations: []core.ToolInvocation{{Name: "read_file"}}}},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var names []string
			for _, inv := range Invocations(&tt.turn) {
				names = append(names, inv.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}
