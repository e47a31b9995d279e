// Package newagent reads transcripts from the agent request logger. Every
// record repeats the whole conversation so far, with tool invocations embedded
// in assistant messages rather than in a response field. The reader splits
// each record into one synthetic turn per assistant tool-call block and drops
// invocations already emitted by an earlier record.
package newagent

import (
	"encoding/json"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/sonnes/callscope/core"
	"github.com/sonnes/callscope/reader/wire"
)

type record struct {
	Name            wire.Scalar    `json:"name"`
	RequestMessages []wire.Message `json:"requestMessages"`
	Messages        []wire.Message `json:"messages"`
	RequestOptions  wire.Options   `json:"requestOptions"`
	Response        struct {
		Type                 wire.Scalar       `json:"type"`
		Value                wire.Lines        `json:"value"`
		RequestID            wire.Scalar       `json:"requestId"`
		ToolCalls            []wire.Invocation `json:"toolCalls"`
		CopilotFunctionCalls []wire.Invocation `json:"copilotFunctionCalls"`
	} `json:"response"`
}

// Reader implements reader.Reader for new-agent transcripts.
type Reader struct{}

func (r *Reader) Read(records []json.RawMessage) *core.Transcript {
	t := &core.Transcript{Format: core.FormatNewAgent}
	seen := make(map[string]bool)

	for i, raw := range records {
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			t.Warnings = append(t.Warnings, &core.RecordError{Index: i, Err: err})
			t.Turns = append(t.Turns, core.Turn{Format: core.FormatUnknown, RecordIndex: i})
			continue
		}
		t.Turns = append(t.Turns, split(i, rec, seen)...)
	}
	return t
}

// split emits the synthetic turns of one record. The record's free-text
// output belongs to its last turn.
func split(index int, rec record, seen map[string]bool) []core.Turn {
	msgs := rec.RequestMessages
	if len(msgs) == 0 {
		msgs = rec.Messages
	}
	history := wire.Messages(msgs)

	base := core.Turn{
		Format:      core.FormatNewAgent,
		RecordIndex: index,
		Name:        string(rec.Name),
		Options:     rec.RequestOptions.Canonical(),
		Response: core.Response{
			Status:      core.Status(rec.Response.Type),
			RequestID:   string(rec.Response.RequestID),
			Synthesized: true,
		},
	}

	var turns []core.Turn
	emit := func(upto int, invs []core.ToolInvocation) {
		turn := base
		turn.Messages = slices.Clone(history[:upto])
		turn.Response.Invocations = invs
		turns = append(turns, turn)
	}

	for j, m := range history {
		if m.Role != core.RoleAssistant || len(m.ToolCalls) == 0 {
			continue
		}
		if fresh := unseen(m.ToolCalls, seen); len(fresh) > 0 {
			emit(j+1, fresh)
		}
	}

	calls := rec.Response.ToolCalls
	if len(calls) == 0 {
		calls = rec.Response.CopilotFunctionCalls
	}
	if fresh := unseen(wire.Invocations(calls), seen); len(fresh) > 0 {
		emit(len(history), fresh)
	}

	if len(turns) == 0 {
		emit(len(history), []core.ToolInvocation{})
	}
	turns[len(turns)-1].Response.Value = rec.Response.Value
	return turns
}

// unseen returns the invocations whose id has not been emitted yet and marks
// them seen. Invocations without an id are always kept.
func unseen(invs []core.ToolInvocation, seen map[string]bool) []core.ToolInvocation {
	var out []core.ToolInvocation
	for _, inv := range invs {
		if inv.ID != "" {
			if seen[inv.ID] {
				log.Debug("dropping repeated tool call", "id", inv.ID, "name", inv.Name)
				continue
			}
			seen[inv.ID] = true
		}
		out = append(out, inv)
	}
	return out
}
