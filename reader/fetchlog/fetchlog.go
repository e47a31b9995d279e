// Package fetchlog reads transcripts captured from raw chat-completion fetch
// logs. Messages live under "messages", invocations under response.toolCalls,
// and tool definitions may be declared by a single record only.
package fetchlog

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sonnes/callscope/core"
	"github.com/sonnes/callscope/reader/wire"
)

// requestNamespace seeds the shared request id derived from a transcript's
// raw bytes, so reloading the same file yields the same id.
var requestNamespace = uuid.MustParse("6c1b0f0e-4d8a-4f57-9a43-2f0c6a7e9b15")

type record struct {
	Name            wire.Scalar           `json:"name"`
	Messages        []wire.Message        `json:"messages"`
	RequestMessages []wire.Message        `json:"requestMessages"`
	RequestOptions  wire.Options          `json:"requestOptions"`
	Tools           []wire.ToolDefinition `json:"tools"`
	Response        response              `json:"response"`
}

type response struct {
	Type          wire.Scalar       `json:"type"`
	FinishReason  wire.Scalar       `json:"finishReason"`
	FinishReason2 wire.Scalar       `json:"finish_reason"`
	Value         wire.Lines        `json:"value"`
	ToolCalls     []wire.Invocation `json:"toolCalls"`
	Content       wire.Content      `json:"content"`
	Message       *struct {
		Content wire.Content `json:"content"`
	} `json:"message"`
}

// Reader implements reader.Reader for fetchlog transcripts.
type Reader struct{}

func (r *Reader) Read(records []json.RawMessage) *core.Transcript {
	t := &core.Transcript{
		Format: core.FormatFetchlog,
		Turns:  make([]core.Turn, 0, len(records)),
	}
	parts := make([][]byte, len(records))
	for i, r := range records {
		parts[i] = r
	}
	requestID := uuid.NewSHA1(requestNamespace, bytes.Join(parts, nil)).String()

	var tools core.Options
	for i, raw := range records {
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			t.Warnings = append(t.Warnings, &core.RecordError{Index: i, Err: err})
			t.Turns = append(t.Turns, core.Turn{Format: core.FormatUnknown, RecordIndex: i})
			continue
		}

		msgs := rec.Messages
		if len(msgs) == 0 {
			msgs = rec.RequestMessages
		}
		opts := rec.RequestOptions
		if len(opts.Tools) == 0 {
			opts.Tools = rec.Tools
		}
		if len(tools.Tools) == 0 && len(opts.Tools) > 0 {
			tools = opts.Canonical()
		}

		invocations := wire.Invocations(rec.Response.ToolCalls)
		status := rec.Response.status(len(invocations) > 0)
		t.Turns = append(t.Turns, core.Turn{
			Format:      core.FormatFetchlog,
			RecordIndex: i,
			Name:        string(rec.Name),
			Messages:    wire.Messages(msgs),
			Response: core.Response{
				Status:      status,
				Value:       rec.Response.output(status),
				RequestID:   requestID,
				Invocations: invocations,
			},
		})
	}

	// Tools are declared once and apply to the whole conversation.
	for i := range t.Turns {
		if t.Turns[i].Format == core.FormatFetchlog {
			t.Turns[i].Options = tools
		}
	}
	return t
}

func (r response) status(hasCalls bool) core.Status {
	reason := r.Type
	if reason == "" {
		reason = r.FinishReason
	}
	if reason == "" {
		reason = r.FinishReason2
	}
	switch reason {
	case "stop", "length":
		return core.StatusSuccess
	case "error":
		return core.StatusFailed
	case "":
		if hasCalls {
			return core.StatusToolCalls
		}
		return core.StatusSuccess
	}
	return core.Status(reason)
}

// output returns the turn's free-text lines. A tool-call turn keeps no text:
// the assistant's commentary for it shows up in a later turn's history.
func (r response) output(status core.Status) []string {
	if len(r.Value) > 0 {
		return r.Value
	}
	if status == core.StatusToolCalls {
		return nil
	}

	content := r.Content
	if r.Message != nil && len(r.Message.Content) > 0 {
		content = r.Message.Content
	}
	text := core.Message{Content: content}.Text()
	if text == "" {
		return nil
	}
	return []string{text}
}
