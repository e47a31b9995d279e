// Package simrequests reads transcripts written by the simulation request
// logger. Its records are already close to the canonical shape: invocations
// live in response.copilotFunctionCalls.
package simrequests

import (
	"encoding/json"

	"github.com/sonnes/callscope/core"
	"github.com/sonnes/callscope/reader/wire"
)

type record struct {
	Name            wire.Scalar    `json:"name"`
	RequestMessages []wire.Message `json:"requestMessages"`
	RequestOptions  wire.Options   `json:"requestOptions"`
	Response        response       `json:"response"`
}

type response struct {
	Type                 wire.Scalar       `json:"type"`
	Value                wire.Lines        `json:"value"`
	RequestID            wire.Scalar       `json:"requestId"`
	CopilotFunctionCalls []wire.Invocation `json:"copilotFunctionCalls"`
}

// Reader implements reader.Reader for sim-requests transcripts.
type Reader struct{}

func (r *Reader) Read(records []json.RawMessage) *core.Transcript {
	t := &core.Transcript{
		Format: core.FormatSimRequests,
		Turns:  make([]core.Turn, 0, len(records)),
	}

	for i, raw := range records {
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			t.Warnings = append(t.Warnings, &core.RecordError{Index: i, Err: err})
			t.Turns = append(t.Turns, core.Turn{Format: core.FormatUnknown, RecordIndex: i})
			continue
		}

		t.Turns = append(t.Turns, core.Turn{
			Format:      core.FormatSimRequests,
			RecordIndex: i,
			Name:        string(rec.Name),
			Messages:    wire.Messages(rec.RequestMessages),
			Options:     rec.RequestOptions.Canonical(),
			Response: core.Response{
				Status:      core.Status(rec.Response.Type),
				Value:       rec.Response.Value,
				RequestID:   string(rec.Response.RequestID),
				Invocations: wire.Invocations(rec.Response.CopilotFunctionCalls),
			},
		})
	}
	return t
}
