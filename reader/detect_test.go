package reader

import (
	"encoding/json"
	"testing"

	"github.com/sonnes/callscope/core"
	"github.com/stretchr/testify/assert"
)

func raws(recs ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(recs))
	for i, r := range recs {
		out[i] = json.RawMessage(r)
	}
	return out
}

func TestDetectRecord(t *testing.T) {
	tests := []struct {
		name string
		rec  string
		want core.Format
	}{
		{"copilot function calls", `{"requestMessages":[],"response":{"copilotFunctionCalls":[]}}`, core.FormatSimRequests},
		{"tool calls", `{"messages":[],"response":{"toolCalls":[]}}`, core.FormatFetchlog},
		{"messages with request id", `{"messages":[],"requestId":"x"}`, core.FormatFetchlog},
		{"messages with response request id", `{"messages":[],"response":{"requestId":"x"}}`, core.FormatFetchlog},
		{"bare request messages", `{"requestMessages":[]}`, core.FormatSimRequests},
		{"tool calls not an array", `{"response":{"toolCalls":"x"}}`, core.FormatUnknown},
		{"messages without request id", `{"messages":[]}`, core.FormatUnknown},
		{"array record", `[1,2]`, core.FormatUnknown},
		{"invalid json", `{"requestMessages":`, core.FormatUnknown},
		{"empty object", `{}`, core.FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectRecord(json.RawMessage(tt.rec)))
		})
	}
}

func TestDetectFile(t *testing.T) {
	tests := []struct {
		name    string
		records []json.RawMessage
		want    core.Format
	}{
		{"empty", nil, core.FormatUnknown},
		{"every record named", raws(`{"name":"a","requestMessages":[]}`, `{"name":"b"}`), core.FormatNewAgent},
		{"one record unnamed", raws(`{"name":"a","requestMessages":[]}`, `{"requestMessages":[]}`), core.FormatSimRequests},
		{"empty name", raws(`{"name":"","messages":[],"response":{"toolCalls":[]}}`), core.FormatFetchlog},
		{"non-string name", raws(`{"name":1,"requestMessages":[]}`), core.FormatSimRequests},
		{"first record decides", raws(`{"messages":[],"requestId":"x"}`, `{"requestMessages":[]}`), core.FormatFetchlog},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFile(tt.records))
		})
	}
}
