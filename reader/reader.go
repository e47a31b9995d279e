// Package reader turns raw transcript text into canonical turns: it extracts
// the record array, detects the logging schema and dispatches to the
// schema's normalizer.
package reader

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/sonnes/callscope/core"
	"github.com/sonnes/callscope/reader/fetchlog"
	"github.com/sonnes/callscope/reader/newagent"
	"github.com/sonnes/callscope/reader/simrequests"
	"github.com/sonnes/callscope/reader/wire"
)

// Reader normalizes the raw records of one schema into canonical turns.
// Problems with individual records are reported as Transcript.Warnings.
type Reader interface {
	Read(records []json.RawMessage) *core.Transcript
}

var readers = map[core.Format]func() Reader{
	core.FormatSimRequests: func() Reader { return &simrequests.Reader{} },
	core.FormatFetchlog:    func() Reader { return &fetchlog.Reader{} },
	core.FormatNewAgent:    func() Reader { return &newagent.Reader{} },
}

// For returns the normalizer for a format. Unknown formats get a best-effort
// reader whose turns carry no tool invocations.
func For(f core.Format) Reader {
	if fn, ok := readers[f]; ok {
		return fn()
	}
	return unknownReader{}
}

// Parse extracts, detects and normalizes a raw transcript.
func Parse(text []byte) (*core.Transcript, error) {
	records, err := ExtractArray(text)
	if err != nil {
		return nil, err
	}

	format := DetectFile(records)
	log.Debug("detected transcript format", "format", format, "records", len(records))

	t := For(format).Read(records)
	t.Format = format
	for _, w := range t.Warnings {
		log.Warn("transcript diagnostic", "error", w)
	}
	return t, nil
}

// unknownRecord is the union of fields the known schemas share, enough to
// show an unrecognized record's conversation.
type unknownRecord struct {
	RequestMessages []wire.Message `json:"requestMessages"`
	Messages        []wire.Message `json:"messages"`
	RequestOptions  wire.Options   `json:"requestOptions"`
	Response        struct {
		Type      wire.Scalar `json:"type"`
		Value     wire.Lines  `json:"value"`
		RequestID wire.Scalar `json:"requestId"`
	} `json:"response"`
}

type unknownReader struct{}

func (unknownReader) Read(records []json.RawMessage) *core.Transcript {
	t := &core.Transcript{Turns: make([]core.Turn, 0, len(records))}
	if len(records) > 0 {
		t.Warnings = append(t.Warnings, fmt.Errorf("%d records: %w", len(records), core.ErrUnrecognizedSchema))
	}

	for i, raw := range records {
		turn := core.Turn{Format: core.FormatUnknown, RecordIndex: i}
		var rec unknownRecord
		if err := json.Unmarshal(raw, &rec); err == nil {
			msgs := rec.RequestMessages
			if len(msgs) == 0 {
				msgs = rec.Messages
			}
			turn.Messages = wire.Messages(msgs)
			turn.Options = rec.RequestOptions.Canonical()
			turn.Response = core.Response{
				Status:    core.Status(rec.Response.Type),
				Value:     rec.Response.Value,
				RequestID: string(rec.Response.RequestID),
			}
		}
		t.Turns = append(t.Turns, turn)
	}
	return t
}
