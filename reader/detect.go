package reader

import (
	"encoding/json"

	"github.com/sonnes/callscope/core"
	"github.com/tidwall/gjson"
)

// DetectFile classifies a whole transcript. new-agent stamps a non-empty
// top-level name on every record; any other file is classified by its
// first record.
func DetectFile(records []json.RawMessage) core.Format {
	if len(records) == 0 {
		return core.FormatUnknown
	}

	named := true
	for _, rec := range records {
		name := gjson.GetBytes(rec, "name")
		if name.Type != gjson.String || name.Str == "" {
			named = false
			break
		}
	}
	if named {
		return core.FormatNewAgent
	}

	return DetectRecord(records[0])
}

// DetectRecord classifies a single record by its structural signals. It
// never fails: unresolvable records are core.FormatUnknown.
func DetectRecord(rec json.RawMessage) core.Format {
	if !gjson.ValidBytes(rec) {
		return core.FormatUnknown
	}
	root := gjson.ParseBytes(rec)
	if !root.IsObject() {
		return core.FormatUnknown
	}

	switch {
	case root.Get("response.copilotFunctionCalls").IsArray():
		return core.FormatSimRequests
	case root.Get("response.toolCalls").IsArray():
		return core.FormatFetchlog
	}

	// Ambiguous or malformed first records.
	hasRequestID := root.Get("requestId").Exists() || root.Get("response.requestId").Exists()
	switch {
	case root.Get("messages").Exists() && hasRequestID:
		return core.FormatFetchlog
	case root.Get("requestMessages").Exists():
		return core.FormatSimRequests
	}
	return core.FormatUnknown
}
