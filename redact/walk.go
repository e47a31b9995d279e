package redact

import (
	"bytes"
	"encoding/json"
)

const maxWalkDepth = 16

// walkJSON applies fn to every string leaf of a JSON document and returns
// raw unchanged when fn altered nothing. Text that is not valid JSON is
// treated as one string.
func walkJSON(raw []byte, fn func(string) string) []byte {
	changed := false
	track := func(s string) string {
		out := fn(s)
		if out != s {
			changed = true
		}
		return out
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return []byte(track(string(raw)))
	}
	v = walkAny(v, track, 0)
	if !changed {
		return raw
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return raw
	}
	return bytes.TrimRight(buf.Bytes(), "\n")
}

func walkAny(v any, fn func(string) string, depth int) any {
	if depth > maxWalkDepth {
		return v
	}
	switch val := v.(type) {
	case string:
		return fn(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = walkAny(child, fn, depth+1)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = walkAny(child, fn, depth+1)
		}
		return out
	}
	return v
}
