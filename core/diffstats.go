package core

import (
	"encoding/json"
	"strings"
)

// DiffStats summarizes file-level edit statistics across a call list.
type DiffStats struct {
	Added   int `json:"added,omitempty"`   // lines added (create_file content, newString, inserted code)
	Removed int `json:"removed,omitempty"` // lines removed (oldString)
	Changed int `json:"changed,omitempty"` // unique files touched
}

// ComputeDiffStats walks the file-editing calls and computes aggregate
// line-level diff statistics. Calls whose arguments are not a JSON object
// are skipped. Returns nil when nothing was edited.
func ComputeDiffStats(calls []FlattenedCall) *DiffStats {
	files := make(map[string]bool)
	var added, removed int

	for _, c := range calls {
		if !c.HasFunction || c.Arguments == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(c.Arguments), &m); err != nil {
			continue
		}

		switch c.Name {
		case "create_file":
			if fp := stringVal(m, "filePath"); fp != "" {
				files[fp] = true
			}
			added += countLines(stringVal(m, "content"))
		case "replace_string_in_file":
			if fp := stringVal(m, "filePath"); fp != "" {
				files[fp] = true
			}
			removed += countLines(stringVal(m, "oldString"))
			added += countLines(stringVal(m, "newString"))
		case "insert_edit_into_file":
			if fp := stringVal(m, "filePath"); fp != "" {
				files[fp] = true
			}
			added += countLines(stringVal(m, "code"))
		}
	}

	if added == 0 && removed == 0 && len(files) == 0 {
		return nil
	}

	return &DiffStats{
		Added:   added,
		Removed: removed,
		Changed: len(files),
	}
}

func stringVal(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// countLines returns the number of lines in s.
// An empty string has 0 lines. A string with no newline has 1 line.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n") + 1
	if strings.HasSuffix(s, "\n") {
		n--
	}
	return n
}
