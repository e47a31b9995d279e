package terminal

import (
	"encoding/json"
	"strings"
)

// ToolSummary picks the most telling argument of a call, such as the
// command of run_in_terminal or the filePath of read_file.
func ToolSummary(name, args string) string {
	var m map[string]any
	if err := json.Unmarshal([]byte(args), &m); err != nil || m == nil {
		return ""
	}

	switch strings.ToLower(name) {
	case "run_in_terminal":
		return stringField(m, "command")
	case "read_file", "create_file", "replace_string_in_file", "insert_edit_into_file", "edit_file":
		return stringField(m, "filePath")
	case "grep_search", "semantic_search", "file_search", "test_search":
		return stringField(m, "query")
	case "list_dir", "create_directory":
		return stringField(m, "path", "dirPath")
	default:
		return stringField(m, "command", "filePath", "file_path", "path", "query", "pattern", "url")
	}
}

// stringField returns the first non-empty string value among keys.
func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
