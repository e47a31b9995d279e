// Package compact provides a Transformer that shrinks the repeated
// conversation history of a transcript: tool outputs and edit bodies carried
// in earlier messages become line-count summaries.
package compact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sonnes/callscope/core"
)

// Config controls the compact transformer behavior.
type Config struct {
	StripToolDefinitions bool
}

// Compactor replaces verbose history content with line-count summaries. The
// calls a turn contributes are left intact.
type Compactor struct {
	stripTools bool
}

// New creates a Compactor from the given config.
func New(cfg Config) *Compactor {
	return &Compactor{stripTools: cfg.StripToolDefinitions}
}

// bulkyFields lists, per edit tool, the argument fields holding file bodies.
var bulkyFields = map[string][]string{
	"create_file":            {"content"},
	"replace_string_in_file": {"oldString", "newString"},
	"insert_edit_into_file":  {"code"},
	"edit_notebook_file":     {"newCode"},
	"edit_file":              {"code"},
}

// Transform implements core.Transformer.
func (c *Compactor) Transform(t *core.Transcript) error {
	for i := range t.Turns {
		turn := &t.Turns[i]
		msgs := make([]core.Message, len(turn.Messages))
		for j, m := range turn.Messages {
			msgs[j] = compactMessage(m)
		}
		turn.Messages = msgs
		if c.stripTools {
			turn.Options = core.Options{}
		}
	}
	return nil
}

func compactMessage(m core.Message) core.Message {
	if m.Role == core.RoleTool {
		m.Content = []core.ContentPart{{Type: "text", Text: lineSummary("output", toolText(m))}}
	}
	if len(m.ToolCalls) > 0 {
		calls := make([]core.ToolInvocation, len(m.ToolCalls))
		for i, inv := range m.ToolCalls {
			inv.Arguments = compactArguments(inv.Name, inv.Arguments)
			calls[i] = inv
		}
		m.ToolCalls = calls
	}
	return m
}

func toolText(m core.Message) string {
	var parts []string
	for _, p := range m.Content {
		if p.IsText() {
			parts = append(parts, p.Text)
		} else {
			parts = append(parts, string(p.Raw))
		}
	}
	return strings.Join(parts, "\n")
}

// compactArguments summarizes the bulky fields of an edit tool's JSON
// arguments. Anything it cannot decode is returned as is.
func compactArguments(name, args string) string {
	fields, ok := bulkyFields[name]
	if !ok || args == "" {
		return args
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(args), &m); err != nil {
		return args
	}

	changed := false
	for _, f := range fields {
		changed = summarizeMapField(m, f) || changed
	}
	if !changed {
		return args
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return args
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// lineSummary returns a summary like "[output: 245 lines]".
func lineSummary(label, s string) string {
	n := countLines(s)
	if n == 1 {
		return fmt.Sprintf("[%s: 1 line]", label)
	}
	return fmt.Sprintf("[%s: %d lines]", label, n)
}

// summarizeMapField replaces a string field in m with its line summary and
// reports whether it did.
func summarizeMapField(m map[string]any, key string) bool {
	s, ok := m[key].(string)
	if !ok {
		return false
	}
	m[key] = lineSummary(key, s)
	return true
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
