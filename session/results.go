package session

import (
	"strings"

	"github.com/sonnes/callscope/core"
)

// BuildToolResults maps each invocation id to the output of its tool-role
// message. The first non-empty output for an id wins; later ones are
// ignored.
func BuildToolResults(turns []core.Turn) map[string]core.ToolResult {
	results := make(map[string]core.ToolResult)
	for _, t := range turns {
		for _, m := range t.Messages {
			if m.Role != core.RoleTool || m.ToolCallID == "" {
				continue
			}
			if prev, ok := results[m.ToolCallID]; ok && prev.Text != "" {
				continue
			}

			parts := make([]string, 0, len(m.Content))
			for _, p := range m.Content {
				if p.IsText() {
					parts = append(parts, p.Text)
				} else {
					parts = append(parts, string(p.Raw))
				}
			}
			results[m.ToolCallID] = core.ToolResult{
				Parts:     parts,
				Text:      strings.Join(parts, "\n"),
				RequestID: t.Response.RequestID,
			}
		}
	}
	return results
}
