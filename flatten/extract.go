package flatten

import (
	"github.com/charmbracelet/log"
	"github.com/sonnes/callscope/core"
)

// Invocations returns the tool invocations a turn newly contributes. For
// new-agent turns split by the reader, the synthesized list is authoritative
// even when empty; the embedded history is only consulted for turns that
// were never split.
func Invocations(t *core.Turn) []core.ToolInvocation {
	switch t.Format {
	case core.FormatSimRequests, core.FormatFetchlog:
		return t.Response.Invocations
	case core.FormatNewAgent:
		if t.Response.Synthesized {
			return t.Response.Invocations
		}
		var out []core.ToolInvocation
		for _, m := range t.Messages {
			if m.Role == core.RoleAssistant {
				out = append(out, m.ToolCalls...)
			}
		}
		return out
	}

	log.Warn("unrecognized turn schema", "record", t.RecordIndex, "format", t.Format)
	return nil
}
