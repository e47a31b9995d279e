// Package flatten turns canonical turns into the single ordered list of
// calls that the viewer navigates: one entry per invocation, or one inferred
// entry for a turn without any.
package flatten

import (
	"github.com/sonnes/callscope/core"
)

// Flatten builds the call list for turns. Entries point into turns, so the
// slice must outlive the result. Colors are left for the palette.
func Flatten(turns []core.Turn) []core.FlattenedCall {
	calls := make([]core.FlattenedCall, 0, len(turns))

	for ti := range turns {
		t := &turns[ti]
		invs := Invocations(t)

		if len(invs) == 0 {
			p := Infer(t)
			calls = append(calls, core.FlattenedCall{
				TurnIndex:           ti,
				CallIndex:           -1,
				Name:                p.Name,
				Turn:                t,
				HasFunction:         p.HasFunction,
				Output:              t.Response.Value,
				Inferred:            p.Inferred,
				Synthetic:           p.Synthetic,
				ConversationSummary: p.ConversationSummary,
			})
			continue
		}

		// A new-agent turn's text follows its tool calls, so only the last
		// call keeps it.
		trailing := t.Format == core.FormatNewAgent && len(invs) > 1
		for ci, inv := range invs {
			name, inferred := rename(t, inv.Name)
			c := core.FlattenedCall{
				TurnIndex:   ti,
				CallIndex:   ci,
				Name:        name,
				Arguments:   inv.Arguments,
				ID:          inv.ID,
				Turn:        t,
				HasFunction: true,
				Output:      t.Response.Value,
				Inferred:    inferred,
			}
			if trailing && ci < len(invs)-1 {
				c.Output = nil
			}
			calls = append(calls, c)
		}
	}
	return calls
}
