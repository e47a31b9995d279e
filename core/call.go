package core

// Color is a display color in "#rrggbb" form.
type Color string

// NoToolName names the placeholder entry of a turn without any invocation.
const NoToolName = "None"

// FlattenedCall is one entry of the navigable call list: a tool invocation,
// a pseudo-tool inferred from a turn's text, or the placeholder of a turn
// with neither.
type FlattenedCall struct {
	TurnIndex   int    `json:"turn_index"`
	CallIndex   int    `json:"call_index"` // -1 for synthesized entries
	Name        string `json:"name"`
	Arguments   string `json:"arguments,omitempty"`
	ID          string `json:"id,omitempty"`
	Turn        *Turn  `json:"-"`
	HasFunction bool   `json:"has_function"`
	Color       Color  `json:"color"`

	// Output is the response text attributed to this entry. It is cleared on
	// all but the last call of a multi-call new-agent turn.
	Output []string `json:"output,omitempty"`

	Inferred            bool `json:"inferred,omitempty"`
	Synthetic           bool `json:"synthetic,omitempty"`
	ConversationSummary bool `json:"conversation_summary,omitempty"`
}

// Failed reports whether the owning turn failed.
func (c FlattenedCall) Failed() bool {
	return c.Turn != nil && c.Turn.Response.Failed()
}

// CallRef is a flattened call paired with its position in the full list.
type CallRef struct {
	Index int
	Call  *FlattenedCall
}

// CallGroup is the slice of the active list owned by one turn.
type CallGroup struct {
	TurnIndex int
	Turn      *Turn
	Calls     []CallRef
}

// ToolResult is the aggregated text a tool returned for one invocation id.
type ToolResult struct {
	Parts     []string `json:"parts"`
	Text      string   `json:"text"`
	RequestID string   `json:"request_id,omitempty"`
}
