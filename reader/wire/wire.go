// Package wire decodes the loosely-typed JSON shapes shared by the supported
// transcript schemas: content that is a string or a part array, output that
// is a string or a line array, arguments that are a string or an object.
package wire

import (
	"bytes"
	"encoding/json"

	"github.com/sonnes/callscope/core"
)

var null = []byte("null")

func isNull(b []byte) bool {
	return len(b) == 0 || bytes.Equal(bytes.TrimSpace(b), null)
}

// Scalar is a text field that logs sometimes write as a number, boolean
// or null. Non-string values keep their JSON text; null is empty.
type Scalar string

func (v *Scalar) UnmarshalJSON(b []byte) error {
	*v = ""
	if isNull(b) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = Scalar(s)
		return nil
	}
	*v = Scalar(compact(b))
	return nil
}

// Content is message content: a plain string, a single part object, or an
// array whose elements are strings or part objects.
type Content []core.ContentPart

type rawPart struct {
	Type Scalar  `json:"type"`
	Text *string `json:"text"`
}

func (c *Content) UnmarshalJSON(b []byte) error {
	*c = nil
	if isNull(b) {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = Content{{Type: "text", Text: s}}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		// A lone part object.
		items = []json.RawMessage{b}
	}

	for _, item := range items {
		*c = append(*c, decodePart(item))
	}
	return nil
}

func decodePart(b json.RawMessage) core.ContentPart {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return core.ContentPart{Type: "text", Text: s}
	}
	var p rawPart
	if err := json.Unmarshal(b, &p); err == nil && p.Text != nil {
		return core.ContentPart{Type: string(p.Type), Text: *p.Text}
	}
	return core.ContentPart{Type: string(p.Type), Raw: compact(b)}
}

// Lines is response output: a single string or an array of strings.
type Lines []string

func (l *Lines) UnmarshalJSON(b []byte) error {
	*l = nil
	if isNull(b) {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*l = Lines{s}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		*l = Lines{string(compact(b))}
		return nil
	}
	for _, item := range items {
		if err := json.Unmarshal(item, &s); err == nil {
			*l = append(*l, s)
			continue
		}
		*l = append(*l, string(compact(item)))
	}
	return nil
}

// Arguments is serialized invocation arguments. Non-string values are kept
// as compact JSON text.
type Arguments string

func (a *Arguments) UnmarshalJSON(b []byte) error {
	*a = ""
	if isNull(b) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = Arguments(s)
		return nil
	}
	*a = Arguments(compact(b))
	return nil
}

// Invocation accepts both the flat {name, arguments, id} shape and the
// function-wrapped {id, function: {name, arguments}} shape.
type Invocation struct {
	ID        Scalar    `json:"id"`
	CallID    Scalar    `json:"callId"`
	Name      Scalar    `json:"name"`
	Arguments Arguments `json:"arguments"`
	Input     Arguments `json:"input"`
	Function  *struct {
		Name      Scalar    `json:"name"`
		Arguments Arguments `json:"arguments"`
	} `json:"function"`
}

// Canonical converts the invocation, defaulting an empty name to
// core.UnknownToolName.
func (i Invocation) Canonical() core.ToolInvocation {
	name := i.Name
	args := i.Arguments
	if i.Function != nil {
		if name == "" {
			name = i.Function.Name
		}
		if args == "" {
			args = i.Function.Arguments
		}
	}
	if args == "" {
		args = i.Input
	}
	if name == "" {
		name = core.UnknownToolName
	}
	id := i.ID
	if id == "" {
		id = i.CallID
	}
	return core.ToolInvocation{Name: string(name), Arguments: string(args), ID: string(id)}
}

// Invocations converts a list of wire invocations.
func Invocations(in []Invocation) []core.ToolInvocation {
	if len(in) == 0 {
		return nil
	}
	out := make([]core.ToolInvocation, len(in))
	for i, inv := range in {
		out[i] = inv.Canonical()
	}
	return out
}

// Message is a conversation entry in any supported schema.
type Message struct {
	Role          Scalar       `json:"role"`
	Content       Content      `json:"content"`
	ToolCalls     []Invocation `json:"tool_calls"`
	ToolCallsAlt  []Invocation `json:"toolCalls"`
	ToolCallID    Scalar       `json:"tool_call_id"`
	ToolCallIDAlt Scalar       `json:"toolCallId"`
	ID            Scalar       `json:"id"`
}

// Canonical converts the message. A tool message's result id is the first
// non-empty of tool_call_id, id and toolCallId.
func (m Message) Canonical() core.Message {
	calls := m.ToolCalls
	if len(calls) == 0 {
		calls = m.ToolCallsAlt
	}
	msg := core.Message{
		Role:      core.Role(m.Role),
		Content:   []core.ContentPart(m.Content),
		ToolCalls: Invocations(calls),
	}
	if msg.Role == core.RoleTool {
		msg.ToolCallID = firstNonEmpty(string(m.ToolCallID), string(m.ID), string(m.ToolCallIDAlt))
	}
	return msg
}

// Messages converts a list of wire messages.
func Messages(in []Message) []core.Message {
	if len(in) == 0 {
		return nil
	}
	out := make([]core.Message, len(in))
	for i, m := range in {
		out[i] = m.Canonical()
	}
	return out
}

// ToolDefinition accepts both {type: "function", function: {...}} and flat
// {name, description, parameters | input_schema} tool declarations.
type ToolDefinition struct {
	Name        Scalar          `json:"name"`
	Description Scalar          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
	InputSchema json.RawMessage `json:"input_schema"`
	Function    *struct {
		Name        Scalar          `json:"name"`
		Description Scalar          `json:"description"`
		Parameters  json.RawMessage `json:"parameters"`
	} `json:"function"`
}

// Canonical converts the tool definition.
func (d ToolDefinition) Canonical() core.ToolDefinition {
	out := core.ToolDefinition{Name: string(d.Name), Description: string(d.Description), Parameters: d.Parameters}
	if d.Function != nil {
		out.Name = firstNonEmpty(out.Name, string(d.Function.Name))
		out.Description = firstNonEmpty(out.Description, string(d.Function.Description))
		if out.Parameters == nil {
			out.Parameters = d.Function.Parameters
		}
	}
	if out.Parameters == nil {
		out.Parameters = d.InputSchema
	}
	return out
}

// Options is the request options block.
type Options struct {
	Tools []ToolDefinition `json:"tools"`
}

// Canonical converts the options.
func (o Options) Canonical() core.Options {
	if len(o.Tools) == 0 {
		return core.Options{}
	}
	tools := make([]core.ToolDefinition, len(o.Tools))
	for i, t := range o.Tools {
		tools[i] = t.Canonical()
	}
	return core.Options{Tools: tools}
}

func compact(b []byte) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return append(json.RawMessage(nil), b...)
	}
	return buf.Bytes()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
