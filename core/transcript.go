// Package core defines the canonical turn format: a normalized representation
// of AI coding-agent request logs that every schema reader produces and every
// view consumes.
package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Transcript is the normalized result of loading one raw transcript.
type Transcript struct {
	Format   Format  `json:"format"`
	Turns    []Turn  `json:"turns"`
	Warnings []error `json:"-"` // non-fatal diagnostics, e.g. unrecognized turn schemas
}

// ErrUnrecognizedSchema marks a record or file that matches no known schema.
var ErrUnrecognizedSchema = errors.New("unrecognized transcript schema")

// RecordError is a non-fatal problem with one raw record.
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Format tags the logging scheme that produced a transcript or record.
type Format string

const (
	FormatSimRequests Format = "sim-requests"
	FormatFetchlog    Format = "fetchlog"
	FormatNewAgent    Format = "new-agent"
	FormatUnknown     Format = "unknown"
)

// Turn is one request/response round.
type Turn struct {
	Format      Format    `json:"format"`
	RecordIndex int       `json:"record_index"`   // position of the raw record this turn came from
	Name        string    `json:"name,omitempty"` // record name stamped by the new-agent schema
	Messages    []Message `json:"messages"`
	Options     Options   `json:"options"`
	Response    Response  `json:"response"`
}

// Message is a role-tagged conversation entry.
type Message struct {
	Role       Role             `json:"role"`
	Content    []ContentPart    `json:"content,omitempty"`
	ToolCalls  []ToolInvocation `json:"tool_calls,omitempty"`   // set for assistant messages
	ToolCallID string           `json:"tool_call_id,omitempty"` // set for tool messages
}

// Role enumerates who produced a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ContentPart is one piece of message content. Text parts carry Text; any
// other part keeps its original JSON in Raw.
type ContentPart struct {
	Type string          `json:"type,omitempty"`
	Text string          `json:"text,omitempty"`
	Raw  json.RawMessage `json:"raw,omitempty"`
}

// IsText reports whether the part contributes readable text.
func (p ContentPart) IsText() bool {
	return p.Raw == nil
}

// Texts returns the text of every text part, in order.
func (m Message) Texts() []string {
	var out []string
	for _, p := range m.Content {
		if p.IsText() && p.Text != "" {
			out = append(out, p.Text)
		}
	}
	return out
}

// Text joins the message's text parts with newlines.
func (m Message) Text() string {
	return strings.Join(m.Texts(), "\n")
}

// Options is the side-channel configuration visible to the model.
type Options struct {
	Tools []ToolDefinition `json:"tools,omitempty"`
}

// ToolDefinition describes one tool offered to the model.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// Status is the outcome tag of a turn's response.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusToolCalls Status = "tool_calls"
)

// Response is the outcome of a turn.
type Response struct {
	Status      Status           `json:"status,omitempty"`
	Value       []string         `json:"value,omitempty"`
	RequestID   string           `json:"request_id,omitempty"`
	Invocations []ToolInvocation `json:"invocations,omitempty"`

	// Synthesized marks Invocations as authoritative even when empty. The
	// new-agent reader sets it so extraction never re-derives calls from the
	// repeated history.
	Synthesized bool `json:"synthesized,omitempty"`
}

// Failed reports whether the turn's response failed.
func (r Response) Failed() bool {
	return r.Status == StatusFailed
}

// Text joins the response output lines with newlines.
func (r Response) Text() string {
	return strings.Join(r.Value, "\n")
}

// UnknownToolName is substituted for invocations without a name.
const UnknownToolName = "Unknown"

// ToolInvocation is a structured tool call attributed to a turn.
type ToolInvocation struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
	ID        string `json:"id,omitempty"`
}

// LeadingUserText returns the text of the first user message.
func (t Turn) LeadingUserText() string {
	for _, m := range t.Messages {
		if m.Role == RoleUser {
			return m.Text()
		}
	}
	return ""
}

// SystemTexts returns every text part of every system message.
func (t Turn) SystemTexts() []string {
	var out []string
	for _, m := range t.Messages {
		if m.Role == RoleSystem {
			out = append(out, m.Texts()...)
		}
	}
	return out
}
