// Package json renders the active call list of a session as a JSON document.
package json

import (
	"encoding/json"
	"io"

	"github.com/sonnes/callscope/core"
	"github.com/sonnes/callscope/session"
)

// Renderer renders a session to JSON.
type Renderer struct {
	// Indent controls pretty-printing. When true, output is indented.
	Indent bool

	// Results attaches each call's tool result.
	Results bool
}

// Document is the rendered form of a session.
type Document struct {
	Format          core.Format     `json:"format"`
	Turns           int             `json:"turns"`
	Total           int             `json:"total"`
	Selected        int             `json:"selected"`
	NameFilter      string          `json:"name_filter,omitempty"`
	ContentFilter   string          `json:"content_filter,omitempty"`
	FilteredIndices []int           `json:"filtered_indices"`
	HideFrame       bool            `json:"hide_request_frame"`
	DiffStats       *core.DiffStats `json:"diff_stats,omitempty"`
	Warnings        []string        `json:"warnings,omitempty"`
	Calls           []Call          `json:"calls"`
}

// Call is one entry of the active list with its position in the full list.
type Call struct {
	Index int `json:"index"`
	core.FlattenedCall
	Status    core.Status      `json:"status,omitempty"`
	RequestID string           `json:"request_id,omitempty"`
	Result    *core.ToolResult `json:"result,omitempty"`
}

// Render writes the session as a Document.
func (r *Renderer) Render(w io.Writer, s *session.Session) error {
	doc := Document{
		Format:          s.Format(),
		Turns:           len(s.Turns()),
		Total:           s.Total(),
		Selected:        s.Selected(),
		NameFilter:      s.NameFilter(),
		ContentFilter:   s.ContentFilter(),
		FilteredIndices: s.FilteredIndices(),
		HideFrame:       s.ShouldHideRequestFrame(),
		DiffStats:       core.ComputeDiffStats(s.Calls()),
		Calls:           []Call{},
	}
	for _, err := range s.Warnings() {
		doc.Warnings = append(doc.Warnings, err.Error())
	}

	calls := s.Calls()
	for _, i := range s.ActiveList() {
		c := Call{Index: i, FlattenedCall: calls[i]}
		if t := calls[i].Turn; t != nil {
			c.Status = t.Response.Status
			c.RequestID = t.Response.RequestID
		}
		if r.Results {
			if res, ok := s.ToolResult(calls[i].ID); ok {
				c.Result = &res
			}
		}
		doc.Calls = append(doc.Calls, c)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if r.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(doc)
}
