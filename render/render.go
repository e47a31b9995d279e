// Package render defines the interface for writing a loaded session's call
// list in various output formats.
package render

import (
	"io"

	"github.com/sonnes/callscope/session"
)

// Renderer writes the session's active call list to w.
type Renderer interface {
	Render(w io.Writer, s *session.Session) error
}
