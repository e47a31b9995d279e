// Package terminal renders a session's call list as ANSI-colored lines,
// grouped under their turns when a turn owns more than one call.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/sonnes/callscope/core"
	"github.com/sonnes/callscope/session"
)

const defaultWidth = 100

// Renderer prints the active call list to the terminal.
type Renderer struct {
	// Width overrides terminal width detection. Zero means auto-detect.
	Width int

	// Args prints each call's arguments as highlighted JSON.
	Args bool

	// Results prints the first line of each call's tool result.
	Results bool

	// Group forces turn framing even when every turn owns one call.
	Group bool
}

// New creates a terminal Renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render writes the header and the active call list of s to w.
func (r *Renderer) Render(w io.Writer, s *session.Session) error {
	width := r.termWidth()
	writeHeader(w, s, width)

	if s.FilterActive() && len(s.FilteredIndices()) == 0 {
		writeSeparator(w, width)
		fmt.Fprintln(w, styleMeta.Render("  no calls match the current filters"))
		return nil
	}

	if !r.Group && s.ShouldHideRequestFrame() {
		writeSeparator(w, width)
		for _, i := range s.ActiveList() {
			if err := r.writeCall(w, s, i, width); err != nil {
				return err
			}
		}
		fmt.Fprintln(w)
		return nil
	}

	for _, g := range s.GroupedCalls() {
		writeSeparator(w, width)
		writeTurn(w, g)
		for _, ref := range g.Calls {
			if err := r.writeCall(w, s, ref.Index, width); err != nil {
				return err
			}
		}
	}
	fmt.Fprintln(w)
	return nil
}

func (r *Renderer) termWidth() int {
	if r.Width > 0 {
		return r.Width
	}
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return defaultWidth
}

// writeHeader renders the transcript summary: format and diff stats, then
// counts and filters, then the user's prompt.
func writeHeader(w io.Writer, s *session.Session, width int) {
	row1 := styleTitle.Render(fmt.Sprintf("%s transcript", s.Format()))
	if stats := core.ComputeDiffStats(s.Calls()); stats != nil {
		var parts []string
		if stats.Added > 0 {
			parts = append(parts, styleAdded.Render("+"+formatNumber(stats.Added)))
		}
		if stats.Changed > 0 {
			parts = append(parts, styleChanged.Render("~"+formatNumber(stats.Changed)))
		}
		if stats.Removed > 0 {
			parts = append(parts, styleRemoved.Render("-"+formatNumber(stats.Removed)))
		}
		if len(parts) > 0 {
			row1 += "  " + strings.Join(parts, " ")
		}
	}
	fmt.Fprintln(w, row1)

	meta := []string{
		plural(len(s.Turns()), "turn"),
		plural(s.Total(), "call"),
	}
	if s.FilterActive() {
		meta = append(meta, fmt.Sprintf("%d matching", len(s.FilteredIndices())))
		if f := strings.TrimSpace(s.NameFilter()); f != "" {
			meta = append(meta, "name~"+f)
		}
		if f := strings.TrimSpace(s.ContentFilter()); f != "" {
			meta = append(meta, "content~"+f)
		}
	}
	if n := len(s.Warnings()); n > 0 {
		meta = append(meta, plural(n, "warning"))
	}
	fmt.Fprintln(w, styleMeta.Render(strings.Join(meta, "  ")))

	if turns := s.Turns(); len(turns) > 0 {
		if prompt := turns[0].Prompt(); prompt != "" {
			fmt.Fprintln(w, styleMeta.Render(truncate(prompt, width-2)))
		}
	}
}

func writeTurn(w io.Writer, g core.CallGroup) {
	label := fmt.Sprintf("TURN %d", g.TurnIndex+1)
	var meta []string
	if g.Turn != nil {
		if g.Turn.Name != "" {
			meta = append(meta, g.Turn.Name)
		}
		if g.Turn.Response.Status != "" {
			meta = append(meta, string(g.Turn.Response.Status))
		}
		if id := g.Turn.Response.RequestID; id != "" {
			meta = append(meta, id)
		}
	}

	header := styleTurn.Render(label)
	if g.Turn != nil && g.Turn.Response.Failed() {
		header = styleFailed.Render(label)
	}
	if len(meta) > 0 {
		header += "    " + styleMeta.Render(strings.Join(meta, "    "))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, " "+header)
}

// writeCall renders one call line and, when enabled, its arguments and
// tool result.
func (r *Renderer) writeCall(w io.Writer, s *session.Session, i, width int) error {
	c := s.Calls()[i]
	contentWidth := max(width-4, 40)

	marker := " "
	if i == s.Selected() {
		marker = styleSelected.Render("›")
	}
	name := callStyle(c.Color).Render("● " + c.Name)
	line := fmt.Sprintf("%s %3d %s", marker, i, name)
	if summary := ToolSummary(c.Name, c.Arguments); summary != "" {
		used := lipgloss.Width(line) + 2
		line += "  " + styleToolDetail.Render(truncate(summary, contentWidth-used))
	}
	fmt.Fprintln(w, line)

	if r.Args && c.Arguments != "" {
		if err := writeArguments(w, c.Arguments, "        "); err != nil {
			return err
		}
	}
	if r.Results {
		if res, ok := s.ToolResult(c.ID); ok && res.Text != "" {
			fmt.Fprintln(w, styleToolDetail.Render("        ↳ "+truncate(res.Text, contentWidth-10)))
		}
	}
	if len(c.Output) > 0 && !c.HasFunction {
		fmt.Fprintln(w, styleToolDetail.Render("        "+truncate(strings.Join(c.Output, " "), contentWidth-8)))
	}
	return nil
}

// writeSeparator renders a horizontal rule.
func writeSeparator(w io.Writer, width int) {
	n := min(width, 72)
	fmt.Fprintln(w)
	fmt.Fprintln(w, styleSeparator.Render(strings.Repeat("─", n)))
}

// truncate shortens text to maxWidth, appending "..." if needed.
// Multi-line text is reduced to the first line.
func truncate(s string, maxWidth int) string {
	maxWidth = max(maxWidth, 4)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if lipgloss.Width(s) <= maxWidth {
		return s
	}

	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return formatNumber(n) + " " + noun + "s"
}

func formatNumber(n int) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return formatNumber(n/1000) + "," + fmt.Sprintf("%03d", n%1000)
}
