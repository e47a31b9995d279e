// Package tui is an interactive call browser over a session: full and
// filtered navigation, live name and content filters, and a detail pane for
// the selected call.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sonnes/callscope/render/terminal"
	"github.com/sonnes/callscope/session"
)

type mode int

const (
	modeList mode = iota
	modeName
	modeContent
)

// detailRows is the height of the pane under the list.
const detailRows = 5

// Model is the bubbletea model driving a session.
type Model struct {
	session *session.Session

	width    int
	height   int
	offset   int // scroll offset into the active list
	mode     mode
	quitting bool

	nameInput    textinput.Model
	contentInput textinput.Model
}

// New returns a model over an already loaded session.
func New(s *session.Session) Model {
	ni := textinput.New()
	ni.Placeholder = "tool name..."
	ni.CharLimit = 100
	ni.SetValue(s.NameFilter())

	ci := textinput.New()
	ci.Placeholder = "content..."
	ci.CharLimit = 200
	ci.SetValue(s.ContentFilter())

	return Model{
		session:      s,
		width:        100,
		height:       30,
		nameInput:    ni,
		contentInput: ci,
	}
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(s *session.Session, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(New(s), opts...).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampOffset()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.mode == modeList {
			return m.updateList(msg)
		}
		return m.updateFilter(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "down", "j":
		s.NavigateFullNext()

	case "up", "k":
		s.NavigateFullPrev()

	case "n":
		s.NavigateFilteredNext()

	case "N":
		s.NavigateFilteredPrev()

	case "home", "g":
		if list := s.ActiveList(); len(list) > 0 {
			_ = s.Select(list[0])
		}

	case "end", "G":
		if list := s.ActiveList(); len(list) > 0 {
			_ = s.Select(list[len(list)-1])
		}

	case "r":
		s.RefreshColors()

	case "c":
		m.nameInput.SetValue("")
		m.contentInput.SetValue("")
		s.SetNameFilter("")
		s.SetContentFilter("")

	case "/":
		m.mode = modeName
		return m, m.nameInput.Focus()

	case "?":
		m.mode = modeContent
		return m, m.contentInput.Focus()
	}

	m.clampOffset()
	return m, nil
}

// updateFilter feeds a key to the focused filter input and applies its value
// to the session on every keystroke. Esc clears the filter; enter keeps it.
func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	input, apply := &m.nameInput, m.session.SetNameFilter
	if m.mode == modeContent {
		input, apply = &m.contentInput, m.session.SetContentFilter
	}

	switch msg.String() {
	case "esc":
		input.SetValue("")
		apply("")
		input.Blur()
		m.mode = modeList
		m.clampOffset()
		return m, nil

	case "enter":
		input.Blur()
		m.mode = modeList
		return m, nil
	}

	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	apply(input.Value())
	m.followFilter()
	m.clampOffset()
	return m, cmd
}

// followFilter moves the selection onto the first match when it falls
// outside a freshly changed filter.
func (m Model) followFilter() {
	s := m.session
	if s.Total() == 0 {
		return
	}
	_ = s.Select(s.Selected())
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderTitle() + "\n")

	list := m.session.ActiveList()
	visible := m.visibleRows()
	end := min(m.offset+visible, len(list))

	rendered := 0
	if len(list) == 0 {
		b.WriteString(dimStyle.Render("  no calls match the current filters") + "\n")
		rendered++
	}
	for _, i := range list[m.offset:end] {
		b.WriteString(m.renderRow(i) + "\n")
		rendered++
	}
	for ; rendered < visible; rendered++ {
		b.WriteString("\n")
	}

	b.WriteString(m.renderDetail())

	switch m.mode {
	case modeName:
		b.WriteString(statusBarStyle.Render("Name: ") + m.nameInput.View())
	case modeContent:
		b.WriteString(statusBarStyle.Render("Content: ") + m.contentInput.View())
	default:
		b.WriteString(helpStyle.Render("  j/k: move  n/N: next/prev match  /: name  ?: content  c: clear  r: recolor  q: quit"))
	}
	return b.String()
}

func (m Model) renderTitle() string {
	s := m.session
	info := fmt.Sprintf("  %s  %d turns  %d calls", s.Format(), len(s.Turns()), s.Total())
	if s.FilterActive() {
		matched := len(s.FilteredIndices())
		if pos := s.FilterPosition(); pos >= 0 {
			info += fmt.Sprintf("  match %d/%d", pos+1, matched)
		} else {
			info += fmt.Sprintf("  %d matches", matched)
		}
	}
	return titleStyle.Render("callscope") + dimStyle.Render(info)
}

func (m Model) renderRow(i int) string {
	c := m.session.Calls()[i]

	turn := fmt.Sprintf("%4d", c.TurnIndex+1)
	summary := terminal.ToolSummary(c.Name, c.Arguments)
	if !c.HasFunction && c.Turn != nil {
		summary = firstLine(c.Turn.Response.Text())
	}

	if i == m.session.Selected() {
		row := fmt.Sprintf("› %s  %s  %s", turn, c.Name, summary)
		return selectedStyle.Render(lipgloss.PlaceHorizontal(m.width, lipgloss.Left, clip(row, m.width)))
	}

	row := "  " + turnStyle.Render(turn) + "  " + nameStyle(c.Color).Render(c.Name)
	if summary != "" {
		room := m.width - len(turn) - len(c.Name) - 6
		row += "  " + dimStyle.Render(clip(summary, room))
	}
	return row
}

func (m Model) renderDetail() string {
	var b strings.Builder
	c := m.session.SelectedCall()
	if c == nil {
		b.WriteString(detailTitleStyle.Render("no call selected") + "\n")
		return b.String() + strings.Repeat("\n", detailRows-1)
	}

	title := fmt.Sprintf("#%d %s", m.session.Selected()+1, c.Name)
	var flags []string
	if c.Failed() {
		flags = append(flags, "failed")
	}
	if c.Inferred {
		flags = append(flags, "inferred")
	}
	if c.Synthetic {
		flags = append(flags, "synthetic")
	}
	if len(flags) > 0 {
		title += " (" + strings.Join(flags, ", ") + ")"
	}
	b.WriteString(detailTitleStyle.Render(title) + "\n")

	lines := []string{"args: " + oneLine(c.Arguments)}
	if r, ok := m.session.ToolResult(c.ID); ok {
		lines = append(lines, "result: "+oneLine(r.Text))
	}
	if len(c.Output) > 0 {
		lines = append(lines, "output: "+oneLine(strings.Join(c.Output, " ")))
	}
	for len(lines) < detailRows-1 {
		lines = append(lines, "")
	}
	for _, l := range lines[:detailRows-1] {
		b.WriteString(dimStyle.Render(clip(l, m.width)) + "\n")
	}
	return b.String()
}

func (m Model) visibleRows() int {
	// title, detail pane and bottom bar
	return max(1, m.height-detailRows-2)
}

// clampOffset keeps the selection in view when it is part of the active
// list.
func (m *Model) clampOffset() {
	list := m.session.ActiveList()
	visible := m.visibleRows()

	cursor := -1
	for pos, i := range list {
		if i == m.session.Selected() {
			cursor = pos
			break
		}
	}
	if cursor >= 0 {
		if cursor < m.offset {
			m.offset = cursor
		}
		if cursor >= m.offset+visible {
			m.offset = cursor - visible + 1
		}
	}
	m.offset = max(0, min(m.offset, len(list)-visible))
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func clip(s string, width int) string {
	r := []rune(s)
	if width < 3 || len(r) <= width {
		return s
	}
	return string(r[:width-2]) + ".."
}
