package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/sonnes/callscope/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSession(t *testing.T) *session.Session {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "calls.json"))
	require.NoError(t, err)
	s := session.New()
	require.NoError(t, s.Load(data))
	require.Equal(t, 4, s.Total())
	return s
}

func key(k string) tea.KeyMsg {
	switch k {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends each key in order, typing multi-rune strings one rune at a
// time.
func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		if len([]rune(k)) > 1 && k != "esc" && k != "enter" && k != "ctrl+c" {
			for _, r := range k {
				m, _ = m.Update(key(string(r)))
			}
			continue
		}
		m, _ = m.Update(key(k))
	}
	return m
}

func TestFullNavigation(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want int
	}{
		{"down twice", []string{"j", "j"}, 2},
		{"down then up", []string{"j", "j", "k"}, 1},
		{"up at start stays", []string{"k"}, 0},
		{"down past end stays", []string{"j", "j", "j", "j", "j"}, 3},
		{"end then home", []string{"G", "g"}, 0},
		{"end", []string{"G"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loadSession(t)
			press(New(s), tt.keys...)
			assert.Equal(t, tt.want, s.Selected())
		})
	}
}

func TestNameFilter(t *testing.T) {
	s := loadSession(t)
	m := press(New(s), "/", "read", "enter")

	assert.Equal(t, "read", s.NameFilter())
	assert.Equal(t, []int{0, 3}, s.FilteredIndices())
	assert.Equal(t, 0, s.Selected())
	assert.Equal(t, modeList, m.(Model).mode)

	m = press(m, "n")
	assert.Equal(t, 3, s.Selected())
	m = press(m, "n")
	assert.Equal(t, 3, s.Selected(), "filtered navigation stops at the last match")
	press(m, "N")
	assert.Equal(t, 0, s.Selected())
}

func TestContentFilterMovesSelectionToFirstMatch(t *testing.T) {
	s := loadSession(t)
	press(New(s), "?", "needle")

	assert.Equal(t, "needle", s.ContentFilter())
	assert.Equal(t, []int{1, 3}, s.FilteredIndices())
	assert.Equal(t, 1, s.Selected())
}

func TestEscClearsFilter(t *testing.T) {
	s := loadSession(t)
	m := press(New(s), "/", "grep")
	require.True(t, s.FilterActive())

	m = press(m, "esc")
	assert.False(t, s.FilterActive())
	assert.Empty(t, s.NameFilter())
	assert.Equal(t, modeList, m.(Model).mode)
}

func TestClearFilters(t *testing.T) {
	s := loadSession(t)
	press(New(s), "/", "read", "enter", "?", "needle", "enter", "c")

	assert.False(t, s.FilterActive())
	assert.Empty(t, s.NameFilter())
	assert.Empty(t, s.ContentFilter())
}

func TestFilterKeysAreTyped(t *testing.T) {
	s := loadSession(t)
	press(New(s), "/", "rq")

	assert.Equal(t, "rq", s.NameFilter(), "list keys typed into a filter do not act")
	assert.Equal(t, 0, s.Selected())
}

func TestNoMatches(t *testing.T) {
	s := loadSession(t)
	m := press(New(s), "/", "zzz", "enter")

	assert.True(t, s.FilterActive())
	assert.Empty(t, s.FilteredIndices())
	assert.Contains(t, ansi.Strip(m.View()), "no calls match the current filters")
	assert.Contains(t, ansi.Strip(m.View()), "0 matches")
}

func TestRefreshColorsKeepsColors(t *testing.T) {
	s := loadSession(t)
	before := s.Calls()[0].Color
	press(New(s), "r")
	assert.Equal(t, before, s.Calls()[0].Color)
}

func TestQuit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m, cmd := New(loadSession(t)).Update(key(k))
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.Empty(t, m.View())
		})
	}
}

func TestView(t *testing.T) {
	s := loadSession(t)
	m, _ := New(s).Update(tea.WindowSizeMsg{Width: 80, Height: 20})

	out := ansi.Strip(m.View())
	assert.Contains(t, out, "callscope")
	assert.Contains(t, out, "sim-requests  4 turns  4 calls")
	assert.Contains(t, out, "read_file")
	assert.Contains(t, out, "run_in_terminal")
	assert.Contains(t, out, "go test ./...")
	assert.Contains(t, out, "#1 read_file")
	assert.Contains(t, out, "result: package main")

	m = press(m, "/", "read", "enter")
	out = ansi.Strip(m.View())
	assert.Contains(t, out, "match 1/2")
	assert.NotContains(t, out, "run_in_terminal")
}

func TestSmallWindowScrollsToSelection(t *testing.T) {
	s := loadSession(t)
	m, _ := New(s).Update(tea.WindowSizeMsg{Width: 80, Height: detailRows + 3})
	m = press(m, "G")

	out := ansi.Strip(m.View())
	assert.Contains(t, out, "/src/needle.go")
	assert.NotContains(t, out, "/src/main.go")
}
