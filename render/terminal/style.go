package terminal

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sonnes/callscope/core"
)

var (
	colorBright = lipgloss.AdaptiveColor{Light: "#0f172a", Dark: "#f1f5f9"}
	colorDim    = lipgloss.AdaptiveColor{Light: "#94a3b8", Dark: "#64748b"}
	colorFailed = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}

	colorAdded   = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	colorRemoved = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
	colorChanged = lipgloss.AdaptiveColor{Light: "#d97706", Dark: "#fbbf24"}
)

var (
	styleTitle = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleMeta  = lipgloss.NewStyle().Foreground(colorDim)

	styleAdded   = lipgloss.NewStyle().Foreground(colorAdded)
	styleRemoved = lipgloss.NewStyle().Foreground(colorRemoved)
	styleChanged = lipgloss.NewStyle().Foreground(colorChanged)

	styleTurn       = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleFailed     = lipgloss.NewStyle().Foreground(colorFailed).Bold(true)
	styleToolDetail = lipgloss.NewStyle().Foreground(colorDim)
	styleSelected   = lipgloss.NewStyle().Foreground(colorBright).Bold(true)

	styleSeparator = lipgloss.NewStyle().Foreground(colorDim)
)

// callStyle renders a call name in its assigned color.
func callStyle(c core.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(string(c))).Bold(true)
}
