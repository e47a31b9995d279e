// Package palette assigns display colors to flattened calls. Tool names map
// to one of three tiers: file-modifying tools take warm colors, other known
// system tools take blues, and anything else hashes into greens. Failure,
// summary and inference states override the tier color.
package palette

import (
	"strings"
	"unicode/utf16"

	"github.com/sonnes/callscope/core"
)

// Override colors.
const (
	Failed              core.Color = "#dc2626"
	ConversationSummary core.Color = "#9333ea"
	Inferred            core.Color = "#7c3aed"
	NoTool              core.Color = "#000000"
	Unnamed             core.Color = "#6b7280"

	// readFileAlt replaces read_file's tier color when it lands on the same
	// blue as grep_search.
	readFileAlt core.Color = "#0f7497"
)

var (
	warm = []core.Color{
		"#f97316", "#ea580c", "#fb923c", "#d97706",
		"#f59e0b", "#c2410c", "#f8b400", "#ffb454",
	}
	blue = []core.Color{
		"#1d4ed8", "#2563eb", "#3b82f6", "#0ea5e9", "#38bdf8",
		"#1e40af", "#1e3a8a", "#60a5fa", "#0284c7",
	}
	green = []core.Color{
		"#047857", "#059669", "#10b981", "#34d399", "#16a34a",
		"#0d9488", "#14b8a6", "#22c55e", "#2dd4bf",
	}
)

// ModifiableTools mutate files or run arbitrary commands.
var ModifiableTools = []string{
	"replace_string_in_file",
	"apply_patch",
	"edit_file",
	"create_file",
	"create_directory",
	"run_in_terminal",
}

// SystemTools are the tools built into the agent.
var SystemTools = []string{
	"apply_patch",
	"create_directory",
	"create_file",
	"create_new_jupyter_notebook",
	"edit_notebook_file",
	"file_search",
	"test_search",
	"grep_search",
	"get_changed_files",
	"copilot_getNotebookSummary",
	"get_search_view_results",
	"get_vscode_api",
	"github_repo",
	"list_code_usages",
	"list_dir",
	"open_simple_browser",
	"read_file",
	"run_notebook_cell",
	"semantic_search",
	"test_failure",
	"create_and_run_task",
	"get_terminal_output",
	"manage_todo_list",
	"run_in_terminal",
	"terminal_last_command",
	"terminal_selection",
	"insert_edit_into_file",
}

// Palette maps tool names to tier colors.
type Palette struct {
	known map[string]core.Color
}

// Default is built from ModifiableTools and SystemTools.
var Default = New(ModifiableTools, SystemTools)

// New builds a palette. Modifiable tools cycle the warm colors in order;
// system tools not already colored cycle the blues.
func New(modifiable, system []string) *Palette {
	known := make(map[string]core.Color, len(modifiable)+len(system))
	for i, name := range modifiable {
		known[name] = warm[i%len(warm)]
	}

	i := 0
	for _, name := range system {
		if _, ok := known[name]; ok {
			continue
		}
		known[name] = blue[i%len(blue)]
		i++
	}

	grep, okGrep := known["grep_search"]
	read, okRead := known["read_file"]
	if okGrep && okRead && grep == read {
		known["read_file"] = readFileAlt
	}
	return &Palette{known: known}
}

// ForTool returns the tier color for a tool name, ignoring any override.
func (p *Palette) ForTool(name string) core.Color {
	if name == "" {
		return Unnamed
	}
	if name == core.NoToolName {
		return NoTool
	}

	key := strings.TrimSpace(name)
	lower := strings.ToLower(key)
	if c, ok := p.known[key]; ok {
		return c
	}
	if c, ok := p.known[lower]; ok {
		return c
	}
	return green[hash(lower)%int64(len(green))]
}

// For returns the color of a call with overrides applied, in priority
// order: failed turn, conversation summary, no tool, inferred name, tier.
func (p *Palette) For(c *core.FlattenedCall) core.Color {
	switch {
	case c.Failed():
		return Failed
	case c.ConversationSummary:
		return ConversationSummary
	case !c.HasFunction:
		return NoTool
	case c.Inferred:
		return Inferred
	}
	return p.ForTool(c.Name)
}

// Assign colors every call in place. Running it again reproduces the same
// colors unless an override condition changed.
func (p *Palette) Assign(calls []core.FlattenedCall) {
	for i := range calls {
		calls[i].Color = p.For(&calls[i])
	}
}

// hash is a 31-multiplier string hash over UTF-16 code units with 32-bit
// wraparound, returned as a non-negative value.
func hash(s string) int64 {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = 31*h + int32(u)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}
