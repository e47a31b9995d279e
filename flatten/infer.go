package flatten

import (
	"regexp"
	"strings"

	"github.com/sonnes/callscope/core"
)

// Pseudo-tool names.
const (
	ConversationSummary     = "conversation_summary"
	Summarize               = "summarize"
	AnalyzeFilesAndPatterns = "analyze_files_and_patterns"
	PatchFile               = "patch_file"
)

const (
	analysisMarker       = "<analysis>"
	analysisExpertMarker = "You are an expert at analyzing files and patterns."
)

var (
	summarizeRE = regexp.MustCompile(`^Summarize the following actions in \d+(?:-\d+)? words`)
	patchRE     = regexp.MustCompile(`(?s)\*\*\* Begin Patch.*\*\*\* End Patch`)
)

// Pseudo is the entry synthesized for a turn without invocations.
type Pseudo struct {
	Name                string
	HasFunction         bool
	Inferred            bool
	Synthetic           bool
	ConversationSummary bool
}

// Infer picks the pseudo-tool that stands in for a turn with no invocations.
// Checks run in priority order; a turn matching none yields the "None"
// placeholder with HasFunction unset.
func Infer(t *core.Turn) Pseudo {
	switch {
	case strings.HasPrefix(strings.TrimSpace(t.Response.Text()), analysisMarker):
		return Pseudo{Name: ConversationSummary, HasFunction: true, ConversationSummary: true}
	case summarizeRE.MatchString(t.LeadingUserText()):
		return Pseudo{Name: Summarize, HasFunction: true, ConversationSummary: true, Synthetic: true}
	case hasAnalysisExpert(t):
		return Pseudo{Name: AnalyzeFilesAndPatterns, HasFunction: true, Inferred: true, Synthetic: true}
	case hasPatchBlock(t):
		return Pseudo{Name: PatchFile, HasFunction: true, Inferred: true, Synthetic: true}
	}
	return Pseudo{Name: core.NoToolName}
}

// rename maps an invocation literally called "none" to the tool its turn
// implies. It reports whether the name was replaced.
func rename(t *core.Turn, name string) (string, bool) {
	if !strings.EqualFold(name, "none") {
		return name, false
	}
	switch {
	case hasAnalysisExpert(t):
		return AnalyzeFilesAndPatterns, true
	case hasPatchBlock(t):
		return PatchFile, true
	}
	return name, false
}

func hasAnalysisExpert(t *core.Turn) bool {
	for _, s := range t.SystemTexts() {
		if strings.Contains(s, analysisExpertMarker) {
			return true
		}
	}
	return false
}

func hasPatchBlock(t *core.Turn) bool {
	return patchRE.MatchString(t.Response.Text())
}
