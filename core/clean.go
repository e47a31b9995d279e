package core

import (
	"regexp"
	"strings"
)

// openTagRE matches an XML opening tag like <tag-name> or <tag_name attr="val">.
var openTagRE = regexp.MustCompile(`<([a-zA-Z_][a-zA-Z0-9_-]*)[^>]*>`)

// CleanPromptText strips injected XML blocks (environment_info, context,
// reminders, attachments) from user text. Tags without a closing partner
// are dropped on their own; their content is kept.
func CleanPromptText(s string) string {
	// Go regexp has no backreferences, so matching close tags are found by hand.
	for {
		loc := openTagRE.FindStringSubmatchIndex(s)
		if loc == nil {
			break
		}
		tagName := s[loc[2]:loc[3]]
		closeTag := "</" + tagName + ">"
		closeIdx := strings.Index(s[loc[1]:], closeTag)
		if closeIdx < 0 {
			s = s[:loc[0]] + s[loc[1]:]
			continue
		}
		end := loc[1] + closeIdx + len(closeTag)
		s = s[:loc[0]] + s[end:]
	}
	return strings.TrimSpace(s)
}

// Prompt returns the first user message of the turn that still has text
// after cleaning. When every user message is pure injected context, the
// cleaned text of the last one is returned (possibly empty).
func (t Turn) Prompt() string {
	var last string
	for _, m := range t.Messages {
		if m.Role != RoleUser {
			continue
		}
		last = CleanPromptText(m.Text())
		if last != "" {
			return last
		}
	}
	return last
}
