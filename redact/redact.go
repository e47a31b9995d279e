package redact

import (
	"cmp"
	"regexp"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/sonnes/callscope/core"
)

// Config selects the rules a Redactor applies.
type Config struct {
	Secrets    bool
	PII        bool
	ExtraRules []Rule
	Allowlist  []string // patterns whose matches are left alone
}

// Redactor replaces sensitive spans in every string a transcript displays:
// message text, invocation arguments and response output.
type Redactor struct {
	rules     []Rule
	allowlist []*regexp.Regexp
}

// New builds a Redactor. Allowlist patterns that fail to compile are
// skipped with a warning.
func New(cfg Config) *Redactor {
	var rules []Rule
	if cfg.Secrets {
		rules = append(rules, SecretRules()...)
	}
	if cfg.PII {
		rules = append(rules, PIIRules()...)
	}
	rules = append(rules, cfg.ExtraRules...)

	var allow []*regexp.Regexp
	for _, p := range cfg.Allowlist {
		re, err := regexp.Compile(p)
		if err != nil {
			log.Warn("skipping redaction allowlist pattern", "pattern", p, "error", err)
			continue
		}
		allow = append(allow, re)
	}
	return &Redactor{rules: rules, allowlist: allow}
}

// Transform redacts t in place. Turns split from the same record share
// message storage, so every redacted slice is a fresh copy.
func (r *Redactor) Transform(t *core.Transcript) error {
	if len(r.rules) == 0 {
		return nil
	}
	for i := range t.Turns {
		turn := &t.Turns[i]
		turn.Messages = r.messages(turn.Messages)
		turn.Response.Value = r.lines(turn.Response.Value)
		turn.Response.Invocations = r.invocations(turn.Response.Invocations)
	}
	return nil
}

func (r *Redactor) messages(in []core.Message) []core.Message {
	if in == nil {
		return nil
	}
	out := make([]core.Message, len(in))
	for i, m := range in {
		parts := make([]core.ContentPart, len(m.Content))
		for j, p := range m.Content {
			if p.IsText() {
				p.Text = r.redactString(p.Text)
			} else {
				p.Raw = walkJSON(p.Raw, r.redactString)
			}
			parts[j] = p
		}
		if m.Content == nil {
			parts = nil
		}
		m.Content = parts
		m.ToolCalls = r.invocations(m.ToolCalls)
		out[i] = m
	}
	return out
}

func (r *Redactor) invocations(in []core.ToolInvocation) []core.ToolInvocation {
	if in == nil {
		return nil
	}
	out := make([]core.ToolInvocation, len(in))
	for i, inv := range in {
		if inv.Arguments != "" {
			inv.Arguments = string(walkJSON([]byte(inv.Arguments), r.redactString))
		}
		out[i] = inv
	}
	return out
}

func (r *Redactor) lines(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = r.redactString(s)
	}
	return out
}

type replacement struct {
	start, end int
	text       string
}

// redactString applies every rule to s. Overlapping matches resolve to the
// earliest start, then the longest span.
func (r *Redactor) redactString(s string) string {
	if s == "" {
		return s
	}

	var reps []replacement
	for _, rule := range r.rules {
		for _, m := range rule.Detect(s) {
			if r.allowed(m.Value) {
				continue
			}
			reps = append(reps, replacement{start: m.Start, end: m.End, text: rule.Replacement(m)})
		}
	}
	if len(reps) == 0 {
		return s
	}

	slices.SortFunc(reps, func(a, b replacement) int {
		if c := cmp.Compare(a.start, b.start); c != 0 {
			return c
		}
		return cmp.Compare(b.end, a.end)
	})

	var buf []byte
	pos := 0
	for _, rep := range reps {
		if rep.start < pos {
			continue
		}
		buf = append(buf, s[pos:rep.start]...)
		buf = append(buf, rep.text...)
		pos = rep.end
	}
	buf = append(buf, s[pos:]...)
	return string(buf)
}

func (r *Redactor) allowed(value string) bool {
	for _, re := range r.allowlist {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}
