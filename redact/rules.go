// Package redact scrubs secrets and personal data from loaded transcripts
// before they are displayed or exported.
package redact

import (
	"fmt"
	"regexp"
)

// Rule finds sensitive spans in a string and names their replacement.
type Rule interface {
	Name() string
	Kind() string
	Detect(s string) []Match
	Replacement(m Match) string
}

// Match is one detected span of a string.
type Match struct {
	Start int
	End   int
	Value string
}

// Rule kinds.
const (
	KindSecret = "secret"
	KindPII    = "pii"
)

type regexRule struct {
	name    string
	kind    string
	pattern *regexp.Regexp
}

func newRule(kind, name, pattern string) Rule {
	return &regexRule{name: name, kind: kind, pattern: regexp.MustCompile(pattern)}
}

func (r *regexRule) Name() string { return r.name }
func (r *regexRule) Kind() string { return r.kind }

func (r *regexRule) Detect(s string) []Match {
	var out []Match
	for _, loc := range r.pattern.FindAllStringIndex(s, -1) {
		out = append(out, Match{Start: loc[0], End: loc[1], Value: s[loc[0]:loc[1]]})
	}
	return out
}

func (r *regexRule) Replacement(Match) string {
	return fmt.Sprintf("[REDACTED:%s]", r.name)
}

// SecretRules detects credentials that commonly leak into tool output and
// terminal commands.
func SecretRules() []Rule {
	return []Rule{
		newRule(KindSecret, "aws_key", `AKIA[0-9A-Z]{16}`),
		newRule(KindSecret, "api_key", `(?:sk-[a-zA-Z0-9]{32,}|ghp_[a-zA-Z0-9]{36,}|gho_[a-zA-Z0-9]{36,}|glpat-[a-zA-Z0-9\-]{20,})`),
		newRule(KindSecret, "github_pat", `github_pat_[A-Za-z0-9_]{22,}`),
		newRule(KindSecret, "private_key", `-----BEGIN [A-Z ]+PRIVATE KEY-----`),
		newRule(KindSecret, "connection_string", `(?:postgres|mongodb|mysql|redis)://[^\s"'`+"`"+`]+`),
		newRule(KindSecret, "jwt", `eyJ[A-Za-z0-9\-_]+\.eyJ[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_.+/=]+`),
		newRule(KindSecret, "bearer_token", `(?i)\bbearer\s+[A-Za-z0-9\-._~+/]{16,}=*`),
	}
}

// PIIRules detects personal contact data.
func PIIRules() []Rule {
	return []Rule{
		newRule(KindPII, "email", `[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
		newRule(KindPII, "ipv4", `\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`),
		newRule(KindPII, "phone", `(?:\+\d{1,3}[\s\-]?)?\(?\d{3}\)?[\s\-]?\d{3}[\s\-]?\d{4}`),
	}
}
