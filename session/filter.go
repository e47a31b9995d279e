package session

import (
	"strings"

	"github.com/sonnes/callscope/core"
)

// SetNameFilter sets the tool-name predicate. Matching is a case-insensitive
// substring test on the call name.
func (s *Session) SetNameFilter(term string) {
	s.nameFilter = term
	s.refilter()
}

// SetContentFilter sets the content predicate. Matching is a
// case-insensitive substring test on the call's response output and its
// turn's invocation arguments and message text.
func (s *Session) SetContentFilter(term string) {
	s.contentFilter = term
	s.refilter()
}

// NameFilter returns the tool-name predicate as set.
func (s *Session) NameFilter() string { return s.nameFilter }

// ContentFilter returns the content predicate as set.
func (s *Session) ContentFilter() string { return s.contentFilter }

// FilterActive reports whether either predicate is non-blank. Callers must
// use this, not the emptiness of FilteredIndices, to tell "no filter" from
// "no matches".
func (s *Session) FilterActive() bool {
	return normalize(s.nameFilter) != "" || normalize(s.contentFilter) != ""
}

// FilteredIndices returns the ascending indices of calls matching every
// active predicate. It is empty both when nothing matches and when no
// filter is active.
func (s *Session) FilteredIndices() []int { return s.filtered }

// FilterPosition is the selection's position within FilteredIndices, or -1
// when no filter is active or the selection is not in the set.
func (s *Session) FilterPosition() int {
	if !s.FilterActive() || len(s.filtered) == 0 {
		return -1
	}
	return indexOf(s.filtered, s.selected)
}

// ActiveList returns the indices to display: the filtered set while a
// filter is active (possibly empty), otherwise every call.
func (s *Session) ActiveList() []int {
	if s.FilterActive() {
		return s.filtered
	}
	all := make([]int, len(s.calls))
	for i := range all {
		all[i] = i
	}
	return all
}

// GroupedCalls groups the active list by owning turn in ascending turn
// order.
func (s *Session) GroupedCalls() []core.CallGroup {
	var groups []core.CallGroup
	for _, i := range s.ActiveList() {
		c := &s.calls[i]
		if n := len(groups); n == 0 || groups[n-1].TurnIndex != c.TurnIndex {
			groups = append(groups, core.CallGroup{TurnIndex: c.TurnIndex, Turn: c.Turn})
		}
		g := &groups[len(groups)-1]
		g.Calls = append(g.Calls, core.CallRef{Index: i, Call: c})
	}
	return groups
}

// refilter recomputes the filtered set from the current calls and
// predicates.
func (s *Session) refilter() {
	name := normalize(s.nameFilter)
	content := normalize(s.contentFilter)

	s.filtered = []int{}
	if name == "" && content == "" {
		return
	}
	for i, c := range s.calls {
		if name != "" && !strings.Contains(strings.ToLower(c.Name), name) {
			continue
		}
		if content != "" && !strings.Contains(s.haystacks[i], content) {
			continue
		}
		s.filtered = append(s.filtered, i)
	}
}

func normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// haystack joins everything the content filter searches for one call. The
// response output is the call's own, which new-agent flattening leaves only
// on a turn's last call.
func haystack(c *core.FlattenedCall) string {
	parts := append([]string(nil), c.Output...)
	t := c.Turn
	if t == nil {
		return strings.Join(parts, " ")
	}
	for _, inv := range t.Response.Invocations {
		parts = append(parts, inv.Arguments)
	}
	for _, m := range t.Messages {
		for _, inv := range m.ToolCalls {
			parts = append(parts, inv.Arguments)
		}
		parts = append(parts, m.Texts()...)
	}
	return strings.Join(parts, " ")
}
