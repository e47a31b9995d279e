// Package session holds the state of one loaded transcript: the canonical
// turns, the flattened call list, the current selection and the name and
// content filters. Every derived view is recomputed from scratch whenever
// the state it depends on changes.
//
// A Session is owned by a single goroutine and is not safe for concurrent
// use.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sonnes/callscope/core"
	"github.com/sonnes/callscope/flatten"
	"github.com/sonnes/callscope/palette"
	"github.com/sonnes/callscope/reader"
)

// ErrIndexOutOfRange is returned by Select for an index outside the call list.
var ErrIndexOutOfRange = errors.New("call index out of range")

// Session is the filter/selection state machine over one transcript.
type Session struct {
	palette      *palette.Palette
	transformers []core.Transformer

	transcript *core.Transcript
	calls      []core.FlattenedCall
	haystacks  []string // lowercased content haystack per call
	results    map[string]core.ToolResult

	selected      int
	nameFilter    string
	contentFilter string
	filtered      []int
}

// Option configures a Session.
type Option func(*Session)

// WithPalette replaces palette.Default.
func WithPalette(p *palette.Palette) Option {
	return func(s *Session) { s.palette = p }
}

// WithTransformers runs transformers over every loaded transcript before it
// is flattened.
func WithTransformers(ts ...core.Transformer) Option {
	return func(s *Session) { s.transformers = append(s.transformers, ts...) }
}

// New returns an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		palette:    palette.Default,
		transcript: &core.Transcript{Format: core.FormatUnknown},
		results:    map[string]core.ToolResult{},
		filtered:   []int{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the session's transcript with the one parsed from text. On
// error the previous state is left untouched. Filters survive a load and
// are re-evaluated against the new calls; the selection resets to the first
// call.
func (s *Session) Load(text []byte) error {
	t, err := reader.Parse(text)
	if err != nil {
		log.Error("load transcript", "error", err)
		return fmt.Errorf("load transcript: %w", err)
	}
	if err := core.Chain(t, s.transformers...); err != nil {
		log.Error("load transcript", "error", err)
		return fmt.Errorf("transform transcript: %w", err)
	}

	calls := flatten.Flatten(t.Turns)
	s.palette.Assign(calls)

	haystacks := make([]string, len(calls))
	for i := range calls {
		haystacks[i] = strings.ToLower(haystack(&calls[i]))
	}

	s.transcript = t
	s.calls = calls
	s.haystacks = haystacks
	s.results = BuildToolResults(t.Turns)
	s.selected = 0
	s.refilter()

	log.Debug("loaded transcript", "format", t.Format, "turns", len(t.Turns), "calls", len(calls))
	return nil
}

// RefreshColors re-applies color assignment to the current calls.
func (s *Session) RefreshColors() {
	s.palette.Assign(s.calls)
}

// Format is the detected schema of the loaded transcript.
func (s *Session) Format() core.Format { return s.transcript.Format }

// Turns returns the canonical turns.
func (s *Session) Turns() []core.Turn { return s.transcript.Turns }

// Warnings returns the non-fatal diagnostics of the last load.
func (s *Session) Warnings() []error { return s.transcript.Warnings }

// Calls returns the flattened call list.
func (s *Session) Calls() []core.FlattenedCall { return s.calls }

// Total is the number of flattened calls.
func (s *Session) Total() int { return len(s.calls) }

// Selected is the index of the selected call.
func (s *Session) Selected() int { return s.selected }

// SelectedCall returns the selected call, or nil when there are no calls.
func (s *Session) SelectedCall() *core.FlattenedCall {
	if s.selected < 0 || s.selected >= len(s.calls) {
		return nil
	}
	return &s.calls[s.selected]
}

// Select moves the selection to index i. While a filter with matches is
// active, an index outside the filtered set selects the first match
// instead.
func (s *Session) Select(i int) error {
	if i < 0 || i >= len(s.calls) {
		return fmt.Errorf("select %d of %d: %w", i, len(s.calls), ErrIndexOutOfRange)
	}
	if s.FilterActive() && len(s.filtered) > 0 && indexOf(s.filtered, i) < 0 {
		i = s.filtered[0]
	}
	s.selected = i
	return nil
}

// NavigateFullPrev selects the previous call, ignoring filters. It reports
// whether the selection moved; it never wraps.
func (s *Session) NavigateFullPrev() bool {
	if s.selected <= 0 {
		return false
	}
	s.selected--
	return true
}

// NavigateFullNext selects the next call, ignoring filters.
func (s *Session) NavigateFullNext() bool {
	if s.selected >= len(s.calls)-1 {
		return false
	}
	s.selected++
	return true
}

// NavigateFilteredPrev selects the previous filtered call. It does nothing
// when no filter is active or the selection is outside the filtered set.
func (s *Session) NavigateFilteredPrev() bool {
	pos := s.FilterPosition()
	if pos <= 0 {
		return false
	}
	s.selected = s.filtered[pos-1]
	return true
}

// NavigateFilteredNext selects the next filtered call.
func (s *Session) NavigateFilteredNext() bool {
	pos := s.FilterPosition()
	if pos < 0 || pos >= len(s.filtered)-1 {
		return false
	}
	s.selected = s.filtered[pos+1]
	return true
}

// ShouldHideRequestFrame reports whether every turn owns at most one real
// call, in which case framing calls by turn adds nothing.
func (s *Session) ShouldHideRequestFrame() bool {
	turns := s.transcript.Turns
	if len(turns) == 0 {
		return false
	}
	counts := make([]int, len(turns))
	for _, c := range s.calls {
		if c.HasFunction {
			counts[c.TurnIndex]++
		}
	}
	for _, n := range counts {
		if n > 1 {
			return false
		}
	}
	return true
}

// ToolResults maps invocation ids to the text their tool returned.
func (s *Session) ToolResults() map[string]core.ToolResult { return s.results }

// ToolResult returns the result recorded for an invocation id.
func (s *Session) ToolResult(id string) (core.ToolResult, bool) {
	if id == "" {
		return core.ToolResult{}, false
	}
	r, ok := s.results[id]
	return r, ok
}

func indexOf(xs []int, v int) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return -1
}
