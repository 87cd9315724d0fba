// Package regexengine wraps two regex backends behind a single opaque
// Match primitive: given text and a start offset, produce a MatchResult
// with capture-group spans (or report no match). Everything about how
// the match was found — RE2 vs. backtracking, DFA construction, NFA
// compilation — stays internal; callers such as pkg/strx only ever see
// spans.
//
// It tries Go's stdlib regexp (RE2, linear time) first and falls back to
// github.com/dlclark/regexp2 configured for ECMAScript syntax whenever
// the pattern needs backreferences or lookaround that RE2 cannot
// express.
package regexengine

import (
	"regexp"

	"github.com/dlclark/regexp2"
)

// MatchResult is one match attempt's outcome. Groups holds one [start,
// end) pair per capturing group, index 0 being the whole match; a
// non-participating group is represented as [-1, -1].
type MatchResult struct {
	Matched bool
	Groups  [][2]int
}

// Group returns the i'th capture span, or (-1, -1, false) if it didn't
// participate or doesn't exist.
func (r MatchResult) Group(i int) (start, end int, ok bool) {
	if i < 0 || i >= len(r.Groups) {
		return -1, -1, false
	}
	g := r.Groups[i]
	if g[0] < 0 {
		return -1, -1, false
	}
	return g[0], g[1], true
}

// Regexp is the compiled pattern. Source/Flags are kept for callers
// that need to re-derive the pattern text (e.g. pkg/quickcheck.Emit
// analyzes pattern source text rather than any parsed form tied to a
// backend).
type Regexp struct {
	Source string
	Global bool
	IgnoreCase bool
	Multiline  bool

	fast *regexp.Regexp // RE2 fast path, nil if the pattern needs regexp2
	full *regexp2.Regexp
}

// Compile builds a Regexp from ECMAScript pattern/flags syntax. It
// tries the RE2 fast path first; if that backend rejects the pattern
// (backreferences, lookaround, and other constructs RE2 can't express),
// it falls back to regexp2 in ECMAScript mode, which accepts the full
// ECMA-262 grammar at the cost of backtracking instead of linear time.
func Compile(pattern, flags string) (*Regexp, error) {
	r := &Regexp{Source: pattern}
	opts := regexp2.None
	for _, f := range flags {
		switch f {
		case 'g':
			r.Global = true
		case 'i':
			r.IgnoreCase = true
			opts |= regexp2.IgnoreCase
		case 'm':
			r.Multiline = true
			opts |= regexp2.Multiline
		}
	}

	goPattern := translateToRE2(pattern, r.IgnoreCase, r.Multiline)
	if fast, err := regexp.Compile(goPattern); err == nil {
		r.fast = fast
		return r, nil
	}

	full, err := regexp2.Compile(pattern, opts|regexp2.ECMAScript)
	if err != nil {
		return nil, err
	}
	r.full = full
	return r, nil
}

// translateToRE2 adds the inline flags Go's regexp package expects
// instead of the separate ECMAScript flag bits; if the pattern contains
// anything RE2 can't parse this way, Compile falls through to regexp2.
func translateToRE2(pattern string, ignoreCase, multiline bool) string {
	prefix := ""
	if ignoreCase {
		prefix += "i"
	}
	if multiline {
		prefix += "m"
	}
	if prefix == "" {
		return pattern
	}
	return "(?" + prefix + ")" + pattern
}

// Match attempts the pattern against text starting at byte offset start,
// anchored only in the sense that it searches from there onward (ECMA's
// RegExp.prototype.exec loop), returning the leftmost match at or after
// start.
func (r *Regexp) Match(text string, start int) MatchResult {
	if start > len(text) {
		return MatchResult{}
	}
	if r.fast != nil {
		return r.matchFast(text, start)
	}
	return r.matchFull(text, start)
}

func (r *Regexp) matchFast(text string, start int) MatchResult {
	loc := r.fast.FindStringSubmatchIndex(text[start:])
	if loc == nil {
		return MatchResult{}
	}
	groups := make([][2]int, len(loc)/2)
	for i := range groups {
		s, e := loc[2*i], loc[2*i+1]
		if s < 0 {
			groups[i] = [2]int{-1, -1}
			continue
		}
		groups[i] = [2]int{s + start, e + start}
	}
	return MatchResult{Matched: true, Groups: groups}
}

func (r *Regexp) matchFull(text string, start int) MatchResult {
	m, err := r.full.FindStringMatchStartingAt(text, start)
	if err != nil || m == nil {
		return MatchResult{}
	}
	groupCount := r.full.GroupCount()
	groups := make([][2]int, groupCount)
	for i := 0; i < groupCount; i++ {
		g := m.GroupByNumber(i)
		if len(g.Captures) == 0 {
			groups[i] = [2]int{-1, -1}
			continue
		}
		c := g.Captures[len(g.Captures)-1]
		groups[i] = [2]int{c.Index, c.Index + c.Length}
	}
	return MatchResult{Matched: true, Groups: groups}
}

// GroupCount reports how many capturing groups (including group 0) this
// pattern has.
func (r *Regexp) GroupCount() int {
	if r.fast != nil {
		return r.fast.NumSubexp() + 1
	}
	return r.full.GroupCount()
}
