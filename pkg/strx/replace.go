// Package strx implements the regex-driven string replace engine (the
// "$"-pattern mini-DSL and the global-match iteration loop) and the
// string split engine (separator-by-string and separator-by-regex,
// including capture expansion and the zero-length match advancement
// rule).
package strx

import (
	"strings"

	"railgun/pkg/regexengine"
)

// Capture is one capture group's contribution to a replacement: either
// a matched substring, or "didn't participate" (an undefined capture in
// ECMAScript terms, which $n-in-a-pattern or a function replacer's
// argument list renders as the empty string / undefined respectively).
type Capture struct {
	Value string
	Ok    bool
}

// Match is one successful match against text: the overall span plus
// each capturing group's span (group 0 is redundant with Start/End and
// not included here).
type Match struct {
	Start, End int
	Groups     []Capture
}

func matchAt(re *regexengine.Regexp, text string, pos int) (Match, bool) {
	res := re.Match(text, pos)
	if !res.Matched {
		return Match{}, false
	}
	s, e, _ := res.Group(0)
	m := Match{Start: s, End: e}
	for i := 1; i < len(res.Groups); i++ {
		gs, ge, ok := res.Group(i)
		if !ok {
			m.Groups = append(m.Groups, Capture{})
			continue
		}
		m.Groups = append(m.Groups, Capture{Value: text[gs:ge], Ok: true})
	}
	return m, true
}

// ExpandPattern evaluates a "$"-pattern replacement string against one
// match.
//
// $$ is a literal dollar. $& is the matched substring. $` / $' are the
// text before/after the match. $n and $nn substitute a capture group,
// preferring the two-digit reading when it names a real group: "$0" and
// "$00" are themselves never valid back-references, but "$01" IS valid —
// it reads as the two-digit number 01 = capture group 1 — so the rule is
// really "no numeric reading of the digits following $ names a live
// capture", not "a leading zero is always literal". Anything else after
// $ that doesn't match one of these forms is passed through literally,
// $ included.
func ExpandPattern(pattern, subject string, m Match) string {
	var buf strings.Builder
	n := len(pattern)
	i := 0
	for i < n {
		c := pattern[i]
		if c != '$' || i+1 >= n {
			buf.WriteByte(c)
			i++
			continue
		}
		next := pattern[i+1]
		switch {
		case next == '$':
			buf.WriteByte('$')
			i += 2
		case next == '&':
			buf.WriteString(subject[m.Start:m.End])
			i += 2
		case next == '`':
			buf.WriteString(subject[:m.Start])
			i += 2
		case next == '\'':
			buf.WriteString(subject[m.End:])
			i += 2
		case isDigit(next):
			consumed, text := resolveGroupReference(pattern, i, m)
			if consumed == 0 {
				buf.WriteByte('$')
				i++
			} else {
				buf.WriteString(text)
				i += consumed
			}
		default:
			buf.WriteByte('$')
			i++
		}
	}
	return buf.String()
}

// resolveGroupReference looks at pattern[i] == '$' followed by one or
// two digits and decides which numeric reading (if any) names a real
// capture group, preferring the two-digit reading. Returns how many
// bytes of "$dd"/"$d" were consumed (0 if neither reading resolves, in
// which case the caller emits a literal "$" and leaves the digit(s) in
// the output stream to be copied normally).
func resolveGroupReference(pattern string, i int, m Match) (consumed int, text string) {
	d1 := pattern[i+1]
	if i+2 < len(pattern) && isDigit(pattern[i+2]) {
		two := int(d1-'0')*10 + int(pattern[i+2]-'0')
		if g, ok := groupText(m, two); ok {
			return 3, g
		}
	}
	if g, ok := groupText(m, int(d1-'0')); ok {
		return 2, g
	}
	return 0, ""
}

func groupText(m Match, n int) (string, bool) {
	if n < 1 || n > len(m.Groups) {
		return "", false
	}
	c := m.Groups[n-1]
	if !c.Ok {
		return "", true // existing group that did not participate: empty
	}
	return c.Value, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Replace implements String.prototype.replace with a string
// replacement pattern: a single replacement if re is not global, or
// every non-overlapping match if it is (see replaceFunc).
func Replace(text string, re *regexengine.Regexp, pattern string) string {
	if re.Global {
		return replaceFunc(text, re, func(m Match) string { return ExpandPattern(pattern, text, m) })
	}
	m, ok := matchAt(re, text, 0)
	if !ok {
		return text
	}
	return text[:m.Start] + ExpandPattern(pattern, text, m) + text[m.End:]
}

// ReplacerFunc is the callback form (String.prototype.replace with a
// function argument), constructed the way FunctionReplacer::DoReplace
// builds its argument list: the matched substring, each capture (or
// "", false for one that didn't participate), the match's start index,
// and the whole subject string.
type ReplacerFunc func(matched string, groups []Capture, index int, whole string) string

// ReplaceWithFunc implements the callback form of replace.
func ReplaceWithFunc(text string, re *regexengine.Regexp, fn ReplacerFunc) string {
	if re.Global {
		return replaceFunc(text, re, func(m Match) string {
			return fn(text[m.Start:m.End], m.Groups, m.Start, text)
		})
	}
	m, ok := matchAt(re, text, 0)
	if !ok {
		return text
	}
	return text[:m.Start] + fn(text[m.Start:m.End], m.Groups, m.Start, text) + text[m.End:]
}

// ReplaceLiteral implements String.prototype.replace with a plain
// string search value rather than a regex: search is matched verbatim,
// metacharacters included, so "a.c" only ever matches the three
// literal bytes "a.c". Replaces the first occurrence, or every
// non-overlapping occurrence when global is true.
func ReplaceLiteral(text, search, pattern string, global bool) string {
	if global {
		return replaceLiteralFunc(text, search, func(m Match) string { return ExpandPattern(pattern, text, m) })
	}
	m, ok := literalMatchAt(text, search, 0)
	if !ok {
		return text
	}
	return text[:m.Start] + ExpandPattern(pattern, text, m) + text[m.End:]
}

// ReplaceLiteralWithFunc is ReplaceLiteral's callback form.
func ReplaceLiteralWithFunc(text, search string, global bool, fn ReplacerFunc) string {
	if global {
		return replaceLiteralFunc(text, search, func(m Match) string {
			return fn(text[m.Start:m.End], nil, m.Start, text)
		})
	}
	m, ok := literalMatchAt(text, search, 0)
	if !ok {
		return text
	}
	return text[:m.Start] + fn(text[m.Start:m.End], nil, m.Start, text) + text[m.End:]
}

func literalMatchAt(text, search string, pos int) (Match, bool) {
	if pos > len(text) {
		return Match{}, false
	}
	idx := strings.Index(text[pos:], search)
	if idx < 0 {
		return Match{}, false
	}
	start := pos + idx
	return Match{Start: start, End: start + len(search)}, true
}

// replaceLiteralFunc mirrors replaceFunc's global-iteration loop for a
// literal (non-regex) search value.
func replaceLiteralFunc(text, search string, render func(Match) string) string {
	var buf strings.Builder
	pos := 0
	last := 0
	for pos <= len(text) {
		m, ok := literalMatchAt(text, search, pos)
		if !ok {
			break
		}
		buf.WriteString(text[last:m.Start])
		buf.WriteString(render(m))
		last = m.End
		if m.End == m.Start {
			pos = m.End + 1
		} else {
			pos = m.End
		}
	}
	buf.WriteString(text[last:])
	return buf.String()
}

// replaceFunc drives the global-match iteration loop: find a match,
// emit the text since the last match plus its replacement, then
// continue searching after the match — advancing by one extra byte
// when the match was zero-length, so the loop always makes progress.
func replaceFunc(text string, re *regexengine.Regexp, render func(Match) string) string {
	var buf strings.Builder
	pos := 0
	last := 0
	for pos <= len(text) {
		m, ok := matchAt(re, text, pos)
		if !ok {
			break
		}
		buf.WriteString(text[last:m.Start])
		buf.WriteString(render(m))
		last = m.End
		if m.End == m.Start {
			pos = m.End + 1
		} else {
			pos = m.End
		}
	}
	buf.WriteString(text[last:])
	return buf.String()
}

// Search returns the byte offset of the first match, or -1. Mirrors
// String.prototype.search; there is no execution context here to carry
// a pending exception from evaluating the pattern, so only the no-match
// case is represented.
func Search(text string, re *regexengine.Regexp) int {
	res := re.Match(text, 0)
	if !res.Matched {
		return -1
	}
	s, _, _ := res.Group(0)
	return s
}
