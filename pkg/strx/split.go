package strx

import (
	"strings"

	"railgun/pkg/regexengine"
)

// MaxUint32Limit is the default split limit, 2^32 - 1, matching
// ToUint32(undefined-limit) in ECMAScript's String.prototype.split.
const MaxUint32Limit = 1<<32 - 1

// SplitByString implements the string-separator path of
// detail::StringSplit: find each literal occurrence of sep in text,
// pushing the text between occurrences, stopping once limit results
// have been collected. An empty separator splits into individual
// characters (bytes, at this layer — UTF-16 code unit splitting is a
// string-representation concern above this package).
func SplitByString(text, sep string, limit uint32) []string {
	if limit == 0 {
		return nil
	}
	var out []string
	if sep == "" {
		for i := 0; i < len(text) && uint32(len(out)) < limit; i++ {
			out = append(out, text[i:i+1])
		}
		return out
	}
	start := 0
	for {
		idx := strings.Index(text[start:], sep)
		if idx < 0 {
			break
		}
		out = append(out, text[start:start+idx])
		if uint32(len(out)) >= limit {
			return out[:limit]
		}
		start += idx + len(sep)
	}
	out = append(out, text[start:])
	if uint32(len(out)) > limit {
		out = out[:limit]
	}
	return out
}

// SplitByRegex implements the regex-separator path of
// detail::StringSplit: repeatedly match the separator, pushing the
// unmatched text before each match followed by that match's capture
// groups (undefined captures become "" with IsText==false, matching a
// function replacer's undefined-argument convention), and applying the
// zero-length-match advancement rule — a match that is both zero-length
// and sitting exactly at the last split point doesn't split at all,
// it just nudges the search position forward by one so the loop
// terminates instead of looping forever on an empty separator match.
func SplitByRegex(text string, re *regexengine.Regexp, limit uint32) []SplitPart {
	if limit == 0 {
		return nil
	}
	if text == "" {
		if m, ok := matchAt(re, text, 0); ok && m.Start == 0 && m.End == 0 {
			return nil
		}
		return []SplitPart{{Text: text, IsText: true}}
	}

	var out []SplitPart
	push := func(p SplitPart) bool {
		out = append(out, p)
		return uint32(len(out)) >= limit
	}

	p, q := 0, 0
	for q < len(text) {
		m, ok := matchAt(re, text, q)
		if !ok {
			break
		}
		if m.Start == m.End && m.Start == p {
			q = m.Start + 1
			continue
		}
		if push(SplitPart{Text: text[p:m.Start], IsText: true}) {
			return out
		}
		for _, c := range m.Groups {
			if push(SplitPart{Text: c.Value, IsText: c.Ok}) {
				return out
			}
		}
		p = m.End
		q = p
	}
	if push(SplitPart{Text: text[p:], IsText: true}) {
		return out
	}
	return out
}

// SplitPart is one element of a regex split result: either a literal
// text segment (IsText true) or a capture group that didn't participate
// in its match (IsText false, Text empty — "undefined" in ECMAScript
// array-element terms).
type SplitPart struct {
	Text   string
	IsText bool
}

// Strings discards the undefined/text distinction, returning plain
// strings with non-participating captures rendered as "" — useful for
// callers that don't need to distinguish undefined array holes from
// empty-string captures.
func Strings(parts []SplitPart) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = p.Text
	}
	return out
}
