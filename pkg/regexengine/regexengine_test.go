package regexengine

import "testing"

func TestFastPathSimpleMatch(t *testing.T) {
	re, err := Compile(`a(b+)c`, "")
	if err != nil {
		t.Fatal(err)
	}
	res := re.Match("xxabbbcxx", 0)
	if !res.Matched {
		t.Fatal("expected a match")
	}
	s, e, ok := res.Group(0)
	if !ok || "abbbc" != "abbbc" || s != 2 || e != 7 {
		t.Fatalf("group 0 = [%d,%d)", s, e)
	}
	gs, ge, ok := res.Group(1)
	if !ok || gs != 3 || ge != 6 {
		t.Fatalf("group 1 = [%d,%d)", gs, ge)
	}
}

func TestIgnoreCaseFlag(t *testing.T) {
	re, err := Compile(`abc`, "i")
	if err != nil {
		t.Fatal(err)
	}
	if !re.Match("XXABCYY", 0).Matched {
		t.Fatal("expected case-insensitive match")
	}
}

func TestFallbackToRegexp2ForBackreference(t *testing.T) {
	re, err := Compile(`(\w)\1`, "")
	if err != nil {
		t.Fatal(err)
	}
	if re.fast != nil {
		t.Fatal("expected this pattern to require the regexp2 fallback")
	}
	res := re.Match("xxaabb", 0)
	if !res.Matched {
		t.Fatal("expected a backreference match")
	}
}

func TestNoMatchReturnsZeroValue(t *testing.T) {
	re, err := Compile(`zzz`, "")
	if err != nil {
		t.Fatal(err)
	}
	res := re.Match("abc", 0)
	if res.Matched {
		t.Fatal("expected no match")
	}
	if _, _, ok := res.Group(0); ok {
		t.Fatal("Group(0) must report not-ok on a failed match")
	}
}

func TestStartOffsetSearchesForward(t *testing.T) {
	re, err := Compile(`a`, "")
	if err != nil {
		t.Fatal(err)
	}
	res := re.Match("aaa", 1)
	s, _, ok := res.Group(0)
	if !ok || s != 1 {
		t.Fatalf("expected match at offset 1, got start=%d ok=%v", s, ok)
	}
}
