package quickcheck

import "testing"

func TestLiteralPrefixBuildsExactBitmap(t *testing.T) {
	f := Emit("abc", false)
	if !f.Ok {
		t.Fatal("expected a usable filter for a plain literal pattern")
	}
	if !f.Test('a') {
		t.Fatal("'a' must pass")
	}
	if f.Test('b') {
		t.Fatal("'b' must not pass: only the first alternative's first term matters")
	}
}

func TestDisjunctionUnionsEachBranch(t *testing.T) {
	f := Emit("cat|dog", false)
	if !f.Ok {
		t.Fatal("expected a usable filter")
	}
	if !f.Test('c') || !f.Test('d') {
		t.Fatal("both branches' leading bytes must pass")
	}
	if f.Test('x') {
		t.Fatal("an unrelated byte must not pass")
	}
}

func TestIgnoreCaseAddsBothCases(t *testing.T) {
	f := Emit("a", true)
	if !f.Ok || !f.Test('a') || !f.Test('A') {
		t.Fatal("case-insensitive literal must accept both cases")
	}
}

func TestAnchorDisablesFilter(t *testing.T) {
	f := Emit("^abc", false)
	if f.Ok {
		t.Fatal("a leading anchor must disable the filter")
	}
	if !f.Test('z') {
		t.Fatal("a disabled filter must accept everything")
	}
}

func TestBackreferenceDisablesFilter(t *testing.T) {
	if Emit(`(a)|\1`, false).Ok {
		t.Fatal("a pattern starting with a group is fine, but an alternative literally starting with a backreference must bail")
	}
}

func TestCharacterClassDisablesFilter(t *testing.T) {
	if Emit(`[abc]x`, false).Ok {
		t.Fatal("a leading character class must disable the filter")
	}
}

func TestQuantifiedFirstTermDisablesFilter(t *testing.T) {
	if Emit(`a*b`, false).Ok {
		t.Fatal("a quantified first term must disable the filter")
	}
}

func TestGroupRecursesIntoItsOwnDisjunction(t *testing.T) {
	f := Emit("(cat|dog)s", false)
	if !f.Ok {
		t.Fatal("expected a usable filter: a plain group is not itself a Fail condition")
	}
	if !f.Test('c') || !f.Test('d') {
		t.Fatal("the group's inner alternatives must both contribute")
	}
}

func TestLookaheadDisablesFilter(t *testing.T) {
	if Emit(`(?=abc)x`, false).Ok {
		t.Fatal("a lookahead assertion must disable the filter")
	}
}

func TestEscapedLiteralContributesItsChar(t *testing.T) {
	f := Emit(`\.abc`, false)
	if !f.Ok {
		t.Fatal("an escaped literal dot is a plain character, not Fail-triggering")
	}
	if !f.Test('.') {
		t.Fatal("'.' must pass")
	}
}
