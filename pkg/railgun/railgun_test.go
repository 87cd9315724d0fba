package railgun

import (
	"testing"

	"railgun/pkg/value"
)

func TestGlobalFrameHasNoPrev(t *testing.T) {
	m := NewManager()
	f, err := m.NewGlobalFrame(NewCode("<global>", 2, 4))
	if err != nil {
		t.Fatal(err)
	}
	if f.Prev != nil {
		t.Fatal("global frame must have a nil Prev")
	}
	if m.Current() != f {
		t.Fatal("Current must be the just-gained frame")
	}
}

func TestCallFrameChainsLIFO(t *testing.T) {
	m := NewManager()
	g, err := m.NewGlobalFrame(NewCode("<global>", 1, 2))
	if err != nil {
		t.Fatal(err)
	}
	c1, err := m.NewCodeFrame(NewCode("f", 2, 2), value.UndefinedValue, value.UndefinedValue, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := m.NewCodeFrame(NewCode("g", 1, 1), value.UndefinedValue, value.UndefinedValue, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if c2.Prev != c1 || c1.Prev != g {
		t.Fatal("frame chain must be strict LIFO")
	}
	if m.Current() != c2 {
		t.Fatal("Current must track the innermost frame")
	}

	m.Unwind(c2)
	if m.Current() != c1 {
		t.Fatal("Unwind must restore the caller as Current")
	}
	m.Unwind(c1)
	if m.Current() != g {
		t.Fatal("Unwind must restore the global frame as Current")
	}
}

func TestUnwindReturnsRetValue(t *testing.T) {
	m := NewManager()
	_, err := m.NewGlobalFrame(NewCode("<global>", 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	f, err := m.NewCodeFrame(NewCode("f", 0, 0), value.UndefinedValue, value.UndefinedValue, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	f.Ret = value.Num(7)
	if got := m.Unwind(f); got.AsFloat() != 7 {
		t.Fatalf("want 7, got %v", got)
	}
}

func TestGainOverflowDoesNotMutateState(t *testing.T) {
	m := &Manager{stack: NewStackWithCapacity(4), safeSP: 1}
	g, err := m.NewGlobalFrame(NewCode("<global>", 2, 0))
	if err != nil {
		t.Fatal(err)
	}
	before := m.Current()
	beforeSP := m.Stack().Depth()

	_, err = m.NewCodeFrame(NewCode("too-big", 10, 10), value.UndefinedValue, value.UndefinedValue, 0, false)
	if err == nil {
		t.Fatal("expected stack overflow")
	}
	if m.Current() != before || m.Current() != g {
		t.Fatal("overflow must not change Current")
	}
	if m.Stack().Depth() != beforeSP {
		t.Fatal("overflow must not advance the stack pointer")
	}
}

func TestEvalFrameSharesCallerEnvironment(t *testing.T) {
	m := NewManager()
	g, err := m.NewGlobalFrame(NewCode("<global>", 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	g.LexicalEnv = value.Str("lexical")
	g.VariableEnv = value.Str("variable")

	ef, err := m.NewEvalFrame(NewCode("<eval>", 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if !ef.LexicalEnv.Is(g.LexicalEnv) || !ef.VariableEnv.Is(g.VariableEnv) {
		t.Fatal("eval frame must share the caller's environments")
	}
	if ef.DynamicEnvLevel != g.DynamicEnvLevel+1 {
		t.Fatal("eval frame must deepen the dynamic env level")
	}
}

type fakeCell struct{ id int }

func (f *fakeCell) MarkChildren(value.Marker) {}

type recordingMarker struct{ marked []value.Cell }

func (r *recordingMarker) Mark(c value.Cell) { r.marked = append(r.marked, c) }

func TestMarkChildrenWalksEntireFrameChainWithinSafeBound(t *testing.T) {
	m := NewManager()
	_, err := m.NewGlobalFrame(NewCode("<global>", 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	c1, err := m.NewCodeFrame(NewCode("f", 1, 0), value.UndefinedValue, value.UndefinedValue, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	cell := &fakeCell{id: 1}
	c1.Locals(m.Stack())[0] = value.FromCell(cell)

	marker := &recordingMarker{}
	m.MarkChildren(marker)

	found := false
	for _, c := range marker.marked {
		if c == value.Cell(cell) {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the local slot's cell to be marked")
	}
}

func TestPushAdvancesSafeStackPointer(t *testing.T) {
	m := NewManager()
	_, err := m.NewGlobalFrame(NewCode("<global>", 0, 2))
	if err != nil {
		t.Fatal(err)
	}
	f := m.Current()
	startTop := f.Top()
	if err := m.Push(f, value.Num(1)); err != nil {
		t.Fatal(err)
	}
	if f.Top() != startTop+1 {
		t.Fatal("Push must extend the frame's operand region")
	}
	if m.SafeStackPointer() < f.Top() {
		t.Fatal("safe stack pointer must cover the newly pushed slot")
	}
}
