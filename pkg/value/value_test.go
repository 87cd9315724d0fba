package value

import (
	"math"
	"testing"
)

func floatsEqual(t *testing.T, want, got float64) {
	t.Helper()
	if math.IsNaN(want) {
		if !math.IsNaN(got) {
			t.Errorf("want NaN, got %v", got)
		}
		return
	}
	if want != got {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestEmptyNeverEqualsUndefined(t *testing.T) {
	if EmptyValue.Is(UndefinedValue) {
		t.Fatal("Empty must be distinct from Undefined")
	}
	if UndefinedValue.IsEmpty() {
		t.Fatal("Undefined must not report IsEmpty")
	}
}

func TestIntFloatRoundTrip(t *testing.T) {
	v := Int(42)
	if !v.IsNumber() || v.AsInt() != 42 {
		t.Fatalf("Int round-trip failed: %+v", v)
	}
	f := Num(3.5)
	floatsEqual(t, 3.5, f.AsFloat())
}

func TestStringRoundTrip(t *testing.T) {
	v := Str("hello")
	if !v.IsString() || v.AsString() != "hello" {
		t.Fatalf("String round-trip failed: %+v", v)
	}
}

func TestToFloatCoercion(t *testing.T) {
	cases := []struct {
		v    Value
		want float64
	}{
		{Bool(true), 1},
		{Bool(false), 0},
		{NullValue, 0},
		{Str(""), 0},
		{Str("3.5"), 3.5},
		{Str("nope"), math.NaN()},
		{UndefinedValue, math.NaN()},
	}
	for _, c := range cases {
		floatsEqual(t, c.want, c.v.ToFloat())
	}
}

type fakeCell struct{ marked int }

func (f *fakeCell) MarkChildren(Marker) {}

func TestFromCellAsCell(t *testing.T) {
	c := &fakeCell{}
	v := FromCell(c)
	if !v.IsObject() || !v.IsCellBearing() {
		t.Fatal("expected cell-bearing object value")
	}
	if v.AsCell() != Cell(c) {
		t.Fatal("AsCell did not round-trip the original cell")
	}
}
