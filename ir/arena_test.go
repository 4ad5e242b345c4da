package ir

import (
	"errors"
	"testing"
)

func TestArena_AppendAndLimit(t *testing.T) {
	a := NewArena[int]("things", 2)

	for i := range 2 {
		idx, err := a.Append(i * 10)
		if err != nil {
			t.Fatalf("Append(%d): %v", i, err)
		}
		if idx != uint32(i) {
			t.Errorf("index = %d, want %d", idx, i)
		}
	}

	_, err := a.Append(99)
	var limitErr *LimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("Expected *LimitError, got %v", err)
	}
	if got := err.Error(); got != "exceeded maximum number of things (2)" {
		t.Errorf("message = %q", got)
	}
}

func TestArena_PointersStayValid(t *testing.T) {
	a := NewArena[Global]("globals", 8)
	idx, _ := a.Append(Global{Name: "first"})
	first := a.At(idx)
	for range 7 {
		if _, err := a.Append(Global{}); err != nil {
			t.Fatal(err)
		}
	}
	first.Name = "renamed"
	if a.At(idx).Name != "renamed" {
		t.Error("pointer from At no longer aliases arena storage")
	}
}

func TestArena_Truncate(t *testing.T) {
	a := NewArena[string]("names", 4)
	for _, s := range []string{"a", "b", "c"} {
		_, _ = a.Append(s)
	}
	a.Truncate(1)
	if a.Len() != 1 || *a.At(0) != "a" {
		t.Errorf("after Truncate(1): len %d", a.Len())
	}
	if _, err := a.Append("d"); err != nil {
		t.Errorf("Append after truncate: %v", err)
	}
}

func TestArena_LargeLimitAllocatesLazily(t *testing.T) {
	a := NewArena[Expression]("expressions", 1_000_000_000)
	if got := cap(a.items); got > initialArenaCap {
		t.Errorf("initial capacity = %d, want at most %d", got, initialArenaCap)
	}
	for i := range 3 * initialArenaCap {
		if _, err := a.Append(Expression{}); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}
	if a.Len() != 3*initialArenaCap {
		t.Errorf("Len = %d", a.Len())
	}
}

func TestWordBudget(t *testing.T) {
	b := WordBudget{limit: 10}
	if err := b.Reserve(6); err != nil {
		t.Fatal(err)
	}
	if err := b.Reserve(4); err != nil {
		t.Fatal(err)
	}
	if err := b.Reserve(1); err == nil {
		t.Error("Expected budget overflow")
	}
	if b.Used() != 10 {
		t.Errorf("Used() = %d, want 10", b.Used())
	}
}

func TestLimits_WithDefaults(t *testing.T) {
	got := Limits{Types: 5, Words: -1}.WithDefaults()
	want := DefaultLimits()
	want.Types = 5
	if got != want {
		t.Errorf("WithDefaults() = %+v, want %+v", got, want)
	}
}

func TestModule_FloatConstantDeduplication(t *testing.T) {
	m, err := NewModule(Limits{})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := m.FloatConstant(1.5)
	b, _ := m.FloatConstant(1.5)
	c, _ := m.FloatConstant(2)
	if a != b {
		t.Errorf("equal literals got different constants: %d, %d", a, b)
	}
	if a == c {
		t.Error("different literals share a constant")
	}
	if got := m.Constants.At(uint32(a)).ID; got != 4 {
		t.Errorf("first constant id = %d, want 4", got)
	}
}

func TestModule_RegisterInterface(t *testing.T) {
	m, err := NewModule(Limits{Interfaces: 1})
	if err != nil {
		t.Fatal(err)
	}
	in := &Global{Name: "a", Direction: DirectionIn}
	in.Local = &Local{Name: "a", Global: in}
	out := &Global{Name: "b", Direction: DirectionOut}
	out.Local = &Local{Name: "b", Global: out}
	private := &Global{Name: "c", Direction: DirectionPrivate}
	private.Local = &Local{Name: "c", Global: private}

	proc := &Procedure{}
	if err := m.RegisterInterface(proc, in.Local); err != nil {
		t.Fatal(err)
	}
	if err := m.RegisterInterface(proc, in.Local); err != nil {
		t.Fatalf("duplicate registration: %v", err)
	}
	if err := m.RegisterInterface(proc, private.Local); err != nil {
		t.Fatalf("private global: %v", err)
	}
	if err := m.RegisterInterface(proc, &Local{Name: "tmp"}); err != nil {
		t.Fatalf("plain local: %v", err)
	}
	if len(proc.Interface) != 1 {
		t.Errorf("interface = %d entries, want 1", len(proc.Interface))
	}
	if err := m.RegisterInterface(proc, out.Local); err == nil {
		t.Error("Expected interface limit error")
	}
}
