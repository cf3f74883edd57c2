package headers

import "testing"

func TestBuilder_AddAndGet(t *testing.T) {
	b := NewBuilder()
	if _, err := b.Add("Content-Type", "text/plain"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := b.Add("X-Trace", "one"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := b.Add("X-Trace", "two"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	h := b.Build()

	if got, ok := h.Get("x-trace"); !ok || got != "two" {
		t.Fatalf("Get(x-trace) = %q, %v; want \"two\", true", got, ok)
	}
	if got := h.Values("X-Trace"); len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Fatalf("Values = %v", got)
	}
}

func TestBuilder_AddLine(t *testing.T) {
	b := NewBuilder()
	if _, err := b.AddLine("Accept:  application/json  "); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	h := b.Build()
	if got, _ := h.Get("Accept"); got != "application/json" {
		t.Fatalf("Get(Accept) = %q", got)
	}

	if _, err := NewBuilder().AddLine("no-colon-here"); err == nil {
		t.Fatal("expected error for line without colon")
	}
	if _, err := NewBuilder().AddLine(": value"); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestBuilder_Set(t *testing.T) {
	b := NewBuilder()
	b.Add("Name", "a")
	b.Add("Name", "b")
	b.Set("Name", "c")
	h := b.Build()
	if got := h.Values("Name"); len(got) != 1 || got[0] != "c" {
		t.Fatalf("Values = %v, want [c]", got)
	}
}

func TestBuilder_RemoveAll(t *testing.T) {
	b := NewBuilder()
	b.Add("A", "1")
	b.Add("B", "2")
	b.RemoveAll("a")
	h := b.Build()
	if _, ok := h.Get("A"); ok {
		t.Fatal("expected A removed")
	}
	if got, _ := h.Get("B"); got != "2" {
		t.Fatalf("Get(B) = %q", got)
	}
}

func TestBuilder_InvalidName(t *testing.T) {
	cases := []string{"", "Na:me", "Na\x01me"}
	for _, name := range cases {
		if _, err := NewBuilder().Add(name, "v"); err == nil {
			t.Errorf("Add(%q, ...) expected error", name)
		}
	}
}

func TestBuilder_InvalidValue(t *testing.T) {
	if _, err := NewBuilder().Add("X", "has\r\nCRLF"); err == nil {
		t.Fatal("expected error for CRLF in value")
	}
	if _, err := NewBuilder().Add("X", "has\x00nul"); err == nil {
		t.Fatal("expected error for NUL in value")
	}
	if _, err := NewBuilder().AddUnsafeNonAscii("X", "caf\xe9"); err != nil {
		t.Fatalf("AddUnsafeNonAscii should allow non-ASCII bytes: %v", err)
	}
}

func TestHeaders_ToMultimapMatchesValues(t *testing.T) {
	b := NewBuilder()
	b.Add("X-A", "1")
	b.Add("x-a", "2")
	b.Add("X-B", "3")
	h := b.Build()

	mm := h.ToMultimap()
	vals := h.Values("X-A")
	if len(mm["x-a"]) != len(vals) {
		t.Fatalf("multimap size %d != Values size %d", len(mm["x-a"]), len(vals))
	}
	for i := range vals {
		if mm["x-a"][i] != vals[i] {
			t.Fatalf("order mismatch at %d: %q != %q", i, mm["x-a"][i], vals[i])
		}
	}
}

func TestHeaders_ByteCount(t *testing.T) {
	b := NewBuilder()
	b.Add("A", "bc") // "A: bc\r\n" wire bytes: len(A)+2+len(bc)+2 = 1+2+2+2=7
	h := b.Build()
	if h.ByteCount() != 7 {
		t.Fatalf("ByteCount = %d, want 7", h.ByteCount())
	}
}

func TestHeaders_EqualIsOrderSensitive(t *testing.T) {
	a := NewBuilder()
	a.Add("X", "1")
	a.Add("Y", "2")
	h1 := a.Build()

	b := NewBuilder()
	b.Add("Y", "2")
	b.Add("X", "1")
	h2 := b.Build()

	if h1.Equal(h2) {
		t.Fatal("expected order-sensitive inequality")
	}
	if !h1.Equal(h1) {
		t.Fatal("expected self-equality")
	}
}
