package textparse

import "testing"

func TestParseMediaType_Basic(t *testing.T) {
	mt := ParseMediaType(`text/plain; charset=utf-8`, CharsetLastWins)
	if mt == nil {
		t.Fatal("ParseMediaType returned nil")
	}
	if mt.Type != "text" || mt.Subtype != "plain" {
		t.Errorf("Type/Subtype = %q/%q", mt.Type, mt.Subtype)
	}
	cs, ok := mt.Charset("")
	if !ok || cs != "utf-8" {
		t.Errorf("Charset = %q, %v", cs, ok)
	}
}

func TestParseMediaType_QuotedParameter(t *testing.T) {
	mt := ParseMediaType(`application/json; boundary="a b\"c"`, CharsetLastWins)
	if mt == nil {
		t.Fatal("nil")
	}
	if mt.Parameters[0].Value != `a b"c` {
		t.Errorf("Parameters[0].Value = %q", mt.Parameters[0].Value)
	}
}

func TestParseMediaType_DuplicateCharsetLastWins(t *testing.T) {
	mt := ParseMediaType(`text/plain; charset=us-ascii; charset=utf-8`, CharsetLastWins)
	if mt == nil {
		t.Fatal("nil")
	}
	cs, _ := mt.Charset("")
	if cs != "utf-8" {
		t.Errorf("Charset = %q, want utf-8", cs)
	}
}

func TestParseMediaType_DuplicateCharsetRejected(t *testing.T) {
	mt := ParseMediaType(`text/plain; charset=us-ascii; charset=utf-8`, CharsetRejectDuplicate)
	if mt != nil {
		t.Fatalf("expected nil, got %+v", mt)
	}
}

func TestParseMediaType_UnknownCharsetReturnsFalse(t *testing.T) {
	mt := ParseMediaType(`text/plain; charset=bogus-charset`, CharsetLastWins)
	if mt == nil {
		t.Fatal("nil")
	}
	if _, ok := mt.Charset(""); ok {
		t.Error("expected ok=false for unknown charset")
	}
}

func TestParseMediaType_Invalid(t *testing.T) {
	if mt := ParseMediaType("not-a-media-type", CharsetLastWins); mt != nil {
		t.Errorf("expected nil, got %+v", mt)
	}
}
