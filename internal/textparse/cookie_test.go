package textparse

import (
	"testing"
	"time"
)

func TestParseSetCookie_Basic(t *testing.T) {
	c, err := ParseSetCookie("sid=abc123; Path=/app; Secure; HttpOnly", "example.com", "/app/x")
	if err != nil {
		t.Fatalf("ParseSetCookie: %v", err)
	}
	if c.Name != "sid" || c.Value != "abc123" {
		t.Errorf("Name/Value = %q/%q", c.Name, c.Value)
	}
	if c.Path != "/app" || !c.Secure || !c.HttpOnly {
		t.Errorf("attrs = %+v", c)
	}
	if !c.HostOnly || c.Domain != "example.com" {
		t.Errorf("domain/hostonly = %q/%v", c.Domain, c.HostOnly)
	}
}

func TestParseSetCookie_MaxAgeOverridesExpires(t *testing.T) {
	before := time.Now().UnixMilli()
	c, err := ParseSetCookie(`n=v; Expires=Wed, 09 Jun 2021 10:18:14 GMT; Max-Age=3600`, "example.com", "/")
	after := time.Now().UnixMilli()
	if err != nil {
		t.Fatalf("ParseSetCookie: %v", err)
	}
	if c.ExpiresAt < before+3600*1000 || c.ExpiresAt > after+3600*1000 {
		t.Errorf("ExpiresAt = %d, want now + %d", c.ExpiresAt, 3600*1000)
	}
}

func TestParseSetCookie_MaxAgeNonPositiveExpiresImmediately(t *testing.T) {
	c, err := ParseSetCookie("n=v; Max-Age=0", "example.com", "/")
	if err != nil {
		t.Fatalf("ParseSetCookie: %v", err)
	}
	if c.ExpiresAt != 0 {
		t.Errorf("ExpiresAt = %d, want 0", c.ExpiresAt)
	}
}

func TestParseSetCookie_DefaultPath(t *testing.T) {
	c, err := ParseSetCookie("n=v", "example.com", "/a/b/c")
	if err != nil {
		t.Fatalf("ParseSetCookie: %v", err)
	}
	if c.Path != "/a/b" {
		t.Errorf("Path = %q, want /a/b", c.Path)
	}
}

func TestParseSetCookie_DomainLeadingDotStripped(t *testing.T) {
	c, err := ParseSetCookie("n=v; Domain=.example.com", "www.example.com", "/")
	if err != nil {
		t.Fatalf("ParseSetCookie: %v", err)
	}
	if c.Domain != "example.com" {
		t.Errorf("Domain = %q, want example.com", c.Domain)
	}
}

func TestParseSetCookie_DomainTrailingDotIgnored(t *testing.T) {
	c, err := ParseSetCookie("n=v; Domain=example.com.", "example.com", "/")
	if err != nil {
		t.Fatalf("ParseSetCookie: %v", err)
	}
	if !c.HostOnly || c.Domain != "example.com" {
		t.Errorf("expected trailing-dot domain ignored, got %+v", c)
	}
}

func TestParseSetCookie_RejectsControlCharsInValue(t *testing.T) {
	if _, err := ParseSetCookie("n=v\x01alue", "example.com", "/"); err == nil {
		t.Fatal("expected error for control char in value")
	}
}

func TestParseSetCookie_RejectsPublicSuffixDomain(t *testing.T) {
	if _, err := ParseSetCookie("n=v; Domain=.co.uk", "foo.co.uk", "/"); err != ErrInvalidCookie {
		t.Fatalf("err = %v, want ErrInvalidCookie (co.uk is a public suffix)", err)
	}
}

func TestParseSetCookie_AcceptsRegistrableDomain(t *testing.T) {
	c, err := ParseSetCookie("n=v; Domain=example.co.uk", "www.example.co.uk", "/")
	if err != nil {
		t.Fatalf("ParseSetCookie: %v", err)
	}
	if c.Domain != "example.co.uk" {
		t.Errorf("Domain = %q, want example.co.uk", c.Domain)
	}
}
