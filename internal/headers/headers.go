package headers

import (
	"fmt"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// entry is one (name, value) pair, name kept in its original case.
type entry struct {
	name  string
	value string
}

// Headers is an immutable, ordered sequence of header pairs. Lookup is
// case-insensitive; iteration preserves insertion order including repeats.
type Headers struct {
	entries []entry
}

// Builder accumulates header pairs before producing an immutable Headers.
type Builder struct {
	entries []entry
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends name/value after trimming surrounding whitespace from value
// (per RFC 7230 field-value rules the teacher's line parser mirrors).
func (b *Builder) Add(name, value string) (*Builder, error) {
	return b.add(name, value, false)
}

// AddUnsafeNonAscii is identical to Add but permits non-ASCII bytes in the
// value only; the name is still validated strictly.
func (b *Builder) AddUnsafeNonAscii(name, value string) (*Builder, error) {
	return b.add(name, value, true)
}

func (b *Builder) add(name, value string, allowNonAsciiValue bool) (*Builder, error) {
	value = strings.TrimSpace(value)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateValue(value, allowNonAsciiValue); err != nil {
		return nil, err
	}
	b.entries = append(b.entries, entry{name: name, value: value})
	return b, nil
}

// AddLine splits "name: value" at the first colon, trims both sides, and
// rejects a zero-length name.
func (b *Builder) AddLine(line string) (*Builder, error) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}
	name := strings.TrimSpace(line[:idx])
	value := line[idx+1:]
	if name == "" {
		return nil, ErrEmptyName
	}
	return b.Add(name, value)
}

// Set removes every existing entry with this name (case-insensitive) and
// appends a single fresh one.
func (b *Builder) Set(name, value string) (*Builder, error) {
	b.RemoveAll(name)
	return b.Add(name, value)
}

// RemoveAll drops every entry whose name matches (case-insensitive).
func (b *Builder) RemoveAll(name string) *Builder {
	out := b.entries[:0:0]
	for _, e := range b.entries {
		if !strings.EqualFold(e.name, name) {
			out = append(out, e)
		}
	}
	b.entries = out
	return b
}

// Build produces an immutable Headers snapshot of the current entries.
func (b *Builder) Build() *Headers {
	cp := make([]entry, len(b.entries))
	copy(cp, b.entries)
	return &Headers{entries: cp}
}

// Get returns the last added value for name, or "" with ok=false if absent.
func (h *Headers) Get(name string) (string, bool) {
	for i := len(h.entries) - 1; i >= 0; i-- {
		if strings.EqualFold(h.entries[i].name, name) {
			return h.entries[i].value, true
		}
	}
	return "", false
}

// Values returns every value for name in insertion order.
func (h *Headers) Values(name string) []string {
	var out []string
	for _, e := range h.entries {
		if strings.EqualFold(e.name, name) {
			out = append(out, e.value)
		}
	}
	return out
}

// Names returns the distinct header names in first-seen order.
func (h *Headers) Names() []string {
	seen := make(map[string]bool, len(h.entries))
	var out []string
	for _, e := range h.entries {
		lower := strings.ToLower(e.name)
		if !seen[lower] {
			seen[lower] = true
			out = append(out, e.name)
		}
	}
	return out
}

// Size returns the number of (name, value) pairs, including repeats.
func (h *Headers) Size() int { return len(h.entries) }

// NameAt and ValueAt give index-based access for codecs that must iterate in
// wire order (e.g. the HTTP/1.1 writer).
func (h *Headers) NameAt(i int) string  { return h.entries[i].name }
func (h *Headers) ValueAt(i int) string { return h.entries[i].value }

// ToMultimap groups values by lower-cased name, preserving per-name order.
func (h *Headers) ToMultimap() map[string][]string {
	out := make(map[string][]string)
	for _, e := range h.entries {
		lower := strings.ToLower(e.name)
		out[lower] = append(out[lower], e.value)
	}
	return out
}

// ByteCount returns the literal wire byte length assuming "\r\n" terminators
// after every "name: value" pair.
func (h *Headers) ByteCount() int64 {
	var total int64
	for _, e := range h.entries {
		total += int64(len(e.name)) + 2 + int64(len(e.value)) + 2
	}
	return total
}

// Equal reports order-sensitive equality: same pairs in the same sequence.
func (h *Headers) Equal(other *Headers) bool {
	if other == nil || len(h.entries) != len(other.entries) {
		return false
	}
	for i, e := range h.entries {
		o := other.entries[i]
		if !strings.EqualFold(e.name, o.name) || e.value != o.value {
			return false
		}
	}
	return true
}

// NewBuilderFrom seeds a Builder with an existing Headers' entries, for
// callers that want to mutate a copy (e.g. redirect header scrubbing).
func NewBuilderFrom(h *Headers) *Builder {
	b := &Builder{entries: make([]entry, len(h.entries))}
	copy(b.entries, h.entries)
	return b
}

// validateName delegates to httpguts' RFC 7230 token grammar, the same
// check net/http uses for header field names.
func validateName(name string) error {
	if len(name) == 0 {
		return ErrEmptyName
	}
	if !httpguts.ValidHeaderFieldName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// validateValue, unless allowNonAscii, rejects NUL, CR, LF and any byte
// above 0x7E; other control bytes pass. With allowNonAscii it runs httpguts'
// obs-text-permitting check instead, which rejects control characters other
// than HTAB.
func validateValue(value string, allowNonAscii bool) error {
	if allowNonAscii {
		if !httpguts.ValidHeaderFieldValue(value) {
			return fmt.Errorf("%w: %q", ErrInvalidValue, value)
		}
		return nil
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch c {
		case 0x00, '\r', '\n':
			return fmt.Errorf("%w: %q", ErrInvalidValue, value)
		}
		if c > 0x7E {
			return fmt.Errorf("%w: %q", ErrInvalidValue, value)
		}
	}
	return nil
}
