package textparse

import (
	"errors"
	"strings"
)

// ErrInvalidMediaType is returned by ParseMediaType/Get on a grammar violation.
var ErrInvalidMediaType = errors.New("textparse: invalid media type")

// MediaTypeParam is one "name=value" parameter, value already unquoted.
type MediaTypeParam struct {
	Name  string
	Value string
}

// MediaType is the RFC 7231 `type "/" subtype (";" parameter)*` value.
type MediaType struct {
	Type       string
	Subtype    string
	Parameters []MediaTypeParam
}

// CharsetMode controls how a repeated "charset" parameter is handled, per
// the ambiguous-source note in §9: the Kotlin original accepts duplicate
// charset parameters with last-wins semantics in some call sites and rejects
// them in others.
type CharsetMode int

const (
	// CharsetLastWins keeps the final charset parameter seen (the default).
	CharsetLastWins CharsetMode = iota
	// CharsetRejectDuplicate fails parsing outright on a repeated charset.
	CharsetRejectDuplicate
)

// ParseMediaType returns nil on a grammar violation (mirrors HttpUrl.Parse).
func ParseMediaType(s string, mode CharsetMode) *MediaType {
	mt, err := GetMediaType(s, mode)
	if err != nil {
		return nil
	}
	return mt
}

// GetMediaType parses s, returning ErrInvalidMediaType on violation.
func GetMediaType(s string, mode CharsetMode) (*MediaType, error) {
	slash := strings.IndexByte(s, '/')
	if slash < 0 {
		return nil, ErrInvalidMediaType
	}
	typ := s[:slash]
	if !isToken(typ) {
		return nil, ErrInvalidMediaType
	}

	rest := s[slash+1:]
	semi := strings.IndexByte(rest, ';')
	var subtype, paramStr string
	if semi < 0 {
		subtype = rest
	} else {
		subtype = rest[:semi]
		paramStr = rest[semi+1:]
	}
	subtype = strings.TrimSpace(subtype)
	if !isToken(subtype) {
		return nil, ErrInvalidMediaType
	}

	mt := &MediaType{Type: strings.ToLower(typ), Subtype: strings.ToLower(subtype)}

	seenCharset := false
	for _, raw := range splitParams(paramStr) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		eq := strings.IndexByte(raw, '=')
		if eq < 0 {
			return nil, ErrInvalidMediaType
		}
		name := strings.TrimSpace(raw[:eq])
		valueRaw := strings.TrimSpace(raw[eq+1:])
		if !isToken(name) {
			return nil, ErrInvalidMediaType
		}
		value, ok := unquoteOrToken(valueRaw)
		if !ok {
			return nil, ErrInvalidMediaType
		}
		if strings.EqualFold(name, "charset") {
			if seenCharset {
				if mode == CharsetRejectDuplicate {
					return nil, ErrInvalidMediaType
				}
				// last-wins: overwrite the earlier charset parameter in place.
				for i := range mt.Parameters {
					if strings.EqualFold(mt.Parameters[i].Name, "charset") {
						mt.Parameters[i].Value = value
					}
				}
				continue
			}
			seenCharset = true
		}
		mt.Parameters = append(mt.Parameters, MediaTypeParam{Name: name, Value: value})
	}

	return mt, nil
}

// Charset scans parameters for "charset"; an unknown/unrecognised value
// returns ("", false) rather than an error, per §4.C.
func (mt *MediaType) Charset(defaultCharset string) (string, bool) {
	for _, p := range mt.Parameters {
		if strings.EqualFold(p.Name, "charset") {
			if isKnownCharset(p.Value) {
				return strings.ToLower(p.Value), true
			}
			return "", false
		}
	}
	if defaultCharset != "" {
		return defaultCharset, true
	}
	return "", false
}

func isKnownCharset(name string) bool {
	switch strings.ToLower(name) {
	case "utf-8", "utf-16", "utf-16be", "utf-16le", "us-ascii", "iso-8859-1", "windows-1252":
		return true
	}
	return false
}

func splitParams(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			depth ^= 1
		case ';':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}

func unquoteOrToken(s string) (string, bool) {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		inner := s[1 : len(s)-1]
		var b strings.Builder
		for i := 0; i < len(inner); i++ {
			if inner[i] == '\\' && i+1 < len(inner) {
				b.WriteByte(inner[i+1])
				i++
				continue
			}
			b.WriteByte(inner[i])
		}
		return b.String(), true
	}
	if isToken(s) {
		return s, true
	}
	return "", false
}

func isToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isTokenChar(s[i]) {
			return false
		}
	}
	return true
}
