// Package textparse implements the tolerant RFC 7235 / 6265 / 7231 parsers
// shared by the header and message model: authentication challenges,
// cookies, media types, and HTTP dates.
package textparse

import "strings"

// Challenge is one "scheme [params]" entry from a WWW-Authenticate or
// Proxy-Authenticate header. AuthParams preserves insertion order; a nil key
// entry represents the token68 form.
type Challenge struct {
	Scheme     string
	AuthParams []AuthParam
}

// AuthParam is one challenge parameter. Key is nil for the token68 form.
type AuthParam struct {
	Key   *string
	Value string
}

// Realm returns the "realm" parameter if present, case-insensitively.
func (c Challenge) Realm() (string, bool) {
	for _, p := range c.AuthParams {
		if p.Key != nil && strings.EqualFold(*p.Key, "realm") {
			return p.Value, true
		}
	}
	return "", false
}

// ParseChallenges parses one or more comma-tolerant "scheme ..." productions
// out of values (the concatenation of every WWW-Authenticate/
// Proxy-Authenticate header instance on the message, in header order). A
// challenge whose parameters repeat a key makes the whole header invalid:
// the result is then empty, even when other challenges were well formed.
func ParseChallenges(values []string) []Challenge {
	joined := strings.Join(values, ", ")
	p := &challengeParser{s: joined}
	challenges, ok := p.parseAll()
	if !ok {
		return nil
	}
	return challenges
}

type challengeParser struct {
	s   string
	pos int
}

func (p *challengeParser) parseAll() ([]Challenge, bool) {
	var out []Challenge
	for {
		p.skipWhitespaceAndCommas()
		if p.pos >= len(p.s) {
			break
		}
		scheme := p.readToken()
		if scheme == "" {
			return nil, false
		}
		c := Challenge{Scheme: scheme}

		p.skipSpaces()
		if p.pos < len(p.s) && looksLikeToken68(p.s[p.pos:]) {
			value := p.readToken68()
			c.AuthParams = append(c.AuthParams, AuthParam{Key: nil, Value: value})
			out = append(out, c)
			continue
		}

		seen := map[string]bool{}
		for {
			mark := p.pos
			p.skipWhitespaceAndCommas()
			if p.pos >= len(p.s) {
				break
			}
			key := p.readToken()
			if key == "" {
				p.pos = mark
				break
			}
			p.skipSpaces()
			if p.pos >= len(p.s) || p.s[p.pos] != '=' {
				// Bare token not followed by '=' means a new scheme starts here.
				p.pos = mark
				break
			}
			p.pos++ // consume '='
			p.skipSpaces()
			value, ok := p.readParamValue()
			if !ok {
				return nil, false
			}
			lowerKey := strings.ToLower(key)
			if seen[lowerKey] {
				return nil, false
			}
			seen[lowerKey] = true
			k := key
			c.AuthParams = append(c.AuthParams, AuthParam{Key: &k, Value: value})
		}
		out = append(out, c)
	}
	return out, true
}

func (p *challengeParser) skipSpaces() {
	for p.pos < len(p.s) && (p.s[p.pos] == ' ' || p.s[p.pos] == '\t') {
		p.pos++
	}
}

func (p *challengeParser) skipWhitespaceAndCommas() {
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if c == ' ' || c == '\t' || c == ',' {
			p.pos++
			continue
		}
		break
	}
}

func isTokenChar(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '@', ',', ';', ':', '\\', '"', '/', '[', ']', '?', '=', '{', '}', ' ', '\t':
		return false
	}
	return c > 0x20 && c < 0x7F
}

func (p *challengeParser) readToken() string {
	start := p.pos
	for p.pos < len(p.s) && isTokenChar(p.s[p.pos]) {
		p.pos++
	}
	return p.s[start:p.pos]
}

// looksLikeToken68 reports whether the parser is sitting on a token68 form
// (a bare value, possibly "==" padded) rather than a "key=" parameter.
func looksLikeToken68(rest string) bool {
	i := 0
	for i < len(rest) && isToken68Char(rest[i]) && rest[i] != '=' {
		i++
	}
	if i == 0 {
		return false
	}
	for i < len(rest) && rest[i] == '=' {
		i++
	}
	trimmed := strings.TrimLeft(rest[i:], " \t")
	return trimmed == "" || strings.HasPrefix(trimmed, ",")
}

func isToken68Char(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '-', '.', '_', '~', '+', '/', '=':
		return true
	}
	return false
}

func (p *challengeParser) readToken68() string {
	start := p.pos
	for p.pos < len(p.s) && isToken68Char(p.s[p.pos]) {
		p.pos++
	}
	return p.s[start:p.pos]
}

// readParamValue reads either a token or a quoted string honouring '\'
// escapes; an odd run of trailing backslashes means the string is still
// open and the parse fails.
func (p *challengeParser) readParamValue() (string, bool) {
	if p.pos >= len(p.s) {
		return "", false
	}
	if p.s[p.pos] != '"' {
		return p.readToken(), true
	}
	p.pos++ // consume opening quote
	var b strings.Builder
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if c == '\\' && p.pos+1 < len(p.s) {
			b.WriteByte(p.s[p.pos+1])
			p.pos += 2
			continue
		}
		if c == '"' {
			p.pos++
			return b.String(), true
		}
		b.WriteByte(c)
		p.pos++
	}
	return "", false // unterminated quoted string
}
