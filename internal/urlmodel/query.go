package urlmodel

import "strings"

// QueryPair is one name/value entry from a query string. HasValue is
// false for a bare name with no '=' (a "null value" per §3).
type QueryPair struct {
	Name         string
	EncodedName  string
	Value        string
	EncodedValue string
	HasValue     bool
}

// parseQuery splits raw first on '&' then on the first '=' of each piece,
// storing both encoded and decoded forms; '+' decodes to space.
func parseQuery(raw string) []QueryPair {
	if raw == "" {
		return nil
	}
	pieces := strings.Split(raw, "&")
	pairs := make([]QueryPair, 0, len(pieces))
	for _, piece := range pieces {
		if piece == "" {
			pairs = append(pairs, QueryPair{Name: "", EncodedName: ""})
			continue
		}
		eq := strings.IndexByte(piece, '=')
		if eq < 0 {
			pairs = append(pairs, QueryPair{
				Name:        percentDecode(piece, true),
				EncodedName: percentEncode(piece, queryComponentEncodeSet, true),
			})
			continue
		}
		rawName := piece[:eq]
		rawValue := piece[eq+1:]
		pairs = append(pairs, QueryPair{
			Name:         percentDecode(rawName, true),
			EncodedName:  percentEncode(rawName, queryComponentEncodeSet, true),
			Value:        percentDecode(rawValue, true),
			EncodedValue: percentEncode(rawValue, queryComponentEncodeSet, true),
			HasValue:     true,
		})
	}
	return pairs
}

// encodeQuery re-serialises pairs using their encoded forms, the inverse of
// parseQuery.
func encodeQuery(pairs []QueryPair) string {
	if len(pairs) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.EncodedName)
		if p.HasValue {
			b.WriteByte('=')
			b.WriteString(p.EncodedValue)
		}
	}
	return b.String()
}
