package textparse

import (
	"strconv"
	"strings"
	"time"
)

// MaxDate is 253402300799999ms, i.e. 9999-12-31T23:59:59.999Z — the ceiling
// §3 clamps Cookie.ExpiresAt to.
const MaxDate int64 = 253402300799999

var dateLayouts = []string{
	time.RFC1123,                   // "Mon, 02 Jan 2006 15:04:05 MST"
	"Mon, 02-Jan-2006 15:04:05 MST", // RFC 1036-ish with dashed date
	time.RFC1123Z,
	"Mon Jan _2 15:04:05 2006", // ANSI C asctime
	"Mon Jan 2 15:04:05 2006",
	"2 Jan 2006 15:04:05 MST",
	"Monday, 02-Jan-06 15:04:05 MST",
}

// ParseHTTPDate parses s in RFC 1123 / RFC 1036 / ANSI C asctime priority
// order, then falls back to a lax token scan. A year outside [1601, 9999] or
// any unparsable value yields MaxDate, per §4.C.
func ParseHTTPDate(s string) int64 {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return clampOrMillis(t)
		}
	}
	if t, ok := laxParse(s); ok {
		return clampOrMillis(t)
	}
	return MaxDate
}

func clampOrMillis(t time.Time) int64 {
	if t.Year() < 1601 || t.Year() > 9999 {
		return MaxDate
	}
	ms := t.UnixMilli()
	if ms > MaxDate {
		return MaxDate
	}
	if ms < 0 {
		return 0
	}
	return ms
}

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// laxParse accepts day/month/year/time tokens in any order, the fallback
// tokenizer §4.C describes for Expires values that don't match a canonical
// layout.
func laxParse(s string) (time.Time, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ' ', ',', '-', '/':
			return true
		}
		return false
	})

	var day, year, hour, min, sec int
	var month time.Month
	haveDay, haveMonth, haveYear, haveTime := false, false, false, false

	for _, f := range fields {
		lower := strings.ToLower(f)
		if m, ok := months[lower[:min3(len(lower), 3)]]; ok && len(lower) >= 3 {
			month, haveMonth = m, true
			continue
		}
		if strings.Contains(f, ":") {
			parts := strings.Split(f, ":")
			if len(parts) >= 2 {
				h, e1 := strconv.Atoi(parts[0])
				mi, e2 := strconv.Atoi(parts[1])
				se := 0
				var e3 error
				if len(parts) >= 3 {
					se, e3 = strconv.Atoi(parts[2])
				}
				if e1 == nil && e2 == nil && e3 == nil && h < 24 && mi < 60 && se < 60 {
					hour, min, sec, haveTime = h, mi, se, true
					continue
				}
			}
			return time.Time{}, false
		}
		if n, err := strconv.Atoi(f); err == nil {
			switch {
			case n >= 1601 && !haveYear:
				year, haveYear = n, true
			case n >= 1 && n <= 31 && !haveDay:
				day, haveDay = n, true
			case !haveYear:
				year, haveYear = normalizeTwoDigitYear(n), true
			}
		}
	}

	if !haveDay || !haveMonth || !haveYear {
		return time.Time{}, false
	}
	return time.Date(year, month, day, hour, min, sec, 0, time.UTC), true
}

func normalizeTwoDigitYear(n int) int {
	if n < 70 {
		return 2000 + n
	}
	if n < 100 {
		return 1900 + n
	}
	return n
}

func min3(a, b int) int {
	if a < b {
		return a
	}
	return b
}
