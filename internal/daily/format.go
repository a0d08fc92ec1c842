package daily

import (
	"fmt"
	"strings"
	"time"
)

// momentTokens maps moment.js style tokens to Go layouts, longest first so
// "YYYY" wins over "YY".
var momentTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"dddd", "Monday"},
	{"DDDD", "002"},
	{"MMM", "Jan"},
	{"ddd", "Mon"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"Do", ""},
	{"HH", "15"},
	{"hh", "03"},
	{"mm", "04"},
	{"ss", "05"},
	{"ww", ""},
	{"M", "1"},
	{"D", "2"},
	{"H", ""},
	{"A", "PM"},
	{"a", "pm"},
}

// Format renders t using a moment.js style format string such as
// "YYYY-MM-DD" or "[Week] ww, dddd". Text inside square brackets is copied
// verbatim and unknown characters pass through untouched.
func Format(t time.Time, format string) string {
	var sb strings.Builder

	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end >= 0 {
				sb.WriteString(format[i+1 : i+1+end])
				i += end + 2
				continue
			}
		}

		matched := false
		for _, tok := range momentTokens {
			if !strings.HasPrefix(format[i:], tok.token) {
				continue
			}
			sb.WriteString(formatToken(t, tok.token, tok.layout))
			i += len(tok.token)
			matched = true
			break
		}
		if matched {
			continue
		}

		sb.WriteByte(format[i])
		i++
	}

	return sb.String()
}

func formatToken(t time.Time, token, layout string) string {
	switch token {
	case "Do":
		return ordinal(t.Day())
	case "ww":
		_, week := t.ISOWeek()
		return fmt.Sprintf("%02d", week)
	case "H":
		return fmt.Sprintf("%d", t.Hour())
	}
	return t.Format(layout)
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
