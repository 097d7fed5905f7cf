// Package normalize contains pure helpers that coerce loosely typed
// spreadsheet and form input into canonical amounts, dates and statuses.
package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pcctrack/pcc-tracker/internal/model"
)

// dateLayouts covers ISO plus the renderings spreadsheet libraries produce
// for date-styled cells.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/06",
	"01/02/2006",
	"02-01-2006",
	"2-Jan-06",
	"02 Jan 2006",
}

// deliveredTokens mark a status cell as delivered. The Bengali token matches
// the locale of hand-maintained source ledgers.
var deliveredTokens = []string{"DELIVERED", "সম্পন্ন", "DONE"}

// Money coerces an arbitrary value into a numeric amount. Numbers pass
// through unchanged; text is stripped of everything that is not a digit or a
// decimal point before parsing, which tolerates currency symbols and
// thousands separators. Empty or unparsable input yields 0.
func Money(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		return moneyFromString(n)
	default:
		return moneyFromString(fmt.Sprint(v))
	}
}

func moneyFromString(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' || r == '.' {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return f
}

// Date renders a cell value as an ISO YYYY-MM-DD date. Native date values and
// recognizable textual dates are converted; any other non-empty text is used
// verbatim after trimming; absent values default to now.
func Date(v any, now time.Time) string {
	switch d := v.(type) {
	case nil:
		return ISODate(now)
	case time.Time:
		return ISODate(d)
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return ISODate(now)
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return ISODate(t)
			}
		}
		return s
	default:
		return Date(fmt.Sprint(v), now)
	}
}

// Status maps free status text onto the closed delivery enumeration. Text
// containing any delivered token, in any casing, means delivered; everything
// else is pending.
func Status(s string) model.DeliveryStatus {
	up := strings.ToUpper(strings.TrimSpace(s))
	for _, tok := range deliveredTokens {
		if strings.Contains(up, tok) {
			return model.StatusDelivered
		}
	}
	return model.StatusPending
}

// Text renders an arbitrary cell value as a trimmed string. Nil becomes the
// empty string.
func Text(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// ISODate formats a time as YYYY-MM-DD.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}
