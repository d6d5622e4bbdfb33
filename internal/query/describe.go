package query

import (
	"strings"
	"time"

	"github.com/sbilibin2017/dtc-admin/internal/models"
)

// Describe renders a filter the way the column header shows it next to
// the title, e.g. "Contains: shop" or "2024-01-01 to 2024-02-01".
func Describe(f Filter) string {
	if len(f.Values) == 0 {
		return ""
	}

	switch f.Operator {
	case OpContains:
		return "Contains: " + f.Values[0]
	case OpBetween:
		if len(f.Values) != 2 {
			return ""
		}
		if col, ok := Lookup(f.Field); ok && col.Kind == KindDate {
			return shortDate(f.Values[0]) + " to " + shortDate(f.Values[1])
		}
		return f.Values[0] + " to " + f.Values[1]
	case OpIn:
		labels := make([]string, 0, len(f.Values))
		for _, v := range f.Values {
			labels = append(labels, models.ProfileStatus(v).Label())
		}
		return strings.Join(labels, ", ")
	case OpEq:
		return "= " + f.Values[0]
	case OpGt:
		return "> " + f.Values[0]
	case OpLt:
		return "< " + f.Values[0]
	default:
		return strings.Join(f.Values, ", ")
	}
}

func shortDate(raw string) string {
	if t, err := parseTime(raw, false); err == nil {
		return t.Format(time.DateOnly)
	}
	return raw
}
