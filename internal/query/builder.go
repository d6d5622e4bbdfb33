package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/sbilibin2017/dtc-admin/internal/models"
)

// Where is a compiled filter set: an SQL condition using "?" placeholders
// and its arguments. Slice arguments belong to "IN (?)" and must be
// expanded with sqlx.In before rebinding.
type Where struct {
	Clause string
	Args   []any
}

// BuildWhere compiles filters into a WHERE clause. An empty filter set
// yields an empty clause. In/nin filters without values are skipped.
func BuildWhere(filters []Filter) (Where, error) {
	var (
		conds []string
		args  []any
	)

	for _, f := range filters {
		col, ok := Lookup(f.Field)
		if !ok {
			return Where{}, invalid("unknown filter field %q", f.Field)
		}
		if !col.Accepts(f.Operator) {
			return Where{}, invalid("operator %q is not supported on %q", f.Operator, f.Field)
		}

		cond, condArgs, err := compile(col, f)
		if err != nil {
			return Where{}, err
		}
		if cond == "" {
			continue
		}
		conds = append(conds, cond)
		args = append(args, condArgs...)
	}

	if len(conds) == 0 {
		return Where{}, nil
	}
	return Where{Clause: "WHERE " + strings.Join(conds, " AND "), Args: args}, nil
}

func compile(col Column, f Filter) (string, []any, error) {
	name := col.Key

	switch f.Operator {
	case OpNull:
		return name + " IS NULL", nil, nil
	case OpNNull:
		return name + " IS NOT NULL", nil, nil
	}

	values, err := coerce(col, f)
	if err != nil {
		return "", nil, err
	}
	if len(values) == 0 {
		if f.Operator == OpIn || f.Operator == OpNin {
			return "", nil, nil
		}
		return "", nil, invalid("filter on %q needs a value", name)
	}

	switch f.Operator {
	case OpEq:
		return name + " = ?", values[:1], nil
	case OpNe:
		return name + " <> ?", values[:1], nil
	case OpLt:
		return name + " < ?", values[:1], nil
	case OpGt:
		return name + " > ?", values[:1], nil
	case OpLte:
		return name + " <= ?", values[:1], nil
	case OpGte:
		return name + " >= ?", values[:1], nil
	case OpBetween:
		if len(values) != 2 {
			return "", nil, invalid("between on %q needs two values", name)
		}
		return name + " BETWEEN ? AND ?", values, nil
	case OpIn:
		return name + " IN (?)", []any{values}, nil
	case OpNin:
		return name + " NOT IN (?)", []any{values}, nil
	case OpContains:
		return name + " ILIKE ?", []any{"%" + escapeLike(f.Values[0]) + "%"}, nil
	case OpNContains:
		return name + " NOT ILIKE ?", []any{"%" + escapeLike(f.Values[0]) + "%"}, nil
	case OpStartsWith:
		return name + " ILIKE ?", []any{escapeLike(f.Values[0]) + "%"}, nil
	case OpEndsWith:
		return name + " ILIKE ?", []any{"%" + escapeLike(f.Values[0])}, nil
	}
	return "", nil, invalid("unsupported operator %q", f.Operator)
}

// coerce converts raw filter values into typed SQL arguments.
func coerce(col Column, f Filter) ([]any, error) {
	out := make([]any, 0, len(f.Values))
	for i, raw := range f.Values {
		switch col.Kind {
		case KindInteger:
			n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			if err != nil {
				return nil, invalid("%q is not a whole number for %q", raw, col.Key)
			}
			out = append(out, n)
		case KindDate:
			endOfRange := (f.Operator == OpBetween && i == 1) || f.Operator == OpLte
			t, err := parseTime(raw, endOfRange)
			if err != nil {
				return nil, invalid("%q is not a date for %q", raw, col.Key)
			}
			out = append(out, t)
		case KindStatus:
			status := models.ProfileStatus(raw)
			if !status.Valid() {
				return nil, invalid("unknown status %q", raw)
			}
			out = append(out, raw)
		default:
			out = append(out, raw)
		}
	}
	return out, nil
}

// parseTime accepts RFC 3339 timestamps and plain dates. A plain date used
// as the upper bound of a range covers the whole day.
func parseTime(raw string, endOfRange bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfRange {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// BuildOrderBy compiles sorters into an ORDER BY clause. Rows are always
// tie-broken by id so that pages are stable.
func BuildOrderBy(sorters []Sorter) (string, error) {
	parts := make([]string, 0, len(sorters)+1)
	hasID := false

	for _, s := range sorters {
		col, ok := Lookup(s.Field)
		if !ok || !col.Sortable {
			return "", invalid("cannot sort by %q", s.Field)
		}

		dir := "ASC"
		switch strings.ToLower(s.Order) {
		case "", "asc":
		case "desc":
			dir = "DESC"
		default:
			return "", invalid("sort order %q must be asc or desc", s.Order)
		}

		if col.Key == "id" {
			hasID = true
			parts = append(parts, "id "+dir)
			continue
		}
		parts = append(parts, col.Key+" "+dir+" NULLS LAST")
	}

	if !hasID {
		parts = append(parts, "id ASC")
	}
	return "ORDER BY " + strings.Join(parts, ", "), nil
}
