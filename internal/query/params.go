package query

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"go.einride.tech/aip/ordering"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageSizeOptions are the page sizes offered by the table pager.
var PageSizeOptions = []int{10, 25, 50, 100}

// ErrInvalidQuery is wrapped by every parse or validation error of list parameters.
var ErrInvalidQuery = errors.New("invalid query")

// Filter is a generic filter descriptor: one restriction on one column.
type Filter struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Values   []string `json:"value"`
}

// Sorter orders results by one column.
type Sorter struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

// Pagination selects one page of results. Current is 1-based.
type Pagination struct {
	Current  int `json:"current"`
	PageSize int `json:"page_size"`
}

// Offset returns the number of rows skipped before the current page.
// Pages past the last one whose offset fits in an int are clamped to it.
func (p Pagination) Offset() int {
	if p.PageSize <= 0 {
		return 0
	}
	return (min(p.Current, p.maxCurrent()) - 1) * p.PageSize
}

// maxCurrent is the last page whose offset does not overflow.
func (p Pagination) maxCurrent() int {
	return math.MaxInt/p.PageSize + 1
}

// PageCount returns the number of pages needed for total rows.
func (p Pagination) PageCount(total int) int {
	if p.PageSize <= 0 {
		return 0
	}
	return (total + p.PageSize - 1) / p.PageSize
}

// Params is the complete table state sent by the list view.
type Params struct {
	Filters    []Filter
	Sorters    []Sorter
	Pagination Pagination
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}

// Parse reads list parameters from a query string:
//
//	filter=<AIP-160 expression>          (repeatable, see ParseFilter)
//	filter_mode=merge|replace            (how repeated filters combine)
//	order_by=<field> [desc], ...         (AIP-132 ordering)
//	current=<n>&page_size=<n>
//
// Out of range pagination falls back to the defaults; a page beyond the
// addressable range is clamped. In merge mode a later filter on a column
// replaces an earlier one; in replace mode every filter parameter
// discards the ones before it, so "filter_mode=replace&filter=" clears
// all filters.
func Parse(values url.Values) (Params, error) {
	p := Params{
		Pagination: Pagination{Current: 1, PageSize: DefaultPageSize},
	}

	if s := values.Get("page_size"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= MaxPageSize {
			p.Pagination.PageSize = n
		}
	}
	if s := values.Get("current"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			p.Pagination.Current = min(n, p.Pagination.maxCurrent())
		}
	}

	mode, err := ParseMergeMode(values.Get("filter_mode"))
	if err != nil {
		return Params{}, err
	}
	for _, raw := range values["filter"] {
		filters, err := ParseFilter(raw)
		if err != nil {
			return Params{}, err
		}
		p.Filters = Merge(p.Filters, filters, mode)
	}

	if p.Sorters, err = ParseOrderBy(values.Get("order_by")); err != nil {
		return Params{}, err
	}

	return p, nil
}

type orderByRequest string

func (o orderByRequest) GetOrderBy() string { return string(o) }

// ParseOrderBy reads an AIP-132 ordering such as "followers_count desc, id".
// Only sortable columns are accepted.
func ParseOrderBy(raw string) ([]Sorter, error) {
	orderBy, err := ordering.ParseOrderBy(orderByRequest(strings.TrimSpace(raw)))
	if err != nil {
		return nil, invalid("%v", err)
	}
	if err := orderBy.ValidateForPaths(sortablePaths...); err != nil {
		return nil, invalid("cannot sort: %v", err)
	}

	sorters := make([]Sorter, 0, len(orderBy.Fields))
	for _, f := range orderBy.Fields {
		order := "asc"
		if f.Desc {
			order = "desc"
		}
		sorters = append(sorters, Sorter{Field: f.Path, Order: order})
	}
	return sorters, nil
}

var sortablePaths = func() []string {
	paths := make([]string, 0, len(Columns))
	for _, c := range Columns {
		if c.Sortable {
			paths = append(paths, c.Key)
		}
	}
	return paths
}()

// MergeMode controls how Merge combines filter sets.
type MergeMode string

const (
	MergeModeMerge   MergeMode = "merge"
	MergeModeReplace MergeMode = "replace"
)

// ParseMergeMode reads a merge mode. Empty means merge.
func ParseMergeMode(s string) (MergeMode, error) {
	switch MergeMode(s) {
	case "", MergeModeMerge:
		return MergeModeMerge, nil
	case MergeModeReplace:
		return MergeModeReplace, nil
	}
	return "", invalid("filter_mode %q must be merge or replace", s)
}

// Merge applies incoming filters on top of existing ones. In merge mode a
// filter on a field already present replaces it and other existing filters
// are kept. In replace mode existing filters are discarded.
func Merge(existing, incoming []Filter, mode MergeMode) []Filter {
	if mode == MergeModeReplace {
		return append([]Filter(nil), incoming...)
	}
	out := make([]Filter, 0, len(existing)+len(incoming))
	for _, f := range existing {
		replaced := false
		for _, in := range incoming {
			if in.Field == f.Field {
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, f)
		}
	}
	return append(out, incoming...)
}
