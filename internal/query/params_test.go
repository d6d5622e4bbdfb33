package query

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	p, err := Parse(url.Values{})
	assert.NoError(t, err)
	assert.Equal(t, Pagination{Current: 1, PageSize: DefaultPageSize}, p.Pagination)
	assert.Empty(t, p.Filters)
	assert.Empty(t, p.Sorters)
}

func TestParse_Pagination(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		pageSize string
		want     Pagination
	}{
		{"explicit", "3", "25", Pagination{Current: 3, PageSize: 25}},
		{"non numeric falls back", "abc", "x", Pagination{Current: 1, PageSize: 10}},
		{"zero page falls back", "0", "50", Pagination{Current: 1, PageSize: 50}},
		{"too large page size falls back", "2", "1000", Pagination{Current: 2, PageSize: 10}},
		{"huge page is clamped", "9223372036854775807", "10", Pagination{Current: math.MaxInt/10 + 1, PageSize: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(url.Values{"current": {tt.current}, "page_size": {tt.pageSize}})
			assert.NoError(t, err)
			assert.Equal(t, tt.want, p.Pagination)
			assert.GreaterOrEqual(t, p.Pagination.Offset(), 0)
		})
	}
}

func TestParse_Filters(t *testing.T) {
	p, err := Parse(url.Values{"filter": {
		`in(status, "active", "pending_review") AND contains(full_name, "a:b")`,
		`between(followers_count, 100, 500) AND null(external_url)`,
	}})
	require.NoError(t, err)
	assert.Equal(t, []Filter{
		{Field: "status", Operator: OpIn, Values: []string{"active", "pending_review"}},
		{Field: "full_name", Operator: OpContains, Values: []string{"a:b"}},
		{Field: "followers_count", Operator: OpBetween, Values: []string{"100", "500"}},
		{Field: "external_url", Operator: OpNull},
	}, p.Filters)
}

func TestParse_LaterFilterOnSameFieldWins(t *testing.T) {
	p, err := Parse(url.Values{"filter": {"id > 5", `contains(notes, "x")`, "id < 9"}})
	require.NoError(t, err)
	assert.Equal(t, []Filter{
		{Field: "notes", Operator: OpContains, Values: []string{"x"}},
		{Field: "id", Operator: OpLt, Values: []string{"9"}},
	}, p.Filters)
}

func TestParse_FilterModeReplace(t *testing.T) {
	p, err := Parse(url.Values{
		"filter_mode": {"replace"},
		"filter":      {"id > 5", `contains(notes, "x")`},
	})
	require.NoError(t, err)
	assert.Equal(t, []Filter{{Field: "notes", Operator: OpContains, Values: []string{"x"}}}, p.Filters)

	p, err = Parse(url.Values{
		"filter_mode": {"replace"},
		"filter":      {"id > 5", ""},
	})
	require.NoError(t, err)
	assert.Empty(t, p.Filters)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
	}{
		{"malformed filter", url.Values{"filter": {"status ="}}},
		{"unknown field", url.Values{"filter": {`password = "x"`}}},
		{"operator not allowed", url.Values{"filter": {`contains(status, "act")`}}},
		{"type mismatch", url.Values{"filter": {`id = "abc"`}}},
		{"between with one value", url.Values{"filter": {"between(posts_count, 1)"}}},
		{"bad filter mode", url.Values{"filter_mode": {"append"}}},
		{"bad sort order", url.Values{"order_by": {"id up"}}},
		{"unknown sort field", url.Values{"order_by": {"secret"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.values)
			assert.ErrorIs(t, err, ErrInvalidQuery)
		})
	}
}

func TestParse_Sorters(t *testing.T) {
	p, err := Parse(url.Values{"order_by": {"followers_count desc, username"}})
	require.NoError(t, err)
	assert.Equal(t, []Sorter{
		{Field: "followers_count", Order: "desc"},
		{Field: "username", Order: "asc"},
	}, p.Sorters)

	order, err := BuildOrderBy(p.Sorters)
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY followers_count DESC NULLS LAST, username ASC NULLS LAST, id ASC", order)
}

func TestPagination_OffsetAndPageCount(t *testing.T) {
	p := Pagination{Current: 3, PageSize: 25}
	assert.Equal(t, 50, p.Offset())
	assert.Equal(t, 0, p.PageCount(0))
	assert.Equal(t, 1, p.PageCount(25))
	assert.Equal(t, 2, p.PageCount(26))
	assert.Equal(t, 0, Pagination{}.PageCount(10))

	huge := Pagination{Current: math.MaxInt, PageSize: 10}
	assert.Equal(t, (math.MaxInt/10)*10, huge.Offset())
}

func TestMerge(t *testing.T) {
	existing := []Filter{
		{Field: "status", Operator: OpIn, Values: []string{"active"}},
		{Field: "notes", Operator: OpContains, Values: []string{"spam"}},
	}
	incoming := []Filter{{Field: "status", Operator: OpIn, Values: []string{"removed"}}}

	got := Merge(existing, incoming, MergeModeMerge)
	assert.Equal(t, []Filter{
		{Field: "notes", Operator: OpContains, Values: []string{"spam"}},
		{Field: "status", Operator: OpIn, Values: []string{"removed"}},
	}, got)
	assert.Len(t, existing, 2)

	got = Merge(existing, incoming, MergeModeReplace)
	assert.Equal(t, incoming, got)
}

func TestColumns(t *testing.T) {
	col, ok := Lookup("followers_count")
	assert.True(t, ok)
	assert.Equal(t, KindInteger, col.Kind)
	assert.True(t, col.Accepts(OpBetween))
	assert.False(t, col.Accepts(OpContains))

	status, ok := Lookup("status")
	assert.True(t, ok)
	assert.True(t, status.Accepts(OpIn))

	_, ok = Lookup("password_hash")
	assert.False(t, ok)

	assert.Equal(t, "id", Columns[0].Key)
	for _, c := range Columns {
		assert.NotEmpty(t, c.Operators, c.Key)
	}
}
