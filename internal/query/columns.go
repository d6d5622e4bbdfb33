// Package query holds the declarative profile table configuration and
// translates the table's filter, sort and pagination state into SQL.
package query

// Kind decides which filter operators a column accepts and how its
// filter values are coerced.
type Kind string

const (
	KindInteger Kind = "integer"
	KindText    Kind = "text"
	KindURL     Kind = "url"
	KindStatus  Kind = "status"
	KindDate    Kind = "date"
)

// Operator is a generic filter operator.
type Operator string

const (
	OpEq         Operator = "eq"
	OpNe         Operator = "ne"
	OpLt         Operator = "lt"
	OpGt         Operator = "gt"
	OpLte        Operator = "lte"
	OpGte        Operator = "gte"
	OpIn         Operator = "in"
	OpNin        Operator = "nin"
	OpContains   Operator = "contains"
	OpNContains  Operator = "ncontains"
	OpStartsWith Operator = "startswith"
	OpEndsWith   Operator = "endswith"
	OpBetween    Operator = "between"
	OpNull       Operator = "null"
	OpNNull      Operator = "nnull"
)

var operatorsByKind = map[Kind][]Operator{
	KindInteger: {OpEq, OpNe, OpGt, OpLt, OpGte, OpLte, OpBetween, OpIn, OpNull, OpNNull},
	KindText:    {OpContains, OpNContains, OpEq, OpNe, OpStartsWith, OpEndsWith, OpNull, OpNNull},
	KindURL:     {OpContains, OpNContains, OpEq, OpNe, OpStartsWith, OpEndsWith, OpNull, OpNNull},
	KindDate:    {OpBetween, OpGt, OpLt, OpGte, OpLte, OpNull, OpNNull},
	KindStatus:  {OpIn, OpNin, OpEq, OpNe},
}

// Column describes one column of the profile table.
type Column struct {
	Key       string     `json:"key"`
	Title     string     `json:"title"`
	Kind      Kind       `json:"kind"`
	Width     int        `json:"width,omitempty"`
	Sortable  bool       `json:"sortable"`
	Hidden    bool       `json:"hidden,omitempty"`
	Operators []Operator `json:"operators"`
}

// Accepts reports whether op is a valid filter operator for the column.
func (c Column) Accepts(op Operator) bool {
	for _, o := range c.Operators {
		if o == op {
			return true
		}
	}
	return false
}

func column(key, title string, kind Kind, width int) Column {
	return Column{
		Key:       key,
		Title:     title,
		Kind:      kind,
		Width:     width,
		Sortable:  true,
		Operators: operatorsByKind[kind],
	}
}

// Columns is the profile table in display order.
var Columns = []Column{
	column("id", "ID", KindInteger, 90),
	column("profile_url", "Profile URL", KindURL, 250),
	column("external_url", "External URL", KindURL, 250),
	column("status", "Status", KindStatus, 200),
	column("notes", "Notes", KindText, 300),
	column("full_name", "Full Name", KindText, 180),
	column("biography", "Biography", KindText, 400),
	column("followers_count", "Followers", KindInteger, 120),
	column("posts_count", "Posts", KindInteger, 100),
	column("search_term", "Search Term", KindText, 200),
	column("search_term_en", "Search Term (EN)", KindText, 200),
	column("category", "Category", KindText, 200),
	column("updated_at", "Updated At", KindDate, 200),
	column("last_scraped_at", "Last Scraped At", KindDate, 200),
	{
		Key:       "username",
		Title:     "Username",
		Kind:      KindText,
		Sortable:  true,
		Hidden:    true,
		Operators: operatorsByKind[KindText],
	},
}

var columnsByKey = func() map[string]Column {
	m := make(map[string]Column, len(Columns))
	for _, c := range Columns {
		m[c.Key] = c
	}
	return m
}()

// Lookup returns the column registered under key.
func Lookup(key string) (Column, bool) {
	c, ok := columnsByKey[key]
	return c, ok
}
