package query

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// MaxListValues bounds the number of values one in() call accepts.
const MaxListValues = 50

// Filter functions the table accepts on top of the AIP-160 comparators.
// NOT negates contains, in and null.
const (
	FunctionContains   = "contains"
	FunctionStartsWith = "startswith"
	FunctionEndsWith   = "endswith"
	FunctionBetween    = "between"
	FunctionIn         = "in"
	FunctionNull       = "null"
)

var comparators = map[string]Operator{
	filtering.FunctionEquals:        OpEq,
	filtering.FunctionNotEquals:     OpNe,
	filtering.FunctionLessThan:      OpLt,
	filtering.FunctionGreaterThan:   OpGt,
	filtering.FunctionLessEquals:    OpLte,
	filtering.FunctionGreaterEquals: OpGte,
}

var negations = map[Operator]Operator{
	OpEq:       OpNe,
	OpContains: OpNContains,
	OpIn:       OpNin,
	OpNull:     OpNNull,
}

func identType(kind Kind) *expr.Type {
	switch kind {
	case KindInteger:
		return filtering.TypeInt
	case KindDate:
		return filtering.TypeTimestamp
	default:
		return filtering.TypeString
	}
}

func textFunction(name string) filtering.DeclarationOption {
	return filtering.DeclareFunction(name,
		filtering.NewFunctionOverload(name+"_string", filtering.TypeBool, filtering.TypeString, filtering.TypeString),
	)
}

func listOverloads(elem *expr.Type, suffix string) []*expr.Decl_FunctionDecl_Overload {
	overloads := make([]*expr.Decl_FunctionDecl_Overload, 0, MaxListValues+1)
	for n := 0; n <= MaxListValues; n++ {
		params := make([]*expr.Type, n+1)
		for i := range params {
			params[i] = elem
		}
		overloads = append(overloads, filtering.NewFunctionOverload(
			fmt.Sprintf("%s_%s_%d", FunctionIn, suffix, n), filtering.TypeBool, params...,
		))
	}
	return overloads
}

// NewDeclarations declares one typed identifier per table column together
// with the standard AIP-160 functions and the table's filter functions.
func NewDeclarations() (*filtering.Declarations, error) {
	opts := []filtering.DeclarationOption{
		filtering.DeclareStandardFunctions(),
		textFunction(FunctionContains),
		textFunction(FunctionStartsWith),
		textFunction(FunctionEndsWith),
		filtering.DeclareFunction(FunctionBetween,
			filtering.NewFunctionOverload(FunctionBetween+"_int", filtering.TypeBool,
				filtering.TypeInt, filtering.TypeInt, filtering.TypeInt),
			filtering.NewFunctionOverload(FunctionBetween+"_timestamp_string", filtering.TypeBool,
				filtering.TypeTimestamp, filtering.TypeString, filtering.TypeString),
			filtering.NewFunctionOverload(FunctionBetween+"_timestamp", filtering.TypeBool,
				filtering.TypeTimestamp, filtering.TypeTimestamp, filtering.TypeTimestamp),
		),
		filtering.DeclareFunction(FunctionIn, append(
			listOverloads(filtering.TypeString, "string"),
			listOverloads(filtering.TypeInt, "int")...,
		)...),
		filtering.DeclareFunction(FunctionNull,
			filtering.NewFunctionOverload(FunctionNull+"_string", filtering.TypeBool, filtering.TypeString),
			filtering.NewFunctionOverload(FunctionNull+"_int", filtering.TypeBool, filtering.TypeInt),
			filtering.NewFunctionOverload(FunctionNull+"_timestamp", filtering.TypeBool, filtering.TypeTimestamp),
		),
	}
	for _, c := range Columns {
		opts = append(opts, filtering.DeclareIdent(c.Key, identType(c.Kind)))
	}
	return filtering.NewDeclarations(opts...)
}

var declarations = sync.OnceValues(NewDeclarations)

type filterRequest string

func (f filterRequest) GetFilter() string { return string(f) }

// ParseFilter parses and type-checks an AIP-160 filter expression and
// returns one descriptor per column it restricts, e.g.
//
//	contains(username, "shop") AND status = "active" AND followers_count >= 1000
//
// Conditions are joined with AND. A later condition on the same column
// replaces an earlier one. An empty expression yields no filters.
func ParseFilter(raw string) ([]Filter, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	decls, err := declarations()
	if err != nil {
		return nil, fmt.Errorf("filter declarations: %w", err)
	}

	parsed, err := filtering.ParseFilter(filterRequest(raw), decls)
	if err != nil {
		return nil, invalid("filter %q: %s", raw, strings.Join(strings.Fields(err.Error()), " "))
	}

	var filters []Filter
	if err := collect(parsed.CheckedExpr.GetExpr(), &filters); err != nil {
		return nil, err
	}
	return filters, nil
}

func collect(e *expr.Expr, filters *[]Filter) error {
	call := e.GetCallExpr()
	if call == nil {
		return invalid("a filter must be a condition on a column")
	}

	switch call.GetFunction() {
	case filtering.FunctionAnd:
		for _, arg := range call.GetArgs() {
			if err := collect(arg, filters); err != nil {
				return err
			}
		}
		return nil
	case filtering.FunctionOr, filtering.FunctionFuzzyAnd:
		return invalid("%s is not supported, join conditions with AND", call.GetFunction())
	}

	f, err := translate(call)
	if err != nil {
		return err
	}
	*filters = Merge(*filters, []Filter{f}, MergeModeMerge)
	return nil
}

func translate(call *expr.Expr_Call) (Filter, error) {
	fn, args := call.GetFunction(), call.GetArgs()

	if fn == filtering.FunctionNot {
		inner := args[0].GetCallExpr()
		if inner == nil {
			return Filter{}, invalid("NOT needs a condition")
		}
		f, err := translate(inner)
		if err != nil {
			return Filter{}, err
		}
		negated, ok := negations[f.Operator]
		if !ok {
			return Filter{}, invalid("NOT is not supported with %s", f.Operator)
		}
		f.Operator = negated
		return f, checkOperator(f)
	}

	var op Operator
	switch fn {
	case FunctionContains:
		op = OpContains
	case FunctionStartsWith:
		op = OpStartsWith
	case FunctionEndsWith:
		op = OpEndsWith
	case FunctionBetween:
		op = OpBetween
	case FunctionIn:
		op = OpIn
	case FunctionNull:
		op = OpNull
	default:
		var ok bool
		if op, ok = comparators[fn]; !ok {
			return Filter{}, invalid("function %q is not supported", fn)
		}
	}

	field := args[0].GetIdentExpr().GetName()
	if field == "" {
		return Filter{}, invalid("%s must start with a column name", fn)
	}

	f := Filter{Field: field, Operator: op}
	for _, arg := range args[1:] {
		v, err := literal(arg)
		if err != nil {
			return Filter{}, err
		}
		f.Values = append(f.Values, v)
	}
	return f, checkOperator(f)
}

func checkOperator(f Filter) error {
	col, ok := Lookup(f.Field)
	if !ok {
		return invalid("unknown filter field %q", f.Field)
	}
	if !col.Accepts(f.Operator) {
		return invalid("operator %q is not supported on %q", f.Operator, f.Field)
	}
	return nil
}

// literal returns the text of a constant or of a timestamp("...") call.
func literal(e *expr.Expr) (string, error) {
	if c := e.GetConstExpr(); c != nil {
		switch v := c.GetConstantKind().(type) {
		case *expr.Constant_StringValue:
			return v.StringValue, nil
		case *expr.Constant_Int64Value:
			return strconv.FormatInt(v.Int64Value, 10), nil
		}
		return "", invalid("unsupported constant %v", c)
	}
	if call := e.GetCallExpr(); call != nil && call.GetFunction() == filtering.FunctionTimestamp && len(call.GetArgs()) == 1 {
		return literal(call.GetArgs()[0])
	}
	return "", invalid("filter values must be literals")
}
