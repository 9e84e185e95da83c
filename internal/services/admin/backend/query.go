package backend

import (
	"fmt"
)

// Op is a filter comparison operator.
type Op string

const (
	OpEq  Op = "eq"
	OpNeq Op = "neq"
	OpIn  Op = "in"
	OpGte Op = "gte"
	OpLte Op = "lte"
)

// Filter restricts a query or update to rows where Column Op Value holds.
// For OpIn, Value is a []any.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Eq matches column = value.
func Eq(column string, value any) Filter { return Filter{Column: column, Op: OpEq, Value: value} }

// In matches column against any of values.
func In(column string, values ...any) Filter {
	return Filter{Column: column, Op: OpIn, Value: values}
}

// Order sorts query results by Column.
type Order struct {
	Column     string
	Descending bool
}

// Query selects rows from Table.
type Query struct {
	Table   string
	Columns []string
	Filters []Filter
	Order   []Order
	Limit   int
}

// Validate checks identifiers and operators so drivers can build requests
// from the query without further escaping of names.
func (q Query) Validate() error {
	if !ValidIdentifier(q.Table) {
		return fmt.Errorf("invalid table %q", q.Table)
	}
	for _, column := range q.Columns {
		if !ValidIdentifier(column) {
			return fmt.Errorf("invalid column %q", column)
		}
	}
	if err := ValidateFilters(q.Filters); err != nil {
		return err
	}
	for _, order := range q.Order {
		if !ValidIdentifier(order.Column) {
			return fmt.Errorf("invalid order column %q", order.Column)
		}
	}
	if q.Limit < 0 {
		return fmt.Errorf("invalid limit %d", q.Limit)
	}
	return nil
}

// ValidateFilters checks filter columns, operators and IN values.
func ValidateFilters(filters []Filter) error {
	for _, filter := range filters {
		if !ValidIdentifier(filter.Column) {
			return fmt.Errorf("invalid filter column %q", filter.Column)
		}
		switch filter.Op {
		case OpEq, OpNeq, OpGte, OpLte:
		case OpIn:
			values, ok := filter.Value.([]any)
			if !ok || len(values) == 0 {
				return fmt.Errorf("filter %s in requires values", filter.Column)
			}
		default:
			return fmt.Errorf("unsupported filter op %q", filter.Op)
		}
	}
	return nil
}

// ValidateValues checks the column names of a write.
func ValidateValues(values map[string]any) error {
	if len(values) == 0 {
		return fmt.Errorf("values are required")
	}
	for column := range values {
		if !ValidIdentifier(column) {
			return fmt.Errorf("invalid column %q", column)
		}
	}
	return nil
}
