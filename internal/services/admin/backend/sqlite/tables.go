package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/louisbranch/paydesk/internal/services/admin/backend"
	"github.com/shopspring/decimal"
)

// Select runs query and decodes the rows into dest through their JSON tags.
func (s *Store) Select(ctx context.Context, query backend.Query, dest any) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := s.authorize(ctx); err != nil {
		return err
	}
	if err := query.Validate(); err != nil {
		return err
	}

	columns := "*"
	if len(query.Columns) > 0 {
		columns = strings.Join(query.Columns, ", ")
	}
	var sb strings.Builder
	sb.WriteString("SELECT " + columns + " FROM " + query.Table)
	where, args := whereClause(query.Filters)
	sb.WriteString(where)
	if len(query.Order) > 0 {
		parts := make([]string, 0, len(query.Order))
		for _, order := range query.Order {
			direction := "ASC"
			if order.Descending {
				direction = "DESC"
			}
			parts = append(parts, order.Column+" "+direction)
		}
		sb.WriteString(" ORDER BY " + strings.Join(parts, ", "))
	}
	if query.Limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", query.Limit))
	}

	rows, err := s.sqlDB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return fmt.Errorf("select %s: %w", query.Table, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("select %s columns: %w", query.Table, err)
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return fmt.Errorf("select %s column types: %w", query.Table, err)
	}

	records := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(names))
		pointers := make([]any, len(names))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return fmt.Errorf("scan %s: %w", query.Table, err)
		}
		record := make(map[string]any, len(names))
		for i, name := range names {
			record[name] = jsonValue(values[i], types[i].DatabaseTypeName())
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s: %w", query.Table, err)
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s rows: %w", query.Table, err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("decode %s rows: %w", query.Table, err)
	}
	return nil
}

// Update applies values to rows matching filters and reports how many changed.
func (s *Store) Update(ctx context.Context, table string, filters []backend.Filter, values map[string]any) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	if err := s.authorize(ctx); err != nil {
		return 0, err
	}
	if err := validateWrite(table, values); err != nil {
		return 0, err
	}
	if err := backend.ValidateFilters(filters); err != nil {
		return 0, err
	}

	columns := sortedColumns(values)
	sets := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, column := range columns {
		sets = append(sets, column+" = ?")
		args = append(args, sqlValue(values[column]))
	}
	where, whereArgs := whereClause(filters)
	args = append(args, whereArgs...)

	result, err := s.sqlDB.ExecContext(ctx, "UPDATE "+table+" SET "+strings.Join(sets, ", ")+where, args...)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update %s rows affected: %w", table, err)
	}
	if affected > 0 {
		s.changes.publish(backend.ChangeEvent{Table: table, Event: backend.EventUpdate})
	}
	return int(affected), nil
}

// Upsert inserts values or, when onConflict collides, overwrites the row.
func (s *Store) Upsert(ctx context.Context, table string, onConflict string, values map[string]any) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := s.authorize(ctx); err != nil {
		return err
	}
	if err := validateWrite(table, values); err != nil {
		return err
	}
	if !backend.ValidIdentifier(onConflict) {
		return fmt.Errorf("invalid conflict column %q", onConflict)
	}
	if _, ok := values[onConflict]; !ok {
		return fmt.Errorf("conflict column %q missing from values", onConflict)
	}

	columns := sortedColumns(values)
	args := make([]any, 0, len(columns))
	placeholders := make([]string, 0, len(columns))
	updates := make([]string, 0, len(columns))
	for _, column := range columns {
		args = append(args, sqlValue(values[column]))
		placeholders = append(placeholders, "?")
		if column != onConflict {
			updates = append(updates, column+" = excluded."+column)
		}
	}
	statement := "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ")"
	if len(updates) > 0 {
		statement += " ON CONFLICT (" + onConflict + ") DO UPDATE SET " + strings.Join(updates, ", ")
	} else {
		statement += " ON CONFLICT (" + onConflict + ") DO NOTHING"
	}
	if _, err := s.sqlDB.ExecContext(ctx, statement, args...); err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	s.changes.publish(backend.ChangeEvent{Table: table, Event: backend.EventUpdate})
	return nil
}

// Insert adds a row without an access token and returns its rowid. It is the
// trusted path used for seeding and by callers that own the database.
func (s *Store) Insert(ctx context.Context, table string, values map[string]any) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	if err := validateWrite(table, values); err != nil {
		return 0, err
	}
	columns := sortedColumns(values)
	args := make([]any, 0, len(columns))
	placeholders := make([]string, 0, len(columns))
	for _, column := range columns {
		args = append(args, sqlValue(values[column]))
		placeholders = append(placeholders, "?")
	}
	result, err := s.sqlDB.ExecContext(ctx,
		"INSERT INTO "+table+" ("+strings.Join(columns, ", ")+") VALUES ("+strings.Join(placeholders, ", ")+")",
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", table, err)
	}
	rowID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert %s id: %w", table, err)
	}
	s.changes.publish(backend.ChangeEvent{Table: table, Event: backend.EventInsert})
	return rowID, nil
}

func validateWrite(table string, values map[string]any) error {
	if !backend.ValidIdentifier(table) {
		return fmt.Errorf("invalid table %q", table)
	}
	return backend.ValidateValues(values)
}

func sortedColumns(values map[string]any) []string {
	columns := make([]string, 0, len(values))
	for column := range values {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}

func whereClause(filters []backend.Filter) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}
	clauses := make([]string, 0, len(filters))
	var args []any
	for _, filter := range filters {
		switch filter.Op {
		case backend.OpEq:
			clauses = append(clauses, filter.Column+" = ?")
		case backend.OpNeq:
			clauses = append(clauses, filter.Column+" <> ?")
		case backend.OpGte:
			clauses = append(clauses, filter.Column+" >= ?")
		case backend.OpLte:
			clauses = append(clauses, filter.Column+" <= ?")
		case backend.OpIn:
			values, _ := filter.Value.([]any)
			marks := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
			clauses = append(clauses, filter.Column+" IN ("+marks+")")
			for _, value := range values {
				args = append(args, sqlValue(value))
			}
			continue
		}
		args = append(args, sqlValue(filter.Value))
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// sqlValue converts domain values into the column representation this
// driver stores: fixed-width UTC text for times, decimal text for amounts.
func sqlValue(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		return formatTime(v)
	case *time.Time:
		if v == nil {
			return nil
		}
		return formatTime(*v)
	case decimal.Decimal:
		return v.String()
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return sqlValue(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return value
}

func jsonValue(value any, columnType string) any {
	if strings.EqualFold(columnType, "BOOLEAN") {
		if n, ok := value.(int64); ok {
			return n != 0
		}
	}
	if raw, ok := value.([]byte); ok {
		return string(raw)
	}
	return value
}
