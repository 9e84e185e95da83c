package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/paydesk/internal/services/admin/backend"
	"github.com/shopspring/decimal"
)

// Select issues GET /rest/v1/{table} with PostgREST filter parameters.
func (c *Client) Select(ctx context.Context, query backend.Query, dest any) error {
	if err := query.Validate(); err != nil {
		return err
	}
	params := filterParams(query.Filters)
	columns := "*"
	if len(query.Columns) > 0 {
		columns = strings.Join(query.Columns, ",")
	}
	params.Set("select", columns)
	if len(query.Order) > 0 {
		parts := make([]string, 0, len(query.Order))
		for _, order := range query.Order {
			direction := "asc"
			if order.Descending {
				direction = "desc"
			}
			parts = append(parts, order.Column+"."+direction)
		}
		params.Set("order", strings.Join(parts, ","))
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, c.endpoint("/rest/v1/"+query.Table, params), backend.AccessTokenFromContext(ctx), nil, nil, &raw); err != nil {
		return fmt.Errorf("select %s: %w", query.Table, err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		raw = json.RawMessage("[]")
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s rows: %w", query.Table, err)
	}
	return nil
}

// Update issues PATCH /rest/v1/{table} and counts the returned representation.
func (c *Client) Update(ctx context.Context, table string, filters []backend.Filter, values map[string]any) (int, error) {
	if !backend.ValidIdentifier(table) {
		return 0, fmt.Errorf("invalid table %q", table)
	}
	if err := backend.ValidateValues(values); err != nil {
		return 0, err
	}
	if err := backend.ValidateFilters(filters); err != nil {
		return 0, err
	}
	if len(filters) == 0 {
		return 0, fmt.Errorf("update %s requires a filter", table)
	}

	params := filterParams(filters)
	params.Set("select", "*")
	headers := http.Header{"Prefer": []string{"return=representation"}}
	var rows []json.RawMessage
	if err := c.do(ctx, http.MethodPatch, c.endpoint("/rest/v1/"+table, params), backend.AccessTokenFromContext(ctx), jsonValues(values), headers, &rows); err != nil {
		return 0, fmt.Errorf("update %s: %w", table, err)
	}
	return len(rows), nil
}

// Upsert issues POST /rest/v1/{table}?on_conflict= with merge resolution.
func (c *Client) Upsert(ctx context.Context, table string, onConflict string, values map[string]any) error {
	if !backend.ValidIdentifier(table) {
		return fmt.Errorf("invalid table %q", table)
	}
	if !backend.ValidIdentifier(onConflict) {
		return fmt.Errorf("invalid conflict column %q", onConflict)
	}
	if err := backend.ValidateValues(values); err != nil {
		return err
	}
	params := url.Values{"on_conflict": []string{onConflict}}
	headers := http.Header{"Prefer": []string{"resolution=merge-duplicates,return=minimal"}}
	if err := c.do(ctx, http.MethodPost, c.endpoint("/rest/v1/"+table, params), backend.AccessTokenFromContext(ctx), jsonValues(values), headers, nil); err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	return nil
}

func filterParams(filters []backend.Filter) url.Values {
	params := url.Values{}
	for _, filter := range filters {
		if filter.Op == backend.OpIn {
			values, _ := filter.Value.([]any)
			quoted := make([]string, 0, len(values))
			for _, value := range values {
				quoted = append(quoted, quoteListValue(formatValue(value)))
			}
			params.Add(filter.Column, "in.("+strings.Join(quoted, ",")+")")
			continue
		}
		params.Add(filter.Column, string(filter.Op)+"."+formatValue(filter.Value))
	}
	return params
}

// quoteListValue double-quotes list members that contain PostgREST reserved characters.
func quoteListValue(value string) string {
	if !strings.ContainsAny(value, `,()" \`) {
		return value
	}
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
	return `"` + escaped + `"`
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case decimal.Decimal:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// jsonValues normalises write values so times go out in UTC.
func jsonValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for column, value := range values {
		switch v := value.(type) {
		case time.Time:
			out[column] = v.UTC()
		case *time.Time:
			if v == nil {
				out[column] = nil
			} else {
				out[column] = v.UTC()
			}
		default:
			out[column] = value
		}
	}
	return out
}
