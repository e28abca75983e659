// internal/api/types.go
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Client identifies a connection profile known to the backend
type Client struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Tag  string `json:"tag,omitempty"`
}

// ResolveResponse is the backend answer to a connection resolution
type ResolveResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ExecuteOptions bounds a single execution. Zero values are omitted.
type ExecuteOptions struct {
	MaxRows        int `json:"max_rows,omitempty"`
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
}

// ExecuteRequest is the body of POST /query/execute
type ExecuteRequest struct {
	ClientID string         `json:"client_id"`
	SQL      string         `json:"sql"`
	Options  ExecuteOptions `json:"options"`
}

// ColumnMetadata describes one column of a tabular result
type ColumnMetadata struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Outcome is the closed set of things one execution can produce:
// *SelectResult, *NonSelectResult or *QueryError.
type Outcome interface {
	isOutcome()
}

// Result is a successful execution outcome
type Result interface {
	Outcome
	Elapsed() time.Duration
}

// SelectResult holds a tabular result set
type SelectResult struct {
	Columns    []ColumnMetadata `json:"columns"`
	Rows       [][]any          `json:"rows"`
	TotalRows  int64            `json:"total_rows"`
	HasMore    bool             `json:"has_more"`
	DurationMs int64            `json:"duration_ms"`
}

// NonSelectResult summarises a statement that returns no rows
type NonSelectResult struct {
	StatementType string   `json:"statement_type"`
	RowsAffected  int64    `json:"rows_affected"`
	DurationMs    int64    `json:"duration_ms"`
	Messages      []string `json:"messages,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

// QueryError is the display form of a failed execution
type QueryError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

func (*SelectResult) isOutcome()    {}
func (*NonSelectResult) isOutcome() {}
func (*QueryError) isOutcome()      {}

// Elapsed returns the backend-reported execution time
func (r *SelectResult) Elapsed() time.Duration {
	return time.Duration(r.DurationMs) * time.Millisecond
}

// Elapsed returns the backend-reported execution time
func (r *NonSelectResult) Elapsed() time.Duration {
	return time.Duration(r.DurationMs) * time.Millisecond
}

func (e *QueryError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (hint: %s)", e.Code, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// RowTotal is the number of rows the query produced, which exceeds
// len(Rows) when the backend capped the result. Falls back to len(Rows)
// when total_rows is missing.
func (r *SelectResult) RowTotal() int64 {
	if n := int64(len(r.Rows)); r.TotalRows < n {
		return n
	}
	return r.TotalRows
}

// ColumnNames returns the column names in result order
func (r *SelectResult) ColumnNames() []string {
	names := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		names[i] = c.Name
	}
	return names
}

const (
	typeSelect    = "select"
	typeNonSelect = "non_select"
)

// DecodeResult decodes an execute response into its variant.
// Numbers are kept as json.Number so their literal text survives.
func DecodeResult(data []byte) (Result, error) {
	var head struct {
		Type    string          `json:"type"`
		Columns json.RawMessage `json:"columns"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("failed to parse result: %w", err)
	}

	kind := head.Type
	if kind == "" {
		kind = typeNonSelect
		if len(head.Columns) > 0 && !bytes.Equal(head.Columns, []byte("null")) {
			kind = typeSelect
		}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	switch kind {
	case typeSelect:
		var r SelectResult
		if err := dec.Decode(&r); err != nil {
			return nil, fmt.Errorf("failed to parse select result: %w", err)
		}
		for i, row := range r.Rows {
			if len(row) != len(r.Columns) {
				return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(r.Columns))
			}
		}
		return &r, nil
	case typeNonSelect:
		var r NonSelectResult
		if err := dec.Decode(&r); err != nil {
			return nil, fmt.Errorf("failed to parse result: %w", err)
		}
		return &r, nil
	default:
		return nil, fmt.Errorf("unknown result type: %q", head.Type)
	}
}

// FormatValue returns the display string of a cell and whether it is NULL
func FormatValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", true
	case string:
		return val, false
	case json.Number:
		return val.String(), false
	case bool:
		return strconv.FormatBool(val), false
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), false
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), false
	case []byte:
		return string(val), false
	case map[string]any, []any:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val), false
		}
		return string(b), false
	default:
		return fmt.Sprintf("%v", val), false
	}
}
