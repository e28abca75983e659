package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeResultRejectsRaggedRows(t *testing.T) {
	_, err := DecodeResult([]byte(`{"type":"select","columns":[{"name":"a","type":"int"}],"rows":[[1,2]]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 0 has 2 values")
}

func TestDecodeResultUnknownType(t *testing.T) {
	_, err := DecodeResult([]byte(`{"type":"stream"}`))
	require.Error(t, err)
}

func TestDecodeResultZeroColumns(t *testing.T) {
	res, err := DecodeResult([]byte(`{"type":"select","columns":[],"rows":[],"total_rows":0}`))
	require.NoError(t, err)
	sel := res.(*SelectResult)
	assert.Empty(t, sel.Columns)
	assert.Empty(t, sel.Rows)
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   string
		isNull bool
	}{
		{"nil", nil, "", true},
		{"empty string is not null", "", "", false},
		{"string", "O'Brien", "O'Brien", false},
		{"json number", json.Number("3.50"), "3.50", false},
		{"bool", true, "true", false},
		{"float", 2.5, "2.5", false},
		{"int", 42, "42", false},
		{"object", map[string]any{"k": "v"}, `{"k":"v"}`, false},
		{"array", []any{json.Number("1"), "x"}, `[1,"x"]`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, isNull := FormatValue(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.isNull, isNull)
		})
	}
}

func TestNormalize(t *testing.T) {
	qe := Normalize(&Error{StatusCode: 500, Message: "boom"})
	assert.Equal(t, UnknownErrorCode, qe.Code)
	assert.Equal(t, "boom", qe.Message)

	qe = Normalize(&Error{StatusCode: 502, Body: "<html>"})
	assert.Equal(t, UnknownErrorMessage, qe.Message)

	qe = Normalize(nil)
	assert.Equal(t, UnknownErrorCode, qe.Code)
}

func TestSelectResultRowTotal(t *testing.T) {
	capped := &SelectResult{Rows: [][]any{{1}, {2}}, TotalRows: 125000, HasMore: true}
	assert.Equal(t, int64(125000), capped.RowTotal())

	missing := &SelectResult{Rows: [][]any{{1}, {2}}}
	assert.Equal(t, int64(2), missing.RowTotal())
}
