// Package table wraps bubble-table with the console's styling.
package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	bbtable "github.com/evertras/bubble-table/table"

	"github.com/nhath/silver/internal/api"
	"github.com/nhath/silver/internal/config"
)

const (
	colField = "field"
	colValue = "value"

	nullMarker = "NULL"
)

// Styles for value cells
type Styles struct {
	Base      lipgloss.Style
	Header    lipgloss.Style
	Highlight lipgloss.Style
	Null      lipgloss.Style
	Number    lipgloss.Style
	Bool      lipgloss.Style
	Text      lipgloss.Style
}

// DefaultStyles derives table styles from the theme
func DefaultStyles(theme config.Theme) Styles {
	return Styles{
		Base:      lipgloss.NewStyle().Foreground(lipgloss.Color(theme.TextPrimary)),
		Header:    lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Highlight)).Bold(true),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Success)).Bold(true),
		Null:      lipgloss.NewStyle().Foreground(lipgloss.Color(theme.TextFaint)).Italic(true),
		Number:    lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent)),
		Bool:      lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Warning)),
		Text:      lipgloss.NewStyle().Foreground(lipgloss.Color(theme.TextPrimary)),
	}
}

// New creates a bubble-table with the given styles
func New(cols []bbtable.Column, s Styles) bbtable.Model {
	return bbtable.New(cols).
		WithBaseStyle(s.Base).
		HeaderStyle(s.Header).
		HighlightStyle(s.Highlight).
		Focused(true).
		BorderRounded()
}

// RowDetail lays one result row out vertically, one field per line.
// Values wrap at width; nulls use the NULL marker.
func RowDetail(columns []string, row []any, width, pageSize int, s Styles) bbtable.Model {
	fieldWidth := 4
	for _, c := range columns {
		fieldWidth = max(fieldWidth, lipgloss.Width(c))
	}
	fieldWidth = min(fieldWidth+2, 30)
	valueWidth := max(width-fieldWidth-4, 10)

	rows := make([]bbtable.Row, 0, len(columns))
	for i, name := range columns {
		var v any
		if i < len(row) {
			v = row[i]
		}
		text, style := Value(v, s)
		rows = append(rows, bbtable.NewRow(bbtable.RowData{
			colField: name,
			colValue: bbtable.NewStyledCell(text, style),
		}))
	}

	return New([]bbtable.Column{
		bbtable.NewColumn(colField, "Column", fieldWidth),
		bbtable.NewColumn(colValue, "Value", valueWidth),
	}, s).
		WithRows(rows).
		WithPageSize(max(pageSize, 1)).
		WithMultiline(true)
}

// Value renders a result value and picks a style by its type
func Value(v any, s Styles) (string, lipgloss.Style) {
	text, isNull := api.FormatValue(v)
	if isNull {
		return nullMarker, s.Null
	}
	switch v.(type) {
	case bool:
		return text, s.Bool
	case float32, float64, int, int64:
		return text, s.Number
	}
	if _, isNum := v.(interface{ Int64() (int64, error) }); isNum {
		return text, s.Number
	}
	return strings.ReplaceAll(text, "\t", "    "), s.Text
}
