// Package grid renders large result sets by materializing only the cells
// that fit the viewport. Every column has the same width and every row is a
// single terminal line, so the visible window is pure arithmetic.
package grid

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/nhath/silver/internal/api"
	"github.com/nhath/silver/internal/config"
)

const (
	// DefaultColumnWidth is used when no width is configured
	DefaultColumnWidth = 20

	// NullMarker is displayed for null cells
	NullMarker = "NULL"

	// NoColumns is shown instead of a grid when the result has no columns
	NoColumns = "No columns"

	ellipsis = "…"

	// header line + footer line
	chromeLines = 2
)

// Window is the visible slice of the grid. Rows index data rows (the header
// is always drawn) and both ranges are half-open.
type Window struct {
	FirstRow, LastRow int
	FirstCol, LastCol int
}

// Styles for the grid
type Styles struct {
	Header lipgloss.Style
	Cell   lipgloss.Style
	Null   lipgloss.Style
	Cursor lipgloss.Style
	Footer lipgloss.Style
	Empty  lipgloss.Style
}

// DefaultStyles derives grid styles from the theme
func DefaultStyles(theme config.Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Highlight)).
			Bold(true),
		Cell: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.TextPrimary)),
		Null: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.TextFaint)).
			Italic(true),
		Cursor: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.BgPrimary)).
			Background(lipgloss.Color(theme.Accent)),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.TextSecondary)),
		Empty: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.TextFaint)).
			Italic(true),
	}
}

// Model is the grid state
type Model struct {
	columns  []string
	rows     [][]any
	colWidth int

	width, height int

	rowOffset, colOffset int
	cursorRow, cursorCol int

	focused bool
	styles  Styles
}

// New creates an empty grid. colWidth <= 0 falls back to DefaultColumnWidth.
func New(colWidth int, styles Styles) Model {
	if colWidth <= 0 {
		colWidth = DefaultColumnWidth
	}
	return Model{colWidth: colWidth, styles: styles}
}

// SetData replaces the data and moves the cursor home
func (m Model) SetData(columns []string, rows [][]any) Model {
	m.columns = columns
	m.rows = rows
	m.rowOffset, m.colOffset = 0, 0
	m.cursorRow, m.cursorCol = 0, 0
	return m
}

// SetSize sets the viewport in terminal cells, footer included
func (m Model) SetSize(width, height int) Model {
	m.width = max(width, 0)
	m.height = max(height, 0)
	m.scrollToCursor()
	return m
}

// Focus toggles cursor highlighting and key handling
func (m Model) Focus(focused bool) Model {
	m.focused = focused
	return m
}

// Focused reports whether the grid takes keys
func (m Model) Focused() bool { return m.focused }

// ColumnWidth returns the fixed cell width
func (m Model) ColumnWidth() int { return m.colWidth }

// RowCount returns the number of data rows
func (m Model) RowCount() int { return len(m.rows) }

// ColumnCount returns the number of columns
func (m Model) ColumnCount() int { return len(m.columns) }

// Cursor returns the zero-based data row and column under the cursor
func (m Model) Cursor() (row, col int) { return m.cursorRow, m.cursorCol }

func (m Model) pageRows() int {
	return max(m.height-chromeLines, 0)
}

// fullCols is the number of columns that fit without being clipped
func (m Model) fullCols() int {
	return max(m.width/m.colWidth, 1)
}

// Window computes the visible cells from the viewport, the scroll offsets
// and the fixed cell size.
func (m Model) Window() Window {
	visibleRows := min(m.pageRows(), max(len(m.rows)-m.rowOffset, 0))
	visibleCols := 0
	if m.width > 0 {
		visibleCols = (m.width + m.colWidth - 1) / m.colWidth
	}
	visibleCols = min(visibleCols, max(len(m.columns)-m.colOffset, 0))

	return Window{
		FirstRow: m.rowOffset,
		LastRow:  m.rowOffset + visibleRows,
		FirstCol: m.colOffset,
		LastCol:  m.colOffset + visibleCols,
	}
}

// Cell returns the display text of (row, col) where row 0 is the header and
// row r > 0 is data row r-1. The text is not truncated.
func (m Model) Cell(row, col int) (text string, isNull bool) {
	if col < 0 || col >= len(m.columns) {
		return "", false
	}
	if row == 0 {
		return m.columns[col], false
	}
	r := row - 1
	if r < 0 || r >= len(m.rows) || col >= len(m.rows[r]) {
		return "", true
	}
	return api.FormatValue(m.rows[r][col])
}

// Current returns the column name and full value under the cursor
func (m Model) Current() (column, value string, isNull, ok bool) {
	if len(m.rows) == 0 || len(m.columns) == 0 {
		return "", "", false, false
	}
	value, isNull = m.Cell(m.cursorRow+1, m.cursorCol)
	return m.columns[m.cursorCol], value, isNull, true
}

// CurrentRow returns the data row under the cursor
func (m Model) CurrentRow() ([]any, bool) {
	if m.cursorRow < 0 || m.cursorRow >= len(m.rows) {
		return nil, false
	}
	return m.rows[m.cursorRow], true
}

// Update handles navigation keys while focused
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}

	page := max(m.pageRows(), 1)
	switch key.String() {
	case "up", "k":
		m.cursorRow--
	case "down", "j":
		m.cursorRow++
	case "left", "h":
		m.cursorCol--
	case "right", "l":
		m.cursorCol++
	case "pgup", "ctrl+b":
		m.cursorRow -= page
	case "pgdown", "ctrl+f":
		m.cursorRow += page
	case "g", "home":
		m.cursorRow = 0
	case "G", "end":
		m.cursorRow = len(m.rows) - 1
	case "0", "^":
		m.cursorCol = 0
	case "$":
		m.cursorCol = len(m.columns) - 1
	default:
		return m, nil
	}
	m.scrollToCursor()
	return m, nil
}

// scrollToCursor clamps the cursor and moves the offsets so it stays visible
func (m *Model) scrollToCursor() {
	m.cursorRow = clamp(m.cursorRow, 0, len(m.rows)-1)
	m.cursorCol = clamp(m.cursorCol, 0, len(m.columns)-1)

	page := max(m.pageRows(), 1)
	if m.cursorRow < m.rowOffset {
		m.rowOffset = m.cursorRow
	}
	if m.cursorRow >= m.rowOffset+page {
		m.rowOffset = m.cursorRow - page + 1
	}
	m.rowOffset = clamp(m.rowOffset, 0, len(m.rows)-page)

	cols := m.fullCols()
	if m.cursorCol < m.colOffset {
		m.colOffset = m.cursorCol
	}
	if m.cursorCol >= m.colOffset+cols {
		m.colOffset = m.cursorCol - cols + 1
	}
	m.colOffset = clamp(m.colOffset, 0, len(m.columns)-cols)
}

// View renders the header, the visible rows and the footer
func (m Model) View() string {
	if len(m.columns) == 0 {
		return m.styles.Empty.Render(NoColumns)
	}

	w := m.Window()
	lines := make([]string, 0, w.LastRow-w.FirstRow+chromeLines)
	lines = append(lines, m.renderLine(0, w))
	for r := w.FirstRow; r < w.LastRow; r++ {
		lines = append(lines, m.renderLine(r+1, w))
	}
	lines = append(lines, m.styles.Footer.Render(m.Footer()))
	return strings.Join(lines, "\n")
}

// Footer describes the cursor position
func (m Model) Footer() string {
	row := 0
	if len(m.rows) > 0 {
		row = m.cursorRow + 1
	}
	return fmt.Sprintf("row %s/%s · col %d/%d",
		humanize.Comma(int64(row)), humanize.Comma(int64(len(m.rows))),
		m.cursorCol+1, len(m.columns))
}

func (m Model) renderLine(row int, w Window) string {
	var b strings.Builder
	used := 0
	for c := w.FirstCol; c < w.LastCol; c++ {
		cellWidth := min(m.colWidth, m.width-used)
		if cellWidth <= 0 {
			break
		}
		used += cellWidth

		text, isNull := m.Cell(row, c)
		style := m.styles.Cell
		switch {
		case row == 0:
			style = m.styles.Header
		case isNull:
			text = NullMarker
			style = m.styles.Null
		}
		if m.focused && row > 0 && row-1 == m.cursorRow && c == m.cursorCol {
			style = m.styles.Cursor
		}

		// one trailing cell separates columns
		content := Fit(text, cellWidth-1)
		b.WriteString(style.Render(content))
		if cellWidth > runewidth.StringWidth(content) {
			b.WriteString(strings.Repeat(" ", cellWidth-runewidth.StringWidth(content)))
		}
	}
	return b.String()
}

// Fit flattens s onto one line and pads or truncates it to exactly width cells
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = flatten(s)
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, ellipsis)
	}
	return runewidth.FillRight(s, width)
}

var flattener = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

func flatten(s string) string {
	return flattener.Replace(s)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
