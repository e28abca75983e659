// Package historylist provides a scrollable list of past executions with
// selection and expansion.
package historylist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/nhath/silver/internal/config"
	"github.com/nhath/silver/internal/history"
	"github.com/nhath/silver/internal/ui/icons"
)

// Styles for the list
type Styles struct {
	Item        lipgloss.Style
	Selected    lipgloss.Style
	Prompt      lipgloss.Style
	Meta        lipgloss.Style
	Error       lipgloss.Style
	SuccessIcon lipgloss.Style
	ErrorIcon   lipgloss.Style
	Empty       lipgloss.Style
}

// DefaultStyles returns styling from the theme
func DefaultStyles(theme config.Theme) Styles {
	return Styles{
		Item:        lipgloss.NewStyle().PaddingLeft(1),
		Selected:    lipgloss.NewStyle().PaddingLeft(1).Background(lipgloss.Color(theme.CardBg)),
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Success)).Bold(true),
		Meta:        lipgloss.NewStyle().Foreground(lipgloss.Color(theme.TextFaint)),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Error)),
		SuccessIcon: lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Success)),
		ErrorIcon:   lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Error)),
		Empty:       lipgloss.NewStyle().Foreground(lipgloss.Color(theme.TextFaint)).Italic(true),
	}
}

// Model represents the list state
type Model struct {
	items    []history.Entry
	selected int
	expanded map[int64]bool
	width    int
	height   int
	viewport viewport.Model
	styles   Styles

	highlightFunc func(string) string
}

// New creates a new list model
func New(styles Styles) Model {
	return Model{
		expanded: make(map[int64]bool),
		viewport: viewport.New(80, 10),
		styles:   styles,
	}
}

// SetItems replaces the items in the list, newest first
func (m Model) SetItems(items []history.Entry) Model {
	m.items = items
	m.selected = 0
	m.updateViewport()
	m.viewport.GotoTop()
	return m
}

// SetSize sets the component dimensions
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.updateViewport()
	return m
}

// SetHighlightFunc sets a syntax highlighting function for queries
func (m Model) SetHighlightFunc(fn func(string) string) Model {
	m.highlightFunc = fn
	m.updateViewport()
	return m
}

// Len returns the number of items
func (m Model) Len() int {
	return len(m.items)
}

// Selected returns the currently selected index
func (m Model) Selected() int {
	return m.selected
}

// SelectedItem returns the currently selected entry
func (m Model) SelectedItem() (history.Entry, bool) {
	if m.selected >= 0 && m.selected < len(m.items) {
		return m.items[m.selected], true
	}
	return history.Entry{}, false
}

// IsExpanded returns whether an item shows its full query
func (m Model) IsExpanded(id int64) bool {
	return m.expanded[id]
}

// ToggleExpanded toggles expansion for the selected item
func (m Model) ToggleExpanded() Model {
	if item, ok := m.SelectedItem(); ok {
		m.expanded[item.ID] = !m.expanded[item.ID]
		m.updateViewport()
		m = m.ensureVisible()
	}
	return m
}

// MoveUp moves selection up
func (m Model) MoveUp() Model {
	if m.selected > 0 {
		m.selected--
		m.updateViewport()
		m = m.ensureVisible()
	}
	return m
}

// MoveDown moves selection down
func (m Model) MoveDown() Model {
	if m.selected < len(m.items)-1 {
		m.selected++
		m.updateViewport()
		m = m.ensureVisible()
	}
	return m
}

// Update handles navigation keys
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "k":
			return m.MoveUp(), nil
		case "down", "j":
			return m.MoveDown(), nil
		case " ", "tab":
			return m.ToggleExpanded(), nil
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the list
func (m Model) View() string {
	if len(m.items) == 0 {
		return m.styles.Empty.Render("No queries run against this client yet.")
	}
	return m.viewport.View()
}

// updateViewport refreshes the viewport content
func (m *Model) updateViewport() {
	sections := make([]string, 0, len(m.items))
	for i := range m.items {
		sections = append(sections, m.renderItem(i))
	}
	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderItem renders a single item
func (m *Model) renderItem(i int) string {
	if i < 0 || i >= len(m.items) {
		return ""
	}
	item := m.items[i]

	style := m.styles.Item
	if i == m.selected {
		style = m.styles.Selected
	}
	if m.width > 2 {
		style = style.Width(m.width - 2)
	}

	var content strings.Builder

	// Query Line
	content.WriteString(m.styles.Prompt.Render("> "))
	queryText := item.QueryPreview(max(m.width-10, 10))
	if m.expanded[item.ID] {
		queryText = item.Query
	}
	if m.highlightFunc != nil {
		queryText = m.highlightFunc(queryText)
	}
	content.WriteString(queryText)
	content.WriteString("\n")

	// Meta Line
	statusIcon, iconStyle := icons.IconSuccess, m.styles.SuccessIcon
	if item.Status == history.StatusError {
		statusIcon, iconStyle = icons.IconError, m.styles.ErrorIcon
	}
	meta := fmt.Sprintf(" %dms | %s rows | %s",
		item.DurationMs, humanize.Comma(item.RowCount), humanize.Time(item.ExecutedAt))
	content.WriteString(iconStyle.Render("  "+statusIcon) + m.styles.Meta.Render(meta))

	// Error message
	if item.ErrorMessage != "" {
		content.WriteString("\n")
		content.WriteString(m.styles.Error.Render("  " + item.ErrorMessage))
	}

	return style.Render(content.String())
}

// ensureVisible keeps the selected item in view
func (m Model) ensureVisible() Model {
	if len(m.items) == 0 {
		return m
	}

	top := 0
	for i := 0; i < m.selected; i++ {
		top += lipgloss.Height(m.renderItem(i))
	}
	bottom := top + lipgloss.Height(m.renderItem(m.selected))

	vTop := m.viewport.YOffset
	vBottom := vTop + m.viewport.Height

	if top < vTop {
		m.viewport.SetYOffset(top)
	} else if bottom > vBottom {
		m.viewport.SetYOffset(bottom - m.viewport.Height)
	}

	return m
}
