// Package popup provides a reusable modal popup component.
package popup

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/nhath/silver/internal/config"
)

// Styles for the popup
type Styles struct {
	Box    lipgloss.Style
	Header lipgloss.Style
	Body   lipgloss.Style
	Footer lipgloss.Style
}

// DefaultStyles returns styling from the theme
func DefaultStyles(theme config.Theme) Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(theme.Highlight)).
			Padding(1, 2),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(theme.Accent)),
		Body: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.TextPrimary)),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.TextFaint)).
			Italic(true),
	}
}

// Model represents the popup state. Content is wrapped to the box width
// and split into pages so the box never outgrows the screen.
type Model struct {
	visible   bool
	title     string
	content   string
	lines     []string
	footer    string
	maxWidth  int
	maxHeight int
	page      int
	styles    Styles
}

// New creates a new popup model
func New(styles Styles) Model {
	return Model{
		maxWidth:  100,
		maxHeight: 20,
		styles:    styles,
	}
}

// SetScreenSize sizes the box relative to the screen
func (m Model) SetScreenSize(w, h int) Model {
	m.maxWidth = max(min(100, w-4), 20)
	m.maxHeight = max(h-4, 8)
	return m.reflow()
}

// Show makes the popup visible with content
func (m Model) Show(title, content, footer string) Model {
	m.visible = true
	m.title = title
	m.content = content
	m.footer = footer
	m.page = 0
	return m.reflow()
}

// textWidth is the room for content inside the box padding
func (m Model) textWidth() int {
	return max(m.maxWidth-m.styles.Box.GetHorizontalPadding(), 1)
}

// reflow wraps content to the text width, breaking words longer than a line
func (m Model) reflow() Model {
	w := m.textWidth()
	text := strings.ReplaceAll(m.content, "\t", "    ")
	text = wrap.String(wordwrap.String(text, w), w)
	m.lines = strings.Split(text, "\n")
	m.page = min(m.page, m.TotalPages()-1)
	return m
}

// Hide hides the popup
func (m Model) Hide() Model {
	m.visible = false
	return m
}

// Visible returns visibility state
func (m Model) Visible() bool {
	return m.visible
}

// Page returns current page
func (m Model) Page() int {
	return m.page
}

// bodyLines is the room left for content inside border, padding, title and footer
func (m Model) bodyLines() int {
	chrome := 4
	if m.title != "" {
		chrome += 2
	}
	if m.footer != "" {
		chrome += 2
	}
	return max(m.maxHeight-chrome, 1)
}

// TotalPages returns the number of content pages
func (m Model) TotalPages() int {
	per := m.bodyLines()
	return max((len(m.lines)+per-1)/per, 1)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "q", "esc":
			m.visible = false
		case "n", "pgdown", "down", "j":
			if m.page < m.TotalPages()-1 {
				m.page++
			}
		case "p", "pgup", "up", "k":
			if m.page > 0 {
				m.page--
			}
		}
	}

	return m, nil
}

// View renders the popup box
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	var b strings.Builder

	if m.title != "" {
		b.WriteString(m.styles.Header.Render(m.title))
		b.WriteString("\n\n")
	}

	per := m.bodyLines()
	start := min(m.page*per, len(m.lines))
	end := min(start+per, len(m.lines))
	b.WriteString(m.styles.Body.Render(strings.Join(m.lines[start:end], "\n")))

	footer := m.footer
	if pages := m.TotalPages(); pages > 1 {
		footer = strings.TrimSpace(fmt.Sprintf("Page %d/%d [n]ext [p]rev  %s", m.page+1, pages, footer))
	}
	if footer != "" {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Footer.Render(footer))
	}

	return m.styles.Box.
		Width(m.maxWidth).
		Render(b.String())
}
