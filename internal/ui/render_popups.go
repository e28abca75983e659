package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/nhath/silver/internal/console"
)

// renderPopups composites every open popup over main, oldest first
func (m Model) renderPopups(main string) string {
	if m.showRow {
		main = m.composite(m.renderRowDetail(), main)
	}
	if m.showHistory {
		main = m.composite(m.renderHistory(), main)
	}
	if m.inspector.Visible() {
		main = m.composite(m.inspector.View(), main)
	}
	if m.showExport {
		main = m.composite(m.renderExport(), main)
	}
	if m.showOptions {
		main = m.composite(m.renderOptions(), main)
	}
	if m.help.Visible() {
		main = m.composite(m.help.View(), main)
	}
	return main
}

func (m Model) composite(box, main string) string {
	return overlay.Composite(box, main, overlay.Center, overlay.Center, 0, 0)
}

func popupBox(title, body, footer string, width int) string {
	var content strings.Builder
	content.WriteString(LabelStyle.Render(title))
	content.WriteString("\n\n")
	content.WriteString(body)
	if footer != "" {
		content.WriteString("\n\n")
		content.WriteString(lipgloss.NewStyle().Faint(true).Render(footer))
	}
	return PopupStyle.Width(width).Render(content.String())
}

func (m Model) renderRowDetail() string {
	row, _ := m.grid.Cursor()
	title := "Row " + strconv.Itoa(row+1)
	return popupBox(title, m.rowTable.View(), "←/→: page · esc: close", min(m.width-4, 110))
}

func (m Model) renderHistory() string {
	title := "History"
	if c := m.conn.Selected(); c != nil {
		title += " · " + c.Name
	}
	if m.historyTotal > 0 {
		title += fmt.Sprintf(" (%s)", console.FormatCount(int64(m.historyTotal)))
	}
	list := m.historyList.View()
	if m.historyList.Len() == 0 && m.historyQuery() != "" {
		list = PlaceholderStyle.Render("No queries match the filter.")
	}
	body := m.historyFilter.View() + "\n\n" + list
	return popupBox(title, body, "enter: load · tab: expand · ctrl+d: delete · esc: close", min(m.width-4, 104))
}

func (m Model) renderExport() string {
	body := "Enter a file name (.csv or .xlsx):\n\n" + m.exportInput.View()
	return popupBox("Export Results", body, "enter: export · esc: cancel", 56)
}

func (m Model) renderOptions() string {
	var body strings.Builder
	for i, in := range m.optionInputs {
		if i > 0 {
			body.WriteString("\n")
		}
		body.WriteString(in.View())
	}
	if m.optionsErr != "" {
		body.WriteString("\n\n" + ErrorStyle.Render(m.optionsErr))
	}
	footer := "tab: next field · enter: apply · esc: cancel"
	return popupBox("Execution Options", body.String(), footer, 48)
}
