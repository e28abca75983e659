package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/nhath/silver/internal/api"
	"github.com/nhath/silver/internal/console"
	"github.com/nhath/silver/internal/ui/highlight"
	"github.com/nhath/silver/internal/ui/icons"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		m.renderHeader(),
		m.renderEditor(),
		m.renderResults(),
		m.renderStatusBar(),
	)

	// Client options drop below the header line
	if dropdown := m.selector.DropdownView(); dropdown != "" && m.popups.IsEmpty() {
		main = overlay.Composite(dropdown, main, overlay.Left, overlay.Top, 1, 2)
	}

	return m.renderPopups(main)
}

func (m Model) renderTitle() string {
	title := TitleStyle.Render("silver")
	meta := MetaStyle.Render(" SQL console")
	return lipgloss.NewStyle().Width(m.width).Render(title + meta)
}

// statusChip labels the connection phase
func statusChip(s console.Status) string {
	icon := icons.ForPhase(s.Phase.String())
	switch s.Phase {
	case console.Resolving:
		return ChipBusyStyle.Render(icon + " Resolving...")
	case console.Resolved:
		return ChipOKStyle.Render(icon + " Connected")
	case console.Failed:
		return ChipFailedStyle.Render(icon + " Failed")
	default:
		return ChipIdleStyle.Render(icon + " No Client")
	}
}

func (m Model) renderHeader() string {
	status := m.conn.Status()
	parts := []string{m.selector.View(), "  ", statusChip(status)}
	if status.Message != "" {
		style := MetaStyle
		if status.Phase == console.Failed {
			style = ErrorStyle
		}
		parts = append(parts, " ", style.Render(status.Message))
	}
	line := lipgloss.JoinHorizontal(lipgloss.Left, parts...)
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}

func (m Model) renderEditor() string {
	pane := PaneStyle
	if m.focus == FocusEditor {
		pane = PaneFocusedStyle
	}

	body := m.editor.View()
	if m.focus != FocusEditor && strings.TrimSpace(m.editor.Value()) != "" {
		body = m.highlightedEditor()
	}

	options := MetaStyle.Render(fmt.Sprintf("max rows: %s · timeout: %ds",
		console.FormatCount(int64(m.maxRows)), m.timeoutSeconds))

	return pane.Width(max(m.width-2, 10)).Render(body + "\n" + options)
}

// highlightedEditor shows the SQL with syntax colors, padded to the editor height
func (m Model) highlightedEditor() string {
	lines := strings.Split(highlight.SQL(m.editor.Value(), m.highlightStyle), "\n")
	if len(lines) > editorHeight {
		lines = lines[:editorHeight]
	}
	for len(lines) < editorHeight {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderTabs() string {
	sel, isSelect := m.query.Select()

	results := "Results"
	if isSelect {
		results = fmt.Sprintf("Results (%s)", console.FormatCount(sel.RowTotal()))
	}

	resultsTab, messagesTab := TabStyle, TabStyle
	switch {
	case !isSelect:
		resultsTab = TabDisabledStyle
	case m.query.View() == console.ResultsView:
		resultsTab = TabActiveStyle
	}
	if m.query.Outcome() != nil && m.query.View() == console.MessagesView {
		messagesTab = TabActiveStyle
	}

	tabs := resultsTab.Render(results) + MetaStyle.Render("|") + messagesTab.Render("Messages")
	if isSelect && sel.HasMore {
		tabs += WarningStyle.Render("  more rows available")
	}
	return tabs
}

func (m Model) renderResults() string {
	pane := PaneStyle
	if m.focus == FocusResults {
		pane = PaneFocusedStyle
	}
	height := m.resultsHeight()
	innerWidth := max(m.width-2, 10)

	var body string
	switch {
	case m.query.Executing():
		body = m.spinner.View() + " Running query..."
	case m.query.Outcome() == nil:
		body = PlaceholderStyle.Render(placeholder)
	case m.query.View() == console.ResultsView:
		body = m.grid.View()
	default:
		body = renderMessages(m.query.Outcome(), innerWidth)
	}

	body = lipgloss.NewStyle().Height(height).MaxHeight(height).Render(body)
	return m.renderTabs() + "\n" + pane.Width(innerWidth).Render(body)
}

type hint struct {
	keys []string
	desc string
}

// hints lists the actions currently available
func (m Model) hints() []hint {
	k := m.config.Keys
	_, isSelect := m.query.Select()
	client := m.conn.Selected()

	var hs []hint
	if client != nil && m.query.CanRun(m.conn.Status(), client.ID, m.editor.Value()) {
		hs = append(hs, hint{k.Execute, "run"})
	}
	if m.query.Executing() {
		hs = append(hs, hint{k.Cancel, "cancel"})
	}
	hs = append(hs, hint{k.FocusNext, "focus"})
	if client != nil {
		hs = append(hs, hint{k.ClearClient, "clear client"})
	}
	if isSelect {
		hs = append(hs, hint{k.Export, "export"})
		if m.focus == FocusResults && m.query.View() == console.ResultsView {
			hs = append(hs, hint{k.Inspect, "inspect"}, hint{k.RowDetail, "row"}, hint{k.Copy, "copy"})
		}
	}
	if client != nil && m.historyStore != nil {
		hs = append(hs, hint{k.History, "history"})
	}
	hs = append(hs, hint{k.Options, "options"}, hint{k.Help, "help"}, hint{k.Exit, "quit"})
	return hs
}

func (m Model) renderStatusBar() string {
	var parts []string
	for _, h := range m.hints() {
		if len(h.keys) == 0 {
			continue
		}
		parts = append(parts, HintKeyStyle.Render(h.keys[0])+HintDescStyle.Render(h.desc))
	}

	switch {
	case m.errorMsg != "":
		parts = append(parts, ChipFailedStyle.Render(icons.IconError+" "+m.errorMsg))
	case m.statusMsg != "":
		parts = append(parts, ChipOKStyle.Render(icons.IconSuccess+" "+m.statusMsg))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Left, parts...)
	return StatusBarStyle.Width(m.width).MaxWidth(m.width).Render(content)
}

func (m Model) helpContent() string {
	k := m.config.Keys
	var b strings.Builder

	section := func(name string, bindings []hint) {
		b.WriteString(LabelStyle.Render(name) + "\n")
		for _, h := range bindings {
			b.WriteString(fmt.Sprintf("  %s %s\n",
				SuccessStyle.Width(16).Render(strings.Join(h.keys, "/")), h.desc))
		}
		b.WriteString("\n")
	}

	section("Console", []hint{
		{k.Execute, "Run query"},
		{k.Cancel, "Cancel query"},
		{k.FocusNext, "Next pane"},
		{k.ClearClient, "Clear client"},
		{k.ToggleView, "Toggle Results/Messages"},
		{k.Options, "Execution options"},
		{k.History, "Query history"},
		{k.Export, "Export results (.csv or .xlsx)"},
		{k.Exit, "Quit"},
	})
	section("Results", []hint{
		{[]string{"↑↓←→", "hjkl"}, "Move cursor"},
		{[]string{"pgup", "pgdown"}, "Page"},
		{[]string{"g", "G"}, "First/last row"},
		{[]string{"0", "$"}, "First/last column"},
		{k.Inspect, "Inspect cell"},
		{k.RowDetail, "Row detail"},
		{k.Copy, "Copy cell"},
	})
	return strings.TrimRight(b.String(), "\n")
}

// renderMessages shows the error or the execution summary
func renderMessages(outcome api.Outcome, width int) string {
	wrap := lipgloss.NewStyle().Width(max(width-2, 10))
	var lines []string

	switch o := outcome.(type) {
	case *api.QueryError:
		lines = append(lines, ErrorStyle.Render("Error: "+o.Code), wrap.Render(o.Message))
		if o.Hint != "" {
			lines = append(lines, "", LabelStyle.Render("Hint: ")+wrap.Render(o.Hint))
		}

	case *api.SelectResult:
		lines = append(lines,
			SuccessStyle.Render(icons.IconSuccess+" SELECT"),
			"Duration: "+console.FormatDuration(o.DurationMs),
			"Rows returned: "+console.FormatCount(o.RowTotal()),
		)
		if o.HasMore {
			lines = append(lines, WarningStyle.Render("Results limited by max rows setting"))
		}

	case *api.NonSelectResult:
		statement := strings.ToUpper(o.StatementType)
		if statement == "" {
			statement = "STATEMENT"
		}
		lines = append(lines,
			SuccessStyle.Render(icons.IconSuccess+" "+statement),
			"Duration: "+console.FormatDuration(o.DurationMs),
			"Rows affected: "+console.FormatCount(o.RowsAffected),
		)
		if len(o.Messages) > 0 {
			lines = append(lines, "", LabelStyle.Render("Messages"))
			for _, msg := range o.Messages {
				lines = append(lines, wrap.Render(icons.IconBullet+" "+msg))
			}
		}
		if len(o.Warnings) > 0 {
			lines = append(lines, "", WarningStyle.Render("Warnings"))
			for _, w := range o.Warnings {
				lines = append(lines, WarningStyle.Render(icons.IconError+" ")+wrap.Render(w))
			}
		}
	}
	return strings.Join(lines, "\n")
}
