package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/silver/internal/export"
	"github.com/nhath/silver/internal/ui/components/grid"
	"github.com/nhath/silver/internal/ui/components/table"
)

const (
	popupInspector = "inspector"
	popupRow       = "row"
	popupExport    = "export"
	popupOptions   = "options"
	popupHistory   = "history"
	popupHelp      = "help"
)

func (m Model) openInspector() Model {
	column, value, isNull, ok := m.grid.Current()
	if !ok {
		return m
	}
	if isNull {
		value = grid.NullMarker
	}
	row, col := m.grid.Cursor()
	title := fmt.Sprintf("%s  (row %d, col %d)", column, row+1, col+1)
	m.inspector = m.inspector.Show(title, value, "y: copy · esc: close")
	m.popups.Push(popupInspector, func(m *Model) bool {
		open := m.inspector.Visible()
		m.inspector = m.inspector.Hide()
		return open
	})
	return m
}

func (m Model) openRowDetail() Model {
	values, ok := m.grid.CurrentRow()
	if !ok {
		return m
	}
	sel, _ := m.query.Select()
	width := min(m.width-8, 100)
	m.rowTable = table.RowDetail(sel.ColumnNames(), values, width, max(m.height-12, 5), m.tableStyles)
	m.showRow = true
	m.popups.Push(popupRow, func(m *Model) bool {
		open := m.showRow
		m.showRow = false
		return open
	})
	return m
}

func (m Model) openExport() (tea.Model, tea.Cmd) {
	if _, ok := m.query.Select(); !ok {
		return m, nil
	}
	m.exportInput.SetValue(export.DefaultFilename)
	m.exportInput.CursorEnd()
	cmd := m.exportInput.Focus()
	m.showExport = true
	m.popups.Push(popupExport, func(m *Model) bool {
		open := m.showExport
		m.showExport = false
		m.exportInput.Blur()
		return open
	})
	return m, cmd
}

func (m Model) openOptions() (tea.Model, tea.Cmd) {
	m.optionInputs[0].SetValue(strconv.Itoa(m.maxRows))
	m.optionInputs[1].SetValue(strconv.Itoa(m.timeoutSeconds))
	m.optionFocus = 0
	m.optionsErr = ""
	m.optionInputs[1].Blur()
	cmd := m.optionInputs[0].Focus()
	m.showOptions = true
	m.popups.Push(popupOptions, func(m *Model) bool {
		open := m.showOptions
		m.showOptions = false
		for i := range m.optionInputs {
			m.optionInputs[i].Blur()
		}
		return open
	})
	return m, cmd
}

func (m Model) openHistory() (tea.Model, tea.Cmd) {
	client := m.conn.Selected()
	if client == nil || m.historyStore == nil {
		return m, nil
	}
	m.historyFilter.SetValue("")
	focus := m.historyFilter.Focus()
	m.showHistory = true
	m.popups.Push(popupHistory, func(m *Model) bool {
		open := m.showHistory
		m.showHistory = false
		m.historyFilter.Blur()
		return open
	})
	return m, tea.Batch(focus, m.loadHistoryCmd(client.ID, ""))
}

func (m Model) historyQuery() string {
	return strings.TrimSpace(m.historyFilter.Value())
}

func (m Model) openHelp() Model {
	m.help = m.help.Show("Keyboard Shortcuts", m.helpContent(), "esc: close")
	m.popups.Push(popupHelp, func(m *Model) bool {
		open := m.help.Visible()
		m.help = m.help.Hide()
		return open
	})
	return m
}

// handlePopupKey routes keys to the topmost popup
func (m Model) handlePopupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "esc" {
		m.popups.CloseTop(&m)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.popups.TopName() {
	case popupInspector:
		if key == "y" {
			if _, value, isNull, ok := m.grid.Current(); ok && !isNull {
				return m, copyCmd(value)
			}
			return m, nil
		}
		m.inspector, cmd = m.inspector.Update(msg)
		if !m.inspector.Visible() {
			m.popups.Pop()
		}

	case popupHelp:
		m.help, cmd = m.help.Update(msg)
		if !m.help.Visible() {
			m.popups.Pop()
		}

	case popupRow:
		if key == "q" {
			m.popups.CloseTop(&m)
			return m, nil
		}
		m.rowTable, cmd = m.rowTable.Update(msg)

	case popupExport:
		if key == "enter" {
			name := strings.TrimSpace(m.exportInput.Value())
			m.popups.CloseTop(&m)
			return m, m.exportCmd(name)
		}
		m.exportInput, cmd = m.exportInput.Update(msg)

	case popupOptions:
		return m.handleOptionsKey(msg)

	case popupHistory:
		return m.handleHistoryKey(msg)
	}
	return m, cmd
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	client := m.conn.Selected()
	if client == nil {
		return m, nil
	}

	var cmd tea.Cmd
	switch msg.String() {
	case "enter":
		entry, ok := m.historyList.SelectedItem()
		if !ok {
			return m, nil
		}
		m.popups.CloseTop(&m)
		m.editor.SetValue(entry.Query)
		return m.setFocus(FocusEditor)

	case "ctrl+d":
		entry, ok := m.historyList.SelectedItem()
		if !ok {
			return m, nil
		}
		return m, m.deleteHistoryCmd(client.ID, entry.ID)

	case "up", "down", "tab":
		m.historyList, cmd = m.historyList.Update(msg)
		return m, cmd
	}

	before := m.historyQuery()
	m.historyFilter, cmd = m.historyFilter.Update(msg)
	if after := m.historyQuery(); after != before {
		return m, tea.Batch(cmd, m.loadHistoryCmd(client.ID, after))
	}
	return m, cmd
}

func (m Model) handleOptionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.optionInputs[m.optionFocus].Blur()
		m.optionFocus = (m.optionFocus + 1) % len(m.optionInputs)
		return m, m.optionInputs[m.optionFocus].Focus()

	case "enter":
		maxRows, err := parsePositive(m.optionInputs[0].Value())
		if err != nil {
			m.optionsErr = "Max rows " + err.Error()
			return m, nil
		}
		timeout, err := parsePositive(m.optionInputs[1].Value())
		if err != nil {
			m.optionsErr = "Timeout " + err.Error()
			return m, nil
		}
		if timeout > maxTimeoutSeconds {
			m.optionsErr = fmt.Sprintf("Timeout must be at most %d seconds", maxTimeoutSeconds)
			return m, nil
		}
		m.maxRows, m.timeoutSeconds = maxRows, timeout
		m.popups.CloseTop(&m)
		return m, m.setStatus(fmt.Sprintf("Options: max rows %d, timeout %ds", maxRows, timeout))
	}

	var cmd tea.Cmd
	m.optionInputs[m.optionFocus], cmd = m.optionInputs[m.optionFocus].Update(msg)
	return m, cmd
}

// maxTimeoutSeconds caps the per-query timeout at one day
const maxTimeoutSeconds = 86400

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("must be a positive number")
	}
	return n, nil
}
