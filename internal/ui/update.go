package ui

import (
	"errors"
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/silver/internal/api"
	"github.com/nhath/silver/internal/config"
	"github.com/nhath/silver/internal/console"
	"github.com/nhath/silver/internal/ui/components/clientselector"
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m = m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case clientselector.DebounceMsg, clientselector.ResultsMsg:
		var cmd tea.Cmd
		m.selector, cmd = m.selector.Update(msg)
		return m, cmd

	case clientselector.SelectedMsg:
		return m.selectClient(msg.Client)

	case ResolvedMsg:
		if !m.conn.Apply(msg.Req, msg.Resp, msg.Err) {
			return m, nil
		}
		if m.conn.Status().Phase != console.Resolved {
			return m, nil
		}
		if m.recent != nil {
			m.selector = m.selector.SetRecent(m.recent.List())
		}
		return m, nil

	case QueryResultMsg:
		if !m.query.Complete(msg.Req, msg.Result, msg.Err) {
			return m, nil
		}
		if sel, ok := m.query.Select(); ok {
			m.grid = m.grid.SetData(sel.ColumnNames(), sel.Rows)
		} else {
			m.grid = m.grid.SetData(nil, nil)
		}
		return m, m.recordHistoryCmd(msg)

	case HistoryRecordedMsg:
		if msg.Err != nil {
			log.Printf("ui: recording history: %v", msg.Err)
		}
		return m, nil

	case HistoryLoadedMsg:
		selected := m.conn.Selected()
		if selected == nil || selected.ID != msg.ClientID || !m.showHistory || msg.Filter != m.historyQuery() {
			return m, nil
		}
		if msg.Err != nil {
			return m, m.setError("Loading history: " + msg.Err.Error())
		}
		m.historyList = m.historyList.SetItems(msg.Entries)
		m.historyTotal = msg.Total
		return m, nil

	case HistoryDeletedMsg:
		if msg.Err != nil {
			return m, m.setError("Deleting history entry: " + msg.Err.Error())
		}
		if !m.showHistory {
			return m, nil
		}
		return m, m.loadHistoryCmd(msg.ClientID, m.historyQuery())

	case ExportCompleteMsg:
		if msg.Err != nil {
			return m, m.setError("Export failed: " + msg.Err.Error())
		}
		return m, m.setStatus(fmt.Sprintf("Exported %s rows to %s", console.FormatCount(int64(msg.Rows)), msg.Path))

	case ClipboardCopiedMsg:
		if msg.Err != nil {
			return m, m.setError(msg.Err.Error())
		}
		return m, m.setStatus("Copied to clipboard")

	case clearStatusMsg:
		if msg.ID == m.statusID {
			m.statusMsg, m.errorMsg = "", ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.selector, cmd = m.selector.Update(msg)
		cmds = append(cmds, cmd)
		if m.query.Executing() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	// Cursor blink and other component messages
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.config.Keys
	key := msg.String()

	if config.Matches(keys.Exit, key) {
		return m, tea.Quit
	}

	if !m.popups.IsEmpty() {
		return m.handlePopupKey(msg)
	}

	switch {
	case config.Matches(keys.FocusNext, key):
		return m.setFocus((m.focus + 1) % 3)
	case key == "shift+tab":
		return m.setFocus((m.focus + 2) % 3)
	case config.Matches(keys.Execute, key):
		return m.runQuery()
	case config.Matches(keys.Cancel, key):
		return m.cancelQuery()
	case config.Matches(keys.ClearClient, key):
		var cmd tea.Cmd
		m.selector, cmd = m.selector.Clear()
		return m, cmd
	case config.Matches(keys.ToggleView, key):
		m.query.ToggleView()
		return m, nil
	case config.Matches(keys.Export, key):
		return m.openExport()
	case config.Matches(keys.Options, key):
		return m.openOptions()
	case config.Matches(keys.History, key):
		return m.openHistory()
	case config.Matches(keys.Help, key):
		return m.openHelp(), nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case FocusSelector:
		m.selector, cmd = m.selector.Update(msg)
	case FocusEditor:
		m.editor, cmd = m.editor.Update(msg)
	case FocusResults:
		return m.handleResultsKey(msg)
	}
	return m, cmd
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.query.View() != console.ResultsView {
		return m, nil
	}
	keys := m.config.Keys
	key := msg.String()

	switch {
	case config.Matches(keys.Inspect, key):
		return m.openInspector(), nil
	case config.Matches(keys.RowDetail, key):
		return m.openRowDetail(), nil
	case config.Matches(keys.Copy, key):
		if _, value, isNull, ok := m.grid.Current(); ok {
			if isNull {
				return m, m.setError("Cell is NULL: nothing to copy")
			}
			return m, copyCmd(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

func (m Model) setFocus(f Focus) (tea.Model, tea.Cmd) {
	m.focus = f
	m.selector = m.selector.Blur()
	m.editor.Blur()
	m.grid = m.grid.Focus(false)

	var cmd tea.Cmd
	switch f {
	case FocusSelector:
		m.selector, cmd = m.selector.Focus()
	case FocusEditor:
		cmd = m.editor.Focus()
	case FocusResults:
		m.grid = m.grid.Focus(true)
	}
	return m, cmd
}

// selectClient starts resolving client, or returns to idle when nil
func (m Model) selectClient(client *api.Client) (tea.Model, tea.Cmd) {
	req, ok := m.conn.Select(client)
	if !m.query.Executing() {
		m.query.Clear()
		m.grid = m.grid.SetData(nil, nil)
	}
	m.historyList = m.historyList.SetItems(nil)
	m.historyTotal = 0
	if !ok {
		return m, nil
	}
	log.Printf("ui: resolving connection for %s", req.ClientID)
	return m, m.resolveCmd(req)
}

// runQuery dispatches the editor contents when every precondition holds
func (m Model) runQuery() (tea.Model, tea.Cmd) {
	client := m.conn.Selected()
	if client == nil {
		return m, nil
	}
	opts := api.ExecuteOptions{MaxRows: m.maxRows, TimeoutSeconds: m.timeoutSeconds}
	req, ok := m.query.Begin(m.conn.Status(), client.ID, m.editor.Value(), opts)
	if !ok {
		return m, nil
	}
	m.grid = m.grid.SetData(nil, nil)
	return m, tea.Batch(m.executeCmd(req, *client), m.spinner.Tick)
}

func (m Model) cancelQuery() (tea.Model, tea.Cmd) {
	if !m.query.Executing() {
		return m, nil
	}
	err := m.query.Cancel()
	if errors.Is(err, console.ErrCancelUnsupported) {
		return m, m.setError("Cannot cancel: the query keeps running on the server")
	}
	return m, nil
}

// layout sizes components from the window
func (m Model) layout() Model {
	innerWidth := max(m.width-2, 10)
	m.selector = m.selector.SetWidth(min(innerWidth/2, 60))
	m.editor.SetWidth(innerWidth)
	m.editor.SetHeight(editorHeight)

	m.grid = m.grid.SetSize(innerWidth, m.resultsHeight())

	m.inspector = m.inspector.SetScreenSize(m.width, m.height)
	m.help = m.help.SetScreenSize(m.width, m.height)
	m.historyList = m.historyList.SetSize(min(m.width-8, 100), max(m.height-12, 5))
	return m
}

// resultsHeight is the room left for the grid: title, header, editor pane
// with options line, tabs, results border and status bar
func (m Model) resultsHeight() int {
	used := 1 + 1 + (editorHeight + 3) + 1 + 2 + 1
	return max(m.height-used, 3)
}
