package ui

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/silver/internal/api"
	"github.com/nhath/silver/internal/console"
	"github.com/nhath/silver/internal/export"
	"github.com/nhath/silver/internal/history"
)

const (
	statusTTL = 4 * time.Second
	// executeMargin is added to the query timeout so the server reports
	// its own timeout before the client gives up
	executeMargin = 10 * time.Second
)

// writeClipboard is swapped in tests
var writeClipboard = clipboard.WriteAll

func (m Model) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.config.RequestTimeout())
}

// executeTimeout is the local deadline for a query allowed to run for
// timeoutSeconds on the server
func executeTimeout(requestTimeout time.Duration, timeoutSeconds int) time.Duration {
	return max(requestTimeout, time.Duration(timeoutSeconds)*time.Second+executeMargin)
}

// resolveCmd resolves the connection of the selected client
func (m Model) resolveCmd(req console.ResolveRequest) tea.Cmd {
	backend := m.backend
	ctx, cancel := m.requestContext()
	return func() tea.Msg {
		defer cancel()
		resp, err := backend.ResolveConnection(ctx, req.ClientID)
		return ResolvedMsg{Req: req, Resp: resp, Err: err}
	}
}

// executeCmd runs a query against the backend
func (m Model) executeCmd(req console.ExecuteRequest, client api.Client) tea.Cmd {
	backend := m.backend
	timeout := executeTimeout(m.config.RequestTimeout(), req.Request.Options.TimeoutSeconds)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	return func() tea.Msg {
		defer cancel()
		start := time.Now()
		result, err := backend.ExecuteQuery(ctx, req.Request)
		elapsed := time.Since(start)
		if err != nil {
			log.Printf("ui: execute on %s failed after %s: %v", client.ID, elapsed, err)
		} else {
			log.Printf("ui: execute on %s finished in %s", client.ID, elapsed)
		}
		return QueryResultMsg{Req: req, Client: client, Result: result, Err: err, Elapsed: elapsed}
	}
}

// recordHistoryCmd appends a finished execution to the local history
func (m Model) recordHistoryCmd(msg QueryResultMsg) tea.Cmd {
	if m.historyStore == nil {
		return nil
	}
	store := m.historyStore

	entry := &history.Entry{
		ClientID:   msg.Client.ID,
		ClientName: msg.Client.Name,
		Query:      msg.Req.Request.SQL,
		ExecutedAt: time.Now(),
		DurationMs: msg.Elapsed.Milliseconds(),
		Status:     history.StatusSuccess,
	}
	switch res := m.query.Outcome().(type) {
	case *api.SelectResult:
		entry.DurationMs = res.DurationMs
		entry.RowCount = res.RowTotal()
	case *api.NonSelectResult:
		entry.DurationMs = res.DurationMs
		entry.RowCount = res.RowsAffected
	case *api.QueryError:
		entry.Status = history.StatusError
		entry.ErrorMessage = res.Message
	}

	return func() tea.Msg {
		return HistoryRecordedMsg{Err: store.Add(entry)}
	}
}

// loadHistoryCmd loads recent executions for a client, narrowed to
// queries containing filter when it is set
func (m Model) loadHistoryCmd(clientID, filter string) tea.Cmd {
	if m.historyStore == nil {
		return nil
	}
	store, limit := m.historyStore, m.config.HistoryLimit
	return func() tea.Msg {
		msg := HistoryLoadedMsg{ClientID: clientID, Filter: filter}
		if filter == "" {
			msg.Entries, msg.Err = store.List(clientID, limit, 0)
		} else {
			msg.Entries, msg.Err = store.Search(clientID, filter, limit)
		}
		if msg.Err != nil {
			return msg
		}
		msg.Total, msg.Err = store.Count(clientID)
		return msg
	}
}

// deleteHistoryCmd removes one history entry
func (m Model) deleteHistoryCmd(clientID string, id int64) tea.Cmd {
	if m.historyStore == nil {
		return nil
	}
	store := m.historyStore
	return func() tea.Msg {
		return HistoryDeletedMsg{ClientID: clientID, Err: store.Delete(id)}
	}
}

// exportCmd writes the current select result to filename
func (m Model) exportCmd(filename string) tea.Cmd {
	sel, ok := m.query.Select()
	if !ok {
		return nil
	}
	columns, rows := sel.ColumnNames(), sel.Rows
	dir := m.config.ExportDir
	if dir == "" {
		dir = export.DownloadDir()
	}

	return func() tea.Msg {
		if export.IsXLSX(filename) {
			path := export.ResolvePath(dir, filename)
			if err := export.XLSX(columns, rows, path); err != nil {
				return ExportCompleteMsg{Err: err}
			}
			return ExportCompleteMsg{Path: path, Rows: len(rows)}
		}
		path, err := export.Download(dir, filename, export.CSV(columns, rows))
		return ExportCompleteMsg{Path: path, Rows: len(rows), Err: err}
	}
}

// copyCmd copies text to the system clipboard
func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := writeClipboard(text); err != nil {
			return ClipboardCopiedMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return ClipboardCopiedMsg{Text: text}
	}
}

// setStatus shows an info line that clears itself
func (m *Model) setStatus(msg string) tea.Cmd {
	m.statusID++
	m.statusMsg = msg
	m.errorMsg = ""
	id := m.statusID
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{ID: id} })
}

// setError shows an error line that clears itself
func (m *Model) setError(msg string) tea.Cmd {
	m.statusID++
	m.errorMsg = msg
	m.statusMsg = ""
	id := m.statusID
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{ID: id} })
}
