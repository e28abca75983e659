// internal/ui/model_messages.go
// Message types for the Bubble Tea Update cycle
package ui

import (
	"time"

	"github.com/nhath/silver/internal/api"
	"github.com/nhath/silver/internal/console"
	"github.com/nhath/silver/internal/history"
)

// ResolvedMsg carries the response to a connection resolution
type ResolvedMsg struct {
	Req  console.ResolveRequest
	Resp *api.ResolveResponse
	Err  error
}

// QueryResultMsg is sent when query execution completes
type QueryResultMsg struct {
	Req     console.ExecuteRequest
	Client  api.Client
	Result  api.Result
	Err     error
	Elapsed time.Duration
}

// HistoryLoadedMsg is sent when history loads from SQLite
type HistoryLoadedMsg struct {
	ClientID string
	Filter   string
	Entries  []history.Entry
	Total    int
	Err      error
}

// HistoryDeletedMsg is sent after a history entry is removed
type HistoryDeletedMsg struct {
	ClientID string
	Err      error
}

// HistoryRecordedMsg is sent after an execution is appended to history
type HistoryRecordedMsg struct {
	Err error
}

// ClipboardCopiedMsg is sent when clipboard copy completes
type ClipboardCopiedMsg struct {
	Text string
	Err  error
}

// ExportCompleteMsg is sent when export is complete
type ExportCompleteMsg struct {
	Path string
	Rows int
	Err  error
}

// clearStatusMsg expires the status line set with the same ID
type clearStatusMsg struct {
	ID int
}
