package console

import (
	"errors"
	"log"
	"strings"

	"github.com/nhath/silver/internal/api"
)

// View is the result-area tab
type View int

const (
	ResultsView View = iota
	MessagesView
)

// ErrCancelUnsupported is reported by Cancel: execute responses carry no
// query id, so the backend request cannot be stopped from here.
var ErrCancelUnsupported = errors.New("cancellation is not supported: the query keeps running on the server")

// ExecuteRequest is one dispatched execution
type ExecuteRequest struct {
	Seq     uint64
	Request api.ExecuteRequest
}

// Query is the single "current query result" slot and its lifecycle
type Query struct {
	seq       uint64
	executing bool
	outcome   api.Outcome
	view      View
}

// NewQuery creates an empty lifecycle
func NewQuery() *Query {
	return &Query{view: ResultsView}
}

// Executing reports whether a query is in flight
func (q *Query) Executing() bool { return q.executing }

// Outcome returns the latest result or error, nil before the first run
func (q *Query) Outcome() api.Outcome { return q.outcome }

// View returns the selected result tab
func (q *Query) View() View { return q.view }

// CanRun reports whether Begin would dispatch
func (q *Query) CanRun(conn Status, clientID, sql string) bool {
	return !q.executing && clientID != "" && conn.Phase == Resolved && strings.TrimSpace(sql) != ""
}

// Begin starts an execution. It is a no-op returning false unless a resolved
// client is selected, nothing is running and sql is not blank.
func (q *Query) Begin(conn Status, clientID, sql string, opts api.ExecuteOptions) (ExecuteRequest, bool) {
	if !q.CanRun(conn, clientID, sql) {
		return ExecuteRequest{}, false
	}

	q.seq++
	q.executing = true
	q.outcome = nil

	return ExecuteRequest{
		Seq: q.seq,
		Request: api.ExecuteRequest{
			ClientID: clientID,
			SQL:      strings.TrimSpace(sql),
			Options:  opts,
		},
	}, true
}

// Complete stores the response to req and picks the default view.
// Responses to superseded requests are dropped and Complete returns false.
func (q *Query) Complete(req ExecuteRequest, result api.Result, err error) bool {
	if req.Seq != q.seq || !q.executing {
		log.Printf("console: dropping stale execution response (seq %d, latest %d)", req.Seq, q.seq)
		return false
	}
	q.executing = false

	if err != nil || result == nil {
		q.outcome = api.Normalize(err)
		q.view = MessagesView
		return true
	}

	q.outcome = result
	switch result.(type) {
	case *api.SelectResult:
		q.view = ResultsView
	default:
		q.view = MessagesView
	}
	return true
}

// SetView switches tabs. The results tab is only reachable for select results.
func (q *Query) SetView(v View) bool {
	if v == ResultsView {
		if _, ok := q.outcome.(*api.SelectResult); !ok {
			return false
		}
	}
	q.view = v
	return true
}

// ToggleView flips between results and messages where allowed
func (q *Query) ToggleView() {
	if q.view == ResultsView {
		q.SetView(MessagesView)
		return
	}
	q.SetView(ResultsView)
}

// Clear drops the current outcome. An in-flight query keeps running.
func (q *Query) Clear() {
	q.outcome = nil
	q.view = ResultsView
}

// Cancel only affects local state: it is refused when nothing runs and
// otherwise reports that the server-side query cannot be stopped.
func (q *Query) Cancel() error {
	if !q.executing {
		return errors.New("no query is running")
	}
	return ErrCancelUnsupported
}

// Select returns the current outcome when it is a select result
func (q *Query) Select() (*api.SelectResult, bool) {
	sel, ok := q.outcome.(*api.SelectResult)
	return sel, ok
}
