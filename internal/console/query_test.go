package console

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/silver/internal/api"
)

var resolved = Status{Phase: Resolved}

func TestQueryBeginGuards(t *testing.T) {
	q := NewQuery()
	opts := api.ExecuteOptions{MaxRows: 10}

	_, ok := q.Begin(Status{Phase: Resolving}, "c1", "select 1", opts)
	assert.False(t, ok, "connection not resolved")

	_, ok = q.Begin(resolved, "", "select 1", opts)
	assert.False(t, ok, "no client")

	_, ok = q.Begin(resolved, "c1", "  \n\t ", opts)
	assert.False(t, ok, "blank sql")
	assert.False(t, q.Executing())

	req, ok := q.Begin(resolved, "c1", "  select 1 \n", opts)
	require.True(t, ok)
	assert.Equal(t, "select 1", req.Request.SQL)
	assert.Equal(t, "c1", req.Request.ClientID)
	assert.Equal(t, 10, req.Request.Options.MaxRows)
	assert.True(t, q.Executing())

	_, ok = q.Begin(resolved, "c1", "select 2", opts)
	assert.False(t, ok, "already executing")
}

func TestQuerySelectResultShowsResults(t *testing.T) {
	q := NewQuery()
	req, _ := q.Begin(resolved, "c1", "select 1", api.ExecuteOptions{})

	sel := &api.SelectResult{Columns: []api.ColumnMetadata{{Name: "n"}}, Rows: [][]any{{1}}}
	require.True(t, q.Complete(req, sel, nil))

	assert.False(t, q.Executing())
	assert.Equal(t, ResultsView, q.View())
	got, ok := q.Select()
	require.True(t, ok)
	assert.Same(t, sel, got)
}

func TestQueryNonSelectResultShowsMessages(t *testing.T) {
	q := NewQuery()
	req, _ := q.Begin(resolved, "c1", "delete from t", api.ExecuteOptions{})

	require.True(t, q.Complete(req, &api.NonSelectResult{StatementType: "delete", RowsAffected: 2}, nil))
	assert.Equal(t, MessagesView, q.View())
	assert.False(t, q.SetView(ResultsView), "results tab needs a select result")
	assert.Equal(t, MessagesView, q.View())
}

func TestQueryErrorShowsMessages(t *testing.T) {
	q := NewQuery()
	req, _ := q.Begin(resolved, "c1", "selec", api.ExecuteOptions{})

	require.True(t, q.Complete(req, nil, &api.Error{StatusCode: 400, Code: "SYNTAX_ERROR", Message: "bad", Hint: "fix it"}))
	assert.Equal(t, MessagesView, q.View())
	qe, ok := q.Outcome().(*api.QueryError)
	require.True(t, ok)
	assert.Equal(t, api.QueryError{Code: "SYNTAX_ERROR", Message: "bad", Hint: "fix it"}, *qe)

	req, _ = q.Begin(resolved, "c1", "select 1", api.ExecuteOptions{})
	q.Complete(req, nil, errors.New("connection reset"))
	qe = q.Outcome().(*api.QueryError)
	assert.Equal(t, api.UnknownErrorCode, qe.Code)
	assert.Equal(t, api.UnknownErrorMessage, qe.Message)
}

func TestQueryBeginClearsPreviousOutcome(t *testing.T) {
	q := NewQuery()
	req, _ := q.Begin(resolved, "c1", "select 1", api.ExecuteOptions{})
	q.Complete(req, &api.SelectResult{}, nil)
	require.NotNil(t, q.Outcome())

	_, ok := q.Begin(resolved, "c1", "select 2", api.ExecuteOptions{})
	require.True(t, ok)
	assert.Nil(t, q.Outcome())
}

func TestQueryDropsStaleCompletion(t *testing.T) {
	q := NewQuery()
	req, _ := q.Begin(resolved, "c1", "select 1", api.ExecuteOptions{})
	require.True(t, q.Complete(req, &api.SelectResult{}, nil))

	assert.False(t, q.Complete(req, nil, errors.New("duplicate delivery")))
	_, isSelect := q.Select()
	assert.True(t, isSelect)
}

func TestQueryToggleAndClear(t *testing.T) {
	q := NewQuery()
	req, _ := q.Begin(resolved, "c1", "select 1", api.ExecuteOptions{})
	q.Complete(req, &api.SelectResult{}, nil)

	q.ToggleView()
	assert.Equal(t, MessagesView, q.View())
	q.ToggleView()
	assert.Equal(t, ResultsView, q.View())

	q.Clear()
	assert.Nil(t, q.Outcome())
}

func TestQueryCancelIsLocalOnly(t *testing.T) {
	q := NewQuery()
	assert.Error(t, q.Cancel())

	q.Begin(resolved, "c1", "select pg_sleep(10)", api.ExecuteOptions{})
	assert.ErrorIs(t, q.Cancel(), ErrCancelUnsupported)
	assert.True(t, q.Executing())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0ms", FormatDuration(0))
	assert.Equal(t, "999ms", FormatDuration(999))
	assert.Equal(t, "1.00s", FormatDuration(1000))
	assert.Equal(t, "12.35s", FormatDuration(12345))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "1,234,567", FormatCount(1234567))
	assert.Equal(t, "12", FormatCount(12))
}
