package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer fakes the query service endpoints the console consumes
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /clients", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "acme", r.URL.Query().Get("search"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode([]Client{
			{ID: "c1", Name: "Acme Prod", Tag: "prod"},
			{ID: "c2", Name: "Acme Staging"},
		})
	})

	mux.HandleFunc("POST /clients/{id}/resolve", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("id") {
		case "c1":
			json.NewEncoder(w).Encode(ResolveResponse{Status: "resolved", Message: "pool warm"})
		case "down":
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(QueryError{Code: "UNREACHABLE", Message: "host unreachable"})
		default:
			w.WriteHeader(http.StatusBadGateway)
			io.WriteString(w, "bad gateway")
		}
	})

	mux.HandleFunc("POST /query/execute", func(w http.ResponseWriter, r *http.Request) {
		var req ExecuteRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		switch req.SQL {
		case "select 1":
			io.WriteString(w, `{"type":"select","columns":[{"name":"id","type":"int8"},{"name":"name","type":"text"}],
				"rows":[[1,"a"],[12345678901234567890,null]],"total_rows":2,"has_more":true,"duration_ms":12}`)
		case "update t set x = 1":
			io.WriteString(w, `{"type":"non_select","statement_type":"update","rows_affected":3,"duration_ms":4,
				"messages":["3 rows updated"],"warnings":["no index used"]}`)
		case "legacy":
			io.WriteString(w, `{"columns":[{"name":"n","type":"int4"}],"rows":[[7]],"total_rows":1,"has_more":false,"duration_ms":1}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"code":"SYNTAX_ERROR","message":"syntax error at or near \"selec\"","hint":"check spelling"}`)
		}
	})

	mux.HandleFunc("POST /query/{id}/cancel", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "q1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchClients(t *testing.T) {
	srv := newTestServer(t)
	c := NewHTTPClient(srv.URL + "/")

	clients, err := c.SearchClients(context.Background(), "acme", 20)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, Client{ID: "c1", Name: "Acme Prod", Tag: "prod"}, clients[0])
	assert.Empty(t, clients[1].Tag)
}

func TestResolveConnection(t *testing.T) {
	srv := newTestServer(t)
	c := NewHTTPClient(srv.URL)

	resp, err := c.ResolveConnection(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "pool warm", resp.Message)

	_, err = c.ResolveConnection(context.Background(), "down")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "host unreachable", Message(err, "fallback"))

	_, err = c.ResolveConnection(context.Background(), "other")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "bad gateway", apiErr.Body)
	assert.Equal(t, "fallback", Message(err, "fallback"))
}

func TestExecuteQuerySelect(t *testing.T) {
	srv := newTestServer(t)
	c := NewHTTPClient(srv.URL)

	res, err := c.ExecuteQuery(context.Background(), ExecuteRequest{ClientID: "c1", SQL: "select 1"})
	require.NoError(t, err)

	sel, ok := res.(*SelectResult)
	require.True(t, ok, "expected select result, got %T", res)
	assert.Equal(t, []string{"id", "name"}, sel.ColumnNames())
	assert.True(t, sel.HasMore)
	assert.Equal(t, int64(12), sel.DurationMs)

	big, isNull := FormatValue(sel.Rows[1][0])
	assert.False(t, isNull)
	assert.Equal(t, "12345678901234567890", big)
	_, isNull = FormatValue(sel.Rows[1][1])
	assert.True(t, isNull)
}

func TestExecuteQueryNonSelect(t *testing.T) {
	srv := newTestServer(t)
	c := NewHTTPClient(srv.URL)

	res, err := c.ExecuteQuery(context.Background(), ExecuteRequest{ClientID: "c1", SQL: "update t set x = 1"})
	require.NoError(t, err)

	ns, ok := res.(*NonSelectResult)
	require.True(t, ok, "expected non-select result, got %T", res)
	assert.Equal(t, "update", ns.StatementType)
	assert.Equal(t, int64(3), ns.RowsAffected)
	assert.Equal(t, []string{"3 rows updated"}, ns.Messages)
	assert.Equal(t, []string{"no index used"}, ns.Warnings)
}

func TestExecuteQueryWithoutTypeTag(t *testing.T) {
	srv := newTestServer(t)
	c := NewHTTPClient(srv.URL)

	res, err := c.ExecuteQuery(context.Background(), ExecuteRequest{ClientID: "c1", SQL: "legacy"})
	require.NoError(t, err)
	assert.IsType(t, &SelectResult{}, res)
}

func TestExecuteQueryError(t *testing.T) {
	srv := newTestServer(t)
	c := NewHTTPClient(srv.URL)

	_, err := c.ExecuteQuery(context.Background(), ExecuteRequest{ClientID: "c1", SQL: "selec"})
	require.Error(t, err)

	qe := Normalize(err)
	assert.Equal(t, "SYNTAX_ERROR", qe.Code)
	assert.Equal(t, `syntax error at or near "selec"`, qe.Message)
	assert.Equal(t, "check spelling", qe.Hint)
}

func TestCancelQuery(t *testing.T) {
	srv := newTestServer(t)
	c := NewHTTPClient(srv.URL)

	require.NoError(t, c.CancelQuery(context.Background(), "q1"))

	err := c.CancelQuery(context.Background(), "missing")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, WithToken("s3cret"))
	_, err := c.SearchClients(context.Background(), "x", 5)
	require.NoError(t, err)

	assert.Equal(t, "Bearer s3cret", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
}

func TestTransportErrorNormalizesToUnknown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.ExecuteQuery(context.Background(), ExecuteRequest{ClientID: "c1", SQL: "select 1"})

	var te *TransportError
	require.True(t, errors.As(err, &te))

	qe := Normalize(err)
	assert.Equal(t, UnknownErrorCode, qe.Code)
	assert.Equal(t, UnknownErrorMessage, qe.Message)
	assert.Empty(t, qe.Hint)
}

func newSlowServer(t *testing.T, delay time.Duration) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
		io.WriteString(w, `{"type":"non_select","statement_type":"update","rows_affected":1,"duration_ms":150}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExecuteQueryCallerDeadlineOutlivesDefaultTimeout(t *testing.T) {
	srv := newSlowServer(t, 150*time.Millisecond)
	c := NewHTTPClient(srv.URL, WithTimeout(50*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	res, err := c.ExecuteQuery(ctx, ExecuteRequest{ClientID: "c1", SQL: "update t set a = 1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.(*NonSelectResult).RowsAffected)
}

func TestExecuteQueryDefaultTimeoutWithoutDeadline(t *testing.T) {
	srv := newSlowServer(t, time.Second)
	c := NewHTTPClient(srv.URL, WithTimeout(50*time.Millisecond))

	_, err := c.ExecuteQuery(context.Background(), ExecuteRequest{ClientID: "c1", SQL: "select 1"})
	require.Error(t, err)

	qe := Normalize(err)
	assert.Equal(t, TimeoutErrorCode, qe.Code)
	assert.NotEmpty(t, qe.Hint)
}
