package console

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/silver/internal/api"
	"github.com/nhath/silver/internal/recent"
)

func newTestConnection(t *testing.T) (*Connection, *recent.MRU) {
	t.Helper()
	mru, err := recent.Load(recent.NewMemoryBackend())
	require.NoError(t, err)
	return NewConnection(mru), mru
}

func TestConnectionStartsIdle(t *testing.T) {
	c, _ := newTestConnection(t)
	assert.Equal(t, Status{Phase: Idle}, c.Status())
	assert.Nil(t, c.Selected())
	assert.False(t, c.Ready())
}

func TestConnectionResolves(t *testing.T) {
	c, mru := newTestConnection(t)

	req, ok := c.Select(&api.Client{ID: "a", Name: "Alpha"})
	require.True(t, ok)
	assert.Equal(t, "a", req.ClientID)
	assert.Equal(t, Resolving, c.Status().Phase)

	require.True(t, c.Apply(req, &api.ResolveResponse{Status: "ok", Message: "warm"}, nil))
	assert.Equal(t, Status{Phase: Resolved, Message: "warm"}, c.Status())
	assert.True(t, c.Ready())
	assert.Equal(t, []string{"a"}, mru.List())
}

func TestConnectionFailureMessage(t *testing.T) {
	c, mru := newTestConnection(t)

	req, _ := c.Select(&api.Client{ID: "a"})
	c.Apply(req, nil, &api.Error{StatusCode: 503, Code: "DOWN", Message: "host unreachable"})
	assert.Equal(t, Status{Phase: Failed, Message: "host unreachable"}, c.Status())

	req, _ = c.Select(&api.Client{ID: "a"})
	c.Apply(req, nil, errors.New("dial tcp: connection refused"))
	assert.Equal(t, Status{Phase: Failed, Message: DefaultResolveFailure}, c.Status())
	assert.Empty(t, mru.List())
}

func TestConnectionDeselectDiscardsInFlight(t *testing.T) {
	c, mru := newTestConnection(t)

	reqA, _ := c.Select(&api.Client{ID: "a"})
	reqB, _ := c.Select(&api.Client{ID: "b"})
	_, ok := c.Select(nil)
	require.False(t, ok)

	assert.False(t, c.Apply(reqA, &api.ResolveResponse{}, nil))
	assert.False(t, c.Apply(reqB, &api.ResolveResponse{}, nil))
	assert.Equal(t, Status{Phase: Idle}, c.Status())
	assert.Empty(t, mru.List())
}

func TestConnectionResolvedThenPendingThenDeselect(t *testing.T) {
	c, mru := newTestConnection(t)

	reqA, _ := c.Select(&api.Client{ID: "a"})
	require.True(t, c.Apply(reqA, &api.ResolveResponse{Message: "warm"}, nil))
	require.Equal(t, Resolved, c.Status().Phase)

	reqB, _ := c.Select(&api.Client{ID: "b"})
	assert.Equal(t, Resolving, c.Status().Phase)
	assert.False(t, c.Ready())

	_, ok := c.Select(nil)
	require.False(t, ok)

	assert.False(t, c.Apply(reqB, &api.ResolveResponse{}, nil))
	assert.Equal(t, Status{Phase: Idle}, c.Status())
	assert.Nil(t, c.Selected())
	assert.False(t, c.Ready())
	assert.Equal(t, []string{"a"}, mru.List())
}

func TestConnectionStaleResponseAfterReselect(t *testing.T) {
	c, _ := newTestConnection(t)

	reqA, _ := c.Select(&api.Client{ID: "a"})
	reqB, _ := c.Select(&api.Client{ID: "b"})

	assert.False(t, c.Apply(reqA, nil, errors.New("late failure")))
	assert.Equal(t, Resolving, c.Status().Phase)

	assert.True(t, c.Apply(reqB, &api.ResolveResponse{}, nil))
	assert.Equal(t, Resolved, c.Status().Phase)
	assert.Equal(t, "b", c.Selected().ID)
}

func TestConnectionReselectSameClientUsesLatestAttempt(t *testing.T) {
	c, _ := newTestConnection(t)

	first, _ := c.Select(&api.Client{ID: "a"})
	second, _ := c.Select(&api.Client{ID: "a"})

	assert.False(t, c.Apply(first, &api.ResolveResponse{Message: "old"}, nil))
	assert.True(t, c.Apply(second, &api.ResolveResponse{Message: "new"}, nil))
	assert.Equal(t, "new", c.Status().Message)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "resolving", Resolving.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
