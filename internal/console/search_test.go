package console

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/silver/internal/api"
)

func TestSearchDebounceSendsOnlyLastInput(t *testing.T) {
	s := NewSearch(300 * time.Millisecond)

	type tick struct {
		at  time.Duration
		seq uint64
	}
	var ticks []tick
	keystrokes := []struct {
		at   time.Duration
		text string
	}{
		{0, "a"},
		{50 * time.Millisecond, "ab"},
		{100 * time.Millisecond, "abc"},
		{150 * time.Millisecond, "abcd"},
	}
	for _, k := range keystrokes {
		seq, schedule := s.Input(k.text)
		require.True(t, schedule)
		ticks = append(ticks, tick{at: k.at + s.Delay(), seq: seq})
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i].at < ticks[j].at })

	type call struct {
		at    time.Duration
		query string
	}
	var calls []call
	for _, tk := range ticks {
		if q, ok := s.Fire(tk.seq); ok {
			calls = append(calls, call{at: tk.at, query: q})
		}
	}

	require.Len(t, calls, 1)
	assert.Equal(t, 450*time.Millisecond, calls[0].at)
	assert.Equal(t, "abcd", calls[0].query)
	assert.True(t, s.Loading())
}

func TestSearchDropsStaleResponse(t *testing.T) {
	s := NewSearch(0)
	assert.Equal(t, DefaultSearchDelay, s.Delay())

	first, _ := s.Input("abc")
	_, ok := s.Fire(first)
	require.True(t, ok)

	second, _ := s.Input("abcd")
	_, ok = s.Fire(second)
	require.True(t, ok)

	assert.False(t, s.Apply(first, []api.Client{{ID: "stale"}}, nil))
	assert.Empty(t, s.Options())

	assert.True(t, s.Apply(second, []api.Client{{ID: "fresh"}}, nil))
	assert.Equal(t, []api.Client{{ID: "fresh"}}, s.Options())
	assert.False(t, s.Loading())

	assert.False(t, s.Apply(first, []api.Client{{ID: "stale"}}, nil))
	assert.Equal(t, "fresh", s.Options()[0].ID)
}

func TestSearchEmptyInputShortCircuits(t *testing.T) {
	s := NewSearch(DefaultSearchDelay)

	seq, _ := s.Input("ac")
	_, ok := s.Fire(seq)
	require.True(t, ok)
	require.True(t, s.Apply(seq, []api.Client{{ID: "x"}}, nil))

	inflight, _ := s.Input("acm")
	s.Fire(inflight)

	emptySeq, schedule := s.Input("")
	assert.False(t, schedule)
	assert.Empty(t, s.Options())
	assert.False(t, s.Loading())

	_, ok = s.Fire(emptySeq)
	assert.False(t, ok, "empty input must never reach the backend")
	assert.False(t, s.Apply(inflight, []api.Client{{ID: "late"}}, nil))
	assert.Empty(t, s.Options())
}

func TestSearchErrorClearsOptions(t *testing.T) {
	s := NewSearch(DefaultSearchDelay)

	seq, _ := s.Input("a")
	s.Fire(seq)
	s.Apply(seq, []api.Client{{ID: "x"}}, nil)

	seq, _ = s.Input("ab")
	s.Fire(seq)
	assert.True(t, s.Apply(seq, nil, errors.New("timeout")))
	assert.Empty(t, s.Options())
}
