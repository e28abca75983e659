package console

import (
	"log"
	"time"

	"github.com/nhath/silver/internal/api"
)

// DefaultSearchDelay is the quiet period before a search is sent
const DefaultSearchDelay = 300 * time.Millisecond

// Search coalesces keystrokes into a single delayed backend search.
// Every input bumps the sequence; only the latest sequence may fire or apply.
type Search struct {
	delay   time.Duration
	seq     uint64
	text    string
	loading bool
	options []api.Client
}

// NewSearch creates a Search with the given quiet period
func NewSearch(delay time.Duration) *Search {
	if delay <= 0 {
		delay = DefaultSearchDelay
	}
	return &Search{delay: delay}
}

// Delay returns the quiet period
func (s *Search) Delay() time.Duration { return s.delay }

// Text returns the latest input
func (s *Search) Text() string { return s.text }

// Loading reports whether a request for the latest input is in flight
func (s *Search) Loading() bool { return s.loading }

// Seq returns the sequence number of the latest input
func (s *Search) Seq() uint64 { return s.seq }

// Options returns the displayed clients
func (s *Search) Options() []api.Client { return s.options }

// Input records new text. When it returns true the caller must deliver
// Fire(seq) after the quiet period. Empty text clears the options at once
// and schedules nothing.
func (s *Search) Input(text string) (uint64, bool) {
	s.seq++
	s.text = text
	s.loading = false
	if text == "" {
		s.options = nil
		return s.seq, false
	}
	return s.seq, true
}

// Fire is called when the quiet period of seq has elapsed. It returns the
// query to send, or false when newer input superseded seq.
func (s *Search) Fire(seq uint64) (string, bool) {
	if seq != s.seq || s.text == "" {
		return "", false
	}
	s.loading = true
	return s.text, true
}

// Apply stores the response to the request fired for seq. Responses for
// superseded requests are dropped and Apply returns false.
func (s *Search) Apply(seq uint64, clients []api.Client, err error) bool {
	if seq != s.seq {
		log.Printf("console: dropping stale search response (seq %d, latest %d)", seq, s.seq)
		return false
	}
	s.loading = false
	if err != nil {
		log.Printf("console: searching clients for %q: %v", s.text, err)
		s.options = nil
		return true
	}
	s.options = clients
	return true
}
