// Package console holds the interaction state of the SQL console: connection
// resolution, debounced client search and the query lifecycle. It has no UI
// dependency; the ui package dispatches the requests it hands out and feeds
// the responses back.
package console

import (
	"log"

	"github.com/nhath/silver/internal/api"
	"github.com/nhath/silver/internal/recent"
)

// Phase is the connection resolution state
type Phase int

const (
	Idle Phase = iota
	Resolving
	Resolved
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// DefaultResolveFailure is shown when the backend gives no reason
const DefaultResolveFailure = "Failed to resolve connection"

// Status is the single connection status slot
type Status struct {
	Phase   Phase
	Message string
}

// ResolveRequest identifies one resolution attempt
type ResolveRequest struct {
	Seq      uint64
	ClientID string
}

// Connection drives idle -> resolving -> resolved|failed as the selected client changes
type Connection struct {
	status   Status
	selected *api.Client
	seq      uint64
	recent   recent.Store
}

// NewConnection starts idle. recent may be nil.
func NewConnection(store recent.Store) *Connection {
	return &Connection{recent: store}
}

// Status returns the current status
func (c *Connection) Status() Status {
	return c.status
}

// Selected returns the current client, nil when none
func (c *Connection) Selected() *api.Client {
	return c.selected
}

// Ready reports whether queries may run against the selected client
func (c *Connection) Ready() bool {
	return c.selected != nil && c.status.Phase == Resolved
}

// Select changes the current client. A nil client returns to idle and
// invalidates any in-flight resolution; otherwise the returned request must
// be dispatched and its response handed to Apply.
func (c *Connection) Select(client *api.Client) (ResolveRequest, bool) {
	c.seq++
	if client == nil {
		c.selected = nil
		c.status = Status{Phase: Idle}
		return ResolveRequest{}, false
	}

	selected := *client
	c.selected = &selected
	c.status = Status{Phase: Resolving}
	return ResolveRequest{Seq: c.seq, ClientID: selected.ID}, true
}

// Apply records the response to req. Responses for anything but the latest
// request on the currently selected client are dropped and Apply returns false.
func (c *Connection) Apply(req ResolveRequest, resp *api.ResolveResponse, err error) bool {
	if req.Seq != c.seq || c.selected == nil || c.selected.ID != req.ClientID {
		log.Printf("console: dropping stale resolution for %q (seq %d, latest %d)", req.ClientID, req.Seq, c.seq)
		return false
	}

	if err != nil {
		c.status = Status{Phase: Failed, Message: api.Message(err, DefaultResolveFailure)}
		log.Printf("console: resolve %q failed: %v", req.ClientID, err)
		return true
	}

	msg := ""
	if resp != nil {
		msg = resp.Message
	}
	c.status = Status{Phase: Resolved, Message: msg}

	if c.recent != nil {
		if err := c.recent.Add(req.ClientID); err != nil {
			log.Printf("console: %v", err)
		}
	}
	return true
}
