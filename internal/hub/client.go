package hub

import (
	"sync"
	"sync/atomic"
	"time"
)

// ClientState is the capability-refresh state machine per connection.
type ClientState int32

const (
	StateInactive ClientState = iota
	StateActive
	StateRefreshing
)

// Conn is the slice of the websocket connection the hub uses. Satisfied
// by *websocket.Conn; faked in tests.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetPongHandler(h func(appData string) error)
	SetReadDeadline(t time.Time) error
}

// Client is one registered realtime connection. A user may hold several
// (one per device); each gets its own connection ID.
type Client struct {
	ID       string
	UserID   uint
	Username string
	Conn     Conn

	// Writes to one socket are serialized; fan-out order per room is the
	// order events were emitted.
	writeMu sync.Mutex

	state      atomic.Int32
	LastPong   time.Time
	PingTicker *time.Ticker
	CloseChan  chan struct{}
}

func (c *Client) State() ClientState {
	return ClientState(c.state.Load())
}

func (c *Client) setState(s ClientState) {
	c.state.Store(int32(s))
}

func (c *Client) write(frameType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteMessage(frameType, data)
}
