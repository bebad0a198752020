package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Role string

const (
	RoleHost      Role = "host"
	RolePlayer    Role = "player"
	RoleSpectator Role = "spectator"
	RoleBoard     Role = "board"
)

// Conn represents a single live websocket connection inside a room.
type Conn struct {
	ID       string
	Role     Role
	JoinedAt time.Time
	Socket   *websocket.Conn

	mu     sync.Mutex
	events chan any
	closed bool
}

func NewConn(socket *websocket.Conn) *Conn {
	return &Conn{
		ID:       uuid.New().String(),
		JoinedAt: time.Now().UTC(),
		Socket:   socket,
		events:   make(chan any, 16),
	}
}

// Enqueue delivers an event to the connection's writer pump without
// blocking. Events are dropped when the buffer is full or the
// connection is already closed.
func (c *Conn) Enqueue(event any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.events <- event:
	default:
	}
}

// Events returns the channel drained by the writer pump.
func (c *Conn) Events() <-chan any {
	return c.events
}

// CloseEvents shuts the event channel exactly once.
func (c *Conn) CloseEvents() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.events)
}
