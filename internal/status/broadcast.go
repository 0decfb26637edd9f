package status

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Dragon-GCS/lolhelper/internal/state"
)

type MessageType string

const MsgSnapshot MessageType = "snapshot"

type Message struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	c := &client{
		conn: conn,
		send: make(chan []byte, 64),
	}
	go c.writePump()
	return c
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// Broadcaster pushes store snapshots to every connected client.
type Broadcaster struct {
	mu       sync.RWMutex
	clients  map[*client]bool
	store    *state.Store
	interval time.Duration
	log      logrus.FieldLogger
}

func NewBroadcaster(store *state.Store, interval time.Duration, log logrus.FieldLogger) *Broadcaster {
	return &Broadcaster{
		clients:  make(map[*client]bool),
		store:    store,
		interval: interval,
		log:      log,
	}
}

// AddClient registers conn and queues an initial snapshot for it.
func (b *Broadcaster) AddClient(conn *websocket.Conn) *client {
	c := newClient(conn)

	data, err := b.snapshot()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[c] = true
	if err == nil {
		c.send <- data
	}
	return c
}

func (b *Broadcaster) RemoveClient(c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.send)
	}
}

// Run broadcasts a snapshot every interval until ctx is cancelled, then
// disconnects all clients.
func (b *Broadcaster) Run(ctx context.Context) {
	t := time.NewTicker(b.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			b.closeAll()
			return
		case <-t.C:
			b.Broadcast()
		}
	}
}

// Broadcast sends the current snapshot to every client. Clients whose
// queue is full are disconnected.
func (b *Broadcaster) Broadcast() {
	data, err := b.snapshot()
	if err != nil {
		b.log.WithError(err).Error("snapshot marshal failed")
		return
	}

	var slow []*client
	b.mu.RLock()
	for c := range b.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	b.mu.RUnlock()

	for _, c := range slow {
		b.log.Warn("status client too slow, disconnecting")
		b.RemoveClient(c)
	}
}

func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

func (b *Broadcaster) snapshot() ([]byte, error) {
	return json.Marshal(Message{Type: MsgSnapshot, Payload: b.store.Snapshot()})
}

func (b *Broadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		delete(b.clients, c)
		close(c.send)
	}
}
