package hub

import (
	"fmt"
	"sync"

	"github.com/kstaniek/go-canerrdump/internal/logging"
	"github.com/kstaniek/go-canerrdump/internal/metrics"
)

type BackpressurePolicy int

const (
	PolicyDrop BackpressurePolicy = iota
	PolicyKick
)

// ParsePolicy maps the CLI spelling to a policy.
func ParsePolicy(s string) (BackpressurePolicy, error) {
	switch s {
	case "drop":
		return PolicyDrop, nil
	case "kick":
		return PolicyKick, nil
	default:
		return PolicyDrop, fmt.Errorf("unknown backpressure policy %q (use drop|kick)", s)
	}
}

// Client is one stream subscriber. Out carries complete decoded lines.
type Client struct {
	Out       chan []byte
	Closed    chan struct{}
	closeOnce sync.Once
}

func NewClient(buf int) *Client {
	return &Client{Out: make(chan []byte, buf), Closed: make(chan struct{})}
}

// Close signals the client is closed (idempotent).
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.Closed)
	})
}

// Hub fans decoded lines out to every connected stream client.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	OutBufSize int
	Policy     BackpressurePolicy
}

// New creates a Hub with default settings.
func New() *Hub { return &Hub{clients: make(map[*Client]struct{})} }

// Add registers a client with the hub.
func (h *Hub) Add(c *Client) {
	h.mu.Lock()
	prev := len(h.clients)
	h.clients[c] = struct{}{}
	cur := len(h.clients)
	h.mu.Unlock()
	metrics.SetStreamClients(cur)
	if prev == 0 && cur == 1 {
		logging.L().Info("clients_first_connected")
	}
}

// Remove unregisters a client and updates metrics; safe to call multiple times.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	_, existed := h.clients[c]
	if existed {
		delete(h.clients, c)
	}
	cur := len(h.clients)
	h.mu.Unlock()
	c.Close()
	metrics.SetStreamClients(cur)
	if existed && cur == 0 {
		logging.L().Info("clients_last_disconnected")
	}
}

// Broadcast sends a line to all connected clients honoring the backpressure
// policy. It never blocks on a slow client.
func (h *Hub) Broadcast(line []byte) {
	for _, c := range h.Snapshot() {
		select {
		case c.Out <- line:
		default:
			if h.Policy == PolicyKick {
				metrics.IncStreamKick()
				c.Close() // signal writer to exit; server will Remove on disconnect
			} else {
				metrics.IncStreamDrop()
			}
		}
	}
}

// Write broadcasts a copy of p so the hub can sit behind an io.MultiWriter
// next to stdout. It always reports success.
func (h *Hub) Write(p []byte) (int, error) {
	if h.Count() == 0 {
		return len(p), nil
	}
	line := make([]byte, len(p))
	copy(line, p)
	h.Broadcast(line)
	return len(p), nil
}

// Snapshot returns a slice copy of current clients (read-only use).
func (h *Hub) Snapshot() []*Client {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	return clients
}

// Count returns the number of active clients.
func (h *Hub) Count() int { h.mu.RLock(); n := len(h.clients); h.mu.RUnlock(); return n }
