package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/repository"
	"github.com/rohit30san/thapar-olx/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

// Client is one browser connection. It owns the live subscriptions opened on
// its behalf and releases them when it unregisters.
type Client struct {
	Actor *entity.Actor
	Conn  *websocket.Conn
	Send  chan []byte

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	subs map[string]repository.Subscription
}

func NewClient(actor *entity.Actor, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		Actor:  actor,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		ctx:    ctx,
		cancel: cancel,
		subs:   make(map[string]repository.Subscription),
	}
}

// Context is cancelled when the client goes away.
func (c *Client) Context() context.Context {
	return c.ctx
}

// hold stores sub under key, closing whatever was there before.
func (c *Client) hold(key string, sub repository.Subscription) {
	c.mu.Lock()
	prev := c.subs[key]
	c.subs[key] = sub
	c.mu.Unlock()

	if prev != nil {
		prev.Close()
	}
}

func (c *Client) release(key string) bool {
	c.mu.Lock()
	sub, ok := c.subs[key]
	delete(c.subs, key)
	c.mu.Unlock()

	if ok {
		sub.Close()
	}
	return ok
}

func (c *Client) releaseAll() {
	c.mu.Lock()
	subs := c.subs
	c.subs = make(map[string]repository.Subscription)
	c.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}

// SubscriptionCount reports the live subscriptions held by the client.
func (c *Client) SubscriptionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// enqueue drops the frame when the client is not keeping up.
func (c *Client) enqueue(frame []byte) {
	defer func() {
		// Send may already be closed by Unregister.
		_ = recover()
	}()

	select {
	case c.Send <- frame:
	default:
		logger.Warn("WebSocket: dropping frame for slow client %s", c.Actor.ID)
	}
}

// Manager tracks connected clients per user.
type Manager struct {
	clients    map[string]map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the registration loop until ctx is done.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				if m.clients[client.Actor.ID] == nil {
					m.clients[client.Actor.ID] = make(map[*Client]bool)
				}
				m.clients[client.Actor.ID][client] = true
				m.mutex.Unlock()
				logger.Debug("WebSocket: client registered for %s", client.Actor.ID)

			case client := <-m.Unregister:
				m.remove(client)

			case <-ctx.Done():
				m.mutex.Lock()
				all := m.clients
				m.clients = make(map[string]map[*Client]bool)
				m.mutex.Unlock()
				for _, set := range all {
					for client := range set {
						client.cancel()
						client.releaseAll()
					}
				}
				return
			}
		}
	}()
}

func (m *Manager) remove(client *Client) {
	client.cancel()
	client.releaseAll()

	m.mutex.Lock()
	set, ok := m.clients[client.Actor.ID]
	if ok && set[client] {
		delete(set, client)
		if len(set) == 0 {
			delete(m.clients, client.Actor.ID)
		}
		close(client.Send)
	}
	m.mutex.Unlock()

	logger.Debug("WebSocket: client unregistered for %s", client.Actor.ID)
}

// ConnectedClients counts open connections of userID.
func (m *Manager) ConnectedClients(userID string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients[userID])
}

// ReadPump reads frames until the connection fails and hands each to handle.
func (c *Client) ReadPump(m *Manager, handle func(*Client, []byte)) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket: read error for %s: %v", c.Actor.ID, err)
			}
			return
		}
		handle(c, message)
	}
}

// WritePump drains Send to the connection and keeps it alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("WebSocket: write error for %s: %v", c.Actor.ID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
