package ws

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// StationLister fetches the raw station snapshot from inventory.
type StationLister interface {
	ListStations(ctx context.Context) (int, []byte, error)
}

// Feed pushes station snapshots to subscribed websocket clients. It polls
// inventory on an interval and broadcasts only when the snapshot changed, so
// idle dashboards cost one upstream request per tick and nothing more.
type Feed struct {
	inventory    StationLister
	interval     time.Duration
	writeTimeout time.Duration
	logger       *zap.Logger
	upgrader     websocket.Upgrader

	mu       sync.Mutex
	clients  map[*client]struct{}
	snapshot []byte
}

type client struct {
	ws   *websocket.Conn
	send chan []byte
}

// NewFeed builds the feed.
func NewFeed(inventory StationLister, interval, writeTimeout time.Duration, logger *zap.Logger) *Feed {
	return &Feed{
		inventory:    inventory,
		interval:     interval,
		writeTimeout: writeTimeout,
		logger:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*client]struct{}),
	}
}

// Run polls inventory until the context is cancelled.
func (f *Feed) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	f.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			f.closeAll()
			return
		case <-ticker.C:
			f.poll(ctx)
		}
	}
}

func (f *Feed) poll(ctx context.Context) {
	status, body, err := f.inventory.ListStations(ctx)
	if err != nil || status != http.StatusOK {
		f.logger.Warn("station snapshot poll failed",
			zap.Int("status", status), zap.Error(err))
		return
	}

	f.mu.Lock()
	changed := !bytes.Equal(f.snapshot, body)
	if changed {
		f.snapshot = body
	}
	subscribers := make([]*client, 0, len(f.clients))
	for c := range f.clients {
		subscribers = append(subscribers, c)
	}
	f.mu.Unlock()

	if !changed {
		return
	}
	for _, c := range subscribers {
		select {
		case c.send <- body:
		default:
			f.logger.Warn("dropping station snapshot, client buffer full")
		}
	}
}

// Handle upgrades GET /api/stations/ws and streams snapshots until the
// client goes away.
func (f *Feed) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{ws: conn, send: make(chan []byte, 4)}

	f.mu.Lock()
	f.clients[c] = struct{}{}
	if len(f.snapshot) > 0 {
		c.send <- f.snapshot
	}
	f.mu.Unlock()

	go f.writePump(c)
	f.readPump(c)
}

func (f *Feed) readPump(c *client) {
	defer f.remove(c)
	c.ws.SetReadLimit(1024)
	c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Clients only listen; reads exist to notice the close frame.
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (f *Feed) writePump(c *client) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = f.write(c, websocket.CloseMessage, []byte{})
				return
			}
			if err := f.write(c, websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := f.write(c, websocket.PingMessage, []byte("ping")); err != nil {
				return
			}
		}
	}
}

func (f *Feed) write(c *client, messageType int, data []byte) error {
	c.ws.SetWriteDeadline(time.Now().Add(f.writeTimeout))
	return c.ws.WriteMessage(messageType, data)
}

func (f *Feed) remove(c *client) {
	f.mu.Lock()
	if _, ok := f.clients[c]; ok {
		delete(f.clients, c)
		close(c.send)
	}
	f.mu.Unlock()
	_ = c.ws.Close()
}

func (f *Feed) closeAll() {
	f.mu.Lock()
	for c := range f.clients {
		delete(f.clients, c)
		close(c.send)
		_ = c.ws.Close()
	}
	f.mu.Unlock()
}
