// internal/server/handlers/websocket.go

package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"globalfreq/internal/logging"
	"globalfreq/internal/metrics"
)

// RunEventSource delivers run events until the returned function is called
type RunEventSource interface {
	SubscribeRuns(handler func([]byte)) (func() error, error)
}

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64

	// Outbound messages buffered per client before events are dropped
	SendBuffer int
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 4096,
		SendBuffer:     64,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// runFeedClient is one WebSocket subscriber to run events
type runFeedClient struct {
	conn        *websocket.Conn
	config      WebSocketConfig
	send        chan []byte
	done        chan struct{}
	once        sync.Once
	unsubscribe func() error
}

// RunFeedHandler streams completed-run events to WebSocket clients
func RunFeedHandler(source RunEventSource, config WebSocketConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Warn().Err(err).Msg("Failed to upgrade to WebSocket")
			return
		}

		client := &runFeedClient{
			conn:   conn,
			config: config,
			send:   make(chan []byte, config.SendBuffer),
			done:   make(chan struct{}),
		}

		unsubscribe, err := source.SubscribeRuns(client.enqueue)
		if err != nil {
			logging.Error().Err(err).Msg("Failed to subscribe to run events")
			conn.Close()
			return
		}
		client.unsubscribe = unsubscribe
		metrics.WebSocketConnections.Inc()

		welcome, _ := json.Marshal(map[string]interface{}{
			"type": "welcome",
			"time": time.Now().UTC(),
		})
		client.enqueue(welcome)

		go client.writePump()
		go client.readPump()

		logging.Info().Str("remote", r.RemoteAddr).Msg("Run feed client connected")
	}
}

// enqueue queues a message, dropping it if the client is gone or too slow
func (c *runFeedClient) enqueue(message []byte) {
	select {
	case <-c.done:
	case c.send <- message:
	default:
		logging.Warn().Msg("Run feed client too slow, dropping event")
	}
}

// readPump keeps the connection alive and detects disconnects; inbound
// messages are ignored
func (c *runFeedClient) readPump() {
	defer c.close()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Warn().Err(err).Msg("WebSocket error")
			}
			return
		}
	}
}

// writePump pumps queued events to the WebSocket connection
func (c *runFeedClient) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// close unsubscribes and closes the connection exactly once
func (c *runFeedClient) close() {
	c.once.Do(func() {
		close(c.done)
		if c.unsubscribe != nil {
			if err := c.unsubscribe(); err != nil {
				logging.Warn().Err(err).Msg("Failed to unsubscribe run feed client")
			}
		}
		c.conn.Close()
		metrics.WebSocketConnections.Dec()
		logging.Info().Msg("Run feed client disconnected")
	})
}
