package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/kavya1280/JK-Insights/internal/infrastructure"
)

// Event types sent by the hub itself. Job events use the names defined by
// the operations package.
const (
	TypeConnection = "connection"
	TypeDataUpdate = "data:update"
)

const broadcastBuffer = 256

// Message is the envelope of every frame pushed to clients
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// DataUpdate is the payload of a data:update event
type DataUpdate struct {
	Source string `json:"source"`
	File   string `json:"file"`
	Op     string `json:"op"`
}

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	logger *slog.Logger
	otel   *OTelMetrics

	totalConnections int64
	messagesSent     int64
	dropped          int64

	quit     chan struct{}
	done     chan struct{}
	running  bool
	stopOnce sync.Once
}

// NewHub creates a new Hub. metrics may be nil.
func NewHub(logger *slog.Logger, metrics *OTelMetrics) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		otel:       metrics,
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start runs the hub loop in its own goroutine
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.Run()
}

// Stop ends the hub loop, disconnects every client and waits for the loop
// to exit
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })

	h.mu.RLock()
	running := h.running
	h.mu.RUnlock()
	if running {
		<-h.done
	}
}

// Run is the hub's main loop
func (h *Hub) Run() {
	defer close(h.done)
	ctx := context.Background()

	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("hub shutting down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.totalConnections++
			count := len(h.clients)
			h.mu.Unlock()

			cctx := client.context(ctx)
			h.otel.RecordConnection(cctx)
			h.logger.InfoContext(cctx, "client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

			hello, err := encode(TypeConnection, map[string]string{
				"status":    "connected",
				"client_id": client.id,
			}, client.traceID)
			if err == nil {
				select {
				case client.send <- hello:
				default:
				}
			}

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[client]
			if ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()

			if ok {
				cctx := client.context(ctx)
				h.otel.RecordDisconnection(cctx, time.Since(client.connectedAt), "closed")
				h.logger.InfoContext(cctx, "client unregistered",
					slog.Int("total_clients", count),
					slog.String("client_id", client.id),
					slog.Duration("connection_duration", time.Since(client.connectedAt)))
			}

		case message := <-h.broadcast:
			h.fanOut(ctx, message)
		}
	}
}

// fanOut delivers message to every client. A client whose buffer is full is
// disconnected rather than allowed to stall the others.
func (h *Hub) fanOut(ctx context.Context, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- message:
			h.messagesSent++
		default:
			close(client.send)
			delete(h.clients, client)
			h.dropped++
			h.otel.RecordDroppedMessage(ctx, "client_buffer_full")
			h.otel.RecordDisconnection(ctx, time.Since(client.connectedAt), "slow_client")
			h.logger.WarnContext(client.context(ctx), "client send buffer full, disconnecting",
				slog.String("client_id", client.id))
		}
	}
}

// Broadcast queues an event for every connected client. It never blocks:
// when the hub is stopped or its queue is full the event is dropped.
func (h *Hub) Broadcast(eventType string, data interface{}) {
	h.BroadcastWithTrace(eventType, data, "")
}

// BroadcastWithTrace is Broadcast with a trace id in the envelope
func (h *Hub) BroadcastWithTrace(eventType string, data interface{}, traceID string) {
	ctx := context.Background()
	if traceID != "" {
		ctx = infrastructure.WithTraceID(ctx, traceID)
	}

	payload, err := encode(eventType, data, traceID)
	if err != nil {
		h.logger.ErrorContext(ctx, "error marshaling message",
			slog.String("error", err.Error()),
			slog.String("message_type", eventType))
		return
	}

	select {
	case <-h.quit:
		h.drop(ctx, eventType, "hub_stopped")
		return
	default:
	}

	select {
	case h.broadcast <- payload:
		h.otel.RecordBroadcast(ctx, eventType)
	default:
		h.drop(ctx, eventType, "queue_full")
	}
}

// BroadcastDataUpdate announces that a master file changed
func (h *Hub) BroadcastDataUpdate(update DataUpdate) {
	h.Broadcast(TypeDataUpdate, update)
}

func (h *Hub) drop(ctx context.Context, eventType, reason string) {
	h.mu.Lock()
	h.dropped++
	h.mu.Unlock()
	h.otel.RecordDroppedMessage(ctx, reason)
	h.logger.DebugContext(ctx, "broadcast dropped",
		slog.String("message_type", eventType),
		slog.String("reason", reason))
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
		close(client.send)
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats returns current hub counters
func (h *Hub) Stats() map[string]interface{} {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return map[string]interface{}{
		"active_clients":    len(h.clients),
		"total_connections": h.totalConnections,
		"messages_sent":     h.messagesSent,
		"dropped_messages":  h.dropped,
		"broadcast_queue":   len(h.broadcast),
	}
}

func encode(eventType string, data interface{}, traceID string) ([]byte, error) {
	return json.Marshal(Message{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
		TraceID:   traceID,
	})
}
