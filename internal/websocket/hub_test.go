package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavya1280/JK-Insights/internal/shared/testutil"
)

// fakeConn blocks reads until closed and records text frames
type fakeConn struct {
	mu      sync.Mutex
	written [][]byte
	closed  chan struct{}
	once    sync.Once
}

func newFakeConn() *fakeConn { return &fakeConn{closed: make(chan struct{})} }

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	select {
	case <-f.closed:
		return errors.New("closed")
	default:
	}
	if messageType == websocket.TextMessage {
		f.written = append(f.written, data)
	}
	return nil
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	<-f.closed
	return 0, nil, &websocket.CloseError{Code: websocket.CloseNormalClosure}
}

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) SetReadDeadline(time.Time) error  { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }
func (f *fakeConn) SetReadLimit(int64)               {}
func (f *fakeConn) SetPongHandler(func(string) error) {}
func (f *fakeConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9000}
}

func (f *fakeConn) messages(t *testing.T) []Message {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Message, 0, len(f.written))
	for _, raw := range f.written {
		var m Message
		require.NoError(t, json.Unmarshal(raw, &m))
		out = append(out, m)
	}
	return out
}

func connect(t *testing.T, hub *Hub) (*Client, *fakeConn) {
	t.Helper()
	conn := newFakeConn()
	logger, _ := testutil.NewTestLogger(t)
	c := NewClient(hub, conn, "trace-1", logger)
	hub.Register(c)
	go c.WritePump()
	go c.ReadPump()
	return c, conn
}

func types(msgs []Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Type
	}
	return out
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub(logger, nil)
	hub.Start()
	defer hub.Stop()

	c1, conn1 := connect(t, hub)
	_, conn2 := connect(t, hub)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	hub.Broadcast("job:progress", map[string]int{"progress": 50})
	hub.BroadcastDataUpdate(DataUpdate{Source: "concur", File: "Concur_Header_Data.xlsx", Op: "write"})

	for _, conn := range []*fakeConn{conn1, conn2} {
		require.Eventually(t, func() bool { return len(conn.messages(t)) == 3 }, time.Second, 5*time.Millisecond)
		msgs := conn.messages(t)
		assert.Equal(t, []string{TypeConnection, "job:progress", TypeDataUpdate}, types(msgs))
		assert.NotEmpty(t, msgs[1].Timestamp)
	}

	hello := conn1.messages(t)[0].Data.(map[string]interface{})
	assert.Equal(t, c1.ID(), hello["client_id"])
	assert.Equal(t, "trace-1", conn1.messages(t)[0].TraceID)

	// closing the socket unregisters the client
	conn2.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	stats := hub.Stats()
	assert.Equal(t, int64(2), stats["total_connections"])
}

func TestHub_StopDisconnectsClients(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub(logger, nil)
	hub.Start()

	_, conn := connect(t, hub)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Stop()
	assert.Equal(t, 0, hub.ClientCount())

	select {
	case <-conn.closed:
	case <-time.After(time.Second):
		t.Fatal("connection not closed after Stop")
	}

	// broadcasting after Stop is dropped, not blocked
	hub.Broadcast("job:complete", nil)
	assert.Equal(t, int64(1), hub.Stats()["dropped_messages"])
	// Stop is idempotent
	hub.Stop()
}

func TestHub_BroadcastNeverBlocks(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub(logger, nil)

	// loop not running, so the queue fills up
	for i := 0; i < broadcastBuffer+5; i++ {
		hub.Broadcast("job:progress", i)
	}
	stats := hub.Stats()
	assert.Equal(t, broadcastBuffer, stats["broadcast_queue"])
	assert.Equal(t, int64(5), stats["dropped_messages"])
}

func TestHub_UnencodableEventIsDropped(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	hub := NewHub(logger, nil)

	hub.Broadcast("job:progress", make(chan int))
	assert.Equal(t, 0, hub.Stats()["broadcast_queue"])
	handler.AssertLogContains(t, slog.LevelError, "error marshaling message")
}

func TestNewOTelMetrics(t *testing.T) {
	m, err := NewOTelMetrics(nil)
	require.NoError(t, err)

	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub(logger, m)
	hub.Start()
	defer hub.Stop()

	_, conn := connect(t, hub)
	hub.Broadcast("job:complete", "done")
	require.Eventually(t, func() bool { return len(conn.messages(t)) == 2 }, time.Second, 5*time.Millisecond)
	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	var nilMetrics *OTelMetrics
	assert.NotPanics(t, func() {
		nilMetrics.RecordBroadcast(context.Background(), "x")
		nilMetrics.RecordMessageSent(context.Background(), 1)
	})
}
