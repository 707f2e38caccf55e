package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type message struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var m message
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestHubSendsInitialMessageAndBroadcasts(t *testing.T) {
	hub := NewHub(func() any { return message{Type: "vehicles", Count: 3} }, []string{"*"})
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	a := dial(t, srv)
	b := dial(t, srv)

	assert.Equal(t, message{Type: "vehicles", Count: 3}, readMessage(t, a))
	assert.Equal(t, message{Type: "vehicles", Count: 3}, readMessage(t, b))
	assert.Equal(t, 2, hub.Clients())

	hub.Broadcast(message{Type: "vehicles", Count: 4})
	assert.Equal(t, 4, readMessage(t, a).Count)
	assert.Equal(t, 4, readMessage(t, b).Count)
}

func TestHubInitialMessagePrecedesBroadcasts(t *testing.T) {
	entered := make(chan struct{})
	proceed := make(chan struct{})
	hub := NewHub(func() any {
		close(entered)
		<-proceed
		return message{Type: "vehicles", Count: 3}
	}, []string{"*"})
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	conn := dial(t, srv)
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("initial message was never built")
	}

	hub.Broadcast(message{Type: "vehicles", Count: 99})
	assert.Equal(t, 0, hub.Clients())
	close(proceed)

	assert.Equal(t, message{Type: "vehicles", Count: 3}, readMessage(t, conn))
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 5*time.Millisecond)

	hub.Broadcast(message{Type: "vehicles", Count: 4})
	assert.Equal(t, 4, readMessage(t, conn).Count)
}

func TestHubPingsIdleClients(t *testing.T) {
	hub := NewHub(nil, []string{"*"})
	hub.IdleTimeout = 20 * time.Millisecond
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	conn := dial(t, srv)
	assert.Equal(t, "ping", readMessage(t, conn).Type)
}

func TestHubDropsClosedClients(t *testing.T) {
	hub := NewHub(func() any { return message{Type: "vehicles"} }, []string{"*"})
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	conn := dial(t, srv)
	readMessage(t, conn)
	require.Equal(t, 1, hub.Clients())

	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubRejectsForeignOrigin(t *testing.T) {
	hub := NewHub(nil, []string{"http://allowed.test"})
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := http.Header{"Origin": {"http://evil.test"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
