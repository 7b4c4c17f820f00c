package signaling

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRelayServer(t *testing.T, hub *Hub, opts ConnOptions) string {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewConn(ws, opts).Serve(context.Background(), hub)
	}))
	t.Cleanup(ts.Close)
	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func readEvent(t *testing.T, c *websocket.Conn) Event {
	t.Helper()
	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	require.NoError(t, c.ReadJSON(&ev))
	return ev
}

func waitMembers(t *testing.T, hub *Hub, room string, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Members(room) == n }, 2*time.Second, 10*time.Millisecond)
}

func TestConn_JoinAndRelay(t *testing.T) {
	hub := NewHub(NewMemoryBus())
	url := newRelayServer(t, hub, ConnOptions{})

	doctor := dial(t, url)
	patient := dial(t, url)

	require.NoError(t, doctor.WriteJSON(Event{Event: EventJoinRoom, RoomID: "appt-9", ParticipantID: "doc"}))
	waitMembers(t, hub, "appt-9", 1)
	require.NoError(t, patient.WriteJSON(Event{Event: EventJoinRoom, RoomID: "appt-9", ParticipantID: "pat"}))

	joined := readEvent(t, doctor)
	assert.Equal(t, EventParticipantJoined, joined.Event)
	assert.Equal(t, "pat", joined.ParticipantID)

	offer := `{"event":"signal","roomId":"appt-9","participantId":"pat","payload":{"type":"offer","sdp":"v=0"}}`
	require.NoError(t, patient.WriteMessage(websocket.TextMessage, []byte(offer)))

	got := readEvent(t, doctor)
	assert.Equal(t, EventSignal, got.Event)
	assert.Equal(t, "pat", got.ParticipantID)
	assert.JSONEq(t, `{"type":"offer","sdp":"v=0"}`, string(got.Payload))

	// The sender never hears its own signal.
	_ = patient.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := patient.ReadMessage()
	assert.Error(t, err)
}

func TestConn_IgnoresGarbageAndDisconnectLeavesRoom(t *testing.T) {
	hub := NewHub(NewMemoryBus())
	url := newRelayServer(t, hub, ConnOptions{})

	a := dial(t, url)
	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte("hello")))
	require.NoError(t, a.WriteMessage(websocket.BinaryMessage, []byte{1, 2, 3}))
	require.NoError(t, a.WriteJSON(Event{Event: EventJoinRoom, RoomID: "r", ParticipantID: "a"}))
	waitMembers(t, hub, "r", 1)

	require.NoError(t, a.Close())
	require.Eventually(t, func() bool { return hub.Rooms() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestConn_OversizedFrameCloses(t *testing.T) {
	hub := NewHub(NewMemoryBus())
	url := newRelayServer(t, hub, ConnOptions{MaxMessageBytes: 128})

	c := dial(t, url)
	big := `{"event":"signal","roomId":"r","payload":"` + strings.Repeat("x", 256) + `"}`
	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(big)))

	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := c.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseMessageTooBig), "got %v", err)
}

func TestConn_IdentityOverridesParticipantAndGatesJoin(t *testing.T) {
	hub := NewHub(NewMemoryBus())
	allowed := map[string]bool{"appt-1": true}
	opts := ConnOptions{
		Identity: "doctor-7",
		CanJoin:  func(_ context.Context, room string) bool { return allowed[room] },
	}
	url := newRelayServer(t, hub, opts)

	listener := dial(t, url)
	require.NoError(t, listener.WriteJSON(Event{Event: EventJoinRoom, RoomID: "appt-1", ParticipantID: "spoofed"}))
	waitMembers(t, hub, "appt-1", 1)

	intruder := dial(t, url)
	require.NoError(t, intruder.WriteJSON(Event{Event: EventJoinRoom, RoomID: "appt-2"}))
	_ = intruder.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := intruder.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation), "got %v", err)

	second := dial(t, url)
	require.NoError(t, second.WriteJSON(Event{Event: EventJoinRoom, RoomID: "appt-1", ParticipantID: "someone-else"}))
	joined := readEvent(t, listener)
	assert.Equal(t, "doctor-7", joined.ParticipantID)
}

func TestConn_JoinRequiresParticipantID(t *testing.T) {
	hub := NewHub(NewMemoryBus())
	url := newRelayServer(t, hub, ConnOptions{})

	c := dial(t, url)
	require.NoError(t, c.WriteJSON(Event{Event: EventJoinRoom, RoomID: "appt-1"}))
	require.NoError(t, c.WriteJSON(Event{Event: EventJoinRoom, RoomID: "marker", ParticipantID: "alice"}))

	// Frames are handled in order, so the first join has been processed by now.
	waitMembers(t, hub, "marker", 1)
	assert.Equal(t, 0, hub.Members("appt-1"))
}

func TestConn_IdentitySuppliesParticipantID(t *testing.T) {
	hub := NewHub(NewMemoryBus())
	url := newRelayServer(t, hub, ConnOptions{Identity: "patient-3"})

	c := dial(t, url)
	require.NoError(t, c.WriteJSON(Event{Event: EventJoinRoom, RoomID: "appt-1"}))
	waitMembers(t, hub, "appt-1", 1)
}

func TestConn_ServerPings(t *testing.T) {
	hub := NewHub(NewMemoryBus())
	url := newRelayServer(t, hub, ConnOptions{PingInterval: 20 * time.Millisecond, PongWait: time.Second})

	c := dial(t, url)
	pinged := make(chan struct{}, 1)
	c.SetPingHandler(func(string) error {
		select {
		case pinged <- struct{}{}:
		default:
		}
		return nil
	})
	go func() {
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case <-pinged:
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for server ping")
	}
}
