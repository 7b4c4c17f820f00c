package signaling

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisHub(t *testing.T, mr *miniredis.Miniredis) *Hub {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	bus, err := NewRedisBus(context.Background(), client)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bus.Close() })
	return NewHub(bus)
}

func signalsOf(events []Event) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Event == EventSignal {
			out = append(out, ev)
		}
	}
	return out
}

func TestRedisBus_RelaysAcrossInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	h1 := newRedisHub(t, mr)
	h2 := newRedisHub(t, mr)

	alice := newFake("conn-alice")
	bob := newFake("conn-bob")
	h1.Join("appt-1", "alice", alice)
	h2.Join("appt-1", "bob", bob)

	require.Eventually(t, func() bool { return len(alice.received()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, Event{Event: EventParticipantJoined, ParticipantID: "bob"}, alice.received()[0])

	h2.RelaySignal("appt-1", "bob", bob, json.RawMessage(`{"sdp":"offer"}`))
	h1.RelaySignal("appt-1", "alice", alice, json.RawMessage(`{"sdp":"answer"}`))

	require.Eventually(t, func() bool { return len(signalsOf(bob.received())) == 1 }, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return len(signalsOf(alice.received())) == 1 }, 2*time.Second, 10*time.Millisecond)

	fromBob := signalsOf(alice.received())[0]
	assert.Equal(t, "bob", fromBob.ParticipantID)
	assert.JSONEq(t, `{"sdp":"offer"}`, string(fromBob.Payload))

	// Redis delivers in publish order, so an echo of bob's own signal would already be queued.
	fromAlice := signalsOf(bob.received())[0]
	assert.Equal(t, "alice", fromAlice.ParticipantID)
	assert.JSONEq(t, `{"sdp":"answer"}`, string(fromAlice.Payload))
}

func TestRedisBus_DropsUnknownRoomAndMalformedPayload(t *testing.T) {
	mr := miniredis.RunT(t)
	h1 := newRedisHub(t, mr)
	h2 := newRedisHub(t, mr)

	alice := newFake("conn-alice")
	h1.Join("appt-1", "alice", alice)

	mr.Publish(RoomsChannel, "not json")
	h2.RelaySignal("appt-9", "bob", nil, json.RawMessage(`{}`))
	h2.RelaySignal("appt-1", "bob", nil, json.RawMessage(`{"candidate":"c"}`))

	require.Eventually(t, func() bool { return len(alice.received()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "bob", alice.received()[0].ParticipantID)
	assert.Equal(t, 0, h2.Members("appt-1"))
}
