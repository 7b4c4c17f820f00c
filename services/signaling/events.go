// Package signaling relays WebRTC handshake messages between the parties of a call room.
package signaling

import (
	"encoding/json"
	"errors"
)

// Wire event names.
const (
	EventJoinRoom          = "join-room"
	EventParticipantJoined = "participant-joined"
	EventSignal            = "signal"
)

// Event is one JSON text frame. Payload is relayed verbatim and never inspected.
type Event struct {
	Event         string          `json:"event"`
	RoomID        string          `json:"roomId,omitempty"`
	ParticipantID string          `json:"participantId,omitempty"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

var ErrInvalidEvent = errors.New("invalid signaling event")

// ParseEvent decodes a client frame. Only the envelope is decoded; the payload stays raw.
func ParseEvent(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, ErrInvalidEvent
	}
	switch ev.Event {
	case EventJoinRoom:
		if ev.RoomID == "" {
			return Event{}, ErrInvalidEvent
		}
	case EventSignal:
		if ev.RoomID == "" {
			return Event{}, ErrInvalidEvent
		}
	default:
		return Event{}, ErrInvalidEvent
	}
	return ev, nil
}

func participantJoined(participantID string) Event {
	return Event{Event: EventParticipantJoined, ParticipantID: participantID}
}

func signal(senderID string, payload json.RawMessage) Event {
	return Event{Event: EventSignal, ParticipantID: senderID, Payload: payload}
}
