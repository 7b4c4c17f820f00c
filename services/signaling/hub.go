package signaling

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"telecare/utils"

	"go.uber.org/zap"
)

// Participant is one live connection. Send must not block; it reports false when the
// event could not be queued.
type Participant interface {
	ID() string
	Send(Event) bool
}

const publishTimeout = 2 * time.Second

// Hub tracks room membership for the connections of this process and fans events out
// through a Bus. Rooms exist only while they have members.
type Hub struct {
	mu          sync.RWMutex
	rooms       map[string]map[string]Participant // room id -> connection id -> participant
	memberships map[string]map[string]struct{}    // connection id -> room ids

	bus Bus
}

// NewHub wires the hub to bus and starts receiving the bus's deliveries.
func NewHub(bus Bus) *Hub {
	h := &Hub{
		rooms:       make(map[string]map[string]Participant),
		memberships: make(map[string]map[string]struct{}),
		bus:         bus,
	}
	bus.Subscribe(h.deliver)
	return h
}

// Join adds p to roomID and tells the members already present that participantID arrived.
// The joiner itself receives nothing.
func (h *Hub) Join(roomID, participantID string, p Participant) {
	h.mu.Lock()
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[string]Participant)
		h.rooms[roomID] = members
	}
	members[p.ID()] = p

	joined, ok := h.memberships[p.ID()]
	if !ok {
		joined = make(map[string]struct{})
		h.memberships[p.ID()] = joined
	}
	joined[roomID] = struct{}{}
	rooms := len(h.rooms)
	h.mu.Unlock()

	utils.SignalingRooms.Set(float64(rooms))
	utils.GetLogger().Debug("Participant joined room",
		zap.String("room", roomID), zap.String("participant", participantID), zap.String("conn", p.ID()))

	h.publish(Envelope{RoomID: roomID, Exclude: p.ID(), Event: participantJoined(participantID)})
}

// RelaySignal forwards payload, tagged with senderID, to every member of roomID except from.
// A room with no members swallows the message.
func (h *Hub) RelaySignal(roomID, senderID string, from Participant, payload json.RawMessage) {
	exclude := ""
	if from != nil {
		exclude = from.ID()
	}
	h.publish(Envelope{RoomID: roomID, Exclude: exclude, Event: signal(senderID, payload)})
}

// Leave removes p from one room.
func (h *Hub) Leave(roomID string, p Participant) {
	h.mu.Lock()
	h.removeLocked(roomID, p.ID())
	if joined, ok := h.memberships[p.ID()]; ok {
		delete(joined, roomID)
		if len(joined) == 0 {
			delete(h.memberships, p.ID())
		}
	}
	rooms := len(h.rooms)
	h.mu.Unlock()

	utils.SignalingRooms.Set(float64(rooms))
}

// Disconnect removes p from every room it joined. Remaining members are not notified.
func (h *Hub) Disconnect(p Participant) {
	h.mu.Lock()
	for roomID := range h.memberships[p.ID()] {
		h.removeLocked(roomID, p.ID())
	}
	delete(h.memberships, p.ID())
	rooms := len(h.rooms)
	h.mu.Unlock()

	utils.SignalingRooms.Set(float64(rooms))
}

func (h *Hub) removeLocked(roomID, connID string) {
	members, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(h.rooms, roomID)
	}
}

// IsMember reports whether p has joined roomID.
func (h *Hub) IsMember(roomID string, p Participant) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.rooms[roomID][p.ID()]
	return ok
}

// Rooms returns the number of rooms with local members.
func (h *Hub) Rooms() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// Members returns the number of local connections in roomID.
func (h *Hub) Members(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

func (h *Hub) publish(env Envelope) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := h.bus.Publish(ctx, env); err != nil {
		utils.SignalingDropped.WithLabelValues("publish").Inc()
		utils.GetLogger().Warn("Failed to publish signaling event",
			zap.String("room", env.RoomID), zap.String("event", env.Event.Event), zap.Error(err))
	}
}

// deliver hands env to the local members of its room. Members are snapshotted under the
// read lock and sent to outside it.
func (h *Hub) deliver(env Envelope) {
	h.mu.RLock()
	members, found := h.rooms[env.RoomID]
	targets := make([]Participant, 0, len(members))
	for connID, p := range members {
		if connID == env.Exclude {
			continue
		}
		targets = append(targets, p)
	}
	h.mu.RUnlock()

	if !found {
		utils.SignalingDropped.WithLabelValues("no_room").Inc()
		return
	}

	for _, p := range targets {
		if p.Send(env.Event) {
			utils.SignalingRelayed.WithLabelValues(env.Event.Event).Inc()
		} else {
			utils.SignalingDropped.WithLabelValues("queue_full").Inc()
		}
	}
}
