package signaling

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"telecare/utils"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait      = 1 * time.Second
	defaultQueueSize = 64
)

// ConnOptions bounds one websocket connection.
type ConnOptions struct {
	MaxMessageBytes int64
	PingInterval    time.Duration
	PongWait        time.Duration
	QueueSize       int

	// Identity, when set, replaces the participantId clients put in their events and
	// restricts signals to rooms the connection joined.
	Identity string
	// CanJoin is consulted before every join when set.
	CanJoin func(ctx context.Context, roomID string) bool
}

func (o ConnOptions) withDefaults() ConnOptions {
	if o.MaxMessageBytes <= 0 {
		o.MaxMessageBytes = 64 * 1024
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	if o.PingInterval <= 0 || o.PingInterval >= o.PongWait {
		o.PingInterval = o.PongWait * 9 / 10
	}
	if o.QueueSize <= 0 {
		o.QueueSize = defaultQueueSize
	}
	return o
}

// Conn is a Participant backed by a websocket. A single writer goroutine drains the
// outbound queue, so events reach the client in the order they were queued.
type Conn struct {
	id   string
	ws   *websocket.Conn
	opts ConnOptions

	send      chan Event
	done      chan struct{}
	closeOnce sync.Once
}

func NewConn(ws *websocket.Conn, opts ConnOptions) *Conn {
	opts = opts.withDefaults()
	return &Conn{
		id:   uuid.New().String(),
		ws:   ws,
		opts: opts,
		send: make(chan Event, opts.QueueSize),
		done: make(chan struct{}),
	}
}

func (c *Conn) ID() string {
	return c.id
}

// Send queues ev without blocking. It returns false when the queue is full or the
// connection is closed.
func (c *Conn) Send(ev Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- ev:
		return true
	default:
		return false
	}
}

// Serve runs the connection until the client goes away, then removes it from every room.
func (c *Conn) Serve(ctx context.Context, hub *Hub) {
	utils.SignalingConnections.Inc()
	defer utils.SignalingConnections.Dec()

	go c.writeLoop()
	defer c.close()
	defer hub.Disconnect(c)

	go func() {
		select {
		case <-ctx.Done():
			c.writeClose(websocket.CloseGoingAway, "server shutting down")
			c.close()
		case <-c.done:
		}
	}()

	_ = c.ws.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	})

	logger := utils.GetLogger().With(zap.String("conn", c.id))

	for {
		msgType, r, err := c.ws.NextReader()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				logger.Debug("Signaling connection closed", zap.Error(err))
			}
			return
		}
		msg, err := readLimited(r, c.opts.MaxMessageBytes)
		if err != nil {
			if errors.Is(err, errMessageTooLarge) {
				c.writeClose(websocket.CloseMessageTooBig, "message too large")
				return
			}
			c.writeClose(websocket.CloseInternalServerErr, "failed to read message")
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(c.opts.PongWait))

		if msgType != websocket.TextMessage {
			continue
		}
		ev, err := ParseEvent(msg)
		if err != nil {
			continue
		}

		participantID := ev.ParticipantID
		if c.opts.Identity != "" {
			participantID = c.opts.Identity
		}

		switch ev.Event {
		case EventJoinRoom:
			if participantID == "" {
				logger.Debug("Ignoring join without participant id", zap.String("room", ev.RoomID))
				continue
			}
			if c.opts.CanJoin != nil && !c.opts.CanJoin(ctx, ev.RoomID) {
				logger.Warn("Rejected room join", zap.String("room", ev.RoomID), zap.String("participant", participantID))
				c.writeClose(websocket.ClosePolicyViolation, "not a participant of this room")
				return
			}
			hub.Join(ev.RoomID, participantID, c)
		case EventSignal:
			if c.opts.Identity != "" && !hub.IsMember(ev.RoomID, c) {
				continue
			}
			hub.RelaySignal(ev.RoomID, participantID, c, ev.Payload)
		}
	}
}

func (c *Conn) writeLoop() {
	ticker := time.NewTicker(c.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case ev := <-c.send:
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				c.close()
				return
			}
		}
	}
}

func (c *Conn) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

func (c *Conn) writeClose(code int, reason string) {
	_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(wsWriteWait))
}

var errMessageTooLarge = errors.New("message too large")

func readLimited(r io.Reader, max int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > max {
		return nil, errMessageTooLarge
	}
	return b, nil
}
