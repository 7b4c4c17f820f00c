package handlers

import (
	"context"
	"net/http"

	"telecare/middleware"
	"telecare/services/appointment"
	"telecare/services/signaling"
	"telecare/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// SignalingHandler upgrades /ws/signaling requests and hands the socket to the hub.
type SignalingHandler struct {
	Hub          *signaling.Hub
	Auth         *middleware.Authenticator
	Appointments appointment.AppointmentService
	Options      signaling.ConnOptions
	// RequireAuth forces participant ids to the token subject and limits joins to the
	// parties of the appointment the room belongs to.
	RequireAuth bool
	// ShutdownCtx ends every connection when the server stops.
	ShutdownCtx context.Context

	upgrader websocket.Upgrader
}

func NewSignalingHandler(hub *signaling.Hub, auth *middleware.Authenticator, appointments appointment.AppointmentService, opts signaling.ConnOptions, requireAuth bool, allowedOrigin string) *SignalingHandler {
	return &SignalingHandler{
		Hub:          hub,
		Auth:         auth,
		Appointments: appointments,
		Options:      opts,
		RequireAuth:  requireAuth,
		ShutdownCtx:  context.Background(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowedOrigin == "" || allowedOrigin == "*" || origin == allowedOrigin
			},
		},
	}
}

// ServeWS handles GET /ws/signaling.
func (h *SignalingHandler) ServeWS(c *gin.Context) {
	opts := h.Options
	if h.RequireAuth {
		token := c.Query("token")
		if token == "" {
			token = middleware.BearerToken(c)
		}
		if token == "" {
			utils.RespondError(c, utils.Unauthorized("Unauthorized request. No access token."))
			return
		}
		subject, _, err := h.Auth.Identify(c, token)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		opts.Identity = subject
		opts.CanJoin = func(ctx context.Context, roomID string) bool {
			return h.Appointments.IsParticipant(ctx, roomID, subject)
		}
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		getLogger(c).Debug("Websocket upgrade failed", zap.Error(err))
		return
	}

	ctx := h.ShutdownCtx
	if ctx == nil {
		ctx = context.Background()
	}
	signaling.NewConn(ws, opts).Serve(ctx, h.Hub)
}
