package handlers

import (
	"telecare/middleware"
)

// HandlerBundle groups all endpoint handlers and the auth middleware they sit behind.
type HandlerBundle struct {
	Auth *middleware.Authenticator

	Patient     *PatientHandler
	Doctor      *DoctorHandler
	Appointment *AppointmentHandler
	Signaling   *SignalingHandler

	// RateLimiter is optional; nil disables request limiting.
	RateLimiter *middleware.RateLimiter
}
