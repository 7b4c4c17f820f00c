package handlers

import (
	"context"
	"net/http"

	"telecare/middleware"
	"telecare/models"
	"telecare/services/appointment"
	"telecare/utils"

	"github.com/gin-gonic/gin"
)

// AppointmentHandler serves /api/appointments.
type AppointmentHandler struct {
	Service appointment.AppointmentService
}

func NewAppointmentHandler(service appointment.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Service: service}
}

// BookHandler handles POST /book.
func (h *AppointmentHandler) BookHandler(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BadRequest("Doctor ID and start time are required"))
		return
	}

	appt, err := h.Service.Book(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewAPIResponse(
		http.StatusCreated,
		gin.H{"appointmentId": appt.ID, "status": appt.Status},
		"Appointment request submitted successfully. Waiting for doctor confirmation.",
	))
}

// PatientAppointmentsHandler handles GET /user/all.
func (h *AppointmentHandler) PatientAppointmentsHandler(c *gin.Context) {
	appts, err := h.Service.ListForPatient(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, gin.H{"appointments": appts}, "User appointments fetched successfully"))
}

// DoctorAppointmentsHandler handles GET /doctor/all.
func (h *AppointmentHandler) DoctorAppointmentsHandler(c *gin.Context) {
	appts, err := h.Service.ListForDoctor(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, gin.H{"appointments": appts}, "Doctor appointments fetched successfully"))
}

// GetHandler handles GET /:appointmentId for either party.
func (h *AppointmentHandler) GetHandler(c *gin.Context) {
	appt, err := h.Service.Get(c.Request.Context(), c.Param("appointmentId"), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, gin.H{"appointment": appt}, "Appointment fetched successfully"))
}

func (h *AppointmentHandler) respondStatus(c *gin.Context, appt *models.Appointment, err error, message string) {
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewAPIResponse(
		http.StatusOK,
		gin.H{"appointmentId": appt.ID, "status": appt.Status},
		message,
	))
}

type statusAction func(ctx context.Context, appointmentID, callerID string) (*models.Appointment, error)

func (h *AppointmentHandler) statusHandler(action statusAction, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		appt, err := action(c.Request.Context(), c.Param("appointmentId"), middleware.CurrentUserID(c))
		h.respondStatus(c, appt, err, message)
	}
}

// ConfirmHandler handles PUT /:appointmentId/confirm.
func (h *AppointmentHandler) ConfirmHandler(c *gin.Context) {
	h.statusHandler(h.Service.Confirm, "Appointment confirmed successfully.")(c)
}

// StartHandler handles PUT /:appointmentId/start.
func (h *AppointmentHandler) StartHandler(c *gin.Context) {
	h.statusHandler(h.Service.Start, "Appointment started.")(c)
}

// CancelHandler handles PUT /:appointmentId/cancel for either party.
func (h *AppointmentHandler) CancelHandler(c *gin.Context) {
	h.statusHandler(h.Service.Cancel, "Appointment cancelled.")(c)
}

// RejectHandler handles PUT /:appointmentId/reject. The reason is optional.
func (h *AppointmentHandler) RejectHandler(c *gin.Context) {
	var req models.RejectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, utils.BadRequest("Invalid request body"))
			return
		}
	}
	appt, err := h.Service.Reject(c.Request.Context(), c.Param("appointmentId"), middleware.CurrentUserID(c), req.Reason)
	h.respondStatus(c, appt, err, "Appointment rejected successfully.")
}

// CompleteHandler handles PUT /:appointmentId/complete.
func (h *AppointmentHandler) CompleteHandler(c *gin.Context) {
	var req models.CompleteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, utils.BadRequest("Invalid request body"))
			return
		}
	}
	appt, err := h.Service.Complete(c.Request.Context(), c.Param("appointmentId"), middleware.CurrentUserID(c), req)
	h.respondStatus(c, appt, err, "Appointment completed.")
}

// FeedbackHandler handles POST /:appointmentId/feedback.
func (h *AppointmentHandler) FeedbackHandler(c *gin.Context) {
	var req models.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BadRequest("Rating must be between 1 and 5"))
		return
	}
	appointmentID := c.Param("appointmentId")
	if err := h.Service.SubmitFeedback(c.Request.Context(), appointmentID, middleware.CurrentUserID(c), req); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewAPIResponse(http.StatusCreated, gin.H{"appointmentId": appointmentID}, "Thank you for your feedback."))
}
