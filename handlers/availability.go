package handlers

import (
	"net/http"

	"telecare/middleware"
	"telecare/utils"

	"github.com/gin-gonic/gin"
)

// GetOwnAvailabilityHandler handles GET /api/auth/doctor/availability.
func (h *DoctorHandler) GetOwnAvailabilityHandler(c *gin.Context) {
	h.respondAvailability(c, middleware.CurrentUserID(c))
}

// GetDoctorAvailabilityHandler handles GET /api/auth/doctor/:doctorId/availability.
func (h *DoctorHandler) GetDoctorAvailabilityHandler(c *gin.Context) {
	h.respondAvailability(c, c.Param("doctorId"))
}

func (h *DoctorHandler) respondAvailability(c *gin.Context, doctorID string) {
	week, err := h.Service.GetAvailability(c.Request.Context(), doctorID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, week)
}

// UpdateAvailabilityHandler handles PUT /api/auth/doctor/availability. The body is the raw
// weekly array; it is decoded untyped so the validator can report shape errors itself.
func (h *DoctorHandler) UpdateAvailabilityHandler(c *gin.Context) {
	var candidate any
	if err := c.ShouldBindJSON(&candidate); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, utils.ErrorResponse{Message: "Request body must be valid JSON."})
		return
	}

	week, err := h.Service.UpdateAvailability(c.Request.Context(), middleware.CurrentUserID(c), candidate)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, week)
}
