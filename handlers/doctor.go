package handlers

import (
	"net/http"
	"time"

	"telecare/middleware"
	"telecare/models"
	"telecare/services/appointment"
	"telecare/services/doctor"
	"telecare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxProfilePictureBytes = 5 << 20

// DoctorHandler serves /api/auth/doctor.
type DoctorHandler struct {
	Service      doctor.DoctorService
	Appointments appointment.AppointmentService
	TokenTTL     time.Duration
}

func NewDoctorHandler(service doctor.DoctorService, appointments appointment.AppointmentService, tokenTTL time.Duration) *DoctorHandler {
	return &DoctorHandler{Service: service, Appointments: appointments, TokenTTL: tokenTTL}
}

// RegisterHandler handles POST /register.
func (h *DoctorHandler) RegisterHandler(c *gin.Context) {
	var req models.DoctorRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		getLogger(c).Debug("Invalid doctor registration request", zap.Error(err))
		utils.RespondError(c, utils.BadRequest("All fields are required"))
		return
	}

	doctorID, err := h.Service.Register(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewAPIResponse(http.StatusCreated, gin.H{"doctorId": doctorID}, "Doctor registered successfully"))
}

// LoginHandler handles POST /login.
func (h *DoctorHandler) LoginHandler(c *gin.Context) {
	var req models.DoctorLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BadRequest("Email and password are required"))
		return
	}

	resp, err := h.Service.Login(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	setAuthCookie(c, utils.DoctorCookieName, resp.Token, h.TokenTTL)
	c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, resp, "Doctor action successful!"))
}

// LogoutHandler handles POST /logout.
func (h *DoctorHandler) LogoutHandler(c *gin.Context) {
	token, err := c.Cookie(utils.DoctorCookieName)
	if err != nil || token == "" {
		token = middleware.BearerToken(c)
	}
	if err := h.Service.Logout(c.Request.Context(), token); err != nil {
		getLogger(c).Warn("Failed to revoke doctor token", zap.Error(err))
	}
	clearAuthCookie(c, utils.DoctorCookieName)
	c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, gin.H{}, "Doctor logged out successfully"))
}

// ProfileHandler handles GET /me.
func (h *DoctorHandler) ProfileHandler(c *gin.Context) {
	d, err := h.Service.GetProfile(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, d, "Doctor profile fetched"))
}

// ListHandler handles GET /all.
func (h *DoctorHandler) ListHandler(c *gin.Context) {
	doctors, err := h.Service.ListDoctors(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, gin.H{"doctors": doctors}, "All doctors fetched successfully"))
}

// AppointmentsHandler handles GET /appointments, the calling doctor's own appointments.
func (h *DoctorHandler) AppointmentsHandler(c *gin.Context) {
	appts, err := h.Appointments.ListForDoctor(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, gin.H{"appointments": appts}, "Doctor appointments fetched successfully"))
}

// ProfilePictureHandler handles PUT /profile-picture with a multipart "file" field.
func (h *DoctorHandler) ProfilePictureHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.RespondError(c, utils.BadRequest("Profile picture file is required"))
		return
	}
	if fileHeader.Size > maxProfilePictureBytes {
		utils.RespondError(c, utils.BadRequest("Profile picture must be 5MB or smaller"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.RespondError(c, utils.Internal("Failed to read uploaded file", err))
		return
	}
	defer file.Close()

	url, err := h.Service.UpdateProfilePicture(c.Request.Context(), middleware.CurrentUserID(c), file)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, gin.H{"profilePicture": url}, "Profile picture updated"))
}
