package handlers

import (
	"net/http"
	"time"

	"telecare/middleware"
	"telecare/models"
	"telecare/services/patient"
	"telecare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PatientHandler serves /api/auth/user.
type PatientHandler struct {
	Service  patient.PatientService
	TokenTTL time.Duration
}

func NewPatientHandler(service patient.PatientService, tokenTTL time.Duration) *PatientHandler {
	return &PatientHandler{Service: service, TokenTTL: tokenTTL}
}

// RegisterHandler handles POST /register.
func (h *PatientHandler) RegisterHandler(c *gin.Context) {
	var req models.PatientRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		getLogger(c).Debug("Invalid registration request", zap.Error(err))
		utils.RespondError(c, utils.BadRequest("Please fill all required fields"))
		return
	}

	userID, err := h.Service.Register(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Verification code sent successfully. Please verify your account.",
		"userId":  userID,
	})
}

// VerifyHandler handles POST /verify.
func (h *PatientHandler) VerifyHandler(c *gin.Context) {
	var req models.OTPVerification
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BadRequest("User ID and verification code are required."))
		return
	}

	token, err := h.Service.VerifyAccount(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	setAuthCookie(c, utils.PatientCookieName, token, h.TokenTTL)
	c.JSON(http.StatusOK, gin.H{"message": "Account verified successfully!", "token": token})
}

// ResendCodeHandler handles POST /resend-code.
func (h *PatientHandler) ResendCodeHandler(c *gin.Context) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		utils.RespondError(c, utils.BadRequest("User ID is required."))
		return
	}

	if err := h.Service.ResendCode(c.Request.Context(), req.UserID); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "A new verification code has been sent."})
}

// LoginHandler handles POST /login.
func (h *PatientHandler) LoginHandler(c *gin.Context) {
	var req struct {
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BadRequest("Please provide a phone number"))
		return
	}

	userID, err := h.Service.Login(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login OTP sent successfully.", "userId": userID})
}

// VerifyLoginHandler handles POST /verify-login.
func (h *PatientHandler) VerifyLoginHandler(c *gin.Context) {
	var req models.OTPVerification
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BadRequest("User ID and verification code are required."))
		return
	}

	token, err := h.Service.VerifyLogin(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	setAuthCookie(c, utils.PatientCookieName, token, h.TokenTTL)
	c.JSON(http.StatusOK, gin.H{"message": "User logged in successfully!", "token": token})
}

// LogoutHandler handles POST /logout. It succeeds without a session too.
func (h *PatientHandler) LogoutHandler(c *gin.Context) {
	token, err := c.Cookie(utils.PatientCookieName)
	if err != nil || token == "" {
		token = middleware.BearerToken(c)
	}
	if err := h.Service.Logout(c.Request.Context(), token); err != nil {
		getLogger(c).Warn("Failed to revoke patient token", zap.Error(err))
	}
	clearAuthCookie(c, utils.PatientCookieName)
	c.JSON(http.StatusOK, gin.H{"message": "User logged out successfully"})
}

// ProfileHandler handles GET /profile.
func (h *PatientHandler) ProfileHandler(c *gin.Context) {
	p, err := h.Service.GetProfile(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": p})
}
