package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"telecare/database"
	doctorRepo "telecare/database/repository/doctor"
	patientRepo "telecare/database/repository/patient"
	"telecare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticator verifies patient and doctor tokens and loads the caller into the gin context.
type Authenticator struct {
	Patients patientRepo.PatientRepository
	Doctors  doctorRepo.DoctorRepository
	Revoker  utils.TokenRevoker
}

type roleMessages struct {
	missing  string
	expired  string
	invalid  string
	notFound string
}

var messages = map[string]roleMessages{
	utils.RolePatient: {
		missing:  "Unauthorized request. No user token.",
		expired:  "User session expired. Please log in again.",
		invalid:  "Invalid user access token.",
		notFound: "Invalid user access token. User not found.",
	},
	utils.RoleDoctor: {
		missing:  "Unauthorized request. Please log in as a doctor.",
		expired:  "Doctor session expired. Please log in again.",
		invalid:  "Invalid token format.",
		notFound: "Invalid access token. Doctor not found.",
	},
}

const revokedMessage = "Session has been logged out. Please log in again."

// BearerToken returns the token from "Authorization: Bearer <token>", if any.
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// tokenFor prefers the role's cookie and falls back to the Authorization header.
func tokenFor(c *gin.Context, role string) string {
	cookieName := utils.PatientCookieName
	if role == utils.RoleDoctor {
		cookieName = utils.DoctorCookieName
	}
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}
	return BearerToken(c)
}

func (a *Authenticator) exists(ctx context.Context, role, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var err error
	switch role {
	case utils.RolePatient:
		_, err = a.Patients.GetByID(ctx, id)
	case utils.RoleDoctor:
		_, err = a.Doctors.GetByID(ctx, id)
	default:
		return false, nil
	}
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// verify checks token for role and returns the subject, or the error to send back.
func (a *Authenticator) verify(c *gin.Context, role, token string) (string, *utils.AppError) {
	msgs := messages[role]
	claims, err := utils.ParseToken(token)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return "", utils.Unauthorized(msgs.expired)
		}
		return "", utils.Unauthorized(msgs.invalid)
	}
	if claims.Role != role {
		return "", utils.Unauthorized(msgs.invalid)
	}

	if a.Revoker != nil {
		revoked, err := a.Revoker.IsRevoked(c.Request.Context(), token)
		if err != nil {
			// A Redis outage should not lock everyone out.
			utils.GetLogger().Warn("Revocation check failed", zap.Error(err))
		} else if revoked {
			return "", utils.Unauthorized(revokedMessage)
		}
	}

	ok, err := a.exists(c.Request.Context(), role, claims.Subject)
	if err != nil {
		return "", utils.Internal("Server error", err)
	}
	if !ok {
		return "", utils.Unauthorized(msgs.notFound)
	}
	return claims.Subject, nil
}

func (a *Authenticator) require(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var firstErr *utils.AppError
		for _, role := range roles {
			token := tokenFor(c, role)
			if token == "" {
				continue
			}
			subject, appErr := a.verify(c, role, token)
			if appErr == nil {
				utils.AuthAttemptsTotal.WithLabelValues(role, "accepted").Inc()
				setCaller(c, subject, role, token)
				c.Next()
				return
			}
			if firstErr == nil {
				firstErr = appErr
			}
		}
		if firstErr == nil {
			firstErr = utils.Unauthorized(messages[roles[0]].missing)
		}
		utils.AuthAttemptsTotal.WithLabelValues(strings.Join(roles, "|"), "rejected").Inc()
		if firstErr.Status >= http.StatusInternalServerError {
			utils.RespondError(c, firstErr)
			return
		}
		c.AbortWithStatusJSON(firstErr.Status, utils.ErrorResponse{Message: firstErr.Message})
	}
}

// PatientAuth admits requests carrying a valid patient token.
func (a *Authenticator) PatientAuth() gin.HandlerFunc {
	return a.require(utils.RolePatient)
}

// DoctorAuth admits requests carrying a valid doctor token.
func (a *Authenticator) DoctorAuth() gin.HandlerFunc {
	return a.require(utils.RoleDoctor)
}

// AnyAuth admits either party. A doctor token wins when both are presented.
func (a *Authenticator) AnyAuth() gin.HandlerFunc {
	return a.require(utils.RoleDoctor, utils.RolePatient)
}

// Identify verifies a token of either role, for transports that cannot carry cookies.
func (a *Authenticator) Identify(c *gin.Context, token string) (string, string, error) {
	claims, err := utils.ParseToken(token)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return "", "", utils.Unauthorized("Session expired. Please log in again.")
		}
		return "", "", utils.Unauthorized("Invalid access token.")
	}
	if _, ok := messages[claims.Role]; !ok {
		return "", "", utils.Unauthorized("Invalid access token.")
	}
	subject, appErr := a.verify(c, claims.Role, token)
	if appErr != nil {
		return "", "", appErr
	}
	return subject, claims.Role, nil
}
