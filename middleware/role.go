package middleware

import "github.com/gin-gonic/gin"

// Context keys set by the auth middleware.
const (
	ContextUserID = "userID"
	ContextRole   = "role"
	ContextToken  = "token"
)

func setCaller(c *gin.Context, userID, role, token string) {
	c.Set(ContextUserID, userID)
	c.Set(ContextRole, role)
	c.Set(ContextToken, token)
}

// CurrentUserID returns the authenticated patient or doctor id.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// CurrentRole returns utils.RolePatient or utils.RoleDoctor.
func CurrentRole(c *gin.Context) string {
	return c.GetString(ContextRole)
}

// CurrentToken returns the token the request was authenticated with.
func CurrentToken(c *gin.Context) string {
	return c.GetString(ContextToken)
}
