package handlers

import (
	"net/http"
	"time"

	"telecare/config"

	"github.com/gin-gonic/gin"
)

const defaultCookieTTL = 7 * 24 * time.Hour

// setAuthCookie stores token in an httpOnly cookie, secure in production.
func setAuthCookie(c *gin.Context, name, token string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultCookieTTL
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, token, int(ttl.Seconds()), "/", "", config.IsProduction(), true)
}

func clearAuthCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", config.IsProduction(), true)
}
