package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows any origin; the form page may be served from elsewhere.
func CORS() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	cfg.ExposeHeaders = []string{
		RequestIDHeader,
		"X-Recipe-Source",
		"X-Recipe-Key",
		"X-RateLimit-Limit",
		"X-RateLimit-Remaining",
	}
	cfg.MaxAge = 24 * time.Hour
	return cors.New(cfg)
}
