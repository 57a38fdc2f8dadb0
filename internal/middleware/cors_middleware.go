package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hoa-backend-go/internal/config"
)

// CORSMiddleware allows the origins listed in CLIENT_URL (comma separated).
// The mobile app does not send an Origin header, so with no CLIENT_URL the
// middleware is a pass-through.
func CORSMiddleware(cfg *config.Config, logger *zap.Logger) gin.HandlerFunc {
	var origins []string
	if cfg != nil {
		for _, o := range strings.Split(cfg.ClientURL, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	if len(origins) == 0 {
		logger.Warn("CLIENT_URL is not set; CORS headers are disabled")
		return func(c *gin.Context) { c.Next() }
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
