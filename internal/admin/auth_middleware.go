package admin

import (
	"net/http"
	"strings"

	"inviteguard/internal/config"
	"inviteguard/internal/observability"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthMiddleware handles API key authentication for the admin API
type AuthMiddleware struct {
	cfg    config.AdminConfig
	logger *observability.Logger
}

// NewAuthMiddleware creates a new admin authentication middleware
func NewAuthMiddleware(cfg config.AdminConfig, logger *observability.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		cfg:    cfg,
		logger: logger,
	}
}

// Authenticate validates the admin API key from the Authorization header.
// Expected format: "Bearer <api key>".
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.logger.Warn(ctx, "missing authorization header")
			unauthorized(c, "Missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.logger.Warn(ctx, "invalid authorization header format")
			unauthorized(c, "Invalid authorization header format")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(m.cfg.APIKeyHash), []byte(parts[1])); err != nil {
			m.logger.Warn(ctx, "admin API key mismatch")
			unauthorized(c, "Invalid API key")
			return
		}

		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error": message,
		"code":  "UNAUTHORIZED",
	})
	c.Abort()
}
