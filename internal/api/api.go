package api

import (
	"net/http"

	"inviteguard/internal/admin"
	inviteHandler "inviteguard/internal/invites/handler"

	"github.com/gin-gonic/gin"
)

type API struct {
	router        *gin.RouterGroup
	inviteHandler inviteHandler.Handler
	adminHandler  admin.Handler
	adminAuth     *admin.AuthMiddleware
}

func New(router *gin.RouterGroup, inviteHandler inviteHandler.Handler, adminHandler admin.Handler, adminAuth *admin.AuthMiddleware) API {
	return API{
		router:        router,
		inviteHandler: inviteHandler,
		adminHandler:  adminHandler,
		adminAuth:     adminAuth,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()
	apiGroup := a.router.Group("/api")
	{
		apiGroup.POST("/invites/validate", a.inviteHandler.HandleValidateInvite)
		apiGroup.GET("/users/:user_id/blacklisted", a.inviteHandler.HandleIsBlacklisted)
		apiGroup.GET("/users/:user_id/rate-limited", a.inviteHandler.HandleRateLimited)
		apiGroup.GET("/stats/fraud", a.inviteHandler.HandleFraudStatistics)
	}
	adminGroup := apiGroup.Group("/admin", a.adminAuth.Authenticate())
	{
		adminGroup.POST("/blacklist", a.adminHandler.HandleBlacklistUser)
		adminGroup.DELETE("/blacklist/:user_id", a.adminHandler.HandleRemoveBlacklist)
		adminGroup.GET("/audit", a.adminHandler.HandleQueryAuditLog)
		adminGroup.GET("/relationships/:inviter_id/:invited_id", a.adminHandler.HandleGetRelationship)
		adminGroup.DELETE("/rate-limits/:user_id", a.adminHandler.HandleResetRateLimit)
	}
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
