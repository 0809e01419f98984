package handler

import (
	"net/http"

	"inviteguard/internal/apierrors"
	"inviteguard/internal/invites/processor"
	"inviteguard/internal/observability"
	"inviteguard/internal/ratelimit"
	"inviteguard/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	processor *processor.Processor
	logger    *observability.Logger
}

func New(processor *processor.Processor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

// ValidateInviteRequest represents the HTTP request for invite validation
type ValidateInviteRequest struct {
	InviterID       string            `json:"inviter_id" binding:"required"`
	InvitedID       string            `json:"invited_id" binding:"required"`
	CompetitionID   string            `json:"competition_id" binding:"required"`
	LinkID          string            `json:"link_id" binding:"required"`
	InvitedUsername string            `json:"invited_username"`
	ClientID        string            `json:"client_id"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// HandleValidateInvite handles POST /api/invites/validate
func (h *Handler) HandleValidateInvite(c *gin.Context) {
	ctx := c.Request.Context()

	var req ValidateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind request", err)
		apierrors.BadRequest(c, "INVALID_REQUEST", "invalid request body")
		return
	}

	inviterID, err := uuid.Parse(req.InviterID)
	if err != nil {
		apierrors.BadRequest(c, "INVALID_INVITER_ID", "invalid inviter id")
		return
	}
	invitedID, err := uuid.Parse(req.InvitedID)
	if err != nil {
		apierrors.BadRequest(c, "INVALID_INVITED_ID", "invalid invited id")
		return
	}
	competitionID, err := uuid.Parse(req.CompetitionID)
	if err != nil {
		apierrors.BadRequest(c, "INVALID_COMPETITION_ID", "invalid competition id")
		return
	}
	linkID, err := uuid.Parse(req.LinkID)
	if err != nil {
		apierrors.BadRequest(c, "INVALID_LINK_ID", "invalid link id")
		return
	}

	metadata := store.NewFlags()
	if req.Metadata != nil {
		if clientID, ok := req.Metadata[string(store.FlagClientID)]; ok {
			metadata[store.FlagClientID] = clientID
		}
		if username, ok := req.Metadata[string(store.FlagUsername)]; ok {
			metadata[store.FlagUsername] = username
		}
	}

	decision, err := h.processor.ValidateInvite(ctx, processor.ValidateInviteRequest{
		InviterID:       inviterID,
		InvitedID:       invitedID,
		CompetitionID:   competitionID,
		LinkID:          linkID,
		InvitedUsername: req.InvitedUsername,
		ClientID:        req.ClientID,
		Metadata:        metadata,
	})
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, decision)
}

// HandleIsBlacklisted handles GET /api/users/:user_id/blacklisted
func (h *Handler) HandleIsBlacklisted(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_USER_ID", "invalid user id")
		return
	}

	blacklisted, err := h.processor.IsBlacklisted(ctx, userID)
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":     userID,
		"blacklisted": blacklisted,
	})
}

// HandleRateLimited handles GET /api/users/:user_id/rate-limited
func (h *Handler) HandleRateLimited(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_USER_ID", "invalid user id")
		return
	}

	action, err := ratelimit.ParseAction(c.DefaultQuery("action", string(ratelimit.ActionGeneric)))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_ACTION", "invalid action type")
		return
	}

	limited, err := h.processor.RateLimited(ctx, userID, action)
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":      userID,
		"action":       action,
		"rate_limited": limited,
	})
}

// HandleFraudStatistics handles GET /api/stats/fraud
func (h *Handler) HandleFraudStatistics(c *gin.Context) {
	ctx := c.Request.Context()

	var competitionID *uuid.UUID
	if param := c.Query("competition_id"); param != "" {
		parsed, err := uuid.Parse(param)
		if err != nil {
			apierrors.BadRequest(c, "INVALID_COMPETITION_ID", "invalid competition id")
			return
		}
		competitionID = &parsed
	}

	stats, err := h.processor.GetFraudStatistics(ctx, competitionID)
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
