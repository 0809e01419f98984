package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

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

// BlacklistRequest represents the HTTP request for a manual blacklist
type BlacklistRequest struct {
	UserID       string `json:"user_id" binding:"required"`
	AdminID      string `json:"admin_id" binding:"required"`
	Permanent    bool   `json:"permanent"`
	DurationDays int    `json:"duration_days"`
}

// HandleBlacklistUser handles POST /api/admin/blacklist
func (h *Handler) HandleBlacklistUser(c *gin.Context) {
	ctx := c.Request.Context()

	var req BlacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind request", err)
		apierrors.BadRequest(c, "INVALID_REQUEST", "invalid request body")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		apierrors.BadRequest(c, "INVALID_USER_ID", "invalid user id")
		return
	}
	adminID, err := uuid.Parse(req.AdminID)
	if err != nil {
		apierrors.BadRequest(c, "INVALID_ADMIN_ID", "invalid admin id")
		return
	}

	entry, err := h.processor.ManualBlacklist(ctx, userID, adminID, req.Permanent, req.DurationDays)
	if err != nil {
		apierrors.BadRequest(c, "INVALID_BLACKLIST", err.Error())
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// HandleRemoveBlacklist handles DELETE /api/admin/blacklist/:user_id
func (h *Handler) HandleRemoveBlacklist(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_USER_ID", "invalid user id")
		return
	}
	adminID, err := uuid.Parse(c.GetHeader("X-Admin-ID"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_ADMIN_ID", "invalid or missing X-Admin-ID header")
		return
	}

	removed, err := h.processor.RemoveBlacklist(ctx, userID, adminID)
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}
	if removed == 0 {
		apierrors.NotFound(c, "no blacklist entries for user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"removed": removed,
	})
}

// HandleResetRateLimit handles DELETE /api/admin/rate-limits/:user_id
func (h *Handler) HandleResetRateLimit(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_USER_ID", "invalid user id")
		return
	}
	adminID, err := uuid.Parse(c.GetHeader("X-Admin-ID"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_ADMIN_ID", "invalid or missing X-Admin-ID header")
		return
	}
	action, err := ratelimit.ParseAction(c.DefaultQuery("action", string(ratelimit.ActionInviteAttempt)))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_ACTION", "invalid action type")
		return
	}

	if err := h.processor.ResetRateLimit(ctx, userID, adminID, action); err != nil {
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"action":  action,
		"reset":   true,
	})
}

// HandleGetRelationship handles GET /api/admin/relationships/:inviter_id/:invited_id
func (h *Handler) HandleGetRelationship(c *gin.Context) {
	ctx := c.Request.Context()

	inviterID, err := uuid.Parse(c.Param("inviter_id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_INVITER_ID", "invalid inviter id")
		return
	}
	invitedID, err := uuid.Parse(c.Param("invited_id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_INVITED_ID", "invalid invited id")
		return
	}

	detail, err := h.processor.GetRelationshipDetail(ctx, inviterID, invitedID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apierrors.NotFound(c, "no relationship for pair")
			return
		}
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// HandleQueryAuditLog handles GET /api/admin/audit
func (h *Handler) HandleQueryAuditLog(c *gin.Context) {
	ctx := c.Request.Context()

	var filter store.AuditFilter
	if param := c.Query("user_id"); param != "" {
		userID, err := uuid.Parse(param)
		if err != nil {
			apierrors.BadRequest(c, "INVALID_USER_ID", "invalid user id")
			return
		}
		filter.UserID = &userID
	}
	if param := c.Query("action_type"); param != "" {
		filter.ActionType = &param
	}
	if param := c.Query("level"); param != "" {
		filter.Level = &param
	}
	if param := c.Query("from"); param != "" {
		from, err := time.Parse(time.RFC3339, param)
		if err != nil {
			apierrors.BadRequest(c, "INVALID_FROM", "invalid from timestamp")
			return
		}
		filter.From = &from
	}
	if param := c.Query("to"); param != "" {
		to, err := time.Parse(time.RFC3339, param)
		if err != nil {
			apierrors.BadRequest(c, "INVALID_TO", "invalid to timestamp")
			return
		}
		filter.To = &to
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	entries, total, err := h.processor.QueryAuditLog(ctx, filter, limit, offset)
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}
	if entries == nil {
		entries = []store.AuditLogEntry{}
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}
