// Reaction HTTP handlers.
//
// This file exposes the REST endpoints for per-user message reactions and
// bookmarks, all mounted on a single resource path:
//   - GET    /reactions?message_id=...   (a user's reactions on one message)
//   - GET    /reactions?type=bookmarks   (bookmark aggregate)
//   - POST   /reactions                  (upsert on the conflict key)
//   - DELETE /reactions                  (idempotent exact-match delete)
//
// Reaction types are constrained to thumbs_up, thumbs_down, and bookmark.
// Creation requires that the target message's conversation is owned by the
// caller; the service distinguishes not-found from forbidden so clients get
// an honest status code.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aretera/chat-backend/internal/services"
)

// PostReactionRequest is the JSON payload for creating or replacing a
// reaction.
type PostReactionRequest struct {
	// MessageID identifies the reacted message.
	MessageID string `json:"message_id" binding:"required" example:"fa4dfbe0-c3bf-47bd-b32f-d7de221cf43b"`
	// ReactionType is one of thumbs_up, thumbs_down, bookmark.
	ReactionType string `json:"reaction_type" binding:"required" example:"bookmark"`
}

// GetReactions godoc
// @ID          getReactions
// @Summary     List reactions or bookmarks
// @Description With type=bookmarks returns the user's bookmarked messages; with message_id returns the user's reactions on that message. One of the two selectors is required.
// @Tags        Reactions
// @Produce     json
//
// @Param       Authorization  header  string  true   "Bearer token"
// @Param       type           query   string  false  "Aggregate selector"  Enums(bookmarks)
// @Param       message_id     query   string  false  "Message ID"
//
// @Success     200  {object} map[string]any
// @Failure     400  {object} handlers.ErrorResponse "Missing selector"
// @Failure     401  {object} handlers.ErrorResponse "Invalid or expired credential"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /reactions [get]
func (h *Handlers) GetReactions(c *gin.Context) {
	u, authed := h.authUser(c)
	if !authed {
		return
	}
	ctx := c.Request.Context()

	if strings.EqualFold(c.Query("type"), "bookmarks") {
		msgs, err := h.reactSvc.ListBookmarks(ctx, u.ID)
		if err != nil {
			h.failInternal(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"success": true, "bookmarks": msgs})
		return
	}

	messageID := strings.TrimSpace(c.Query("message_id"))
	if messageID == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message_id or type=bookmarks required")
		return
	}

	reactions, err := h.reactSvc.List(ctx, u.ID, messageID)
	if err != nil {
		h.failInternal(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"success": true, "reactions": reactions})
}

// PostReaction godoc
// @ID          postReaction
// @Summary     Create or replace a reaction
// @Description Upserts a reaction keyed on (message_id, user, reaction_type). The message's conversation must be owned by the caller.
// @Tags        Reactions
// @Accept      json
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       body           body    handlers.PostReactionRequest  true  "Reaction payload"
//
// @Success     200  {object} map[string]any
// @Failure     400  {object} handlers.ErrorResponse "Missing or invalid parameters"
// @Failure     401  {object} handlers.ErrorResponse "Invalid or expired credential"
// @Failure     403  {object} handlers.ErrorResponse "Conversation owned by another user"
// @Failure     404  {object} handlers.ErrorResponse "Message not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /reactions [post]
func (h *Handlers) PostReaction(c *gin.Context) {
	u, authed := h.authUser(c)
	if !authed {
		return
	}

	var req PostReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message_id and reaction_type required")
		return
	}

	reaction, err := h.reactSvc.Upsert(c.Request.Context(), u.ID, req.MessageID, req.ReactionType)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidReaction):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrMessageNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "message not found")
		case errors.Is(err, services.ErrForbiddenReaction):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "cannot react to this message")
		default:
			h.failInternal(c, err)
		}
		return
	}
	ok(c, http.StatusOK, gin.H{"success": true, "reaction": reaction})
}

// DeleteReaction godoc
// @ID          deleteReaction
// @Summary     Delete a reaction
// @Description Removes the exact (message_id, user, reaction_type) match. Deleting a reaction that does not exist is a success.
// @Tags        Reactions
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       message_id     query   string  true  "Message ID"
// @Param       reaction_type  query   string  true  "Reaction type"  Enums(thumbs_up, thumbs_down, bookmark)
//
// @Success     200  {object} map[string]any
// @Failure     400  {object} handlers.ErrorResponse "Missing or invalid parameters"
// @Failure     401  {object} handlers.ErrorResponse "Invalid or expired credential"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /reactions [delete]
func (h *Handlers) DeleteReaction(c *gin.Context) {
	u, authed := h.authUser(c)
	if !authed {
		return
	}

	messageID := strings.TrimSpace(c.Query("message_id"))
	reactionType := strings.TrimSpace(c.Query("reaction_type"))
	if messageID == "" || reactionType == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message_id and reaction_type required")
		return
	}

	if err := h.reactSvc.Delete(c.Request.Context(), u.ID, messageID, reactionType); err != nil {
		if errors.Is(err, services.ErrInvalidReaction) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		h.failInternal(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"success": true})
}
