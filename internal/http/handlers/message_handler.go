// Message HTTP handlers.
//
// This file exposes REST endpoints for message resources:
//   - GET  /conversations/{id}/messages  (list, paginated)
//   - POST /conversations/{id}/messages  (append)
//
// Handlers are transport-thin: they authenticate the caller, validate input,
// delegate to the message service, and translate domain/service errors into
// HTTP results.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aretera/chat-backend/internal/domain"
	"github.com/aretera/chat-backend/internal/services"
)

// PostMessageRequest is the JSON payload for appending a message.
type PostMessageRequest struct {
	// Content is the message body (required, non-blank).
	Content string `json:"content" binding:"required" example:"Where is my invoice?"`
}

// ListMessagesResponse wraps a page of messages and pagination information.
type ListMessagesResponse struct {
	Success    bool             `json:"success"`
	Messages   []domain.Message `json:"messages"`
	Pagination Pagination       `json:"pagination"`
}

// ListMessages godoc
// @ID          listMessages
// @Summary     List messages in a conversation (paginated)
// @Tags        Messages
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       id             path    string  true  "Conversation ID (UUID)"  format(uuid)
// @Param       page           query   int     false "Page number"             minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"          minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListMessagesResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Invalid or expired credential"
// @Failure     404  {object} handlers.ErrorResponse "Conversation not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /conversations/{id}/messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	u, authed := h.authUser(c)
	if !authed {
		return
	}

	conversationID := c.Param("id")
	if _, err := uuid.Parse(conversationID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "conversation id must be a UUID")
		return
	}
	page, pageSize := clampPagination(c)

	items, total, err := h.msgSvc.ListPage(c.Request.Context(), u.ID, conversationID, page, pageSize)
	if err != nil {
		if errors.Is(err, services.ErrConversationNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "conversation not found")
			return
		}
		h.failInternal(c, err)
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListMessagesResponse{
		Success:  true,
		Messages: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// PostMessage godoc
// @ID          postMessage
// @Summary     Append a message to a conversation
// @Tags        Messages
// @Accept      json
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       id             path    string  true  "Conversation ID (UUID)"  format(uuid)
// @Param       body           body    handlers.PostMessageRequest  true  "Message payload"
//
// @Success     201  {object} domain.Message
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Invalid or expired credential"
// @Failure     404  {object} handlers.ErrorResponse "Conversation not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /conversations/{id}/messages [post]
func (h *Handlers) PostMessage(c *gin.Context) {
	u, authed := h.authUser(c)
	if !authed {
		return
	}

	conversationID := c.Param("id")
	if _, err := uuid.Parse(conversationID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "conversation id must be a UUID")
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}

	msg, err := h.msgSvc.Append(c.Request.Context(), u.ID, conversationID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyContent), errors.Is(err, services.ErrTooLong):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrConversationNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "conversation not found")
		default:
			h.failInternal(c, err)
		}
		return
	}
	ok(c, http.StatusCreated, msg)
}
