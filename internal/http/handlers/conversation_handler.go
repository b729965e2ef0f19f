// Conversation HTTP handlers.
//
// This file exposes REST endpoints for conversation resources:
//   - POST   /conversations   (create)
//   - GET    /conversations   (list, paginated, ETag support)
//
// It also defines the Handlers aggregate and the service contracts consumed
// by every endpoint in this package. Handlers are transport-thin: they
// authenticate the caller, validate input, call application services, and
// translate results into HTTP responses.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aretera/chat-backend/internal/auth"
	"github.com/aretera/chat-backend/internal/domain"
	"github.com/aretera/chat-backend/internal/repo"
	"github.com/aretera/chat-backend/internal/services"
	"github.com/aretera/chat-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// ConversationService defines conversation lifecycle operations consumed by
// HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ConversationService interface {
	// Create starts a new conversation for userID with an optional title.
	Create(ctx context.Context, userID, title string) (*domain.Conversation, error)
	// ListPage returns a page of conversations for a user and the total count.
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Conversation, int64, error)
}

// MessageService defines message storage and retrieval operations.
type MessageService interface {
	// Append stores a user message in a conversation owned by userID.
	Append(ctx context.Context, userID, conversationID, content string) (*domain.Message, error)
	// ListPage returns a page of messages within a conversation and the total count.
	ListPage(ctx context.Context, userID, conversationID string, page, pageSize int) ([]domain.Message, int64, error)
}

// ReactionService defines operations on per-user message reactions and
// bookmarks.
type ReactionService interface {
	// Upsert records a reaction, replacing an existing row on the same key.
	Upsert(ctx context.Context, userID, messageID, reactionType string) (*domain.Reaction, error)
	// Delete removes the exact reaction; missing rows are not an error.
	Delete(ctx context.Context, userID, messageID, reactionType string) error
	// List returns the user's reactions on one message.
	List(ctx context.Context, userID, messageID string) ([]domain.Reaction, error)
	// ListBookmarks returns the messages the user has bookmarked.
	ListBookmarks(ctx context.Context, userID string) ([]domain.Message, error)
}

// RequestVerifier resolves a request's bearer credential to a user identity.
// It is the production verification path shared by all authenticated
// endpoints.
type RequestVerifier interface {
	VerifyRequest(ctx context.Context, r *http.Request, opts auth.Options) (*auth.User, error)
}

// AuthDiagnostics assembles the diagnostic report behind GET /debug/auth.
type AuthDiagnostics interface {
	Run(ctx context.Context, r *http.Request) *services.AuthDiagReport
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for conversations, messages, reactions, and
// auth diagnostics. It depends on abstract service interfaces to keep
// transport concerns separate from business logic.
type Handlers struct {
	convSvc  ConversationService
	msgSvc   MessageService
	reactSvc ReactionService
	diagSvc  AuthDiagnostics
	verifier RequestVerifier

	// production suppresses internal error detail in 500 responses.
	production bool
}

// New constructs and returns a Handlers instance bound to the given services.
func New(convSvc ConversationService, msgSvc MessageService, reactSvc ReactionService, diagSvc AuthDiagnostics, verifier RequestVerifier, production bool) *Handlers {
	return &Handlers{
		convSvc:    convSvc,
		msgSvc:     msgSvc,
		reactSvc:   reactSvc,
		diagSvc:    diagSvc,
		verifier:   verifier,
		production: production,
	}
}

// authUser resolves the caller's identity via the shared verification path.
// On failure it writes a 401 envelope and returns ok=false; the caller must
// stop handling. The resolved user ID is stored in the Gin context so the
// logging and rate-limiting middleware can key on it.
func (h *Handlers) authUser(c *gin.Context) (*auth.User, bool) {
	u, err := h.verifier.VerifyRequest(c.Request.Context(), c.Request, auth.Options{RequireAuth: true})
	if err != nil {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid or expired credential")
		return nil, false
	}
	c.Set("userID", u.ID)
	return u, true
}

// failInternal writes a 500 envelope. Outside production the underlying error
// detail is included; in production it collapses to a generic message (the
// full error is still logged server-side by fail()).
func (h *Handlers) failInternal(c *gin.Context, err error) {
	msg := "internal server error"
	if !h.production && err != nil {
		msg = err.Error()
	}
	fail(c, http.StatusInternalServerError, ErrCodeInternal, msg)
}

//
// DTOs
//

// CreateConversationRequest is the JSON payload for creating a conversation.
type CreateConversationRequest struct {
	// Title optionally sets the conversation title; a default is used when empty.
	Title string `json:"title" example:"Billing questions"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListConversationsResponse wraps a page of conversations and pagination
// information.
type ListConversationsResponse struct {
	Success       bool                  `json:"success"`
	Conversations []domain.Conversation `json:"conversations"`
	Pagination    Pagination            `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

//
// Handlers
//

// CreateConversation godoc
// @ID          createConversation
// @Summary     Create a new conversation
// @Description Creates a conversation for the current user and returns the resource.
// @Tags        Conversations
// @Accept      json
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       body           body    handlers.CreateConversationRequest  true  "Create conversation payload"
//
// @Success     201  {object}  domain.Conversation
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid or expired credential"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /conversations [post]
func (h *Handlers) CreateConversation(c *gin.Context) {
	u, authed := h.authUser(c)
	if !authed {
		return
	}

	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	conv, err := h.convSvc.Create(c.Request.Context(), u.ID, strings.TrimSpace(req.Title))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, conv)
}

// ListConversations godoc
// @ID          listConversations
// @Summary     List conversations (paginated)
// @Description Returns a page of the user's conversations. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Conversations
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListConversationsResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     401  {object} handlers.ErrorResponse "Invalid or expired credential"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /conversations [get]
func (h *Handlers) ListConversations(c *gin.Context) {
	u, authed := h.authUser(c)
	if !authed {
		return
	}
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, isSvc := h.convSvc.(*services.ConversationService); isSvc {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.ConversationsStats(ctx, db, u.ID)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"conversations:%s:%d:%d"`, u.ID, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.convSvc.ListPage(ctx, u.ID, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	resp := ListConversationsResponse{
		Success:       true,
		Conversations: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	}
	ok(c, http.StatusOK, resp)
}
