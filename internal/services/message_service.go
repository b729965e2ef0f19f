// Package services – MessageService
//
// This file implements the MessageService, which appends messages to
// conversations and lists them with pagination. Ownership is enforced on
// every operation: a caller can only touch messages in conversations they
// own.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/aretera/chat-backend/internal/domain"
	"github.com/aretera/chat-backend/internal/repo"
)

// MessageService provides message-level operations within a conversation.
type MessageService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// MaxContentRunes caps message length by rune count (0 disables the cap).
	MaxContentRunes int
}

// Append stores a new user-authored message in a conversation owned by
// userID.
//
// Validation:
//   - content must be non-empty after trimming; otherwise ErrEmptyContent.
//   - content must not exceed MaxContentRunes; otherwise ErrTooLong.
//   - the conversation must exist and belong to userID; otherwise
//     ErrConversationNotFound.
func (s *MessageService) Append(ctx context.Context, userID, conversationID, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if s.MaxContentRunes > 0 && utf8.RuneCountInString(content) > s.MaxContentRunes {
		return nil, ErrTooLong
	}

	if _, err := repo.GetConversation(ctx, s.DB, conversationID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	return repo.CreateMessage(ctx, s.DB, conversationID, "user", content)
}

// ListPage returns a page of messages within a conversation owned by userID,
// plus the total count. A conversation that does not exist or belongs to a
// different user yields ErrConversationNotFound.
func (s *MessageService) ListPage(ctx context.Context, userID, conversationID string, page, pageSize int) ([]domain.Message, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	if _, err := repo.GetConversation(ctx, s.DB, conversationID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrConversationNotFound
		}
		return nil, 0, err
	}

	total, err := repo.CountMessages(ctx, s.DB, conversationID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Message{}, 0, nil
	}

	items, err := repo.ListMessagesPage(ctx, s.DB, conversationID, (page-1)*pageSize, pageSize)
	return items, total, err
}
