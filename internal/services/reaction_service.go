// Package services – ReactionService
//
// This file implements the ReactionService, which governs per-user message
// reactions and bookmarks. It enforces business rules (message existence,
// conversation ownership, allowed reaction types) and persists reactions with
// upsert semantics on the (message_id, user_id, type) key, so repeated
// submissions never create duplicates. Deletes are idempotent: removing a
// reaction that does not exist is a success.
//
// Service-level errors (ErrInvalidReaction, ErrMessageNotFound,
// ErrForbiddenReaction) are returned for predictable cases so handlers can
// map them to HTTP results consistently.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/aretera/chat-backend/internal/domain"
	"github.com/aretera/chat-backend/internal/repo"
)

// ReactionService implements the use-cases around message reactions.
// It validates the operation (reaction type, message existence, conversation
// ownership) and persists reactions using the provided GORM handle.
type ReactionService struct {
	// DB is the database handle used for all reaction operations.
	// The handle may be a plain *gorm.DB or a transaction-bound handle.
	DB *gorm.DB
}

// Upsert records reactionType for messageID on behalf of userID.
//
// Semantics and validation:
//   - reactionType must be one of thumbs_up, thumbs_down, bookmark;
//     otherwise ErrInvalidReaction.
//   - messageID must exist; otherwise ErrMessageNotFound.
//   - The message must belong to a conversation owned by userID; otherwise
//     ErrForbiddenReaction.
//   - Submitting the same (message, user, type) again updates the existing
//     row instead of creating a duplicate.
//
// Concurrency & atomicity:
//   - The operation runs inside a transaction so the existence/ownership
//     checks and the upsert are atomic.
//
// On success the stored row is returned.
func (s *ReactionService) Upsert(ctx context.Context, userID, messageID, reactionType string) (*domain.Reaction, error) {
	if !domain.ValidReactionType(reactionType) {
		return nil, ErrInvalidReaction
	}

	var out *domain.Reaction
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) Load message and verify it exists.
		msg, err := repo.GetMessage(ctx, tx, messageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMessageNotFound
			}
			return err
		}

		// 2) Ensure the message's conversation belongs to this user.
		conv, err := repo.GetConversationByID(ctx, tx, msg.ConversationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMessageNotFound
			}
			return err
		}
		if conv.UserID != userID {
			return ErrForbiddenReaction
		}

		// 3) Upsert on the (message_id, user_id, type) conflict key.
		out, err = repo.UpsertReaction(ctx, tx, messageID, userID, reactionType)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the exact (message, user, type) reaction. A missing
// reactionType or an invalid one is rejected with ErrInvalidReaction;
// deleting a reaction that never existed succeeds.
func (s *ReactionService) Delete(ctx context.Context, userID, messageID, reactionType string) error {
	if !domain.ValidReactionType(reactionType) {
		return ErrInvalidReaction
	}
	return repo.DeleteReaction(ctx, s.DB, messageID, userID, reactionType)
}

// List returns the caller's reactions on a single message.
func (s *ReactionService) List(ctx context.Context, userID, messageID string) ([]domain.Reaction, error) {
	return repo.ListMessageReactions(ctx, s.DB, messageID, userID)
}

// ListBookmarks returns the messages the caller has bookmarked, most recent
// first.
func (s *ReactionService) ListBookmarks(ctx context.Context, userID string) ([]domain.Message, error) {
	return repo.ListBookmarkedMessages(ctx, s.DB, userID)
}
