// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Reaction
// model.
//
// Error semantics:
//   - UpsertReaction never produces a duplicate: conflicts on
//     (message_id, user_id, type) update the existing row in place.
//   - DeleteReaction is idempotent; deleting a non-existent row is not an
//     error.
//   - On DB errors (connectivity, constraints, etc.), the raw gorm error is
//     propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aretera/chat-backend/internal/domain"
)

// UpsertReaction inserts a reaction row keyed on (message_id, user_id, type).
// When the row already exists, only its updated_at moves; the stored row is
// re-read and returned so callers always see the persisted state (the
// original ID survives a conflict).
func UpsertReaction(ctx context.Context, db *gorm.DB, messageID, userID, reactionType string) (*domain.Reaction, error) {
	now := time.Now().UTC()
	r := &domain.Reaction{
		ID:        uuid.NewString(),
		MessageID: messageID,
		UserID:    userID,
		Type:      reactionType,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "message_id"}, {Name: "user_id"}, {Name: "type"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{"updated_at": now}),
	}).Create(r).Error
	if err != nil {
		return nil, err
	}
	return GetReaction(ctx, db, messageID, userID, reactionType)
}

// GetReaction fetches the reaction for an exact (message, user, type) key.
// Returns ErrNotFound when missing.
func GetReaction(ctx context.Context, db *gorm.DB, messageID, userID, reactionType string) (*domain.Reaction, error) {
	var r domain.Reaction
	err := db.WithContext(ctx).
		Where("message_id = ? AND user_id = ? AND type = ?", messageID, userID, reactionType).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteReaction removes the exact (message, user, type) match. Removing a
// row that does not exist is a no-op, not an error.
func DeleteReaction(ctx context.Context, db *gorm.DB, messageID, userID, reactionType string) error {
	return db.WithContext(ctx).
		Where("message_id = ? AND user_id = ? AND type = ?", messageID, userID, reactionType).
		Delete(&domain.Reaction{}).Error
}

// ListMessageReactions returns all of a user's reactions on one message,
// ordered by creation time ascending.
func ListMessageReactions(ctx context.Context, db *gorm.DB, messageID, userID string) ([]domain.Reaction, error) {
	var out []domain.Reaction
	err := db.WithContext(ctx).
		Where("message_id = ? AND user_id = ?", messageID, userID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

// ListBookmarkedMessages returns the messages a user has bookmarked, most
// recently bookmarked first. This is the bookmark aggregate behind
// GET /reactions?type=bookmarks.
func ListBookmarkedMessages(ctx context.Context, db *gorm.DB, userID string) ([]domain.Message, error) {
	var out []domain.Message
	err := db.WithContext(ctx).
		Model(&domain.Message{}).
		Joins("JOIN reactions ON reactions.message_id = messages.id").
		Where("reactions.user_id = ? AND reactions.type = ?", userID, domain.ReactionBookmark).
		Order("reactions.created_at DESC").
		Find(&out).Error
	return out, err
}
