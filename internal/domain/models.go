// Package domain defines the persistence models for conversations, messages,
// and reactions. These types are mapped with GORM and form the core data
// layer of the backend.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Reaction type values accepted by the API and enforced by a DB constraint.
const (
	ReactionThumbsUp   = "thumbs_up"
	ReactionThumbsDown = "thumbs_down"
	ReactionBookmark   = "bookmark"
)

// Conversation represents a message thread owned by a user.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: identifier of the conversation owner; indexed for efficient retrieval.
//   - Title: human-readable conversation title.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type Conversation struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"    gorm:"type:varchar(64);not null;index:idx_user_conversations"`
	Title     string         `json:"title"      gorm:"type:varchar(255);not null;default:'New conversation'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Conversation.
func (Conversation) TableName() string { return "conversations" }

// Message represents a single utterance within a conversation, authored
// either by the "user" or the "assistant".
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - ConversationID: foreign key to the owning conversation (indexed).
//   - Role: "user" or "assistant" (enforced by DB constraint).
//   - Content: full text content of the message.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker.
//   - Conversation: FK association, ensures cascade delete/update.
type Message struct {
	ID             string         `json:"id"              gorm:"type:char(36);primaryKey"`
	ConversationID string         `json:"conversation_id" gorm:"type:char(36);not null;index:idx_conversation_msgs,priority:1"`
	Role           string         `json:"role"            gorm:"type:varchar(16);not null;check:role IN ('user','assistant')"`
	Content        string         `json:"content"         gorm:"type:text;not null"`
	CreatedAt      time.Time      `json:"created_at"      gorm:"index:idx_conversation_msgs,priority:2"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-"               gorm:"index"`

	// Conversation is the parent thread. Messages are cascade-deleted
	// if their conversation is removed.
	Conversation Conversation `json:"-" gorm:"foreignKey:ConversationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// Reaction represents a per-user mark on a message: thumbs up, thumbs down,
// or bookmark. A user can hold each reaction type at most once per message
// (enforced by unique index); writes use upsert semantics on that key.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - MessageID: foreign key to the reacted message (part of conflict key).
//   - UserID: identifier of the reacting user (part of conflict key).
//   - Type: one of "thumbs_up", "thumbs_down", "bookmark".
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - Message: FK association, ensures cascade delete/update.
type Reaction struct {
	ID        string    `json:"id"            gorm:"type:char(36);primaryKey"`
	MessageID string    `json:"message_id"    gorm:"type:char(36);not null;index;uniqueIndex:ux_reactions_message_user_type"`
	UserID    string    `json:"user_id"       gorm:"type:varchar(64);not null;index;uniqueIndex:ux_reactions_message_user_type"`
	Type      string    `json:"reaction_type" gorm:"column:type;type:varchar(16);not null;check:type IN ('thumbs_up','thumbs_down','bookmark');uniqueIndex:ux_reactions_message_user_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Message is the reacted message. Reactions are cascade-deleted if the
	// underlying message is removed.
	Message Message `json:"-" gorm:"foreignKey:MessageID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Reaction.
func (Reaction) TableName() string { return "reactions" }

// ValidReactionType reports whether t is one of the accepted reaction types.
func ValidReactionType(t string) bool {
	switch t {
	case ReactionThumbsUp, ReactionThumbsDown, ReactionBookmark:
		return true
	}
	return false
}
