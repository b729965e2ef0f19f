// Package services defines the business logic for conversations, messages,
// and reactions. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

var (
	// ErrConversationNotFound indicates that the requested conversation does
	// not exist or is not accessible to the current user.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrEmptyContent is returned when a request to create a message contains
	// no content.
	ErrEmptyContent = errors.New("message content is empty")

	// ErrTooLong is returned when a request to create a message exceeds the
	// maximum configured length limit.
	ErrTooLong = errors.New("message content too long")

	// ErrMessageNotFound indicates that the requested message does not exist.
	ErrMessageNotFound = errors.New("message not found")

	// ErrInvalidReaction is returned when a reaction type is outside the
	// allowed set (thumbs_up, thumbs_down, bookmark).
	ErrInvalidReaction = errors.New("reaction type must be thumbs_up, thumbs_down, or bookmark")

	// ErrForbiddenReaction is returned when a user attempts to react to a
	// message in a conversation they do not own.
	ErrForbiddenReaction = errors.New("cannot react to this message")
)
