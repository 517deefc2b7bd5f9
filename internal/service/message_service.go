package service

import (
	"context"

	"github.com/portfolio/backend/internal/model"
)

// MessageService defines the business logic for contact-form messages.
type MessageService interface {
	// Submit stores a new message. ID and CreatedAt are populated by the
	// implementation.
	Submit(ctx context.Context, msg *model.Message) error

	// List returns all messages, newest first.
	List(ctx context.Context) ([]model.Message, error)

	// Delete removes a message by ID.
	Delete(ctx context.Context, id string) error
}
