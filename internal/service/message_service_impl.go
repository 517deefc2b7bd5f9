package service

import (
	"context"
	"fmt"
	"time"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/repository"
)

// messageServiceImpl is the production implementation of MessageService.
type messageServiceImpl struct {
	repo repository.MessageRepository
	now  func() time.Time
}

// NewMessageService creates a MessageService backed by the given repository.
func NewMessageService(repo repository.MessageRepository) MessageService {
	return &messageServiceImpl{repo: repo, now: time.Now}
}

// Submit stamps CreatedAt and persists the message. The database may
// overwrite CreatedAt with its own clock.
func (s *messageServiceImpl) Submit(ctx context.Context, msg *model.Message) error {
	msg.ID = ""
	msg.CreatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, msg); err != nil {
		return fmt.Errorf("save message: %w", err)
	}
	return nil
}

// List returns all messages in repository order (created_at DESC).
func (s *messageServiceImpl) List(ctx context.Context) ([]model.Message, error) {
	return s.repo.List(ctx)
}

// Delete removes a message. repository.ErrNotFound is passed through.
func (s *messageServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
