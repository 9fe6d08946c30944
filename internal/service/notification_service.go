package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/repository/repoargs"
	"github.com/fsdevblog/topup-store/pkg/uow"
)

type NotificationService struct {
	notificationRepo NotificationRepository
}

func NewNotificationService(u uow.UOW) (*NotificationService, error) {
	notificationRepo, repoErr := uow.GetRepositoryAs[NotificationRepository](
		u, uow.RepositoryName(repoargs.NotificationRepoName))
	if repoErr != nil {
		return nil, repoErr
	}
	return &NotificationService{notificationRepo: notificationRepo}, nil
}

// GetForUser возвращает уведомления юзера вместе с глобальными.
func (s *NotificationService) GetForUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	notifications, err := s.notificationRepo.GetForUser(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return notifications, nil
}

// MarkRead помечает уведомление прочитанным. Чужое уведомление недоступно:
// вернется ErrRecordNotFound.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID int64) error {
	if err := s.notificationRepo.MarkRead(ctx, id, userID); err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	return nil
}

// Broadcast создает глобальное уведомление, видимое всем юзерам.
func (s *NotificationService) Broadcast(ctx context.Context, title, message string) (*domain.Notification, error) {
	notification, err := s.notificationRepo.Create(ctx, repoargs.CreateNotification{
		Title:   title,
		Message: message,
	})
	if err != nil {
		return nil, fmt.Errorf("broadcasting notification: %w", err)
	}
	return notification, nil
}
