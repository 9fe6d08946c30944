package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/repository/repoargs"
	"github.com/fsdevblog/topup-store/pkg/uow"
)

const notificationColumns = `id, created_at, user_id, title, message, is_read`

type NotificationRepository struct {
	db uow.DBTX
}

func NewNotificationRepository(db uow.DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(
	ctx context.Context,
	args repoargs.CreateNotification,
) (*domain.Notification, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO notifications (user_id, title, message)
		VALUES (NULLIF($1, 0), $2, $3)
		RETURNING `+notificationColumns,
		args.UserID, args.Title, args.Message)

	notification, err := scanNotification(row)
	if err != nil {
		return nil, convertErr(err, "creating notification for user %d", args.UserID)
	}
	return notification, nil
}

// GetForUser возвращает персональные уведомления юзера вместе с глобальными.
func (r *NotificationRepository) GetForUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+notificationColumns+` FROM notifications
		WHERE user_id = $1 OR user_id IS NULL
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, convertErr(err, "listing notifications of user %d", userID)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		n, scanErr := scanNotification(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "listing notifications of user %d", userID)
		}
		notifications = append(notifications, *n)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing notifications of user %d", userID)
	}
	return notifications, nil
}

// MarkRead помечает уведомление прочитанным. Чужое уведомление пометить нельзя.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE
		WHERE id = $1 AND (user_id = $2 OR user_id IS NULL)`,
		id, userID)
	if err != nil {
		return convertErr(err, "marking notification %d as read", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "marking notification %d as read", id)
	}
	return nil
}

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var n domain.Notification
	var userID *int64
	if err := row.Scan(&n.ID, &n.CreatedAt, &userID, &n.Title, &n.Message, &n.IsRead); err != nil {
		return nil, err
	}
	if userID != nil {
		n.UserID = *userID
	}
	return &n, nil
}
