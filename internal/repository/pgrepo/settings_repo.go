package pgrepo

import (
	"context"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/pkg/uow"
)

type SettingsRepository struct {
	db uow.DBTX
}

func NewSettingsRepository(db uow.DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRow(ctx, `SELECT value FROM app_settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		return "", convertErr(err, "finding setting %s", key)
	}
	return value, nil
}

func (r *SettingsRepository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO app_settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value)
	if err != nil {
		return convertErr(err, "setting %s", key)
	}
	return nil
}

// TelegramSettings возвращает единственную строку настроек телеграм бота.
func (r *SettingsRepository) TelegramSettings(ctx context.Context) (*domain.TelegramSettings, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, bot_token, chat_id, is_active FROM telegram_settings ORDER BY id LIMIT 1`)

	var s domain.TelegramSettings
	if err := row.Scan(&s.ID, &s.BotToken, &s.ChatID, &s.IsActive); err != nil {
		return nil, convertErr(err, "finding telegram settings")
	}
	return &s, nil
}
