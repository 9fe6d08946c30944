package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/repository/repoargs"
	"github.com/fsdevblog/topup-store/pkg/uow"
)

const vipUpgradeNotificationTitle = "VIP level upgraded"

// BalanceService владеет всеми мутациями balance и total_spent и держит vip_level
// юзера согласованным с total_spent.
type BalanceService struct {
	uow          uow.UOW
	userRepo     UserRepository
	vipRepo      VIPLevelRepository
	settingsRepo SettingsRepository
	announcer    UpgradeAnnouncer
	l            *logrus.Entry
}

func NewBalanceService(u uow.UOW, announcer UpgradeAnnouncer, l *logrus.Logger) (*BalanceService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	vipRepo, vipRepoErr := uow.GetRepositoryAs[VIPLevelRepository](u, uow.RepositoryName(repoargs.VIPLevelRepoName))
	if vipRepoErr != nil {
		return nil, vipRepoErr
	}
	settingsRepo, settingsRepoErr := uow.GetRepositoryAs[SettingsRepository](
		u, uow.RepositoryName(repoargs.SettingsRepoName))
	if settingsRepoErr != nil {
		return nil, settingsRepoErr
	}
	return &BalanceService{
		uow:          u,
		userRepo:     userRepo,
		vipRepo:      vipRepo,
		settingsRepo: settingsRepo,
		announcer:    announcer,
		l:            l.WithField("component", "balance_service"),
	}, nil
}

// Credit пополняет баланс юзера на amount. Пополнение не является тратой и не
// затрагивает total_spent. Инкремент выполняется на стороне базы, конкурентные
// пополнения не теряются.
func (s *BalanceService) Credit(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.User, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("crediting balance: %w", domain.ErrInvalidAmount)
	}

	var user *domain.User
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		var addErr error
		user, addErr = userRepo.AddBalance(c, userID, amount)
		return addErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("crediting balance: %w", txErr)
	}
	return user, nil
}

// ApplySpend увеличивает total_spent юзера и пересчитывает VIP уровень в одной
// транзакции. Накопитель никогда не уменьшается, отрицательный amount отклоняется.
func (s *BalanceService) ApplySpend(
	ctx context.Context,
	userID int64,
	amount decimal.Decimal,
) (*domain.VIPUpgrade, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("applying spend: %w", domain.ErrInvalidAmount)
	}

	var upgrade *domain.VIPUpgrade
	var user *domain.User
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		var err error
		user, upgrade, err = s.ApplySpendTX(c, tx, userID, amount)
		return err
	})
	if txErr != nil {
		return nil, fmt.Errorf("applying spend: %w", txErr)
	}

	if upgrade.Upgraded {
		s.announceUpgrade(ctx, user.Username, upgrade.LevelName)
	}
	return upgrade, nil
}

// ApplySpendTX выполняет учет траты внутри уже открытой транзакции tx. Используется
// сервисом заказов, чтобы списание, учет траты и апгрейд уровня фиксировались
// одним коммитом. Объявление апгрейда во внешний канал остается за вызывающим.
func (s *BalanceService) ApplySpendTX(
	ctx context.Context,
	tx uow.TX,
	userID int64,
	amount decimal.Decimal,
) (*domain.User, *domain.VIPUpgrade, error) {
	userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, nil, userRepoErr //nolint:wrapcheck
	}

	user, addErr := userRepo.AddSpent(ctx, userID, amount)
	if addErr != nil {
		return nil, nil, addErr //nolint:wrapcheck
	}

	upgrade, recErr := s.reconcileTX(ctx, tx, user)
	if recErr != nil {
		return nil, nil, recErr
	}
	return user, upgrade, nil
}

// reconcileTX пересчитывает VIP уровень юзера: берется самый высокий уровень с
// порогом не выше total_spent. Уровень только растет, автоматических понижений нет.
// Повторный запуск без новой траты ничего не меняет. Апгрейд сопровождается
// записью уведомления в той же транзакции.
func (s *BalanceService) reconcileTX(ctx context.Context, tx uow.TX, user *domain.User) (*domain.VIPUpgrade, error) {
	vipRepo, vipRepoErr := uow.GetAs[VIPLevelRepository](tx, uow.RepositoryName(repoargs.VIPLevelRepoName))
	if vipRepoErr != nil {
		return nil, vipRepoErr //nolint:wrapcheck
	}

	eligible, eligibleErr := vipRepo.HighestForSpent(ctx, user.TotalSpent)
	if eligibleErr != nil {
		return nil, eligibleErr //nolint:wrapcheck
	}

	if eligible.ID <= user.VIPLevelID {
		return &domain.VIPUpgrade{Upgraded: false}, nil
	}

	userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr //nolint:wrapcheck
	}
	if err := userRepo.SetVIPLevel(ctx, user.ID, eligible.ID); err != nil {
		return nil, err //nolint:wrapcheck
	}

	notificationRepo, nRepoErr := uow.GetAs[NotificationRepository](
		tx, uow.RepositoryName(repoargs.NotificationRepoName))
	if nRepoErr != nil {
		return nil, nRepoErr //nolint:wrapcheck
	}
	_, notifyErr := notificationRepo.Create(ctx, repoargs.CreateNotification{
		UserID:  user.ID,
		Title:   vipUpgradeNotificationTitle,
		Message: fmt.Sprintf("Congratulations! You have reached the %s level.", eligible.Name),
	})
	if notifyErr != nil {
		return nil, notifyErr //nolint:wrapcheck
	}

	upgrade := &domain.VIPUpgrade{
		Upgraded:   true,
		OldLevelID: user.VIPLevelID,
		NewLevelID: eligible.ID,
		LevelName:  eligible.Name,
	}
	user.VIPLevelID = eligible.ID
	return upgrade, nil
}

// AnnounceUpgrade отправляет сообщение об апгрейде во внешний канал, если телеграм
// настройки активны. Ошибки доставки только логируются: апгрейд уже зафиксирован.
func (s *BalanceService) AnnounceUpgrade(ctx context.Context, username, levelName string) {
	s.announceUpgrade(ctx, username, levelName)
}

func (s *BalanceService) announceUpgrade(ctx context.Context, username, levelName string) {
	if s.announcer == nil {
		return
	}
	settings, settingsErr := s.settingsRepo.TelegramSettings(ctx)
	if settingsErr != nil || !settings.IsActive {
		return
	}
	if err := s.announcer.AnnounceUpgrade(ctx, *settings, username, levelName); err != nil {
		s.l.WithError(err).Warn("failed to announce vip upgrade")
	}
}

// DiscountBreakdown - результат расчета скидки. Чистые данные без побочных эффектов.
type DiscountBreakdown struct {
	OriginalAmount     decimal.Decimal
	DiscountPercentage decimal.Decimal
	DiscountAmount     decimal.Decimal
	FinalAmount        decimal.Decimal
	VIPLevelID         int64
}

// CalculateDiscount считает скидку юзера от его текущего VIP уровня:
// discount = amount * (pct / 100). Ничего не мутирует.
func (s *BalanceService) CalculateDiscount(
	ctx context.Context,
	userID int64,
	amount decimal.Decimal,
) (*DiscountBreakdown, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("calculating discount: %w", domain.ErrInvalidAmount)
	}

	user, userErr := s.userRepo.FindByID(ctx, userID)
	if userErr != nil {
		return nil, fmt.Errorf("calculating discount: %w", userErr)
	}

	level, levelErr := s.vipRepo.FindByID(ctx, user.VIPLevelID)
	if levelErr != nil {
		return nil, fmt.Errorf("calculating discount: %w", levelErr)
	}

	breakdown := ComputeDiscount(amount, level)
	return &breakdown, nil
}

// ComputeDiscount - чистая функция расчета скидки от уровня.
func ComputeDiscount(amount decimal.Decimal, level *domain.VIPLevel) DiscountBreakdown {
	hundred := decimal.NewFromInt(100)
	discountAmount := amount.Mul(level.DiscountPercentage.Div(hundred))
	return DiscountBreakdown{
		OriginalAmount:     amount,
		DiscountPercentage: level.DiscountPercentage,
		DiscountAmount:     discountAmount,
		FinalAmount:        amount.Sub(discountAmount),
		VIPLevelID:         level.ID,
	}
}

// GetBalance возвращает баланс, total_spent и уровень юзера.
func (s *BalanceService) GetBalance(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return user, nil
}

// VIPLevels возвращает всю таблицу уровней по порядку.
func (s *BalanceService) VIPLevels(ctx context.Context) ([]domain.VIPLevel, error) {
	levels, err := s.vipRepo.All(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return levels, nil
}
