package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/repository/repoargs"
	"github.com/fsdevblog/topup-store/internal/service/mocks"
	"github.com/fsdevblog/topup-store/pkg/uow"
	uowmocks "github.com/fsdevblog/topup-store/pkg/uow/mocks"
)

type BalanceServiceTestSuite struct {
	suite.Suite
	mockUOW              *uowmocks.MockUOW
	mockTX               *uowmocks.MockTX
	mockUserRepo         *mocks.MockUserRepository
	mockVIPRepo          *mocks.MockVIPLevelRepository
	mockSettingsRepo     *mocks.MockSettingsRepository
	mockNotificationRepo *mocks.MockNotificationRepository
	mockAnnouncer        *mocks.MockUpgradeAnnouncer
	balanceService       *BalanceService
}

func TestBalanceServiceSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}

func (s *BalanceServiceTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(mockCtrl)
	s.mockTX = uowmocks.NewMockTX(mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(mockCtrl)
	s.mockVIPRepo = mocks.NewMockVIPLevelRepository(mockCtrl)
	s.mockSettingsRepo = mocks.NewMockSettingsRepository(mockCtrl)
	s.mockNotificationRepo = mocks.NewMockNotificationRepository(mockCtrl)
	s.mockAnnouncer = mocks.NewMockUpgradeAnnouncer(mockCtrl)

	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.VIPLevelRepoName)).
		Return(s.mockVIPRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.SettingsRepoName)).
		Return(s.mockSettingsRepo, nil).AnyTimes()

	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)

	balanceService, servErr := NewBalanceService(s.mockUOW, s.mockAnnouncer, l)
	s.Require().NoError(servErr)
	s.balanceService = balanceService
}

func (s *BalanceServiceTestSuite) expectDo() {
	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(s.T().Context(), s.mockTX)
		})
}

func (s *BalanceServiceTestSuite) TestCredit() {
	userID := int64(1)
	amount := decimal.NewFromInt(100)

	s.expectDo()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).Return(s.mockUserRepo, nil)
	s.mockUserRepo.EXPECT().
		AddBalance(gomock.Any(), userID, amount).
		Return(&domain.User{ID: userID, Balance: amount}, nil)

	user, err := s.balanceService.Credit(s.T().Context(), userID, amount)
	s.Require().NoError(err)
	s.True(user.Balance.Equal(amount))
}

func (s *BalanceServiceTestSuite) TestCreditInvalidAmount() {
	cases := []struct {
		name   string
		amount decimal.Decimal
	}{
		{name: "zero", amount: decimal.Zero},
		{name: "negative", amount: decimal.NewFromInt(-5)},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			_, err := s.balanceService.Credit(s.T().Context(), 1, t.amount)
			s.Require().ErrorIs(err, domain.ErrInvalidAmount)
		})
	}
}

// TestApplySpendNoUpgrade проверяет, что трата ниже порога следующего уровня не
// повышает уровень. 999.99 при пороге 1000 остается на первом уровне.
func (s *BalanceServiceTestSuite) TestApplySpendNoUpgrade() {
	user := domain.User{
		ID:         1,
		Username:   "spender",
		TotalSpent: decimal.RequireFromString("999.99"),
		VIPLevelID: 1,
	}

	s.expectDo()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).Return(s.mockUserRepo, nil)
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.VIPLevelRepoName)).Return(s.mockVIPRepo, nil)

	s.mockUserRepo.EXPECT().
		AddSpent(gomock.Any(), user.ID, decimal.RequireFromString("999.99")).
		Return(&user, nil)
	s.mockVIPRepo.EXPECT().
		HighestForSpent(gomock.Any(), user.TotalSpent).
		Return(&domain.VIPLevel{ID: 1, Name: "Regular", MinSpent: decimal.Zero}, nil)

	upgrade, err := s.balanceService.ApplySpend(s.T().Context(), user.ID, decimal.RequireFromString("999.99"))
	s.Require().NoError(err)
	s.False(upgrade.Upgraded)
}

// TestApplySpendUpgrade проверяет апгрейд ровно на пороге: total_spent 1000 при
// min_spent 1000 дает второй уровень. Уведомление пишется тем же коммитом.
func (s *BalanceServiceTestSuite) TestApplySpendUpgrade() {
	user := domain.User{
		ID:         1,
		Username:   "spender",
		TotalSpent: decimal.NewFromInt(1000),
		VIPLevelID: 1,
	}
	silver := domain.VIPLevel{
		ID:                 2,
		Name:               "Silver",
		MinSpent:           decimal.NewFromInt(1000),
		DiscountPercentage: decimal.NewFromInt(5),
	}

	s.expectDo()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).Return(s.mockUserRepo, nil).Times(2)
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.VIPLevelRepoName)).Return(s.mockVIPRepo, nil)
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.NotificationRepoName)).Return(s.mockNotificationRepo, nil)

	s.mockUserRepo.EXPECT().
		AddSpent(gomock.Any(), user.ID, decimal.NewFromInt(1000)).
		Return(&user, nil)
	s.mockVIPRepo.EXPECT().HighestForSpent(gomock.Any(), user.TotalSpent).Return(&silver, nil)
	s.mockUserRepo.EXPECT().SetVIPLevel(gomock.Any(), user.ID, silver.ID).Return(nil)
	s.mockNotificationRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateNotification) (*domain.Notification, error) {
			s.Equal(user.ID, args.UserID)
			s.Contains(args.Message, silver.Name)
			return &domain.Notification{ID: 1, UserID: args.UserID}, nil
		})

	// Апгрейд зафиксирован, объявление уходит во внешний канал.
	settings := domain.TelegramSettings{ID: 1, BotToken: "token", ChatID: "-100", IsActive: true}
	s.mockSettingsRepo.EXPECT().TelegramSettings(gomock.Any()).Return(&settings, nil)
	s.mockAnnouncer.EXPECT().AnnounceUpgrade(gomock.Any(), settings, user.Username, silver.Name).Return(nil)

	upgrade, err := s.balanceService.ApplySpend(s.T().Context(), user.ID, decimal.NewFromInt(1000))
	s.Require().NoError(err)
	s.True(upgrade.Upgraded)
	s.Equal(int64(1), upgrade.OldLevelID)
	s.Equal(silver.ID, upgrade.NewLevelID)
}

// TestApplySpendNoDowngrade проверяет, что уровень не понижается, даже если
// таблица уровней изменилась и текущий уровень выше положенного по тратам.
func (s *BalanceServiceTestSuite) TestApplySpendNoDowngrade() {
	user := domain.User{
		ID:         1,
		TotalSpent: decimal.NewFromInt(100),
		VIPLevelID: 3,
	}

	s.expectDo()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).Return(s.mockUserRepo, nil)
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.VIPLevelRepoName)).Return(s.mockVIPRepo, nil)

	s.mockUserRepo.EXPECT().
		AddSpent(gomock.Any(), user.ID, decimal.Zero).
		Return(&user, nil)
	s.mockVIPRepo.EXPECT().
		HighestForSpent(gomock.Any(), user.TotalSpent).
		Return(&domain.VIPLevel{ID: 1, Name: "Regular"}, nil)

	upgrade, err := s.balanceService.ApplySpend(s.T().Context(), user.ID, decimal.Zero)
	s.Require().NoError(err)
	s.False(upgrade.Upgraded)
}

func (s *BalanceServiceTestSuite) TestApplySpendNegativeAmount() {
	_, err := s.balanceService.ApplySpend(s.T().Context(), 1, decimal.NewFromInt(-1))
	s.Require().ErrorIs(err, domain.ErrInvalidAmount)
}

func (s *BalanceServiceTestSuite) TestCalculateDiscount() {
	user := domain.User{ID: 1, VIPLevelID: 2}
	silver := domain.VIPLevel{ID: 2, Name: "Silver", DiscountPercentage: decimal.NewFromInt(10)}

	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), user.ID).Return(&user, nil)
	s.mockVIPRepo.EXPECT().FindByID(gomock.Any(), silver.ID).Return(&silver, nil)

	breakdown, err := s.balanceService.CalculateDiscount(s.T().Context(), user.ID, decimal.NewFromInt(200))
	s.Require().NoError(err)
	s.True(breakdown.DiscountAmount.Equal(decimal.NewFromInt(20)))
	s.True(breakdown.FinalAmount.Equal(decimal.NewFromInt(180)))
	s.Equal(silver.ID, breakdown.VIPLevelID)
}

func (s *BalanceServiceTestSuite) TestCalculateDiscountInvalidAmount() {
	_, err := s.balanceService.CalculateDiscount(s.T().Context(), 1, decimal.Zero)
	s.Require().ErrorIs(err, domain.ErrInvalidAmount)
}

func TestComputeDiscount(t *testing.T) {
	level := &domain.VIPLevel{ID: 3, DiscountPercentage: decimal.RequireFromString("2.5")}
	breakdown := ComputeDiscount(decimal.NewFromInt(1000), level)

	if !breakdown.DiscountAmount.Equal(decimal.NewFromInt(25)) {
		t.Errorf("discount amount = %s, want 25", breakdown.DiscountAmount)
	}
	if !breakdown.FinalAmount.Equal(decimal.NewFromInt(975)) {
		t.Errorf("final amount = %s, want 975", breakdown.FinalAmount)
	}
}
