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

type OrderServiceTestSuite struct {
	suite.Suite
	mockUOW          *uowmocks.MockUOW
	mockTX           *uowmocks.MockTX
	mockUserRepo     *mocks.MockUserRepository
	mockVIPRepo      *mocks.MockVIPLevelRepository
	mockProductRepo  *mocks.MockProductRepository
	mockOrderRepo    *mocks.MockOrderRepository
	mockSettingsRepo *mocks.MockSettingsRepository
	orderService     *OrderService
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (s *OrderServiceTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(mockCtrl)
	s.mockTX = uowmocks.NewMockTX(mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(mockCtrl)
	s.mockVIPRepo = mocks.NewMockVIPLevelRepository(mockCtrl)
	s.mockProductRepo = mocks.NewMockProductRepository(mockCtrl)
	s.mockOrderRepo = mocks.NewMockOrderRepository(mockCtrl)
	s.mockSettingsRepo = mocks.NewMockSettingsRepository(mockCtrl)

	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.VIPLevelRepoName)).
		Return(s.mockVIPRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.SettingsRepoName)).
		Return(s.mockSettingsRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()

	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)

	balanceService, balanceErr := NewBalanceService(s.mockUOW, nil, l)
	s.Require().NoError(balanceErr)

	orderService, servErr := NewOrderService(s.mockUOW, balanceService)
	s.Require().NoError(servErr)
	s.orderService = orderService
}

func (s *OrderServiceTestSuite) expectDo() {
	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(s.T().Context(), s.mockTX)
		})
}

func (s *OrderServiceTestSuite) expectCreateRepos() {
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.ProductRepoName)).Return(s.mockProductRepo, nil)
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).Return(s.mockUserRepo, nil)
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.VIPLevelRepoName)).Return(s.mockVIPRepo, nil)
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.OrderRepoName)).Return(s.mockOrderRepo, nil)
}

// TestCreate проверяет, что в заказе применяется скидка уровня: 2 x 100 со
// скидкой 10% дает списание 180.
func (s *OrderServiceTestSuite) TestCreate() {
	user := domain.User{ID: 1, VIPLevelID: 2, Balance: decimal.NewFromInt(500)}
	level := domain.VIPLevel{ID: 2, Name: "Silver", DiscountPercentage: decimal.NewFromInt(10)}
	product := domain.Product{ID: 10, SellPrice: decimal.NewFromInt(100), IsAvailable: true}
	args := CreateOrderArgs{UserID: user.ID, ProductID: product.ID, Quantity: 2, OrderDetails: "acc: test"}
	wantTotal := decimal.NewFromInt(180)

	s.expectDo()
	s.expectCreateRepos()

	s.mockProductRepo.EXPECT().FindByID(gomock.Any(), product.ID).Return(&product, nil)
	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), user.ID).Return(&user, nil)
	s.mockVIPRepo.EXPECT().FindByID(gomock.Any(), level.ID).Return(&level, nil)
	s.mockUserRepo.EXPECT().
		ChargeBalance(gomock.Any(), user.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, id int64, amount decimal.Decimal) (*domain.User, error) {
			s.True(amount.Equal(wantTotal), "charged %s, want %s", amount, wantTotal)
			return &user, nil
		})
	s.mockOrderRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, createArgs repoargs.CreateOrder) (*domain.Order, error) {
			s.True(createArgs.TotalPrice.Equal(wantTotal))
			s.Equal(args.OrderDetails, createArgs.OrderDetails)
			return &domain.Order{
				ID:         1,
				UserID:     createArgs.UserID,
				ProductID:  createArgs.ProductID,
				Quantity:   createArgs.Quantity,
				TotalPrice: createArgs.TotalPrice,
				Status:     domain.OrderStatusPending,
			}, nil
		})

	order, err := s.orderService.Create(s.T().Context(), args)
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusPending, order.Status)
	s.True(order.TotalPrice.Equal(wantTotal))
}

func (s *OrderServiceTestSuite) TestCreateProductUnavailable() {
	product := domain.Product{ID: 10, SellPrice: decimal.NewFromInt(100), IsAvailable: false}

	s.expectDo()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.ProductRepoName)).Return(s.mockProductRepo, nil)
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).Return(s.mockUserRepo, nil)
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.VIPLevelRepoName)).Return(s.mockVIPRepo, nil)
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.OrderRepoName)).Return(s.mockOrderRepo, nil)
	s.mockProductRepo.EXPECT().FindByID(gomock.Any(), product.ID).Return(&product, nil)

	_, err := s.orderService.Create(s.T().Context(), CreateOrderArgs{UserID: 1, ProductID: product.ID, Quantity: 1})
	s.Require().ErrorIs(err, domain.ErrProductUnavailable)
}

func (s *OrderServiceTestSuite) TestCreateNotEnoughBalance() {
	user := domain.User{ID: 1, VIPLevelID: 1, Balance: decimal.NewFromInt(10)}
	level := domain.VIPLevel{ID: 1, Name: "Regular", DiscountPercentage: decimal.Zero}
	product := domain.Product{ID: 10, SellPrice: decimal.NewFromInt(100), IsAvailable: true}

	s.expectDo()
	s.expectCreateRepos()
	s.mockProductRepo.EXPECT().FindByID(gomock.Any(), product.ID).Return(&product, nil)
	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), user.ID).Return(&user, nil)
	s.mockVIPRepo.EXPECT().FindByID(gomock.Any(), level.ID).Return(&level, nil)
	s.mockUserRepo.EXPECT().
		ChargeBalance(gomock.Any(), user.ID, gomock.Any()).
		Return(nil, domain.ErrNotEnoughBalance)
	s.mockOrderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.orderService.Create(s.T().Context(), CreateOrderArgs{UserID: 1, ProductID: product.ID, Quantity: 1})
	s.Require().ErrorIs(err, domain.ErrNotEnoughBalance)
}

func (s *OrderServiceTestSuite) TestCreateInvalidQuantity() {
	_, err := s.orderService.Create(s.T().Context(), CreateOrderArgs{UserID: 1, ProductID: 1, Quantity: 0})
	s.Require().ErrorIs(err, domain.ErrInvalidAmount)
}

// TestComplete проверяет, что выполнение заказа учитывает трату и пересчитывает
// уровень тем же коммитом.
func (s *OrderServiceTestSuite) TestComplete() {
	order := domain.Order{
		ID:         1,
		UserID:     5,
		TotalPrice: decimal.NewFromInt(300),
		Status:     domain.OrderStatusCompleted,
	}
	user := domain.User{ID: order.UserID, TotalSpent: decimal.NewFromInt(300), VIPLevelID: 1}

	s.expectDo()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.OrderRepoName)).Return(s.mockOrderRepo, nil)
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).Return(s.mockUserRepo, nil)
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.VIPLevelRepoName)).Return(s.mockVIPRepo, nil)

	s.mockOrderRepo.EXPECT().
		UpdateStatus(gomock.Any(), order.ID, domain.OrderStatusPending, domain.OrderStatusCompleted).
		Return(&order, nil)
	s.mockUserRepo.EXPECT().
		AddSpent(gomock.Any(), order.UserID, order.TotalPrice).
		Return(&user, nil)
	s.mockVIPRepo.EXPECT().
		HighestForSpent(gomock.Any(), user.TotalSpent).
		Return(&domain.VIPLevel{ID: 1, Name: "Regular"}, nil)

	completed, err := s.orderService.Complete(s.T().Context(), order.ID)
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusCompleted, completed.Status)
}

func (s *OrderServiceTestSuite) TestCompleteNotPending() {
	s.expectDo()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.OrderRepoName)).Return(s.mockOrderRepo, nil)
	s.mockOrderRepo.EXPECT().
		UpdateStatus(gomock.Any(), int64(1), domain.OrderStatusPending, domain.OrderStatusCompleted).
		Return(nil, domain.ErrRecordNotFound)

	_, err := s.orderService.Complete(s.T().Context(), 1)
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)
}

// TestReject проверяет возврат средств: сумма заказа возвращается на баланс,
// total_spent не затрагивается.
func (s *OrderServiceTestSuite) TestReject() {
	order := domain.Order{
		ID:         1,
		UserID:     5,
		TotalPrice: decimal.NewFromInt(300),
		Status:     domain.OrderStatusRejected,
	}

	s.expectDo()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.OrderRepoName)).Return(s.mockOrderRepo, nil)
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).Return(s.mockUserRepo, nil)

	s.mockOrderRepo.EXPECT().
		UpdateStatus(gomock.Any(), order.ID, domain.OrderStatusPending, domain.OrderStatusRejected).
		Return(&order, nil)
	s.mockUserRepo.EXPECT().
		AddBalance(gomock.Any(), order.UserID, order.TotalPrice).
		Return(&domain.User{ID: order.UserID, Balance: order.TotalPrice}, nil)
	s.mockUserRepo.EXPECT().AddSpent(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	rejected, err := s.orderService.Reject(s.T().Context(), order.ID)
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusRejected, rejected.Status)
}
