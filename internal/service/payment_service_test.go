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

type PaymentServiceTestSuite struct {
	suite.Suite
	mockUOW        *uowmocks.MockUOW
	mockTX         *uowmocks.MockTX
	mockMethodRepo *mocks.MockPaymentMethodRepository
	mockTxRepo     *mocks.MockPaymentTransactionRepository
	mockUserRepo   *mocks.MockUserRepository
	paymentService *PaymentService
}

func TestPaymentServiceSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}

func (s *PaymentServiceTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(mockCtrl)
	s.mockTX = uowmocks.NewMockTX(mockCtrl)
	s.mockMethodRepo = mocks.NewMockPaymentMethodRepository(mockCtrl)
	s.mockTxRepo = mocks.NewMockPaymentTransactionRepository(mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(mockCtrl)

	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.PaymentMethodRepoName)).
		Return(s.mockMethodRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.PaymentTransactionRepoName)).
		Return(s.mockTxRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.VIPLevelRepoName)).
		Return(mocks.NewMockVIPLevelRepository(mockCtrl), nil).AnyTimes()
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.SettingsRepoName)).
		Return(mocks.NewMockSettingsRepository(mockCtrl), nil).AnyTimes()

	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)

	balanceService, balanceErr := NewBalanceService(s.mockUOW, nil, l)
	s.Require().NoError(balanceErr)

	paymentService, servErr := NewPaymentService(s.mockUOW, balanceService)
	s.Require().NoError(servErr)
	s.paymentService = paymentService
}

func (s *PaymentServiceTestSuite) TestCreateTransaction() {
	method := domain.PaymentMethod{ID: 1, Name: "USDT TRC-20", IsActive: true}
	args := repoargs.CreatePaymentTransaction{
		UserID:   1,
		MethodID: method.ID,
		Amount:   decimal.NewFromInt(100),
	}

	s.mockMethodRepo.EXPECT().FindByID(gomock.Any(), method.ID).Return(&method, nil)
	s.mockTxRepo.EXPECT().Create(gomock.Any(), args).Return(&domain.PaymentTransaction{
		ID:       1,
		UserID:   args.UserID,
		MethodID: args.MethodID,
		Amount:   args.Amount,
		Status:   domain.TransactionStatusPending,
	}, nil)

	transaction, err := s.paymentService.CreateTransaction(s.T().Context(), args)
	s.Require().NoError(err)
	s.Equal(domain.TransactionStatusPending, transaction.Status)
}

func (s *PaymentServiceTestSuite) TestCreateTransactionInvalidAmount() {
	_, err := s.paymentService.CreateTransaction(s.T().Context(), repoargs.CreatePaymentTransaction{
		UserID:   1,
		MethodID: 1,
		Amount:   decimal.Zero,
	})
	s.Require().ErrorIs(err, domain.ErrInvalidAmount)
}

// TestCreateTransactionInactiveMethod проверяет, что выключенный метод оплаты
// недоступен и неотличим от несуществующего.
func (s *PaymentServiceTestSuite) TestCreateTransactionInactiveMethod() {
	method := domain.PaymentMethod{ID: 1, Name: "Legacy", IsActive: false}

	s.mockMethodRepo.EXPECT().FindByID(gomock.Any(), method.ID).Return(&method, nil)
	s.mockTxRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.paymentService.CreateTransaction(s.T().Context(), repoargs.CreatePaymentTransaction{
		UserID:   1,
		MethodID: method.ID,
		Amount:   decimal.NewFromInt(100),
	})
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)
}

// TestConfirm проверяет, что подтверждение зачисляет сумму на баланс тем же
// коммитом.
func (s *PaymentServiceTestSuite) TestConfirm() {
	transaction := domain.PaymentTransaction{
		ID:     1,
		UserID: 5,
		Amount: decimal.NewFromInt(250),
		Status: domain.TransactionStatusCompleted,
	}

	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(s.T().Context(), s.mockTX)
		})
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.PaymentTransactionRepoName)).Return(s.mockTxRepo, nil)
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).Return(s.mockUserRepo, nil)

	s.mockTxRepo.EXPECT().
		UpdateStatus(gomock.Any(), transaction.ID, domain.TransactionStatusPending, domain.TransactionStatusCompleted).
		Return(&transaction, nil)
	s.mockUserRepo.EXPECT().
		AddBalance(gomock.Any(), transaction.UserID, transaction.Amount).
		Return(&domain.User{ID: transaction.UserID, Balance: transaction.Amount}, nil)

	confirmed, err := s.paymentService.Confirm(s.T().Context(), transaction.ID)
	s.Require().NoError(err)
	s.Equal(domain.TransactionStatusCompleted, confirmed.Status)
}

// TestReject проверяет, что отклонение не трогает баланс.
func (s *PaymentServiceTestSuite) TestReject() {
	transaction := domain.PaymentTransaction{
		ID:     1,
		UserID: 5,
		Amount: decimal.NewFromInt(250),
		Status: domain.TransactionStatusRejected,
	}

	s.mockTxRepo.EXPECT().
		UpdateStatus(gomock.Any(), transaction.ID, domain.TransactionStatusPending, domain.TransactionStatusRejected).
		Return(&transaction, nil)
	s.mockUserRepo.EXPECT().AddBalance(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	rejected, err := s.paymentService.Reject(s.T().Context(), transaction.ID)
	s.Require().NoError(err)
	s.Equal(domain.TransactionStatusRejected, rejected.Status)
}
