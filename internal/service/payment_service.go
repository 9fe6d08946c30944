package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/repository/repoargs"
	"github.com/fsdevblog/topup-store/pkg/uow"
)

// PaymentService - пополнение баланса через внешние платежные методы.
// Транзакция создается пользователем и подтверждается вручную, зачисление
// происходит только при подтверждении.
type PaymentService struct {
	uow        uow.UOW
	methodRepo PaymentMethodRepository
	txRepo     PaymentTransactionRepository
	balanceSvs *BalanceService
}

func NewPaymentService(u uow.UOW, balanceSvs *BalanceService) (*PaymentService, error) {
	methodRepo, mRepoErr := uow.GetRepositoryAs[PaymentMethodRepository](
		u, uow.RepositoryName(repoargs.PaymentMethodRepoName))
	if mRepoErr != nil {
		return nil, mRepoErr
	}
	txRepo, tRepoErr := uow.GetRepositoryAs[PaymentTransactionRepository](
		u, uow.RepositoryName(repoargs.PaymentTransactionRepoName))
	if tRepoErr != nil {
		return nil, tRepoErr
	}
	return &PaymentService{
		uow:        u,
		methodRepo: methodRepo,
		txRepo:     txRepo,
		balanceSvs: balanceSvs,
	}, nil
}

func (s *PaymentService) ActiveMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	methods, err := s.methodRepo.Active(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return methods, nil
}

// CreateTransaction регистрирует заявку на пополнение со статусом pending.
// Сумма должна быть строго положительной, метод - существующим и активным.
func (s *PaymentService) CreateTransaction(
	ctx context.Context,
	args repoargs.CreatePaymentTransaction,
) (*domain.PaymentTransaction, error) {
	if !args.Amount.IsPositive() {
		return nil, fmt.Errorf("creating payment transaction: %w", domain.ErrInvalidAmount)
	}

	method, methodErr := s.methodRepo.FindByID(ctx, args.MethodID)
	if methodErr != nil {
		return nil, fmt.Errorf("creating payment transaction: %w", methodErr)
	}
	if !method.IsActive {
		return nil, fmt.Errorf("creating payment transaction: %w", domain.ErrRecordNotFound)
	}

	transaction, createErr := s.txRepo.Create(ctx, args)
	if createErr != nil {
		return nil, fmt.Errorf("creating payment transaction: %w", createErr)
	}
	return transaction, nil
}

// Confirm переводит транзакцию pending -> completed и зачисляет сумму на баланс
// тем же коммитом. Повторное подтверждение вернет ErrRecordNotFound.
func (s *PaymentService) Confirm(ctx context.Context, transactionID int64) (*domain.PaymentTransaction, error) {
	var transaction *domain.PaymentTransaction
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		txRepo, tRepoErr := uow.GetAs[PaymentTransactionRepository](
			tx, uow.RepositoryName(repoargs.PaymentTransactionRepoName))
		if tRepoErr != nil {
			return tRepoErr //nolint:wrapcheck
		}
		userRepo, uRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if uRepoErr != nil {
			return uRepoErr //nolint:wrapcheck
		}

		var updErr error
		transaction, updErr = txRepo.UpdateStatus(
			c, transactionID, domain.TransactionStatusPending, domain.TransactionStatusCompleted)
		if updErr != nil {
			return updErr //nolint:wrapcheck
		}

		_, creditErr := userRepo.AddBalance(c, transaction.UserID, transaction.Amount)
		return creditErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, fmt.Errorf("confirming payment transaction: %w", txErr)
	}
	return transaction, nil
}

// Reject отклоняет транзакцию. Баланс не меняется - зачисления еще не было.
func (s *PaymentService) Reject(ctx context.Context, transactionID int64) (*domain.PaymentTransaction, error) {
	transaction, err := s.txRepo.UpdateStatus(
		ctx, transactionID, domain.TransactionStatusPending, domain.TransactionStatusRejected)
	if err != nil {
		return nil, fmt.Errorf("rejecting payment transaction: %w", err)
	}
	return transaction, nil
}

func (s *PaymentService) GetByUserID(ctx context.Context, userID int64) ([]domain.PaymentTransaction, error) {
	transactions, err := s.txRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return transactions, nil
}
