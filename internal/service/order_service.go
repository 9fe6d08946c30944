package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/repository/repoargs"
	"github.com/fsdevblog/topup-store/pkg/uow"
)

// OrderService управляет жизненным циклом заказа. Деньги списываются при создании,
// трата учитывается только при выполнении заказа.
type OrderService struct {
	uow        uow.UOW
	orderRepo  OrderRepository
	balanceSvs *BalanceService
}

func NewOrderService(u uow.UOW, balanceSvs *BalanceService) (*OrderService, error) {
	orderRepo, orderRepoErr := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if orderRepoErr != nil {
		return nil, orderRepoErr
	}
	return &OrderService{
		uow:        u,
		orderRepo:  orderRepo,
		balanceSvs: balanceSvs,
	}, nil
}

type CreateOrderArgs struct {
	UserID       int64
	ProductID    int64
	Quantity     int32
	OrderDetails string
}

// Create создает заказ: цена умножается на количество, применяется скидка текущего
// VIP уровня юзера и итог атомарно списывается с баланса. Недоступный продукт
// отклоняется, нехватка средств возвращается как ErrNotEnoughBalance. Все
// изменения фиксируются одним коммитом.
func (s *OrderService) Create(ctx context.Context, args CreateOrderArgs) (*domain.Order, error) {
	if args.Quantity <= 0 {
		return nil, fmt.Errorf("creating order: %w", domain.ErrInvalidAmount)
	}

	var order *domain.Order
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		productRepo, pRepoErr := uow.GetAs[ProductRepository](tx, uow.RepositoryName(repoargs.ProductRepoName))
		if pRepoErr != nil {
			return pRepoErr //nolint:wrapcheck
		}
		userRepo, uRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if uRepoErr != nil {
			return uRepoErr //nolint:wrapcheck
		}
		vipRepo, vRepoErr := uow.GetAs[VIPLevelRepository](tx, uow.RepositoryName(repoargs.VIPLevelRepoName))
		if vRepoErr != nil {
			return vRepoErr //nolint:wrapcheck
		}
		orderRepo, oRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if oRepoErr != nil {
			return oRepoErr //nolint:wrapcheck
		}

		product, productErr := productRepo.FindByID(c, args.ProductID)
		if productErr != nil {
			return productErr //nolint:wrapcheck
		}
		if !product.IsAvailable {
			return domain.ErrProductUnavailable
		}

		user, userErr := userRepo.FindByID(c, args.UserID)
		if userErr != nil {
			return userErr //nolint:wrapcheck
		}
		level, levelErr := vipRepo.FindByID(c, user.VIPLevelID)
		if levelErr != nil {
			return levelErr //nolint:wrapcheck
		}

		gross := product.SellPrice.Mul(decimal.NewFromInt32(args.Quantity))
		total := ComputeDiscount(gross, level).FinalAmount

		if _, chargeErr := userRepo.ChargeBalance(c, user.ID, total); chargeErr != nil {
			return chargeErr //nolint:wrapcheck
		}

		var orderErr error
		order, orderErr = orderRepo.Create(c, repoargs.CreateOrder{
			UserID:       args.UserID,
			ProductID:    args.ProductID,
			Quantity:     args.Quantity,
			TotalPrice:   total,
			OrderDetails: args.OrderDetails,
		})
		return orderErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, fmt.Errorf("creating order: %w", txErr)
	}
	return order, nil
}

func (s *OrderService) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := s.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return orders, nil
}

// Complete переводит заказ pending -> completed и учитывает трату: total_spent
// растет на сумму заказа и VIP уровень пересчитывается тем же коммитом.
// Повторный вызов вернет ErrRecordNotFound - заказ уже не pending.
func (s *OrderService) Complete(ctx context.Context, orderID int64) (*domain.Order, error) {
	var order *domain.Order
	var upgrade *domain.VIPUpgrade
	var user *domain.User

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, oRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if oRepoErr != nil {
			return oRepoErr //nolint:wrapcheck
		}

		var updErr error
		order, updErr = orderRepo.UpdateStatus(c, orderID, domain.OrderStatusPending, domain.OrderStatusCompleted)
		if updErr != nil {
			return updErr //nolint:wrapcheck
		}

		var spendErr error
		user, upgrade, spendErr = s.balanceSvs.ApplySpendTX(c, tx, order.UserID, order.TotalPrice)
		return spendErr
	})

	if txErr != nil {
		return nil, fmt.Errorf("completing order: %w", txErr)
	}

	if upgrade.Upgraded {
		s.balanceSvs.AnnounceUpgrade(ctx, user.Username, upgrade.LevelName)
	}
	return order, nil
}

// Reject переводит заказ pending -> rejected и возвращает списанные средства на
// баланс. total_spent не затрагивается - трата так и не состоялась.
func (s *OrderService) Reject(ctx context.Context, orderID int64) (*domain.Order, error) {
	var order *domain.Order
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, oRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if oRepoErr != nil {
			return oRepoErr //nolint:wrapcheck
		}
		userRepo, uRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if uRepoErr != nil {
			return uRepoErr //nolint:wrapcheck
		}

		var updErr error
		order, updErr = orderRepo.UpdateStatus(c, orderID, domain.OrderStatusPending, domain.OrderStatusRejected)
		if updErr != nil {
			return updErr //nolint:wrapcheck
		}

		_, refundErr := userRepo.AddBalance(c, order.UserID, order.TotalPrice)
		return refundErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, fmt.Errorf("rejecting order: %w", txErr)
	}
	return order, nil
}
