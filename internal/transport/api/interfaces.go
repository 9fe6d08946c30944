package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/repository/repoargs"
	"github.com/fsdevblog/topup-store/internal/service"
)

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	ChangePassword(ctx context.Context, args service.ChangePasswordArgs) error
	UpdateUsername(ctx context.Context, userID int64, username string) (*domain.User, error)
	GetProfile(ctx context.Context, userID int64) (*service.Profile, error)
}

type BalanceServicer interface {
	Credit(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.User, error)
	CalculateDiscount(ctx context.Context, userID int64, amount decimal.Decimal) (*service.DiscountBreakdown, error)
	GetBalance(ctx context.Context, userID int64) (*domain.User, error)
	VIPLevels(ctx context.Context) ([]domain.VIPLevel, error)
}

type CatalogServicer interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Category(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, args repoargs.UpsertCategory) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, args repoargs.UpsertCategory) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	CategoryProducts(ctx context.Context, id int64) (*domain.Category, []domain.Product, error)
	Products(ctx context.Context, filter repoargs.ProductFilter) ([]domain.Product, repoargs.Pagination, error)
	Product(ctx context.Context, id int64) (*service.ProductDetails, error)
	CreateProduct(ctx context.Context, args service.UpsertProductArgs) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, args service.UpsertProductArgs) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ToggleProductAvailability(ctx context.Context, id int64) (*domain.Product, error)
}

type OrderServicer interface {
	Create(ctx context.Context, args service.CreateOrderArgs) (*domain.Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
	Complete(ctx context.Context, orderID int64) (*domain.Order, error)
	Reject(ctx context.Context, orderID int64) (*domain.Order, error)
}

type PaymentServicer interface {
	ActiveMethods(ctx context.Context) ([]domain.PaymentMethod, error)
	CreateTransaction(
		ctx context.Context,
		args repoargs.CreatePaymentTransaction,
	) (*domain.PaymentTransaction, error)
	Confirm(ctx context.Context, transactionID int64) (*domain.PaymentTransaction, error)
	Reject(ctx context.Context, transactionID int64) (*domain.PaymentTransaction, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.PaymentTransaction, error)
}

type NotificationServicer interface {
	GetForUser(ctx context.Context, userID int64) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
	Broadcast(ctx context.Context, title, message string) (*domain.Notification, error)
}
