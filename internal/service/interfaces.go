package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/repository/repoargs"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(password string, hashedPassword string) bool
}

type UserRepository interface {
	Create(ctx context.Context, args repoargs.CreateUser) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateUsername(ctx context.Context, id int64, username string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, encryptedPassword string) error
	AddBalance(ctx context.Context, id int64, amount decimal.Decimal) (*domain.User, error)
	ChargeBalance(ctx context.Context, id int64, amount decimal.Decimal) (*domain.User, error)
	AddSpent(ctx context.Context, id int64, amount decimal.Decimal) (*domain.User, error)
	SetVIPLevel(ctx context.Context, id int64, levelID int64) error
	SetStatus(ctx context.Context, id int64, status domain.UserStatusType) error
}

type VIPLevelRepository interface {
	All(ctx context.Context) ([]domain.VIPLevel, error)
	FindByID(ctx context.Context, id int64) (*domain.VIPLevel, error)
	HighestForSpent(ctx context.Context, spent decimal.Decimal) (*domain.VIPLevel, error)
	NextAfter(ctx context.Context, id int64) (*domain.VIPLevel, error)
}

type CategoryRepository interface {
	All(ctx context.Context) ([]domain.Category, error)
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, args repoargs.UpsertCategory) (*domain.Category, error)
	Update(ctx context.Context, id int64, args repoargs.UpsertCategory) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
	CountProducts(ctx context.Context, id int64) (int64, error)
}

type ProductRepository interface {
	List(ctx context.Context, filter repoargs.ProductFilter) ([]domain.Product, uint, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, args repoargs.UpsertProduct) (*domain.Product, error)
	Update(ctx context.Context, id int64, args repoargs.UpsertProduct) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	ToggleAvailability(ctx context.Context, id int64) (*domain.Product, error)
	CountOrders(ctx context.Context, id int64) (int64, error)
	CustomOptions(ctx context.Context, productID int64) ([]domain.ProductCustomOption, error)
	ReplaceCustomOptions(ctx context.Context, productID int64, options []repoargs.CreateCustomOption) error
	Inventory(ctx context.Context, productID int64) (*domain.ProductInventory, error)
	SetInventory(ctx context.Context, productID int64, quantity int32) error
}

type PaymentMethodRepository interface {
	Active(ctx context.Context) ([]domain.PaymentMethod, error)
	FindByID(ctx context.Context, id int64) (*domain.PaymentMethod, error)
}

type PaymentTransactionRepository interface {
	Create(ctx context.Context, args repoargs.CreatePaymentTransaction) (*domain.PaymentTransaction, error)
	FindByID(ctx context.Context, id int64) (*domain.PaymentTransaction, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.PaymentTransaction, error)
	UpdateStatus(
		ctx context.Context,
		id int64,
		from, to domain.TransactionStatusType,
	) (*domain.PaymentTransaction, error)
}

type OrderRepository interface {
	Create(ctx context.Context, args repoargs.CreateOrder) (*domain.Order, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatusType) (*domain.Order, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, args repoargs.CreateNotification) (*domain.Notification, error)
	GetForUser(ctx context.Context, userID int64) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
}

type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	TelegramSettings(ctx context.Context) (*domain.TelegramSettings, error)
}

// UpgradeAnnouncer объявляет о повышении VIP уровня во внешний канал (телеграм).
type UpgradeAnnouncer interface {
	AnnounceUpgrade(ctx context.Context, settings domain.TelegramSettings, username, levelName string) error
}
