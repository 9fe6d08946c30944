package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID                int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Username          string
	Email             string
	EncryptedPassword string
	Balance           decimal.Decimal
	TotalSpent        decimal.Decimal
	VIPLevelID        int64
	Status            UserStatusType
}

type VIPLevel struct {
	ID                 int64
	Name               string
	MinSpent           decimal.Decimal
	DiscountPercentage decimal.Decimal
}

type Category struct {
	ID          int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string
	Description string
	ImageURL    string
}

type Product struct {
	ID          int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CategoryID  int64
	Name        string
	Description string
	Currency    string
	CostPrice   decimal.Decimal
	SellPrice   decimal.Decimal
	ImageURL    string
	IsAvailable bool
	ProductType ProductType
	APILinked   bool
	APIDetails  string
}

type ProductCustomOption struct {
	ID           int64
	ProductID    int64
	OptionName   string
	OptionValues string
}

type ProductInventory struct {
	ID        int64
	ProductID int64
	Quantity  int32
}

type PaymentMethod struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
	Details   string
	IsActive  bool
}

type PaymentTransaction struct {
	ID            int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	UserID        int64
	MethodID      int64
	Amount        decimal.Decimal
	Status        TransactionStatusType
	ProofImageURL string
}

type Order struct {
	ID           int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UserID       int64
	ProductID    int64
	Quantity     int32
	TotalPrice   decimal.Decimal
	Status       OrderStatusType
	OrderDetails string
}

// Notification с нулевым UserID считается глобальным и виден всем юзерам.
type Notification struct {
	ID        int64
	CreatedAt time.Time
	UserID    int64
	Title     string
	Message   string
	IsRead    bool
}

type TelegramSettings struct {
	ID       int64
	BotToken string
	ChatID   string
	IsActive bool
}

// VIPUpgrade описывает результат пересчета VIP уровня после изменения total_spent.
type VIPUpgrade struct {
	Upgraded   bool
	OldLevelID int64
	NewLevelID int64
	LevelName  string
}
