package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/topup-store/internal/domain"
)

// UserResponse - публичное представление аккаунта. Хеш пароля наружу не уходит.
type UserResponse struct {
	ID         int64           `json:"id"`
	Username   string          `json:"username"`
	Email      string          `json:"email"`
	Balance    decimal.Decimal `json:"balance"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	VIPLevelID int64           `json:"vip_level_id"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Balance:    u.Balance,
		TotalSpent: u.TotalSpent,
		VIPLevelID: u.VIPLevelID,
		Status:     string(u.Status),
		CreatedAt:  u.CreatedAt,
	}
}

type VIPLevelResponse struct {
	ID                 int64           `json:"id"`
	Name               string          `json:"name"`
	MinSpent           decimal.Decimal `json:"min_spent"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
}

func newVIPLevelResponse(l *domain.VIPLevel) VIPLevelResponse {
	return VIPLevelResponse{
		ID:                 l.ID,
		Name:               l.Name,
		MinSpent:           l.MinSpent,
		DiscountPercentage: l.DiscountPercentage,
	}
}

type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func newCategoryResponse(cat *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          cat.ID,
		Name:        cat.Name,
		Description: cat.Description,
		ImageURL:    cat.ImageURL,
	}
}

type ProductResponse struct {
	ID          int64           `json:"id"`
	CategoryID  int64           `json:"category_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Currency    string          `json:"currency"`
	SellPrice   decimal.Decimal `json:"sell_price"`
	ImageURL    string          `json:"image_url"`
	IsAvailable bool            `json:"is_available"`
	ProductType string          `json:"product_type"`
}

func newProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Currency:    p.Currency,
		SellPrice:   p.SellPrice,
		ImageURL:    p.ImageURL,
		IsAvailable: p.IsAvailable,
		ProductType: string(p.ProductType),
	}
}

func newProductResponses(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, newProductResponse(&products[i]))
	}
	return out
}

type OrderResponse struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"product_id"`
	Quantity     int32           `json:"quantity"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	Status       string          `json:"status"`
	OrderDetails string          `json:"order_details"`
	CreatedAt    time.Time       `json:"created_at"`
}

func newOrderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:           o.ID,
		ProductID:    o.ProductID,
		Quantity:     o.Quantity,
		TotalPrice:   o.TotalPrice,
		Status:       string(o.Status),
		OrderDetails: o.OrderDetails,
		CreatedAt:    o.CreatedAt,
	}
}

type PaymentTransactionResponse struct {
	ID            int64           `json:"id"`
	MethodID      int64           `json:"method_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	ProofImageURL string          `json:"proof_image_url"`
	CreatedAt     time.Time       `json:"created_at"`
}

func newPaymentTransactionResponse(t *domain.PaymentTransaction) PaymentTransactionResponse {
	return PaymentTransactionResponse{
		ID:            t.ID,
		MethodID:      t.MethodID,
		Amount:        t.Amount,
		Status:        string(t.Status),
		ProofImageURL: t.ProofImageURL,
		CreatedAt:     t.CreatedAt,
	}
}

type NotificationResponse struct {
	ID        int64     `json:"id"`
	Global    bool      `json:"global"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func newNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Global:    n.UserID == 0,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
