package repoargs

import "github.com/shopspring/decimal"

type CreateOrder struct {
	UserID       int64
	ProductID    int64
	Quantity     int32
	TotalPrice   decimal.Decimal
	OrderDetails string
}
