package repoargs

import "github.com/shopspring/decimal"

type CreatePaymentTransaction struct {
	UserID        int64
	MethodID      int64
	Amount        decimal.Decimal
	ProofImageURL string
}
