package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/repository/repoargs"
)

type PaymentHandler struct {
	paymentService PaymentServicer
}

func NewPaymentHandler(paymentService PaymentServicer) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// Methods GET RouteGroup + PaymentMethodsRoute. Только активные методы, публично.
func (h *PaymentHandler) Methods(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	methods, err := h.paymentService.ActiveMethods(ctx)
	if err != nil {
		InternalErrorResponse(c, err)
		return
	}

	out := make([]gin.H, 0, len(methods))
	for _, m := range methods {
		out = append(out, gin.H{
			"id":      m.ID,
			"name":    m.Name,
			"details": m.Details,
		})
	}
	SuccessResponse(c, http.StatusOK, gin.H{"payment_methods": out})
}

type CreateTransactionParams struct {
	MethodID      int64           `binding:"required"      json:"method_id"`
	Amount        decimal.Decimal `binding:"required"      json:"amount"`
	ProofImageURL string          `binding:"omitempty,url" json:"proof_image_url"`
}

// CreateTransaction POST RouteGroup + PaymentTransactionsRoute. Заявка на
// пополнение, зачисления еще нет.
func (h *PaymentHandler) CreateTransaction(c *gin.Context) {
	var params CreateTransactionParams
	if !bindParams(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transaction, err := h.paymentService.CreateTransaction(ctx, repoargs.CreatePaymentTransaction{
		UserID:        getUserIDFromContext(c),
		MethodID:      params.MethodID,
		Amount:        params.Amount,
		ProofImageURL: params.ProofImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			ErrorResponse(c, http.StatusBadRequest, CodeInvalidArgument, "amount must be positive")
		case errors.Is(err, domain.ErrRecordNotFound):
			ErrorResponse(c, http.StatusNotFound, CodeNotFound, "payment method not found")
		default:
			InternalErrorResponse(c, err)
		}
		return
	}
	SuccessResponse(c, http.StatusCreated, gin.H{"transaction": newPaymentTransactionResponse(transaction)})
}

// Index GET RouteGroup + PaymentTransactionsRoute. Транзакции текущего юзера.
func (h *PaymentHandler) Index(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transactions, err := h.paymentService.GetByUserID(ctx, getUserIDFromContext(c))
	if err != nil {
		InternalErrorResponse(c, err)
		return
	}

	out := make([]PaymentTransactionResponse, 0, len(transactions))
	for i := range transactions {
		out = append(out, newPaymentTransactionResponse(&transactions[i]))
	}
	SuccessResponse(c, http.StatusOK, gin.H{"transactions": out})
}

// Confirm POST RouteGroup + PaymentTransactionsRoute + /:id/confirm. Смена
// статуса и зачисление на баланс фиксируются одним коммитом.
func (h *PaymentHandler) Confirm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transaction, err := h.paymentService.Confirm(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			ErrorResponse(c, http.StatusNotFound, CodeNotFound, "pending transaction not found")
			return
		}
		InternalErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"transaction": newPaymentTransactionResponse(transaction)})
}

// RejectTransaction POST RouteGroup + PaymentTransactionsRoute + /:id/reject.
func (h *PaymentHandler) RejectTransaction(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transaction, err := h.paymentService.Reject(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			ErrorResponse(c, http.StatusNotFound, CodeNotFound, "pending transaction not found")
			return
		}
		InternalErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"transaction": newPaymentTransactionResponse(transaction)})
}
