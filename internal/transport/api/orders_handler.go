package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/service"
)

type OrdersHandler struct {
	orderService OrderServicer
}

func NewOrdersHandler(orderService OrderServicer) *OrdersHandler {
	return &OrdersHandler{
		orderService: orderService,
	}
}

type CreateOrderParams struct {
	ProductID    int64  `binding:"required"       json:"product_id"`
	Quantity     int32  `binding:"required,min=1" json:"quantity"`
	OrderDetails string `json:"order_details"`
}

// Create POST RouteGroup + OrdersRoute. Итоговая цена считается со скидкой
// текущего VIP уровня и атомарно списывается с баланса.
func (h *OrdersHandler) Create(c *gin.Context) {
	var params CreateOrderParams
	if !bindParams(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := h.orderService.Create(ctx, service.CreateOrderArgs{
		UserID:       getUserIDFromContext(c),
		ProductID:    params.ProductID,
		Quantity:     params.Quantity,
		OrderDetails: params.OrderDetails,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			ErrorResponse(c, http.StatusNotFound, CodeNotFound, "product not found")
		case errors.Is(err, domain.ErrProductUnavailable):
			ErrorResponse(c, http.StatusConflict, CodeConflict, "product unavailable")
		case errors.Is(err, domain.ErrNotEnoughBalance):
			ErrorResponse(c, http.StatusBadRequest, CodeInsufficientBalance, "not enough balance")
		case errors.Is(err, domain.ErrInvalidAmount):
			ErrorResponse(c, http.StatusBadRequest, CodeInvalidArgument, "quantity must be positive")
		default:
			InternalErrorResponse(c, err)
		}
		return
	}

	SuccessResponse(c, http.StatusCreated, gin.H{"order": newOrderResponse(order)})
}

// Index GET RouteGroup + OrdersRoute. Заказы текущего юзера.
func (h *OrdersHandler) Index(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	orders, err := h.orderService.GetByUserID(ctx, getUserIDFromContext(c))
	if err != nil {
		InternalErrorResponse(c, err)
		return
	}

	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, newOrderResponse(&orders[i]))
	}
	SuccessResponse(c, http.StatusOK, gin.H{"orders": out})
}

// Complete POST RouteGroup + OrdersRoute + /:id/complete. Учет траты и пересчет
// VIP уровня выполняются тем же коммитом.
func (h *OrdersHandler) Complete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := h.orderService.Complete(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			ErrorResponse(c, http.StatusNotFound, CodeNotFound, "pending order not found")
			return
		}
		InternalErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"order": newOrderResponse(order)})
}

// Reject POST RouteGroup + OrdersRoute + /:id/reject. Списанное возвращается
// на баланс, total_spent не меняется.
func (h *OrdersHandler) Reject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := h.orderService.Reject(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			ErrorResponse(c, http.StatusNotFound, CodeNotFound, "pending order not found")
			return
		}
		InternalErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"order": newOrderResponse(order)})
}
