package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/topup-store/internal/domain"
)

// AccountHandler обслуживает профиль, баланс и расчет скидки текущего юзера.
type AccountHandler struct {
	userService    UserServicer
	balanceService BalanceServicer
}

func NewAccountHandler(userService UserServicer, balanceService BalanceServicer) *AccountHandler {
	return &AccountHandler{
		userService:    userService,
		balanceService: balanceService,
	}
}

type profileResponse struct {
	User     UserResponse      `json:"user"`
	VIPLevel *VIPLevelResponse `json:"vip_level,omitempty"`
	NextVIP  *VIPLevelResponse `json:"next_vip,omitempty"`
	Progress float64           `json:"progress"`
}

// Profile GET RouteGroup + ProfileRoute. Аккаунт вместе с текущим VIP уровнем,
// следующим уровнем и прогрессом до него.
func (h *AccountHandler) Profile(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	profile, err := h.userService.GetProfile(ctx, getUserIDFromContext(c))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			ErrorResponse(c, http.StatusNotFound, CodeAccountNotFound, "account not found")
			return
		}
		InternalErrorResponse(c, err)
		return
	}

	resp := profileResponse{
		User:     newUserResponse(profile.User),
		Progress: profile.Progress,
	}
	if profile.VIPInfo != nil {
		level := newVIPLevelResponse(profile.VIPInfo)
		resp.VIPLevel = &level
	}
	if profile.NextVIP != nil {
		next := newVIPLevelResponse(profile.NextVIP)
		resp.NextVIP = &next
	}
	SuccessResponse(c, http.StatusOK, resp)
}

type UpdateProfileParams struct {
	Username string `binding:"required,min=1,max=32" json:"username"`
}

// UpdateProfile PUT RouteGroup + ProfileRoute. Меняется только username.
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var params UpdateProfileParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		var valErrs validator.ValidationErrors
		if errors.As(bindErr, &valErrs) {
			ErrorResponse(c, http.StatusUnprocessableEntity, CodeInvalidArgument, valErrs.Error())
			return
		}
		ErrorResponse(c, http.StatusBadRequest, CodeInvalidArgument, "malformed request body")
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.userService.UpdateUsername(ctx, getUserIDFromContext(c), params.Username)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			ErrorResponse(c, http.StatusConflict, CodeConflict, "username already taken")
			return
		}
		InternalErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"user": newUserResponse(user)})
}

// Balance GET RouteGroup + BalanceRoute.
func (h *AccountHandler) Balance(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.balanceService.GetBalance(ctx, getUserIDFromContext(c))
	if err != nil {
		InternalErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{
		"balance":     user.Balance,
		"total_spent": user.TotalSpent,
	})
}

type AmountParams struct {
	Amount decimal.Decimal `binding:"required" json:"amount"`
}

// AddBalance POST RouteGroup + AddBalanceRoute. Атомарно зачисляет сумму
// на баланс текущего юзера.
func (h *AccountHandler) AddBalance(c *gin.Context) {
	var params AmountParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		ErrorResponse(c, http.StatusBadRequest, CodeInvalidArgument, "malformed request body")
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.balanceService.Credit(ctx, getUserIDFromContext(c), params.Amount)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			ErrorResponse(c, http.StatusBadRequest, CodeInvalidArgument, "amount must be positive")
			return
		}
		InternalErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"balance": user.Balance})
}

// CalculateDiscount POST RouteGroup + CalculateDiscountRoute. Чистый расчет
// скидки от текущего VIP уровня, ничего не мутирует.
func (h *AccountHandler) CalculateDiscount(c *gin.Context) {
	var params AmountParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		ErrorResponse(c, http.StatusBadRequest, CodeInvalidArgument, "malformed request body")
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	breakdown, err := h.balanceService.CalculateDiscount(ctx, getUserIDFromContext(c), params.Amount)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			ErrorResponse(c, http.StatusBadRequest, CodeInvalidArgument, "amount must be positive")
			return
		}
		InternalErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{
		"original_amount":     breakdown.OriginalAmount,
		"discount_percentage": breakdown.DiscountPercentage,
		"discount_amount":     breakdown.DiscountAmount,
		"final_amount":        breakdown.FinalAmount,
		"vip_level_id":        breakdown.VIPLevelID,
	})
}

// VIPLevels GET RouteGroup + VIPLevelsRoute. Публичный список уровней.
func (h *AccountHandler) VIPLevels(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	levels, err := h.balanceService.VIPLevels(ctx)
	if err != nil {
		InternalErrorResponse(c, err)
		return
	}

	out := make([]VIPLevelResponse, 0, len(levels))
	for i := range levels {
		out = append(out, newVIPLevelResponse(&levels[i]))
	}
	SuccessResponse(c, http.StatusOK, gin.H{"vip_levels": out})
}
