package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Коды ошибок конверта. Клиенты различают сбои по коду, не по тексту.
const (
	CodeLoginRequired       = "login_required"
	CodeTokenInvalid        = "token_invalid"
	CodeTokenExpired        = "token_expired"
	CodeAccountNotFound     = "account_not_found"
	CodeAccountBanned       = "account_banned"
	CodeInvalidArgument     = "invalid_argument"
	CodeInvalidCredentials  = "invalid_credentials"
	CodeNotFound            = "not_found"
	CodeConflict            = "conflict"
	CodeInsufficientBalance = "insufficient_balance"
	CodeReferenced          = "referenced"
	CodeInternal            = "internal"
)

// Response - единый конверт ответа. Code заполняется только при ошибке.
type Response struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func SuccessResponse(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Code: code, Message: message})
}

func InternalErrorResponse(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypePrivate)
	ErrorResponse(c, http.StatusInternalServerError, CodeInternal, "internal server error")
}
