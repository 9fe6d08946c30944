package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/service"
	"github.com/fsdevblog/topup-store/internal/transport/api/tokens"
)

type AuthHandler struct {
	userService    UserServicer
	jwtTokenSecret []byte
}

func NewAuthHandler(userService UserServicer, jwtTokenSecret []byte) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		jwtTokenSecret: jwtTokenSecret,
	}
}

type UserRegisterParams struct {
	Username string `binding:"required,min=1,max=32"  json:"username"`
	Email    string `binding:"required,email"         json:"email"`
	Password string `binding:"required,min=6,max=255" json:"password"`
}

// Register POST RouteGroup + RegisterRoute. Создает аккаунт с нулевым балансом
// и стартовым VIP уровнем.
func (h *AuthHandler) Register(c *gin.Context) {
	var params UserRegisterParams
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

	user, createErr := h.userService.Register(ctx, service.RegisterUserArgs{
		Username: params.Username,
		Email:    params.Email,
		Password: params.Password,
	})
	if createErr != nil {
		if errors.Is(createErr, domain.ErrDuplicateKey) {
			ErrorResponse(c, http.StatusConflict, CodeConflict, createErr.Error())
			return
		}
		InternalErrorResponse(c, createErr)
		return
	}

	SuccessResponse(c, http.StatusCreated, gin.H{"user": newUserResponse(user)})
}

type UserLoginParams struct {
	Email    string `binding:"required,email" json:"email"`
	Password string `binding:"required"      json:"password"`
}

// Login POST RouteGroup + LoginRoute. Аутентификация по паре email/пароль.
// Неизвестный email и неверный пароль отдаются одинаково, чтобы не раскрывать
// существование аккаунта. Забаненный аккаунт получает 403.
func (h *AuthHandler) Login(c *gin.Context) {
	var params UserLoginParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		ErrorResponse(c, http.StatusBadRequest, CodeInvalidArgument, "malformed request body")
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, token, err := h.userService.Login(ctx, service.LoginUserArgs{
		Email:    params.Email,
		Password: params.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound), errors.Is(err, domain.ErrPasswordMissMatch):
			ErrorResponse(c, http.StatusUnauthorized, CodeInvalidCredentials, "invalid email or password")
		case errors.Is(err, domain.ErrAccountBanned):
			ErrorResponse(c, http.StatusForbidden, CodeAccountBanned, "account banned")
		default:
			InternalErrorResponse(c, err)
		}
		return
	}

	c.Header("Authorization", "Bearer "+token)
	SuccessResponse(c, http.StatusOK, gin.H{
		"token": token,
		"user":  newUserResponse(user),
	})
}

type VerifyTokenParams struct {
	Token string `binding:"required" json:"token"`
}

// VerifyToken POST RouteGroup + VerifyTokenRoute. Проверяет токен и возвращает
// его аккаунт. Просроченный и невалидный токены различаются кодом ошибки.
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	var params VerifyTokenParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		ErrorResponse(c, http.StatusBadRequest, CodeInvalidArgument, "malformed request body")
		return
	}

	claims, validateErr := tokens.ValidateUserJWT(params.Token, h.jwtTokenSecret)
	if validateErr != nil {
		if errors.Is(validateErr, tokens.ErrTokenExpired) {
			ErrorResponse(c, http.StatusUnauthorized, CodeTokenExpired, "token expired")
			return
		}
		ErrorResponse(c, http.StatusUnauthorized, CodeTokenInvalid, "token invalid")
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, findErr := h.userService.FindByID(ctx, claims.ID)
	if findErr != nil {
		if errors.Is(findErr, domain.ErrRecordNotFound) {
			ErrorResponse(c, http.StatusNotFound, CodeAccountNotFound, "account not found")
			return
		}
		InternalErrorResponse(c, findErr)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"user": newUserResponse(user)})
}

type ChangePasswordParams struct {
	Email           string `binding:"required,email"         json:"email"`
	CurrentPassword string `binding:"required"               json:"current_password"`
	NewPassword     string `binding:"required,min=6,max=255" json:"new_password"`
}

// ChangePassword POST RouteGroup + ChangePasswordRoute. Смена пароля по паре
// email/текущий пароль, авторизация токеном не требуется.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var params ChangePasswordParams
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

	changeErr := h.userService.ChangePassword(ctx, service.ChangePasswordArgs{
		Email:           params.Email,
		CurrentPassword: params.CurrentPassword,
		NewPassword:     params.NewPassword,
	})
	if changeErr != nil {
		switch {
		case errors.Is(changeErr, domain.ErrRecordNotFound), errors.Is(changeErr, domain.ErrPasswordMissMatch):
			ErrorResponse(c, http.StatusUnauthorized, CodeInvalidCredentials, "invalid email or password")
		default:
			InternalErrorResponse(c, changeErr)
		}
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"changed": true})
}
