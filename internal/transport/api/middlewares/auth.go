package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/transport/api/tokens"
)

var ErrTokenNotExist = errors.New("token not exist")

const CurrentUserIDKey = "currentUserID"

// AccountFinder возвращает юзера по id. Нужен auth middleware для проверки
// статуса аккаунта на каждом запросе.
type AccountFinder interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

type envelope struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func abortAuth(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, envelope{Success: false, Code: code, Message: message})
}

// extractToken достает токен из заголовка Authorization. Префикс "Bearer "
// опционален - голый токен тоже принимается.
func extractToken(c *gin.Context) (string, error) {
	tokenHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if tokenHeader == "" {
		return "", ErrTokenNotExist
	}

	const bearer = "Bearer "
	if len(tokenHeader) > len(bearer) && strings.EqualFold(tokenHeader[:len(bearer)], bearer) {
		tokenHeader = strings.TrimSpace(tokenHeader[len(bearer):])
	}
	if tokenHeader == "" {
		return "", ErrTokenNotExist
	}
	return tokenHeader, nil
}

// AuthRequired проверяет токен, находит аккаунт и отклоняет забаненных.
// Статус аккаунта проверяется на каждом запросе: бан действует немедленно,
// независимо от срока жизни выданного токена. ID юзера кладется в контекст
// под ключом CurrentUserIDKey.
func AuthRequired(jwtTokenSecret []byte, accounts AccountFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, tokenErr := extractToken(c)
		if tokenErr != nil {
			abortAuth(c, http.StatusUnauthorized, "login_required", "authorization token required")
			return
		}

		claims, validateErr := tokens.ValidateUserJWT(tokenStr, jwtTokenSecret)
		if validateErr != nil {
			if errors.Is(validateErr, tokens.ErrTokenExpired) {
				abortAuth(c, http.StatusUnauthorized, "token_expired", "token expired")
				return
			}
			abortAuth(c, http.StatusUnauthorized, "token_invalid", "token invalid")
			return
		}

		user, findErr := accounts.FindByID(c, claims.ID)
		if findErr != nil {
			if errors.Is(findErr, domain.ErrRecordNotFound) {
				abortAuth(c, http.StatusUnauthorized, "account_not_found", "account not found")
				return
			}
			_ = c.Error(findErr).SetType(gin.ErrorTypePrivate)
			abortAuth(c, http.StatusInternalServerError, "internal", "internal server error")
			return
		}
		if user.Status == domain.UserStatusBanned {
			abortAuth(c, http.StatusForbidden, "account_banned", "account banned")
			return
		}

		c.Set(CurrentUserIDKey, user.ID)
		c.Next()
	}
}
