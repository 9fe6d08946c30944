package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/topup-store/internal/domain"
)

type NotificationsHandler struct {
	notificationService NotificationServicer
}

func NewNotificationsHandler(notificationService NotificationServicer) *NotificationsHandler {
	return &NotificationsHandler{
		notificationService: notificationService,
	}
}

// Index GET RouteGroup + NotificationsRoute. Собственные уведомления юзера
// вместе с глобальными.
func (h *NotificationsHandler) Index(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	notifications, err := h.notificationService.GetForUser(ctx, getUserIDFromContext(c))
	if err != nil {
		InternalErrorResponse(c, err)
		return
	}

	out := make([]NotificationResponse, 0, len(notifications))
	for i := range notifications {
		out = append(out, newNotificationResponse(&notifications[i]))
	}
	SuccessResponse(c, http.StatusOK, gin.H{"notifications": out})
}

type BroadcastParams struct {
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// Broadcast POST RouteGroup + NotificationsRoute + /broadcast. Создает
// глобальное уведомление без привязки к юзеру.
func (h *NotificationsHandler) Broadcast(c *gin.Context) {
	var params BroadcastParams
	if !bindParams(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	notification, err := h.notificationService.Broadcast(ctx, params.Title, params.Message)
	if err != nil {
		InternalErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, gin.H{"notification": newNotificationResponse(notification)})
}

// MarkRead POST RouteGroup + NotificationsRoute + /:id/read. Чужое уведомление
// отдается как не найденное.
func (h *NotificationsHandler) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.notificationService.MarkRead(ctx, id, getUserIDFromContext(c)); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			ErrorResponse(c, http.StatusNotFound, CodeNotFound, "notification not found")
			return
		}
		InternalErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"read": true})
}
