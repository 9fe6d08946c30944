package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/transport/api/testutils"
	"github.com/fsdevblog/topup-store/internal/transport/api/tokens"
)

type NotificationsHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	m           *serviceMocks
	currentUser domain.User
	token       string
}

func TestNotificationsHandlerSuite(t *testing.T) {
	suite.Run(t, new(NotificationsHandlerTestSuite))
}

func (s *NotificationsHandlerTestSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.router, s.m = newTestRouter(ctrl)

	s.currentUser = domain.User{ID: 7, Username: "reader", Status: domain.UserStatusActive}
	token, tokenErr := tokens.GenerateUserJWT(s.currentUser.ID, "reader@example.com", time.Hour, testJWTSecret)
	s.Require().NoError(tokenErr)
	s.token = token

	s.m.user.EXPECT().FindByID(gomock.Any(), s.currentUser.ID).Return(&s.currentUser, nil).AnyTimes()
}

func (s *NotificationsHandlerTestSuite) makeRequest(method, url string, payload any) *http.Response {
	var body *bytes.Reader
	if payload != nil {
		raw, marshalErr := json.Marshal(payload)
		s.Require().NoError(marshalErr)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	resp, reqErr := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: method,
		URL:    url,
		Body:   body,
	}, testutils.WithBearerToken(s.token))
	s.Require().NoError(reqErr)
	return resp
}

func (s *NotificationsHandlerTestSuite) TestIndex() {
	notifications := []domain.Notification{
		{ID: 1, UserID: s.currentUser.ID, Title: "VIP", Message: "Уровень повышен", IsRead: false},
		{ID: 2, Title: "Скидки", Message: "Распродажа", IsRead: false},
	}
	s.m.notification.EXPECT().GetForUser(gomock.Any(), s.currentUser.ID).Return(notifications, nil)

	resp := s.makeRequest(http.MethodGet, "/api/notifications", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	parsed := parseResponse(s.T(), resp)
	s.True(parsed.Success)

	data := parsed.Data.(map[string]any)
	s.Len(data["notifications"], 2)
}

func (s *NotificationsHandlerTestSuite) TestMarkRead() {
	s.m.notification.EXPECT().MarkRead(gomock.Any(), int64(5), s.currentUser.ID).Return(nil)

	resp := s.makeRequest(http.MethodPost, "/api/notifications/5/read", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.True(parseResponse(s.T(), resp).Success)
}

func (s *NotificationsHandlerTestSuite) TestMarkReadForeign() {
	s.m.notification.EXPECT().MarkRead(gomock.Any(), int64(5), s.currentUser.ID).
		Return(fmt.Errorf("mark read: %w", domain.ErrRecordNotFound))

	resp := s.makeRequest(http.MethodPost, "/api/notifications/5/read", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)

	parsed := parseResponse(s.T(), resp)
	s.False(parsed.Success)
	s.Equal(CodeNotFound, parsed.Code)
}

func (s *NotificationsHandlerTestSuite) TestBroadcast() {
	params := BroadcastParams{Title: "Анонс", Message: "Новая категория товаров"}
	created := domain.Notification{ID: 10, Title: params.Title, Message: params.Message}

	s.m.notification.EXPECT().Broadcast(gomock.Any(), params.Title, params.Message).Return(&created, nil)

	resp := s.makeRequest(http.MethodPost, "/api/notifications/broadcast", params)
	s.Equal(http.StatusCreated, resp.StatusCode)

	parsed := parseResponse(s.T(), resp)
	s.True(parsed.Success)

	data := parsed.Data.(map[string]any)
	notification := data["notification"].(map[string]any)
	s.Equal(params.Title, notification["title"])
}

func (s *NotificationsHandlerTestSuite) TestBroadcastValidation() {
	resp := s.makeRequest(http.MethodPost, "/api/notifications/broadcast", BroadcastParams{Title: "Анонс"})
	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)

	parsed := parseResponse(s.T(), resp)
	s.False(parsed.Success)
	s.Equal(CodeInvalidArgument, parsed.Code)
}
