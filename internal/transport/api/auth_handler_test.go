package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/service"
	"github.com/fsdevblog/topup-store/internal/transport/api/testutils"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
	m      *serviceMocks
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.router, s.m = newTestRouter(ctrl)
}

func (s *AuthHandlerTestSuite) postJSON(url string, payload any) *http.Response {
	body, marshalErr := json.Marshal(payload)
	s.Require().NoError(marshalErr)

	resp, reqErr := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    url,
		Body:   bytes.NewReader(body),
	})
	s.Require().NoError(reqErr)
	return resp
}

func (s *AuthHandlerTestSuite) TestRegister() {
	params := UserRegisterParams{
		Username: "newbie",
		Email:    "newbie@example.com",
		Password: "secret123",
	}

	s.m.user.EXPECT().
		Register(gomock.Any(), service.RegisterUserArgs{
			Username: params.Username,
			Email:    params.Email,
			Password: params.Password,
		}).
		Return(&domain.User{ID: 1, Username: params.Username, Email: params.Email}, nil)

	resp := s.postJSON(RouteGroup+RegisterRoute, params)
	s.Equal(http.StatusCreated, resp.StatusCode)

	envelope := parseResponse(s.T(), resp)
	s.True(envelope.Success)
}

func (s *AuthHandlerTestSuite) TestRegisterDuplicate() {
	params := UserRegisterParams{
		Username: "newbie",
		Email:    "taken@example.com",
		Password: "secret123",
	}

	s.m.user.EXPECT().
		Register(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("email taken: %w", domain.ErrDuplicateKey))

	resp := s.postJSON(RouteGroup+RegisterRoute, params)
	s.Equal(http.StatusConflict, resp.StatusCode)

	envelope := parseResponse(s.T(), resp)
	s.False(envelope.Success)
	s.Equal(CodeConflict, envelope.Code)
}

func (s *AuthHandlerTestSuite) TestRegisterValidation() {
	cases := []struct {
		name   string
		params UserRegisterParams
	}{
		{name: "bad email", params: UserRegisterParams{Username: "u", Email: "not-an-email", Password: "secret123"}},
		{name: "short password", params: UserRegisterParams{Username: "u", Email: "u@example.com", Password: "123"}},
		{name: "empty username", params: UserRegisterParams{Email: "u@example.com", Password: "secret123"}},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			resp := s.postJSON(RouteGroup+RegisterRoute, t.params)
			s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)

			envelope := parseResponse(s.T(), resp)
			s.Equal(CodeInvalidArgument, envelope.Code)
		})
	}
}

func (s *AuthHandlerTestSuite) TestRegisterMalformedBody() {
	resp, reqErr := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + RegisterRoute,
		Body:   bytes.NewBufferString("{broken"),
	})
	s.Require().NoError(reqErr)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck
}

func (s *AuthHandlerTestSuite) TestLogin() {
	params := UserLoginParams{Email: "active@example.com", Password: "secret123"}
	savedUser := domain.User{ID: 1, Email: params.Email, Username: "active"}

	s.m.user.EXPECT().
		Login(gomock.Any(), service.LoginUserArgs{Email: params.Email, Password: params.Password}).
		Return(&savedUser, "token-value", nil)

	resp := s.postJSON(RouteGroup+LoginRoute, params)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("Bearer token-value", resp.Header.Get("Authorization"))

	envelope := parseResponse(s.T(), resp)
	s.True(envelope.Success)

	data, ok := envelope.Data.(map[string]any)
	s.Require().True(ok)
	s.Equal("token-value", data["token"])
}

// TestLoginRejected проверяет, что неизвестный email и неверный пароль
// неразличимы в ответе.
func (s *AuthHandlerTestSuite) TestLoginRejected() {
	cases := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unknown email",
			serviceErr: fmt.Errorf("login user: %w", domain.ErrRecordNotFound),
			wantStatus: http.StatusUnauthorized,
			wantCode:   CodeInvalidCredentials,
		},
		{
			name:       "wrong password",
			serviceErr: fmt.Errorf("login user: %w", domain.ErrPasswordMissMatch),
			wantStatus: http.StatusUnauthorized,
			wantCode:   CodeInvalidCredentials,
		},
		{
			name:       "banned",
			serviceErr: fmt.Errorf("login user: %w", domain.ErrAccountBanned),
			wantStatus: http.StatusForbidden,
			wantCode:   CodeAccountBanned,
		},
	}

	var messages []string
	for _, t := range cases {
		s.Run(t.name, func() {
			s.m.user.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, "", t.serviceErr)

			resp := s.postJSON(RouteGroup+LoginRoute, UserLoginParams{
				Email:    "someone@example.com",
				Password: "whatever",
			})
			s.Equal(t.wantStatus, resp.StatusCode)

			envelope := parseResponse(s.T(), resp)
			s.Equal(t.wantCode, envelope.Code)
			if t.wantCode == CodeInvalidCredentials {
				messages = append(messages, envelope.Message)
			}
		})
	}

	// Текст ошибки одинаков для обоих случаев.
	s.Require().Len(messages, 2)
	s.Equal(messages[0], messages[1])
}

func (s *AuthHandlerTestSuite) TestChangePassword() {
	params := ChangePasswordParams{
		Email:           "active@example.com",
		CurrentPassword: "old secret",
		NewPassword:     "new secret",
	}

	s.m.user.EXPECT().
		ChangePassword(gomock.Any(), service.ChangePasswordArgs{
			Email:           params.Email,
			CurrentPassword: params.CurrentPassword,
			NewPassword:     params.NewPassword,
		}).
		Return(nil)

	resp := s.postJSON(RouteGroup+ChangePasswordRoute, params)
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *AuthHandlerTestSuite) TestChangePasswordWrongCredentials() {
	s.m.user.EXPECT().
		ChangePassword(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("changing password: %w", domain.ErrPasswordMissMatch))

	resp := s.postJSON(RouteGroup+ChangePasswordRoute, ChangePasswordParams{
		Email:           "active@example.com",
		CurrentPassword: "wrong",
		NewPassword:     "new secret",
	})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	envelope := parseResponse(s.T(), resp)
	s.Equal(CodeInvalidCredentials, envelope.Code)
}
