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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/service"
	"github.com/fsdevblog/topup-store/internal/transport/api/testutils"
	"github.com/fsdevblog/topup-store/internal/transport/api/tokens"
)

type OrdersHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	m           *serviceMocks
	currentUser domain.User
	token       string
}

func TestOrdersHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrdersHandlerTestSuite))
}

func (s *OrdersHandlerTestSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.router, s.m = newTestRouter(ctrl)

	s.currentUser = domain.User{ID: 1, Username: "buyer", Status: domain.UserStatusActive}
	token, tokenErr := tokens.GenerateUserJWT(s.currentUser.ID, "buyer@example.com", time.Hour, testJWTSecret)
	s.Require().NoError(tokenErr)
	s.token = token

	s.m.user.EXPECT().FindByID(gomock.Any(), s.currentUser.ID).Return(&s.currentUser, nil).AnyTimes()
}

func (s *OrdersHandlerTestSuite) makeRequest(method, url string, payload any) *http.Response {
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

func (s *OrdersHandlerTestSuite) TestCreate() {
	params := CreateOrderParams{ProductID: 10, Quantity: 2, OrderDetails: "acc: buyer#123"}
	order := domain.Order{
		ID:         1,
		UserID:     s.currentUser.ID,
		ProductID:  params.ProductID,
		Quantity:   params.Quantity,
		TotalPrice: decimal.NewFromInt(180),
		Status:     domain.OrderStatusPending,
	}

	s.m.order.EXPECT().
		Create(gomock.Any(), service.CreateOrderArgs{
			UserID:       s.currentUser.ID,
			ProductID:    params.ProductID,
			Quantity:     params.Quantity,
			OrderDetails: params.OrderDetails,
		}).
		Return(&order, nil)

	resp := s.makeRequest(http.MethodPost, RouteGroup+OrdersRoute, params)
	s.Equal(http.StatusCreated, resp.StatusCode)

	envelope := parseResponse(s.T(), resp)
	s.True(envelope.Success)
}

func (s *OrdersHandlerTestSuite) TestCreateErrors() {
	cases := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "product not found",
			serviceErr: fmt.Errorf("creating order: %w", domain.ErrRecordNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   CodeNotFound,
		},
		{
			name:       "product unavailable",
			serviceErr: fmt.Errorf("creating order: %w", domain.ErrProductUnavailable),
			wantStatus: http.StatusConflict,
			wantCode:   CodeConflict,
		},
		{
			name:       "not enough balance",
			serviceErr: fmt.Errorf("creating order: %w", domain.ErrNotEnoughBalance),
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeInsufficientBalance,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			s.m.order.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, t.serviceErr)

			resp := s.makeRequest(http.MethodPost, RouteGroup+OrdersRoute, CreateOrderParams{
				ProductID: 10,
				Quantity:  1,
			})
			s.Equal(t.wantStatus, resp.StatusCode)

			envelope := parseResponse(s.T(), resp)
			s.Equal(t.wantCode, envelope.Code)
		})
	}
}

func (s *OrdersHandlerTestSuite) TestCreateInvalidQuantity() {
	resp := s.makeRequest(http.MethodPost, RouteGroup+OrdersRoute, CreateOrderParams{
		ProductID: 10,
		Quantity:  0,
	})
	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)

	envelope := parseResponse(s.T(), resp)
	s.Equal(CodeInvalidArgument, envelope.Code)
}

func (s *OrdersHandlerTestSuite) TestComplete() {
	order := domain.Order{ID: 5, UserID: s.currentUser.ID, Status: domain.OrderStatusCompleted}

	s.m.order.EXPECT().Complete(gomock.Any(), order.ID).Return(&order, nil)

	resp := s.makeRequest(http.MethodPost, fmt.Sprintf("%s%s/%d/complete", RouteGroup, OrdersRoute, order.ID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)
}

// TestCompleteTwice проверяет, что повторное выполнение отклоняется: заказ уже
// не pending.
func (s *OrdersHandlerTestSuite) TestCompleteTwice() {
	s.m.order.EXPECT().
		Complete(gomock.Any(), int64(5)).
		Return(nil, fmt.Errorf("completing order: %w", domain.ErrRecordNotFound))

	resp := s.makeRequest(http.MethodPost, RouteGroup+OrdersRoute+"/5/complete", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)

	envelope := parseResponse(s.T(), resp)
	s.Equal(CodeNotFound, envelope.Code)
}

func (s *OrdersHandlerTestSuite) TestRejectBadID() {
	resp := s.makeRequest(http.MethodPost, RouteGroup+OrdersRoute+"/abc/reject", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *OrdersHandlerTestSuite) TestIndex() {
	orders := []domain.Order{
		{ID: 1, UserID: s.currentUser.ID, Status: domain.OrderStatusPending},
		{ID: 2, UserID: s.currentUser.ID, Status: domain.OrderStatusCompleted},
	}

	s.m.order.EXPECT().GetByUserID(gomock.Any(), s.currentUser.ID).Return(orders, nil)

	resp := s.makeRequest(http.MethodGet, RouteGroup+OrdersRoute, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	envelope := parseResponse(s.T(), resp)
	data, ok := envelope.Data.(map[string]any)
	s.Require().True(ok)
	s.Len(data["orders"], len(orders))
}
