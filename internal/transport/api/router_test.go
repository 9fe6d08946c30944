package api

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/fsdevblog/topup-store/internal/transport/api/mocks"
	"github.com/fsdevblog/topup-store/internal/transport/api/testutils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testJWTSecret = []byte("test-secret")

// serviceMocks собирает моки всех сервисов роутера.
type serviceMocks struct {
	user         *mocks.MockUserServicer
	balance      *mocks.MockBalanceServicer
	catalog      *mocks.MockCatalogServicer
	order        *mocks.MockOrderServicer
	payment      *mocks.MockPaymentServicer
	notification *mocks.MockNotificationServicer
}

func newTestRouter(ctrl *gomock.Controller) (*gin.Engine, *serviceMocks) {
	m := &serviceMocks{
		user:         mocks.NewMockUserServicer(ctrl),
		balance:      mocks.NewMockBalanceServicer(ctrl),
		catalog:      mocks.NewMockCatalogServicer(ctrl),
		order:        mocks.NewMockOrderServicer(ctrl),
		payment:      mocks.NewMockPaymentServicer(ctrl),
		notification: mocks.NewMockNotificationServicer(ctrl),
	}
	router := New(RouterArgs{
		UserService:         m.user,
		BalanceService:      m.balance,
		CatalogService:      m.catalog,
		OrderService:        m.order,
		PaymentService:      m.payment,
		NotificationService: m.notification,
		JWTSecretKey:        testJWTSecret,
	})
	return router, m
}

// parseResponse читает конверт ответа и закрывает тело.
func parseResponse(t *testing.T, resp *http.Response) Response {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck

	body, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)

	var envelope Response
	require.NoError(t, json.Unmarshal(body, &envelope), "body: %s", string(body))
	return envelope
}

func TestHealth(t *testing.T) {
	ctrl := gomock.NewController(t)
	router, _ := newTestRouter(ctrl)

	resp, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: router,
		Method: http.MethodGet,
		URL:    RouteGroup + HealthRoute,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := parseResponse(t, resp)
	require.True(t, envelope.Success)
}
