package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/topup-store/internal/transport/api/middlewares"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup               = "/api"
	HealthRoute              = "/health"
	RegisterRoute            = "/register"
	LoginRoute               = "/login"
	VerifyTokenRoute         = "/verify-token"
	ChangePasswordRoute      = "/change-password"
	ProfileRoute             = "/profile"
	BalanceRoute             = "/balance"
	AddBalanceRoute          = "/add-balance"
	CalculateDiscountRoute   = "/calculate-discount"
	VIPLevelsRoute           = "/vip-levels"
	CategoriesRoute          = "/categories"
	ProductsRoute            = "/products"
	PaymentMethodsRoute      = "/payment-methods"
	PaymentTransactionsRoute = "/payment-transactions"
	OrdersRoute              = "/orders"
	NotificationsRoute       = "/notifications"
)

type RouterArgs struct {
	Logger              *logrus.Logger
	UserService         UserServicer
	BalanceService      BalanceServicer
	CatalogService      CatalogServicer
	OrderService        OrderServicer
	PaymentService      PaymentServicer
	NotificationService NotificationServicer
	JWTSecretKey        []byte
}

func New(args RouterArgs) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.CORS())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	authHandler := NewAuthHandler(args.UserService, args.JWTSecretKey)
	accountHandler := NewAccountHandler(args.UserService, args.BalanceService)
	catalogHandler := NewCatalogHandler(args.CatalogService)
	ordersHandler := NewOrdersHandler(args.OrderService)
	paymentHandler := NewPaymentHandler(args.PaymentService)
	notificationsHandler := NewNotificationsHandler(args.NotificationService)

	api := r.Group(RouteGroup)

	// публичные роуты
	api.GET(HealthRoute, func(c *gin.Context) {
		SuccessResponse(c, http.StatusOK, gin.H{"status": "ok"})
	})
	api.POST(RegisterRoute, authHandler.Register)
	api.POST(LoginRoute, authHandler.Login)
	api.POST(VerifyTokenRoute, authHandler.VerifyToken)
	api.POST(ChangePasswordRoute, authHandler.ChangePassword)
	api.GET(VIPLevelsRoute, accountHandler.VIPLevels)
	api.GET(CategoriesRoute, catalogHandler.Categories)
	api.GET(CategoriesRoute+"/:id", catalogHandler.Category)
	api.GET(CategoriesRoute+"/:id/products", catalogHandler.CategoryProducts)
	api.GET(ProductsRoute, catalogHandler.Products)
	api.GET(ProductsRoute+"/:id", catalogHandler.Product)
	api.GET(PaymentMethodsRoute, paymentHandler.Methods)

	api.Use(middlewares.AuthRequired(args.JWTSecretKey, args.UserService))
	// ниже все роуты группы требуют авторизованного пользователя.
	api.GET(ProfileRoute, accountHandler.Profile)
	api.PUT(ProfileRoute, accountHandler.UpdateProfile)
	api.GET(BalanceRoute, accountHandler.Balance)
	api.POST(AddBalanceRoute, accountHandler.AddBalance)
	api.POST(CalculateDiscountRoute, accountHandler.CalculateDiscount)

	api.POST(CategoriesRoute, catalogHandler.CreateCategory)
	api.PUT(CategoriesRoute+"/:id", catalogHandler.UpdateCategory)
	api.DELETE(CategoriesRoute+"/:id", catalogHandler.DeleteCategory)
	api.POST(ProductsRoute, catalogHandler.CreateProduct)
	api.PUT(ProductsRoute+"/:id", catalogHandler.UpdateProduct)
	api.DELETE(ProductsRoute+"/:id", catalogHandler.DeleteProduct)
	api.PATCH(ProductsRoute+"/:id/toggle-availability", catalogHandler.ToggleAvailability)

	api.POST(OrdersRoute, ordersHandler.Create)
	api.GET(OrdersRoute, ordersHandler.Index)
	api.POST(OrdersRoute+"/:id/complete", ordersHandler.Complete)
	api.POST(OrdersRoute+"/:id/reject", ordersHandler.Reject)

	api.POST(PaymentTransactionsRoute, paymentHandler.CreateTransaction)
	api.GET(PaymentTransactionsRoute, paymentHandler.Index)
	api.POST(PaymentTransactionsRoute+"/:id/confirm", paymentHandler.Confirm)
	api.POST(PaymentTransactionsRoute+"/:id/reject", paymentHandler.RejectTransaction)

	api.GET(NotificationsRoute, notificationsHandler.Index)
	api.POST(NotificationsRoute+"/broadcast", notificationsHandler.Broadcast)
	api.POST(NotificationsRoute+"/:id/read", notificationsHandler.MarkRead)

	return r
}
