package service

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/topup-store/internal/service/psswd"
	"github.com/fsdevblog/topup-store/pkg/uow"
)

type AppServices struct {
	UserService         *UserService
	BalanceService      *BalanceService
	CatalogService      *CatalogService
	OrderService        *OrderService
	PaymentService      *PaymentService
	NotificationService *NotificationService
}

func Factory(
	unitOfWork uow.UOW,
	jwtSecret []byte,
	announcer UpgradeAnnouncer,
	l *logrus.Logger,
) (*AppServices, error) {
	userService, userServiceErr := NewUserService(unitOfWork, jwtSecret, psswd.New())
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	balanceService, balanceServiceErr := NewBalanceService(unitOfWork, announcer, l)
	if balanceServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", balanceServiceErr.Error())
	}

	catalogService, catalogServiceErr := NewCatalogService(unitOfWork)
	if catalogServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", catalogServiceErr.Error())
	}

	orderService, orderServiceErr := NewOrderService(unitOfWork, balanceService)
	if orderServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", orderServiceErr.Error())
	}

	paymentService, paymentServiceErr := NewPaymentService(unitOfWork, balanceService)
	if paymentServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", paymentServiceErr.Error())
	}

	notificationService, notificationServiceErr := NewNotificationService(unitOfWork)
	if notificationServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", notificationServiceErr.Error())
	}

	return &AppServices{
		UserService:         userService,
		BalanceService:      balanceService,
		CatalogService:      catalogService,
		OrderService:        orderService,
		PaymentService:      paymentService,
		NotificationService: notificationService,
	}, nil
}
