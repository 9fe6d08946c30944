package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive

	"github.com/fsdevblog/topup-store/internal/config"
	"github.com/fsdevblog/topup-store/internal/repository/pgrepo"
	"github.com/fsdevblog/topup-store/internal/repository/repoargs"
	"github.com/fsdevblog/topup-store/internal/service"
	"github.com/fsdevblog/topup-store/internal/transport/api"
	"github.com/fsdevblog/topup-store/internal/transport/telegram"
	"github.com/fsdevblog/topup-store/pkg/uow"
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.Infof("Starting app on %s", a.Config.RunAddress)
	conn, connErr := pgrepo.Connect(notifyCtx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %s", connErr.Error())
	}
	defer conn.Close()

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}

	services, sErr := service.Factory(
		unitOfWork,
		[]byte(a.Config.JWTUserSecret),
		telegram.NewHTTPClient(),
		a.Logger,
	)
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	router := api.New(api.RouterArgs{
		Logger:              a.Logger,
		UserService:         services.UserService,
		BalanceService:      services.BalanceService,
		CatalogService:      services.CatalogService,
		OrderService:        services.OrderService,
		PaymentService:      services.PaymentService,
		NotificationService: services.NotificationService,
		JWTSecretKey:        []byte(a.Config.JWTUserSecret),
	})

	errChan := make(chan error, 1)

	go func() {
		if runErr := router.Run(a.Config.RunAddress); runErr != nil {
			errChan <- runErr
		}
	}()

	select {
	case <-notifyCtx.Done():
		return notifyCtx.Err() //nolint:wrapcheck
	case err := <-errChan:
		return err
	}
}

func initUOW(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	factories := map[repoargs.RepositoryName]uow.RepositoryFactory{
		repoargs.UserRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewUserRepository(dbtx)
		},
		repoargs.VIPLevelRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewVIPLevelRepository(dbtx)
		},
		repoargs.CategoryRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewCategoryRepository(dbtx)
		},
		repoargs.ProductRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewProductRepository(dbtx)
		},
		repoargs.PaymentMethodRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewPaymentMethodRepository(dbtx)
		},
		repoargs.PaymentTransactionRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewPaymentTransactionRepository(dbtx)
		},
		repoargs.OrderRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewOrderRepository(dbtx)
		},
		repoargs.NotificationRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewNotificationRepository(dbtx)
		},
		repoargs.SettingsRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewSettingsRepository(dbtx)
		},
	}

	for name, factory := range factories {
		if regErr := unitOfWork.Register(uow.RepositoryName(name), factory); regErr != nil {
			return nil, fmt.Errorf("init UOW: %s", regErr.Error())
		}
	}
	return unitOfWork, nil
}
