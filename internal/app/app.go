package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsdevblog/bundle-reconciler/internal/config"
	"github.com/fsdevblog/bundle-reconciler/internal/jobs"
	"github.com/fsdevblog/bundle-reconciler/internal/repository/pgrepo"
	"github.com/fsdevblog/bundle-reconciler/internal/repository/repoargs"
	"github.com/fsdevblog/bundle-reconciler/internal/service"
	"github.com/fsdevblog/bundle-reconciler/internal/transport/api"
	"github.com/fsdevblog/bundle-reconciler/internal/transport/notify"
	"github.com/fsdevblog/bundle-reconciler/internal/transport/provider"
	"github.com/fsdevblog/bundle-reconciler/internal/transport/provider/client"
	"github.com/fsdevblog/bundle-reconciler/pkg/uow"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
)

const shutdownTimeout = 10 * time.Second

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

type publisher interface {
	jobs.Publisher
	Close() error
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.WithFields(logrus.Fields{
		"run_address":  a.Config.RunAddress,
		"provider_url": a.Config.ProviderAPIURL,
		"app_env":      a.Config.AppEnv,
	}).Info("Starting app")

	conn, connErr := pgrepo.Connect(notifyCtx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %s", connErr.Error())
	}
	defer conn.Close()

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}

	services, sErr := service.Factory(unitOfWork)
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	pub, pubErr := a.initPublisher()
	if pubErr != nil {
		return fmt.Errorf("app run: %s", pubErr.Error())
	}
	defer func() {
		if err := pub.Close(); err != nil {
			a.Logger.WithError(err).Error("closing publisher")
		}
	}()

	scheduler, schedErr := a.initScheduler(services, pub)
	if schedErr != nil {
		return fmt.Errorf("app run: %s", schedErr.Error())
	}

	router, routerErr := api.New(api.RouterArgs{
		Logger:        a.Logger,
		OrderService:  services.OrderService,
		WalletService: services.WalletService,
		Jobs:          scheduler,
		JWTSecretKey:  []byte(a.Config.JWTUserSecret),
	})
	if routerErr != nil {
		return fmt.Errorf("app run: %s", routerErr.Error())
	}

	server := &http.Server{
		Addr:              a.Config.RunAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second, //nolint:mnd
	}

	g, gCtx := errgroup.WithContext(notifyCtx)
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return scheduler.Run(gCtx)
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err //nolint:wrapcheck
	}
	return notifyCtx.Err() //nolint:wrapcheck
}

func (a *App) initPublisher() (publisher, error) {
	if a.Config.NATSURL == "" {
		a.Logger.Warn("NATS_URL is not set, order outcome notifications are disabled")
		return notify.NoopPublisher{}, nil
	}
	pub, err := notify.Connect(a.Config.NATSURL, a.Config.NotifySubject, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("init publisher: %w", err)
	}
	return pub, nil
}

func (a *App) initScheduler(services *service.AppServices, pub jobs.Publisher) (*jobs.Scheduler, error) {
	conf := a.Config

	statuses, mapErr := provider.LoadStatusMap(conf.StatusMapFile)
	if mapErr != nil {
		return nil, fmt.Errorf("init scheduler: %w", mapErr)
	}

	loc, locErr := conf.Location()
	if locErr != nil {
		return nil, fmt.Errorf("init scheduler: %w", locErr)
	}

	providerClient := client.New(conf.ProviderAPIURL, conf.ProviderAPIKey,
		client.WithRateLimit(conf.ProviderRPS, conf.ProviderBurst),
	)

	reconciler := jobs.NewReconciler(services.OrderService, providerClient, statuses, pub, a.Logger).
		SetPageSize(conf.ReconcilePageSize).
		SetWorkers(conf.ReconcileWorkers).
		SetMaxAttempts(conf.ReconcileMaxAttempts).
		SetProviderTimeout(conf.ProviderTimeout)

	staleCompleter := jobs.NewStaleCompleter(services.OrderService, conf.StaleNetworks, a.Logger).
		SetStaleAfter(conf.StaleAfter).
		SetLocation(loc).
		SetBatchSize(conf.StaleBatchSize)

	scheduler := jobs.NewScheduler(a.Logger).SetRunOnStart(conf.RunOnStart)
	if err := scheduler.Add(reconciler, conf.Schedule.ReconcileInterval); err != nil {
		return nil, fmt.Errorf("init scheduler: %w", err)
	}
	if err := scheduler.Add(staleCompleter, conf.Schedule.StaleCompleteInterval); err != nil {
		return nil, fmt.Errorf("init scheduler: %w", err)
	}
	return scheduler, nil
}

func initUOW(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	factories := map[repoargs.RepositoryName]uow.RepositoryFactory{
		repoargs.UserRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewUserRepository(dbtx)
		},
		repoargs.OrderRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewOrderRepository(dbtx)
		},
		repoargs.TransactionRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewTransactionRepository(dbtx)
		},
	}
	for name, factory := range factories {
		if regErr := unitOfWork.Register(uow.RepositoryName(name), factory); regErr != nil {
			return nil, fmt.Errorf("init UOW: %s", regErr.Error())
		}
	}

	return unitOfWork, nil
}
