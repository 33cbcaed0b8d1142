package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"juridico/internal/catalog"
	"juridico/internal/config"
	"juridico/internal/email/noop"
	"juridico/internal/email/ses"
	"juridico/internal/handler"
	"juridico/internal/logging"
	"juridico/internal/metrics"
	"juridico/internal/port"
	"juridico/internal/repository/firestore"
	"juridico/internal/repository/postgres"
	"juridico/internal/resilience"
	"juridico/internal/router"
	"juridico/internal/service"
	"juridico/internal/storage/gcs"
	s3storage "juridico/internal/storage/s3"
)

// @title Jurídico API
// @version 1.0
// @description Storefront checkout and document collection for legal services.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// stores bundles the persistence backend selected by configuration.
type stores struct {
	users   port.UserRepository
	orders  port.OrderRepository
	uploads port.UploadRepository
	sales   port.SalesRepository
	ready   handler.ReadinessCheck
	close   func() error
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Store.Driver {
	case "postgres":
		db, err := postgres.NewDB(ctx, &cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return &stores{
			users:   postgres.NewUserRepo(db),
			orders:  postgres.NewOrderRepo(db),
			uploads: postgres.NewUploadRepo(db),
			sales:   postgres.NewSalesRepo(db),
			ready:   db.PingContext,
			close:   db.Close,
		}, nil
	case "firestore":
		client, err := firestore.NewClient(ctx, cfg.Store)
		if err != nil {
			return nil, err
		}
		orders := firestore.NewOrderRepo(client, cfg.Store.OrdersCollection)
		return &stores{
			users:   firestore.NewUserRepo(client),
			orders:  orders,
			uploads: firestore.NewUploadRepo(client, cfg.Store.UploadsCollection),
			sales:   firestore.NewSalesRepo(orders),
			ready: func(ctx context.Context) error {
				_, err := client.Collection(cfg.Store.OrdersCollection).Limit(1).Documents(ctx).GetAll()
				return err
			},
			close: client.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (port.ObjectStorage, error) {
	switch cfg.Storage.Driver {
	case "s3":
		return s3storage.NewS3Client(ctx, &cfg.S3)
	case "gcs":
		return gcs.NewGCSClient(ctx, &cfg.GCS)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func openNotifier(ctx context.Context, cfg *config.Config, logger *zap.Logger) (port.Notifier, error) {
	if cfg.Email.Provider == "ses" {
		return ses.NewSESNotifier(ctx, &cfg.Email)
	}
	return noop.NewNoopNotifier(logger), nil
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.close() }()

	objects, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	notifier, err := openNotifier(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize notifier: %w", err)
	}

	m := metrics.New("juridico")
	executor := resilience.NewExecutor(resilience.PolicyFromConfig(cfg.Resilience), logger)
	cat := catalog.Default()

	// Services
	authSvc := service.NewAuthService(st.users, cfg.JWT)
	regSvc := service.NewRegistrationService(st.users, authSvc)
	userSvc := service.NewUserService(st.users)
	uploadSvc := service.NewUploadService(st.orders, st.uploads, objects, cat, executor, notifier, m, logger, cfg.Upload, cfg.Storage)
	orderSvc := service.NewOrderService(st.orders, st.uploads, uploadSvc, cat, notifier, m, logger)
	salesSvc := service.NewSalesService(st.sales, st.orders)

	// Handlers
	authH := handler.NewAuthHandler(authSvc, regSvc)
	userH := handler.NewUserHandler(userSvc)
	catalogH := handler.NewCatalogHandler(cat, m)
	orderH := handler.NewOrderHandler(orderSvc, uploadSvc)
	uploadH := handler.NewUploadHandler(uploadSvc)
	salesH := handler.NewSalesHandler(salesSvc)
	healthH := handler.NewHealthHandler(st.ready)

	r := router.Setup(cfg, logger, m, authSvc, authH, userH, catalogH, orderH, uploadH, salesH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("store", cfg.Store.Driver),
			zap.String("storage", cfg.Storage.Driver),
			zap.Int("templates", cat.Len()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
