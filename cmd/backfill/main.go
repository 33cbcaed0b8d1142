// Command backfill creates missing upload records for orders that still
// accept documents, e.g. after the template table gained new documents.
// With -link-users it also attaches guest orders to the account registered
// with the same email.
// Usage: go run ./cmd/backfill [-dry-run] [-link-users]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"go.uber.org/zap"

	"juridico/internal/catalog"
	"juridico/internal/config"
	"juridico/internal/domain"
	"juridico/internal/email/noop"
	"juridico/internal/logging"
	"juridico/internal/metrics"
	"juridico/internal/port"
	"juridico/internal/repository/firestore"
	"juridico/internal/repository/postgres"
	"juridico/internal/resilience"
	"juridico/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dryRun := flag.Bool("dry-run", false, "only list the orders that would be backfilled")
	linkUsers := flag.Bool("link-users", false, "attach guest orders to matching accounts")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.Must(cfg.Log)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	orders, uploads, users, closeFn, err := openRepos(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	// Workflow creation never touches object storage.
	uploadSvc := service.NewUploadService(
		orders, uploads, nil, catalog.Default(),
		resilience.NewExecutor(resilience.DefaultPolicy(), logger),
		noop.NewNoopNotifier(logger), metrics.New("juridico_backfill"), logger,
		cfg.Upload, cfg.Storage,
	)

	all, err := orders.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("listing orders: %w", err)
	}

	if *linkUsers {
		if err := linkGuestOrders(ctx, service.NewGuestOrderLinker(orders, users, logger), all, *dryRun, logger); err != nil {
			return err
		}
	}

	var touched, failed int
	for i := range all {
		o := &all[i]
		if !o.Status.AcceptsDocuments() {
			continue
		}
		if *dryRun {
			logger.Info("would backfill", zap.String("order_id", o.ID.String()), zap.Int("items", len(o.Items)))
			touched++
			continue
		}
		if err := uploadSvc.StartWorkflow(ctx, o.ID); err != nil {
			logger.Error("backfill failed", zap.String("order_id", o.ID.String()), zap.Error(err))
			failed++
			continue
		}
		touched++
	}

	logger.Info("backfill complete",
		zap.Int("orders", len(all)),
		zap.Int("backfilled", touched),
		zap.Int("failed", failed),
		zap.Bool("dry_run", *dryRun),
	)
	if failed > 0 {
		return fmt.Errorf("%d orders failed", failed)
	}
	return nil
}

func linkGuestOrders(ctx context.Context, linker *service.GuestOrderLinker, all []domain.Order, dryRun bool, logger *zap.Logger) error {
	if dryRun {
		plan, err := linker.Plan(ctx, all)
		if err != nil {
			return fmt.Errorf("planning guest order links: %w", err)
		}
		for _, p := range plan {
			logger.Info("would link",
				zap.String("order_id", p.OrderID.String()),
				zap.String("user_id", p.UserID.String()),
				zap.String("email", p.Email),
			)
		}
		logger.Info("guest orders to link", zap.Int("count", len(plan)))
		return nil
	}

	linked, err := linker.Link(ctx, all)
	if err != nil {
		return fmt.Errorf("linking guest orders: %w", err)
	}
	logger.Info("guest orders linked", zap.Int("linked", linked))
	return nil
}

func openRepos(ctx context.Context, cfg *config.Config) (port.OrderRepository, port.UploadRepository, port.UserRepository, func() error, error) {
	if cfg.Store.Driver == "firestore" {
		client, err := firestore.NewClient(ctx, cfg.Store)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		return firestore.NewOrderRepo(client, cfg.Store.OrdersCollection),
			firestore.NewUploadRepo(client, cfg.Store.UploadsCollection),
			firestore.NewUserRepo(client),
			client.Close, nil
	}
	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	return postgres.NewOrderRepo(db), postgres.NewUploadRepo(db), postgres.NewUserRepo(db), db.Close, nil
}

