package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/happycart-demo/internal/capture"
	"github.com/nikolayk812/happycart-demo/internal/cart"
	"github.com/nikolayk812/happycart-demo/internal/catalog"
	"github.com/nikolayk812/happycart-demo/internal/checkout"
	"github.com/nikolayk812/happycart-demo/internal/config"
	h "github.com/nikolayk812/happycart-demo/internal/http"
	"github.com/nikolayk812/happycart-demo/internal/port"
	"github.com/nikolayk812/happycart-demo/internal/repository"
	"go.uber.org/zap"
)

const (
	cleanupInterval = 500 * time.Millisecond

	testPatternWidth  = 640
	testPatternHeight = 480
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config.Load: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "newLogger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("storefront stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := catalog.New(cfg.StoreCurrency)
	if err != nil {
		return fmt.Errorf("catalog.New: %w", err)
	}
	engine := cart.NewEngine(cfg.StoreCurrency, logger)

	client, err := capture.NewClient(cfg.CameraServiceURL,
		capture.WithHTTPClient(&http.Client{Timeout: cfg.CameraHTTPTimeout}),
		capture.WithBreaker(cfg.CameraBreakerFailures, cfg.CameraBreakerCooldown),
		capture.WithClientLogger(logger))
	if err != nil {
		return fmt.Errorf("capture.NewClient: %w", err)
	}
	remote := capture.NewRemoteProvider(client, logger)

	var local port.CaptureProvider
	if cfg.CameraLocalFallback {
		local = capture.NewLocalProvider(capture.NewTestPatternDevice(testPatternWidth, testPatternHeight), logger)
	}
	selector := capture.NewSelector(remote, local, logger)

	receipts, closeReceipts, err := newReceiptRepository(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("newReceiptRepository: %w", err)
	}
	defer closeReceipts()

	orchestrator := checkout.New(engine, selector, receipts, logger,
		checkout.WithCleanupRetries(cfg.CleanupRetries, cleanupInterval))

	router := h.NewRouter(h.Deps{
		Logger:           logger,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		Catalog:          store,
		Cart:             engine,
		Checkout:         orchestrator,
		Gallery:          remote,
		Receipts:         receipts,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// camera captures can take as long as the camera client timeout
		WriteTimeout: cfg.CameraHTTPTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront starting",
			zap.String("port", cfg.HTTPPort),
			zap.String("camera_service_url", cfg.CameraServiceURL),
			zap.Bool("local_fallback", cfg.CameraLocalFallback))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("srv.ListenAndServe: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down storefront")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := shutdown(shutdownCtx, srv, orchestrator); err != nil {
		return err
	}

	logger.Info("storefront exited")
	return nil
}

type server interface {
	Shutdown(ctx context.Context) error
}

type flowCloser interface {
	Close(ctx context.Context) checkout.Snapshot
}

// shutdown stops the server, then closes any open checkout flow even when the server did not stop
// cleanly, releasing an open camera session and deleting an unsaved photo.
func shutdown(ctx context.Context, srv server, flows flowCloser) error {
	err := srv.Shutdown(ctx)
	flows.Close(ctx)

	if err != nil {
		return fmt.Errorf("srv.Shutdown: %w", err)
	}
	return nil
}

func newReceiptRepository(ctx context.Context, databaseURL string, logger *zap.Logger) (port.ReceiptRepository, func(), error) {
	if databaseURL == "" {
		logger.Info("DATABASE_URL not set, keeping receipts in memory")
		return repository.NewMemory(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("pool.Ping: %w", err)
	}

	repo, err := repository.NewReceipt(pool)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("repository.NewReceipt: %w", err)
	}

	return repo, pool.Close, nil
}
