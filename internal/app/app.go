// Package app initializes and runs the vault server: storage, auth,
// order services, the HTTP API, and graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/seva-innovations/storefront-vault/internal/api"
	"github.com/seva-innovations/storefront-vault/internal/auth"
	"github.com/seva-innovations/storefront-vault/internal/config"
	"github.com/seva-innovations/storefront-vault/internal/keys"
	"github.com/seva-innovations/storefront-vault/internal/logging"
	"github.com/seva-innovations/storefront-vault/internal/obfuscate"
	"github.com/seva-innovations/storefront-vault/internal/orders"
	"github.com/seva-innovations/storefront-vault/internal/payment"
	"github.com/seva-innovations/storefront-vault/internal/storage"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  *storage.Broker
	db     *storage.SQLiteStore
	auth   *auth.Authenticator
	orders *orders.Service
	server *api.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewDefault()

	db, err := storage.OpenSQLite(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	// all writes go through the broker so change subscribers see them
	store := storage.NewBroker(db)
	volatile := storage.NewMemoryStore()

	authenticator := auth.New(store, logger, cfg.AdminUsername, cfg.AdminPassword)
	keyManager := keys.New(store, volatile, authenticator)
	engine := obfuscate.NewEngine(keyManager)
	orderService := orders.NewService(store, engine, obfuscate.NewSessionCipher(keyManager), logger)

	if err := authenticator.EnsureAdmin(ctx); err != nil {
		return nil, err
	}
	if err := orderService.MigrateLegacyOrders(ctx); err != nil {
		return nil, err
	}

	payClient := payment.NewClient(cfg.PaymentEndpoint, logger)
	server := api.NewServer(authenticator, orderService, payClient, logger, cfg.AllowedOrigins)

	return &App{
		config: cfg,
		logger: logger,
		store:  store,
		db:     db,
		auth:   authenticator,
		orders: orderService,
		server: server,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// watchChanges logs region writes at debug level until ctx is cancelled.
func (app *App) watchChanges(ctx context.Context) {
	changes, cancel := app.store.Subscribe(16)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case region, ok := <-changes:
			if !ok {
				return
			}
			app.logger.Debug(ctx, "storage region changed", "region", region)
		}
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.ListenAddr)

	app.initSignalHandler(cancelFunc)
	go app.watchChanges(ctx)

	httpServer := &http.Server{
		Addr:    app.config.ListenAddr,
		Handler: app.server.Router(),
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "http server error", "error", err)
			cancelFunc()
		}
	}()

	<-ctx.Done()

	app.logger.Info(ctx, "Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(ctx, "http shutdown error", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
