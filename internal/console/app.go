// Package console implements the sevactl admin REPL. It operates on the
// vault database directly with the same services the server uses.
package console

import (
	"bufio"
	"context"
	"os"

	"github.com/seva-innovations/storefront-vault/internal/auth"
	"github.com/seva-innovations/storefront-vault/internal/config"
	"github.com/seva-innovations/storefront-vault/internal/keys"
	"github.com/seva-innovations/storefront-vault/internal/logging"
	"github.com/seva-innovations/storefront-vault/internal/obfuscate"
	"github.com/seva-innovations/storefront-vault/internal/orders"
	"github.com/seva-innovations/storefront-vault/internal/storage"
)

type App struct {
	config *config.Config
	auth   *auth.Authenticator
	orders *orders.Service
	db     *storage.SQLiteStore
	reader *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewDefault()

	db, err := storage.OpenSQLite(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	authenticator := auth.New(db, logger, cfg.AdminUsername, cfg.AdminPassword)
	keyManager := keys.New(db, storage.NewMemoryStore(), authenticator)
	orderService := orders.NewService(db, obfuscate.NewEngine(keyManager), obfuscate.NewSessionCipher(keyManager), logger)

	if err := authenticator.EnsureAdmin(ctx); err != nil {
		return nil, err
	}
	if err := orderService.MigrateLegacyOrders(ctx); err != nil {
		return nil, err
	}

	return &App{
		config: cfg,
		auth:   authenticator,
		orders: orderService,
		db:     db,
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.session(context.Background()) != nil
}

func (a *App) session(ctx context.Context) *auth.Session {
	sess := a.auth.Current(ctx)
	if !sess.IsAdmin() {
		return nil
	}
	return sess
}

func (a *App) status() string {
	if sess := a.session(context.Background()); sess != nil {
		return sess.Identifier
	}
	return "not logged in"
}
