package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/yogamuz/inventory-pos/internal/api"
	"github.com/yogamuz/inventory-pos/internal/config"
	"github.com/yogamuz/inventory-pos/internal/logging"
	"github.com/yogamuz/inventory-pos/internal/render"
	"github.com/yogamuz/inventory-pos/internal/resource"
	"github.com/yogamuz/inventory-pos/internal/runtime"
	"github.com/yogamuz/inventory-pos/internal/session"
)

// app bundles the wired services behind every command. Each command builds
// its own app, runs one operation, and closes it.
type app struct {
	cfg      *config.Config
	api      *api.Client
	store    *session.Store
	sess     *session.Service
	guard    *session.Guard
	products *resource.ProductStore
	stock    *resource.StockStore
	history  *resource.HistoryStore
	out      *render.Renderer
	shutdown *runtime.Shutdown
}

func newApp() (*app, error) {
	cfg := config.Load()
	if err := logging.Setup(cfg.DataDir, cfg.LogLevel); err != nil {
		return nil, err
	}

	client, err := api.New(cfg.BaseURL, cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}

	store, err := session.NewStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	sess := session.NewService(client, store)
	client.SetUnauthorizedHook(func() {
		sess.ClearUser(context.Background())
		fmt.Fprintln(os.Stderr, "Session expired, run `invpos login` to sign in again")
	})

	shutdown := runtime.NewShutdown(5 * time.Second)
	shutdown.Register("session store", store.Close)
	shutdown.Listen()

	return &app{
		cfg:      cfg,
		api:      client,
		store:    store,
		sess:     sess,
		guard:    session.NewGuard(sess),
		products: resource.NewProductStore(client, cfg.PageSize),
		stock:    resource.NewStockStore(client, cfg.PageSize),
		history:  resource.NewHistoryStore(client, cfg.HistoryPageSize),
		out:      render.New(!plain),
		shutdown: shutdown,
	}, nil
}

func (a *app) Close() {
	a.shutdown.Close()
}

// hydratedApp builds the app and restores the persisted session before
// the command runs. No network call happens here.
func hydratedApp() (*app, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	if err := a.sess.Hydrate(context.Background()); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// requireAuth rejects commands that need a signed-in session.
func requireAuth(a *app) error {
	if !a.sess.Snapshot().IsAuthenticated {
		return errors.New("not signed in, run `invpos login` first")
	}
	return nil
}
