package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jcmexdev/storefront/internal/pkg/cache"
	"github.com/jcmexdev/storefront/internal/pkg/telemetry"
	"github.com/jcmexdev/storefront/internal/storefront/app"
	"github.com/jcmexdev/storefront/internal/storefront/config"
	"github.com/jcmexdev/storefront/internal/storefront/infra/adapters/shopapi"
	"github.com/jcmexdev/storefront/internal/storefront/infra/httpx"
	"github.com/jcmexdev/storefront/internal/storefront/orderlog"
	orderlogsqlite "github.com/jcmexdev/storefront/internal/storefront/orderlog/sqlite"
)

func main() {
	cfg := config.Load()
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, "storefront")
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	} else {
		defer func() {
			_ = shutdownTracer(context.Background())
		}()
	}

	var catalogCache cache.Cache
	if cfg.RedisAddr != "" {
		catalogCache = cache.NewRedis(cfg.RedisAddr, "storefront")
		slog.Info("catalog cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CatalogCacheTTL)
	}

	var orders orderlog.Repository
	if cfg.OrderLogPath != "" {
		repo, err := orderlogsqlite.Open(cfg.OrderLogPath)
		if err != nil {
			slog.Error("order log open failed", "path", cfg.OrderLogPath, "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		orders = repo
		slog.Info("order log enabled", "path", cfg.OrderLogPath)
	}

	api := shopapi.New(cfg.ShopAPIOrigin, cfg.CDNOrigin, catalogCache, cfg.CatalogCacheTTL)
	hub := app.NewHub(api, orders, slog.Default(), cfg.SessionTTL)
	hub.StartSweeper(ctx, cfg.SweepInterval)

	router := httpx.NewRouter(httpx.NewHandler(hub))
	server := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		slog.Info("storefront listening",
			"addr", cfg.HTTPAddr,
			"shop_api", cfg.ShopAPIOrigin,
			"cdn", cfg.CDNOrigin,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("storefront stopped")
}
