package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"restohub/internal/adapters/catalog"
	server "restohub/internal/adapters/http_server"
	"restohub/internal/adapters/observability"
	redisad "restohub/internal/adapters/redis"
	"restohub/internal/app"
	"restohub/internal/content"
	"restohub/internal/domain"
	"restohub/internal/render"
	"restohub/internal/shared"
	"restohub/internal/storage/memory"
	mysqlrepo "restohub/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// deps
	store := openStore(cfg)
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("redis ping failed")
		}
		defer rc.Close()
		cache = rc
		store = app.NewCachedStore(store, rc, cfg.CacheTTL)
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis cache enabled")
	}

	cat, err := catalog.New(cfg.CatalogBase, cfg.CatalogKey, cfg.CatalogRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize catalog client")
	}

	sessions := content.NewRegistry(store, content.WithStoreTimeout(cfg.StoreTimeout))
	defer sessions.Close()
	pages := app.NewPageService(sessions, cat, cache, cfg.CacheTTL, render.New(nil))

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Sessions: sessions, Pages: pages})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.StoreBackend).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	log.Info().Msg("API stopped")
}

func openStore(cfg shared.Config) domain.ContentStore {
	if cfg.StoreBackend != "mysql" {
		var opts []memory.Option
		if cfg.StrictVersioning {
			opts = append(opts, memory.WithConflictCheck())
		}
		log.Warn().Msg("using in-memory content store; edits are lost on restart")
		return memory.New(opts...)
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	repo := mysqlrepo.New(db)
	if cfg.StrictVersioning {
		repo = repo.WithConflictCheck()
	}
	return repo
}
