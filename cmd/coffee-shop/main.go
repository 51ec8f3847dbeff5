// @title         coffee-shop API
// @version       1.0
// @description   Меню кофейни: напитки и рецепты, изменения по permissions из Auth0 access token.
// @BasePath      /
// @schemes       http
// @host          localhost:8080
// @securityDefinitions.apikey BearerAuth
// @in            header
// @name          Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/vbncursed/vkr/coffee-shop/docs"
	"github.com/vbncursed/vkr/coffee-shop/internal/auth"
	"github.com/vbncursed/vkr/coffee-shop/internal/cache"
	icfg "github.com/vbncursed/vkr/coffee-shop/internal/config"
	ih "github.com/vbncursed/vkr/coffee-shop/internal/http"
	"github.com/vbncursed/vkr/coffee-shop/internal/logging"
	"github.com/vbncursed/vkr/coffee-shop/internal/repo"
	"github.com/vbncursed/vkr/coffee-shop/internal/service"
)

func main() {
	cfg, err := icfg.Load()
	if err != nil {
		boot := logging.Must("info", false)
		boot.Fatal("config", zap.Error(err))
	}
	logger := logging.Must(cfg.LogLevel, cfg.LogDev)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := repo.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db", zap.Error(err))
	}
	defer pool.Close()

	applied, err := repo.RunMigrations(ctx, pool)
	if err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}
	if len(applied) > 0 {
		logger.Info("migrations applied", zap.Strings("files", applied))
	}

	gate, keys, closeAuth, err := buildGate(ctx, cfg.Auth, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("auth", zap.Error(err))
	}
	defer closeAuth()

	e := ih.Router(ih.Deps{
		Logger:        logger,
		Gate:          gate,
		Drinks:        service.New(repo.NewStore(pool)),
		DB:            pool,
		Keys:          keys,
		EnableSwagger: cfg.EnableSwagger,
	})

	srv := &http.Server{
		Addr:              cfg.Bind,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("coffee-shop listening",
			zap.String("bind", cfg.Bind),
			zap.String("issuer", cfg.Auth.Issuer()),
			zap.Strings("algorithms", cfg.Auth.Algorithms),
			zap.Bool("swagger", cfg.EnableSwagger),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func buildGate(ctx context.Context, a icfg.Auth, r icfg.Redis, logger *zap.Logger) (*auth.Gate, *auth.KeyResolver, func(), error) {
	jwksURL := a.JWKSURL
	if jwksURL == "" {
		dctx, cancel := context.WithTimeout(ctx, a.FetchTimeout)
		discovered, err := auth.DiscoverJWKSURL(dctx, a.Issuer(), nil)
		cancel()
		if err != nil {
			jwksURL = a.DefaultJWKSURL()
			logger.Warn("oidc discovery failed, using default jwks url", zap.String("url", jwksURL), zap.Error(err))
		} else {
			jwksURL = discovered
		}
	}

	opts := []auth.KeyResolverOption{
		auth.WithHTTPClient(&http.Client{Timeout: a.FetchTimeout}),
		auth.WithKeySetTTL(a.CacheTTL),
		auth.WithFetchTimeout(a.FetchTimeout),
		auth.WithRefreshCooldown(a.RefreshCooldown),
		auth.WithResolverLogger(logger.Named("jwks")),
	}
	closeFn := func() {}
	if r.Addr != "" {
		shared, err := cache.NewKeySetStore(ctx, cache.Config{Addr: r.Addr, KeyPrefix: r.KeyPrefix}, jwksURL)
		if err != nil {
			logger.Warn("redis jwks cache disabled", zap.Error(err))
		} else {
			opts = append(opts, auth.WithSharedCache(shared))
			closeFn = func() { _ = shared.Close() }
		}
	}

	keys, err := auth.NewKeyResolver(jwksURL, opts...)
	if err != nil {
		return nil, nil, closeFn, err
	}
	verifier, err := auth.NewVerifier(a.Issuer(), a.Audience, a.Algorithms, auth.WithLeeway(a.Leeway))
	if err != nil {
		return nil, nil, closeFn, err
	}
	logger.Info("auth configured", zap.String("jwks_url", jwksURL), zap.String("audience", a.Audience))
	return auth.NewGate(keys, verifier, logger.Named("auth")), keys, closeFn, nil
}
