// Command authd runs the authentication service: PostgreSQL-backed
// credential and session storage, Redis-backed login throttling, and the
// JSON API on top.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/siamwallet/authcore/httpapi"
	"github.com/siamwallet/authcore/pkg/auth"
	"github.com/siamwallet/authcore/pkg/config"
	"github.com/siamwallet/authcore/pkg/httpserver"
	"github.com/siamwallet/authcore/pkg/jwt"
	"github.com/siamwallet/authcore/pkg/logger"
	"github.com/siamwallet/authcore/pkg/password"
	"github.com/siamwallet/authcore/pkg/pg"
	"github.com/siamwallet/authcore/pkg/ratelimiter"
	"github.com/siamwallet/authcore/pkg/redis"
	"github.com/siamwallet/authcore/pkg/requestid"
	"github.com/siamwallet/authcore/pkg/session"
	"github.com/siamwallet/authcore/storage/postgres"
)

type appConfig struct {
	Logger    logger.Config
	Server    httpserver.Config
	DB        pg.Config
	Redis     redis.Config
	JWT       jwt.Config
	Password  password.Config
	RateLimit ratelimiter.Config
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("service exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithConfig(cfg.Logger),
		logger.WithAttr(slog.String("service", "authd")),
		logger.WithContextValue("request_id", requestid.ContextKey()),
	)

	pool, err := pg.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.DB, log); err != nil {
		return err
	}

	hasher, err := password.New(password.WithCost(cfg.Password.Cost))
	if err != nil {
		return err
	}

	codec, err := jwt.NewCodec(cfg.JWT)
	if err != nil {
		return err
	}

	store := postgres.New(pool)
	sessions := session.NewManager(store, session.WithLogger(log))
	svc := auth.NewService(store, hasher, codec, sessions, auth.WithLogger(log))

	handlerOpts := []httpapi.Option{httpapi.WithLogger(log)}
	readiness := []func(context.Context) error{pg.Healthcheck(pool)}

	// Redis only backs login throttling; when it is unreachable at startup
	// the service still comes up, unthrottled, rather than refusing to boot.
	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, rate limiting disabled", logger.Error(err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("failed to close redis client", logger.Error(err))
			}
		}()

		limiter, err := ratelimiter.New(ratelimiter.NewRedisStore(redisClient), cfg.RateLimit)
		if err != nil {
			return err
		}
		handlerOpts = append(handlerOpts, httpapi.WithRateLimiter(limiter))
		readiness = append(readiness, redis.Healthcheck(redisClient))
	}

	handler := httpapi.NewHandler(svc, handlerOpts...)
	router := httpapi.NewRouter(handler, codec, log, readiness...)

	srv := httpserver.New(cfg.Server, httpserver.WithLogger(log))
	return srv.Run(ctx, router)
}
