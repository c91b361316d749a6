package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/Hitesh2006-org/FINANCE/internal/auth"
	"github.com/Hitesh2006-org/FINANCE/internal/cache"
	"github.com/Hitesh2006-org/FINANCE/internal/config"
	"github.com/Hitesh2006-org/FINANCE/internal/http/handlers"
	"github.com/Hitesh2006-org/FINANCE/internal/http/middlewares"
	"github.com/Hitesh2006-org/FINANCE/internal/identity"
	"github.com/Hitesh2006-org/FINANCE/internal/observability"
	"github.com/Hitesh2006-org/FINANCE/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(cfg config.Config, log *slog.Logger, pool *pgxpool.Pool, store cache.Store, reg *prometheus.Registry, prom *observability.Prom) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(otelgin.Middleware("finance-api"))

	r.Use(prom.GinHandleMiddleware())

	limiter := middlewares.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool)
	profilesRepo := postgres.NewProfilesRepo(pool)
	holdingsRepo := postgres.NewHoldingsRepo(pool, prom)
	transactionsRepo := postgres.NewTransactionsRepo(pool, prom)
	goalsRepo := postgres.NewGoalsRepo(pool, prom)
	configRepo := postgres.NewConfigRepo(pool)

	jwtManager := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)
	idService := identity.NewService(usersRepo, profilesRepo)

	// wire up handlers
	authHandler := handlers.NewAuthHandler(idService, jwtManager)
	holdingsHandler := handlers.NewHoldingsHandler(holdingsRepo, store)
	transactionsHandler := handlers.NewTransactionsHandler(transactionsRepo, store)
	goalsHandler := handlers.NewGoalsHandler(goalsRepo)
	profileHandler := handlers.NewProfileHandler(profilesRepo)
	settingsHandler := handlers.NewSettingsHandler(configRepo)

	// No caller identity before login, so /auth limits per IP.
	authGroup := r.Group("/auth")
	authGroup.Use(limiter.RateLimiterMiddleware(middlewares.KeyByIP))
	authGroup.Use(middlewares.RequireJSON())
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	authMW := middlewares.NewAuthMiddleware(jwtManager)

	// The limiter sits after RequireAuth so KeyByUserOrIP sees the resolved
	// user id and buckets per account, not per address.
	api := r.Group("/api")
	api.Use(authMW.RequireAuth())
	api.Use(limiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP))
	api.Use(middlewares.RequireJSON())

	api.POST("/holdings", holdingsHandler.Create)
	api.GET("/holdings", holdingsHandler.List)
	api.DELETE("/holdings/:id", holdingsHandler.Delete)

	api.POST("/transactions", transactionsHandler.Create)
	api.GET("/transactions", transactionsHandler.List)
	api.DELETE("/transactions/:id", transactionsHandler.Delete)

	api.POST("/goals", goalsHandler.Create)
	api.GET("/goals", goalsHandler.List)
	api.PATCH("/goals/:id", goalsHandler.Update)
	api.DELETE("/goals/:id", goalsHandler.Delete)

	api.GET("/profile", profileHandler.Get)
	api.PUT("/profile", profileHandler.Update)

	api.GET("/settings/market-data-key", settingsHandler.GetMarketDataKey)
	api.PUT("/settings/market-data-key", settingsHandler.SetMarketDataKey)

	return r
}
