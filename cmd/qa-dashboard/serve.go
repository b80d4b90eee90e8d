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

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/qa-dashboard-api/internal/catalog"
	"github.com/noah-isme/qa-dashboard-api/internal/handler"
	"github.com/noah-isme/qa-dashboard-api/internal/middleware"
	"github.com/noah-isme/qa-dashboard-api/internal/models"
	"github.com/noah-isme/qa-dashboard-api/internal/repository"
	"github.com/noah-isme/qa-dashboard-api/internal/scoring"
	"github.com/noah-isme/qa-dashboard-api/internal/service"
	"github.com/noah-isme/qa-dashboard-api/pkg/cache"
	"github.com/noah-isme/qa-dashboard-api/pkg/config"
	"github.com/noah-isme/qa-dashboard-api/pkg/database"
	"github.com/noah-isme/qa-dashboard-api/pkg/events"
	"github.com/noah-isme/qa-dashboard-api/pkg/export"
	"github.com/noah-isme/qa-dashboard-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/qa-dashboard-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/qa-dashboard-api/pkg/middleware/requestid"
)

const (
	tokenIssuer   = "qa-dashboard-api"
	tokenAudience = "qa-dashboard"
	streamRoute   = "/records/stream"
)

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API.

The record snapshot is loaded once at start-up and kept current by local writes and,
when Redis is available, by change notices from other instances.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "apply pending migrations before serving")
}

type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	db         *sqlx.DB
	redis      *redis.Client
	metrics    *service.MetricsService
	feed       *service.SnapshotFeed
	bus        *repository.ChangeBus
	dispatcher *service.EventDispatcher
	router     *gin.Engine
}

func authConfig(cfg *config.Config) service.AuthConfig {
	return service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             tokenIssuer,
		Audience:           []string{tokenAudience},
	}
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.File == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(cfg.Catalog.File)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logr, err := bootstrap()
	if err != nil {
		return err
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := a.feed.Refresh(ctx); err != nil {
		return fmt.Errorf("load initial snapshot: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	a.dispatcher.Start(gctx)
	g.Go(func() error {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		if err := a.feed.FollowChanges(gctx, a.bus); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("follow changes: %w", err)
		}
		return nil
	})

	err = g.Wait()
	a.dispatcher.Stop()
	logr.Info("server stopped")
	return err
}

func buildApp(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*app, error) {
	c, err := loadCatalog(cfg)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	for _, statement := range c.Ambiguous() {
		logr.Warn("guideline appears in both checklists and will classify as original", zap.String("statement", statement))
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if autoMigrate {
		version, err := database.Migrate(db, 0)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		logr.Info("migrations applied", zap.Uint("version", version))
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, running single-instance without chart cache", zap.Error(err))
		redisClient = nil
	}

	a := &app{cfg: cfg, logger: logr, db: db, redis: redisClient, metrics: service.NewMetricsService()}
	validate := service.NewValidator()
	model := scoring.New(c)
	policy := service.NewAccessPolicy(cfg.Access.Allowlist, cfg.Access.AdminEmails)

	userRepo := repository.NewUserRepository(db)
	recordRepo := repository.NewRecordRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	a.bus = repository.NewChangeBus(redisClient, logr)

	a.feed = service.NewSnapshotFeed(recordRepo, a.metrics, logr)
	cacheSvc := service.NewCacheService(cacheRepo, a.metrics, cfg.Dashboard.CacheTTL, logr, redisClient != nil)

	if cfg.Events.Enabled {
		publisher := events.NewKafkaPublisher(cfg.Events.Brokers, cfg.Events.Topic)
		a.dispatcher = service.NewEventDispatcher(publisher, cfg.Events.Workers, a.metrics, logr)
		logr.Info("publishing change events", zap.Strings("brokers", cfg.Events.Brokers), zap.String("topic", cfg.Events.Topic))
	}

	presenter := service.NewRecordPresenter(model, policy)
	authSvc := service.NewAuthService(userRepo, policy, validate, logr, authConfig(cfg))
	recordSvc := service.NewRecordService(recordRepo, a.feed, policy, model, validate, logr).
		WithChangeBus(a.bus).
		WithCache(cacheSvc).
		WithAudit(userRepo).
		WithMetrics(a.metrics)
	if a.dispatcher != nil {
		recordSvc.WithEvents(a.dispatcher)
	}
	dashboardSvc := service.NewDashboardService(a.feed, presenter, model, cacheSvc, cfg.Dashboard.CacheTTL, cfg.Dashboard.RecentLimit, logr)
	exportSvc := service.NewExportService(a.feed, export.NewXLSXExporter(), export.NewPDFExporter(), export.NewCSVExporter(), a.metrics, logr)

	checks := map[string]handler.Pinger{"database": handler.PingFunc(db.PingContext)}
	if redisClient != nil {
		checks["redis"] = cacheRepo
	}

	a.router = newRouter(cfg, logr, routes{
		auth:      handler.NewAuthHandler(authSvc),
		records:   handler.NewRecordHandler(recordSvc, dashboardSvc, presenter),
		dashboard: handler.NewDashboardHandler(dashboardSvc),
		exports:   handler.NewExportHandler(exportSvc),
		stream:    handler.NewStreamHandler(a.feed, presenter, a.metrics, cfg.Stream.Heartbeat, logr),
		metrics:   handler.NewMetricsHandler(a.metrics, checks),
		tokens:    authSvc,
		policy:    policy,
		audit:     userRepo,
		observer:  a.metrics,
	})
	return a, nil
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	_ = a.db.Close()
}

type routes struct {
	auth      *handler.AuthHandler
	records   *handler.RecordHandler
	dashboard *handler.DashboardHandler
	exports   *handler.ExportHandler
	stream    *handler.StreamHandler
	metrics   *handler.MetricsHandler
	tokens    middleware.TokenValidator
	policy    middleware.AccessChecker
	audit     middleware.AuditWriter
	observer  middleware.RequestObserver
}

func newRouter(cfg *config.Config, logr *zap.Logger, h routes) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(h.observer, cfg.APIPrefix+streamRoute))

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())

	auth := api.Group("/auth")
	auth.POST("/login", h.auth.Login)
	auth.POST("/refresh", h.auth.Refresh)

	secured := api.Group("")
	secured.Use(middleware.JWT(h.tokens), middleware.RequireAccess(h.policy))
	secured.POST("/auth/logout", h.auth.Logout)
	secured.GET("/auth/me", h.auth.Me)
	secured.GET("/catalog", h.dashboard.Catalog)
	secured.GET("/dashboard", h.dashboard.Dashboard)
	secured.GET("/results", h.dashboard.Results)
	secured.GET("/metrics/summary", h.metrics.Summary)

	records := secured.Group("/records")
	records.GET("", h.records.List)
	records.POST("", h.records.Create)
	records.GET("/:id", h.records.Get)
	records.PATCH("/:id", h.records.Update)
	records.DELETE("/:id", h.records.Delete)

	secured.GET("/exports/:format", middleware.Audit(h.audit, models.AuditActionExport, "qa_scores", logr), h.exports.Export)

	// EventSource cannot send headers, so the stream also accepts ?access_token=.
	api.GET(streamRoute, middleware.JWT(h.tokens, middleware.AllowQueryToken()), middleware.RequireAccess(h.policy), h.stream.Stream)

	return r
}
