package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/folio-dev/folio/config"
	"github.com/folio-dev/folio/internal/apiclient"
	"github.com/folio-dev/folio/internal/cache"
	"github.com/folio-dev/folio/internal/handlers"
	"github.com/folio-dev/folio/internal/middleware"
	"github.com/folio-dev/folio/internal/repository"
	"github.com/folio-dev/folio/internal/services"
	"github.com/folio-dev/folio/internal/web"
	"github.com/folio-dev/folio/pkg/httpclient"
	"github.com/folio-dev/folio/pkg/jwt"
	"github.com/folio-dev/folio/pkg/logger"
	"github.com/folio-dev/folio/pkg/metrics"
	"github.com/folio-dev/folio/pkg/profiling"
	"github.com/folio-dev/folio/pkg/storage"
	"github.com/folio-dev/folio/pkg/tracing"
)

// registerPublicRoutes mounts the portfolio pages, the login flow and the
// contact form
func registerPublicRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authLimiter, contactLimiter *middleware.RateLimiter,
	publicHandler *handlers.PublicHandler,
	authHandler *handlers.AuthHandler,
	themeHandler *handlers.ThemeHandler,
	contactHandler *handlers.ContactHandler,
) {
	router.GET("/", publicHandler.Index)
	router.GET("/sections/:name", publicHandler.Section)
	router.POST("/theme", themeHandler.Toggle)

	router.GET("/login", authHandler.LoginPage)
	router.POST("/login", authLimiter.Middleware(), authHandler.Login)
	router.GET("/register", authHandler.RegisterPage)
	router.POST("/register", authLimiter.Middleware(), authHandler.Register)
	router.POST("/logout", authHandler.Logout)

	router.POST("/contact", contactLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), contactHandler.SubmitForm)

	// Read-only JSON for other sites embedding the portfolio
	public := router.Group("/api/public")
	public.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.AllowedOrigins,
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Accept", "traceparent", "tracestate"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))
	public.GET("/sections/:name", publicHandler.SectionJSON)
}

func newUploader(cfg *config.Config, api *apiclient.Client) (services.ImageUploader, error) {
	if cfg.Upload.Mode != config.UploadModeS3 {
		return services.NewBackendUploader(api, cfg.Upload.MaxBytes), nil
	}

	store, err := storage.NewClient(storage.Options{
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		BucketName:      cfg.Storage.BucketName,
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		PublicBaseURL:   cfg.Storage.PublicBaseURL,
		KeyPrefix:       "portfolio",
	})
	if err != nil {
		return nil, err
	}
	return services.NewObjectStoreUploader(store, cfg.Upload.MaxBytes), nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Folio web",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
		zap.String("api_url", cfg.Backend.URL),
		zap.String("upload_mode", cfg.Upload.Mode),
	)

	if cfg.Session.Secret == "" {
		// Sessions will not survive a restart.
		cfg.Session.Secret = uuid.NewString() + uuid.NewString()
		logger.Warn("SESSION_SECRET not set, using a generated development secret")
	}

	tracerShutdown, err := tracing.InitTracer(tracing.Service{
		Name:        cfg.Observability.ServiceName,
		Namespace:   cfg.Observability.ServiceNamespace,
		Version:     cfg.Observability.ServiceVersion,
		InstanceID:  cfg.Observability.ServiceInstanceID,
		Environment: cfg.Server.AppEnv,
	}, cfg.Observability.ExporterEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiler, err := profiling.InitProfiler(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Error("Failed to start profiler", zap.Error(err))
	} else {
		defer stopProfiler()
	}

	stopMetrics := make(chan struct{})
	defer close(stopMetrics)
	metrics.RecordInfrastructureMetrics(stopMetrics)

	ctx, cancelBackground := context.WithCancel(context.Background())
	defer cancelBackground()

	// Portfolio API
	httpClient := httpclient.NewClientWithTimeout(time.Duration(cfg.Backend.TimeoutSeconds) * time.Second)
	api := apiclient.New(cfg.Backend.URL, httpClient, cfg.Backend.ReadRetries)

	sectionCache := cache.NewSectionCache(cfg.Cache.PublicTTLSeconds)
	if cfg.Cache.DisablePublic {
		logger.Warn("Public section cache is DISABLED - every page view reads from the API")
	}
	sectionRepo := repository.NewSectionRepository(api, sectionCache, !cfg.Cache.DisablePublic)

	uploader, err := newUploader(cfg, api)
	if err != nil {
		logger.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	tokenManager := jwt.NewTokenManager(cfg.Session.Secret, cfg.Session.Issuer, cfg.Session.TTLHours)
	drafts := cache.NewDraftStore[*services.Workspace](cfg.Drafts.TTLMinutes)
	flashes := cache.NewFlashStore(cfg.Drafts.FlashTTLSeconds)

	// Services
	authService := services.NewAuthService(api, tokenManager, cfg)
	dashboardService := services.NewDashboardService(api, uploader, sectionRepo, drafts, flashes, cfg)
	publicService := services.NewPublicService(sectionRepo)
	contactService := services.NewContactService(cfg, httpclient.NewStandardClient(), nil)

	// Handlers
	publicHandler := handlers.NewPublicHandler(publicService, cfg.Contact.WebhookURL != "", cfg.Contact.RecaptchaSiteKey)
	authHandler := handlers.NewAuthHandler(authService, dashboardService)
	themeHandler := handlers.NewThemeHandler(cfg.Session.CookieDomain, cfg.Session.CookieSecure)
	contactHandler := handlers.NewContactHandler(contactService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, cfg.Upload.MaxBytes)
	healthHandler := handlers.NewHealthHandler(sectionRepo.BreakerState, dashboardService.ActiveDrafts)

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	tmpl, err := web.Templates(handlers.TemplateFuncs())
	if err != nil {
		logger.Fatal("Failed to parse templates", zap.Error(err))
	}
	router.SetHTMLTemplate(tmpl)

	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.ThemeMiddleware())

	router.StaticFS("/static", http.FS(web.Static()))

	authLimiter := middleware.NewRateLimiter(ctx, rate.Every(10*time.Second), 5)
	contactLimiter := middleware.NewRateLimiter(ctx, rate.Every(time.Minute), 3)
	opsLimiter := middleware.NewRateLimiter(ctx, 20, 40)

	registerPublicRoutes(router, cfg, authLimiter, contactLimiter,
		publicHandler, authHandler, themeHandler, contactHandler)

	ops := router.Group("/api")
	ops.GET("/healthcheck", opsLimiter.Middleware(), healthHandler.Healthcheck)
	ops.GET("/metrics", opsLimiter.Middleware(), middleware.MetricsAuthMiddleware(cfg.Observability.MetricsToken), gin.WrapH(promhttp.Handler()))
	ops.POST("/contact", contactLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), contactHandler.Submit)

	session := middleware.DashboardSessionMiddleware(authService, cfg.Session.CookieDomain, cfg.Session.CookieSecure)
	handlers.RegisterDashboardRoutes(router, session, dashboardHandler, cfg.Upload.MaxBytes+1024*1024)

	router.NoRoute(handlers.NotFound)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	cancelBackground()

	logger.Info("Server exited")
}
