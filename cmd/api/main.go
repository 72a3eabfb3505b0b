package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"workorder-api/docs"
	"workorder-api/internal/auth"
	"workorder-api/internal/config"
	"workorder-api/internal/geocoder"
	"workorder-api/internal/handler"
	"workorder-api/internal/middleware"
	"workorder-api/internal/repository"
	"workorder-api/internal/service"
	"workorder-api/internal/telemetry"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// @title                       Work Order API
// @version                     0.1.0
// @description                 Field-service work orders with geocoded locations.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	setupLogging(config.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, config.OtelEndpoint, config.OtelServiceName, config.AppVersion)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot set up tracing")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("tracing shutdown failed")
		}
	}()

	// Database connection
	conn, err := pgxpool.New(ctx, config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	repo := repository.NewRepository(conn)
	if config.AutoMigrate {
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("cannot apply schema")
		}
		log.Info().Msg("schema ensured")
	}

	// Initialize layers
	geo := geocoder.NewClient(geocoder.Options{
		BaseURL:   config.GeocoderURL,
		UserAgent: config.GeocoderUserAgent,
		Timeout:   config.GeocoderTimeout,
		RateLimit: config.GeocoderRateLimit,
	})
	authClient := auth.NewClient(config.SupabaseURL, config.SupabaseKey, config.AuthTimeout)

	authService := service.NewAuthService(authClient)
	locationService := service.NewLocationService(repo, geo)
	workOrderService := service.NewWorkOrderService(repo)

	r := newRouter(config, repo, authService, handler.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Locations:  handler.NewLocationHandler(locationService),
		WorkOrders: handler.NewWorkOrderHandler(workOrderService),
	})

	srv := &http.Server{
		Addr:              config.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("address", config.ServerAddress).Str("prefix", config.APIPrefix).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

func setupLogging(debug bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		gin.SetMode(gin.DebugMode)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	gin.SetMode(gin.ReleaseMode)
}

type pinger interface {
	Ping(ctx context.Context) error
}

func newRouter(config config.Config, db pinger, authenticator middleware.Authenticator, h handler.Handlers) *gin.Engine {
	r := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = config.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	if len(corsConfig.AllowOrigins) == 1 && corsConfig.AllowOrigins[0] == "*" {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}

	// Recovery sits inside the logger and metrics so panics are still recorded.
	r.Use(
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.Recovery(),
		cors.New(corsConfig),
		otelgin.Middleware(config.OtelServiceName),
	)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": config.AppName, "version": config.AppVersion})
	})

	r.GET("/health", func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			log.Warn().Err(err).Msg("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	docs.SwaggerInfo.Title = config.AppName
	docs.SwaggerInfo.Version = config.AppVersion
	docs.SwaggerInfo.BasePath = config.APIPrefix
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handler.RegisterRoutes(r.Group(config.APIPrefix), h, authenticator)

	return r
}
