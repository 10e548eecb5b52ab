package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/course-enrollment-api/api/swagger"
	"github.com/noah-isme/course-enrollment-api/internal/handler"
	"github.com/noah-isme/course-enrollment-api/internal/repository"
	"github.com/noah-isme/course-enrollment-api/internal/router"
	"github.com/noah-isme/course-enrollment-api/internal/service"
	"github.com/noah-isme/course-enrollment-api/pkg/cache"
	"github.com/noah-isme/course-enrollment-api/pkg/config"
	"github.com/noah-isme/course-enrollment-api/pkg/database"
	"github.com/noah-isme/course-enrollment-api/pkg/export"
	"github.com/noah-isme/course-enrollment-api/pkg/identity"
	"github.com/noah-isme/course-enrollment-api/pkg/jobs"
	"github.com/noah-isme/course-enrollment-api/pkg/logger"
	"github.com/noah-isme/course-enrollment-api/pkg/notify"
	"github.com/noah-isme/course-enrollment-api/pkg/payment"
)

// @title Course Enrollment API
// @version 1.0.0
// @description Course enrollment intake, coupon pricing and payment links
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	metrics := service.NewMetricsService()
	readiness := map[string]handler.Pinger{"postgres": db}

	var cacheRepo service.CacheRepository
	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("catalog cache disabled", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
		cacheRepo = repository.NewCacheRepository(redisClient, repository.CachePrefix)
		readiness["redis"] = handler.PingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Redis.CatalogCacheTTL, logr)

	policy, err := service.PricingPolicyFromConfig(cfg.Pricing)
	if err != nil {
		logr.Fatal("invalid pricing configuration", zap.Error(err))
	}
	pricing := service.NewPricingEngine(policy)

	publishers, closePublishers := buildPublishers(cfg, logr)
	defer closePublishers()
	notifications := service.NewNotificationService(metrics, logr, publishers...)
	notifications.StartAsync(ctx, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
		Logger:     logr,
	})
	defer notifications.Stop()

	validate := validator.New()
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	catalog := service.NewCatalogService(
		repository.NewCourseRepository(db),
		repository.NewCouponRepository(db),
		pricing, cacheSvc, metrics, validate, logr,
	)
	payments := service.NewPaymentRequestBuilder(
		policy,
		payment.NewClient(cfg.Payment.BaseURL, cfg.Payment.APIKey, cfg.Payment.Timeout),
		metrics, logr,
	)
	enrollments := service.NewEnrollmentService(service.EnrollmentServiceConfig{
		Repository:         enrollmentRepo,
		Catalog:            catalog,
		Pricing:            pricing,
		Payments:           payments,
		Notifications:      notifications,
		Metrics:            metrics,
		SubscriptionFamily: cfg.Subscription.CourseFamily,
		Validator:          validate,
		Logger:             logr,
	})
	club := service.NewClubService(repository.NewClubInterestRepository(db), notifications, validate, logr)
	exports := service.NewExportService(enrollmentRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)
	guard := service.NewAdminGuard(buildVerifier(cfg, logr), logr)

	engine := router.New(router.Dependencies{
		Config:        cfg,
		Logger:        logr,
		Metrics:       metrics,
		Guard:         guard,
		Enrollments:   handler.NewEnrollmentHandler(enrollments),
		Catalog:       handler.NewCatalogHandler(catalog),
		Club:          handler.NewClubHandler(club),
		Admin:         handler.NewAdminHandler(enrollments, exports),
		Observability: handler.NewMetricsHandler(metrics, readiness, logr),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func buildVerifier(cfg *config.Config, logr *zap.Logger) identity.Verifier {
	switch cfg.Identity.Provider {
	case config.IdentityProviderGoogle:
		if len(cfg.Identity.Audiences) == 0 {
			logr.Warn("google identity provider configured without audiences")
		}
		return identity.NewGoogleVerifier(cfg.Identity.Audiences)
	default:
		if cfg.Identity.JWTSecret == "" {
			logr.Warn("admin routes disabled: IDENTITY_JWT_SECRET is empty")
			return nil
		}
		return identity.NewJWTVerifier(cfg.Identity.JWTSecret, cfg.Identity.JWTIssuer, cfg.Identity.Audiences)
	}
}

func buildPublishers(cfg *config.Config, logr *zap.Logger) ([]notify.Publisher, func()) {
	if !cfg.Notifications.Enabled || len(cfg.Notifications.Brokers) == 0 {
		return nil, func() {}
	}
	publisher := notify.NewKafkaPublisher(notify.NewKafkaWriter(cfg.Notifications.Brokers, cfg.Notifications.Topic))
	logr.Info("kafka notifications enabled", zap.Strings("brokers", cfg.Notifications.Brokers), zap.String("topic", cfg.Notifications.Topic))
	return []notify.Publisher{publisher}, func() {
		if err := publisher.Close(); err != nil {
			logr.Warn("failed to close kafka writer", zap.Error(err))
		}
	}
}
