package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"worksphere/internal/bootstrap"
	"worksphere/internal/config"
	"worksphere/internal/dashboard"
	"worksphere/internal/events"
	"worksphere/internal/gateway"
	"worksphere/internal/invalidation"
	"worksphere/internal/lifecycle"
	"worksphere/internal/messaging/kafka"
	"worksphere/internal/middleware"
	"worksphere/internal/payment"
	"worksphere/internal/paymentrequest"
	"worksphere/internal/rbac"
	"worksphere/internal/rbac/infra"
	"worksphere/internal/shared/counter"
	"worksphere/internal/storage"
	"worksphere/internal/user"
	"worksphere/internal/worksheet"
)

// newInvalidationBus maps every cached view to the Redis keys behind it.
// The API and the consumer build the same bus so an event drops the same
// keys wherever it lands.
func newInvalidationBus(rdb redis.Cmdable, logger *zap.Logger) *invalidation.Bus {
	bus := invalidation.NewBus(logger)
	bus.Subscribe(events.EntityUsers, "users-cache",
		invalidation.DeleteKeys(rdb, user.AllUsersCacheKey))
	bus.Subscribe(events.EntityPaymentRequests, "pending-requests-cache",
		invalidation.DeleteKeys(rdb, paymentrequest.PendingCacheKey))
	bus.Subscribe(events.EntityDashboardStats, "dashboard-cache",
		invalidation.DeleteKeys(rdb, dashboard.GlobalCacheKey))
	return bus
}

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	audit := bootstrap.NewStdoutAuditLogger()

	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	worksheetRepo := worksheet.NewRepository(gormDB)
	paymentRepo := payment.NewRepository(gormDB)
	paymentRequestRepo := paymentrequest.NewRepository(gormDB)
	dashboardRepo := dashboard.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbac.NewStaticRepository(rbac.DefaultRolePermissions()), enforcer, logger)
	if err := rbacService.LoadPolicy(); err != nil {
		return err
	}

	// --- Infrastructure ---
	notifier := invalidation.NewNotifier(outboxRepo, newInvalidationBus(rdb, logger))

	photos, err := storage.NewMinioStore(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioBucket,
		cfg.MinioPublicURL,
		cfg.MinioUseSSL,
	)
	if err != nil {
		return err
	}
	bucketCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := photos.EnsureBucket(bucketCtx); err != nil {
		// Photo uploads fail until the bucket exists; everything else works.
		logger.Warn("ensure photo bucket failed", zap.String("bucket", cfg.MinioBucket), zap.Error(err))
	}

	paymentGateway := gateway.NewStripeGateway(gateway.StripeConfig{
		SecretKey: cfg.StripeSecretKey,
		Currency:  cfg.StripeCurrency,
	}, logger)

	// --- Services ---
	userService := user.NewService(db, userRepo, rdb, notifier, photos, audit, logger)
	worksheetService := worksheet.NewService(db, worksheetRepo, notifier, logger)
	paymentService := payment.NewService(paymentRepo, counterRepo, logger)
	paymentRequestService := paymentrequest.NewService(
		db,
		paymentRequestRepo,
		userRepo,
		paymentService,
		outboxRepo,
		notifier,
		rdb,
		audit,
		logger,
	)
	lifecycleController := lifecycle.NewController(
		paymentRequestService,
		paymentGateway,
		lifecycle.NewRedisStore(rdb),
		cfg.GatewayTimeout,
		logger,
	)
	dashboardService := dashboard.NewService(dashboardRepo, userRepo, rdb, logger)

	// --- Auth ---
	verifier, err := middleware.NewTokenVerifier(cfg.JWTSecret, cfg.FirebaseProjectID, cfg.FirebaseJWKSURL)
	if err != nil {
		return err
	}
	auth := middleware.AuthMiddleware(verifier, userService)
	idempotency := middleware.Idempotency(rdb)

	// --- Handlers ---
	userHandler := user.NewHandler(userService, logger)
	worksheetHandler := worksheet.NewHandler(worksheetService, logger)
	paymentHandler := payment.NewHandler(paymentService, logger)
	paymentRequestHandler := paymentrequest.NewHandler(paymentRequestService, logger)
	lifecycleHandler := lifecycle.NewHandler(lifecycleController, logger)
	dashboardHandler := dashboard.NewHandler(dashboardService, logger)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		user.RegisterRoutes(api, userHandler, rbacService, auth, logger)
		worksheet.RegisterRoutes(api, worksheetHandler, rbacService, auth, logger)
		payment.RegisterRoutes(api, paymentHandler, rbacService, auth, logger)
		paymentrequest.RegisterRoutes(api, paymentRequestHandler, rbacService, auth, idempotency, logger)
		lifecycle.RegisterRoutes(api, lifecycleHandler, rbacService, auth, logger)
		dashboard.RegisterRoutes(api, dashboardHandler, rbacService, auth, logger)
		rbac.RegisterRoutes(api, rbacHandler, auth, middleware.RequireRegistered())
	}

	return nil
}
