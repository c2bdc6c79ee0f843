package app

import (
	"context"
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"worksphere/internal/config"
	"worksphere/internal/middleware"
	"worksphere/internal/shared/connection"
)

// App holds the connections opened by BuildApp so the caller can release
// them on shutdown.
type App struct {
	DB    *sql.DB
	Redis *redis.Client
}

func (a *App) Close(ctx context.Context) {
	logger := zap.L().Named("app")
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Warn("close redis failed", zap.Error(err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			logger.Warn("close database failed", zap.Error(err))
		}
	}
}

func BuildApp(router *gin.Engine, cfg *config.Config) (*App, error) {
	logger := zap.L().Named("app")

	gormDB, sqlDB, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}

	if err := Migrate(context.Background(), gormDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	router.Use(
		middleware.RequestID(),
		middleware.CORS(cfg.CORSOrigins),
	)

	if err := registerModules(router, cfg, sqlDB, gormDB, rdb, logger); err != nil {
		_ = rdb.Close()
		_ = sqlDB.Close()
		return nil, err
	}

	return &App{DB: sqlDB, Redis: rdb}, nil
}

func openDatabase(cfg *config.Config) (*gorm.DB, *sql.DB, error) {
	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
		5,
	)
	if err != nil {
		return nil, nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, err
	}
	return gormDB, sqlDB, nil
}
