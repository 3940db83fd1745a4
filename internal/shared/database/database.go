package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fieldbook/internal/shared/config"
	"fieldbook/pkg/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const connectTimeout = 5 * time.Second

// DB bundles the Postgres handle and the optional Redis client.
type DB struct {
	PostgreSQL *gorm.DB
	Redis      *redis.Client
	log        *logger.Logger
}

// InitDB opens Postgres, migrates the schema and tries Redis.
// A missing Redis is logged and left nil.
func InitDB(cfg *config.Config, log *logger.Logger) (*DB, error) {
	log = log.WithComponent("database")

	pg, err := openPostgres(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	steps := []struct {
		name string
		run  func(*gorm.DB) error
	}{
		{"migrate schema", Migrate},
		{"apply constraints", MigrateConstraints},
	}
	for _, step := range steps {
		if err := step.run(pg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
	}

	db := &DB{PostgreSQL: pg, log: log}
	if rdb, err := openRedis(cfg.Redis, log); err != nil {
		log.WithError(err).Warn("Redis unavailable, caching and rate limiting disabled")
	} else {
		db.Redis = rdb
	}
	return db, nil
}

func openPostgres(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	level := gormlogger.Silent
	if cfg.IsDevelopment() {
		level = gormlogger.Info
	}

	pg, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(level),
		NowFunc:                                  func() time.Time { return time.Now().UTC() },
		PrepareStmt:                              true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	sqlDB, err := pg.DB()
	if err != nil {
		return nil, fmt.Errorf("sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	log.Info("PostgreSQL connected",
		"host", cfg.Database.Host,
		"db", cfg.Database.Name,
		"max_open_conns", cfg.Database.MaxOpenConns,
	)
	return pg, nil
}

func openRedis(cfg config.RedisConfig, log *logger.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  connectTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Addr, err)
	}

	log.Info("Redis connected", "addr", cfg.Addr)
	return rdb, nil
}

// Close releases both connections and joins their errors.
func (db *DB) Close() error {
	var errs []error
	if db.PostgreSQL != nil {
		sqlDB, err := db.PostgreSQL.DB()
		if err == nil {
			err = sqlDB.Close()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("close postgres: %w", err))
		}
	}
	if db.Redis != nil {
		if err := db.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	db.log.Info("database connections closed")
	return nil
}

// HealthCheck pings Postgres and, when connected, Redis
func (db *DB) HealthCheck(ctx context.Context) error {
	if db.PostgreSQL != nil {
		sqlDB, err := db.PostgreSQL.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			return fmt.Errorf("postgres unhealthy: %w", err)
		}
	}
	if db.Redis != nil {
		if err := db.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis unhealthy: %w", err)
		}
	}
	return nil
}

func (db *DB) GetRedisClient() *redis.Client {
	return db.Redis
}

func (db *DB) GetPostgreSQL() *gorm.DB {
	return db.PostgreSQL
}
