package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const pingTimeout = 5 * time.Second

// Config holds database configuration
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// SlowQueryThreshold logs statements slower than this at warn level; zero disables
	SlowQueryThreshold time.Duration
}

// New opens a PostgreSQL connection, applies the pool settings and pings it
func New(cfg Config, log *zap.Logger) (*gorm.DB, error) {
	return open(postgres.Open(cfg.DSN), cfg, log)
}

func open(dialector gorm.Dialector, cfg Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(log, cfg.SlowQueryThreshold),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// newGormLogger sends gorm's slow-query and error output through zap; record-not-found is expected traffic
func newGormLogger(log *zap.Logger, slowThreshold time.Duration) gormlogger.Interface {
	if log == nil || slowThreshold <= 0 {
		return gormlogger.Default.LogMode(gormlogger.Silent)
	}
	return gormlogger.New(
		zap.NewStdLog(log.Named("gorm")),
		gormlogger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// NewAsync connects in the background, retrying until it succeeds or ctx is done.
// onConnect runs once with the live connection.
func NewAsync(ctx context.Context, cfg Config, retryInterval time.Duration, log *zap.Logger, onConnect func(*gorm.DB)) {
	go func() {
		for attempt := 1; ; attempt++ {
			db, err := New(cfg, log)
			if err == nil {
				log.Info("Database connected", zap.Int("attempt", attempt))
				if onConnect != nil {
					onConnect(db)
				}
				return
			}
			log.Warn("Database unavailable, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("retry_interval", retryInterval),
				zap.Error(err),
			)
			select {
			case <-ctx.Done():
				return
			case <-time.After(retryInterval):
			}
		}
	}()
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
