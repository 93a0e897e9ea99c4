package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"school-portal-api/internal/domain"
)

type modelInfo struct {
	model     interface{}
	tableName string
}

// portalModels lists every persisted model with its table.
// Attachments and comments reference contents by (kind, content_id) without foreign keys.
var portalModels = []modelInfo{
	{&domain.Content{}, "contents"},
	{&domain.Attachment{}, "attachments"},
	{&domain.Comment{}, "comments"},
}

// MigrationReport lists which tables were created and which only had their schema updated
type MigrationReport struct {
	Created []string
	Updated []string
}

// SafeAutoMigrate migrates each table on its own so a failure names the table.
// Existing tables only gain missing columns and indexes.
func SafeAutoMigrate(db *gorm.DB, logger *zap.Logger) (*MigrationReport, error) {
	migrator := db.Migrator()
	report := &MigrationReport{}

	for _, m := range portalModels {
		existed := migrator.HasTable(m.model)
		if err := db.AutoMigrate(m.model); err != nil {
			logger.Error("Failed to migrate table",
				zap.String("table", m.tableName),
				zap.Bool("table_existed", existed),
				zap.Error(err),
			)
			return report, fmt.Errorf("failed to migrate table %s: %w", m.tableName, err)
		}
		if existed {
			report.Updated = append(report.Updated, m.tableName)
		} else {
			report.Created = append(report.Created, m.tableName)
		}
	}

	logger.Info("Schema migrated",
		zap.Strings("created", report.Created),
		zap.Strings("updated", report.Updated),
	)
	return report, nil
}

// SafeAutoMigrateWithRetry retries SafeAutoMigrate with a linear backoff until it succeeds,
// maxRetries attempts are used, or ctx is done.
func SafeAutoMigrateWithRetry(ctx context.Context, db *gorm.DB, logger *zap.Logger, maxRetries int, backoff time.Duration) error {
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if _, err = SafeAutoMigrate(db.WithContext(ctx), logger); err == nil {
			return nil
		}
		if attempt == maxRetries {
			break
		}

		wait := time.Duration(attempt) * backoff
		logger.Warn("Migration attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", maxRetries),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("migration cancelled after %d attempts: %w", attempt, ctx.Err())
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("migration failed after %d attempts: %w", maxRetries, err)
}
