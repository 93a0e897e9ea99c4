package database

import (
	"time"

	"gorm.io/gorm"
)

const queryStartKey = "metrics:query_start_time"

// MetricsRecorder is an interface for recording database metrics
type MetricsRecorder interface {
	RecordDBQuery(operation, table string, duration time.Duration, err error)
	UpdateDBStats(stats interface{})
}

// RegisterMetricsCallbacks registers GORM callbacks that time every query, create, update, delete and raw statement
func RegisterMetricsCallbacks(db *gorm.DB, recorder MetricsRecorder) error {
	cb := db.Callback()

	steps := []struct {
		operation string
		before    func(name string, fn func(*gorm.DB)) error
		after     func(name string, fn func(*gorm.DB)) error
	}{
		{"select", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"insert", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}

	for _, step := range steps {
		if err := step.before("metrics:"+step.operation+"_before", markStart); err != nil {
			return err
		}
		if err := step.after("metrics:"+step.operation+"_after", recordQuery(recorder, step.operation)); err != nil {
			return err
		}
	}
	return nil
}

func markStart(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func recordQuery(recorder MetricsRecorder, operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		startTime, ok := db.InstanceGet(queryStartKey)
		if !ok {
			return
		}
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}
		recorder.RecordDBQuery(operation, table, time.Since(startTime.(time.Time)), db.Error)
	}
}

// StartDBStatsCollector publishes connection pool stats every interval until done is closed
func StartDBStatsCollector(db *gorm.DB, recorder MetricsRecorder, interval time.Duration) chan struct{} {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					continue
				}
				recorder.UpdateDBStats(sqlDB.Stats())
			case <-done:
				return
			}
		}
	}()

	return done
}
