package metrics

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const collectTimeout = 5 * time.Second

// BusinessMetricsCollector refreshes the per-kind record gauges on an interval
type BusinessMetricsCollector struct {
	db       *gorm.DB
	metrics  *Metrics
	logger   *zap.Logger
	interval time.Duration

	stopOnce sync.Once
	done     chan struct{}
}

type kindCount struct {
	Kind  string
	Count int64
}

// NewBusinessMetricsCollector creates a collector; interval defaults to one minute
func NewBusinessMetricsCollector(db *gorm.DB, metrics *Metrics, logger *zap.Logger, interval time.Duration) *BusinessMetricsCollector {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BusinessMetricsCollector{
		db:       db,
		metrics:  metrics,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start collects once immediately and then on every tick until Stop
func (c *BusinessMetricsCollector) Start() {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.done:
				return
			}
		}
	}()
}

// Stop ends collection; calling it twice is safe
func (c *BusinessMetricsCollector) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

func (c *BusinessMetricsCollector) collect() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic in business metrics collection", zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	contents, err := c.countByKind(ctx, "contents", "kind")
	if err != nil {
		c.logger.Error("Failed to count contents", zap.Error(err))
	} else {
		for _, kc := range contents {
			c.metrics.SetContentTotal(kc.Kind, kc.Count)
		}
	}

	attachments, err := c.countByKind(ctx, "attachments", "content_kind")
	if err != nil {
		c.logger.Error("Failed to count attachments", zap.Error(err))
		return
	}
	for _, kc := range attachments {
		c.metrics.SetAttachmentsStored(kc.Kind, kc.Count)
	}
}

func (c *BusinessMetricsCollector) countByKind(ctx context.Context, table, column string) ([]kindCount, error) {
	var counts []kindCount
	err := c.db.WithContext(ctx).Table(table).
		Select(column + " AS kind, COUNT(*) AS count").
		Group(column).
		Scan(&counts).Error
	return counts, err
}
