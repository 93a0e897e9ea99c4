package metrics

import (
	"database/sql"
	"strings"
	"time"
)

// UpdateDBStats copies the pool gauges and advances the wait counters by the change since the last sample
func (m *Metrics) UpdateDBStats(statsInterface interface{}) {
	m.safeExecute("UpdateDBStats", func() {
		stats, ok := statsInterface.(sql.DBStats)
		if !ok {
			return
		}
		m.DBConnectionsOpen.Set(float64(stats.OpenConnections))
		m.DBConnectionsInUse.Set(float64(stats.InUse))
		m.DBConnectionsIdle.Set(float64(stats.Idle))
		m.DBConnectionsMax.Set(float64(stats.MaxOpenConnections))

		m.poolMu.Lock()
		defer m.poolMu.Unlock()
		// a reopened pool starts again from zero
		if stats.WaitCount < m.lastWaitCount || stats.WaitDuration < m.lastWaitDuration {
			m.lastWaitCount, m.lastWaitDuration = 0, 0
		}
		m.DBConnectionWaitTotal.Add(float64(stats.WaitCount - m.lastWaitCount))
		m.DBConnectionWaitDuration.Add((stats.WaitDuration - m.lastWaitDuration).Seconds())
		m.lastWaitCount, m.lastWaitDuration = stats.WaitCount, stats.WaitDuration
	})
}

// RecordDBQuery records one statement; raw SQL without a resolved table is labelled "raw"
func (m *Metrics) RecordDBQuery(operation, table string, duration time.Duration, err error) {
	m.safeExecute("RecordDBQuery", func() {
		operation = strings.ToLower(operation)
		if table == "" {
			table = "raw"
		}
		m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
		if err != nil {
			m.DBQueryErrors.WithLabelValues(operation, table).Inc()
		}
	})
}
