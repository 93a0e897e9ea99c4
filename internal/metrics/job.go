package metrics

import "time"

// Job run results recorded by RecordJobRun
const (
	JobSucceeded = "success"
	JobFailed    = "failure"
)

// RecordJobRun records one maintenance job pass. Items count only for successful runs.
func (m *Metrics) RecordJobRun(job string, items int, duration time.Duration, err error) {
	m.safeExecute("RecordJobRun", func() {
		m.JobDuration.WithLabelValues(job).Observe(duration.Seconds())
		if err != nil {
			m.JobRunsTotal.WithLabelValues(job, JobFailed).Inc()
			return
		}
		m.JobRunsTotal.WithLabelValues(job, JobSucceeded).Inc()
		m.JobItemsTotal.WithLabelValues(job).Add(float64(items))
		m.JobLastSuccessTime.WithLabelValues(job).SetToCurrentTime()
	})
}
