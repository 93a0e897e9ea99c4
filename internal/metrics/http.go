package metrics

import (
	"strconv"
	"strings"
	"time"
)

// RecordHTTPRequest records one request under its route pattern
func (m *Metrics) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	m.safeExecute("RecordHTTPRequest", func() {
		m.HTTPRequestsTotal.WithLabelValues(method, route, statusClass(statusCode)).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	})
}

// statusClass maps 204 to "2xx"; codes outside 100..599 are "unknown"
func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "unknown"
	}
	return strconv.Itoa(code/100) + "xx"
}

// ShouldSkipEndpoint reports whether path is a probe, the scrape endpoint or swagger, under any base path
func ShouldSkipEndpoint(path string) bool {
	path = strings.TrimSuffix(path, "/")
	for _, suffix := range []string{"/metrics", "/health", "/ready"} {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return strings.Contains(path, "/swagger/")
}
