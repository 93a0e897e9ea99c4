package metrics

import (
	"context"
	"crypto/x509"
	"errors"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"syscall"
	"time"
)

var uuidPattern = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// RecordExternalAPICall records one outbound call. Transport errors and 4xx/5xx replies both count as errors.
func (m *Metrics) RecordExternalAPICall(endpoint, method string, statusCode int, duration time.Duration, err error) {
	m.safeExecute("RecordExternalAPICall", func() {
		endpoint = normalizeEndpoint(endpoint)
		status := strconv.Itoa(statusCode)

		m.ExternalAPIRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
		m.ExternalAPIRequestDuration.WithLabelValues(endpoint, status).Observe(duration.Seconds())

		if err != nil || statusCode >= 400 {
			m.ExternalAPIErrors.WithLabelValues(endpoint, classifyExternalError(statusCode, err)).Inc()
		}
	})
}

// normalizeEndpoint replaces ids with {id} so labels stay bounded
// Example: http://noti/api/internal/moderation/events/123e4567-e89b-12d3-a456-426614174000 -> .../events/{id}
func normalizeEndpoint(endpoint string) string {
	return uuidPattern.ReplaceAllString(endpoint, "{id}")
}

// classifyExternalError names the failure; an HTTP status wins over the transport error
func classifyExternalError(statusCode int, err error) string {
	switch {
	case statusCode == 401 || statusCode == 403:
		return "auth"
	case statusCode == 404:
		return "not_found"
	case statusCode == 408 || statusCode == 504:
		return "timeout"
	case statusCode == 429:
		return "rate_limited"
	case statusCode >= 400 && statusCode < 500:
		return "client_error"
	case statusCode == 503:
		return "unavailable"
	case statusCode >= 500:
		return "server_error"
	}

	if err == nil {
		return "unknown"
	}

	var dnsErr *net.DNSError
	var netErr net.Error
	var certErr x509.UnknownAuthorityError
	var hostErr x509.HostnameError
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &dnsErr):
		return "dns_error"
	case errors.Is(err, syscall.ECONNREFUSED):
		return "connection_refused"
	case errors.Is(err, syscall.ECONNRESET):
		return "connection_reset"
	case errors.As(err, &certErr), errors.As(err, &hostErr):
		return "tls_error"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return "network_error"
	}
	return "unknown"
}
