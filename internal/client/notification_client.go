package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"school-portal-api/internal/metrics"
)

// NotificationType names a moderation event
type NotificationType string

const (
	NotificationCommentAdded NotificationType = "COMMENT_ADDED"
)

const (
	moderationEventsPath = "/api/internal/moderation/events"
	maxPreviewRunes      = 80
	maxErrorBodyBytes    = 512
)

// NotificationEvent tells moderators that something public changed under a content record
type NotificationEvent struct {
	Type        NotificationType `json:"type"`
	ContentKind string           `json:"contentKind"`
	ContentID   uuid.UUID        `json:"contentId"`
	CommentID   uuid.UUID        `json:"commentId"`
	Author      string           `json:"author,omitempty"`
	Preview     string           `json:"preview,omitempty"`
	OccurredAt  string           `json:"occurredAt,omitempty"`
}

// NewCommentAddedEvent builds the event sent after a public comment is stored
func NewCommentAddedEvent(kind string, contentID, commentID uuid.UUID, author, body string, at time.Time) NotificationEvent {
	return NotificationEvent{
		Type:        NotificationCommentAdded,
		ContentKind: kind,
		ContentID:   contentID,
		CommentID:   commentID,
		Author:      author,
		Preview:     preview(body),
		OccurredAt:  at.UTC().Format(time.RFC3339),
	}
}

func preview(body string) string {
	runes := []rune(strings.TrimSpace(body))
	if len(runes) <= maxPreviewRunes {
		return string(runes)
	}
	return string(runes[:maxPreviewRunes]) + "..."
}

// NotificationClient delivers moderation events. Delivery failures are logged, never returned.
type NotificationClient interface {
	SendNotification(ctx context.Context, event NotificationEvent) error
}

type notificationClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewNotificationClient posts events to {baseURL}/api/internal/moderation/events
func NewNotificationClient(baseURL string, apiKey string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) NotificationClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &notificationClient{
		endpoint:   strings.TrimRight(baseURL, "/") + moderationEventsPath,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    m,
	}
}

func (c *notificationClient) SendNotification(ctx context.Context, event NotificationEvent) error {
	if event.OccurredAt == "" {
		event.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}

	req, err := c.newRequest(ctx, event)
	if err != nil {
		c.logger.Error("Failed to build moderation event request",
			zap.String("type", string(event.Type)),
			zap.Error(err))
		return nil
	}

	fields := []zap.Field{
		zap.String("type", string(event.Type)),
		zap.String("content_kind", event.ContentKind),
		zap.String("content_id", event.ContentID.String()),
	}

	status, duration, err := c.deliver(req)
	fields = append(fields, zap.Duration("duration", duration))
	switch {
	case err != nil:
		c.logger.Error("Failed to deliver moderation event", append(fields, zap.Error(err))...)
	case status >= 200 && status < 300:
		c.logger.Debug("Moderation event delivered", fields...)
	default:
		c.logger.Warn("Moderation endpoint rejected event", append(fields, zap.Int("status_code", status))...)
	}
	return nil
}

func (c *notificationClient) newRequest(ctx context.Context, event NotificationEvent) (*http.Request, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Internal-API-Key", c.apiKey)
	}
	return req, nil
}

// deliver sends the request and records the external call. A non-2xx body is folded into the error log.
func (c *notificationClient) deliver(req *http.Request) (int, time.Duration, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.RecordExternalAPICall(c.endpoint, http.MethodPost, status, duration, err)
	}
	if err != nil {
		return status, duration, err
	}
	defer resp.Body.Close()

	if status < 200 || status >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		c.logger.Debug("Moderation endpoint response", zap.ByteString("body", body))
	}
	return status, duration, nil
}

// NoOpNotificationClient drops every event; used when no endpoint is configured
type NoOpNotificationClient struct{}

func NewNoOpNotificationClient() NotificationClient {
	return &NoOpNotificationClient{}
}

func (c *NoOpNotificationClient) SendNotification(ctx context.Context, event NotificationEvent) error {
	return nil
}
