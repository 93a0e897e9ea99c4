package metrics

// Upload results recorded by IncrementUpload
const (
	UploadAccepted             = "accepted"
	UploadPayloadTooLarge      = "payload_too_large"
	UploadUnsupportedMediaType = "unsupported_media_type"
	UploadQuotaExceeded        = "quota_exceeded"
	UploadFailed               = "failed"
)

// IncrementContentCreated increments the creation counter of a kind
func (m *Metrics) IncrementContentCreated(kind string) {
	m.safeExecute("IncrementContentCreated", func() {
		m.ContentCreatedTotal.WithLabelValues(kind).Inc()
	})
}

// IncrementContentViewed increments the detail view counter of a kind
func (m *Metrics) IncrementContentViewed(kind string) {
	m.safeExecute("IncrementContentViewed", func() {
		m.ContentViewsTotal.WithLabelValues(kind).Inc()
	})
}

// IncrementUpload counts an upload attempt by result
func (m *Metrics) IncrementUpload(result string) {
	m.safeExecute("IncrementUpload", func() {
		m.UploadsTotal.WithLabelValues(result).Inc()
	})
}

// IncrementCommentCreated increments comment creation counter
func (m *Metrics) IncrementCommentCreated() {
	m.safeExecute("IncrementCommentCreated", func() {
		m.CommentsCreatedTotal.Inc()
	})
}

// SetContentTotal sets the record count gauge of a kind
func (m *Metrics) SetContentTotal(kind string, count int64) {
	m.safeExecute("SetContentTotal", func() {
		m.ContentTotal.WithLabelValues(kind).Set(float64(count))
	})
}

// SetAttachmentsStored sets the attachment count gauge of a kind
func (m *Metrics) SetAttachmentsStored(kind string, count int64) {
	m.safeExecute("SetAttachmentsStored", func() {
		m.AttachmentsStored.WithLabelValues(kind).Set(float64(count))
	})
}
