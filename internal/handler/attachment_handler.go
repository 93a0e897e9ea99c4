// Package handler provides HTTP request handlers for the API.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"school-portal-api/internal/service"
)

// AttachmentHandler handles attachment-related requests
type AttachmentHandler struct {
	contentService service.ContentService
	logger         *zap.Logger
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(contentService service.ContentService, logger *zap.Logger) *AttachmentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttachmentHandler{
		contentService: contentService,
		logger:         logger,
	}
}

// DeleteAttachment godoc
// @Summary      첨부파일 삭제
// @Description  메타데이터와 저장된 파일을 삭제합니다. 이미 없는 첨부파일도 성공으로 처리합니다.
// @Tags         attachments
// @Security     BearerAuth
// @Param        id path string true "Attachment ID (UUID)"
// @Success      204 "삭제 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 ID"
// @Failure      401 {object} response.ErrorResponse "인증 실패"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /attachments/{id} [delete]
func (h *AttachmentHandler) DeleteAttachment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.contentService.RemoveAttachment(c.Request.Context(), id, credentialFrom(c)); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
