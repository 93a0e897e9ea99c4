package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"school-portal-api/internal/domain"
	"school-portal-api/internal/dto"
	"school-portal-api/internal/response"
	"school-portal-api/internal/service"
)

type CommentHandler struct {
	commentService service.CommentService
	logger         *zap.Logger
}

func NewCommentHandler(commentService service.CommentService, logger *zap.Logger) *CommentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentHandler{
		commentService: commentService,
		logger:         logger,
	}
}

func parseKindParam(c *gin.Context) (domain.Kind, bool) {
	kind, ok := domain.ParseKind(c.Param("type"))
	if !ok {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Unknown content type")
		return "", false
	}
	return kind, true
}

// GetComments godoc
// @Summary      댓글 목록 조회
// @Description  게시글의 댓글을 작성 순으로 조회합니다
// @Tags         comments
// @Produce      json
// @Param        type path string true "콘텐츠 종류" Enums(notice, gallery, roadmap, admission)
// @Param        postId path string true "Content ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.CommentResponse} "조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 종류 또는 ID"
// @Router       /comments/{type}/{postId} [get]
func (h *CommentHandler) GetComments(c *gin.Context) {
	kind, ok := parseKindParam(c)
	if !ok {
		return
	}
	postID, ok := parseIDParam(c, "postId")
	if !ok {
		return
	}

	comments, err := h.commentService.ListFor(c.Request.Context(), kind, postID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, comments)
}

// CreateComment godoc
// @Summary      댓글 작성
// @Description  누구나 작성할 수 있으며 관리자에게 알림이 전송됩니다
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        type path string true "콘텐츠 종류" Enums(notice, gallery, roadmap, admission)
// @Param        postId path string true "Content ID (UUID)"
// @Param        request body dto.CreateCommentRequest true "댓글 작성 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.CommentResponse} "작성 성공"
// @Failure      400 {object} response.ErrorResponse "필드 검증 실패"
// @Failure      404 {object} response.ErrorResponse "게시글을 찾을 수 없음"
// @Router       /comments/{type}/{postId} [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	kind, ok := parseKindParam(c)
	if !ok {
		return
	}
	postID, ok := parseIDParam(c, "postId")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), kind, postID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, comment)
}

// DeleteComment godoc
// @Summary      댓글 삭제
// @Tags         comments
// @Security     BearerAuth
// @Param        id path string true "Comment ID (UUID)"
// @Success      204 "삭제 성공"
// @Failure      401 {object} response.ErrorResponse "인증 실패"
// @Failure      404 {object} response.ErrorResponse "댓글을 찾을 수 없음"
// @Router       /comments/{id} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), id, credentialFrom(c)); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
