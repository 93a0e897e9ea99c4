package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"school-portal-api/internal/config"
	"school-portal-api/internal/domain"
	"school-portal-api/internal/dto"
	"school-portal-api/internal/response"
	"school-portal-api/internal/service"
)

// ContentHandler serves the four content collections. Each method returns the handler
// for one kind, so the router registers the same code under every collection path.
type ContentHandler struct {
	contentService service.ContentService
	maxBodyBytes   int64
	logger         *zap.Logger
}

func NewContentHandler(contentService service.ContentService, cfg config.ContentConfig, logger *zap.Logger) *ContentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentHandler{
		contentService: contentService,
		maxBodyBytes:   maxRequestBytes(cfg),
		logger:         logger,
	}
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// List godoc
// @Summary      콘텐츠 목록 조회
// @Description  카테고리 필터(전체/all은 필터 없음), 검색어(제목·본문), 페이지네이션으로 목록을 조회합니다. 최신순 정렬.
// @Tags         contents
// @Produce      json
// @Param        kind path string true "콘텐츠 종류" Enums(notices, gallery, roadmaps, admissions)
// @Param        category query string false "카테고리"
// @Param        search query string false "검색어 (notices, gallery, admissions만 적용)"
// @Param        page query int false "페이지 (기본 1)"
// @Param        pageSize query int false "페이지 크기 (기본 10, 최대 100)"
// @Success      200 {object} response.SuccessResponse{data=dto.ContentListResponse} "목록 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 쿼리"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /{kind} [get]
func (h *ContentHandler) List(kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var query dto.ListContentQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid query parameters")
			return
		}

		result, err := h.contentService.List(c.Request.Context(), kind, &query)
		if err != nil {
			handleServiceError(c, h.logger, err)
			return
		}
		response.SendSuccess(c, http.StatusOK, result)
	}
}

// Get godoc
// @Summary      콘텐츠 상세 조회
// @Description  상세 조회 시 조회수가 1 증가합니다
// @Tags         contents
// @Produce      json
// @Param        kind path string true "콘텐츠 종류" Enums(notices, gallery, roadmaps, admissions)
// @Param        id path string true "Content ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.ContentResponse} "조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 ID"
// @Failure      404 {object} response.ErrorResponse "콘텐츠를 찾을 수 없음"
// @Router       /{kind}/{id} [get]
func (h *ContentHandler) Get(kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		h.get(c, kind, id)
	}
}

func (h *ContentHandler) get(c *gin.Context, kind domain.Kind, id uuid.UUID) {
	result, err := h.contentService.Get(c.Request.Context(), kind, id, true)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// ListAttachments godoc
// @Summary      콘텐츠 첨부파일 목록
// @Tags         attachments
// @Produce      json
// @Param        kind path string true "콘텐츠 종류" Enums(notices, gallery, roadmaps, admissions)
// @Param        id path string true "Content ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.AttachmentResponse} "조회 성공"
// @Failure      404 {object} response.ErrorResponse "콘텐츠를 찾을 수 없음"
// @Router       /{kind}/{id}/attachments [get]
func (h *ContentHandler) ListAttachments(kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		attachments, err := h.contentService.ListAttachments(c.Request.Context(), kind, id)
		if err != nil {
			handleServiceError(c, h.logger, err)
			return
		}
		response.SendSuccess(c, http.StatusOK, attachments)
	}
}

// Create godoc
// @Summary      콘텐츠 생성
// @Description  JSON 또는 multipart/form-data(files 필드, 최대 5개)로 생성합니다. 일부 파일이 거부되면 207을 반환합니다.
// @Tags         contents
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        kind path string true "콘텐츠 종류" Enums(notices, gallery, roadmaps, admissions)
// @Param        request body dto.ContentDraftRequest true "콘텐츠 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.ContentMutationResponse} "생성 성공"
// @Success      207 {object} response.SuccessResponse{data=dto.ContentMutationResponse} "생성 성공, 일부 파일 거부"
// @Failure      400 {object} response.ErrorResponse "필드 검증 실패"
// @Failure      401 {object} response.ErrorResponse "인증 실패"
// @Failure      413 {object} response.ErrorResponse "요청 크기 초과"
// @Router       /{kind} [post]
func (h *ContentHandler) Create(kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ContentDraftRequest
		if appErr := bindBody(c, h.maxBodyBytes, &req); appErr != nil {
			handleServiceError(c, h.logger, appErr)
			return
		}

		result, err := h.contentService.Create(c.Request.Context(), kind, &req, formUploads(c), credentialFrom(c))
		if err != nil {
			handleServiceError(c, h.logger, err)
			return
		}
		sendMutation(c, http.StatusCreated, result)
	}
}

// Update godoc
// @Summary      콘텐츠 수정
// @Description  보낸 필드만 수정합니다. 본문이 바뀌면 요약과 대표 이미지가 다시 계산됩니다.
// @Tags         contents
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        kind path string true "콘텐츠 종류" Enums(notices, gallery, roadmaps, admissions)
// @Param        id path string true "Content ID (UUID)"
// @Param        request body dto.ContentPatchRequest true "콘텐츠 수정 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.ContentMutationResponse} "수정 성공"
// @Success      207 {object} response.SuccessResponse{data=dto.ContentMutationResponse} "수정 성공, 일부 파일 거부"
// @Failure      400 {object} response.ErrorResponse "필드 검증 실패"
// @Failure      401 {object} response.ErrorResponse "인증 실패"
// @Failure      404 {object} response.ErrorResponse "콘텐츠를 찾을 수 없음"
// @Router       /{kind}/{id} [put]
func (h *ContentHandler) Update(kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		h.update(c, kind, id)
	}
}

func (h *ContentHandler) update(c *gin.Context, kind domain.Kind, id uuid.UUID) {
	var req dto.ContentPatchRequest
	if appErr := bindBody(c, h.maxBodyBytes, &req); appErr != nil {
		handleServiceError(c, h.logger, appErr)
		return
	}

	result, err := h.contentService.Update(c.Request.Context(), kind, id, &req, formUploads(c), credentialFrom(c))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	sendMutation(c, http.StatusOK, result)
}

// Delete godoc
// @Summary      콘텐츠 삭제
// @Description  첨부파일과 댓글을 함께 삭제합니다
// @Tags         contents
// @Security     BearerAuth
// @Param        kind path string true "콘텐츠 종류" Enums(notices, gallery, roadmaps, admissions)
// @Param        id path string true "Content ID (UUID)"
// @Success      204 "삭제 성공"
// @Failure      401 {object} response.ErrorResponse "인증 실패"
// @Failure      404 {object} response.ErrorResponse "콘텐츠를 찾을 수 없음"
// @Router       /{kind}/{id} [delete]
func (h *ContentHandler) Delete(kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		if err := h.contentService.Delete(c.Request.Context(), kind, id, credentialFrom(c)); err != nil {
			handleServiceError(c, h.logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// GetRoadmap godoc
// @Summary      로드맵 조회 (타입 또는 ID)
// @Description  middle_school / high_school 이면 해당 타입의 로드맵을 반환하고 조회수는 변하지 않습니다. UUID면 상세 조회로 처리합니다.
// @Tags         roadmaps
// @Produce      json
// @Param        key path string true "로드맵 타입 또는 Content ID"
// @Success      200 {object} response.SuccessResponse{data=dto.ContentResponse} "조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 타입 또는 ID"
// @Failure      404 {object} response.ErrorResponse "로드맵을 찾을 수 없음"
// @Router       /roadmaps/{key} [get]
func (h *ContentHandler) GetRoadmap(c *gin.Context) {
	key := c.Param("id")
	if roadmapType := domain.RoadmapType(key); roadmapType.IsValid() {
		result, err := h.contentService.GetRoadmap(c.Request.Context(), roadmapType)
		if err != nil {
			handleServiceError(c, h.logger, err)
			return
		}
		response.SendSuccess(c, http.StatusOK, result)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	h.get(c, domain.KindRoadmap, id)
}

// PutRoadmap godoc
// @Summary      로드맵 저장 (타입 또는 ID)
// @Description  타입 경로면 해당 타입의 로드맵을 생성하거나 교체합니다(id·조회수·첨부 유지). UUID면 부분 수정입니다.
// @Tags         roadmaps
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        key path string true "로드맵 타입 또는 Content ID"
// @Param        request body dto.ContentDraftRequest true "로드맵 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.ContentMutationResponse} "저장 성공"
// @Success      207 {object} response.SuccessResponse{data=dto.ContentMutationResponse} "저장 성공, 일부 파일 거부"
// @Failure      400 {object} response.ErrorResponse "필드 검증 실패"
// @Failure      401 {object} response.ErrorResponse "인증 실패"
// @Router       /roadmaps/{key} [put]
func (h *ContentHandler) PutRoadmap(c *gin.Context) {
	key := c.Param("id")
	roadmapType := domain.RoadmapType(key)
	if !roadmapType.IsValid() {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		h.update(c, domain.KindRoadmap, id)
		return
	}

	var req dto.ContentDraftRequest
	if appErr := bindBody(c, h.maxBodyBytes, &req); appErr != nil {
		handleServiceError(c, h.logger, appErr)
		return
	}

	result, err := h.contentService.UpsertRoadmap(c.Request.Context(), roadmapType, &req, formUploads(c), credentialFrom(c))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	sendMutation(c, http.StatusOK, result)
}
