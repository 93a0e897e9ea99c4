package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"school-portal-api/internal/auth"
	"school-portal-api/internal/client"
	"school-portal-api/internal/config"
	"school-portal-api/internal/domain"
	"school-portal-api/internal/dto"
	"school-portal-api/internal/metrics"
)

const testAdminToken = "admin-token"

// setupTestRouter creates a test router with minimal configuration
func setupTestRouter(basePath string, m *metrics.Metrics) *Config {
	// Create in-memory SQLite database for testing
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		panic("failed to connect database: " + err.Error())
	}
	sqlDB, err := db.DB()
	if err != nil {
		panic("failed to get database: " + err.Error())
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&domain.Content{}, &domain.Attachment{}, &domain.Comment{}); err != nil {
		panic("failed to migrate: " + err.Error())
	}

	return &Config{
		DB:       db,
		Logger:   zap.NewNop(),
		BasePath: basePath,
		Guard: auth.GuardFunc(func(ctx context.Context, credential string) bool {
			return credential == testAdminToken
		}),
		Content: config.ContentConfig{
			MaxAttachments:   5,
			MaxFileSizeBytes: 1024 * 1024,
			ExcerptLength:    120,
		},
		Metrics: m,
		Store:   client.NewMemoryStore("https://files.test"),
	}
}

func newTestMetrics() *metrics.Metrics {
	return metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
}

// TestMetricsEndpoint_RootPath tests /metrics endpoint at root path
func TestMetricsEndpoint_RootPath(t *testing.T) {
	cfg := setupTestRouter("", newTestMetrics())
	router := Setup(*cfg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// HTTP 200 응답 확인
	assert.Equal(t, http.StatusOK, w.Code, "Expected status 200")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	// Prometheus 형식 검증
	body := w.Body.String()
	assert.Contains(t, body, "# HELP")
	assert.Contains(t, body, "# TYPE")

	// Go 런타임 메트릭은 항상 포함됨 (기본 레지스트리 사용)
	assert.Contains(t, body, "go_goroutines")
}

// TestMetricsEndpoint_WithBasePath tests /metrics endpoint with base path configured
func TestMetricsEndpoint_WithBasePath(t *testing.T) {
	basePath := "/api"
	cfg := setupTestRouter(basePath, newTestMetrics())
	router := Setup(*cfg)

	for _, path := range []string{"/metrics", basePath + "/metrics"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
		})
	}
}

// TestMetricsEndpoint_ContainsAllMetrics tests that all expected metrics are exposed
func TestMetricsEndpoint_ContainsAllMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	_ = metrics.NewWithRegistry(registry, zap.NewNop())

	metricFamilies, err := registry.Gather()
	require.NoError(t, err)

	metricNames := make(map[string]bool)
	for _, mf := range metricFamilies {
		metricNames[mf.GetName()] = true
	}

	// 레이블 없는 Gauge/Counter는 초기화 시 바로 노출됨
	expected := []string{
		"school_portal_db_connections_open",
		"school_portal_db_connections_in_use",
		"school_portal_db_connections_idle",
		"school_portal_db_connections_max",
		"school_portal_db_connection_wait_total",
		"school_portal_db_connection_wait_duration_seconds_total",
		"school_portal_comments_created_total",
	}
	for _, metric := range expected {
		assert.True(t, metricNames[metric], "Registry should contain metric: %s", metric)
	}
}

func TestHealthEndpoints(t *testing.T) {
	cfg := setupTestRouter("/api", newTestMetrics())
	router := Setup(*cfg)

	for _, path := range []string{"/health", "/ready", "/api/health", "/api/ready"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		})
	}
}

func TestSwaggerEndpoint(t *testing.T) {
	cfg := setupTestRouter("/api", nil)
	router := Setup(*cfg)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/swagger/index.html", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger")
}

func TestCORSPreflight(t *testing.T) {
	cfg := setupTestRouter("/api", nil)
	cfg.AllowedOrigins = []string{"https://school.example"}
	router := Setup(*cfg)

	req := httptest.NewRequest(http.MethodOptions, "/api/notices", nil)
	req.Header.Set("Origin", "https://school.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://school.example", w.Header().Get("Access-Control-Allow-Origin"))
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code  string `json:"code"`
		Field string `json:"field"`
	} `json:"error"`
}

func do(t *testing.T, router http.Handler, req *http.Request) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var env apiEnvelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func jsonReq(method, target, token string, body interface{}) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestContentAPI_RequiresCredential(t *testing.T) {
	cfg := setupTestRouter("/api", nil)
	router := Setup(*cfg)

	body := map[string]string{"title": "t", "body": "b", "category": "일반"}

	w, env := do(t, router, jsonReq(http.MethodPost, "/api/notices", "", body))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	w, _ = do(t, router, jsonReq(http.MethodPost, "/api/notices", "wrong-token", body))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestContentAPI_NoticeLifecycle(t *testing.T) {
	m := newTestMetrics()
	cfg := setupTestRouter("/api", m)
	router := Setup(*cfg)

	// 생성 (multipart + 첨부파일)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "영상 안내"))
	require.NoError(t, mw.WriteField("body", "Check this: https://youtu.be/aBcDeFgHiJk"))
	require.NoError(t, mw.WriteField("category", "행사"))
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="files"; filename="안내문.pdf"`)
	header.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, _ = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/notices", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testAdminToken)
	w, env := do(t, router, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created dto.ContentMutationResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, 1, strings.Count(created.Body, "<iframe"))
	require.Len(t, created.Attachments, 1)
	assert.Equal(t, "안내문.pdf", created.Attachments[0].OriginalName)
	require.Len(t, created.Uploads, 1)
	assert.True(t, created.Uploads[0].Success)

	id := created.ID.String()

	// 목록 조회
	w, env = do(t, router, httptest.NewRequest(http.MethodGet, "/api/notices?category=%EC%A0%84%EC%B2%B4", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.ContentListResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, int64(1), list.Total)

	// 상세 조회는 조회수를 올림
	w, env = do(t, router, httptest.NewRequest(http.MethodGet, "/api/notices/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var detail dto.ContentResponse
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, int64(1), detail.ViewCount)

	// 다른 종류 경로로는 조회되지 않음
	w, _ = do(t, router, httptest.NewRequest(http.MethodGet, "/api/gallery/"+id, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 댓글
	w, _ = do(t, router, jsonReq(http.MethodPost, "/api/comments/notice/"+id, "", map[string]string{"author": "학부모", "content": "감사합니다"}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w, env = do(t, router, httptest.NewRequest(http.MethodGet, "/api/comments/notices/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var comments []dto.CommentResponse
	require.NoError(t, json.Unmarshal(env.Data, &comments))
	require.Len(t, comments, 1)

	// 삭제 후 첨부파일과 댓글도 사라짐
	req = httptest.NewRequest(http.MethodDelete, "/api/notices/"+id, nil)
	req.Header.Set("Authorization", "Bearer "+testAdminToken)
	w, _ = do(t, router, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	w, _ = do(t, router, httptest.NewRequest(http.MethodGet, "/api/notices/"+id, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, env = do(t, router, httptest.NewRequest(http.MethodGet, "/api/comments/notice/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &comments))
	assert.Empty(t, comments)
	assert.Equal(t, 0, cfg.Store.(*client.MemoryStore).Len())
}

func TestContentAPI_RoadmapByType(t *testing.T) {
	cfg := setupTestRouter("/api", nil)
	router := Setup(*cfg)

	w, _ := do(t, router, httptest.NewRequest(http.MethodGet, "/api/roadmaps/high_school", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env := do(t, router, jsonReq(http.MethodPut, "/api/roadmaps/high_school", testAdminToken,
		map[string]string{"title": "고입 로드맵", "body": "<p>v1</p>"}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var first dto.ContentMutationResponse
	require.NoError(t, json.Unmarshal(env.Data, &first))

	w, env = do(t, router, jsonReq(http.MethodPut, "/api/roadmaps/high_school", testAdminToken,
		map[string]string{"title": "고입 로드맵 v2", "body": "<p>v2</p>"}))
	require.Equal(t, http.StatusOK, w.Code)
	var second dto.ContentMutationResponse
	require.NoError(t, json.Unmarshal(env.Data, &second))
	assert.Equal(t, first.ID, second.ID)

	w, env = do(t, router, httptest.NewRequest(http.MethodGet, "/api/roadmaps/high_school", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var got dto.ContentResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "고입 로드맵 v2", got.Title)
	require.NotNil(t, got.Type)
	assert.Equal(t, "high_school", *got.Type)
	assert.Equal(t, int64(0), got.ViewCount)
}

func TestContentAPI_ValidationFieldIsReported(t *testing.T) {
	cfg := setupTestRouter("/api", nil)
	router := Setup(*cfg)

	w, env := do(t, router, jsonReq(http.MethodPost, "/api/gallery", testAdminToken,
		map[string]string{"title": "체육대회", "body": "<p>x</p>", "category": "학사"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, "category", env.Error.Field)
}
