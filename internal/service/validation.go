package service

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"school-portal-api/internal/domain"
	"school-portal-api/internal/dto"
	"school-portal-api/internal/response"
	"school-portal-api/internal/transform"
)

const (
	maxTitleLength         = 255
	maxCommentAuthorLength = 50
	maxCommentBodyLength   = 2000
)

// contentDraft is a draft after defaults were applied, ready to be validated
type contentDraft struct {
	Title       string
	Body        string
	Category    string
	ImageURL    string
	RoadmapType domain.RoadmapType
}

func draftFromRequest(spec domain.KindSpec, req *dto.ContentDraftRequest) contentDraft {
	draft := contentDraft{
		Title:    strings.TrimSpace(req.Title),
		Body:     req.Body,
		Category: strings.TrimSpace(req.Category),
	}
	if draft.Category == "" {
		draft.Category = spec.DefaultCategory
	}
	if spec.HasImage {
		draft.ImageURL = strings.TrimSpace(req.ImageURL)
	}
	if spec.KeyedByType {
		draft.RoadmapType = domain.RoadmapType(strings.TrimSpace(req.Type))
	}
	return draft
}

// mergePatch overlays the patch on the stored record
func mergePatch(spec domain.KindSpec, existing *domain.Content, patch *dto.ContentPatchRequest) contentDraft {
	draft := contentDraft{
		Title:    existing.Title,
		Body:     existing.Body,
		Category: existing.Category,
		ImageURL: existing.ImageURL,
	}
	if existing.RoadmapType != nil {
		draft.RoadmapType = *existing.RoadmapType
	}
	if patch == nil {
		return draft
	}
	if patch.Title != nil {
		draft.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Body != nil {
		draft.Body = *patch.Body
	}
	if patch.Category != nil {
		draft.Category = strings.TrimSpace(*patch.Category)
		if draft.Category == "" {
			draft.Category = spec.DefaultCategory
		}
	}
	if patch.ImageURL != nil && spec.HasImage {
		draft.ImageURL = strings.TrimSpace(*patch.ImageURL)
	}
	return draft
}

// validateDraft checks a draft against the kind's field contract.
// The returned error names the first violated field.
func validateDraft(spec domain.KindSpec, draft contentDraft) *response.AppError {
	if draft.Title == "" {
		return response.NewFieldError("title", "Title is required")
	}
	if utf8.RuneCountInString(draft.Title) > maxTitleLength {
		return response.NewFieldError("title", fmt.Sprintf("Title must be at most %d characters", maxTitleLength))
	}

	if strings.TrimSpace(draft.Body) == "" {
		return response.NewFieldError("body", "Body is required")
	}
	if malformed := transform.MalformedEmbedMarkers(draft.Body); len(malformed) > 0 {
		return response.NewFieldError("body", fmt.Sprintf("Malformed video marker: %s", strings.Join(malformed, ", ")))
	}

	if draft.Category == "" {
		return response.NewFieldError("category", "Category is required")
	}
	if !spec.AllowsCategory(draft.Category) {
		return response.NewFieldError("category",
			fmt.Sprintf("Category must be one of: %s", strings.Join(spec.Categories, ", ")))
	}

	if spec.HasImage && draft.ImageURL != "" && !isImageURL(draft.ImageURL) {
		return response.NewFieldError("imageUrl", "Image URL must be an absolute http(s) URL or a root-relative path")
	}

	if spec.KeyedByType && !draft.RoadmapType.IsValid() {
		return response.NewFieldError("type",
			fmt.Sprintf("Type must be %s or %s", domain.RoadmapMiddleSchool, domain.RoadmapHighSchool))
	}

	return nil
}

func isImageURL(raw string) bool {
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// validateComment trims and checks the comment fields
func validateComment(req *dto.CreateCommentRequest) (author, body string, appErr *response.AppError) {
	author = strings.TrimSpace(req.Author)
	body = strings.TrimSpace(req.Content)

	if author == "" {
		return "", "", response.NewFieldError("author", "Author is required")
	}
	if utf8.RuneCountInString(author) > maxCommentAuthorLength {
		return "", "", response.NewFieldError("author", fmt.Sprintf("Author must be at most %d characters", maxCommentAuthorLength))
	}
	if body == "" {
		return "", "", response.NewFieldError("content", "Content is required")
	}
	if utf8.RuneCountInString(body) > maxCommentBodyLength {
		return "", "", response.NewFieldError("content", fmt.Sprintf("Content must be at most %d characters", maxCommentBodyLength))
	}
	return author, body, nil
}
