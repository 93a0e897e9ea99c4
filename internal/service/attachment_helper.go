package service

import (
	"mime"
	"path/filepath"
	"strings"

	"school-portal-api/internal/response"
)

var (
	AllowedImageTypes = map[string]bool{
		// 기본 이미지
		"image/jpeg":    true,
		"image/jpg":     true,
		"image/png":     true,
		"image/gif":     true,
		"image/webp":    true,
		"image/svg+xml": true,
		"image/heic":    true, // iPhone
	}

	AllowedDocTypes = map[string]bool{
		// 문서
		"application/pdf": true,
		"text/plain":      true,
		"text/csv":        true,

		// MS Office
		"application/msword":            true, // .doc
		"application/vnd.ms-excel":      true, // .xls
		"application/vnd.ms-powerpoint": true, // .ppt
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   true, // .docx
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         true, // .xlsx
		"application/vnd.openxmlformats-officedocument.presentationml.presentation": true, // .pptx

		// 한글 문서
		"application/x-hwp":       true,
		"application/haansofthwp": true,

		// 압축
		"application/zip":              true,
		"application/x-zip-compressed": true,
	}

	AllowedImageExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
		".svg":  true,
		".heic": true,
	}

	AllowedDocExtensions = map[string]bool{
		".pdf":  true,
		".txt":  true,
		".csv":  true,
		".doc":  true,
		".docx": true,
		".xls":  true,
		".xlsx": true,
		".ppt":  true,
		".pptx": true,
		".hwp":  true,
		".zip":  true,
	}
)

// extensionMediaTypes infers the media type of allowed extensions without relying on the host mime table
var extensionMediaTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".heic": "image/heic",
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".hwp":  "application/x-hwp",
	".zip":  "application/zip",
}

// normalizeMediaType strips parameters and lowercases the media type.
// An empty or generic octet-stream type is inferred from the extension.
func normalizeMediaType(fileName, contentType string) string {
	mediaType := strings.ToLower(strings.TrimSpace(contentType))
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = parsed
	}
	if mediaType != "" && mediaType != "application/octet-stream" {
		return mediaType
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if t, ok := extensionMediaTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if parsed, _, err := mime.ParseMediaType(t); err == nil {
			return parsed
		}
	}
	return mediaType
}

// validateFileType requires both the extension and the media type to be on the same allow-list
func validateFileType(fileName, mediaType string) error {
	fileExt := strings.ToLower(filepath.Ext(fileName))

	if fileExt == "" {
		return &response.AppError{
			Code:    response.ErrCodeUnsupportedMediaType,
			Message: "File must have an extension",
			Field:   "files",
		}
	}

	isAllowedImage := AllowedImageTypes[mediaType] && AllowedImageExtensions[fileExt]
	isAllowedDoc := AllowedDocTypes[mediaType] && AllowedDocExtensions[fileExt]

	if !isAllowedImage && !isAllowedDoc {
		return &response.AppError{
			Code:    response.ErrCodeUnsupportedMediaType,
			Message: "Unsupported file type",
			Details: "Supported types: images (jpg, jpeg, png, gif, webp, svg, heic) and documents (pdf, txt, csv, doc, docx, xls, xlsx, ppt, pptx, hwp, zip)",
			Field:   "files",
		}
	}

	return nil
}
