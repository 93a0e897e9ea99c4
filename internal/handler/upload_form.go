package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"school-portal-api/internal/config"
	"school-portal-api/internal/dto"
	"school-portal-api/internal/response"
	"school-portal-api/internal/service"
)

// multipartFilesField is the form field carrying uploaded files
const multipartFilesField = "files"

// multipartOverheadBytes covers form fields and part headers on top of the file payloads
const multipartOverheadBytes = 1 << 20

// maxRequestBytes is the largest mutating request body accepted
func maxRequestBytes(cfg config.ContentConfig) int64 {
	return int64(cfg.MaxAttachments)*cfg.MaxFileSizeBytes + multipartOverheadBytes
}

// isMultipart reports whether the request carries a multipart form
func isMultipart(c *gin.Context) bool {
	return c.ContentType() == binding.MIMEMultipartPOSTForm
}

// bindBody binds JSON or multipart form fields into obj. A body over limit becomes PAYLOAD_TOO_LARGE.
func bindBody(c *gin.Context, limit int64, obj interface{}) *response.AppError {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	var err error
	if isMultipart(c) {
		err = c.ShouldBindWith(obj, binding.FormMultipart)
	} else {
		err = c.ShouldBindJSON(obj)
	}
	if err == nil {
		return nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
		return response.NewAppError(response.ErrCodePayloadTooLarge, "Request body too large", err.Error())
	}
	return response.NewValidationError("Invalid request body", err.Error())
}

// formUploads turns the multipart files of the request into uploads, in submission order
func formUploads(c *gin.Context) []service.Upload {
	if !isMultipart(c) || c.Request.MultipartForm == nil {
		return nil
	}
	headers := c.Request.MultipartForm.File[multipartFilesField]
	uploads := make([]service.Upload, 0, len(headers))
	for _, fh := range headers {
		uploads = append(uploads, uploadFromHeader(fh))
	}
	return uploads
}

func uploadFromHeader(fh *multipart.FileHeader) service.Upload {
	return service.Upload{
		OriginalName: fh.Filename,
		MediaType:    fh.Header.Get("Content-Type"),
		Size:         fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// sendMutation writes a create/update result: 207 when any file was rejected, otherwise okStatus
func sendMutation(c *gin.Context, okStatus int, result *dto.ContentMutationResponse) {
	if result.AnyUploadFailed() {
		response.SendSuccess(c, http.StatusMultiStatus, result)
		return
	}
	response.SendSuccess(c, okStatus, result)
}
