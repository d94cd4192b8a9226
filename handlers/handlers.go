package handlers

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"wardrobe-matcher/apperror"
	"wardrobe-matcher/middleware"
	"wardrobe-matcher/models"
	"wardrobe-matcher/service"
	"wardrobe-matcher/upload"
)

const serviceName = "wardrobe-matcher"

// Analyzer is the pipeline the handlers delegate to.
type Analyzer interface {
	Analyze(ctx context.Context, requestID string, images []models.UploadedImage, cfg models.RequestConfig) (*models.AnalysisResult, error)
	Prompt(ctx context.Context, requestID, prompt string) (*models.PromptResult, error)
}

// Handlers represents the HTTP handlers
type Handlers struct {
	analyzer Analyzer
	uploads  *upload.Store
}

// NewHandlers creates new HTTP handlers
func NewHandlers(analyzer Analyzer, uploads *upload.Store) *Handlers {
	return &Handlers{analyzer: analyzer, uploads: uploads}
}

// Home answers the root path
func (h *Handlers) Home(c *gin.Context) {
	c.JSON(http.StatusOK, models.Envelope{Success: true, Message: "HOME"})
}

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
	})
}

// CreatePrompt analyzes the uploaded wardrobe and returns the best combination.
// Multipart form: up to 10 files under "wardrobe", optional style, event and
// weather fields.
func (h *Handlers) CreatePrompt(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	limit := h.uploads.MaxRequestBytes()
	if limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	var files []*multipart.FileHeader
	var tooLarge *http.MaxBytesError
	form, err := c.MultipartForm()
	switch {
	case err == nil:
		files = form.File[upload.FieldName]
	case errors.Is(err, http.ErrNotMultipart):
		// No files; style/event/weather may still come as urlencoded fields.
	case errors.As(err, &tooLarge):
		_ = c.Error(apperror.NewValidation(upload.FieldName, "request body exceeds the %d byte limit", limit))
		return
	default:
		_ = c.Error(apperror.NewValidation(upload.FieldName, "invalid multipart form: %v", err))
		return
	}

	var cfg models.RequestConfig
	if err := c.ShouldBind(&cfg); err != nil {
		_ = c.Error(apperror.NewValidation("", "invalid form fields: %v", err))
		return
	}

	batch, err := h.uploads.Save(c, requestID, files)
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer batch.Cleanup()

	result, err := h.analyzer.Analyze(c.Request.Context(), requestID, batch.Images, cfg)
	if err != nil {
		_ = c.Error(err)
		return
	}

	log.WithFields(log.Fields{"request_id": requestID, "stage": service.StageResponded}).Debug("sending analysis")
	c.JSON(http.StatusOK, models.Envelope{
		Success: true,
		Message: "Analyzed Image",
		Data:    result,
	})
}

// AIPrompt forwards a free-form prompt to the provider.
// JSON body: {"prompt": "..."}.
func (h *Handlers) AIPrompt(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	var req models.PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			_ = c.Error(apperror.NewValidation("", "Json Body Required"))
			return
		}
		_ = c.Error(apperror.NewValidation("", "invalid JSON body: %v", err))
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		_ = c.Error(apperror.NewValidation("", "Prompt field required"))
		return
	}

	result, err := h.analyzer.Prompt(c.Request.Context(), requestID, prompt)
	if err != nil {
		_ = c.Error(err)
		return
	}

	log.WithFields(log.Fields{"request_id": requestID, "stage": service.StageResponded}).Debug("sending prompt reply")
	c.JSON(http.StatusOK, models.Envelope{
		Success: true,
		Message: "Prompt answered",
		Data:    result,
	})
}
