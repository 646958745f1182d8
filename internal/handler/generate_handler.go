package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/edugen/studio/internal/config"
	"github.com/edugen/studio/internal/model"
	"github.com/edugen/studio/internal/response"
	"github.com/edugen/studio/internal/service"
	"github.com/edugen/studio/internal/upload"
	"github.com/edugen/studio/internal/validator"
)

// GenerateHandler creates materials from pasted text or uploaded files.
type GenerateHandler struct {
	materialService *service.MaterialService
	cfg             *config.Config
	log             zerolog.Logger
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(materialService *service.MaterialService, cfg *config.Config, log zerolog.Logger) *GenerateHandler {
	return &GenerateHandler{materialService: materialService, cfg: cfg, log: log}
}

// Generate godoc
// POST /api/generate
// Multipart form: material_type, title, content or file, num_questions,
// difficulty. Returns the id of the new material.
func (h *GenerateHandler) Generate(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUploadBytes)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.Request.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
				return
			}
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrInvalidPayload, err.Error())
			return
		}
	}

	var req model.GenerateRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		text, code, ok := h.readUpload(c)
		if !ok {
			response.Fail(c, http.StatusBadRequest, code)
			return
		}
		content = text
	}

	id, err := h.materialService.Generate(c.Request.Context(), owner, req, content)
	if err != nil {
		if errors.Is(err, service.ErrEmptyContent) {
			response.Fail(c, http.StatusBadRequest, response.ErrEmptyContent)
			return
		}
		h.log.Error().Err(err).Str("request_id", response.RequestID(c)).Str("material_type", string(req.MaterialType)).Msg("Generation failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrGeneration)
		return
	}

	response.JSON(c, http.StatusCreated, gin.H{
		"success":       true,
		"message":       "Material generated successfully",
		"material_type": req.MaterialType,
		"id":            id,
	})
}

// readUpload extracts the text of the "file" form part.
func (h *GenerateHandler) readUpload(c *gin.Context) (string, response.ErrCode, bool) {
	header, err := c.FormFile("file")
	if err != nil || header.Filename == "" {
		return "", response.ErrContentRequired, false
	}

	contentType := header.Header.Get("Content-Type")
	if err := upload.Check(header.Filename, contentType); err != nil {
		return "", response.ErrUnsupportedFile, false
	}

	f, err := header.Open()
	if err != nil {
		return "", response.ErrFileUnreadable, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", response.ErrFileUnreadable, false
	}

	text, err := upload.ExtractText(&upload.File{Name: header.Filename, ContentType: contentType, Data: data})
	switch {
	case errors.Is(err, upload.ErrEmptyContent):
		return "", response.ErrEmptyContent, false
	case errors.Is(err, upload.ErrUnsupportedFileType):
		return "", response.ErrUnsupportedFile, false
	case err != nil:
		h.log.Warn().Err(err).Str("request_id", response.RequestID(c)).Str("filename", header.Filename).Msg("Failed to read uploaded file")
		return "", response.ErrFileUnreadable, false
	}
	return text, "", true
}
