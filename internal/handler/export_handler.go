package handler

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/edugen/studio/internal/export"
	"github.com/edugen/studio/internal/model"
	"github.com/edugen/studio/internal/response"
	"github.com/edugen/studio/internal/service"
)

// ExportHandler renders materials as downloadable files.
type ExportHandler struct {
	materialService *service.MaterialService
	log             zerolog.Logger
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(materialService *service.MaterialService, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{materialService: materialService, log: log}
}

// Export godoc
// GET /api/export/:format/:id?type=test|study_material&include_answers=true
// Sends a PDF or DOCX file. include_answers only applies to tests and
// defaults to true.
func (h *ExportHandler) Export(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	format := model.ExportFormat(c.Param("format"))
	if format != model.ExportPDF && format != model.ExportDOCX {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidFormat)
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	kind, ok := materialKind(c)
	if !ok {
		return
	}
	includeAnswers := true
	if v := c.Query("include_answers"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, "include_answers must be true or false")
			return
		}
		includeAnswers = b
	}

	ctx := c.Request.Context()
	var (
		buf      bytes.Buffer
		filename string
		err      error
	)
	if kind == model.MaterialKindTest {
		var t *model.Test
		if t, err = h.materialService.GetTest(ctx, owner, id); err == nil {
			filename = export.TestFilename(t.Title, format, includeAnswers)
			err = export.Test(&buf, format, t, includeAnswers)
		}
	} else {
		var m *model.StudyMaterial
		if m, err = h.materialService.GetStudyMaterial(ctx, owner, id); err == nil {
			filename = export.StudyMaterialFilename(m.Title, format)
			err = export.StudyMaterial(&buf, format, m)
		}
	}
	if err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Str("request_id", response.RequestID(c)).Int64("id", id).Str("format", string(format)).Msg("Export failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrExport)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Header("Content-Length", fmt.Sprint(buf.Len()))
	c.Data(http.StatusOK, export.ContentType(format), buf.Bytes())
}
