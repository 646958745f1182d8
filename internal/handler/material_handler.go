package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/edugen/studio/internal/model"
	"github.com/edugen/studio/internal/response"
	"github.com/edugen/studio/internal/service"
	"github.com/edugen/studio/internal/validator"
)

// MaterialHandler handles the stored tests and study materials.
type MaterialHandler struct {
	materialService *service.MaterialService
	log             zerolog.Logger
}

// NewMaterialHandler creates a new MaterialHandler.
func NewMaterialHandler(materialService *service.MaterialService, log zerolog.Logger) *MaterialHandler {
	return &MaterialHandler{materialService: materialService, log: log}
}

type testBody struct {
	Type model.MaterialKind `json:"type"`
	*model.Test
}

type studyMaterialBody struct {
	ID        int64              `json:"id"`
	Type      model.MaterialKind `json:"type"`
	Title     string             `json:"title"`
	CreatedAt string             `json:"created_at"`
	Content   model.StudyContent `json:"content"`
}

// updateMaterialRequest is the body of PUT /api/materials/:id. Tests send
// assignments, study materials send content.
type updateMaterialRequest struct {
	Type        model.MaterialKind  `json:"type" binding:"required,oneof=test study_material"`
	Title       string              `json:"title" binding:"max=255"`
	Assignments []model.Assignment  `json:"assignments"`
	Content     *model.StudyContent `json:"content"`
}

// ListMaterials godoc
// GET /api/materials
// Lists the user's tests and study materials, newest first.
func (h *MaterialHandler) ListMaterials(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	materials, err := h.materialService.List(c.Request.Context(), owner)
	if err != nil {
		h.log.Error().Err(err).Str("request_id", response.RequestID(c)).Int64("user_id", owner).Msg("Failed to list materials")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"success":   true,
		"materials": materials,
		"total":     len(materials),
	})
}

// GetMaterial godoc
// GET /api/materials/:id?type=test|study_material
// Returns a whole test or study material.
func (h *MaterialHandler) GetMaterial(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
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

	ctx := c.Request.Context()
	if kind == model.MaterialKindTest {
		t, err := h.materialService.GetTest(ctx, owner, id)
		if err != nil {
			h.fail(c, err)
			return
		}
		response.JSON(c, http.StatusOK, testBody{Type: kind, Test: t})
		return
	}

	m, err := h.materialService.GetStudyMaterial(ctx, owner, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, studyMaterialBody{
		ID:        m.ID,
		Type:      kind,
		Title:     m.Title,
		CreatedAt: m.CreatedAt,
		Content:   m.Content(),
	})
}

// UpdateMaterial godoc
// PUT /api/materials/:id
// Replaces a material. A test's whole assignment tree is re-created, so
// every assignment, question and option gets a new id.
func (h *MaterialHandler) UpdateMaterial(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateMaterialRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ctx := c.Request.Context()
	var err error
	if req.Type == model.MaterialKindTest {
		_, err = h.materialService.SaveTest(ctx, owner, id, service.TestUpdate{
			Title:       req.Title,
			Assignments: req.Assignments,
		})
	} else {
		_, err = h.materialService.SaveStudyMaterial(ctx, owner, id, service.StudyMaterialUpdate{
			Title:   req.Title,
			Content: req.Content,
		})
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"success": true,
		"message": "Material updated successfully",
		"id":      id,
	})
}

// DeleteMaterial godoc
// DELETE /api/materials/:id?type=test|study_material
// Deletes a material with everything it contains.
func (h *MaterialHandler) DeleteMaterial(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
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

	if err := h.materialService.Delete(c.Request.Context(), owner, kind, id); err != nil {
		h.fail(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"success": true,
		"message": "Material deleted successfully",
	})
}

// GenerateQuestions godoc
// POST /api/materials/:id/generate-questions
// Generates more questions for an assignment of a stored test and stores
// them after the existing ones.
func (h *MaterialHandler) GenerateQuestions(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req model.GenerateQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	questions, err := h.materialService.GenerateQuestions(c.Request.Context(), owner, id, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, gin.H{
		"success":   true,
		"message":   "Questions generated successfully",
		"questions": questions,
	})
}

// fail maps service errors onto responses.
func (h *MaterialHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMaterialNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrAssignmentNotFound)
	case errors.Is(err, service.ErrInvalidQuestion):
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrInvalidPayload, err.Error())
	case errors.Is(err, service.ErrEmptyContent):
		response.Fail(c, http.StatusBadRequest, response.ErrEmptyContent)
	default:
		h.log.Error().Err(err).Str("request_id", response.RequestID(c)).Str("path", c.FullPath()).Msg("Material request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
