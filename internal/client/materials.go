package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/edugen/studio/internal/model"
)

func materialPath(id int64) string {
	return fmt.Sprintf("/api/materials/%d", id)
}

func kindQuery(kind model.MaterialKind) string {
	return "?" + url.Values{"type": {string(kind)}}.Encode()
}

// ListMaterials returns the current user's tests and study materials.
func (c *Client) ListMaterials(ctx context.Context) ([]model.MaterialSummary, error) {
	var out struct {
		Materials []model.MaterialSummary `json:"materials"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/materials", nil, &out); err != nil {
		return nil, err
	}
	return out.Materials, nil
}

// GetTest fetches a whole test document.
func (c *Client) GetTest(ctx context.Context, id int64) (*model.Test, error) {
	var t model.Test
	if err := c.doJSON(ctx, http.MethodGet, materialPath(id)+kindQuery(model.MaterialKindTest), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// studyMaterialWire is the transmitted shape of a study material: the
// summary and terms are nested under content.
type studyMaterialWire struct {
	ID        int64              `json:"id,omitempty"`
	Type      model.MaterialKind `json:"type,omitempty"`
	Title     string             `json:"title"`
	CreatedAt string             `json:"created_at,omitempty"`
	Content   model.StudyContent `json:"content"`
}

// GetStudyMaterial fetches a whole study material.
func (c *Client) GetStudyMaterial(ctx context.Context, id int64) (*model.StudyMaterial, error) {
	var w studyMaterialWire
	if err := c.doJSON(ctx, http.MethodGet, materialPath(id)+kindQuery(model.MaterialKindStudyMaterial), nil, &w); err != nil {
		return nil, err
	}
	return &model.StudyMaterial{
		ID:        w.ID,
		Title:     w.Title,
		CreatedAt: w.CreatedAt,
		Summary:   w.Content.Summary,
		Terms:     w.Content.Terms,
	}, nil
}

// SaveTest replaces the stored test with t. The response is not trusted:
// callers reload to learn the identifiers the backend assigned.
func (c *Client) SaveTest(ctx context.Context, t *model.Test) error {
	body := struct {
		Type model.MaterialKind `json:"type"`
		*model.Test
	}{model.MaterialKindTest, t}
	return c.doJSON(ctx, http.MethodPut, materialPath(t.ID), body, nil)
}

// SaveStudyMaterial replaces the stored study material with m.
func (c *Client) SaveStudyMaterial(ctx context.Context, m *model.StudyMaterial) error {
	body := studyMaterialWire{
		Type:    model.MaterialKindStudyMaterial,
		Title:   m.Title,
		Content: m.Content(),
	}
	return c.doJSON(ctx, http.MethodPut, materialPath(m.ID), body, nil)
}

// DeleteMaterial removes a material.
func (c *Client) DeleteMaterial(ctx context.Context, kind model.MaterialKind, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, materialPath(id)+kindQuery(kind), nil, nil)
}
