package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/edugen/studio/internal/model"
	"github.com/edugen/studio/internal/upload"
	"github.com/edugen/studio/internal/validator"
)

// ErrNoSource is returned by Generate when neither text nor a file is given.
var ErrNoSource = errors.New("either content or a file is required")

// Generate creates a new material from req.Content or, when file is not
// nil, from the uploaded file. The form is validated locally first. It
// returns the new material's id.
func (c *Client) Generate(ctx context.Context, req model.GenerateRequest, file *upload.File) (int64, error) {
	if file == nil && strings.TrimSpace(req.Content) == "" {
		return 0, ErrNoSource
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := validator.Check(req); err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"material_type", string(req.MaterialType)},
		{"title", req.Title},
	}
	if file == nil {
		fields = append(fields, [2]string{"content", strings.TrimSpace(req.Content)})
	}
	if req.NumQuestions > 0 {
		fields = append(fields, [2]string{"num_questions", strconv.Itoa(req.NumQuestions)})
	}
	if req.Difficulty != "" {
		fields = append(fields, [2]string{"difficulty", string(req.Difficulty)})
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return 0, fmt.Errorf("write field %s: %w", f[0], err)
		}
	}

	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(file.Name)))
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)

		part, err := mw.CreatePart(h)
		if err != nil {
			return 0, fmt.Errorf("create file part: %w", err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return 0, fmt.Errorf("write file part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return 0, fmt.Errorf("close multipart body: %w", err)
	}

	var out struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/generate", &buf, mw.FormDataContentType(), &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// GenerateQuestions asks the backend for additional questions for a saved
// assignment of a test. The backend stores them as well.
func (c *Client) GenerateQuestions(ctx context.Context, testID int64, req model.GenerateQuestionsRequest) ([]model.Question, error) {
	var out struct {
		Questions []model.Question `json:"questions"`
	}
	path := materialPath(testID) + "/generate-questions"
	if err := c.doJSON(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
