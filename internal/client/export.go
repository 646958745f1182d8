package client

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/edugen/studio/internal/model"
)

// ExportRequest names a document and the format to render it in.
type ExportRequest struct {
	ID             int64
	Kind           model.MaterialKind
	Format         model.ExportFormat
	IncludeAnswers bool
}

func (r ExportRequest) path() string {
	q := url.Values{
		"type":            {string(r.Kind)},
		"include_answers": {strconv.FormatBool(r.IncludeAnswers)},
	}
	return fmt.Sprintf("/api/export/%s/%d?%s", r.Format, r.ID, q.Encode())
}

// Download describes an exported file.
type Download struct {
	Filename    string
	ContentType string
	Size        int64
}

// ExportURL returns the absolute download URL, for handing to a browser.
func (c *Client) ExportURL(r ExportRequest) string {
	return c.baseURL + r.path()
}

// Export streams the rendered document into w.
func (c *Client) Export(ctx context.Context, r ExportRequest, w io.Writer) (Download, error) {
	resp, err := c.send(ctx, http.MethodGet, r.path(), nil, "")
	if err != nil {
		return Download{}, err
	}
	defer resp.Body.Close()

	d := Download{
		Filename:    fmt.Sprintf("material_%d.%s", r.ID, r.Format),
		ContentType: resp.Header.Get("Content-Type"),
	}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		d.Filename = filepath.Base(params["filename"])
	}

	n, err := io.Copy(w, resp.Body)
	d.Size = n
	if err != nil {
		return d, fmt.Errorf("download export: %w", err)
	}
	return d, nil
}
