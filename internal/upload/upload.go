// Package upload validates the source documents a material is generated
// from and extracts their text.
package upload

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrUnsupportedFileType is returned for anything that is not PDF, DOCX or
// plain text.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// Accepted MIME types.
const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEText = "text/plain"
)

// Accepted MIME types and the extension each maps to.
var allowedMIMETypes = map[string]string{
	MIMEPDF:  ".pdf",
	MIMEDOCX: ".docx",
	MIMEText: ".txt",
}

// File is a source document ready to be sent or parsed.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Check reports whether a file with this name and declared content type may
// be submitted. Either one matching is enough.
func Check(name, contentType string) error {
	if _, ok := allowedMIMETypes[baseType(contentType)]; ok {
		return nil
	}
	if allowedExt(name) {
		return nil
	}
	return fmt.Errorf("%w: %s (allowed: %s)", ErrUnsupportedFileType, name, strings.Join(allowedExts(), ", "))
}

// Open reads the file at path and validates it. The content type is
// detected from the bytes, not from the name.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	name := filepath.Base(path)
	contentType := baseType(mimetype.Detect(data).String())
	if err := Check(name, contentType); err != nil {
		return nil, err
	}
	return &File{Name: name, ContentType: contentType, Data: data}, nil
}

func baseType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}

func allowedExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range allowedMIMETypes {
		if ext == allowed {
			return true
		}
	}
	return false
}

func allowedExts() []string {
	exts := make([]string, 0, len(allowedMIMETypes))
	for _, ext := range allowedMIMETypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
