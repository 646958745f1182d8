package upload

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// ErrEmptyContent is returned when a document contains no text.
var ErrEmptyContent = errors.New("document contains no text")

// ExtractText returns the plain text of a PDF, DOCX or text file. The
// format is taken from the content, then from the file name.
func ExtractText(f *File) (string, error) {
	var (
		text string
		err  error
	)

	switch kindOf(f) {
	case ".txt":
		if !utf8.Valid(f.Data) {
			return "", fmt.Errorf("extract %s: text is not valid UTF-8", f.Name)
		}
		text = string(f.Data)
	case ".pdf":
		text, err = pdfText(f.Data)
	case ".docx":
		text, err = docxText(f.Data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, f.Name)
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", f.Name, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyContent
	}
	return text, nil
}

func kindOf(f *File) string {
	detected := mimetype.Detect(f.Data)
	for mt, ext := range allowedMIMETypes {
		if detected.Is(mt) {
			return ext
		}
	}
	ext := strings.ToLower(filepath.Ext(f.Name))
	if allowedExt(ext) {
		return ext
	}
	return ""
}

func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

// docxText walks word/document.xml and keeps the text runs, one line per
// paragraph.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			body = f
			break
		}
	}
	if body == nil {
		return "", errors.New("open docx: word/document.xml missing")
	}

	rc, err := body.Open()
	if err != nil {
		return "", fmt.Errorf("open docx body: %w", err)
	}
	defer rc.Close()

	var (
		sb     strings.Builder
		inText bool
	)
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse docx body: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(el)
			}
		}
	}
	return sb.String(), nil
}
