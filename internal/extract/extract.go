// Package extract is the boundary to the external vision/extraction
// capability. It turns an uploaded schedule document (PDF, PNG or JPEG)
// into the raw subgroup-shaped JSON structure that the import pipeline
// validates. Everything semantic about the model's answer is the pipeline's
// problem; this package only guarantees a syntactically well-typed payload.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ErrUnsupportedMediaType is returned before any extraction call when the
// document is not one of the three supported kinds.
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// ErrMissingCredential is returned when no API credential is available.
var ErrMissingCredential = errors.New("missing API credential")

// ErrExtractionFailure wraps failures of the external capability call
// itself, including empty or unparsable payloads.
var ErrExtractionFailure = errors.New("extraction failed")

// Document is an uploaded schedule scan.
type Document struct {
	Data        []byte
	Filename    string
	ContentType string // declared MIME type, may be empty or wrong
}

// Extractor is the capability interface the server and CLI depend on, so
// tests can substitute a fake.
type Extractor interface {
	Extract(ctx context.Context, doc Document, credential string) (json.RawMessage, error)
}

// Supported media types.
const (
	MediaTypePDF  = "application/pdf"
	MediaTypePNG  = "image/png"
	MediaTypeJPEG = "image/jpeg"
)

// SniffMediaType resolves the document's media type from the declared
// content type, falling back to the file extension.
func SniffMediaType(doc Document) (string, error) {
	declared := strings.ToLower(strings.TrimSpace(doc.ContentType))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	switch declared {
	case MediaTypePDF, MediaTypePNG, MediaTypeJPEG:
		return declared, nil
	case "image/jpg":
		return MediaTypeJPEG, nil
	}

	switch strings.ToLower(filepath.Ext(doc.Filename)) {
	case ".pdf":
		return MediaTypePDF, nil
	case ".png":
		return MediaTypePNG, nil
	case ".jpg", ".jpeg":
		return MediaTypeJPEG, nil
	}

	return "", fmt.Errorf("%w: %q (файл %q)", ErrUnsupportedMediaType, doc.ContentType, doc.Filename)
}

// validatePDF rejects documents that declare themselves PDF but cannot be
// read as one, before any tokens are spent on them.
func validatePDF(data []byte) error {
	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return fmt.Errorf("%w: файл не является корректным PDF: %v", ErrUnsupportedMediaType, err)
	}
	if count < 1 {
		return fmt.Errorf("%w: PDF не содержит страниц", ErrUnsupportedMediaType)
	}
	return nil
}
