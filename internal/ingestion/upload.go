package ingestion

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MaxUploadBytes caps the size of an uploaded resume document.
const MaxUploadBytes = 2 << 20

var (
	// ErrUnsupportedType is returned for documents that are not text, markdown or HTML.
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrEmptyDocument is returned when a document has no extractable text.
	ErrEmptyDocument = errors.New("document contains no text")
	// ErrTooLarge is returned when a document exceeds MaxUploadBytes.
	ErrTooLarge = errors.New("document too large")
)

// Kind is the detected format of an uploaded document.
type Kind string

const (
	KindText     Kind = "text"
	KindMarkdown Kind = "markdown"
	KindHTML     Kind = "html"
)

// Upload is the result of ingesting one document.
type Upload struct {
	Text     string    `json:"text"`
	Metadata *Metadata `json:"metadata"`
}

var mediaKinds = map[string]Kind{
	"text/plain":      KindText,
	"text/markdown":   KindMarkdown,
	"text/x-markdown": KindMarkdown,
	"text/html":       KindHTML,
}

var extKinds = map[string]Kind{
	".txt":      KindText,
	".text":     KindText,
	".md":       KindMarkdown,
	".markdown": KindMarkdown,
	".html":     KindHTML,
	".htm":      KindHTML,
}

// DetectKind resolves the document format from its declared content type,
// falling back to the filename extension when the type is missing or generic.
func DetectKind(filename, contentType string) (Kind, error) {
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil {
			if kind, ok := mediaKinds[strings.ToLower(mediaType)]; ok {
				return kind, nil
			}
			if mediaType != "application/octet-stream" {
				return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mediaType)
			}
		}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if kind, ok := extKinds[ext]; ok {
		return kind, nil
	}
	if ext == "" {
		ext = "(none)"
	}
	return "", fmt.Errorf("%w: extension %s", ErrUnsupportedType, ext)
}

// Ingest validates and cleans an uploaded document.
func Ingest(filename, contentType string, data []byte) (*Upload, error) {
	if len(data) > MaxUploadBytes {
		return nil, ErrTooLarge
	}
	kind, err := DetectKind(filename, contentType)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: content is not UTF-8 text", ErrUnsupportedType)
	}

	text := string(data)
	if kind == KindHTML {
		text, err = ExtractHTMLText(text)
		if err != nil {
			return nil, err
		}
	}

	text = CleanText(text)
	if text == "" {
		return nil, ErrEmptyDocument
	}

	return &Upload{
		Text:     text,
		Metadata: NewMetadata(text, filename, kind),
	}, nil
}
