// File path: internal/intake/intake.go
package intake

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/wml/ctypes"
	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"

	"github.com/nicodishanthj/xcgen/internal/apperrors"
	"github.com/nicodishanthj/xcgen/internal/common"
)

// MaxUploadBytes caps how much of an uploaded file is read.
const MaxUploadBytes = 10 << 20

// Kind is a supported upload type.
type Kind string

const (
	KindText Kind = "txt"
	KindCSV  Kind = "csv"
	KindDOCX Kind = "docx"
)

const (
	mimeText = "text/plain"
	mimeCSV  = "text/csv"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Detect picks the upload kind from the content type, falling back to the
// file extension. Generic content types such as application/octet-stream are
// ignored.
func Detect(filename, contentType string) (Kind, bool) {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch strings.ToLower(mediaType) {
		case mimeText:
			return KindText, true
		case mimeCSV, "application/csv":
			return KindCSV, true
		case mimeDOCX:
			return KindDOCX, true
		}
	}
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "txt":
		return KindText, true
	case "csv":
		return KindCSV, true
	case "docx":
		return KindDOCX, true
	}
	return "", false
}

// Extract turns an uploaded requirements file into one text blob. On any
// failure it returns an empty blob and a FileReadError; callers can still
// fall back to manually entered text.
func Extract(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	const op = "intake.extract"
	logger := common.Logger()
	kind, ok := Detect(filename, contentType)
	if !ok {
		logger.Warn("intake: unsupported file", "filename", filename, "content_type", contentType)
		return "", apperrors.New(apperrors.KindFileRead, op,
			fmt.Sprintf("File error: unsupported file type %q (want txt, csv or docx)", filename))
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return "", apperrors.Wrapf(apperrors.KindFileRead, op, err, "File error: could not read %s", filename)
	}
	if len(data) > MaxUploadBytes {
		return "", apperrors.New(apperrors.KindFileRead, op,
			fmt.Sprintf("File error: %s is larger than %d bytes", filename, MaxUploadBytes))
	}

	var text string
	switch kind {
	case KindText:
		text, err = loadText(ctx, data)
	case KindCSV:
		text, err = loadCSV(ctx, data)
	case KindDOCX:
		text, err = loadDOCX(data)
	}
	if err != nil {
		logger.Warn("intake: file could not be read", "filename", filename, "kind", kind, "error", err)
		return "", apperrors.Wrapf(apperrors.KindFileRead, op, err, "File error: could not read %s", filename)
	}
	logger.Info("intake: file extracted", "filename", filename, "kind", kind, "length", len(text))
	return text, nil
}

// Resolve returns the extracted blob when it has content, otherwise the
// manually entered text.
func Resolve(blob, manual string) string {
	if strings.TrimSpace(blob) != "" {
		return blob
	}
	return manual
}

func loadText(ctx context.Context, data []byte) (string, error) {
	docs, err := documentloaders.NewText(bytes.NewReader(data)).Load(ctx)
	if err != nil {
		return "", err
	}
	return joinDocuments(docs, ""), nil
}

// Each CSV row becomes "column: value" lines; rows are separated by a blank line.
func loadCSV(ctx context.Context, data []byte) (string, error) {
	docs, err := documentloaders.NewCSV(bytes.NewReader(data)).Load(ctx)
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "", errors.New("csv has no data rows")
	}
	return joinDocuments(docs, "\n\n"), nil
}

// Paragraphs are joined by "\n"; line breaks inside a paragraph are kept.
func loadDOCX(data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "xcgen-upload-*.docx")
	if err != nil {
		return "", err
	}
	path := tmp.Name()
	defer os.Remove(path)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	doc, err := godocx.OpenDocument(path)
	if err != nil {
		return "", err
	}
	if doc.Document == nil || doc.Document.Body == nil {
		return "", errors.New("docx has no body")
	}
	var paragraphs []string
	for _, child := range doc.Document.Body.Children {
		if child.Para != nil {
			paragraphs = append(paragraphs, paragraphText(child.Para.GetCT()))
		}
	}
	return strings.Join(paragraphs, "\n"), nil
}

func paragraphText(p *ctypes.Paragraph) string {
	var b strings.Builder
	for _, child := range p.Children {
		if child.Run == nil {
			continue
		}
		for _, rc := range child.Run.Children {
			switch {
			case rc.Text != nil:
				b.WriteString(rc.Text.Text)
			case rc.Break != nil:
				b.WriteByte('\n')
			case rc.Tab != nil:
				b.WriteByte('\t')
			}
		}
	}
	return b.String()
}

func joinDocuments(docs []schema.Document, sep string) string {
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		parts = append(parts, doc.PageContent)
	}
	return strings.Join(parts, sep)
}
