package evidence

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/domain"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/ports"
)

// maxTextBytes caps the text handed to the summarizer; court exhibits
// can run to hundreds of pages and the model only needs the substance.
const maxTextBytes = 200_000

// Extractor pulls plain text out of a stored evidence file. PDFs go
// through a text extractor; anything else must already be valid UTF-8.
type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) ExtractText(ctx context.Context, ev *domain.Evidence) (string, error) {
	reader, err := e.storage.Open(ctx, ev.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open evidence file: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read evidence file: %w", err)
	}

	var text string
	if isPDF(ev.MimeType, raw) {
		text, err = pdfText(raw)
		if err != nil {
			return "", fmt.Errorf("extract pdf text from %s: %w", ev.Filename, err)
		}
	} else {
		if !utf8.Valid(raw) {
			return "", domain.WrapError(domain.ErrInvalidInput, "extract evidence text",
				fmt.Errorf("unsupported binary format: %s (%s)", ev.Filename, ev.MimeType))
		}
		text = string(raw)
	}

	text = strings.TrimSpace(text)
	if len(text) > maxTextBytes {
		text = truncateUTF8(text, maxTextBytes)
	}
	return text, nil
}

func isPDF(mimeType string, raw []byte) bool {
	if mimeType == "application/pdf" {
		return true
	}
	return bytes.HasPrefix(raw, []byte("%PDF-"))
}

func pdfText(raw []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("collect pdf text: %w", err)
	}
	return buf.String(), nil
}

func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
