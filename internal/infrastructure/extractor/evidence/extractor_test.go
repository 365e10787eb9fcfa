package evidence

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/domain"
)

type memoryStorage struct {
	files map[string][]byte
}

func (s *memoryStorage) Save(ctx context.Context, key string, data io.Reader) error {
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	s.files[key] = raw
	return nil
}

func (s *memoryStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	raw, ok := s.files[key]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "open object", errors.New(key))
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

func TestExtractTextPlainUTF8(t *testing.T) {
	storage := &memoryStorage{files: map[string][]byte{
		"u-1/ev-1_notes.txt": []byte("  Pickup was 45 minutes late.\n"),
	}}
	ex := NewExtractor(storage)

	text, err := ex.ExtractText(context.Background(), &domain.Evidence{
		Filename:    "notes.txt",
		MimeType:    "text/plain",
		StoragePath: "u-1/ev-1_notes.txt",
	})
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if text != "Pickup was 45 minutes late." {
		t.Fatalf("text = %q", text)
	}
}

func TestExtractTextRejectsBinary(t *testing.T) {
	storage := &memoryStorage{files: map[string][]byte{
		"u-1/ev-1_photo.jpg": {0xFF, 0xD8, 0xFF, 0xE0, 0x00},
	}}
	ex := NewExtractor(storage)

	_, err := ex.ExtractText(context.Background(), &domain.Evidence{
		Filename:    "photo.jpg",
		MimeType:    "image/jpeg",
		StoragePath: "u-1/ev-1_photo.jpg",
	})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestExtractTextMissingFile(t *testing.T) {
	ex := NewExtractor(&memoryStorage{files: map[string][]byte{}})

	_, err := ex.ExtractText(context.Background(), &domain.Evidence{
		Filename:    "gone.txt",
		StoragePath: "u-1/ev-1_gone.txt",
	})
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestTruncateUTF8BacksUpToRuneStart(t *testing.T) {
	// "é" is two bytes; cutting inside it must back up to the rune start.
	s := "aé"
	if got := truncateUTF8(s, 2); got != "a" {
		t.Fatalf("truncateUTF8(%q, 2) = %q", s, got)
	}
	if got := truncateUTF8(s, 3); got != s {
		t.Fatalf("truncateUTF8(%q, 3) = %q", s, got)
	}
}

func TestExtractTextCapsLength(t *testing.T) {
	big := strings.Repeat("a", maxTextBytes+500)
	storage := &memoryStorage{files: map[string][]byte{
		"u-1/ev-1_big.txt": []byte(big),
	}}
	ex := NewExtractor(storage)

	text, err := ex.ExtractText(context.Background(), &domain.Evidence{
		Filename:    "big.txt",
		MimeType:    "text/plain",
		StoragePath: "u-1/ev-1_big.txt",
	})
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if len(text) != maxTextBytes {
		t.Fatalf("len(text) = %d, want %d", len(text), maxTextBytes)
	}
}
