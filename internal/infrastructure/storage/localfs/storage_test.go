package localfs

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/kirillkom/estate-docs/internal/core/domain"
)

func TestSaveAndOpen(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	if err := s.Save(ctx, "id_LAND_2025_001.pdf", strings.NewReader("deed")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	rc, err := s.Open(ctx, "id_LAND_2025_001.pdf")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	raw, _ := io.ReadAll(rc)
	if string(raw) != "deed" {
		t.Fatalf("expected deed, got %q", raw)
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	s, _ := New(t.TempDir())
	for _, key := range []string{"", "..", "../etc/passwd", `a\b`} {
		if err := s.Save(context.Background(), key, strings.NewReader("x")); !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("key %q: expected invalid input, got %v", key, err)
		}
	}
}

func TestOpenMissingIsNotFound(t *testing.T) {
	s, _ := New(t.TempDir())
	if _, err := s.Open(context.Background(), "nope.pdf"); !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
