package memory

import (
	"context"
	"testing"

	"github.com/kirillkom/estate-docs/internal/core/domain"
)

func TestCreateGetList(t *testing.T) {
	repo := NewDocumentRepository()
	ctx := context.Background()

	doc := &domain.Document{ID: "a", Category: domain.CategoryCompliance, Tags: []string{"rera"}}
	if err := repo.Create(ctx, doc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	doc.Tags[0] = "mutated"

	got, err := repo.GetByID(ctx, "a")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Tags[0] != "rera" {
		t.Fatalf("expected stored copy, got %v", got.Tags)
	}

	if err := repo.Create(ctx, &domain.Document{ID: "a"}); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}

	list, _ := repo.List(ctx)
	if len(list) != 1 {
		t.Fatalf("expected 1 document, got %d", len(list))
	}
}

func TestGetAndUpdateMissing(t *testing.T) {
	repo := NewDocumentRepository()
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, "missing"); !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := repo.Update(ctx, &domain.Document{ID: "missing"}); !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	repo := NewDocumentRepository(
		domain.Document{ID: "3"},
		domain.Document{ID: "1"},
		domain.Document{ID: "2"},
	)
	list, _ := repo.List(context.Background())
	if list[0].ID != "3" || list[1].ID != "1" || list[2].ID != "2" {
		t.Fatalf("unexpected order %v %v %v", list[0].ID, list[1].ID, list[2].ID)
	}
}

func TestNextSequenceContinuesAfterSeed(t *testing.T) {
	repo := NewDocumentRepository(domain.Document{
		ID:             "1",
		Category:       domain.CategoryLandProperty,
		FiscalYear:     "2025",
		DocumentNumber: "001",
	})
	ctx := context.Background()

	seq, _ := repo.NextSequence(ctx, domain.CategoryLandProperty, "2025")
	if seq != 2 {
		t.Fatalf("expected 2, got %d", seq)
	}
	seq, _ = repo.NextSequence(ctx, domain.CategoryLandProperty, "2026")
	if seq != 1 {
		t.Fatalf("expected fresh sequence per fiscal year, got %d", seq)
	}
}

func TestUpdateRequiresNextVersion(t *testing.T) {
	repo := NewDocumentRepository(domain.Document{ID: "a", Status: domain.StatusPendingReview, Version: 1})
	ctx := context.Background()

	stale := &domain.Document{ID: "a", Status: domain.StatusApproved, ApprovedBy: "Manager", Version: 1}
	if err := repo.Update(ctx, stale); !domain.IsKind(err, domain.ErrConflict) {
		t.Fatalf("expected conflict for unchanged version, got %v", err)
	}

	next := &domain.Document{ID: "a", Status: domain.StatusApproved, ApprovedBy: "Manager", Version: 2}
	if err := repo.Update(ctx, next); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ := repo.GetByID(ctx, "a")
	if got.Status != domain.StatusApproved || got.Version != 2 {
		t.Fatalf("unexpected stored doc %+v", got)
	}
}

func TestUpdatesDoNotOverwriteEachOther(t *testing.T) {
	repo := NewDocumentRepository(domain.Document{ID: "a", Status: domain.StatusPendingReview, Version: 1})
	ctx := context.Background()

	if err := repo.UpdateVerification(ctx, "a", domain.Verification{Checksum: "abc", PageCount: 4, IsAuthenticated: true}); err != nil {
		t.Fatalf("UpdateVerification() error = %v", err)
	}
	// A reviewer copy read before verification carries no checksum.
	if err := repo.Update(ctx, &domain.Document{ID: "a", Status: domain.StatusApproved, ApprovedBy: "Manager", Version: 2}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, _ := repo.GetByID(ctx, "a")
	if !got.IsAuthenticated || got.Checksum != "abc" || got.PageCount != 4 {
		t.Fatalf("verification overwritten: %+v", got)
	}
	if got.Status != domain.StatusApproved || got.ApprovedBy != "Manager" {
		t.Fatalf("review lost: %+v", got)
	}

	if err := repo.UpdateVerification(ctx, "missing", domain.Verification{}); !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
