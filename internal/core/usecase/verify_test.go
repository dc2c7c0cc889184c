package usecase

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/kirillkom/estate-docs/internal/core/domain"
	"github.com/kirillkom/estate-docs/internal/infrastructure/repository/memory"
)

type inspectorFake struct {
	report domain.ContentReport
	err    error
}

func (f inspectorFake) Inspect(context.Context, string, []byte) (domain.ContentReport, error) {
	return f.report, f.err
}

type scannerFake struct {
	err error
}

func (f scannerFake) Scan(_ context.Context, content io.Reader) error {
	if _, err := io.ReadAll(content); err != nil {
		return err
	}
	return f.err
}

func verifyFixture(t *testing.T) (*repoFake, *storageFake) {
	t.Helper()
	repo := newRepoFake(domain.Document{
		ID:          "doc-1",
		FileType:    "pdf",
		StoragePath: "doc-1_deed.pdf",
		Status:      domain.StatusPendingReview,
	})
	storage := newStorageFake()
	storage.objects["doc-1_deed.pdf"] = []byte("%PDF-1.4 body")
	return repo, storage
}

func TestVerifyMarksDocumentAuthenticated(t *testing.T) {
	repo, storage := verifyFixture(t)
	uc := NewVerifyUseCase(repo, storage, inspectorFake{report: domain.ContentReport{Format: "pdf", PageCount: 3}}, scannerFake{}, 0)

	if err := uc.VerifyByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("VerifyByID() error = %v", err)
	}
	doc := repo.docs[0]
	if !doc.IsAuthenticated || doc.PageCount != 3 {
		t.Fatalf("expected authenticated doc with 3 pages, got %+v", doc)
	}
	if len(doc.Checksum) != 64 {
		t.Fatalf("expected sha256 checksum, got %q", doc.Checksum)
	}
	if doc.Status != domain.StatusPendingReview {
		t.Fatalf("verification must not change status, got %s", doc.Status)
	}
}

func TestVerifyInfectedDocumentIsRejected(t *testing.T) {
	repo, storage := verifyFixture(t)
	infected := domain.WrapError(domain.ErrInfected, "clamav scan", errors.New("Eicar-Test-Signature"))
	uc := NewVerifyUseCase(repo, storage, inspectorFake{}, scannerFake{err: infected}, 0)

	err := uc.VerifyByID(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrInfected) {
		t.Fatalf("expected infected error, got %v", err)
	}
	doc := repo.docs[0]
	if doc.IsAuthenticated || doc.VerificationNote == "" {
		t.Fatalf("expected unauthenticated doc with note, got %+v", doc)
	}
}

func TestVerifyFormatMismatchIsRecorded(t *testing.T) {
	repo, storage := verifyFixture(t)
	mismatch := domain.WrapError(domain.ErrInvalidInput, "inspect pdf", errors.New("not a pdf"))
	uc := NewVerifyUseCase(repo, storage, inspectorFake{err: mismatch}, nil, 0)

	err := uc.VerifyByID(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if len(repo.verified) != 1 || repo.verified[0].Note == "" {
		t.Fatalf("expected note persisted, got %+v", repo.verified)
	}
}

func TestVerifyScannerOutageLeavesDocumentUntouched(t *testing.T) {
	repo, storage := verifyFixture(t)
	outage := domain.WrapError(domain.ErrTemporary, "clamav scan", errors.New("connection refused"))
	uc := NewVerifyUseCase(repo, storage, inspectorFake{}, scannerFake{err: outage}, 0)

	err := uc.VerifyByID(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error, got %v", err)
	}
	if len(repo.verified) != 0 {
		t.Fatalf("expected no update on scanner outage")
	}
}

func TestVerifyRejectsOversizedObject(t *testing.T) {
	repo, storage := verifyFixture(t)
	uc := NewVerifyUseCase(repo, storage, inspectorFake{}, nil, 4)

	err := uc.VerifyByID(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for oversized object, got %v", err)
	}
}

// gatedStorage hands out the object and then blocks until released, holding the
// verifier between its read and its write.
type gatedStorage struct {
	*storageFake
	opened  chan struct{}
	release chan struct{}
}

func (g *gatedStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := g.storageFake.Open(ctx, key)
	close(g.opened)
	<-g.release
	return rc, err
}

func TestVerifyKeepsApprovalMadeDuringScan(t *testing.T) {
	repo := memory.NewDocumentRepository(domain.Document{
		ID:          "d1",
		Category:    domain.CategoryLandProperty,
		FileType:    "pdf",
		StoragePath: "d1_deed.pdf",
		Status:      domain.StatusPendingReview,
		Version:     1,
	})
	storage := &gatedStorage{
		storageFake: newStorageFake(),
		opened:      make(chan struct{}),
		release:     make(chan struct{}),
	}
	storage.objects["d1_deed.pdf"] = []byte("%PDF-1.4 body")

	verifier := NewVerifyUseCase(repo, storage, inspectorFake{report: domain.ContentReport{Format: "pdf", PageCount: 2}}, nil, 0)
	reviewer := NewReviewUseCase(repo)

	done := make(chan error, 1)
	go func() { done <- verifier.VerifyByID(context.Background(), "d1") }()
	<-storage.opened

	if _, err := reviewer.Transition(context.Background(), "d1", domain.StatusApproved, "Manager"); err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	close(storage.release)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("VerifyByID() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("verification did not finish")
	}

	doc, err := repo.GetByID(context.Background(), "d1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if doc.Status != domain.StatusApproved || doc.ApprovedBy != "Manager" || doc.Version != 2 {
		t.Fatalf("approval lost: status=%s approved_by=%q version=%d", doc.Status, doc.ApprovedBy, doc.Version)
	}
	if !doc.IsAuthenticated || doc.PageCount != 2 || doc.Checksum == "" {
		t.Fatalf("verification lost: %+v", doc)
	}
}
