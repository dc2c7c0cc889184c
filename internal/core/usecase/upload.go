package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/estate-docs/internal/core/domain"
	"github.com/kirillkom/estate-docs/internal/core/ports"
)

const defaultUploader = "system"

type UploadUseCase struct {
	repo    ports.DocumentRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
	graph   ports.ReferenceGraph

	fiscalYearStartMonth int
	now                  func() time.Time
}

func NewUploadUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	graph ports.ReferenceGraph,
	fiscalYearStartMonth int,
) *UploadUseCase {
	return &UploadUseCase{
		repo:                 repo,
		storage:              storage,
		queue:                queue,
		graph:                graph,
		fiscalYearStartMonth: fiscalYearStartMonth,
		now:                  func() time.Time { return time.Now().UTC() },
	}
}

// Upload files every attached file under the shared form metadata. Each file gets its
// own document number, so names derived from one submission never collide.
// On failure the documents filed so far are returned alongside the error, including
// one whose record was created before its upload event failed to publish.
func (uc *UploadUseCase) Upload(ctx context.Context, form domain.UploadFormData) ([]domain.Document, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	meta := uploadMeta{
		fiscalYear: domain.FiscalYearLabel(form.DocumentDate, uc.fiscalYearStartMonth),
		tags:       domain.NormalizeTags(form.Tags),
		references: domain.NormalizeTags(form.CrossReferences),
		uploadedBy: strings.TrimSpace(form.UploadedBy),
	}
	if meta.uploadedBy == "" {
		meta.uploadedBy = defaultUploader
	}

	docs := make([]domain.Document, 0, len(form.Files))
	for _, file := range form.Files {
		doc, err := uc.uploadOne(ctx, form, file, meta)
		if doc != nil {
			docs = append(docs, *doc)
		}
		if err != nil {
			return docs, err
		}
	}
	return docs, nil
}

type uploadMeta struct {
	fiscalYear string
	tags       []string
	references []string
	uploadedBy string
}

func (uc *UploadUseCase) uploadOne(
	ctx context.Context,
	form domain.UploadFormData,
	file domain.UploadFile,
	meta uploadMeta,
) (*domain.Document, error) {
	seq, err := uc.repo.NextSequence(ctx, form.Category, meta.fiscalYear)
	if err != nil {
		return nil, fmt.Errorf("allocate document number: %w", err)
	}
	number := domain.FormatDocumentNumber(seq)
	fileName := domain.DeriveFileName(
		form.Category, meta.fiscalYear, number,
		form.ProjectName, form.LegalEntity, form.DocumentDate,
		file.Name,
	)

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, fileName)
	body := &countingReader{r: file.Body}
	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	size := file.Size
	if size <= 0 {
		size = body.n
	}
	now := uc.now()
	doc := &domain.Document{
		ID:              id,
		FileName:        fileName,
		OriginalName:    file.Name,
		Category:        form.Category,
		Subcategory:     form.Subcategory,
		ProjectName:     strings.TrimSpace(form.ProjectName),
		LegalEntity:     strings.TrimSpace(form.LegalEntity),
		DocumentDate:    form.DocumentDate,
		UploadDate:      now,
		FiscalYear:      meta.fiscalYear,
		DocumentNumber:  number,
		Status:          domain.InitialStatus(form.IsWIP),
		FileSize:        size,
		FileType:        domain.FileExtension(file.Name),
		UploadedBy:      meta.uploadedBy,
		Tags:            meta.tags,
		CrossReferences: meta.references,
		Notes:           strings.TrimSpace(form.Notes),
		Version:         1,
		QRCode:          "estate-docs://documents/" + id,
		Barcode:         fileName,
		StoragePath:     storageKey,
		UpdatedAt:       now,
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document metadata: %w", err)
	}

	if len(meta.references) > 0 && uc.graph != nil {
		if err := uc.graph.LinkReferences(ctx, doc.ID, meta.references); err != nil {
			slog.Warn("link_references_failed", "document_id", doc.ID, "error", err)
		}
	}

	// The record already exists, so the caller still gets it back.
	if err := uc.queue.PublishDocumentUploaded(ctx, doc.ID); err != nil {
		return doc, fmt.Errorf("publish upload event: %w", err)
	}

	return doc, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
