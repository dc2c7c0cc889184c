package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kirillkom/estate-docs/internal/core/domain"
	"github.com/kirillkom/estate-docs/internal/core/ports"
)

type DownloadUseCase struct {
	repo    ports.DocumentRepository
	storage ports.ObjectStorage
}

func NewDownloadUseCase(repo ports.DocumentRepository, storage ports.ObjectStorage) *DownloadUseCase {
	return &DownloadUseCase{repo: repo, storage: storage}
}

// Download returns the document metadata and an open reader over its stored body.
// The caller closes the reader.
func (uc *DownloadUseCase) Download(ctx context.Context, id string) (*domain.Document, io.ReadCloser, error) {
	doc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch document by id: %w", err)
	}
	if doc.StoragePath == "" {
		return nil, nil, domain.WrapError(domain.ErrDocumentNotFound, "download",
			errors.New("document has no stored file"))
	}
	body, err := uc.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open stored file: %w", err)
	}
	return doc, body, nil
}
