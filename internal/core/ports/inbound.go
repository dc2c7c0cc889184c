package ports

import (
	"context"
	"io"

	"github.com/kirillkom/estate-docs/internal/core/domain"
)

// DocumentCatalog is the inbound read model: search, lookup and dashboard stats.
type DocumentCatalog interface {
	Search(ctx context.Context, query string, filters domain.SearchFilters) ([]domain.Document, error)
	Get(ctx context.Context, id string) (*domain.Document, error)
	Stats(ctx context.Context) (domain.DashboardStats, error)
	References(ctx context.Context, id string) (*domain.ReferenceReport, error)
	Categories() []domain.CategoryConfig
	PreviewFileName(ctx context.Context, req domain.FileNameRequest) (string, error)
}

// DocumentUploader is the inbound contract for upload orchestration.
type DocumentUploader interface {
	Upload(ctx context.Context, form domain.UploadFormData) ([]domain.Document, error)
}

// DocumentReviewer moves documents through the review lifecycle.
type DocumentReviewer interface {
	Transition(ctx context.Context, id string, to domain.DocumentStatus, actor string) (*domain.Document, error)
}

// DocumentVerifier is the inbound contract for asynchronous post-upload checks.
type DocumentVerifier interface {
	VerifyByID(ctx context.Context, documentID string) error
}

// DocumentDownloader streams the stored body of a filed document.
type DocumentDownloader interface {
	Download(ctx context.Context, id string) (*domain.Document, io.ReadCloser, error)
}
