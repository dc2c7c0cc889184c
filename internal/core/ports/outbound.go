package ports

import (
	"context"
	"io"

	"github.com/kirillkom/estate-docs/internal/core/domain"
)

// DocumentRepository persists and reads filed documents.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context) ([]domain.Document, error)
	// Update writes the reviewer-owned fields (status, approver, tags, references, notes).
	// doc.Version must be exactly one past the stored version, otherwise ErrConflict.
	Update(ctx context.Context, doc *domain.Document) error
	// UpdateVerification writes only checksum, page count, authenticity and note.
	UpdateVerification(ctx context.Context, id string, v domain.Verification) error
	// NextSequence allocates the next document number within (category, fiscal year).
	NextSequence(ctx context.Context, category domain.Category, fiscalYear string) (int, error)
}

// ObjectStorage stores uploaded file bodies.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes upload events.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// ReferenceGraph tracks cross-reference edges between documents.
type ReferenceGraph interface {
	LinkReferences(ctx context.Context, documentID string, references []string) error
	ReferencedBy(ctx context.Context, keys ...string) ([]string, error)
}

// ContentInspector checks that stored bytes match the declared file type.
type ContentInspector interface {
	Inspect(ctx context.Context, fileType string, content []byte) (domain.ContentReport, error)
}

// MalwareScanner returns an ErrInfected-kind error for infected content.
type MalwareScanner interface {
	Scan(ctx context.Context, content io.Reader) error
}
