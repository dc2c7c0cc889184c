package usecase

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kirillkom/estate-docs/internal/core/domain"
	"github.com/kirillkom/estate-docs/internal/core/ports"
)

const defaultVerifyMaxBytes = 64 << 20

// VerifyUseCase authenticates stored uploads: checksum, optional malware scan and a
// format check. A document passing every step is marked authenticated.
type VerifyUseCase struct {
	repo      ports.DocumentRepository
	storage   ports.ObjectStorage
	inspector ports.ContentInspector
	scanner   ports.MalwareScanner
	maxBytes  int64
	now       func() time.Time
}

// NewVerifyUseCase accepts a nil scanner when malware scanning is disabled.
func NewVerifyUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	inspector ports.ContentInspector,
	scanner ports.MalwareScanner,
	maxBytes int64,
) *VerifyUseCase {
	if maxBytes <= 0 {
		maxBytes = defaultVerifyMaxBytes
	}
	return &VerifyUseCase{
		repo:      repo,
		storage:   storage,
		inspector: inspector,
		scanner:   scanner,
		maxBytes:  maxBytes,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (uc *VerifyUseCase) VerifyByID(ctx context.Context, documentID string) error {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	content, err := uc.readContent(ctx, doc)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(content)
	result := domain.Verification{Checksum: hex.EncodeToString(sum[:])}

	if err := uc.scan(ctx, content); err != nil {
		if domain.IsKind(err, domain.ErrInfected) {
			return uc.reject(ctx, doc.ID, result, err)
		}
		return err
	}

	report, err := uc.inspector.Inspect(ctx, doc.FileType, content)
	if err != nil {
		if domain.IsKind(err, domain.ErrInvalidInput) {
			return uc.reject(ctx, doc.ID, result, err)
		}
		return fmt.Errorf("inspect content: %w", err)
	}

	result.PageCount = report.PageCount
	result.IsAuthenticated = true
	return uc.persist(ctx, doc.ID, result)
}

func (uc *VerifyUseCase) readContent(ctx context.Context, doc *domain.Document) ([]byte, error) {
	rc, err := uc.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open stored object: %w", err)
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, uc.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read stored object: %w", err)
	}
	if int64(len(content)) > uc.maxBytes {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read stored object",
			fmt.Errorf("object exceeds %d bytes", uc.maxBytes))
	}
	if len(content) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read stored object", errors.New("empty object"))
	}
	return content, nil
}

func (uc *VerifyUseCase) scan(ctx context.Context, content []byte) error {
	if uc.scanner == nil {
		return nil
	}
	if err := uc.scanner.Scan(ctx, bytes.NewReader(content)); err != nil {
		return fmt.Errorf("malware scan: %w", err)
	}
	return nil
}

// reject records the failure reason and keeps the document unauthenticated.
func (uc *VerifyUseCase) reject(ctx context.Context, id string, result domain.Verification, cause error) error {
	result.IsAuthenticated = false
	result.Note = cause.Error()
	if err := uc.persist(ctx, id, result); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// persist writes only the verification fields, so review transitions made while
// the content was being read and scanned survive.
func (uc *VerifyUseCase) persist(ctx context.Context, id string, result domain.Verification) error {
	result.CheckedAt = uc.now()
	if err := uc.repo.UpdateVerification(ctx, id, result); err != nil {
		return fmt.Errorf("save verification: %w", err)
	}
	return nil
}
