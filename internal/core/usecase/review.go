package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kirillkom/estate-docs/internal/core/domain"
	"github.com/kirillkom/estate-docs/internal/core/ports"
)

// maxTransitionAttempts bounds re-reads when a concurrent review bumps the version.
const maxTransitionAttempts = 3

type ReviewUseCase struct {
	repo ports.DocumentRepository
	now  func() time.Time
}

func NewReviewUseCase(repo ports.DocumentRepository) *ReviewUseCase {
	return &ReviewUseCase{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (uc *ReviewUseCase) Transition(ctx context.Context, id string, to domain.DocumentStatus, actor string) (*domain.Document, error) {
	actor = strings.TrimSpace(actor)
	if to == domain.StatusApproved && actor == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "transition", errors.New("approver is required"))
	}

	var lastErr error
	for range maxTransitionAttempts {
		doc, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("fetch document by id: %w", err)
		}
		// Re-validated on every attempt: a concurrent review may have moved the status.
		if err := doc.Status.Transition(to); err != nil {
			return nil, err
		}

		doc.Status = to
		if to == domain.StatusApproved {
			doc.ApprovedBy = actor
		}
		doc.Version++
		doc.UpdatedAt = uc.now()

		err = uc.repo.Update(ctx, doc)
		if err == nil {
			return doc, nil
		}
		if !domain.IsKind(err, domain.ErrConflict) {
			return nil, fmt.Errorf("persist status: %w", err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("persist status: %w", lastErr)
}
