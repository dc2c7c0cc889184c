package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kirillkom/estate-docs/internal/core/domain"
	"github.com/kirillkom/estate-docs/internal/core/ports"
)

type CatalogUseCase struct {
	repo  ports.DocumentRepository
	graph ports.ReferenceGraph

	fiscalYearStartMonth int
}

func NewCatalogUseCase(repo ports.DocumentRepository, graph ports.ReferenceGraph, fiscalYearStartMonth int) *CatalogUseCase {
	return &CatalogUseCase{repo: repo, graph: graph, fiscalYearStartMonth: fiscalYearStartMonth}
}

func (uc *CatalogUseCase) Categories() []domain.CategoryConfig {
	return domain.Categories()
}

// PreviewFileName derives the stored name for the given inputs without allocating a number.
func (uc *CatalogUseCase) PreviewFileName(_ context.Context, req domain.FileNameRequest) (string, error) {
	var problems []error
	if strings.TrimSpace(string(req.Category)) == "" {
		problems = append(problems, errors.New("category is required"))
	}
	if req.DocumentDate.IsZero() {
		problems = append(problems, errors.New("document date is required"))
	}
	if strings.TrimSpace(req.DocumentNumber) == "" {
		problems = append(problems, errors.New("document number is required"))
	}
	if len(problems) > 0 {
		return "", domain.WrapError(domain.ErrInvalidInput, "preview file name", errors.Join(problems...))
	}

	fiscalYear := strings.TrimSpace(req.FiscalYear)
	if fiscalYear == "" {
		fiscalYear = domain.FiscalYearLabel(req.DocumentDate, uc.fiscalYearStartMonth)
	}
	return domain.DeriveFileName(
		req.Category, fiscalYear, strings.TrimSpace(req.DocumentNumber),
		req.ProjectName, req.LegalEntity, req.DocumentDate,
		req.OriginalFileName,
	), nil
}

func (uc *CatalogUseCase) Search(ctx context.Context, query string, filters domain.SearchFilters) ([]domain.Document, error) {
	docs, err := uc.list(ctx)
	if err != nil {
		return nil, err
	}
	return domain.FilterDocuments(docs, query, filters), nil
}

func (uc *CatalogUseCase) Get(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	return doc, nil
}

func (uc *CatalogUseCase) Stats(ctx context.Context) (domain.DashboardStats, error) {
	docs, err := uc.list(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	return domain.DashboardStats{
		Summary:    domain.SummarizeDocuments(docs),
		Categories: domain.ComputeCategoryStats(docs),
	}, nil
}

// References resolves outbound cross-references against the catalog and collects
// the documents that point at id. Unknown references are reported as unresolved.
func (uc *CatalogUseCase) References(ctx context.Context, id string) (*domain.ReferenceReport, error) {
	doc, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	docs, err := uc.list(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.ReferenceReport{
		DocumentID:   doc.ID,
		References:   make([]domain.ResolvedReference, 0, len(doc.CrossReferences)),
		ReferencedBy: []string{},
	}
	for _, ref := range doc.CrossReferences {
		targetID, ok := domain.ResolveReference(docs, ref)
		report.References = append(report.References, domain.ResolvedReference{
			Reference:  ref,
			DocumentID: targetID,
			Resolved:   ok,
		})
	}

	if uc.graph != nil {
		inbound, err := uc.graph.ReferencedBy(ctx, domain.ReferenceKeys(*doc)...)
		if err != nil {
			return nil, fmt.Errorf("query reference graph: %w", err)
		}
		for _, sourceID := range inbound {
			if sourceID != doc.ID {
				report.ReferencedBy = append(report.ReferencedBy, sourceID)
			}
		}
	}
	return report, nil
}

func (uc *CatalogUseCase) list(ctx context.Context) ([]domain.Document, error) {
	docs, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}
