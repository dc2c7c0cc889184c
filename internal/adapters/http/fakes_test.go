package httpadapter

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/estate-docs/internal/config"
	"github.com/kirillkom/estate-docs/internal/core/domain"
)

type catalogFake struct {
	docs        []domain.Document
	err         error
	gotQuery    string
	gotFilters  domain.SearchFilters
	gotPreview  domain.FileNameRequest
	previewName string
}

func (f *catalogFake) Search(_ context.Context, query string, filters domain.SearchFilters) ([]domain.Document, error) {
	f.gotQuery = query
	f.gotFilters = filters
	if f.err != nil {
		return nil, f.err
	}
	return domain.FilterDocuments(f.docs, query, filters), nil
}

func (f *catalogFake) Get(_ context.Context, id string) (*domain.Document, error) {
	for _, doc := range f.docs {
		if doc.ID == id {
			out := doc
			return &out, nil
		}
	}
	return nil, domain.WrapError(domain.ErrDocumentNotFound, "get", io.EOF)
}

func (f *catalogFake) Stats(context.Context) (domain.DashboardStats, error) {
	return domain.DashboardStats{
		Summary:    domain.SummarizeDocuments(f.docs),
		Categories: domain.ComputeCategoryStats(f.docs),
	}, nil
}

func (f *catalogFake) References(_ context.Context, id string) (*domain.ReferenceReport, error) {
	doc, err := f.Get(context.Background(), id)
	if err != nil {
		return nil, err
	}
	report := &domain.ReferenceReport{DocumentID: doc.ID, ReferencedBy: []string{}}
	for _, ref := range doc.CrossReferences {
		target, ok := domain.ResolveReference(f.docs, ref)
		report.References = append(report.References, domain.ResolvedReference{Reference: ref, DocumentID: target, Resolved: ok})
	}
	return report, nil
}

func (f *catalogFake) Categories() []domain.CategoryConfig {
	return domain.Categories()
}

func (f *catalogFake) PreviewFileName(_ context.Context, req domain.FileNameRequest) (string, error) {
	f.gotPreview = req
	return f.previewName, nil
}

type uploaderFake struct {
	got  domain.UploadFormData
	body []string
	err  error
}

func (f *uploaderFake) Upload(_ context.Context, form domain.UploadFormData) ([]domain.Document, error) {
	f.got = form
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	docs := make([]domain.Document, 0, len(form.Files))
	for i, file := range form.Files {
		raw, err := io.ReadAll(file.Body)
		if err != nil {
			return nil, err
		}
		f.body = append(f.body, string(raw))
		docs = append(docs, domain.Document{
			ID:           "new-" + file.Name,
			OriginalName: file.Name,
			Category:     form.Category,
			Status:       domain.InitialStatus(form.IsWIP),
			FileSize:     int64(len(raw)),
			Version:      i + 1,
		})
	}
	return docs, nil
}

type reviewerFake struct {
	err error
}

func (f reviewerFake) Transition(_ context.Context, id string, to domain.DocumentStatus, actor string) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Document{ID: id, Status: to, ApprovedBy: actor}, nil
}

type downloaderFake struct {
	docs   []domain.Document
	bodies map[string]string
}

func (f downloaderFake) Download(_ context.Context, id string) (*domain.Document, io.ReadCloser, error) {
	for _, doc := range f.docs {
		body, ok := f.bodies[doc.ID]
		if doc.ID == id && ok {
			out := doc
			return &out, io.NopCloser(strings.NewReader(body)), nil
		}
	}
	return nil, nil, domain.WrapError(domain.ErrDocumentNotFound, "download", io.EOF)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleDocuments() []domain.Document {
	return []domain.Document{
		{
			ID: "1", FileName: "LAND_2025_001_SUNRISE_VALLEY_ABC_DEVELOPERS_20250115.pdf", OriginalName: "Sale Deed - Plot 45.pdf",
			Category: domain.CategoryLandProperty, ProjectName: "Sunrise Valley", LegalEntity: "ABC Developers Pvt Ltd",
			DocumentDate: day("2025-01-15"), Status: domain.StatusApproved, Tags: []string{"sale deed", "plot 45"},
		},
		{
			ID: "2", FileName: "ACC_2025_INV_045_SUNRISE_VALLEY_ABC_DEVELOPERS_20250110.pdf", OriginalName: "Invoice - Contractor Payment.pdf",
			Category: domain.CategoryAccountingTax, ProjectName: "Sunrise Valley", LegalEntity: "ABC Developers Pvt Ltd",
			DocumentDate: day("2025-01-10"), Status: domain.StatusPendingReview, Tags: []string{"invoice", "contractor"},
			CrossReferences: []string{"VEN-2025-001"},
		},
		{
			ID: "3", FileName: "TECH_2025_002_SUNRISE_VALLEY_ABC_DEVELOPERS_20250108.pdf", OriginalName: "Blueprint - Tower A.pdf",
			Category: domain.CategoryTechnicalConstruction, ProjectName: "Sunrise Valley", LegalEntity: "ABC Developers Pvt Ltd",
			DocumentDate: day("2025-01-08"), Status: domain.StatusDraft, Tags: []string{"blueprint", "tower a"},
		},
	}
}

func newTestHandler(cfg config.Config, catalog *catalogFake, uploader *uploaderFake, reviewer reviewerFake) http.Handler {
	if catalog == nil {
		catalog = &catalogFake{docs: sampleDocuments()}
	}
	if uploader == nil {
		uploader = &uploaderFake{}
	}
	return NewRouter(cfg, catalog, uploader, reviewer, downloaderFake{docs: catalog.docs}, nil).Handler()
}
