package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/estate-docs/internal/core/domain"
	"github.com/kirillkom/estate-docs/internal/core/ports"
)

const dateLayout = "2006-01-02"

// Tools exposes the document catalog to assistants over MCP.
type Tools struct {
	catalog ports.DocumentCatalog
}

func NewTools(catalog ports.DocumentCatalog) *Tools {
	return &Tools{catalog: catalog}
}

func NewServer(catalog ports.DocumentCatalog, version string) *server.MCPServer {
	tools := NewTools(catalog)
	s := server.NewMCPServer("estate-docs", version, server.WithToolCapabilities(false))

	categoryIDs := make([]string, 0, len(domain.Categories()))
	for _, cfg := range domain.Categories() {
		categoryIDs = append(categoryIDs, string(cfg.ID))
	}
	statuses := make([]string, 0, 5)
	for _, st := range domain.DocumentStatuses() {
		statuses = append(statuses, string(st))
	}

	s.AddTool(mcp.NewTool("search_documents",
		mcp.WithDescription("Search filed documents by free text and filters."),
		mcp.WithString("query", mcp.Description("Matches original name, project, legal entity and tags.")),
		mcp.WithString("category", mcp.Enum(categoryIDs...)),
		mcp.WithString("status", mcp.Enum(statuses...)),
		mcp.WithString("project", mcp.Description("Project name substring.")),
		mcp.WithString("entity", mcp.Description("Legal entity substring.")),
		mcp.WithString("file_name", mcp.Description("Generated file name substring.")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags; all must be present.")),
		mcp.WithString("date_from", mcp.Description("Inclusive YYYY-MM-DD.")),
		mcp.WithString("date_to", mcp.Description("Inclusive YYYY-MM-DD.")),
	), tools.SearchDocuments)

	s.AddTool(mcp.NewTool("derive_file_name",
		mcp.WithDescription("Preview the standardized stored name for a document."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Unregistered categories use the DOC prefix.")),
		mcp.WithString("document_number", mcp.Required()),
		mcp.WithString("document_date", mcp.Required(), mcp.Description("YYYY-MM-DD.")),
		mcp.WithString("project_name"),
		mcp.WithString("legal_entity"),
		mcp.WithString("fiscal_year", mcp.Description("Defaults to the year bucket of document_date.")),
		mcp.WithString("original_file_name"),
	), tools.DeriveFileName)

	s.AddTool(mcp.NewTool("category_stats",
		mcp.WithDescription("Dashboard totals: per-category counts plus pending review, WIP and approved."),
	), tools.CategoryStats)

	s.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("The category registry with subcategories and file-name prefixes."),
	), tools.ListCategories)

	return s
}

type documentSummary struct {
	ID           string `json:"id"`
	FileName     string `json:"file_name"`
	OriginalName string `json:"original_name"`
	Category     string `json:"category"`
	Project      string `json:"project_name"`
	Entity       string `json:"legal_entity"`
	DocumentDate string `json:"document_date"`
	Status       string `json:"status"`
}

func (t *Tools) SearchDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var filters domain.SearchFilters
	if raw := strings.TrimSpace(request.GetString("category", "")); raw != "" {
		category, err := domain.ParseCategory(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		filters.Category = &category
	}
	if raw := strings.TrimSpace(request.GetString("status", "")); raw != "" {
		status, err := domain.ParseDocumentStatus(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		filters.Status = &status
	}
	var err error
	if filters.DateFrom, err = optionalDate(request, "date_from"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if filters.DateTo, err = optionalDate(request, "date_to"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	filters.ProjectName = strings.TrimSpace(request.GetString("project", ""))
	filters.LegalEntity = strings.TrimSpace(request.GetString("entity", ""))
	filters.FileName = strings.TrimSpace(request.GetString("file_name", ""))
	if tags := domain.NormalizeTags(strings.Split(request.GetString("tags", ""), ",")); len(tags) > 0 {
		filters.Tags = tags
	}

	docs, err := t.catalog.Search(ctx, strings.TrimSpace(request.GetString("query", "")), filters)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}

	out := make([]documentSummary, 0, len(docs))
	for _, doc := range docs {
		out = append(out, documentSummary{
			ID:           doc.ID,
			FileName:     doc.FileName,
			OriginalName: doc.OriginalName,
			Category:     string(doc.Category),
			Project:      doc.ProjectName,
			Entity:       doc.LegalEntity,
			DocumentDate: doc.DocumentDate.Format(dateLayout),
			Status:       string(doc.Status),
		})
	}
	return jsonResult(out)
}

func (t *Tools) DeriveFileName(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := optionalDate(request, "document_date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	req := domain.FileNameRequest{
		Category:         domain.Category(strings.TrimSpace(request.GetString("category", ""))),
		FiscalYear:       request.GetString("fiscal_year", ""),
		DocumentNumber:   request.GetString("document_number", ""),
		ProjectName:      request.GetString("project_name", ""),
		LegalEntity:      request.GetString("legal_entity", ""),
		OriginalFileName: request.GetString("original_file_name", ""),
	}
	if date != nil {
		req.DocumentDate = *date
	}

	name, err := t.catalog.PreviewFileName(ctx, req)
	if err != nil {
		if domain.IsKind(err, domain.ErrInvalidInput) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, err
	}
	return mcp.NewToolResultText(name), nil
}

func (t *Tools) CategoryStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := t.catalog.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}
	return jsonResult(stats)
}

func (t *Tools) ListCategories(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(t.catalog.Categories())
}

func optionalDate(request mcp.CallToolRequest, name string) (*time.Time, error) {
	raw := strings.TrimSpace(request.GetString(name, ""))
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%s %q must be YYYY-MM-DD", name, raw)
	}
	return &parsed, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}
