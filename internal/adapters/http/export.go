package httpadapter

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/estate-docs/internal/core/domain"
)

const (
	exportSheet       = "Documents"
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportDisposition = `attachment; filename="documents.xlsx"`
)

var exportHeader = []any{
	"ID", "File Name", "Original Name", "Category", "Subcategory", "Project", "Legal Entity",
	"Document Date", "Fiscal Year", "Number", "Status", "Approved", "WIP", "Authenticated",
	"Uploaded By", "Approved By", "Upload Date", "Tags", "Cross References", "Version",
}

func (rt *Router) exportDocuments(w http.ResponseWriter, r *http.Request) {
	query, filters, err := parseSearchQuery(r.URL.Query())
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	docs, err := rt.catalog.Search(r.Context(), query, filters)
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}

	book, err := buildWorkbook(docs)
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	defer func() {
		_ = book.Close()
	}()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", exportDisposition)
	w.WriteHeader(http.StatusOK)
	if err := book.Write(w); err != nil {
		slog.Error("xlsx_write_failed", "request_id", requestIDFromContext(r.Context()), "error", err)
	}
}

func buildWorkbook(docs []domain.Document) (*excelize.File, error) {
	book := excelize.NewFile()
	if err := book.SetSheetName("Sheet1", exportSheet); err != nil {
		_ = book.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := book.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		_ = book.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, doc := range docs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = book.Close()
			return nil, fmt.Errorf("cell name: %w", err)
		}
		row := []any{
			doc.ID, doc.FileName, doc.OriginalName, string(doc.Category), doc.Subcategory,
			doc.ProjectName, doc.LegalEntity, doc.DocumentDate.Format(dateLayout), doc.FiscalYear,
			doc.DocumentNumber, string(doc.Status), doc.IsApproved(), doc.IsWIP(), doc.IsAuthenticated,
			doc.UploadedBy, doc.ApprovedBy, doc.UploadDate.Format(dateLayout),
			strings.Join(doc.Tags, ", "), strings.Join(doc.CrossReferences, ", "), doc.Version,
		}
		if err := book.SetSheetRow(exportSheet, cell, &row); err != nil {
			_ = book.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return book, nil
}
