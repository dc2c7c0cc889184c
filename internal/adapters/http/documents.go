package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/estate-docs/internal/core/domain"
)

func (rt *Router) searchDocuments(w http.ResponseWriter, r *http.Request) {
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
	if rt.metrics != nil {
		rt.metrics.RecordSearch(serviceName, !filters.IsZero() || query != "", len(docs))
	}

	resp := searchResponse{Documents: docs, Total: len(docs), ActiveFilters: filters.ActiveCount()}
	if wantsMsgpack(r) {
		if err := writeMsgpack(w, http.StatusOK, resp.records()); err != nil {
			slog.Error("msgpack_encode_failed", "request_id", requestIDFromContext(r.Context()), "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := rt.catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) downloadDocument(w http.ResponseWriter, r *http.Request) {
	doc, body, err := rt.downloader.Download(r.Context(), r.PathValue("id"))
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	defer body.Close()

	contentType := mime.TypeByExtension("." + doc.FileType)
	if doc.FileType == "" || contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName}))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		slog.Warn("download_copy_failed",
			"request_id", requestIDFromContext(r.Context()),
			"document_id", doc.ID,
			"error", err,
		)
	}
}

func (rt *Router) documentReferences(w http.ResponseWriter, r *http.Request) {
	report, err := rt.catalog.References(r.Context(), r.PathValue("id"))
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (rt *Router) transitionDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
		Actor  string `json:"actor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	to, err := domain.ParseDocumentStatus(req.Status)
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}

	doc, err := rt.reviewer.Transition(r.Context(), r.PathValue("id"), to, req.Actor)
	if rt.metrics != nil {
		rt.metrics.RecordTransition(serviceName, string(to), err)
	}
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) previewFileName(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category         string `json:"category"`
		FiscalYear       string `json:"fiscal_year"`
		DocumentNumber   string `json:"document_number"`
		ProjectName      string `json:"project_name"`
		LegalEntity      string `json:"legal_entity"`
		DocumentDate     string `json:"document_date"`
		OriginalFileName string `json:"original_file_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	documentDate, err := time.Parse(dateLayout, strings.TrimSpace(req.DocumentDate))
	if err != nil {
		writeError(w, http.StatusBadRequest, "document_date must be YYYY-MM-DD")
		return
	}

	name, err := rt.catalog.PreviewFileName(r.Context(), domain.FileNameRequest{
		Category:         domain.Category(strings.TrimSpace(req.Category)),
		FiscalYear:       req.FiscalYear,
		DocumentNumber:   req.DocumentNumber,
		ProjectName:      req.ProjectName,
		LegalEntity:      req.LegalEntity,
		DocumentDate:     documentDate,
		OriginalFileName: req.OriginalFileName,
	})
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"file_name": name})
}

func (rt *Router) uploadDocuments(w http.ResponseWriter, r *http.Request) {
	if rt.cfg.UploadMaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.UploadMaxBytes)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "multipart form expected")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	form, closeFiles, err := readUploadForm(r)
	defer closeFiles()
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}

	docs, err := rt.uploader.Upload(r.Context(), form)
	if rt.metrics != nil {
		for _, doc := range docs {
			rt.metrics.RecordUpload(serviceName, string(doc.Category), string(doc.Status), doc.FileSize)
		}
	}
	if err != nil {
		status := mapErrorToHTTPStatus(err)
		if len(docs) == 0 {
			rt.writeDomainError(w, r, err)
			return
		}
		slog.Warn("upload_partially_filed", "request_id", requestIDFromContext(r.Context()), "filed", len(docs), "error", err)
		writeJSON(w, status, map[string]any{"error": errorMessage(err, status), "documents": docs})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"documents": docs})
}

// readUploadForm maps the parsed multipart form onto the upload contract. The returned
// closer releases every opened file part and is safe to call on error.
func readUploadForm(r *http.Request) (domain.UploadFormData, func(), error) {
	mf := r.MultipartForm
	var opened []interface{ Close() error }
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	form := domain.UploadFormData{
		Category:        domain.Category(strings.TrimSpace(r.FormValue("category"))),
		Subcategory:     strings.TrimSpace(r.FormValue("subcategory")),
		ProjectName:     r.FormValue("project_name"),
		LegalEntity:     r.FormValue("legal_entity"),
		Notes:           r.FormValue("notes"),
		UploadedBy:      r.FormValue("uploaded_by"),
		Tags:            splitList(mf.Value["tags"]),
		CrossReferences: splitList(mf.Value["cross_references"]),
	}

	if raw := strings.TrimSpace(r.FormValue("document_date")); raw != "" {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			return form, closeAll, domain.WrapError(domain.ErrInvalidInput, "parse upload form",
				fmt.Errorf("document_date %q must be YYYY-MM-DD", raw))
		}
		form.DocumentDate = date
	}
	if raw := strings.TrimSpace(r.FormValue("is_wip")); raw != "" {
		switch strings.ToLower(raw) {
		case "true", "1", "on", "yes":
			form.IsWIP = true
		case "false", "0", "off", "no":
		default:
			return form, closeAll, domain.WrapError(domain.ErrInvalidInput, "parse upload form",
				fmt.Errorf("is_wip %q is not a boolean", raw))
		}
	}

	for _, header := range mf.File["files"] {
		file, err := header.Open()
		if err != nil {
			return form, closeAll, fmt.Errorf("open upload part %q: %w", header.Filename, err)
		}
		opened = append(opened, file)
		form.Files = append(form.Files, domain.UploadFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		})
	}
	return form, closeAll, nil
}
