package httpadapter

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/kirillkom/estate-docs/internal/config"
	"github.com/kirillkom/estate-docs/internal/core/ports"
	"github.com/kirillkom/estate-docs/internal/observability/metrics"
)

const serviceName = "estate-api"

type Router struct {
	cfg      config.Config
	catalog  ports.DocumentCatalog
	uploader ports.DocumentUploader
	reviewer   ports.DocumentReviewer
	downloader ports.DocumentDownloader
	metrics    *metrics.HTTPServerMetrics
}

// NewRouter wires the HTTP surface. httpMetrics may be nil.
func NewRouter(
	cfg config.Config,
	catalog ports.DocumentCatalog,
	uploader ports.DocumentUploader,
	reviewer ports.DocumentReviewer,
	downloader ports.DocumentDownloader,
	httpMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:        cfg,
		catalog:    catalog,
		uploader:   uploader,
		reviewer:   reviewer,
		downloader: downloader,
		metrics:    httpMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	contract, err := loadContract()
	if err != nil {
		panic(fmt.Sprintf("embedded openapi contract: %v", err))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /openapi.yaml", rt.openAPIDocument)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}
	mux.HandleFunc("GET /v1/categories", rt.listCategories)
	mux.HandleFunc("GET /v1/stats", rt.dashboardStats)
	mux.HandleFunc("GET /v1/documents", rt.searchDocuments)
	mux.HandleFunc("POST /v1/documents", rt.uploadDocuments)
	mux.HandleFunc("GET /v1/exports/documents.xlsx", rt.exportDocuments)
	mux.HandleFunc("GET /v1/documents/{id}", rt.getDocument)
	mux.HandleFunc("GET /v1/documents/{id}/file", rt.downloadDocument)
	mux.HandleFunc("GET /v1/documents/{id}/references", rt.documentReferences)
	mux.HandleFunc("POST /v1/documents/{id}/transitions", rt.transitionDocument)
	mux.HandleFunc("POST /v1/filenames/preview", rt.previewFileName)

	var handler http.Handler = mux
	handler = contractMiddleware(contract, handler)
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, rt.cfg.APIBackpressureWait)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst, rt.onRateLimited)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) listCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": rt.catalog.Categories()})
}

func (rt *Router) dashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := rt.catalog.Stats(r.Context())
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (rt *Router) onRateLimited() {
	if rt.metrics != nil {
		rt.metrics.RecordRateLimited(serviceName)
	}
}

func (rt *Router) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}
	writeError(w, status, errorMessage(err, status))
}
