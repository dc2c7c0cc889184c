package httpadapter

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"

	"github.com/kirillkom/estate-docs/internal/core/domain"
)

const dateLayout = "2006-01-02"

type searchParams struct {
	Q        *string
	Category *string
	Status   *string
	Project  *string
	Entity   *string
	FileName *string
	Tag      []string
	DateFrom *string
	DateTo   *string
}

func bindSearchParams(query url.Values) (searchParams, error) {
	var p searchParams
	bindings := []struct {
		name string
		dest any
	}{
		{"q", &p.Q},
		{"category", &p.Category},
		{"status", &p.Status},
		{"project", &p.Project},
		{"entity", &p.Entity},
		{"file_name", &p.FileName},
		{"tag", &p.Tag},
		{"date_from", &p.DateFrom},
		{"date_to", &p.DateTo},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, query, b.dest); err != nil {
			return searchParams{}, domain.WrapError(domain.ErrInvalidInput, "bind query", err)
		}
	}
	return p, nil
}

// parseSearchQuery turns URL query parameters into a free-text query and filters.
func parseSearchQuery(query url.Values) (string, domain.SearchFilters, error) {
	p, err := bindSearchParams(query)
	if err != nil {
		return "", domain.SearchFilters{}, err
	}

	var filters domain.SearchFilters
	if v := trimmed(p.Category); v != "" {
		category, err := domain.ParseCategory(v)
		if err != nil {
			return "", filters, err
		}
		filters.Category = &category
	}
	if v := trimmed(p.Status); v != "" {
		status, err := domain.ParseDocumentStatus(v)
		if err != nil {
			return "", filters, err
		}
		filters.Status = &status
	}
	filters.ProjectName = trimmed(p.Project)
	filters.LegalEntity = trimmed(p.Entity)
	filters.FileName = trimmed(p.FileName)
	filters.Tags = domain.NormalizeTags(splitList(p.Tag))
	if len(filters.Tags) == 0 {
		filters.Tags = nil
	}
	if filters.DateFrom, err = parseDateParam("date_from", p.DateFrom); err != nil {
		return "", filters, err
	}
	if filters.DateTo, err = parseDateParam("date_to", p.DateTo); err != nil {
		return "", filters, err
	}
	return trimmed(p.Q), filters, nil
}

func parseDateParam(name string, raw *string) (*time.Time, error) {
	v := trimmed(raw)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse search", fmt.Errorf("%s %q must be YYYY-MM-DD", name, v))
	}
	return &t, nil
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

// splitList accepts both repeated values and comma-separated lists.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.Split(v, ",")...)
	}
	return out
}
