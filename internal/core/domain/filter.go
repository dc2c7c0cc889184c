package domain

import (
	"strings"
	"time"
)

// SearchFilters narrows a document search. Zero-valued fields impose no constraint.
type SearchFilters struct {
	Category    *Category       `json:"category,omitempty"`
	Status      *DocumentStatus `json:"status,omitempty"`
	DateFrom    *time.Time      `json:"date_from,omitempty"`
	DateTo      *time.Time      `json:"date_to,omitempty"`
	ProjectName string          `json:"project_name,omitempty"`
	LegalEntity string          `json:"legal_entity,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	FileName    string          `json:"file_name,omitempty"`
}

func (f SearchFilters) ActiveCount() int {
	n := 0
	if f.Category != nil {
		n++
	}
	if f.Status != nil {
		n++
	}
	if f.DateFrom != nil || f.DateTo != nil {
		n++
	}
	if f.ProjectName != "" {
		n++
	}
	if f.LegalEntity != "" {
		n++
	}
	if len(f.Tags) > 0 {
		n++
	}
	if f.FileName != "" {
		n++
	}
	return n
}

func (f SearchFilters) IsZero() bool {
	return f.ActiveCount() == 0
}

// FilterDocuments returns the documents matching query and filters, in input order.
// The query matches case-insensitively against the original name, project, entity and tags;
// every present filter then narrows the result.
func FilterDocuments(docs []Document, query string, filters SearchFilters) []Document {
	q := strings.ToLower(query)
	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if !matchesQuery(doc, q) || !matchesFilters(doc, filters) {
			continue
		}
		out = append(out, doc)
	}
	return out
}

func matchesQuery(doc Document, lowerQuery string) bool {
	if lowerQuery == "" {
		return true
	}
	if containsFold(doc.OriginalName, lowerQuery) ||
		containsFold(doc.ProjectName, lowerQuery) ||
		containsFold(doc.LegalEntity, lowerQuery) {
		return true
	}
	for _, tag := range doc.Tags {
		if containsFold(tag, lowerQuery) {
			return true
		}
	}
	return false
}

func matchesFilters(doc Document, f SearchFilters) bool {
	if f.Category != nil && doc.Category != *f.Category {
		return false
	}
	if f.Status != nil && doc.Status != *f.Status {
		return false
	}
	if f.ProjectName != "" && !containsFold(doc.ProjectName, strings.ToLower(f.ProjectName)) {
		return false
	}
	if f.LegalEntity != "" && !containsFold(doc.LegalEntity, strings.ToLower(f.LegalEntity)) {
		return false
	}
	if f.FileName != "" && !containsFold(doc.FileName, strings.ToLower(f.FileName)) {
		return false
	}
	if f.DateFrom != nil && calendarDay(doc.DocumentDate).Before(calendarDay(*f.DateFrom)) {
		return false
	}
	if f.DateTo != nil && calendarDay(doc.DocumentDate).After(calendarDay(*f.DateTo)) {
		return false
	}
	for _, tag := range f.Tags {
		if !doc.HasTag(tag) {
			return false
		}
	}
	return true
}

func containsFold(s, lowerSubstr string) bool {
	return strings.Contains(strings.ToLower(s), lowerSubstr)
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type CategoryStats struct {
	Category      Category `json:"category"`
	Total         int      `json:"total"`
	PendingReview int      `json:"pending_review"`
	WIP           int      `json:"wip"`
}

// ComputeCategoryStats partitions docs by category and counts, in registry order.
func ComputeCategoryStats(docs []Document) []CategoryStats {
	out := make([]CategoryStats, 0, len(categoryRegistry))
	for _, cfg := range categoryRegistry {
		stats := CategoryStats{Category: cfg.ID}
		for _, doc := range docs {
			if doc.Category != cfg.ID {
				continue
			}
			stats.Total++
			if doc.Status == StatusPendingReview {
				stats.PendingReview++
			}
			if doc.IsWIP() {
				stats.WIP++
			}
		}
		out = append(out, stats)
	}
	return out
}

type Summary struct {
	Total         int `json:"total"`
	PendingReview int `json:"pending_review"`
	WIP           int `json:"wip"`
	Approved      int `json:"approved"`
}

func SummarizeDocuments(docs []Document) Summary {
	var s Summary
	for _, doc := range docs {
		s.Total++
		switch {
		case doc.Status == StatusPendingReview:
			s.PendingReview++
		case doc.IsWIP():
			s.WIP++
		case doc.IsApproved():
			s.Approved++
		}
	}
	return s
}

type DashboardStats struct {
	Summary    Summary         `json:"summary"`
	Categories []CategoryStats `json:"categories"`
}
