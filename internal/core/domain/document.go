package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

type DocumentStatus string

const (
	StatusDraft         DocumentStatus = "DRAFT"
	StatusPendingReview DocumentStatus = "PENDING_REVIEW"
	StatusApproved      DocumentStatus = "APPROVED"
	StatusRejected      DocumentStatus = "REJECTED"
	StatusArchived      DocumentStatus = "ARCHIVED"
)

var documentStatuses = []DocumentStatus{
	StatusDraft,
	StatusPendingReview,
	StatusApproved,
	StatusRejected,
	StatusArchived,
}

var statusTransitions = map[DocumentStatus][]DocumentStatus{
	StatusDraft:         {StatusPendingReview},
	StatusPendingReview: {StatusApproved, StatusRejected},
	StatusApproved:      {StatusArchived},
	StatusRejected:      {StatusArchived},
}

func DocumentStatuses() []DocumentStatus {
	return slices.Clone(documentStatuses)
}

func ParseDocumentStatus(raw string) (DocumentStatus, error) {
	status := DocumentStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", WrapError(ErrInvalidInput, "parse status", fmt.Errorf("unknown status %q", raw))
	}
	return status, nil
}

func (s DocumentStatus) Valid() bool {
	return slices.Contains(documentStatuses, s)
}

// CanTransition reports whether the lifecycle allows moving from one status to another.
func CanTransition(from, to DocumentStatus) bool {
	return slices.Contains(statusTransitions[from], to)
}

func (s DocumentStatus) Transition(to DocumentStatus) error {
	if !to.Valid() {
		return WrapError(ErrInvalidInput, "transition", fmt.Errorf("unknown status %q", to))
	}
	if !CanTransition(s, to) {
		return WrapError(ErrInvalidTransition, "transition", fmt.Errorf("%s -> %s", s, to))
	}
	return nil
}

type Document struct {
	ID              string         `json:"id"`
	FileName        string         `json:"file_name"`
	OriginalName    string         `json:"original_name"`
	Category        Category       `json:"category"`
	Subcategory     string         `json:"subcategory,omitempty"`
	ProjectName     string         `json:"project_name"`
	LegalEntity     string         `json:"legal_entity"`
	DocumentDate    time.Time      `json:"document_date"`
	UploadDate      time.Time      `json:"upload_date"`
	FiscalYear      string         `json:"fiscal_year"`
	DocumentNumber  string         `json:"document_number"`
	Status          DocumentStatus `json:"status"`
	FileSize        int64          `json:"file_size"`
	FileType        string         `json:"file_type"`
	IsAuthenticated bool           `json:"is_authenticated"`
	UploadedBy      string         `json:"uploaded_by"`
	ApprovedBy      string         `json:"approved_by,omitempty"`
	Tags            []string       `json:"tags"`
	CrossReferences []string       `json:"cross_references,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	Version         int            `json:"version"`
	QRCode          string         `json:"qr_code,omitempty"`
	Barcode         string         `json:"barcode,omitempty"`

	StoragePath      string    `json:"-"`
	Checksum         string    `json:"checksum,omitempty"`
	PageCount        int       `json:"page_count,omitempty"`
	VerificationNote string    `json:"verification_note,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (d Document) IsApproved() bool {
	return d.Status == StatusApproved
}

func (d Document) IsWIP() bool {
	return d.Status == StatusDraft
}

func (d Document) MarshalJSON() ([]byte, error) {
	type document Document
	return json.Marshal(struct {
		document
		IsApproved bool `json:"is_approved"`
		IsWIP      bool `json:"is_wip"`
	}{
		document:   document(d),
		IsApproved: d.IsApproved(),
		IsWIP:      d.IsWIP(),
	})
}

// Verification is the worker-owned part of a document. It is written separately
// from the reviewer-owned lifecycle fields so neither side overwrites the other.
type Verification struct {
	Checksum        string
	PageCount       int
	IsAuthenticated bool
	Note            string
	CheckedAt       time.Time
}

// ApplyVerification copies v onto the document.
func (d *Document) ApplyVerification(v Verification) {
	d.Checksum = v.Checksum
	d.PageCount = v.PageCount
	d.IsAuthenticated = v.IsAuthenticated
	d.VerificationNote = v.Note
	d.UpdatedAt = v.CheckedAt
}

// Validate checks the registry-backed invariants of a filed document.
func (d Document) Validate() error {
	cfg, ok := GetCategoryConfig(d.Category)
	if !ok {
		return WrapError(ErrInvalidInput, "validate document", fmt.Errorf("unknown category %q", d.Category))
	}
	if d.Subcategory != "" && !cfg.HasSubcategory(d.Subcategory) {
		return WrapError(ErrInvalidInput, "validate document",
			fmt.Errorf("subcategory %q does not belong to %s", d.Subcategory, d.Category))
	}
	if !d.Status.Valid() {
		return WrapError(ErrInvalidInput, "validate document", fmt.Errorf("unknown status %q", d.Status))
	}
	return nil
}

// HasTag matches tags case-insensitively.
func (d Document) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
