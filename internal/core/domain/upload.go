package domain

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"
)

// NoFilesMessage is the form-level message shown when nothing was selected.
const NoFilesMessage = "Please select at least one file"

var AllowedExtensions = []string{"pdf", "doc", "docx", "jpg", "jpeg", "png", "xls", "xlsx"}

func IsAllowedExtension(fileName string) bool {
	return slices.Contains(AllowedExtensions, FileExtension(fileName))
}

type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UploadFormData struct {
	Files           []UploadFile
	Category        Category
	Subcategory     string
	ProjectName     string
	LegalEntity     string
	DocumentDate    time.Time
	Tags            []string
	Notes           string
	IsWIP           bool
	UploadedBy      string
	CrossReferences []string
}

// Validate reports the missing-files condition first, then field requirements.
func (f UploadFormData) Validate() error {
	if len(f.Files) == 0 {
		return ErrNoFiles
	}

	var problems []error
	cfg, known := GetCategoryConfig(f.Category)
	switch {
	case f.Category == "":
		problems = append(problems, errors.New("category is required"))
	case !known:
		problems = append(problems, fmt.Errorf("unknown category %q", f.Category))
	}
	switch {
	case strings.TrimSpace(f.Subcategory) == "":
		problems = append(problems, errors.New("subcategory is required"))
	case known && !cfg.HasSubcategory(f.Subcategory):
		problems = append(problems, fmt.Errorf("subcategory %q does not belong to %s", f.Subcategory, f.Category))
	}
	if strings.TrimSpace(f.ProjectName) == "" {
		problems = append(problems, errors.New("project name is required"))
	}
	if strings.TrimSpace(f.LegalEntity) == "" {
		problems = append(problems, errors.New("legal entity is required"))
	}
	if f.DocumentDate.IsZero() {
		problems = append(problems, errors.New("document date is required"))
	}
	for _, file := range f.Files {
		if !IsAllowedExtension(file.Name) {
			problems = append(problems, fmt.Errorf("file %q: extension not allowed", file.Name))
		}
	}

	if len(problems) > 0 {
		return WrapError(ErrInvalidInput, "validate upload", errors.Join(problems...))
	}
	return nil
}

// NormalizeTags trims, drops empties and removes exact duplicates, keeping first occurrence order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}

// InitialStatus is the lifecycle entry point for a new upload.
func InitialStatus(isWIP bool) DocumentStatus {
	if isWIP {
		return StatusDraft
	}
	return StatusPendingReview
}
