package domain

import (
	"strings"
	"time"
)

const documentDateLayout = "20060102"

// DeriveFileName builds the canonical stored name:
// PREFIX_FY_NUMBER_PROJECT_ENTITY_YYYYMMDD[.ext], with the date taken in UTC.
// The extension comes from originalFileName when it is non-empty.
func DeriveFileName(
	category Category,
	fiscalYear, documentNumber string,
	projectName, legalEntity string,
	documentDate time.Time,
	originalFileName string,
) string {
	name := strings.Join([]string{
		category.Prefix(),
		fiscalYear,
		documentNumber,
		NormalizeNameSegment(projectName),
		NormalizeNameSegment(legalEntity),
		documentDate.UTC().Format(documentDateLayout),
	}, "_")

	if originalFileName == "" {
		return name
	}
	if i := strings.LastIndex(originalFileName, "."); i >= 0 {
		return name + "." + originalFileName[i+1:]
	}
	// No dot: the whole name is the final segment.
	return name + "." + originalFileName
}

// NormalizeNameSegment replaces every character outside [A-Za-z0-9] with '_'
// and upper-cases the result.
func NormalizeNameSegment(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - ('a' - 'A'))
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// FileExtension returns the lower-cased segment after the last dot, or "".
func FileExtension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// FileNameRequest carries the deriver inputs for a name preview.
// An empty FiscalYear is computed from DocumentDate.
type FileNameRequest struct {
	Category         Category  `json:"category"`
	FiscalYear       string    `json:"fiscal_year,omitempty"`
	DocumentNumber   string    `json:"document_number"`
	ProjectName      string    `json:"project_name"`
	LegalEntity      string    `json:"legal_entity"`
	DocumentDate     time.Time `json:"document_date"`
	OriginalFileName string    `json:"original_file_name,omitempty"`
}
