// Package seed loads fixture documents for the in-memory catalog.
package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/estate-docs/internal/core/domain"
)

//go:embed seed.yaml
var defaultSeed []byte

const dateLayout = "2006-01-02"

type file struct {
	Documents []record `yaml:"documents"`
}

type record struct {
	ID              string   `yaml:"id"`
	FileName        string   `yaml:"file_name"`
	OriginalName    string   `yaml:"original_name"`
	Category        string   `yaml:"category"`
	Subcategory     string   `yaml:"subcategory"`
	ProjectName     string   `yaml:"project_name"`
	LegalEntity     string   `yaml:"legal_entity"`
	DocumentDate    string   `yaml:"document_date"`
	UploadDate      string   `yaml:"upload_date"`
	FiscalYear      string   `yaml:"fiscal_year"`
	DocumentNumber  string   `yaml:"document_number"`
	Status          string   `yaml:"status"`
	FileSize        int64    `yaml:"file_size"`
	FileType        string   `yaml:"file_type"`
	IsAuthenticated bool     `yaml:"is_authenticated"`
	UploadedBy      string   `yaml:"uploaded_by"`
	ApprovedBy      string   `yaml:"approved_by"`
	Tags            []string `yaml:"tags"`
	CrossReferences []string `yaml:"cross_references"`
	Notes           string   `yaml:"notes"`
	Version         int      `yaml:"version"`
	QRCode          string   `yaml:"qr_code"`
	Barcode         string   `yaml:"barcode"`
}

// Default returns the built-in sample catalog.
func Default() ([]domain.Document, error) {
	return Parse(defaultSeed)
}

// Load reads a seed file; an empty path yields the built-in catalog.
func Load(path string) ([]domain.Document, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) ([]domain.Document, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse seed", err)
	}

	docs := make([]domain.Document, 0, len(f.Documents))
	var errs []error
	for i, rec := range f.Documents {
		doc, err := rec.toDocument()
		if err != nil {
			errs = append(errs, fmt.Errorf("documents[%d]: %w", i, err))
			continue
		}
		docs = append(docs, doc)
	}
	if len(errs) > 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse seed", errors.Join(errs...))
	}
	return docs, nil
}

func (r record) toDocument() (domain.Document, error) {
	if r.ID == "" {
		return domain.Document{}, errors.New("id is required")
	}
	documentDate, err := time.Parse(dateLayout, r.DocumentDate)
	if err != nil {
		return domain.Document{}, fmt.Errorf("document_date: %w", err)
	}
	uploadDate, err := time.Parse(dateLayout, r.UploadDate)
	if err != nil {
		return domain.Document{}, fmt.Errorf("upload_date: %w", err)
	}
	version := r.Version
	if version <= 0 {
		version = 1
	}

	doc := domain.Document{
		ID:              r.ID,
		FileName:        r.FileName,
		OriginalName:    r.OriginalName,
		Category:        domain.Category(r.Category),
		Subcategory:     r.Subcategory,
		ProjectName:     r.ProjectName,
		LegalEntity:     r.LegalEntity,
		DocumentDate:    documentDate,
		UploadDate:      uploadDate,
		FiscalYear:      r.FiscalYear,
		DocumentNumber:  r.DocumentNumber,
		Status:          domain.DocumentStatus(r.Status),
		FileSize:        r.FileSize,
		FileType:        r.FileType,
		IsAuthenticated: r.IsAuthenticated,
		UploadedBy:      r.UploadedBy,
		ApprovedBy:      r.ApprovedBy,
		Tags:            domain.NormalizeTags(r.Tags),
		CrossReferences: r.CrossReferences,
		Notes:           r.Notes,
		Version:         version,
		QRCode:          r.QRCode,
		Barcode:         r.Barcode,
		UpdatedAt:       uploadDate,
	}
	if doc.FileName == "" {
		doc.FileName = domain.DeriveFileName(doc.Category, doc.FiscalYear, doc.DocumentNumber,
			doc.ProjectName, doc.LegalEntity, doc.DocumentDate, doc.OriginalName)
	}
	if err := doc.Validate(); err != nil {
		return domain.Document{}, err
	}
	return doc, nil
}
