package domain

import "time"

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleDocuments() []Document {
	return []Document{
		{
			ID:              "1",
			FileName:        "LAND_2025_001_SUNRISE_VALLEY_ABC_DEVELOPERS_20250115.pdf",
			OriginalName:    "Sale Deed - Sunrise Valley Plot 15.pdf",
			Category:        CategoryLandProperty,
			Subcategory:     "Sale Deeds",
			ProjectName:     "Sunrise Valley",
			LegalEntity:     "ABC Developers",
			DocumentDate:    day("2025-01-15"),
			UploadDate:      day("2025-01-16"),
			FiscalYear:      "2025",
			DocumentNumber:  "001",
			Status:          StatusApproved,
			FileSize:        2048000,
			FileType:        "pdf",
			IsAuthenticated: true,
			UploadedBy:      "John Doe",
			ApprovedBy:      "Manager",
			Tags:            []string{"sale deed", "residential", "plot 15"},
			Version:         1,
		},
		{
			ID:              "2",
			FileName:        "ACC_2025_INV_045_SUNRISE_VALLEY_ABC_DEVELOPERS_20250110.pdf",
			OriginalName:    "Invoice - Construction Materials Jan 2025.pdf",
			Category:        CategoryAccountingTax,
			Subcategory:     "Invoices",
			ProjectName:     "Sunrise Valley",
			LegalEntity:     "ABC Developers",
			DocumentDate:    day("2025-01-10"),
			UploadDate:      day("2025-01-11"),
			FiscalYear:      "2025",
			DocumentNumber:  "INV-045",
			Status:          StatusPendingReview,
			FileSize:        1536000,
			FileType:        "pdf",
			IsAuthenticated: true,
			UploadedBy:      "Jane Smith",
			Tags:            []string{"invoice", "construction", "materials"},
			CrossReferences: []string{"VEN-2025-001"},
			Version:         1,
		},
		{
			ID:             "3",
			FileName:       "TECH_2025_002_SUNRISE_VALLEY_ABC_DEVELOPERS_20250108.pdf",
			OriginalName:   "Structural Blueprint - Building A.pdf",
			Category:       CategoryTechnicalConstruction,
			Subcategory:    "Structural Drawings & Blueprints",
			ProjectName:    "Sunrise Valley",
			LegalEntity:    "ABC Developers",
			DocumentDate:   day("2025-01-08"),
			UploadDate:     day("2025-01-09"),
			FiscalYear:     "2025",
			DocumentNumber: "002",
			Status:         StatusDraft,
			FileSize:       5120000,
			FileType:       "pdf",
			UploadedBy:     "Architect Team",
			Tags:           []string{"blueprint", "structural", "building-a"},
			Version:        1,
		},
	}
}

func ids(docs []Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
