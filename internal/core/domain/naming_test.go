package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveFileName(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		fy, num  string
		project  string
		entity   string
		date     string
		original string
		want     string
	}{
		{
			name:     "sale deed",
			category: CategoryLandProperty, fy: "2025", num: "001",
			project: "Sunrise Valley", entity: "ABC Developers", date: "2025-01-15",
			original: "deed.pdf",
			want:     "LAND_2025_001_SUNRISE_VALLEY_ABC_DEVELOPERS_20250115.pdf",
		},
		{
			name:     "no original name has no extension",
			category: CategoryCompliance, fy: "2024-25", num: "017",
			project: "Green Acres", entity: "XYZ Pvt. Ltd.", date: "2024-11-03",
			want: "COMP_2024-25_017_GREEN_ACRES_XYZ_PVT__LTD__20241103",
		},
		{
			name:     "extension from last dot segment",
			category: CategoryVendorContracts, fy: "2025", num: "002",
			project: "P1", entity: "E1", date: "2025-02-01",
			original: "lease.final.v2.docx",
			want:     "VEN_2025_002_P1_E1_20250201.docx",
		},
		{
			name:     "unknown category uses generic prefix",
			category: Category("MISC"), fy: "2025", num: "003",
			project: "Sunrise Valley", entity: "ABC Developers", date: "2025-01-15",
			original: "x.png",
			want:     "DOC_2025_003_SUNRISE_VALLEY_ABC_DEVELOPERS_20250115.png",
		},
		{
			name:     "all disallowed characters degrade to underscores",
			category: CategoryLegalLitigation, fy: "2025", num: "004",
			project: "@@@", entity: "", date: "2025-03-09",
			original: "notice.pdf",
			want:     "LEG_2025_004______20250309.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveFileName(tt.category, tt.fy, tt.num, tt.project, tt.entity, day(tt.date), tt.original)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveFileNameIsDeterministic(t *testing.T) {
	a := DeriveFileName(CategoryAccountingTax, "2025", "INV-045", "Sunrise Valley", "ABC Developers", day("2025-01-10"), "inv.pdf")
	b := DeriveFileName(CategoryAccountingTax, "2025", "INV-045", "Sunrise Valley", "ABC Developers", day("2025-01-10"), "inv.pdf")
	assert.Equal(t, a, b)
}

func TestDeriveFileNameUsesUTCDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	date := time.Date(2025, 1, 15, 2, 0, 0, 0, ist)

	name := DeriveFileName(CategoryLandProperty, "2025", "001", "Sunrise Valley", "ABC", date, "deed.pdf")
	assert.Equal(t, "LAND_2025_001_SUNRISE_VALLEY_ABC_20250114.pdf", name)
}

func TestNormalizeNameSegmentIsIdempotent(t *testing.T) {
	for _, in := range []string{"Sunrise Valley", "abc-Developers & co.", "Ünïcode 1", "ALREADY_OK_9"} {
		once := NormalizeNameSegment(in)
		assert.Equal(t, once, NormalizeNameSegment(once), in)
		assert.Regexp(t, `^[A-Z0-9_]*$`, once)
	}
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "pdf", FileExtension("Deed.PDF"))
	assert.Equal(t, "xlsx", FileExtension("a.b.xlsx"))
	assert.Equal(t, "", FileExtension("README"))
	assert.Equal(t, "", FileExtension("trailing."))
}
