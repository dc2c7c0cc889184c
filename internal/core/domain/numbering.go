package domain

import (
	"fmt"
	"time"
)

// FiscalYearLabel buckets a date into a numbering year. With startMonth <= 1 the
// label is the calendar year ("2025"); otherwise it is "2024-25" style.
func FiscalYearLabel(date time.Time, startMonth int) string {
	if startMonth <= 1 || startMonth > 12 {
		return fmt.Sprintf("%04d", date.Year())
	}
	start := date.Year()
	if int(date.Month()) < startMonth {
		start--
	}
	return fmt.Sprintf("%04d-%02d", start, (start+1)%100)
}

func FormatDocumentNumber(seq int) string {
	return fmt.Sprintf("%03d", seq)
}
