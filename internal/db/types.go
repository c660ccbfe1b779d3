package db

import (
	"fmt"

	"github.com/google/uuid"
)

// DefaultListLimit caps ListReports when no limit is given.
const DefaultListLimit = 50

// MaxListLimit is the largest page ListReports will return.
const MaxListLimit = 500

// ReportFilters holds optional filters for listing reports
type ReportFilters struct {
	Source   string  // Substring match on the report source (case-insensitive)
	MinTotal float64 // Only reports with total >= MinTotal
	Limit    int
	Offset   int
}

// ErrReportNotFound is returned when a report ID does not exist
type ErrReportNotFound struct {
	ID uuid.UUID
}

func (e *ErrReportNotFound) Error() string {
	return fmt.Sprintf("report not found: %s", e.ID)
}
