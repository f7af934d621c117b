package analysis

import "time"

// Severity enum for a single risk
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// IsValid reports whether s is one of the three defined severities.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// Risk is a single identified safety hazard. Immutable once constructed.
type Risk struct {
	Title          string   `json:"title"`
	Level          Severity `json:"level"`
	Recommendation string   `json:"recommendation"`
}

// Result is the validated outcome of one analysis call.
// Risks keeps model output order and may be empty.
type Result struct {
	Risks []Risk `json:"risks"`
}

// SeverityCounts value object
type SeverityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
	Total  int `json:"total"`
}

// RecordID identifier type
type RecordID string

// Record is a stored analysis kept for auditing and retrieval
type Record struct {
	ID        RecordID       `json:"id"`
	PhotoName string         `json:"photo_name,omitempty"`
	Result    string         `json:"result"` // result JSON as returned to the client
	Counts    SeverityCounts `json:"counts"`
	ReportURL string         `json:"report_url,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
