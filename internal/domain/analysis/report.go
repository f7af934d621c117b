package analysis

import "time"

// ReportOptions carries everything the PDF exporter consumes. The result is
// treated as already validated; the exporter never re-checks it.
type ReportOptions struct {
	Result       Result
	PhotoName    string
	AnalysisDate time.Time
	PhotoBase64  string // optional data URI of the analyzed photo
}

// ReportWriter port (interface untuk pembuatan laporan PDF)
type ReportWriter interface {
	Render(opts ReportOptions) ([]byte, error)
}
