package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/safetylens/safetylens/internal/application"
	domain "github.com/safetylens/safetylens/internal/domain/analysis"
)

// Service renders safety reports and, when storage is configured, publishes
// them for later retrieval.
type Service struct {
	Writer domain.ReportWriter
	Store  domain.ReportStore // optional
	Clock  application.Clock
	Log    *zap.Logger
}

// Generate renders the PDF and uploads it when a store is present.
// The returned URL is empty when publishing is disabled or fails; the PDF
// bytes are always good on nil error.
func (s *Service) Generate(ctx context.Context, opts domain.ReportOptions) ([]byte, string, error) {
	if opts.AnalysisDate.IsZero() {
		opts.AnalysisDate = s.Clock.Now()
	}
	if opts.PhotoName == "" {
		opts.PhotoName = "workplace-photo"
	}

	pdf, err := s.Writer.Render(opts)
	if err != nil {
		return nil, "", fmt.Errorf("render report: %w", err)
	}

	var url string
	if s.Store != nil {
		key := fmt.Sprintf("reports/%s.pdf", uuid.New().String())
		url, err = s.Store.Put(ctx, key, pdf, "application/pdf")
		if err != nil {
			// The caller still gets the document; publishing is best-effort.
			s.Log.Warn("report upload failed", zap.Error(err), zap.String("key", key))
			url = ""
		}
	}
	return pdf, url, nil
}
