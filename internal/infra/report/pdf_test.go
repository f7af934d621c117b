package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/safetylens/safetylens/internal/domain/analysis"
)

func sampleOptions() domain.ReportOptions {
	return domain.ReportOptions{
		Result: domain.Result{Risks: []domain.Risk{
			{Title: "Missing hard hat", Level: domain.SeverityHigh, Recommendation: "Provide PPE"},
			{Title: "Loose cable across walkway", Level: domain.SeverityMedium, Recommendation: "Route the cable along the wall"},
			{Title: "Cluttered workbench", Level: domain.SeverityLow, Recommendation: "Tidy the bench at end of shift"},
		}},
		PhotoName:    "site.jpg",
		AnalysisDate: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestRenderProducesPDF(t *testing.T) {
	pdf, err := NewPDFWriter().Render(sampleOptions())
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF-", string(pdf[:5]))
}

func TestRenderNoRisks(t *testing.T) {
	opts := domain.ReportOptions{
		Result:       domain.Result{},
		PhotoName:    "clean-site.png",
		AnalysisDate: time.Now(),
	}
	pdf, err := NewPDFWriter().Render(opts)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(pdf[:5]))
}

func TestRenderManyRisksPaginates(t *testing.T) {
	opts := sampleOptions()
	for i := 0; i < 40; i++ {
		opts.Result.Risks = append(opts.Result.Risks, domain.Risk{
			Title:          "Unsecured ladder against the mezzanine edge",
			Level:          domain.SeverityMedium,
			Recommendation: "Secure the ladder and add a handhold at the landing",
		})
	}
	pdf, err := NewPDFWriter().Render(opts)
	require.NoError(t, err)
	// 40+ risk blocks cannot fit one A4 page
	assert.Greater(t, len(pdf), 4000)
}

func TestRenderSkipsUndecodablePhoto(t *testing.T) {
	opts := sampleOptions()
	opts.PhotoBase64 = "data:image/png;base64,bm90LWEtcG5n" // decodes, but not a PNG
	pdf, err := NewPDFWriter().Render(opts)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(pdf[:5]))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "safety-analysis-site.pdf", Filename("site.jpg"))
	assert.Equal(t, "safety-analysis-floor.pdf", Filename("floor.png"))
	assert.Equal(t, "safety-analysis-workplace-photo.pdf", Filename(""))
}
