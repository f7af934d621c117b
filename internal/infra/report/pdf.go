// Package report renders safety analysis results into a downloadable PDF.
// The layout mirrors the in-browser export: header band, analysis details,
// the uploaded photo, then one block per risk colored by severity.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	domain "github.com/safetylens/safetylens/internal/domain/analysis"
	"github.com/safetylens/safetylens/internal/ingest"
	"github.com/safetylens/safetylens/internal/render"
)

const margin = 20.0

type PDFWriter struct{}

func NewPDFWriter() *PDFWriter {
	return &PDFWriter{}
}

type severityStyle struct {
	fillR, fillG, fillB int
	textR, textG, textB int
	label               string
}

func styleFor(level domain.Severity) severityStyle {
	switch level {
	case domain.SeverityHigh:
		return severityStyle{254, 226, 226, 153, 27, 27, "HIGH RISK"}
	case domain.SeverityMedium:
		return severityStyle{254, 249, 195, 133, 77, 14, "MEDIUM RISK"}
	default:
		return severityStyle{219, 234, 254, 30, 64, 175, "LOW RISK"}
	}
}

// Render produces the PDF document. It never re-validates the result.
func (w *PDFWriter) Render(opts domain.ReportOptions) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	contentW := pageW - 2*margin

	// Header band
	pdf.SetFillColor(37, 99, 235)
	pdf.Rect(0, 0, pageW, 40, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.Text(pageW/2-pdf.GetStringWidth("Work Safety Analysis Report")/2, 25, "Work Safety Analysis Report")

	y := 50.0

	// Details box
	summary := render.Summarize(&opts.Result)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(248, 250, 252)
	pdf.Rect(margin, y, contentW, 30, "F")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(margin+5, y+8, "Analysis Details")
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(margin+5, y+15, fmt.Sprintf("Photo: %s", opts.PhotoName))
	pdf.Text(margin+5, y+21, fmt.Sprintf("Date: %s", opts.AnalysisDate.Format("2006-01-02 15:04")))
	pdf.Text(margin+5, y+27, fmt.Sprintf("Risks found: %d (high: %d, medium: %d, low: %d)",
		summary.Total, summary.High, summary.Medium, summary.Low))
	y += 38

	// Embedded photo, when decodable. WebP is not supported by the PDF
	// writer and is skipped rather than failing the whole report.
	if opts.PhotoBase64 != "" {
		if imgY, ok := w.embedPhoto(pdf, opts.PhotoBase64, y, contentW); ok {
			y = imgY
		}
	}

	if summary.NoRisks {
		pdf.SetFillColor(220, 252, 231)
		pdf.Rect(margin, y, contentW, 16, "F")
		pdf.SetTextColor(21, 128, 61)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Text(margin+5, y+10, "No risks detected. Everything looks safe!")
	} else {
		y = w.renderRisks(pdf, opts.Result.Risks, y, contentW, pageH)
	}

	// Footer page numbers
	total := pdf.PageCount()
	for p := 1; p <= total; p++ {
		pdf.SetPage(p)
		pdf.SetTextColor(148, 163, 184)
		pdf.SetFont("Helvetica", "", 8)
		pdf.Text(pageW/2-8, pageH-8, fmt.Sprintf("Page %d of %d", p, total))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (w *PDFWriter) embedPhoto(pdf *fpdf.Fpdf, photoBase64 string, y, contentW float64) (float64, bool) {
	data, mime, err := ingest.DecodeDataURI(photoBase64)
	if err != nil {
		return y, false
	}
	var imgType string
	switch mime {
	case "image/jpeg", "image/jpg":
		imgType = "JPG"
	case "image/png":
		imgType = "PNG"
	default:
		return y, false
	}
	info := pdf.RegisterImageOptionsReader("photo", fpdf.ImageOptions{ImageType: imgType}, bytes.NewReader(data))
	if pdf.Err() {
		pdf.ClearError()
		return y, false
	}
	if info == nil {
		return y, false
	}

	imgW := contentW / 2
	imgH := imgW * info.Height() / info.Width()
	pdf.ImageOptions("photo", margin, y, imgW, imgH, false, fpdf.ImageOptions{ImageType: imgType}, 0, "")
	return y + imgH + 8, true
}

func (w *PDFWriter) renderRisks(pdf *fpdf.Fpdf, risks []domain.Risk, y, contentW, pageH float64) float64 {
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(margin, y+5, "Identified Risks")
	y += 12

	for i, risk := range risks {
		st := styleFor(risk.Level)

		titleLines := pdf.SplitText(fmt.Sprintf("%d. %s", i+1, risk.Title), contentW-10)
		recLines := pdf.SplitText("Recommendation: "+risk.Recommendation, contentW-10)
		blockH := float64(len(titleLines)+len(recLines))*5 + 14

		if y+blockH > pageH-margin {
			pdf.AddPage()
			y = margin
		}

		pdf.SetFillColor(st.fillR, st.fillG, st.fillB)
		pdf.Rect(margin, y, contentW, blockH, "F")

		pdf.SetTextColor(st.textR, st.textG, st.textB)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.Text(margin+5, y+6, st.label)

		pdf.SetFont("Helvetica", "B", 11)
		lineY := y + 12
		for _, line := range titleLines {
			pdf.Text(margin+5, lineY, line)
			lineY += 5
		}
		pdf.SetFont("Helvetica", "", 10)
		for _, line := range recLines {
			pdf.Text(margin+5, lineY, line)
			lineY += 5
		}
		y += blockH + 6
	}
	return y
}

// Filename builds the download name for a generated report.
func Filename(photoName string) string {
	base := strings.TrimSuffix(photoName, ".jpg")
	base = strings.TrimSuffix(base, ".jpeg")
	base = strings.TrimSuffix(base, ".png")
	base = strings.TrimSuffix(base, ".webp")
	if base == "" {
		base = "workplace-photo"
	}
	return "safety-analysis-" + base + ".pdf"
}
