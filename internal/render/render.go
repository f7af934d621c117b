// Package render maps a validated analysis result into a view model.
// Pure functions, no I/O; trusts the normalizer's output invariant.
package render

import (
	"fmt"
	"strings"

	"github.com/safetylens/safetylens/internal/domain/analysis"
)

// Summary partitions risks by severity for display.
type Summary struct {
	Total   int  `json:"total"`
	High    int  `json:"high"`
	Medium  int  `json:"medium"`
	Low     int  `json:"low"`
	NoRisks bool `json:"no_risks"`
}

// Summarize counts risks by level. An empty result yields the affirmative
// no-risks state rather than a zero-count listing.
func Summarize(res *analysis.Result) Summary {
	s := Summary{}
	if res == nil || len(res.Risks) == 0 {
		s.NoRisks = true
		return s
	}
	for _, r := range res.Risks {
		switch r.Level {
		case analysis.SeverityHigh:
			s.High++
		case analysis.SeverityMedium:
			s.Medium++
		case analysis.SeverityLow:
			s.Low++
		}
		s.Total++
	}
	return s
}

// Counts converts a summary into the persisted counts value object.
func Counts(s Summary) analysis.SeverityCounts {
	return analysis.SeverityCounts{High: s.High, Medium: s.Medium, Low: s.Low, Total: s.Total}
}

// Text renders the result for terminal output, mirroring the web results panel.
func Text(res *analysis.Result) string {
	var b strings.Builder
	b.WriteString("Safety Analysis Results\n")

	s := Summarize(res)
	if s.NoRisks {
		b.WriteString("\nNo risks detected. Everything looks safe!\n")
		return b.String()
	}

	noun := "risks"
	if s.Total == 1 {
		noun = "risk"
	}
	fmt.Fprintf(&b, "Found %d potential safety %s (high: %d, medium: %d, low: %d)\n",
		s.Total, noun, s.High, s.Medium, s.Low)

	for i, r := range res.Risks {
		fmt.Fprintf(&b, "\n%d. [%s] %s\n   Recommendation: %s\n",
			i+1, strings.ToUpper(string(r.Level)), r.Title, r.Recommendation)
	}
	return b.String()
}
