// Command safetylens analyzes a workplace photo from the terminal: it
// validates and encodes the image, sends it to the analysis server, prints
// the result, and can write the PDF report locally.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/safetylens/safetylens/internal/application"
	appreport "github.com/safetylens/safetylens/internal/application/report"
	domain "github.com/safetylens/safetylens/internal/domain/analysis"
	reportpdf "github.com/safetylens/safetylens/internal/infra/report"
	"github.com/safetylens/safetylens/internal/ingest"
	"github.com/safetylens/safetylens/internal/render"
	"github.com/safetylens/safetylens/pkg/client"
	"github.com/safetylens/safetylens/pkg/logger"
)

func main() {
	var (
		file   = flag.String("file", "", "path to the workplace photo (JPEG, PNG, or WebP)")
		server = flag.String("server", "http://localhost:8080", "analysis server base URL")
		out    = flag.String("out", "", "write a PDF report to this path")
		asJSON = flag.Bool("json", false, "print the raw result JSON instead of the summary")
	)
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: safetylens -file photo.jpg [-server URL] [-out report.pdf] [-json]")
		os.Exit(2)
	}

	photo, err := ingest.IngestFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "upload error: %v\n", err)
		os.Exit(1)
	}

	result, err := client.New(*server).Analyze(context.Background(), photo.DataURI, photo.Name)
	if err != nil {
		if aerr, ok := err.(*client.AnalysisError); ok {
			fmt.Fprintf(os.Stderr, "analysis failed (%s): %s\n", aerr.Category, aerr.Message)
		} else {
			fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		}
		os.Exit(1)
	}

	analyzed := toAnalysis(result)
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(analyzed)
	} else {
		fmt.Print(render.Text(analyzed))
	}

	if *out != "" {
		if err := writeReport(*out, analyzed, photo); err != nil {
			fmt.Fprintf(os.Stderr, "report error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nReport written to %s\n", *out)
	}
}

// toAnalysis maps the wire result onto the domain type the renderer and
// report writer consume.
func toAnalysis(r *client.Result) *domain.Result {
	out := &domain.Result{Risks: make([]domain.Risk, 0, len(r.Risks))}
	for _, risk := range r.Risks {
		out.Risks = append(out.Risks, domain.Risk{
			Title:          risk.Title,
			Level:          domain.Severity(risk.Level),
			Recommendation: risk.Recommendation,
		})
	}
	return out
}

func writeReport(path string, result *domain.Result, photo *ingest.UploadedPhoto) error {
	zlog, err := logger.New("error")
	if err != nil {
		return err
	}
	svc := &appreport.Service{
		Writer: reportpdf.NewPDFWriter(),
		Clock:  application.SystemClock{},
		Log:    zlog,
	}
	pdf, _, err := svc.Generate(context.Background(), domain.ReportOptions{
		Result:      *result,
		PhotoName:   photo.Name,
		PhotoBase64: photo.DataURI,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, pdf, 0o644)
}
