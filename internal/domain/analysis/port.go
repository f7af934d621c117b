package analysis

import "context"

// VisionClient port (interface untuk panggilan model vision)
type VisionClient interface {
	// Analyze sends one image (base64 data URI) to the model and returns
	// the raw text content of the completion.
	Analyze(ctx context.Context, imageDataURI string) (string, error)
}

// Repository port (interface untuk persistence audit trail)
type Repository interface {
	Save(ctx context.Context, rec *Record) error
	Paginate(ctx context.Context, page, pageSize int) ([]*Record, error)
	Latest(ctx context.Context, limit int) ([]*Record, error)
}

// ReportStore port (interface untuk penyimpanan laporan PDF)
type ReportStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
