package analysis

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/safetylens/safetylens/internal/application"
	domain "github.com/safetylens/safetylens/internal/domain/analysis"
	"github.com/safetylens/safetylens/internal/normalize"
	"github.com/safetylens/safetylens/internal/render"
)

// Service implements the analyze use-case: one vision call per photo,
// normalization of the model output, and a best-effort audit record.
// Stateless across requests; safe for concurrent use.
type Service struct {
	Vision domain.VisionClient
	Repo   domain.Repository // optional; nil keeps the relay fully stateless
	Clock  application.Clock
	Log    *zap.Logger

	// Credential reports the provider credential. Checked per request so a
	// key added to the environment takes effect without a restart.
	Credential func() string
}

func (s *Service) credential() string {
	if s.Credential != nil {
		return s.Credential()
	}
	return os.Getenv("OPENAI_API_KEY")
}

// Analyze validates the payload, relays it to the vision model, and
// normalizes the response. photoName is metadata for the audit record only.
func (s *Service) Analyze(ctx context.Context, base64Image, photoName string) (*domain.Result, error) {
	if strings.TrimSpace(base64Image) == "" {
		return nil, domain.ErrNoImage
	}
	if s.credential() == "" {
		return nil, domain.ErrMissingAPIKey
	}

	raw, err := s.Vision.Analyze(ctx, base64Image)
	if err != nil {
		return nil, err
	}

	// Raw provider output is diagnostic only; never surfaced to callers.
	s.Log.Debug("model output", zap.String("raw", raw))

	result, err := normalize.Normalize(raw)
	if err != nil {
		s.Log.Error("normalize failed", zap.Error(err), zap.String("raw", raw))
		return nil, err
	}

	s.saveRecord(ctx, result, photoName)
	return result, nil
}

// saveRecord persists an audit entry when a repository is configured.
// Failures are logged, never propagated; the analysis already succeeded.
func (s *Service) saveRecord(ctx context.Context, result *domain.Result, photoName string) {
	if s.Repo == nil {
		return
	}
	body, err := json.Marshal(result)
	if err != nil {
		s.Log.Warn("audit record marshal failed", zap.Error(err))
		return
	}
	rec := &domain.Record{
		ID:        domain.RecordID(uuid.New().String()),
		PhotoName: photoName,
		Result:    string(body),
		Counts:    render.Counts(render.Summarize(result)),
		CreatedAt: s.Clock.Now(),
	}
	if err := s.Repo.Save(ctx, rec); err != nil {
		s.Log.Warn("audit record save failed", zap.Error(err), zap.String("id", string(rec.ID)))
	}
}

// ListRecords returns a page of stored analyses, newest first.
func (s *Service) ListRecords(ctx context.Context, page, pageSize int) ([]*domain.Record, error) {
	if s.Repo == nil {
		return []*domain.Record{}, nil
	}
	return s.Repo.Paginate(ctx, page, pageSize)
}
