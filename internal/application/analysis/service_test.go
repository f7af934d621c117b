package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/safetylens/safetylens/internal/domain/analysis"
)

type fakeVision struct {
	text string
	err  error
}

func (f *fakeVision) Analyze(ctx context.Context, imageDataURI string) (string, error) {
	return f.text, f.err
}

type fakeRepo struct {
	saved   []*domain.Record
	saveErr error
}

func (f *fakeRepo) Save(ctx context.Context, rec *domain.Record) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, rec)
	return nil
}

func (f *fakeRepo) Paginate(ctx context.Context, page, pageSize int) ([]*domain.Record, error) {
	return f.saved, nil
}

func (f *fakeRepo) Latest(ctx context.Context, limit int) ([]*domain.Record, error) {
	return f.saved, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newService(vision domain.VisionClient, repo domain.Repository) *Service {
	return &Service{
		Vision:     vision,
		Repo:       repo,
		Clock:      fixedClock{t: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)},
		Log:        zap.NewNop(),
		Credential: func() string { return "test-key" },
	}
}

func TestAnalyzeRejectsEmptyPayload(t *testing.T) {
	svc := newService(&fakeVision{}, nil)

	_, err := svc.Analyze(context.Background(), "", "photo.jpg")
	assert.True(t, errors.Is(err, domain.ErrNoImage))

	_, err = svc.Analyze(context.Background(), "   ", "photo.jpg")
	assert.True(t, errors.Is(err, domain.ErrNoImage))
}

func TestAnalyzeRejectsMissingCredential(t *testing.T) {
	svc := newService(&fakeVision{}, nil)
	svc.Credential = func() string { return "" }

	_, err := svc.Analyze(context.Background(), "data:image/png;base64,xx", "")
	assert.True(t, errors.Is(err, domain.ErrMissingAPIKey))
}

func TestAnalyzeSavesAuditRecord(t *testing.T) {
	repo := &fakeRepo{}
	vision := &fakeVision{text: `{"risks":[{"title":"Missing hard hat","level":"high","recommendation":"Provide PPE"}]}`}
	svc := newService(vision, repo)

	result, err := svc.Analyze(context.Background(), "data:image/png;base64,xx", "site.jpg")
	require.NoError(t, err)
	require.Len(t, result.Risks, 1)

	require.Len(t, repo.saved, 1)
	rec := repo.saved[0]
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "site.jpg", rec.PhotoName)
	assert.Equal(t, domain.SeverityCounts{High: 1, Total: 1}, rec.Counts)
	assert.Equal(t, time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC), rec.CreatedAt)
	assert.JSONEq(t, `{"risks":[{"title":"Missing hard hat","level":"high","recommendation":"Provide PPE"}]}`, rec.Result)
}

func TestAnalyzeSucceedsWhenAuditSaveFails(t *testing.T) {
	repo := &fakeRepo{saveErr: errors.New("db down")}
	vision := &fakeVision{text: `{"risks":[]}`}
	svc := newService(vision, repo)

	result, err := svc.Analyze(context.Background(), "data:image/png;base64,xx", "")
	require.NoError(t, err)
	assert.Empty(t, result.Risks)
}

func TestAnalyzePropagatesVisionError(t *testing.T) {
	svc := newService(&fakeVision{err: domain.ErrQuotaExceeded}, nil)

	_, err := svc.Analyze(context.Background(), "data:image/png;base64,xx", "")
	assert.True(t, errors.Is(err, domain.ErrQuotaExceeded))
}

func TestListRecordsWithoutRepo(t *testing.T) {
	svc := newService(&fakeVision{}, nil)

	list, err := svc.ListRecords(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
