package ports

import (
	"context"

	"github.com/jobyaari/trendpipe/internal/core/domain"
)

// TrendSource yields raw keyword/interest records for the target market.
type TrendSource interface {
	Fetch(ctx context.Context) ([]domain.TrendRecord, error)
}

// KeywordClassifier performs one language-model classification request.
// Exhausted retries surface as a domain.ErrTemporary-wrapped error; the
// stage decides the domain fallback.
type KeywordClassifier interface {
	Classify(ctx context.Context, req domain.ClassificationRequest) (domain.Classification, error)
}

// ContentWriter generates one content artifact via a language-model call.
type ContentWriter interface {
	Generate(ctx context.Context, ct domain.ContentType, entry domain.Entry) (domain.Artifact, error)
}

// ContextEnricher computes the locally derived context summary that seeds
// the classification prompt. Swappable for a real search backend.
type ContextEnricher interface {
	Enrich(keyword string) string
}

// EntryStore is the Record Store: durable per-stage hand-off of entry sets.
type EntryStore interface {
	Load(ctx context.Context, stage domain.StageData) ([]domain.Entry, error)
	Save(ctx context.Context, stage domain.StageData, entries []domain.Entry) error
}

// ContentStore persists generated content bundles and the human-readable
// generation summary.
type ContentStore interface {
	SaveContent(ctx context.Context, bundles []domain.GeneratedContent) error
	LoadContent(ctx context.Context) ([]domain.GeneratedContent, error)
	SaveSummary(ctx context.Context, bundles []domain.GeneratedContent) error
}

// Worksheet is the Tabular Store: the authoritative human-editable sheet.
// Row updates are whole-row last-write-wins; humans may change status and
// approval between runs and those values win at read time.
type Worksheet interface {
	Replace(ctx context.Context, entries []domain.Entry) error
	Rows(ctx context.Context) ([]domain.Entry, error)
	UpdateStatus(ctx context.Context, keyword string, status domain.Status, publishedAt string) error
}

// Publisher performs the outward publish side effect for one artifact link.
type Publisher interface {
	Publish(ctx context.Context, keyword string, ct domain.ContentType, link string) error
}

// Pacer enforces the shared external-call rate limit between entries.
// *rate.Limiter satisfies it.
type Pacer interface {
	Wait(ctx context.Context) error
}
