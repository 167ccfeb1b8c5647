package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jobyaari/trendpipe/internal/core/domain"
	"github.com/jobyaari/trendpipe/internal/core/ports"
)

// CategorizeUseCase classifies every pending entry with the language
// model, enriching the prompt with local web context first. A model call
// that still fails after retries degrades that one entry to
// Not Relevant / Low instead of losing the batch.
type CategorizeUseCase struct {
	store      ports.EntryStore
	enricher   ports.ContextEnricher
	classifier ports.KeywordClassifier
	pacer      ports.Pacer
	logger     *slog.Logger
	now        func() time.Time
}

func NewCategorizeUseCase(
	store ports.EntryStore,
	enricher ports.ContextEnricher,
	classifier ports.KeywordClassifier,
	pacer ports.Pacer,
	logger *slog.Logger,
) *CategorizeUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &CategorizeUseCase{
		store:      store,
		enricher:   enricher,
		classifier: classifier,
		pacer:      pacer,
		logger:     logger,
		now:        time.Now,
	}
}

func (uc *CategorizeUseCase) Run(ctx context.Context) error {
	entries, err := uc.store.Load(ctx, domain.StageTrends)
	if err != nil {
		return fmt.Errorf("load trend entries: %w", err)
	}

	degraded := 0
	for i := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if uc.pacer != nil {
			if err := uc.pacer.Wait(ctx); err != nil {
				return fmt.Errorf("rate limit wait: %w", err)
			}
		}

		ok, err := uc.categorizeEntry(ctx, &entries[i])
		if err != nil {
			return err
		}
		if !ok {
			degraded++
		}
	}

	if err := uc.store.Save(ctx, domain.StageCategorized, entries); err != nil {
		return fmt.Errorf("save categorized entries: %w", err)
	}

	uc.logger.Info("categorization_complete",
		slog.Int("entries", len(entries)),
		slog.Int("degraded", degraded),
	)
	return nil
}

// categorizeEntry classifies one entry in place and reports whether the
// model produced a usable classification. Only context cancellation
// propagates as an error.
func (uc *CategorizeUseCase) categorizeEntry(ctx context.Context, entry *domain.Entry) (bool, error) {
	entry.SearchSummary = uc.enricher.Enrich(entry.Keyword)
	entry.CategorizedAt = uc.now().UTC()

	cls, err := uc.classifier.Classify(ctx, domain.ClassificationRequest{
		Keyword:        entry.Keyword,
		InterestScore:  entry.InterestScore,
		RelatedQueries: entry.RelatedQueries,
		WebContext:     entry.SearchSummary,
	})
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		uc.degrade(entry, fmt.Sprintf("Classification unavailable: %v", err))
		return false, nil
	}

	category, err := domain.ParseCategory(cls.Category)
	if err != nil {
		uc.degrade(entry, fmt.Sprintf("Model returned unknown category %q", cls.Category))
		return false, nil
	}
	confidence, err := domain.ParseConfidence(cls.Confidence)
	if err != nil {
		confidence = domain.ConfidenceLow
	}

	entry.Category = category
	entry.Confidence = confidence
	entry.Reasoning = cls.Reasoning
	return true, nil
}

// degrade records the Not Relevant / Low fallback for an entry whose
// classification could not be trusted. Status stays Pending so a human
// can still rescue the keyword in the sheet; the generation stage marks
// disqualified entries Not Relevant.
func (uc *CategorizeUseCase) degrade(entry *domain.Entry, reason string) {
	uc.logger.Warn("classification_degraded",
		slog.String("keyword", entry.Keyword),
		slog.String("reason", reason),
	)
	entry.Category = domain.CategoryNotRelevant
	entry.Confidence = domain.ConfidenceLow
	entry.Reasoning = reason
}
