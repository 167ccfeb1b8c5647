package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jobyaari/trendpipe/internal/core/domain"
	"github.com/jobyaari/trendpipe/internal/core/ports"
)

// ExtractTrendsUseCase pulls raw trend records, collapses duplicate
// keywords and seeds the pipeline with Pending entries.
type ExtractTrendsUseCase struct {
	source   ports.TrendSource
	fallback ports.TrendSource
	store    ports.EntryStore
	logger   *slog.Logger
	now      func() time.Time
}

func NewExtractTrendsUseCase(
	source ports.TrendSource,
	fallback ports.TrendSource,
	store ports.EntryStore,
	logger *slog.Logger,
) *ExtractTrendsUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractTrendsUseCase{
		source:   source,
		fallback: fallback,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

func (uc *ExtractTrendsUseCase) Run(ctx context.Context) error {
	records, err := uc.fetch(ctx)
	if err != nil {
		return err
	}

	records = dedupeRecords(records)
	if len(records) == 0 {
		return domain.WrapError(domain.ErrStageDataMissing, "extract trends",
			fmt.Errorf("no trend records after deduplication"))
	}

	entries := make([]domain.Entry, 0, len(records))
	extractedAt := uc.now().UTC()
	for _, rec := range records {
		entries = append(entries, domain.Entry{
			Keyword:        rec.Keyword,
			InterestScore:  rec.Interest,
			Status:         domain.StatusPending,
			Approval:       domain.ApprovalPending,
			RelatedQueries: rec.RelatedTopics,
			Geo:            rec.Geo,
			DateExtracted:  extractedAt,
		})
	}

	if err := uc.store.Save(ctx, domain.StageTrends, entries); err != nil {
		return fmt.Errorf("save extracted trends: %w", err)
	}

	uc.logger.Info("trends_extracted", slog.Int("entries", len(entries)))
	return nil
}

func (uc *ExtractTrendsUseCase) fetch(ctx context.Context) ([]domain.TrendRecord, error) {
	records, err := uc.source.Fetch(ctx)
	if err == nil && len(records) > 0 {
		return records, nil
	}
	if err != nil {
		uc.logger.Warn("trend_source_failed", slog.String("error", err.Error()))
	} else {
		uc.logger.Warn("trend_source_empty")
	}

	if uc.fallback == nil {
		if err != nil {
			return nil, fmt.Errorf("fetch trends: %w", err)
		}
		return nil, domain.WrapError(domain.ErrStageDataMissing, "fetch trends",
			fmt.Errorf("trend source returned no records"))
	}

	records, err = uc.fallback.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch fallback trends: %w", err)
	}
	uc.logger.Info("trend_fallback_used", slog.Int("records", len(records)))
	return records, nil
}

// dedupeRecords collapses duplicate keywords case-insensitively. The last
// observation wins but the keyword keeps its first-seen position.
func dedupeRecords(records []domain.TrendRecord) []domain.TrendRecord {
	seen := make(map[string]int, len(records))
	out := make([]domain.TrendRecord, 0, len(records))
	for _, rec := range records {
		key := strings.ToLower(strings.TrimSpace(rec.Keyword))
		if key == "" {
			continue
		}
		if i, ok := seen[key]; ok {
			out[i] = rec
			continue
		}
		seen[key] = len(out)
		out = append(out, rec)
	}
	return out
}
