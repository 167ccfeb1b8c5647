package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jobyaari/trendpipe/internal/core/domain"
	"github.com/jobyaari/trendpipe/internal/core/ports"
)

// SampleDataUseCase writes a ready-made dataset for demos and local
// development: synthetic trend entries plus two pre-approved keywords so
// the generation stage has something to work on immediately.
type SampleDataUseCase struct {
	source ports.TrendSource
	store  ports.EntryStore
	logger *slog.Logger
	now    func() time.Time
}

func NewSampleDataUseCase(source ports.TrendSource, store ports.EntryStore, logger *slog.Logger) *SampleDataUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &SampleDataUseCase{
		source: source,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func (uc *SampleDataUseCase) Run(ctx context.Context) error {
	records, err := uc.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch sample trends: %w", err)
	}

	now := uc.now().UTC()
	entries := uc.curatedEntries(now)
	for _, rec := range dedupeRecords(records) {
		entries = append(entries, domain.Entry{
			Keyword:        rec.Keyword,
			InterestScore:  rec.Interest,
			Status:         domain.StatusPending,
			Approval:       domain.ApprovalPending,
			RelatedQueries: rec.RelatedTopics,
			Geo:            rec.Geo,
			DateExtracted:  now,
		})
	}

	if err := uc.store.Save(ctx, domain.StageSample, entries); err != nil {
		return fmt.Errorf("save sample entries: %w", err)
	}
	if err := uc.store.Save(ctx, domain.StageApproved, uc.curatedEntries(now)); err != nil {
		return fmt.Errorf("save sample approved entries: %w", err)
	}

	uc.logger.Info("sample_data_created", slog.Int("entries", len(entries)))
	return nil
}

// curatedEntries are two fully categorized, pre-approved keywords that
// exercise the generation and publish stages without a model run.
func (uc *SampleDataUseCase) curatedEntries(now time.Time) []domain.Entry {
	return []domain.Entry{
		{
			Keyword:        "ssc cgl admit card 2024",
			InterestScore:  85,
			Category:       domain.CategoryAdmitCard,
			Confidence:     domain.ConfidenceHigh,
			Reasoning:      "Keyword names a specific exam admit card release",
			SearchSummary:  "SSC CGL admit cards released for the 2024 tier-1 exam",
			Status:         domain.StatusRunGpt,
			Approval:       domain.ApprovalApproved,
			RelatedQueries: "ssc cgl hall ticket, ssc cgl exam date",
			Geo:            "IN",
			DateExtracted:  now,
			CategorizedAt:  now,
		},
		{
			Keyword:        "neet result 2024",
			InterestScore:  92,
			Category:       domain.CategoryResult,
			Confidence:     domain.ConfidenceHigh,
			Reasoning:      "Keyword names a specific exam result announcement",
			SearchSummary:  "NEET 2024 results declared on the official portal",
			Status:         domain.StatusRunGpt,
			Approval:       domain.ApprovalApproved,
			RelatedQueries: "neet result date, neet cutoff, neet scorecard",
			Geo:            "IN",
			DateExtracted:  now,
			CategorizedAt:  now,
		},
	}
}
