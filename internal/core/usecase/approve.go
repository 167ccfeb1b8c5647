package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jobyaari/trendpipe/internal/core/domain"
	"github.com/jobyaari/trendpipe/internal/core/ports"
)

// ApproveUseCase applies the confidence gate over categorized entries:
// relevant entries at or above the threshold are approved and moved to
// Run GPT, everything else passes through untouched for human review.
type ApproveUseCase struct {
	store  ports.EntryStore
	logger *slog.Logger
}

func NewApproveUseCase(store ports.EntryStore, logger *slog.Logger) *ApproveUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ApproveUseCase{store: store, logger: logger}
}

func (uc *ApproveUseCase) Run(ctx context.Context, threshold domain.Confidence) error {
	entries, err := uc.store.Load(ctx, domain.StageCategorized)
	if err != nil {
		return fmt.Errorf("load categorized entries: %w", err)
	}

	approved := 0
	for i := range entries {
		entry := &entries[i]
		if !eligibleForApproval(entry, threshold) {
			continue
		}
		if err := entry.TransitionTo(domain.StatusRunGpt); err != nil {
			uc.logger.Warn("status_transition_rejected",
				slog.String("keyword", entry.Keyword),
				slog.String("error", err.Error()),
			)
			continue
		}
		entry.Approval = domain.ApprovalApproved
		approved++
	}

	if err := uc.store.Save(ctx, domain.StageApproved, entries); err != nil {
		return fmt.Errorf("save approved entries: %w", err)
	}

	uc.logger.Info("approval_gate_complete",
		slog.Int("entries", len(entries)),
		slog.Int("approved", approved),
		slog.String("threshold", string(threshold)),
	)
	return nil
}

func eligibleForApproval(entry *domain.Entry, threshold domain.Confidence) bool {
	if entry.Status != domain.StatusPending {
		return false
	}
	if entry.Category == "" || entry.Category == domain.CategoryNotRelevant {
		return false
	}
	return entry.Confidence.Rank() >= threshold.Rank()
}
