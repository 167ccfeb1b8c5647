package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jobyaari/trendpipe/internal/core/domain"
	"github.com/jobyaari/trendpipe/internal/core/ports"
)

// SyncSheetUseCase pushes the freshest stage snapshot into the worksheet.
// Human edits already sitting in the sheet win: a row whose status was
// advanced by hand, or that a human approved, keeps those values.
type SyncSheetUseCase struct {
	store  ports.EntryStore
	sheet  ports.Worksheet
	logger *slog.Logger
}

func NewSyncSheetUseCase(store ports.EntryStore, sheet ports.Worksheet, logger *slog.Logger) *SyncSheetUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncSheetUseCase{store: store, sheet: sheet, logger: logger}
}

func (uc *SyncSheetUseCase) Run(ctx context.Context) error {
	entries, err := uc.loadFreshest(ctx)
	if err != nil {
		return err
	}

	overridden := uc.applyHumanOverrides(ctx, entries)

	if err := uc.sheet.Replace(ctx, entries); err != nil {
		return fmt.Errorf("replace worksheet: %w", err)
	}

	uc.logger.Info("sheet_synced",
		slog.Int("rows", len(entries)),
		slog.Int("human_overrides", overridden),
	)
	return nil
}

// loadFreshest prefers the post-generation snapshot and falls back to the
// categorized one when no generation pass has run yet.
func (uc *SyncSheetUseCase) loadFreshest(ctx context.Context) ([]domain.Entry, error) {
	entries, err := uc.store.Load(ctx, domain.StageUpdated)
	if err == nil {
		return entries, nil
	}
	if !domain.IsKind(err, domain.ErrStageDataMissing) {
		return nil, fmt.Errorf("load updated entries: %w", err)
	}

	entries, err = uc.store.Load(ctx, domain.StageCategorized)
	if err != nil {
		return nil, fmt.Errorf("load categorized entries: %w", err)
	}
	return entries, nil
}

// applyHumanOverrides keeps sheet-side status and approval for any row a
// human advanced past what the pipeline recorded.
func (uc *SyncSheetUseCase) applyHumanOverrides(ctx context.Context, entries []domain.Entry) int {
	rows, err := uc.sheet.Rows(ctx)
	if err != nil {
		if !domain.IsKind(err, domain.ErrStageDataMissing) {
			uc.logger.Warn("sheet_read_failed", slog.String("error", err.Error()))
		}
		return 0
	}

	byKeyword := make(map[string]domain.Entry, len(rows))
	for _, row := range rows {
		byKeyword[row.Keyword] = row
	}

	overridden := 0
	for i := range entries {
		entry := &entries[i]
		row, ok := byKeyword[entry.Keyword]
		if !ok {
			continue
		}
		changed := false
		if statusAhead(row.Status, entry.Status) {
			entry.Status = row.Status
			if !row.PublishedAt.IsZero() {
				entry.PublishedAt = row.PublishedAt
			}
			changed = true
		}
		if row.Approval == domain.ApprovalApproved && entry.Approval != domain.ApprovalApproved {
			entry.Approval = row.Approval
			changed = true
		}
		if changed {
			overridden++
		}
	}
	return overridden
}

// statusAhead reports whether the sheet status is a valid advancement of
// the pipeline status.
func statusAhead(sheet, pipeline domain.Status) bool {
	if sheet == pipeline {
		return false
	}
	return domain.IsValidTransition(pipeline, sheet) ||
		walkForward(pipeline, sheet)
}

// walkForward reports whether sheet is reachable from pipeline through
// consecutive forward transitions, covering multi-step human advances.
func walkForward(from, to domain.Status) bool {
	order := []domain.Status{
		domain.StatusPending,
		domain.StatusRunGpt,
		domain.StatusContentGenerated,
		domain.StatusPostLive,
		domain.StatusPublished,
	}
	fromPos, toPos := -1, -1
	for i, s := range order {
		if s == from {
			fromPos = i
		}
		if s == to {
			toPos = i
		}
	}
	return fromPos >= 0 && toPos > fromPos
}
