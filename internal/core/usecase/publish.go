package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jobyaari/trendpipe/internal/core/domain"
	"github.com/jobyaari/trendpipe/internal/core/ports"
)

const publishedTimestampLayout = "2006-01-02 15:04:05"

// PublishUseCase reads the worksheet back and publishes every approved,
// not-yet-published row, then marks it Published with a timestamp.
// Re-running it is a no-op for rows already published.
type PublishUseCase struct {
	sheet     ports.Worksheet
	publisher ports.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewPublishUseCase(sheet ports.Worksheet, publisher ports.Publisher, logger *slog.Logger) *PublishUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &PublishUseCase{
		sheet:     sheet,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (uc *PublishUseCase) Run(ctx context.Context) error {
	rows, err := uc.sheet.Rows(ctx)
	if err != nil {
		return fmt.Errorf("read worksheet rows: %w", err)
	}

	published, failed := 0, 0
	for _, row := range rows {
		if !publishable(row) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := uc.publishRow(ctx, row); err != nil {
			failed++
			uc.logger.Warn("publish_failed",
				slog.String("keyword", row.Keyword),
				slog.String("error", err.Error()),
			)
			continue
		}
		published++
	}

	uc.logger.Info("publish_pass_complete",
		slog.Int("rows", len(rows)),
		slog.Int("published", published),
		slog.Int("failed", failed),
	)
	if published == 0 && failed > 0 {
		return domain.WrapError(domain.ErrTemporary, "publish pass",
			fmt.Errorf("all %d publishable rows failed", failed))
	}
	return nil
}

func (uc *PublishUseCase) publishRow(ctx context.Context, row domain.Entry) error {
	links := 0
	for _, ct := range domain.ContentTypes {
		link := row.Link(ct)
		if link == "" {
			continue
		}
		if err := uc.publisher.Publish(ctx, row.Keyword, ct, link); err != nil {
			return fmt.Errorf("publish %s: %w", ct, err)
		}
		links++
	}
	if links == 0 {
		uc.logger.Warn("no_links_to_publish", slog.String("keyword", row.Keyword))
	}

	publishedAt := uc.now().UTC().Format(publishedTimestampLayout)
	if err := uc.sheet.UpdateStatus(ctx, row.Keyword, domain.StatusPublished, publishedAt); err != nil {
		return fmt.Errorf("mark published: %w", err)
	}
	return nil
}

func publishable(row domain.Entry) bool {
	if row.Approval != domain.ApprovalApproved {
		return false
	}
	switch row.Status {
	case domain.StatusPublished, domain.StatusNotRelevant:
		return false
	}
	return true
}
