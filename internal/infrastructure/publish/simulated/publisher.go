package simulated

import (
	"context"
	"log/slog"

	"github.com/jobyaari/trendpipe/internal/core/domain"
)

// Publisher logs each publish instead of calling a real channel API.
// Real platform integrations plug in behind the same port.
type Publisher struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, keyword string, contentType domain.ContentType, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.logger.Info("publish_simulated",
		slog.String("keyword", keyword),
		slog.String("content_type", string(contentType)),
		slog.String("link", link),
	)
	return nil
}
