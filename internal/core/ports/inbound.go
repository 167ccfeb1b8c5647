package ports

import (
	"context"

	"github.com/jobyaari/trendpipe/internal/core/domain"
)

// Extractor is the inbound contract for the trend extraction stage.
type Extractor interface {
	Run(ctx context.Context) error
}

// Categorizer is the inbound contract for the categorization stage.
type Categorizer interface {
	Run(ctx context.Context) error
}

// Approver applies the confidence/category gate over categorized entries.
type Approver interface {
	Run(ctx context.Context, threshold domain.Confidence) error
}

// Generator is the inbound contract for the content generation stage.
type Generator interface {
	Run(ctx context.Context) error
}

// Syncer pushes the current entry set into the Tabular Store.
type Syncer interface {
	Run(ctx context.Context) error
}

// PublishRunner publishes approved rows read back from the Tabular Store.
type PublishRunner interface {
	Run(ctx context.Context) error
}
