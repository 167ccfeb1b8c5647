package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jobyaari/trendpipe/internal/core/domain"
	"github.com/jobyaari/trendpipe/internal/core/ports"
)

// Orchestrator drives a full pipeline run across the four stages with
// per-stage failure policy:
//
//	extraction     - failure tolerated, categorization decides the outcome
//	categorization - failure aborts the run, nothing downstream can work
//	generation     - failure tolerated, entries stay approved for a rerun
//	sync + publish - failure tolerated, the sheet remains the fallback
//
// A run counts as successful when at least half of the stages succeed.
type Orchestrator struct {
	extractor   ports.Extractor
	categorizer ports.Categorizer
	approver    ports.Approver
	generator   ports.Generator
	syncer      ports.Syncer
	publisher   ports.PublishRunner
	threshold   domain.Confidence
	logger      *slog.Logger
}

func NewOrchestrator(
	extractor ports.Extractor,
	categorizer ports.Categorizer,
	approver ports.Approver,
	generator ports.Generator,
	syncer ports.Syncer,
	publisher ports.PublishRunner,
	threshold domain.Confidence,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		extractor:   extractor,
		categorizer: categorizer,
		approver:    approver,
		generator:   generator,
		syncer:      syncer,
		publisher:   publisher,
		threshold:   threshold,
		logger:      logger,
	}
}

func (o *Orchestrator) Run(ctx context.Context) error {
	runID := uuid.NewString()
	logger := o.logger.With(slog.String("run_id", runID))
	started := time.Now()
	logger.Info("pipeline_run_started")

	succeeded := 0
	total := 4

	// Stage 1: extraction. The extract stage falls back to synthetic
	// trends internally; only a total failure lands here.
	if err := o.extractor.Run(ctx); err != nil {
		if ctxDone(ctx, err) {
			return err
		}
		logger.Warn("stage_failed",
			slog.String("stage", "extraction"),
			slog.String("error", err.Error()),
		)
	} else {
		logger.Info("stage_complete", slog.String("stage", "extraction"))
		succeeded++
	}

	// Stage 2: categorization. Without classifications every later stage
	// is meaningless, so a failure ends the run.
	if err := o.categorizer.Run(ctx); err != nil {
		logger.Error("stage_failed",
			slog.String("stage", "categorization"),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("categorization stage: %w", err)
	}
	logger.Info("stage_complete", slog.String("stage", "categorization"))
	succeeded++

	// Stage 3: approval gate plus content generation.
	if err := o.runGeneration(ctx); err != nil {
		if ctxDone(ctx, err) {
			return err
		}
		logger.Warn("stage_failed",
			slog.String("stage", "generation"),
			slog.String("error", err.Error()),
		)
	} else {
		logger.Info("stage_complete", slog.String("stage", "generation"))
		succeeded++
	}

	// Stage 4: worksheet sync followed by the publish pass.
	if err := o.runDelivery(ctx); err != nil {
		if ctxDone(ctx, err) {
			return err
		}
		logger.Warn("stage_failed",
			slog.String("stage", "delivery"),
			slog.String("error", err.Error()),
		)
	} else {
		logger.Info("stage_complete", slog.String("stage", "delivery"))
		succeeded++
	}

	logger.Info("pipeline_run_finished",
		slog.Int("stages_succeeded", succeeded),
		slog.Int("stages_total", total),
		slog.Duration("elapsed", time.Since(started)),
	)
	o.logNextSteps(logger)

	if succeeded*2 < total {
		return fmt.Errorf("pipeline run %s: only %d/%d stages succeeded", runID, succeeded, total)
	}
	return nil
}

func (o *Orchestrator) runGeneration(ctx context.Context) error {
	if err := o.approver.Run(ctx, o.threshold); err != nil {
		return fmt.Errorf("approval gate: %w", err)
	}
	if err := o.generator.Run(ctx); err != nil {
		return fmt.Errorf("content generation: %w", err)
	}
	return nil
}

func (o *Orchestrator) runDelivery(ctx context.Context) error {
	if err := o.syncer.Run(ctx); err != nil {
		return fmt.Errorf("sheet sync: %w", err)
	}
	if err := o.publisher.Run(ctx); err != nil {
		return fmt.Errorf("publish pass: %w", err)
	}
	return nil
}

// logNextSteps spells out the manual review loop that closes each run.
func (o *Orchestrator) logNextSteps(logger *slog.Logger) {
	logger.Info("next_steps",
		slog.String("review", "open the worksheet and review categorized keywords"),
		slog.String("approve", "set Approval to Approved for rows that should go live"),
		slog.String("rerun", "run the publish stage again to pick up manual approvals"),
	)
}

func ctxDone(ctx context.Context, err error) bool {
	return ctx.Err() != nil && err != nil
}
