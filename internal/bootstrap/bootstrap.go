package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/jobyaari/trendpipe/internal/config"
	"github.com/jobyaari/trendpipe/internal/core/domain"
	"github.com/jobyaari/trendpipe/internal/core/ports"
	"github.com/jobyaari/trendpipe/internal/core/usecase"
	"github.com/jobyaari/trendpipe/internal/infrastructure/enrich/rulebased"
	"github.com/jobyaari/trendpipe/internal/infrastructure/llm/aipipe"
	"github.com/jobyaari/trendpipe/internal/infrastructure/publish/natspub"
	"github.com/jobyaari/trendpipe/internal/infrastructure/publish/simulated"
	"github.com/jobyaari/trendpipe/internal/infrastructure/repository/postgres"
	"github.com/jobyaari/trendpipe/internal/infrastructure/resilience"
	"github.com/jobyaari/trendpipe/internal/infrastructure/sheet/excel"
	"github.com/jobyaari/trendpipe/internal/infrastructure/store/csvstore"
	"github.com/jobyaari/trendpipe/internal/infrastructure/trends/synthetic"
	"github.com/jobyaari/trendpipe/internal/infrastructure/trends/web"
	"github.com/jobyaari/trendpipe/internal/observability/logging"
	"github.com/jobyaari/trendpipe/internal/observability/metrics"
)

type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Metrics *metrics.PipelineMetrics

	Threshold domain.Confidence

	Extract    ports.Extractor
	Categorize ports.Categorizer
	Approve    ports.Approver
	Generate   ports.Generator
	Sync       ports.Syncer
	Publish    ports.PublishRunner
	Sample     *usecase.SampleDataUseCase
	Pipeline   *usecase.Orchestrator

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger := logging.NewJSONLogger("trendpipe", cfg.LogLevel)

	store, closeStore, err := buildEntryStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	contents, err := csvstore.NewContentStore(cfg.OutputDir)
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("init content store: %w", err)
	}

	sheet := excel.New(cfg.WorkbookPath, cfg.WorksheetName)

	executor := resilience.NewExecutor(resilience.Config{
		MaxAttempts:    cfg.RetryAttempts,
		InitialBackoff: cfg.RetryBackoff,
		MaxBackoff:     cfg.RetryMaxWait,
	})
	aipipeClient := aipipe.New(cfg.AIPipeBaseURL, cfg.AIPipeAPIKey, cfg.AIPipeModel)
	classifier := aipipe.NewClassifier(aipipeClient, executor)
	writer := aipipe.NewContentWriter(aipipeClient, executor)

	publisher, closePublisher, err := buildPublisher(cfg, logger, executor)
	if err != nil {
		closeStore()
		return nil, err
	}

	// The scraper is always the primary source; the synthetic watchlist
	// only backs the extraction fallback and the sample command.
	fallback := synthetic.New(time.Now().UnixNano())
	source := web.New(&http.Client{Timeout: 30 * time.Second}, cfg.TrendsURL, cfg.TrendsGeo)

	pacer := rate.NewLimiter(rate.Limit(float64(cfg.CallsPerMinute)/60.0), 1)

	threshold, err := domain.ParseConfidence(cfg.ApprovalThreshold)
	if err != nil {
		logger.Warn("invalid_approval_threshold",
			slog.String("value", cfg.ApprovalThreshold),
			slog.String("fallback", string(domain.ConfidenceMedium)),
		)
		threshold = domain.ConfidenceMedium
	}

	pipelineMetrics := metrics.NewPipelineMetrics("trendpipe")

	extract := instrument("extraction", pipelineMetrics,
		usecase.NewExtractTrendsUseCase(source, fallback, store, logger))
	categorize := instrument("categorization", pipelineMetrics,
		usecase.NewCategorizeUseCase(store, rulebased.New(), classifier, pacer, logger))
	approve := instrumentApprove("approval", pipelineMetrics,
		usecase.NewApproveUseCase(store, logger))
	generate := instrument("generation", pipelineMetrics,
		usecase.NewGenerateContentUseCase(store, contents, writer, pacer, cfg.ContentLinkBase, logger))
	syncUC := instrument("sheet_sync", pipelineMetrics,
		usecase.NewSyncSheetUseCase(store, sheet, logger))
	publish := instrument("publish", pipelineMetrics,
		usecase.NewPublishUseCase(sheet, publisher, logger))
	sample := usecase.NewSampleDataUseCase(fallback, store, logger)
	pipeline := usecase.NewOrchestrator(extract, categorize, approve, generate, syncUC, publish, threshold, logger)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: pipelineMetrics,

		Threshold: threshold,

		Extract:    extract,
		Categorize: categorize,
		Approve:    approve,
		Generate:   generate,
		Sync:       syncUC,
		Publish:    publish,
		Sample:     sample,
		Pipeline:   pipeline,

		closeFn: func() {
			closePublisher()
			closeStore()
		},
	}, nil
}

func buildEntryStore(ctx context.Context, cfg config.Config) (ports.EntryStore, func(), error) {
	if !cfg.UsePostgresStore {
		store, err := csvstore.New(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("init csv store: %w", err)
		}
		return store, func() {}, nil
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewEntryRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ensure schema: %w", err)
	}
	return repo, func() { _ = db.Close() }, nil
}

func buildPublisher(cfg config.Config, logger *slog.Logger, executor *resilience.Executor) (ports.Publisher, func(), error) {
	if !cfg.PublishToNATS {
		return simulated.New(logger), func() {}, nil
	}

	pub, err := natspub.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, natspub.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init nats publisher: %w", err)
	}
	return pub, pub.Close, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

type stageRunner interface {
	Run(ctx context.Context) error
}

// instrumentedStage records run counts and durations for one stage.
type instrumentedStage struct {
	name    string
	metrics *metrics.PipelineMetrics
	next    stageRunner
}

func instrument(name string, m *metrics.PipelineMetrics, next stageRunner) *instrumentedStage {
	return &instrumentedStage{name: name, metrics: m, next: next}
}

func (s *instrumentedStage) Run(ctx context.Context) error {
	started := time.Now()
	err := s.next.Run(ctx)
	s.metrics.ObserveStage(s.name, time.Since(started), err)
	return err
}

// instrumentedApprove mirrors instrumentedStage for the approval gate,
// whose Run additionally carries the confidence threshold.
type instrumentedApprove struct {
	name    string
	metrics *metrics.PipelineMetrics
	next    ports.Approver
}

func instrumentApprove(name string, m *metrics.PipelineMetrics, next ports.Approver) *instrumentedApprove {
	return &instrumentedApprove{name: name, metrics: m, next: next}
}

func (s *instrumentedApprove) Run(ctx context.Context, threshold domain.Confidence) error {
	started := time.Now()
	err := s.next.Run(ctx, threshold)
	s.metrics.ObserveStage(s.name, time.Since(started), err)
	return err
}
