package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobyaari/trendpipe/internal/bootstrap"
	"github.com/jobyaari/trendpipe/internal/config"
)

type cliOverrides struct {
	dataDir   string
	workbook  string
	threshold string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Fatalf("pipeline error: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	overrides := &cliOverrides{}
	root := &cobra.Command{
		Use:           "pipeline",
		Short:         "Trend keyword to published content automation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&overrides.dataDir, "data-dir", "", "stage data directory (overrides DATA_DIR)")
	root.PersistentFlags().StringVar(&overrides.workbook, "workbook", "", "workbook path (overrides WORKBOOK_PATH)")
	root.PersistentFlags().StringVar(&overrides.threshold, "threshold", "", "approval confidence threshold (overrides APPROVAL_THRESHOLD)")
	root.AddCommand(newRunCmd(overrides), newStageCmd(overrides), newSampleCmd(overrides))
	return root
}

func newRunCmd(overrides *cliOverrides) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full four-stage pipeline once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), overrides, func(ctx context.Context, app *bootstrap.App) error {
				return app.Pipeline.Run(ctx)
			})
		},
	}
}

func newStageCmd(overrides *cliOverrides) *cobra.Command {
	return &cobra.Command{
		Use:       "stage <extract|categorize|approve|generate|sync|publish>",
		Short:     "Run a single pipeline stage",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"extract", "categorize", "approve", "generate", "sync", "publish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), overrides, func(ctx context.Context, app *bootstrap.App) error {
				return runStage(ctx, app, args[0])
			})
		},
	}
}

func newSampleCmd(overrides *cliOverrides) *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Write a sample dataset for demos and local development",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), overrides, func(ctx context.Context, app *bootstrap.App) error {
				return app.Sample.Run(ctx)
			})
		},
	}
}

type stageRunner interface {
	Run(ctx context.Context) error
}

func runStage(ctx context.Context, app *bootstrap.App, stage string) error {
	stages := map[string]stageRunner{
		"extract":    app.Extract,
		"categorize": app.Categorize,
		"generate":   app.Generate,
		"sync":       app.Sync,
		"publish":    app.Publish,
	}
	if stage == "approve" {
		return app.Approve.Run(ctx, app.Threshold)
	}
	runner, ok := stages[stage]
	if !ok {
		return fmt.Errorf("unknown stage %q", stage)
	}
	return runner.Run(ctx)
}

func withApp(ctx context.Context, overrides *cliOverrides, fn func(context.Context, *bootstrap.App) error) error {
	cfg := config.Load()
	if overrides.dataDir != "" {
		cfg.DataDir = overrides.dataDir
	}
	if overrides.workbook != "" {
		cfg.WorkbookPath = overrides.workbook
	}
	if overrides.threshold != "" {
		cfg.ApprovalThreshold = overrides.threshold
	}

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer app.Close()

	if cfg.MetricsPort != "" {
		go serveMetrics(app, cfg.MetricsPort)
	}

	return fn(ctx, app)
}

func serveMetrics(app *bootstrap.App, port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", app.Metrics.Handler())
	if err := http.ListenAndServe(":"+port, mux); err != nil && err != http.ErrServerClosed {
		app.Logger.Warn("metrics_server_stopped", "error", err.Error())
	}
}
