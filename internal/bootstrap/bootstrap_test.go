package bootstrap

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jobyaari/trendpipe/internal/config"
	"github.com/jobyaari/trendpipe/internal/core/domain"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		LogLevel:          "error",
		DataDir:           t.TempDir(),
		OutputDir:         t.TempDir(),
		WorkbookPath:      filepath.Join(t.TempDir(), "automation_data.xlsx"),
		WorksheetName:     "AI Automation Data",
		AIPipeBaseURL:     "https://aipipe.org/openrouter/v1",
		AIPipeModel:       "openai/gpt-4o-mini",
		ContentLinkBase:   "https://cdn.jobyaari.com/content",
		ApprovalThreshold: "Medium",
		CallsPerMinute:    30,
		RetryAttempts:     1,
		RetryBackoff:      time.Millisecond,
	}
}

func TestNewInstrumentsEveryStage(t *testing.T) {
	app, err := New(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Close()

	if _, ok := app.Extract.(*instrumentedStage); !ok {
		t.Fatalf("extraction not instrumented: %T", app.Extract)
	}
	if _, ok := app.Approve.(*instrumentedApprove); !ok {
		t.Fatalf("approval gate not instrumented: %T", app.Approve)
	}
	if _, ok := app.Publish.(*instrumentedStage); !ok {
		t.Fatalf("publish not instrumented: %T", app.Publish)
	}
	if app.Threshold != domain.ConfidenceMedium {
		t.Fatalf("threshold = %v, want Medium", app.Threshold)
	}
}

func TestNewFallsBackOnBadThreshold(t *testing.T) {
	cfg := testConfig(t)
	cfg.ApprovalThreshold = "Certain"

	app, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Close()

	if app.Threshold != domain.ConfidenceMedium {
		t.Fatalf("threshold = %v, want Medium fallback", app.Threshold)
	}
}
