package csvstore

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jobyaari/trendpipe/internal/core/domain"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	categorizedAt := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	entries := []domain.Entry{
		{
			Keyword:        "neet result 2024",
			InterestScore:  92,
			Category:       domain.CategoryResult,
			Confidence:     domain.ConfidenceHigh,
			Reasoning:      "Clear result announcement pattern",
			SearchSummary:  "Found result indicator in keyword",
			Status:         domain.StatusRunGpt,
			Approval:       domain.ApprovalApproved,
			RelatedQueries: "nta.ac.in, neet scorecard, merit list",
			TopRegions:     "Tamil Nadu, Karnataka, AP",
			Geo:            "IN",
			CategorizedAt:  categorizedAt,
		},
		{
			Keyword:       "cricket score",
			InterestScore: 70,
			Status:        domain.StatusPending,
			Approval:      domain.ApprovalPending,
		},
	}
	entries[0].SetLink(domain.ContentBlogArticle, "https://host/blog_neet.html")

	ctx := context.Background()
	if err := store.Save(ctx, domain.StageCategorized, entries); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Load(ctx, domain.StageCategorized)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}

	first := got[0]
	if first.Keyword != "neet result 2024" || first.InterestScore != 92 {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if first.Category != domain.CategoryResult || first.Confidence != domain.ConfidenceHigh {
		t.Fatalf("classification fields lost: %+v", first)
	}
	if first.Status != domain.StatusRunGpt || first.Approval != domain.ApprovalApproved {
		t.Fatalf("workflow fields lost: %+v", first)
	}
	if !first.CategorizedAt.Equal(categorizedAt) {
		t.Fatalf("categorized_at lost: %v", first.CategorizedAt)
	}
	if first.Link(domain.ContentBlogArticle) != "https://host/blog_neet.html" {
		t.Fatalf("blog link lost: %+v", first.Links)
	}

	second := got[1]
	if second.Category != "" || second.Confidence != "" || !second.PublishedAt.IsZero() {
		t.Fatalf("empty values must stay empty: %+v", second)
	}
}

func TestLoadMissingStageIsTyped(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, err = store.Load(context.Background(), domain.StageTrends)
	if !domain.IsKind(err, domain.ErrStageDataMissing) {
		t.Fatalf("expected ErrStageDataMissing, got %v", err)
	}
}

func TestLoadRejectsUnknownStatus(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()
	if err := store.Save(ctx, domain.StageTrends, []domain.Entry{{Keyword: "ok", Status: domain.StatusPending}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Corrupt the status column.
	entries := []domain.Entry{{Keyword: "ok", Status: domain.Status("Done"), Approval: domain.ApprovalPending}}
	if err := store.Save(ctx, domain.StageTrends, entries); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := store.Load(ctx, domain.StageTrends); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad status, got %v", err)
	}
}

func TestContentStoreRoundTrip(t *testing.T) {
	store, err := NewContentStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewContentStore() error = %v", err)
	}

	bundles := []domain.GeneratedContent{{
		Keyword:       "ssc result",
		Category:      domain.CategoryResult,
		InterestScore: 80,
		GeneratedAt:   time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
		Artifacts: map[domain.ContentType]domain.Artifact{
			domain.ContentInstagramPost: {Fields: map[string]any{"caption": "SSC result is out"}},
			domain.ContentBlogArticle:   {Error: "aipipe quota exceeded"},
		},
	}}

	ctx := context.Background()
	if err := store.SaveContent(ctx, bundles); err != nil {
		t.Fatalf("SaveContent() error = %v", err)
	}
	if err := store.SaveSummary(ctx, bundles); err != nil {
		t.Fatalf("SaveSummary() error = %v", err)
	}

	got, err := store.LoadContent(ctx)
	if err != nil {
		t.Fatalf("LoadContent() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 bundle, got %d", len(got))
	}
	if got[0].Artifacts[domain.ContentInstagramPost].Field("caption") != "SSC result is out" {
		t.Fatalf("caption lost: %+v", got[0])
	}
	if !got[0].Artifacts[domain.ContentBlogArticle].Failed() {
		t.Fatalf("error marker lost: %+v", got[0])
	}
	if got[0].ErrorCount() != 1 {
		t.Fatalf("expected exactly one error marker, got %d", got[0].ErrorCount())
	}
}

func TestSummaryCaptionPreviewTruncatesOnRunes(t *testing.T) {
	long := strings.Repeat("की", 60)
	got := truncateRunes(long, 100)
	if !utf8.ValidString(got) {
		t.Fatalf("preview split a multi-byte rune: %q", got)
	}
	if want := strings.Repeat("की", 50) + "..."; got != want {
		t.Fatalf("preview = %q, want %q", got, want)
	}
	if short := truncateRunes("ssc result", 100); short != "ssc result" {
		t.Fatalf("short caption altered: %q", short)
	}
}

func TestLoadContentMissingFileIsEmpty(t *testing.T) {
	store, err := NewContentStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewContentStore() error = %v", err)
	}
	got, err := store.LoadContent(context.Background())
	if err != nil {
		t.Fatalf("LoadContent() error = %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil bundles, got %+v", got)
	}
}
