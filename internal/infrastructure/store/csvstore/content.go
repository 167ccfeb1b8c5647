package csvstore

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jobyaari/trendpipe/internal/core/domain"
)

// ContentStore persists generated content bundles (JSON) and a
// human-readable summary (CSV) under the output directory.
type ContentStore struct {
	outputDir string
}

func NewContentStore(outputDir string) (*ContentStore, error) {
	if outputDir == "" {
		outputDir = "./output"
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &ContentStore{outputDir: outputDir}, nil
}

func (s *ContentStore) contentPath() string {
	return filepath.Join(s.outputDir, "generated_content.json")
}

func (s *ContentStore) SaveContent(_ context.Context, bundles []domain.GeneratedContent) error {
	data, err := json.MarshalIndent(bundles, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal generated content: %w", err)
	}
	if err := os.WriteFile(s.contentPath(), data, 0o644); err != nil {
		return fmt.Errorf("write generated content: %w", err)
	}
	return nil
}

func (s *ContentStore) LoadContent(_ context.Context) ([]domain.GeneratedContent, error) {
	data, err := os.ReadFile(s.contentPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read generated content: %w", err)
	}
	var bundles []domain.GeneratedContent
	if err := json.Unmarshal(data, &bundles); err != nil {
		return nil, fmt.Errorf("unmarshal generated content: %w", err)
	}
	return bundles, nil
}

func (s *ContentStore) SaveSummary(_ context.Context, bundles []domain.GeneratedContent) error {
	f, err := os.Create(filepath.Join(s.outputDir, "content_summary.csv"))
	if err != nil {
		return fmt.Errorf("create content summary: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write([]string{"keyword", "category", "instagram_caption_preview", "blog_title", "generated_at", "content_status"}); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}
	for _, bundle := range bundles {
		caption := truncateRunes(bundle.Artifacts[domain.ContentInstagramPost].Field("caption"), 100)
		row := []string{
			bundle.Keyword,
			string(bundle.Category),
			caption,
			bundle.Artifacts[domain.ContentBlogArticle].Field("title"),
			formatTime(bundle.GeneratedAt),
			"Generated",
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush content summary: %w", err)
	}
	return nil
}

// truncateRunes shortens s to max runes, never splitting a multi-byte
// sequence.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
