package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jobyaari/trendpipe/internal/core/domain"
)

const timeLayout = "2006-01-02 15:04:05"

// header is the fixed column order for every stage file. Values round-trip
// losslessly; empty and missing values normalize to the empty string.
var header = []string{
	"keyword", "interest_score", "category", "status", "approval",
	"ai_confidence", "ai_reasoning", "web_search_summary",
	"instagram_link", "blog_link", "youtube_reel_link", "youtube_thumbnail_link",
	"published_timestamp", "date_extracted", "categorized_at", "content_generated_at",
	"related_queries", "top_regions", "geo",
}

// Store is the file-backed Record Store: one CSV per pipeline stage.
type Store struct {
	dataDir string
}

func New(dataDir string) (*Store, error) {
	if dataDir == "" {
		dataDir = "./data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dataDir: dataDir}, nil
}

func (s *Store) path(stage domain.StageData) string {
	return filepath.Join(s.dataDir, string(stage)+".csv")
}

func (s *Store) Load(_ context.Context, stage domain.StageData) ([]domain.Entry, error) {
	f, err := os.Open(s.path(stage))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.WrapError(domain.ErrStageDataMissing, "load stage", fmt.Errorf("no file for stage %s", stage))
		}
		return nil, fmt.Errorf("open stage %s: %w", stage, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read stage %s: %w", stage, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[name] = i
	}

	entries := make([]domain.Entry, 0, len(rows)-1)
	for n, row := range rows[1:] {
		entry, err := decodeRow(index, row)
		if err != nil {
			return nil, fmt.Errorf("stage %s row %d: %w", stage, n+2, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Store) Save(_ context.Context, stage domain.StageData, entries []domain.Entry) error {
	f, err := os.Create(s.path(stage))
	if err != nil {
		return fmt.Errorf("create stage %s: %w", stage, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write stage %s header: %w", stage, err)
	}
	for _, entry := range entries {
		if err := writer.Write(encodeRow(entry)); err != nil {
			return fmt.Errorf("write stage %s row: %w", stage, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush stage %s: %w", stage, err)
	}
	return nil
}

func encodeRow(e domain.Entry) []string {
	return []string{
		e.Keyword,
		strconv.Itoa(e.InterestScore),
		string(e.Category),
		string(e.Status),
		string(e.Approval),
		string(e.Confidence),
		e.Reasoning,
		e.SearchSummary,
		e.Link(domain.ContentInstagramPost),
		e.Link(domain.ContentBlogArticle),
		e.Link(domain.ContentYouTubeReel),
		e.Link(domain.ContentYouTubeThumbnail),
		formatTime(e.PublishedAt),
		formatTime(e.DateExtracted),
		formatTime(e.CategorizedAt),
		formatTime(e.ContentGeneratedAt),
		e.RelatedQueries,
		e.TopRegions,
		e.Geo,
	}
}

func decodeRow(index map[string]int, row []string) (domain.Entry, error) {
	get := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	entry := domain.Entry{
		Keyword:        get("keyword"),
		Reasoning:      get("ai_reasoning"),
		SearchSummary:  get("web_search_summary"),
		RelatedQueries: get("related_queries"),
		TopRegions:     get("top_regions"),
		Geo:            get("geo"),
	}
	if entry.Keyword == "" {
		return domain.Entry{}, domain.WrapError(domain.ErrInvalidInput, "decode entry", errors.New("empty keyword"))
	}

	if raw := get("interest_score"); raw != "" {
		score, err := strconv.Atoi(raw)
		if err != nil {
			return domain.Entry{}, fmt.Errorf("interest_score %q: %w", raw, err)
		}
		entry.InterestScore = score
	}

	if raw := get("category"); raw != "" {
		category, err := domain.ParseCategory(raw)
		if err != nil {
			return domain.Entry{}, err
		}
		entry.Category = category
	}
	if raw := get("status"); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return domain.Entry{}, err
		}
		entry.Status = status
	} else {
		entry.Status = domain.StatusPending
	}
	if raw := get("ai_confidence"); raw != "" {
		confidence, err := domain.ParseConfidence(raw)
		if err != nil {
			return domain.Entry{}, err
		}
		entry.Confidence = confidence
	}
	if raw := get("approval"); raw == string(domain.ApprovalApproved) {
		entry.Approval = domain.ApprovalApproved
	} else {
		entry.Approval = domain.ApprovalPending
	}

	links := map[string]domain.ContentType{
		"instagram_link":         domain.ContentInstagramPost,
		"blog_link":              domain.ContentBlogArticle,
		"youtube_reel_link":      domain.ContentYouTubeReel,
		"youtube_thumbnail_link": domain.ContentYouTubeThumbnail,
	}
	for column, ct := range links {
		if link := get(column); link != "" {
			entry.SetLink(ct, link)
		}
	}

	var err error
	if entry.PublishedAt, err = parseTime(get("published_timestamp")); err != nil {
		return domain.Entry{}, err
	}
	if entry.DateExtracted, err = parseTime(get("date_extracted")); err != nil {
		return domain.Entry{}, err
	}
	if entry.CategorizedAt, err = parseTime(get("categorized_at")); err != nil {
		return domain.Entry{}, err
	}
	if entry.ContentGeneratedAt, err = parseTime(get("content_generated_at")); err != nil {
		return domain.Entry{}, err
	}

	return entry, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q: %w", raw, err)
	}
	return t, nil
}
