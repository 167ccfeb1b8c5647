package excel

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jobyaari/trendpipe/internal/core/domain"
)

const (
	defaultSheetName = "AI Automation Data"
	timeLayout       = "2006-01-02 15:04:05"
)

// headers is the fixed worksheet schema, one header row, column order fixed.
var headers = []string{
	"Keyword", "Interest Score", "Category", "Status", "Approval",
	"AI Confidence", "AI Reasoning", "Web Search Summary",
	"Instagram Link", "Blog Link", "YouTube Reel Link", "YouTube Thumbnail Link",
	"Published Timestamp", "Date Extracted", "Categorized At", "Related Queries", "Top Regions",
}

const (
	colKeyword = iota
	colInterest
	colCategory
	colStatus
	colApproval
	colConfidence
	colReasoning
	colSearchSummary
	colInstagram
	colBlog
	colReel
	colThumbnail
	colPublishedAt
	colExtractedAt
	colCategorizedAt
	colRelatedQueries
	colTopRegions
)

// Workbook is the Tabular Store: a local .xlsx file holding the
// authoritative, human-editable row per keyword. Every operation reopens
// and rewrites the file, so concurrent runs race last-write-wins on whole
// rows, the same known limitation the shared online sheet has.
type Workbook struct {
	path  string
	sheet string
}

func New(path, sheet string) *Workbook {
	if sheet == "" {
		sheet = defaultSheetName
	}
	return &Workbook{path: path, sheet: sheet}
}

// Replace rewrites the data rows from the given entry set, keeping the
// header row. Human edits to replaced rows are lost; the sync stage is
// expected to run before review, not after.
func (w *Workbook) Replace(_ context.Context, entries []domain.Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(w.sheet); err != nil {
		return fmt.Errorf("create worksheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	if err := w.writeRow(f, 1, headers); err != nil {
		return err
	}
	for i, entry := range entries {
		if err := w.writeRow(f, i+2, encodeRow(entry)); err != nil {
			return err
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// Rows reads every data row back, trusting whatever status/approval values
// the human review left in place.
func (w *Workbook) Rows(_ context.Context) ([]domain.Entry, error) {
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.WrapError(domain.ErrStageDataMissing, "open workbook", err)
		}
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(w.sheet)
	if err != nil {
		return nil, fmt.Errorf("read worksheet: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	entries := make([]domain.Entry, 0, len(rows)-1)
	for n, row := range rows[1:] {
		entry, err := decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("worksheet row %d: %w", n+2, err)
		}
		if entry.Keyword == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// UpdateStatus writes the status (and optionally the published timestamp)
// back to the row identified by keyword.
func (w *Workbook) UpdateStatus(_ context.Context, keyword string, status domain.Status, publishedAt string) error {
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(w.sheet)
	if err != nil {
		return fmt.Errorf("read worksheet: %w", err)
	}

	for n, row := range rows[1:] {
		if cell(row, colKeyword) != keyword {
			continue
		}
		rowNum := n + 2
		statusCell, err := excelize.CoordinatesToCellName(colStatus+1, rowNum)
		if err != nil {
			return fmt.Errorf("status cell name: %w", err)
		}
		if err := f.SetCellValue(w.sheet, statusCell, string(status)); err != nil {
			return fmt.Errorf("set status: %w", err)
		}
		if publishedAt != "" {
			publishedCell, err := excelize.CoordinatesToCellName(colPublishedAt+1, rowNum)
			if err != nil {
				return fmt.Errorf("published cell name: %w", err)
			}
			if err := f.SetCellValue(w.sheet, publishedCell, publishedAt); err != nil {
				return fmt.Errorf("set published timestamp: %w", err)
			}
		}
		if err := f.SaveAs(w.path); err != nil {
			return fmt.Errorf("save workbook: %w", err)
		}
		return nil
	}
	return domain.WrapError(domain.ErrEntryNotFound, "update status", fmt.Errorf("keyword %q not in worksheet", keyword))
}

func (w *Workbook) writeRow(f *excelize.File, rowNum int, values []string) error {
	start, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("row cell name: %w", err)
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(w.sheet, start, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
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
		e.RelatedQueries,
		e.TopRegions,
	}
}

func decodeRow(row []string) (domain.Entry, error) {
	entry := domain.Entry{
		Keyword:        cell(row, colKeyword),
		Reasoning:      cell(row, colReasoning),
		SearchSummary:  cell(row, colSearchSummary),
		RelatedQueries: cell(row, colRelatedQueries),
		TopRegions:     cell(row, colTopRegions),
	}

	if raw := cell(row, colInterest); raw != "" {
		score, err := strconv.Atoi(raw)
		if err != nil {
			return domain.Entry{}, fmt.Errorf("interest score %q: %w", raw, err)
		}
		entry.InterestScore = score
	}
	if raw := cell(row, colCategory); raw != "" {
		category, err := domain.ParseCategory(raw)
		if err != nil {
			return domain.Entry{}, err
		}
		entry.Category = category
	}
	if raw := cell(row, colStatus); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return domain.Entry{}, err
		}
		entry.Status = status
	} else {
		entry.Status = domain.StatusPending
	}
	if raw := cell(row, colConfidence); raw != "" {
		confidence, err := domain.ParseConfidence(raw)
		if err != nil {
			return domain.Entry{}, err
		}
		entry.Confidence = confidence
	}
	if cell(row, colApproval) == string(domain.ApprovalApproved) {
		entry.Approval = domain.ApprovalApproved
	} else {
		entry.Approval = domain.ApprovalPending
	}

	if link := cell(row, colInstagram); link != "" {
		entry.SetLink(domain.ContentInstagramPost, link)
	}
	if link := cell(row, colBlog); link != "" {
		entry.SetLink(domain.ContentBlogArticle, link)
	}
	if link := cell(row, colReel); link != "" {
		entry.SetLink(domain.ContentYouTubeReel, link)
	}
	if link := cell(row, colThumbnail); link != "" {
		entry.SetLink(domain.ContentYouTubeThumbnail, link)
	}

	var err error
	if entry.PublishedAt, err = parseTime(cell(row, colPublishedAt)); err != nil {
		return domain.Entry{}, err
	}
	if entry.DateExtracted, err = parseTime(cell(row, colExtractedAt)); err != nil {
		return domain.Entry{}, err
	}
	if entry.CategorizedAt, err = parseTime(cell(row, colCategorizedAt)); err != nil {
		return domain.Entry{}, err
	}

	return entry, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
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
