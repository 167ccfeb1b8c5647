package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/jobyaari/trendpipe/internal/core/domain"
)

type storeFake struct {
	stages  map[domain.StageData][]domain.Entry
	loadErr error
	saveErr error
	saves   []domain.StageData
}

func newStoreFake() *storeFake {
	return &storeFake{stages: make(map[domain.StageData][]domain.Entry)}
}

func (f *storeFake) Load(_ context.Context, stage domain.StageData) ([]domain.Entry, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	entries, ok := f.stages[stage]
	if !ok {
		return nil, domain.WrapError(domain.ErrStageDataMissing, "load stage",
			fmt.Errorf("no data for %s", stage))
	}
	out := make([]domain.Entry, len(entries))
	copy(out, entries)
	return out, nil
}

func (f *storeFake) Save(_ context.Context, stage domain.StageData, entries []domain.Entry) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	stored := make([]domain.Entry, len(entries))
	copy(stored, entries)
	f.stages[stage] = stored
	f.saves = append(f.saves, stage)
	return nil
}

type sourceFake struct {
	records []domain.TrendRecord
	err     error
}

func (f *sourceFake) Fetch(context.Context) ([]domain.TrendRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

type enricherFake struct {
	summary string
}

func (f *enricherFake) Enrich(string) string { return f.summary }

type keywordClassifierFake struct {
	byKeyword map[string]domain.Classification
	errFor    map[string]error
	calls     []string
}

func (f *keywordClassifierFake) Classify(_ context.Context, req domain.ClassificationRequest) (domain.Classification, error) {
	f.calls = append(f.calls, req.Keyword)
	if err, ok := f.errFor[req.Keyword]; ok {
		return domain.Classification{}, err
	}
	if cls, ok := f.byKeyword[req.Keyword]; ok {
		return cls, nil
	}
	return domain.Classification{Category: "Not Relevant", Confidence: "Low", Reasoning: "default"}, nil
}

type contentWriterFake struct {
	errFor map[domain.ContentType]error
	calls  []domain.ContentType
}

func (f *contentWriterFake) Generate(_ context.Context, ct domain.ContentType, entry domain.Entry) (domain.Artifact, error) {
	f.calls = append(f.calls, ct)
	if err, ok := f.errFor[ct]; ok {
		return domain.Artifact{}, err
	}
	return domain.Artifact{Fields: map[string]any{
		"body": fmt.Sprintf("%s content for %s", ct, entry.Keyword),
	}}, nil
}

type contentStoreFake struct {
	existing  []domain.GeneratedContent
	saved     []domain.GeneratedContent
	summaries []domain.GeneratedContent
	loadErr   error
}

func (f *contentStoreFake) LoadContent(context.Context) ([]domain.GeneratedContent, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.existing, nil
}

func (f *contentStoreFake) SaveContent(_ context.Context, bundles []domain.GeneratedContent) error {
	f.saved = bundles
	return nil
}

func (f *contentStoreFake) SaveSummary(_ context.Context, bundles []domain.GeneratedContent) error {
	f.summaries = bundles
	return nil
}

type statusUpdate struct {
	keyword     string
	status      domain.Status
	publishedAt string
}

type sheetFake struct {
	rows     []domain.Entry
	replaced []domain.Entry
	updates  []statusUpdate
	rowsErr  error
}

func (f *sheetFake) Replace(_ context.Context, entries []domain.Entry) error {
	f.replaced = entries
	f.rows = entries
	return nil
}

func (f *sheetFake) Rows(context.Context) ([]domain.Entry, error) {
	if f.rowsErr != nil {
		return nil, f.rowsErr
	}
	if f.rows == nil {
		return nil, domain.WrapError(domain.ErrStageDataMissing, "read sheet",
			errors.New("workbook not created"))
	}
	out := make([]domain.Entry, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *sheetFake) UpdateStatus(_ context.Context, keyword string, status domain.Status, publishedAt string) error {
	f.updates = append(f.updates, statusUpdate{keyword: keyword, status: status, publishedAt: publishedAt})
	for i := range f.rows {
		if f.rows[i].Keyword == keyword {
			f.rows[i].Status = status
			return nil
		}
	}
	return domain.WrapError(domain.ErrEntryNotFound, "update status",
		fmt.Errorf("keyword %q not in sheet", keyword))
}

type publishCall struct {
	keyword string
	ct      domain.ContentType
	link    string
}

type publisherFake struct {
	calls  []publishCall
	errFor map[string]error
}

func (f *publisherFake) Publish(_ context.Context, keyword string, ct domain.ContentType, link string) error {
	if err, ok := f.errFor[keyword]; ok {
		return err
	}
	f.calls = append(f.calls, publishCall{keyword: keyword, ct: ct, link: link})
	return nil
}

type pacerFake struct {
	waits int
}

func (f *pacerFake) Wait(context.Context) error {
	f.waits++
	return nil
}

type stageFake struct {
	err  error
	runs int
}

func (f *stageFake) Run(context.Context) error {
	f.runs++
	return f.err
}

type approverFake struct {
	err       error
	threshold domain.Confidence
	runs      int
}

func (f *approverFake) Run(_ context.Context, threshold domain.Confidence) error {
	f.runs++
	f.threshold = threshold
	return f.err
}
