package usecase

import (
	"context"
	"testing"

	"github.com/jobyaari/trendpipe/internal/core/domain"
)

func TestSampleDataSeedsBothStages(t *testing.T) {
	store := newStoreFake()
	uc := NewSampleDataUseCase(&sourceFake{records: []domain.TrendRecord{
		{Keyword: "railway job", Interest: 58, Geo: "IN"},
	}}, store, nil)

	if err := uc.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	sample := store.stages[domain.StageSample]
	if len(sample) != 3 {
		t.Fatalf("expected 2 curated + 1 synthetic entries, got %d", len(sample))
	}

	approved := store.stages[domain.StageApproved]
	if len(approved) != 2 {
		t.Fatalf("expected 2 pre-approved entries, got %d", len(approved))
	}
	for _, e := range approved {
		if e.Status != domain.StatusRunGpt || e.Approval != domain.ApprovalApproved {
			t.Fatalf("curated entry not ready for generation: %+v", e)
		}
		if e.Category == "" || e.Confidence != domain.ConfidenceHigh {
			t.Fatalf("curated entry missing classification: %+v", e)
		}
	}
}
