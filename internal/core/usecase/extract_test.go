package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/jobyaari/trendpipe/internal/core/domain"
)

func TestExtractSeedsPendingEntries(t *testing.T) {
	store := newStoreFake()
	uc := NewExtractTrendsUseCase(&sourceFake{records: []domain.TrendRecord{
		{Keyword: "ssc result", Interest: 70, Geo: "IN"},
		{Keyword: "upsc admit card", Interest: 64, Geo: "IN", RelatedTopics: "hall ticket"},
	}}, nil, store, nil)

	if err := uc.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	entries := store.stages[domain.StageTrends]
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Status != domain.StatusPending || e.Approval != domain.ApprovalPending {
			t.Fatalf("entry not seeded as pending: %+v", e)
		}
		if e.DateExtracted.IsZero() {
			t.Fatalf("date extracted not set: %+v", e)
		}
	}
	if entries[1].RelatedQueries != "hall ticket" {
		t.Fatalf("related topics lost: %+v", entries[1])
	}
}

func TestExtractDedupesLastSeenWins(t *testing.T) {
	store := newStoreFake()
	uc := NewExtractTrendsUseCase(&sourceFake{records: []domain.TrendRecord{
		{Keyword: "ssc result", Interest: 70},
		{Keyword: "bank po result", Interest: 61},
		{Keyword: "SSC Result", Interest: 88},
	}}, nil, store, nil)

	if err := uc.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	entries := store.stages[domain.StageTrends]
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries after dedupe, got %d", len(entries))
	}
	// Last observation wins, first-seen position kept.
	if entries[0].Keyword != "SSC Result" || entries[0].InterestScore != 88 {
		t.Fatalf("dedupe did not keep last observation: %+v", entries[0])
	}
	if entries[1].Keyword != "bank po result" {
		t.Fatalf("ordering lost: %+v", entries[1])
	}
}

func TestExtractFallsBackWhenSourceFails(t *testing.T) {
	store := newStoreFake()
	uc := NewExtractTrendsUseCase(
		&sourceFake{err: errors.New("trends endpoint down")},
		&sourceFake{records: []domain.TrendRecord{{Keyword: "sarkari job", Interest: 55}}},
		store, nil,
	)

	if err := uc.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	entries := store.stages[domain.StageTrends]
	if len(entries) != 1 || entries[0].Keyword != "sarkari job" {
		t.Fatalf("fallback records not used: %+v", entries)
	}
}

func TestExtractFailsWhenBothSourcesFail(t *testing.T) {
	store := newStoreFake()
	uc := NewExtractTrendsUseCase(
		&sourceFake{err: errors.New("trends endpoint down")},
		&sourceFake{err: errors.New("fallback broken")},
		store, nil,
	)

	if err := uc.Run(context.Background()); err == nil {
		t.Fatalf("expected error when both sources fail")
	}
	if len(store.saves) != 0 {
		t.Fatalf("nothing should be saved on failure, got %v", store.saves)
	}
}
