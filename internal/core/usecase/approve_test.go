package usecase

import (
	"context"
	"testing"

	"github.com/jobyaari/trendpipe/internal/core/domain"
)

func seedCategorized(store *storeFake, entries ...domain.Entry) {
	store.stages[domain.StageCategorized] = entries
}

func TestApproveGatesOnConfidenceThreshold(t *testing.T) {
	store := newStoreFake()
	seedCategorized(store,
		domain.Entry{Keyword: "neet result", Category: domain.CategoryResult, Confidence: domain.ConfidenceHigh, Status: domain.StatusPending, Approval: domain.ApprovalPending},
		domain.Entry{Keyword: "sarkari job", Category: domain.CategoryJobNotification, Confidence: domain.ConfidenceMedium, Status: domain.StatusPending, Approval: domain.ApprovalPending},
		domain.Entry{Keyword: "exam tips", Category: domain.CategoryJobNotification, Confidence: domain.ConfidenceLow, Status: domain.StatusPending, Approval: domain.ApprovalPending},
	)
	uc := NewApproveUseCase(store, nil)

	if err := uc.Run(context.Background(), domain.ConfidenceMedium); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	entries := store.stages[domain.StageApproved]
	if entries[0].Status != domain.StatusRunGpt || entries[0].Approval != domain.ApprovalApproved {
		t.Fatalf("high confidence entry not approved: %+v", entries[0])
	}
	if entries[1].Status != domain.StatusRunGpt {
		t.Fatalf("medium confidence entry should pass a Medium threshold: %+v", entries[1])
	}
	if entries[2].Status != domain.StatusPending || entries[2].Approval != domain.ApprovalPending {
		t.Fatalf("low confidence entry must stay for human review: %+v", entries[2])
	}
}

func TestApproveNeverApprovesNotRelevant(t *testing.T) {
	store := newStoreFake()
	seedCategorized(store,
		domain.Entry{Keyword: "ipl score", Category: domain.CategoryNotRelevant, Confidence: domain.ConfidenceHigh, Status: domain.StatusPending, Approval: domain.ApprovalPending},
	)
	uc := NewApproveUseCase(store, nil)

	if err := uc.Run(context.Background(), domain.ConfidenceLow); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	entry := store.stages[domain.StageApproved][0]
	if entry.Approval != domain.ApprovalPending || entry.Status != domain.StatusPending {
		t.Fatalf("not-relevant entry must never be approved: %+v", entry)
	}
}

func TestApprovePassesThroughAdvancedEntries(t *testing.T) {
	store := newStoreFake()
	seedCategorized(store,
		domain.Entry{Keyword: "old keyword", Category: domain.CategoryResult, Confidence: domain.ConfidenceHigh, Status: domain.StatusContentGenerated, Approval: domain.ApprovalApproved},
	)
	uc := NewApproveUseCase(store, nil)

	if err := uc.Run(context.Background(), domain.ConfidenceLow); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	entry := store.stages[domain.StageApproved][0]
	if entry.Status != domain.StatusContentGenerated {
		t.Fatalf("already-advanced entry must pass through untouched: %+v", entry)
	}
}
