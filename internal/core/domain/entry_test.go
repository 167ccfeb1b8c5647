package domain

import (
	"math/rand"
	"testing"
)

var forwardOrder = []Status{StatusPending, StatusRunGpt, StatusContentGenerated, StatusPostLive, StatusPublished}

func TestTransitionsMoveForwardOnly(t *testing.T) {
	for i, from := range forwardOrder {
		for j, to := range forwardOrder {
			got := IsValidTransition(from, to)
			want := j == i || j == i+1
			if got != want {
				t.Fatalf("IsValidTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestNotRelevantIsAbsorbing(t *testing.T) {
	if !IsValidTransition(StatusPending, StatusNotRelevant) {
		t.Fatalf("Pending -> Not Relevant should be allowed")
	}
	if !IsValidTransition(StatusRunGpt, StatusNotRelevant) {
		t.Fatalf("Run GPT -> Not Relevant should be allowed")
	}
	if IsValidTransition(StatusContentGenerated, StatusNotRelevant) {
		t.Fatalf("Content Generated -> Not Relevant must be rejected")
	}
	for _, to := range forwardOrder {
		if IsValidTransition(StatusNotRelevant, to) {
			t.Fatalf("Not Relevant -> %s must be rejected", to)
		}
	}
}

func TestRandomSequencesNeverRegress(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	all := append([]Status{StatusNotRelevant}, forwardOrder...)

	for run := 0; run < 200; run++ {
		entry := Entry{Keyword: "ssc result", Status: StatusPending}
		for step := 0; step < 10; step++ {
			prev := entry.Status
			next := all[rng.Intn(len(all))]
			err := entry.TransitionTo(next)
			if err != nil {
				if !IsInvalidTransition(err) {
					t.Fatalf("expected InvalidTransitionError, got %v", err)
				}
				if entry.Status != prev {
					t.Fatalf("status mutated on rejected transition: %s -> %s", prev, entry.Status)
				}
				continue
			}
			if prev != StatusNotRelevant && next != StatusNotRelevant && statusOrder[next] < statusOrder[prev] {
				t.Fatalf("accepted regression %s -> %s", prev, next)
			}
		}
	}
}

func TestParseStatusRejectsUnknownValue(t *testing.T) {
	if _, err := ParseStatus("Done"); !IsKind(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	got, err := ParseStatus(" Run GPT ")
	if err != nil {
		t.Fatalf("ParseStatus() error = %v", err)
	}
	if got != StatusRunGpt {
		t.Fatalf("expected Run GPT, got %s", got)
	}
}

func TestParseCategoryRejectsUnknownValue(t *testing.T) {
	if _, err := ParseCategory("Jobs & Education"); !IsKind(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestConfidenceRankOrdering(t *testing.T) {
	if ConfidenceLow.Rank() != 0 || ConfidenceMedium.Rank() != 1 || ConfidenceHigh.Rank() != 2 {
		t.Fatalf("unexpected confidence ranks: %d %d %d",
			ConfidenceLow.Rank(), ConfidenceMedium.Rank(), ConfidenceHigh.Rank())
	}
	if _, err := ParseConfidence("medium"); err != nil {
		t.Fatalf("ParseConfidence should accept case-insensitive input: %v", err)
	}
}
