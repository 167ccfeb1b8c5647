package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Category string

const (
	CategoryAdmitCard       Category = "Admit Card"
	CategoryResult          Category = "Result"
	CategoryJobNotification Category = "Job Notification"
	CategoryNotRelevant     Category = "Not Relevant"
)

func ParseCategory(raw string) (Category, error) {
	switch Category(strings.TrimSpace(raw)) {
	case CategoryAdmitCard:
		return CategoryAdmitCard, nil
	case CategoryResult:
		return CategoryResult, nil
	case CategoryJobNotification:
		return CategoryJobNotification, nil
	case CategoryNotRelevant:
		return CategoryNotRelevant, nil
	}
	return "", WrapError(ErrInvalidInput, "parse category", fmt.Errorf("unknown category %q", raw))
}

type Confidence string

const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

func ParseConfidence(raw string) (Confidence, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return ConfidenceLow, nil
	case "medium":
		return ConfidenceMedium, nil
	case "high":
		return ConfidenceHigh, nil
	}
	return "", WrapError(ErrInvalidInput, "parse confidence", fmt.Errorf("unknown confidence %q", raw))
}

// Rank orders confidence levels for threshold comparisons: Low=0, Medium=1, High=2.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceMedium:
		return 1
	case ConfidenceHigh:
		return 2
	default:
		return 0
	}
}

type Status string

const (
	StatusPending          Status = "Pending"
	StatusRunGpt           Status = "Run GPT"
	StatusContentGenerated Status = "Content Generated"
	StatusNotRelevant      Status = "Not Relevant"
	StatusPostLive         Status = "Post Live"
	StatusPublished        Status = "Published"
)

func ParseStatus(raw string) (Status, error) {
	switch Status(strings.TrimSpace(raw)) {
	case StatusPending:
		return StatusPending, nil
	case StatusRunGpt:
		return StatusRunGpt, nil
	case StatusContentGenerated:
		return StatusContentGenerated, nil
	case StatusNotRelevant:
		return StatusNotRelevant, nil
	case StatusPostLive:
		return StatusPostLive, nil
	case StatusPublished:
		return StatusPublished, nil
	}
	return "", WrapError(ErrInvalidInput, "parse status", fmt.Errorf("unknown status %q", raw))
}

// statusOrder positions each status along the forward workflow.
// NotRelevant sits outside the ordering and is handled explicitly.
var statusOrder = map[Status]int{
	StatusPending:          0,
	StatusRunGpt:           1,
	StatusContentGenerated: 2,
	StatusPostLive:         3,
	StatusPublished:        4,
}

// IsValidTransition reports whether moving from one status to the next is
// allowed. Statuses only move forward along
// Pending -> Run GPT -> Content Generated -> Post Live -> Published.
// Not Relevant is absorbing and reachable only from Pending or Run GPT.
func IsValidTransition(from, to Status) bool {
	if from == to {
		return true
	}
	if from == StatusNotRelevant {
		return false
	}
	if to == StatusNotRelevant {
		return from == StatusPending || from == StatusRunGpt
	}
	fromPos, ok := statusOrder[from]
	if !ok {
		return false
	}
	toPos, ok := statusOrder[to]
	if !ok {
		return false
	}
	return toPos == fromPos+1
}

// InvalidTransitionError marks a status regression or skip. It is a
// per-entry data-integrity fault, never a batch-level one.
type InvalidTransitionError struct {
	Keyword string
	From    Status
	To      Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition for %q: %s -> %s", e.Keyword, e.From, e.To)
}

func IsInvalidTransition(err error) bool {
	var target *InvalidTransitionError
	return errors.As(err, &target)
}

type Approval string

const (
	ApprovalPending  Approval = "Pending"
	ApprovalApproved Approval = "Approved"
)

// Entry is one keyword's full record as it moves through the pipeline.
// Keyword is the identity/join key across all stages.
type Entry struct {
	Keyword        string                   `json:"keyword"`
	InterestScore  int                      `json:"interest_score"`
	Category       Category                 `json:"category,omitempty"`
	Confidence     Confidence               `json:"ai_confidence,omitempty"`
	Reasoning      string                   `json:"ai_reasoning,omitempty"`
	SearchSummary  string                   `json:"web_search_summary,omitempty"`
	Status         Status                   `json:"status"`
	Approval       Approval                 `json:"approval"`
	RelatedQueries string                   `json:"related_queries,omitempty"`
	TopRegions     string                   `json:"top_regions,omitempty"`
	Geo            string                   `json:"geo,omitempty"`
	Links          map[ContentType]string   `json:"links,omitempty"`
	Content        map[ContentType]Artifact `json:"content,omitempty"`

	DateExtracted      time.Time `json:"date_extracted,omitempty"`
	CategorizedAt      time.Time `json:"categorized_at,omitempty"`
	ContentGeneratedAt time.Time `json:"content_generated_at,omitempty"`
	PublishedAt        time.Time `json:"published_at,omitempty"`
}

// TransitionTo advances the entry status, rejecting any move the workflow
// does not allow instead of silently overwriting it.
func (e *Entry) TransitionTo(to Status) error {
	if !IsValidTransition(e.Status, to) {
		return &InvalidTransitionError{Keyword: e.Keyword, From: e.Status, To: to}
	}
	e.Status = to
	return nil
}

// Link returns the derived public artifact link for a content type.
func (e *Entry) Link(ct ContentType) string {
	if e.Links == nil {
		return ""
	}
	return e.Links[ct]
}

// SetLink records a derived artifact link.
func (e *Entry) SetLink(ct ContentType, url string) {
	if e.Links == nil {
		e.Links = make(map[ContentType]string, 4)
	}
	e.Links[ct] = url
}
