package synthetic

import (
	"context"
	"math/rand"
	"strings"

	"github.com/jobyaari/trendpipe/internal/core/domain"
)

// jobKeywords is the fixed watchlist for the Indian government-job market.
var jobKeywords = []string{
	"admit card 2025", "hall ticket download", "ssc admit card", "bank po admit card",
	"upsc admit card", "railway admit card", "police admit card", "teacher admit card",
	"result 2025", "merit list", "cut off marks", "ssc result", "bank po result",
	"upsc result", "neet result", "jee result", "railway result", "police result",
	"job notification 2025", "recruitment notification", "government job", "sarkari job",
	"bank recruitment", "railway job", "police recruitment", "teacher recruitment",
	"clerk recruitment", "officer recruitment", "exam notification", "application form",
}

// Source produces deterministic pseudo-trend records for the watchlist.
// It backs the sample dataset and the orchestrator's extraction fallback.
type Source struct {
	rng *rand.Rand
}

func New(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

func (s *Source) Fetch(_ context.Context) ([]domain.TrendRecord, error) {
	records := make([]domain.TrendRecord, 0, len(jobKeywords))
	for _, keyword := range jobKeywords {
		records = append(records, domain.TrendRecord{
			Keyword:       keyword,
			Interest:      50 + s.rng.Intn(46),
			RelatedTopics: relatedTopics(keyword),
			Geo:           "IN",
			CategoryHint:  categoryHint(keyword),
		})
	}
	return records, nil
}

func relatedTopics(keyword string) string {
	switch {
	case strings.Contains(keyword, "admit card"):
		return "exam hall ticket, download admit card, exam date"
	case strings.Contains(keyword, "result"):
		return "merit list, cut off marks, scorecard"
	case strings.Contains(keyword, "job"), strings.Contains(keyword, "recruitment"):
		return "vacancy notification, application form, eligibility"
	default:
		return "trending topics related to " + keyword
	}
}

func categoryHint(keyword string) string {
	switch {
	case strings.Contains(keyword, "admit card"), strings.Contains(keyword, "hall ticket"):
		return string(domain.CategoryAdmitCard)
	case strings.Contains(keyword, "result"):
		return string(domain.CategoryResult)
	case strings.Contains(keyword, "job"), strings.Contains(keyword, "recruitment"), strings.Contains(keyword, "notification"):
		return string(domain.CategoryJobNotification)
	default:
		return "Jobs & Education"
	}
}
