package rulebased

import "strings"

// Enricher derives the web-search-summary context from keyword-substring
// indicator lists. It stands in for a real search backend and always runs,
// since its output seeds the classification prompt.
type Enricher struct{}

func New() *Enricher { return &Enricher{} }

type indicatorRule struct {
	note       string
	indicators []string
}

var rules = []indicatorRule{
	{
		note:       "Found admit card indicator in keyword",
		indicators: []string{"admit card", "hall ticket", "call letter", "download"},
	},
	{
		note:       "Found result indicator in keyword",
		indicators: []string{"result", "merit list", "cut off", "declared", "scorecard"},
	},
	{
		note:       "Found job notification indicator in keyword",
		indicators: []string{"job", "recruitment", "notification", "vacancy", "hiring"},
	},
	{
		note:       "Found government/education context",
		indicators: []string{"ssc", "upsc", "bank", "railway", "neet", "jee", "government"},
	},
}

func (e *Enricher) Enrich(keyword string) string {
	lower := strings.ToLower(keyword)

	var notes []string
	for _, rule := range rules {
		for _, indicator := range rule.indicators {
			if strings.Contains(lower, indicator) {
				notes = append(notes, rule.note)
				break
			}
		}
	}
	if len(notes) == 0 {
		return "No specific job-related context found"
	}
	return strings.Join(notes, "; ")
}
