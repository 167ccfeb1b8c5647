package domain

// ClassificationRequest carries everything the categorization prompt needs
// for one keyword.
type ClassificationRequest struct {
	Keyword        string
	InterestScore  int
	RelatedQueries string
	WebContext     string
}

// Classification is the structured record parsed from the model response.
type Classification struct {
	Category   string `json:"category"`
	Confidence string `json:"confidence"`
	Reasoning  string `json:"reasoning"`
}
