package domain

// StageData names one durable hand-off point in the Record Store.
type StageData string

const (
	StageTrends      StageData = "phase1_trends_data"
	StageCategorized StageData = "phase2_categorized_data"
	StageApproved    StageData = "phase2_approved"
	StageUpdated     StageData = "updated_trends_data"
	StageSample      StageData = "sample_trends_data"
)

// TrendRecord is one raw keyword/interest observation from a trend source,
// before it becomes a pipeline Entry. Duplicate keywords are collapsed
// last-seen-wins before entering the pipeline.
type TrendRecord struct {
	Keyword       string
	Interest      int
	RelatedTopics string
	Geo           string
	CategoryHint  string
}
