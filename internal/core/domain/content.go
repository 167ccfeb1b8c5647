package domain

import "time"

type ContentType string

const (
	ContentInstagramPost    ContentType = "instagram_post"
	ContentBlogArticle      ContentType = "blog_article"
	ContentYouTubeReel      ContentType = "youtube_reel"
	ContentYouTubeThumbnail ContentType = "youtube_thumbnail"
)

// ContentTypes lists every artifact slot in generation order.
var ContentTypes = []ContentType{
	ContentInstagramPost,
	ContentBlogArticle,
	ContentYouTubeReel,
	ContentYouTubeThumbnail,
}

// Artifact is one generated content piece, or the error marker left in its
// slot when generation for that slot failed after retries.
type Artifact struct {
	Fields map[string]any `json:"fields,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func (a Artifact) Failed() bool { return a.Error != "" }

// Field returns a string field of the artifact, "" when absent or failed.
func (a Artifact) Field(name string) string {
	if a.Fields == nil {
		return ""
	}
	v, _ := a.Fields[name].(string)
	return v
}

// GeneratedContent is the per-keyword bundle dumped to the content store
// after a generation pass.
type GeneratedContent struct {
	Keyword       string                   `json:"keyword"`
	Category      Category                 `json:"category"`
	InterestScore int                      `json:"interest_score"`
	GeneratedAt   time.Time                `json:"generated_at"`
	Artifacts     map[ContentType]Artifact `json:"artifacts"`
}

// ErrorCount reports how many artifact slots hold error markers.
func (g GeneratedContent) ErrorCount() int {
	n := 0
	for _, a := range g.Artifacts {
		if a.Failed() {
			n++
		}
	}
	return n
}
