package aipipe

import (
	"fmt"

	"github.com/jobyaari/trendpipe/internal/core/domain"
)

func buildCategorizationPrompt(req domain.ClassificationRequest) string {
	return fmt.Sprintf(`You are an expert AI agent specialized in categorizing job-related trending topics for India.

TASK: Categorize the keyword into EXACTLY ONE of these 4 categories:

1. Admit Card - Exam admit cards, hall tickets, call letters
2. Result - Exam results, merit lists, cut-off marks
3. Job Notification - Job openings, recruitment announcements
4. Not Relevant - Topics not related to jobs/exams/education

ANALYSIS DATA:
Keyword: %s
Interest Score: %d
Related Queries: %s
Web Search Context: %s

INSTRUCTIONS:
- Be strict - if not clearly job/exam related, mark as "Not Relevant"
- Focus on Indian job market and government exams
- Use web search context for accurate categorization

RESPONSE FORMAT (JSON only):
{
    "category": "Exact category name from the 4 options above",
    "confidence": "High/Medium/Low",
    "reasoning": "Brief explanation (2-3 sentences)"
}`, req.Keyword, req.InterestScore, req.RelatedQueries, req.WebContext)
}

const contentDetailsBlock = `CONTENT DETAILS:
Category: %s
Keyword: %s
Context: %s
`

func buildContentPrompt(ct domain.ContentType, entry domain.Entry) (string, error) {
	details := fmt.Sprintf(contentDetailsBlock, entry.Category, entry.Keyword, entry.Reasoning)

	switch ct {
	case domain.ContentInstagramPost:
		return `Create an engaging Instagram post for job seekers in India.

` + details + `
REQUIREMENTS:
- Create attractive, informative caption (150-200 words)
- Include relevant emojis naturally
- Add 15-20 targeted hashtags for Indian job market
- Make it engaging for students and job seekers
- Include clear call-to-action
- Use motivational and helpful tone

RESPONSE FORMAT (JSON):
{
    "caption": "Instagram caption with emojis and engaging content",
    "hashtags": "#hashtag1 #hashtag2 ... up to 15-20 tags",
    "post_type": "Instagram Post"
}`, nil

	case domain.ContentBlogArticle:
		return `Create a comprehensive blog article for job seekers.

` + details + `
REQUIREMENTS:
- Write detailed article (400-500 words)
- SEO-optimized title with keyword
- Include relevant subheadings
- Add application process and important dates
- Include eligibility criteria if applicable
- Add disclaimer about checking official sources
- Include organization homepage link: https://jobyaari.com
- Make it informative and helpful

RESPONSE FORMAT (JSON):
{
    "title": "SEO-optimized blog title with keyword",
    "content": "Full blog article with HTML subheadings <h2>, <h3> and proper formatting",
    "meta_description": "150-character SEO meta description",
    "homepage_link": "https://jobyaari.com"
}`, nil

	case domain.ContentYouTubeReel:
		return `Create a YouTube Reel script for job-related content.

` + details + `
REQUIREMENTS:
- Create 30-60 second video script
- Write engaging description with keywords
- Include 10-15 relevant hashtags
- Add hook, main content, and strong CTA
- Make it informative yet concise
- Include visual cues for video creation

RESPONSE FORMAT (JSON):
{
    "script": "Complete video script with timing cues [0-5s], [5-15s], etc.",
    "description": "YouTube description with keywords and engagement hooks",
    "hashtags": "#hashtag1 #hashtag2 ... up to 10-15 tags",
    "duration": "30-60 seconds"
}`, nil

	case domain.ContentYouTubeThumbnail:
		return `Create YouTube thumbnail design specifications.

` + details + `
REQUIREMENTS:
- Describe visual elements and layout
- Specify text overlay and fonts
- Include color scheme recommendations
- Make it click-worthy and professional
- Follow YouTube thumbnail best practices
- Ensure mobile readability

RESPONSE FORMAT (JSON):
{
    "design_description": "Detailed visual description of thumbnail layout and elements",
    "text_overlay": "Main text to display on thumbnail",
    "color_scheme": "Primary and secondary colors with hex codes",
    "style": "Design style and mood (professional, modern, bold, etc.)"
}`, nil
	}

	return "", domain.WrapError(domain.ErrInvalidInput, "build content prompt", fmt.Errorf("unknown content type %q", ct))
}
