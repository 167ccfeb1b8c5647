package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobyaari/trendpipe/internal/core/domain"
)

const defaultTrendsURL = "https://trends.google.com/trending?geo=IN"

// Source scrapes the trending-now listing for the configured region.
// Best effort only: the orchestrator falls back to the synthetic source
// when the page layout changes or the request fails.
type Source struct {
	client *http.Client
	url    string
	geo    string
}

func New(client *http.Client, url, geo string) *Source {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if url == "" {
		url = defaultTrendsURL
	}
	if geo == "" {
		geo = "IN"
	}
	return &Source{client: client, url: url, geo: geo}
}

func (s *Source) Fetch(ctx context.Context) ([]domain.TrendRecord, error) {
	doc, err := s.fetchDocument(ctx, s.url)
	if err != nil {
		return nil, err
	}

	records := s.extractRecords(doc)
	if len(records) == 0 {
		return nil, fmt.Errorf("trends page %s: no trend rows found", s.url)
	}
	return records, nil
}

func (s *Source) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) trendpipe/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}

func (s *Source) extractRecords(doc *goquery.Document) []domain.TrendRecord {
	var records []domain.TrendRecord
	seen := map[string]struct{}{}

	doc.Find("[data-row-id], tr.trend-row, .trend-item").Each(func(_ int, row *goquery.Selection) {
		keyword := strings.TrimSpace(row.Find(".trend-title, .title, td:first-child").First().Text())
		if keyword == "" {
			return
		}
		keyword = strings.ToLower(keyword)
		if _, ok := seen[keyword]; ok {
			return
		}
		seen[keyword] = struct{}{}

		records = append(records, domain.TrendRecord{
			Keyword:       keyword,
			Interest:      parseInterest(row.Find(".trend-volume, .volume, td:nth-child(2)").First().Text()),
			RelatedTopics: strings.TrimSpace(row.Find(".trend-related, .related").First().Text()),
			Geo:           s.geo,
		})
	})

	return records
}

// parseInterest normalizes search-volume labels like "2M+", "500K+" or a
// bare count into the 0-100 interest scale.
func parseInterest(raw string) int {
	raw = strings.ToUpper(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "+")))
	if raw == "" {
		return 50
	}

	multiplier := 1.0
	switch {
	case strings.HasSuffix(raw, "M"):
		multiplier = 1_000_000
		raw = strings.TrimSuffix(raw, "M")
	case strings.HasSuffix(raw, "K"):
		multiplier = 1_000
		raw = strings.TrimSuffix(raw, "K")
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 50
	}

	volume := value * multiplier
	switch {
	case volume >= 2_000_000:
		return 95
	case volume >= 500_000:
		return 85
	case volume >= 100_000:
		return 75
	case volume >= 20_000:
		return 65
	default:
		return 55
	}
}
