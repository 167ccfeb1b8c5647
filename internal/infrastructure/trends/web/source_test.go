package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const trendsPage = `
<html><body>
<table>
<tr class="trend-row"><td>SSC Result</td><td>2M+</td></tr>
<tr class="trend-row"><td>NEET Result 2024</td><td>500K+</td></tr>
<tr class="trend-row"><td></td><td>100K+</td></tr>
<tr class="trend-row"><td>ssc result</td><td>10K+</td></tr>
</table>
</body></html>`

func TestFetchParsesTrendRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(trendsPage))
	}))
	defer server.Close()

	source := New(server.Client(), server.URL, "IN")
	records, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	// Empty titles dropped, case-folded duplicates collapsed.
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}
	if records[0].Keyword != "ssc result" || records[0].Interest != 95 {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[1].Keyword != "neet result 2024" || records[1].Interest != 85 {
		t.Fatalf("unexpected second record: %+v", records[1])
	}
	if records[0].Geo != "IN" {
		t.Fatalf("expected geo IN, got %q", records[0].Geo)
	}
}

func TestFetchFailsOnEmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>nothing trending</p></body></html>`))
	}))
	defer server.Close()

	source := New(server.Client(), server.URL, "IN")
	if _, err := source.Fetch(context.Background()); err == nil {
		t.Fatalf("expected error for page without trend rows")
	}
}

func TestFetchFailsOnHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer server.Close()

	source := New(server.Client(), server.URL, "IN")
	if _, err := source.Fetch(context.Background()); err == nil {
		t.Fatalf("expected error for non-200 status")
	}
}

func TestParseInterestBuckets(t *testing.T) {
	tests := map[string]int{
		"2M+":  95,
		"500K": 85,
		"100K": 75,
		"20K+": 65,
		"5K":   55,
		"":     50,
		"n/a":  50,
	}
	for raw, want := range tests {
		if got := parseInterest(raw); got != want {
			t.Fatalf("parseInterest(%q) = %d, want %d", raw, got, want)
		}
	}
}
