// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func ddgTestServer(t *testing.T, body ddgResponse) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("format = %q, want json", got)
		}
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(ts.Close)

	orig := duckduckgoAPIBase
	duckduckgoAPIBase = ts.URL
	t.Cleanup(func() { duckduckgoAPIBase = orig })

	return ts
}

func TestDuckDuckGoSearchFlattensTopics(t *testing.T) {
	ts := ddgTestServer(t, ddgResponse{
		Heading:      "Agricultural AI",
		AbstractText: "AI applied to farming, surveyed in 2023 research",
		AbstractURL:  "https://example.com/abstract",
		RelatedTopics: []ddgTopic{
			{FirstURL: "https://example.com/1", Text: "Crop monitoring - an arXiv paper from 2024"},
			{Topics: []ddgTopic{
				{FirstURL: "https://example.com/2", Text: "Soil sensing journal article"},
			}},
			{Text: "no url, skipped"},
		},
	})

	p := &DuckDuckGoProvider{Client: ts.Client(), UserAgent: "test/0.1"}
	results, err := p.Search(context.Background(), "ai agriculture", 12)
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 3 {
		t.Fatalf("len = %d, want 3", len(results))
	}
	if results[0].Title != "Agricultural AI" {
		t.Errorf("first result = %q, want the abstract", results[0].Title)
	}
	if results[1].Title != "Crop monitoring" {
		t.Errorf("topic title = %q, want text before the dash", results[1].Title)
	}
	if results[1].Year == nil || *results[1].Year != 2024 {
		t.Errorf("topic year = %v, want 2024", results[1].Year)
	}
	if results[2].URL != "https://example.com/2" {
		t.Errorf("nested topic url = %q", results[2].URL)
	}
}

func TestDuckDuckGoSearchHonorsMaxResults(t *testing.T) {
	ts := ddgTestServer(t, ddgResponse{
		RelatedTopics: []ddgTopic{
			{FirstURL: "https://example.com/1", Text: "one"},
			{FirstURL: "https://example.com/2", Text: "two"},
			{FirstURL: "https://example.com/3", Text: "three"},
		},
	})

	p := &DuckDuckGoProvider{Client: ts.Client()}
	results, err := p.Search(context.Background(), "q", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("len = %d, want 2", len(results))
	}
}

func TestDuckDuckGoSearchEmptyResponse(t *testing.T) {
	ts := ddgTestServer(t, ddgResponse{})

	p := &DuckDuckGoProvider{Client: ts.Client()}
	results, err := p.Search(context.Background(), "q", 12)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("len = %d, want 0", len(results))
	}
}

func TestProviderCapabilityFlags(t *testing.T) {
	if !(&GoogleProvider{}).CredentialGated() {
		t.Error("Google should be credential gated")
	}
	if (&DuckDuckGoProvider{}).CredentialGated() {
		t.Error("DuckDuckGo should not be credential gated")
	}
}
