// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/mounimanda/agripapers/internal/httputil"
	"github.com/mounimanda/agripapers/pkg/types"
)

// duckduckgoAPIBase is the DuckDuckGo Instant Answer endpoint. Declared
// as a var so tests can substitute an httptest server.
var duckduckgoAPIBase = "https://api.duckduckgo.com/"

// DuckDuckGoProvider is the keyless fallback provider, backed by the
// DuckDuckGo Instant Answer API.
type DuckDuckGoProvider struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the provider identifier.
func (p *DuckDuckGoProvider) Name() string { return "duckduckgo" }

// CredentialGated reports that this provider works without credentials.
func (p *DuckDuckGoProvider) CredentialGated() bool { return false }

// Search queries the Instant Answer API and returns normalized results.
// The abstract, when present, is returned first, followed by related
// topics in API order (nested topic groups are flattened).
func (p *DuckDuckGoProvider) Search(ctx context.Context, query string, maxResults int) ([]types.NormalizedResult, error) {
	params := url.Values{
		"q":           {query},
		"format":      {"json"},
		"no_redirect": {"1"},
		"no_html":     {"1"},
	}

	var body ddgResponse
	if err := httputil.GetJSON(ctx, p.Client, duckduckgoAPIBase+"?"+params.Encode(), p.UserAgent, &body); err != nil {
		return nil, err
	}

	var results []types.NormalizedResult
	if body.Heading != "" && body.AbstractURL != "" {
		results = append(results, types.NormalizedResult{
			Title:   body.Heading,
			URL:     body.AbstractURL,
			Snippet: body.AbstractText,
			Year:    ExtractYear(body.Heading + " " + body.AbstractText + " " + body.AbstractURL),
		})
	}
	results = appendTopics(results, body.RelatedTopics, maxResults)

	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// appendTopics flattens related topics into results, recursing into
// nested topic groups, until max is reached (max <= 0 means no limit).
func appendTopics(results []types.NormalizedResult, topics []ddgTopic, max int) []types.NormalizedResult {
	for _, t := range topics {
		if max > 0 && len(results) >= max {
			return results
		}
		if len(t.Topics) > 0 {
			results = appendTopics(results, t.Topics, max)
			continue
		}
		if t.Text == "" || t.FirstURL == "" {
			continue
		}
		results = append(results, types.NormalizedResult{
			Title:   topicTitle(t.Text),
			URL:     t.FirstURL,
			Snippet: t.Text,
			Year:    ExtractYear(t.Text + " " + t.FirstURL),
		})
	}
	return results
}

// topicTitle takes the leading phrase of a related-topic text, which the
// API formats as "Title - description".
func topicTitle(text string) string {
	if title, _, found := strings.Cut(text, " - "); found {
		return title
	}
	return text
}

// DuckDuckGo Instant Answer JSON structures.
type ddgResponse struct {
	Heading       string     `json:"Heading"`
	AbstractText  string     `json:"AbstractText"`
	AbstractURL   string     `json:"AbstractURL"`
	RelatedTopics []ddgTopic `json:"RelatedTopics"`
}

type ddgTopic struct {
	FirstURL string     `json:"FirstURL"`
	Text     string     `json:"Text"`
	Topics   []ddgTopic `json:"Topics"`
}
