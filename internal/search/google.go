// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mounimanda/agripapers/internal/httputil"
	"github.com/mounimanda/agripapers/pkg/types"
)

// googleAPIBase is the Google Programmable Search endpoint. Declared as a
// var so tests can substitute an httptest server.
var googleAPIBase = "https://www.googleapis.com/customsearch/v1"

// googleMaxPerCall is the per-request result cap imposed by the API.
const googleMaxPerCall = 10

// GoogleProvider queries the Google Programmable Search JSON API.
type GoogleProvider struct {
	APIKey    string
	CSEID     string
	Client    *http.Client
	UserAgent string
}

// Name returns the provider identifier.
func (p *GoogleProvider) Name() string { return "google" }

// CredentialGated reports that this provider is useless without an API
// key and engine ID.
func (p *GoogleProvider) CredentialGated() bool { return true }

// Search queries the API and returns normalized results. When credentials
// are missing it returns an empty slice and no error, leaving the
// fallback decision to the caller.
func (p *GoogleProvider) Search(ctx context.Context, query string, maxResults int) ([]types.NormalizedResult, error) {
	if p.APIKey == "" || p.CSEID == "" {
		return nil, nil
	}

	if maxResults <= 0 || maxResults > googleMaxPerCall {
		maxResults = googleMaxPerCall
	}

	params := url.Values{
		"key": {p.APIKey},
		"cx":  {p.CSEID},
		"q":   {query},
		"num": {strconv.Itoa(maxResults)},
	}

	var body googleResponse
	if err := httputil.GetJSON(ctx, p.Client, googleAPIBase+"?"+params.Encode(), p.UserAgent, &body); err != nil {
		return nil, err
	}

	var results []types.NormalizedResult
	for _, item := range body.Items {
		if item.Title == "" || item.Link == "" {
			continue
		}
		results = append(results, types.NormalizedResult{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
			Year:    ExtractYear(item.Title + " " + item.Snippet + " " + item.Link),
		})
	}
	return results, nil
}

// Google Custom Search JSON structures.
type googleResponse struct {
	Items []googleItem `json:"items"`
}

type googleItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}
