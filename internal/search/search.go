// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries web search providers and ranks the results.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mounimanda/agripapers/pkg/types"
)

// Provider turns a text query into normalized search results. Each
// provider (Google Programmable Search, DuckDuckGo) implements this
// interface per the Strategy pattern.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]types.NormalizedResult, error)

	// CredentialGated reports whether the provider requires credentials
	// and returns an empty result set without them. The orchestrator
	// retries such a provider's empty result once with a keyless fallback.
	CredentialGated() bool
}

// paperTags are the literal substrings that mark a result as paper-like.
var paperTags = []string{"paper", "arxiv", "research", "journal"}

// yearPattern matches a bare four-digit year in 2010-2029. Earlier and
// later years are deliberately out of range: the workflow targets recent
// papers only.
var yearPattern = regexp.MustCompile(`\b20[12][0-9]\b`)

// ExtractYear returns the first plausible publication year found in text,
// or nil when there is none.
func ExtractYear(text string) *int {
	match := yearPattern.FindString(text)
	if match == "" {
		return nil
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &year
}

// PickTopRecent selects at most k results, most recent first.
//
// Results whose title and snippet mention none of the paper tags are
// filtered out, unless that would discard everything, in which case the
// unfiltered input is ranked instead. The sort is stable and descending
// by year, with a missing year ranked as 0, so results without a year
// keep their original relative order at the end.
func PickTopRecent(results []types.NormalizedResult, k int) []types.NormalizedResult {
	if k <= 0 || len(results) == 0 {
		return nil
	}

	var filtered []types.NormalizedResult
	for _, r := range results {
		text := strings.ToLower(r.Title + " " + r.Snippet)
		for _, tag := range paperTags {
			if strings.Contains(text, tag) {
				filtered = append(filtered, r)
				break
			}
		}
	}

	ranked := filtered
	if len(ranked) == 0 {
		ranked = append([]types.NormalizedResult(nil), results...)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return yearOrZero(ranked[i].Year) > yearOrZero(ranked[j].Year)
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

func yearOrZero(year *int) int {
	if year == nil {
		return 0
	}
	return *year
}

// FormatTable writes results as a human-readable table to w.
func FormatTable(results []types.NormalizedResult, w io.Writer) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-4s  %s\n", "Rank", "Title", "Year", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range results {
		title := r.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		year := ""
		if r.Year != nil {
			year = strconv.Itoa(*r.Year)
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-4s  %s\n", i+1, title, year, r.URL)
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
}

// FormatJSON writes results as indented JSON to w.
func FormatJSON(results []types.NormalizedResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
