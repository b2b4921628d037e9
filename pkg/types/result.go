// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the agripapers pipeline:
// search results, persisted jobs and papers, and stage configuration.
package types

// NormalizedResult represents one web search hit in the provider-agnostic
// shape used by ranking and summarization. It is a plain value: two results
// with the same fields are interchangeable.
type NormalizedResult struct {
	// Title is the result title as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// URL is the link to the result.
	URL string `json:"url" yaml:"url"`

	// Snippet is the short descriptive text for the result.
	Snippet string `json:"snippet" yaml:"snippet"`

	// Year is the publication year inferred from the result text,
	// or nil when no plausible year was found.
	Year *int `json:"year" yaml:"year"`
}
