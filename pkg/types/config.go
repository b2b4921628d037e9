// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "agripapers/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the web search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Provider selects the primary search provider: "google" or "duckduckgo".
	Provider string `json:"provider" yaml:"provider"`

	// MaxResults is the maximum number of results requested per search call
	// (default 12).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// GoogleAPIKey is the Google Programmable Search API key. The Google
	// provider returns no results (rather than an error) when this or
	// GoogleCSEID is empty.
	GoogleAPIKey string `json:"google_api_key,omitempty" yaml:"google_api_key,omitempty"`

	// GoogleCSEID is the Google Programmable Search engine identifier.
	GoogleCSEID string `json:"google_cse_id,omitempty" yaml:"google_cse_id,omitempty"`
}

// SummarizerConfig holds settings for the LLM summarization stage.
type SummarizerConfig struct {
	// Host is the base URL of the Ollama server (default "http://localhost:11434").
	Host string `json:"host" yaml:"host"`

	// Model is the Ollama model identifier (e.g. "llama3.1").
	Model string `json:"model" yaml:"model"`
}

// StoreConfig holds settings for the persistence store.
type StoreConfig struct {
	// Path is the SQLite database file path (default "agent_runs.db").
	Path string `json:"path" yaml:"path"`
}

// Config groups all stage configurations. It is constructed once at
// startup and passed into the stages by value; nothing reads settings
// from process-global state.
type Config struct {
	Search     SearchConfig     `json:"search" yaml:"search"`
	Summarizer SummarizerConfig `json:"summarizer" yaml:"summarizer"`
	Store      StoreConfig      `json:"store" yaml:"store"`
}
