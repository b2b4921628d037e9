// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize produces paper summaries through a local Ollama model.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"text/template"

	"github.com/mounimanda/agripapers/pkg/types"
)

// Summarizer abstracts the LLM call so tests can supply a mock.
type Summarizer interface {
	Summarize(ctx context.Context, result types.NormalizedResult) (string, error)
}

// summaryPromptTmpl is the prompt sent to the model for each selected
// paper. The 120-word cap is an instruction to the model, not enforced
// on the response.
var summaryPromptTmpl = template.Must(template.New("summary").Parse(`You are summarizing AI research papers for an agriculture-focused analyst.
Given title, snippet, url and year, produce a concise summary with:
1) Problem statement
2) Method overview
3) Why it matters for agriculture
4) One caveat
Keep it <=120 words.

Title: {{.Title}}
Snippet: {{.Snippet}}
URL: {{.URL}}
Year: {{.Year}}`))

// OllamaSummarizer calls the Ollama generate API for each paper.
type OllamaSummarizer struct {
	Host   string
	Model  string
	Client *http.Client
}

// NewOllamaSummarizer builds a summarizer from config.
func NewOllamaSummarizer(cfg types.SummarizerConfig, client *http.Client) *OllamaSummarizer {
	return &OllamaSummarizer{
		Host:   strings.TrimSuffix(cfg.Host, "/"),
		Model:  cfg.Model,
		Client: client,
	}
}

// ollamaRequest is the request body for the Ollama generate API.
type ollamaRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

// ollamaResponse is the non-streaming response body from the generate API.
type ollamaResponse struct {
	Response string `json:"response"`
}

// Summarize renders the prompt for one result and calls the model.
func (o *OllamaSummarizer) Summarize(ctx context.Context, result types.NormalizedResult) (string, error) {
	prompt, err := renderPrompt(result)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	reqBody := ollamaRequest{
		Model:   o.Model,
		Prompt:  prompt,
		Stream:  false,
		Options: map[string]any{"temperature": 0},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.Host+"/api/generate", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Ollama returned %d: %s", resp.StatusCode, string(body))
	}

	var oResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return "", fmt.Errorf("decoding Ollama response: %w", err)
	}

	if oResp.Response == "" {
		return "", fmt.Errorf("Ollama returned empty response")
	}
	return oResp.Response, nil
}

// renderPrompt executes the summary prompt template for one result.
// A missing year is presented to the model as "Unknown".
func renderPrompt(result types.NormalizedResult) (string, error) {
	year := "Unknown"
	if result.Year != nil {
		year = strconv.Itoa(*result.Year)
	}

	var buf bytes.Buffer
	err := summaryPromptTmpl.Execute(&buf, struct {
		Title   string
		Snippet string
		URL     string
		Year    string
	}{result.Title, result.Snippet, result.URL, year})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
