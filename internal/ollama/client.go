// Package ollama is a minimal client for a locally-run Ollama endpoint:
// non-streaming generation, a health probe, and model listing.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const healthTimeout = 3 * time.Second

// Health probe paths, newest API first. Older Ollama builds expose
// different listing endpoints.
var healthPaths = []string{"/api/tags", "/api/models", "/api/list"}

// Client talks to one Ollama server.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// New creates a client for the given base URL and default model.
func New(baseURL, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Model returns the configured default model name.
func (c *Client) Model() string { return c.model }

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options,omitempty"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type generateResponse struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
}

// Generate sends one non-streaming prompt and returns the response text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: 0.7,
			TopP:        0.9,
			NumPredict:  500,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// 404s often carry a hint (e.g. model not pulled); include the body.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ollama generate: status %d: %s", resp.StatusCode, detail)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	return out.Response, nil
}

// Healthy probes the listing endpoints and reports whether any responds.
func (c *Client) Healthy(ctx context.Context) bool {
	for _, path := range healthPaths {
		probeCtx, cancel := context.WithTimeout(ctx, healthTimeout)
		req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			cancel()
			continue
		}
		resp, err := c.httpClient.Do(req)
		cancel()
		if err != nil {
			continue
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return true
		}
	}
	return false
}

// Models lists available model names, tolerating both the /api/tags object
// shape and the plain-array shape older builds return.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	for _, path := range []string{"/api/tags", "/api/models"} {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			continue
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			continue
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil || resp.StatusCode != http.StatusOK {
			continue
		}
		if names := parseModelList(data); names != nil {
			return names, nil
		}
	}
	return nil, fmt.Errorf("no listing endpoint responded")
}

func parseModelList(data []byte) []string {
	// { "models": [ { "name": "llama2" }, ... ] }
	var tagged struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.Unmarshal(data, &tagged); err == nil && len(tagged.Models) > 0 {
		names := make([]string, len(tagged.Models))
		for i, m := range tagged.Models {
			names[i] = m.Name
		}
		return names
	}

	// [ "llama2", ... ]
	var plain []string
	if err := json.Unmarshal(data, &plain); err == nil && len(plain) > 0 {
		return plain
	}

	// [ { "name": "llama2" }, ... ]
	var objects []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &objects); err == nil && len(objects) > 0 {
		names := make([]string, len(objects))
		for i, m := range objects {
			names[i] = m.Name
		}
		return names
	}
	return nil
}
