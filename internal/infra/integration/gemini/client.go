package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xavierca1/prospector/internal/resilience"
)

const (
	service = "gemini"

	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash"
)

type Client struct {
	baseURL        string
	apiKey         string
	searchModel    string
	reasoningModel string
	http           *http.Client
}

type Config struct {
	BaseURL        string
	SearchModel    string
	ReasoningModel string
	Timeout        time.Duration
}

func NewClient(apiKey string, cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.SearchModel == "" {
		cfg.SearchModel = DefaultModel
	}
	if cfg.ReasoningModel == "" {
		cfg.ReasoningModel = cfg.SearchModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:         apiKey,
		searchModel:    cfg.SearchModel,
		reasoningModel: cfg.ReasoningModel,
		http:           &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)
}

// Generate runs one generateContent call and returns the text of the first
// candidate.
func (c *Client) Generate(ctx context.Context, r Request) (string, error) {
	if c.apiKey == "" {
		return "", resilience.Tag(service, resilience.Unauthorized, errors.New("api key missing"))
	}

	model := r.Model
	if model == "" {
		model = c.reasoningModel
	}

	payload := generateContentRequest{
		Contents: []Content{{Role: "user", Parts: userParts(r)}},
	}
	if r.SystemInstruction != "" {
		payload.SystemInstruction = &Content{Parts: []Part{{Text: r.SystemInstruction}}}
	}
	if r.Search {
		payload.Tools = []Tool{{GoogleSearch: &GoogleSearch{}}}
	}
	if r.JSON || r.Temperature != nil {
		payload.GenerationConfig = &GenerationConfig{Temperature: r.Temperature}
		if r.JSON {
			payload.GenerationConfig.ResponseMimeType = "application/json"
		}
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("gemini: failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", resilience.FromStatus(service, resp.StatusCode, body)
	}

	var out generateContentResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", invalidResponse(err)
	}
	if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
		return "", resilience.Tag(service, resilience.Transient, fmt.Errorf("prompt blocked: %s", out.PromptFeedback.BlockReason))
	}
	if len(out.Candidates) == 0 {
		return "", invalidResponse(errors.New("no candidates"))
	}

	var text strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return text.String(), nil
}

func userParts(r Request) []Part {
	var parts []Part
	if r.Image != nil {
		parts = append(parts, Part{InlineData: r.Image})
	}
	return append(parts, Part{Text: r.Prompt})
}

func invalidResponse(err error) error {
	return resilience.Tag(service, resilience.Transient, fmt.Errorf("invalid response: %w", err))
}
