package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const systemPrompt = `You are a restaurant assistant that suggests additional dishes and drinks.
Given the guest's current order and any dietary restrictions, suggest up to five menu items
that complement the order and respect the restrictions.
Respond with JSON only, in exactly this shape:
{"recommendations": ["item", "..."], "reasoning": "one short paragraph"}`

// ErrNotConfigured is returned when no API URL is set.
var ErrNotConfigured = errors.New("recommendation service not configured")

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	url    string
	apiKey string
	model  string
	http   *http.Client
}

// NewClient creates a Client. A zero timeout means 20 seconds.
func NewClient(url, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		url:    url,
		apiKey: apiKey,
		model:  model,
		http:   &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	MaxTokens      int               `json:"max_tokens"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) Recommend(ctx context.Context, req Request) (Result, error) {
	if c.url == "" {
		return Result{}, ErrNotConfigured
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(req)},
		},
		MaxTokens:      500,
		Temperature:    0.3,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("call completion endpoint: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("completion endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return Result{}, errors.New("completion response has no choices")
	}
	return parseResult(chat.Choices[0].Message.Content)
}

func userPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Current order: ")
	b.WriteString(strings.TrimSpace(req.OrderSummary))
	if d := strings.TrimSpace(req.DietaryRestrictions); d != "" {
		b.WriteString("\nDietary restrictions: ")
		b.WriteString(d)
	}
	return b.String()
}

// parseResult decodes the model's JSON answer, tolerating a markdown code
// fence around it.
func parseResult(content string) (Result, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var res Result
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &res); err != nil {
		return Result{}, fmt.Errorf("decode recommendation: %w", err)
	}
	if res.Recommendations == nil {
		res.Recommendations = []string{}
	}
	return res, nil
}
