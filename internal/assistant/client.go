// Package assistant is a single-turn chat completion client for the orrery's
// assistant panel.
package assistant

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

	lru "github.com/hashicorp/golang-lru"
)

const (
	DefaultURL          = "https://api.openai.com/v1/chat/completions"
	DefaultModel        = "gpt-3.5-turbo"
	DefaultMaxTokens    = 150
	DefaultTimeout      = 30 * time.Second
	DefaultCacheSize    = 64
	DefaultSystemPrompt = "You are a helpful assistant."
)

// ErrEmptyPrompt is returned for blank prompts.
var ErrEmptyPrompt = errors.New("empty prompt")

// StatusError is a non-200 reply from the completion endpoint. Its message
// is the HTTP status text, which the panel shows after "Error: ".
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	if text := http.StatusText(e.Code); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", e.Code)
}

// Client sends prompts to an OpenAI-compatible chat completions endpoint.
type Client struct {
	client       *http.Client
	url          string
	apiKey       string
	model        string
	systemPrompt string
	maxTokens    int
	timeout      time.Duration
	cacheSize    int
	cache        *lru.Cache // prompt -> answer text
}

// Option configures a Client.
type Option func(*Client)

// WithURL sets a custom endpoint.
func WithURL(url string) Option {
	return func(c *Client) {
		c.url = url
	}
}

// WithAPIKey sets the bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithMaxTokens caps the reply length.
func WithMaxTokens(n int) Option {
	return func(c *Client) {
		c.maxTokens = n
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithCacheSize sets how many answers are remembered. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(c *Client) {
		c.cacheSize = n
	}
}

// New creates an assistant client.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		url:          DefaultURL,
		model:        DefaultModel,
		systemPrompt: DefaultSystemPrompt,
		maxTokens:    DefaultMaxTokens,
		timeout:      DefaultTimeout,
		cacheSize:    DefaultCacheSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = &http.Client{
			Timeout: c.timeout,
		}
	}

	if c.cacheSize > 0 {
		cache, err := lru.New(c.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("create answer cache: %w", err)
		}
		c.cache = cache
	}

	return c, nil
}

// Answer is the reply to one prompt.
type Answer struct {
	Text     string
	Cached   bool
	Duration time.Duration
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model     string    `json:"model"`
	Messages  []message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Ask sends a single-turn prompt. Repeated prompts are answered from the
// cache without a request.
func (c *Client) Ask(ctx context.Context, prompt string) (Answer, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Answer{}, ErrEmptyPrompt
	}

	if c.cache != nil {
		if v, ok := c.cache.Get(prompt); ok {
			return Answer{Text: v.(string), Cached: true}, nil
		}
	}

	start := time.Now()
	text, err := c.complete(ctx, prompt)
	ans := Answer{Text: text, Duration: time.Since(start)}
	if err != nil {
		return ans, err
	}

	if c.cache != nil {
		c.cache.Add(prompt, text)
	}
	return ans, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: c.systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send prompt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Code: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	var out completionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("parse completion: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("completion has no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// CacheLen returns the number of cached answers.
func (c *Client) CacheLen() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len()
}
