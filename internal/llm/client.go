package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Fixed upstream endpoints and models for the OpenAI-compatible providers.
const (
	GroqBaseURL       = "https://api.groq.com/openai"
	GroqModel         = "openai/gpt-oss-120b"
	OpenRouterBaseURL = "https://openrouter.ai/api"
	OpenRouterModel   = "meta-llama/llama-3.3-70b-instruct:free"

	defaultOpenAITemperature = 0.7
	defaultMaxTokens         = 8192
)

// Client is a provider adapter for OpenAI-compatible chat completions APIs
// (Groq, OpenRouter).
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	// Headers are added to every request (OpenRouter attribution headers).
	Headers map[string]string
	id      ProviderID
	client  *http.Client
}

// NewClient creates a new OpenAI-compatible provider adapter.
func NewClient(id ProviderID, baseURL, apiKey, model string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		Headers: map[string]string{},
		id:      id,
		client:  http.DefaultClient,
	}
}

// NewGroqClient creates the Primary provider.
func NewGroqClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = GroqBaseURL
	}
	return NewClient(Primary, baseURL, apiKey, GroqModel)
}

// NewOpenRouterClient creates the Secondary provider.
// referer identifies the calling application to OpenRouter.
func NewOpenRouterClient(baseURL, apiKey, referer string) *Client {
	if baseURL == "" {
		baseURL = OpenRouterBaseURL
	}
	c := NewClient(Secondary, baseURL, apiKey, OpenRouterModel)
	c.Headers["HTTP-Referer"] = referer
	c.Headers["X-Title"] = "English Learning App"
	return c
}

// ChatRequest represents the request payload for chat completions.
type ChatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
	Temperature    float32         `json:"temperature"`
	TopP           float32         `json:"top_p,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
}

// ResponseFormat asks the upstream for a JSON object.
type ResponseFormat struct {
	Type string `json:"type"`
}

// ChatChoice represents a single choice in the chat response.
type ChatChoice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// ChatUsage holds token accounting.
type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse represents the response from the chat completions API.
type ChatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Choices []ChatChoice `json:"choices"`
	Usage   *ChatUsage   `json:"usage,omitempty"`
	Error   *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error,omitempty"`
}

// ID returns the provider's chain position.
func (c *Client) ID() ProviderID {
	return c.id
}

// Complete sends a chat completion request to the upstream.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error) {
	url := fmt.Sprintf("%s/v1/chat/completions", c.BaseURL)

	payload := ChatRequest{
		Model:       c.Model,
		Messages:    req.Messages(),
		Temperature: defaultOpenAITemperature,
		TopP:        req.Options.TopP,
		MaxTokens:   req.MaxOutputTokens,
	}
	if req.Options.Temperature != 0 {
		payload.Temperature = req.Options.Temperature
	}
	if payload.MaxTokens == 0 {
		payload.MaxTokens = defaultMaxTokens
	}
	if req.JSONMode {
		payload.ResponseFormat = &ResponseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return CompletionResult{}, &ProviderError{Provider: c.id, Kind: Fatal, Message: "failed to marshal request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return CompletionResult{}, &ProviderError{Provider: c.id, Kind: Fatal, Message: "failed to create request", Err: err}
	}

	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range c.Headers {
		if v != "" {
			httpReq.Header.Set(k, v)
		}
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return CompletionResult{}, transportError(c.id, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return CompletionResult{}, statusError(c.id, resp)
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return CompletionResult{}, decodeError(c.id, err)
	}
	if chatResp.Error != nil && chatResp.Error.Message != "" {
		return CompletionResult{}, bodyError(c.id, chatResp.Error.Code, chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return CompletionResult{}, emptyResponse(c.id)
	}

	result := normalize(c.id, chatResp.Choices[0].Message.Content, req)
	if result.Text == "" {
		return CompletionResult{}, emptyResponse(c.id)
	}
	if chatResp.Usage != nil {
		result.TokensUsed = chatResp.Usage.TotalTokens
		result.UsageReported = true
	}
	return result, nil
}
