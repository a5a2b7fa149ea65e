package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Fixed Gemini endpoint, model and sampling defaults.
const (
	GeminiBaseURL = "https://generativelanguage.googleapis.com"
	GeminiModel   = "gemini-2.0-flash"

	defaultGeminiTemperature = 0.9
	defaultGeminiTopK        = 50
	defaultGeminiTopP        = 0.97
)

// GeminiClient is the provider adapter for the Gemini generateContent API.
type GeminiClient struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
}

// NewGeminiClient creates the Tertiary provider.
func NewGeminiClient(baseURL, apiKey string) *GeminiClient {
	if baseURL == "" {
		baseURL = GeminiBaseURL
	}
	return &GeminiClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   GeminiModel,
		client:  http.DefaultClient,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float32 `json:"temperature"`
	TopK             int     `json:"topK"`
	TopP             float32 `json:"topP"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      *geminiContent `json:"content"`
		FinishReason string         `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// ID returns Tertiary.
func (c *GeminiClient) ID() ProviderID {
	return Tertiary
}

// buildRequest maps history roles onto Gemini's user/model roles and
// moves the system message into systemInstruction.
func (c *GeminiClient) buildRequest(req CompletionRequest) geminiRequest {
	contents := make([]geminiContent, 0, len(req.History)+1)
	for _, m := range req.History {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, geminiContent{Role: role, Parts: []geminiPart{{Text: m.Content}}})
	}
	contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}})

	cfg := geminiGenerationConfig{
		Temperature:     defaultGeminiTemperature,
		TopK:            defaultGeminiTopK,
		TopP:            defaultGeminiTopP,
		MaxOutputTokens: req.MaxOutputTokens,
	}
	if req.Options.Temperature != 0 {
		cfg.Temperature = req.Options.Temperature
	}
	if req.Options.TopK != 0 {
		cfg.TopK = req.Options.TopK
	}
	if req.Options.TopP != 0 {
		cfg.TopP = req.Options.TopP
	}
	if cfg.MaxOutputTokens == 0 {
		cfg.MaxOutputTokens = defaultMaxTokens
	}
	if req.JSONMode {
		cfg.ResponseMIMEType = "application/json"
	}

	gr := geminiRequest{
		Contents:         contents,
		GenerationConfig: cfg,
	}
	if req.SystemMessage != "" {
		gr.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemMessage}}}
	}
	return gr
}

// Complete sends a generateContent request.
func (c *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error) {
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.BaseURL, c.Model, url.QueryEscape(c.APIKey))

	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return CompletionResult{}, &ProviderError{Provider: Tertiary, Kind: Fatal, Message: "failed to marshal request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return CompletionResult{}, &ProviderError{Provider: Tertiary, Kind: Fatal, Message: "failed to create request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return CompletionResult{}, transportError(Tertiary, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return CompletionResult{}, statusError(Tertiary, resp)
	}

	var gemResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gemResp); err != nil {
		return CompletionResult{}, decodeError(Tertiary, err)
	}

	if len(gemResp.Candidates) == 0 || gemResp.Candidates[0].Content == nil {
		return CompletionResult{}, emptyResponse(Tertiary)
	}
	var text strings.Builder
	for _, p := range gemResp.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	if text.Len() == 0 {
		return CompletionResult{}, emptyResponse(Tertiary)
	}

	result := normalize(Tertiary, text.String(), req)
	if result.Text == "" {
		return CompletionResult{}, emptyResponse(Tertiary)
	}
	if gemResp.UsageMetadata != nil {
		result.TokensUsed = gemResp.UsageMetadata.TotalTokenCount
		result.UsageReported = true
	}
	return result, nil
}
