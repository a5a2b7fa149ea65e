package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClient(t *testing.T) {
	client := NewClient(Secondary, "http://localhost:8081", "test-key", "test-model")
	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.BaseURL != "http://localhost:8081" {
		t.Errorf("NewClient() BaseURL = %v, want http://localhost:8081", client.BaseURL)
	}
	if client.APIKey != "test-key" {
		t.Errorf("NewClient() APIKey = %v, want test-key", client.APIKey)
	}
	if client.Model != "test-model" {
		t.Errorf("NewClient() Model = %v, want test-model", client.Model)
	}
	if client.ID() != Secondary {
		t.Errorf("NewClient() ID = %v, want secondary", client.ID())
	}
	if client.client == nil {
		t.Error("NewClient() client should not be nil")
	}
}

func TestNewGroqClient_Defaults(t *testing.T) {
	client := NewGroqClient("", "key")
	if client.BaseURL != GroqBaseURL {
		t.Errorf("BaseURL = %v, want %v", client.BaseURL, GroqBaseURL)
	}
	if client.Model != GroqModel {
		t.Errorf("Model = %v, want %v", client.Model, GroqModel)
	}
	if client.ID() != Primary {
		t.Errorf("ID = %v, want primary", client.ID())
	}
}

func TestNewOpenRouterClient_Headers(t *testing.T) {
	var gotReferer, gotTitle string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		writeChat(w, "ok", nil)
	}))
	defer server.Close()

	client := NewOpenRouterClient(server.URL, "key", "http://localhost:3000")
	if client.Model != OpenRouterModel {
		t.Errorf("Model = %v, want %v", client.Model, OpenRouterModel)
	}
	if _, err := client.Complete(context.Background(), CompletionRequest{Prompt: "hi"}); err != nil {
		t.Fatalf("Complete() unexpected error: %v", err)
	}
	if gotReferer != "http://localhost:3000" {
		t.Errorf("HTTP-Referer = %q, want http://localhost:3000", gotReferer)
	}
	if gotTitle != "English Learning App" {
		t.Errorf("X-Title = %q, want English Learning App", gotTitle)
	}
}

func writeChat(w http.ResponseWriter, content string, usage *ChatUsage) {
	resp := ChatResponse{
		ID:     "test-id",
		Object: "chat.completion",
		Choices: []ChatChoice{
			{
				Index:        0,
				Message:      Message{Role: RoleAssistant, Content: content},
				FinishReason: "stop",
			},
		},
		Usage: usage,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func TestClient_Complete(t *testing.T) {
	tests := []struct {
		name       string
		req        CompletionRequest
		serverResp func(w http.ResponseWriter, r *http.Request)
		wantText   string
		wantParsed bool
		wantParse  bool
		wantTokens int
		wantKind   FailureKind
		wantErr    bool
	}{
		{
			name: "successful text completion",
			req:  CompletionRequest{Prompt: "Hello", SystemMessage: "be nice"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/v1/chat/completions" {
					t.Errorf("expected /v1/chat/completions, got %s", r.URL.Path)
				}
				if r.Header.Get("Authorization") != "Bearer test-key" {
					t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
				}
				var body ChatRequest
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Fatalf("decode request: %v", err)
				}
				if len(body.Messages) != 2 || body.Messages[0].Role != RoleSystem || body.Messages[1].Content != "Hello" {
					t.Errorf("unexpected messages: %+v", body.Messages)
				}
				if body.ResponseFormat != nil {
					t.Error("response_format should be omitted outside JSON mode")
				}
				if body.MaxTokens != defaultMaxTokens {
					t.Errorf("max_tokens = %d, want %d", body.MaxTokens, defaultMaxTokens)
				}
				writeChat(w, "  Hi there!\n\n**bold**  ", &ChatUsage{TotalTokens: 42})
			},
			wantText:   "Hi there!\n\n**bold**",
			wantTokens: 42,
		},
		{
			name: "json mode strips fences and parses",
			req:  CompletionRequest{Prompt: "quiz", JSONMode: true},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				var body ChatRequest
				_ = json.NewDecoder(r.Body).Decode(&body)
				if body.ResponseFormat == nil || body.ResponseFormat.Type != "json_object" {
					t.Error("expected response_format json_object")
				}
				writeChat(w, "```json\n{\"a\":1}\n```", nil)
			},
			wantText:   "{\"a\":1}",
			wantParsed: true,
		},
		{
			name: "json mode unparsable text is a result",
			req:  CompletionRequest{Prompt: "quiz", JSONMode: true},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				writeChat(w, "not json at all", nil)
			},
			wantText:  "not json at all",
			wantParse: true,
		},
		{
			name: "no choices returned",
			req:  CompletionRequest{Prompt: "Hello"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(ChatResponse{ID: "test-id", Choices: []ChatChoice{}})
			},
			wantErr:  true,
			wantKind: Fatal,
		},
		{
			name: "whitespace only content",
			req:  CompletionRequest{Prompt: "Hello"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				writeChat(w, "  \u200b  ", nil)
			},
			wantErr:  true,
			wantKind: Fatal,
		},
		{
			name: "rate limited",
			req:  CompletionRequest{Prompt: "Hello"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
			},
			wantErr:  true,
			wantKind: RateLimited,
		},
		{
			name: "server error",
			req:  CompletionRequest{Prompt: "Hello"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("internal server error"))
			},
			wantErr:  true,
			wantKind: Transient,
		},
		{
			name: "bad request",
			req:  CompletionRequest{Prompt: "Hello"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":{"message":"invalid model"}}`))
			},
			wantErr:  true,
			wantKind: Fatal,
		},
		{
			name: "error object in 2xx body",
			req:  CompletionRequest{Prompt: "Hello"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"error":{"message":"Rate limit exceeded: free-models-per-day","code":429}}`))
			},
			wantErr:  true,
			wantKind: RateLimited,
		},
		{
			name: "malformed body",
			req:  CompletionRequest{Prompt: "Hello"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
			wantErr:  true,
			wantKind: Fatal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			client := NewClient(Primary, server.URL, "test-key", "test-model")
			result, err := client.Complete(context.Background(), tt.req)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("Complete() expected error, got nil")
				}
				var pe *ProviderError
				if !errors.As(err, &pe) {
					t.Fatalf("Complete() error type = %T, want *ProviderError", err)
				}
				if pe.Kind != tt.wantKind {
					t.Errorf("Complete() kind = %v, want %v", pe.Kind, tt.wantKind)
				}
				if pe.Provider != Primary {
					t.Errorf("Complete() provider = %v, want primary", pe.Provider)
				}
				return
			}

			if err != nil {
				t.Fatalf("Complete() unexpected error: %v", err)
			}
			if result.Text != tt.wantText {
				t.Errorf("Complete() text = %q, want %q", result.Text, tt.wantText)
			}
			if result.Parsed() != tt.wantParsed {
				t.Errorf("Complete() parsed = %v, want %v", result.Parsed(), tt.wantParsed)
			}
			if (result.ParseErr != nil) != tt.wantParse {
				t.Errorf("Complete() parse error = %v, want set=%v", result.ParseErr, tt.wantParse)
			}
			if result.TokensUsed != tt.wantTokens {
				t.Errorf("Complete() tokens = %d, want %d", result.TokensUsed, tt.wantTokens)
			}
			if result.Provider != Primary {
				t.Errorf("Complete() provider = %v, want primary", result.Provider)
			}
		})
	}
}

func TestClient_Complete_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(Primary, server.URL, "key", "model")
	_, err := client.Complete(ctx, CompletionRequest{Prompt: "hi"})
	if KindOf(err) != Transient {
		t.Errorf("Complete() kind = %v, want transient", KindOf(err))
	}
	if !strings.Contains(err.Error(), "primary") {
		t.Errorf("error %q should name the provider", err.Error())
	}
}
