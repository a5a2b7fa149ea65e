package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGeminiClient_BuildRequest(t *testing.T) {
	client := NewGeminiClient("", "key")
	if client.BaseURL != GeminiBaseURL {
		t.Errorf("BaseURL = %v, want %v", client.BaseURL, GeminiBaseURL)
	}

	req := CompletionRequest{
		Prompt:        "next",
		SystemMessage: "you are a tutor",
		JSONMode:      true,
		History: []Message{
			{Role: RoleUser, Content: "hi"},
			{Role: RoleAssistant, Content: "hello"},
		},
	}
	got := client.buildRequest(req)

	if got.SystemInstruction == nil || got.SystemInstruction.Parts[0].Text != "you are a tutor" {
		t.Errorf("SystemInstruction = %+v", got.SystemInstruction)
	}
	wantRoles := []string{"user", "model", "user"}
	if len(got.Contents) != len(wantRoles) {
		t.Fatalf("len(Contents) = %d, want %d", len(got.Contents), len(wantRoles))
	}
	for i, role := range wantRoles {
		if got.Contents[i].Role != role {
			t.Errorf("Contents[%d].Role = %q, want %q", i, got.Contents[i].Role, role)
		}
	}
	if got.Contents[2].Parts[0].Text != "next" {
		t.Errorf("last content = %q, want prompt", got.Contents[2].Parts[0].Text)
	}
	cfg := got.GenerationConfig
	if cfg.ResponseMIMEType != "application/json" {
		t.Errorf("ResponseMIMEType = %q", cfg.ResponseMIMEType)
	}
	if cfg.TopK != defaultGeminiTopK || cfg.MaxOutputTokens != defaultMaxTokens {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	req.Options = ProviderOptions{Temperature: 0.2, TopK: 5, TopP: 0.5}
	req.JSONMode = false
	cfg = client.buildRequest(req).GenerationConfig
	if cfg.Temperature != 0.2 || cfg.TopK != 5 || cfg.TopP != 0.5 {
		t.Errorf("options not applied: %+v", cfg)
	}
	if cfg.ResponseMIMEType != "" {
		t.Errorf("ResponseMIMEType = %q, want empty outside JSON mode", cfg.ResponseMIMEType)
	}
}

func TestGeminiClient_Complete(t *testing.T) {
	tests := []struct {
		name       string
		serverResp func(w http.ResponseWriter, r *http.Request)
		wantText   string
		wantTokens int
		wantKind   FailureKind
		wantErr    bool
	}{
		{
			name: "successful completion",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1beta/models/"+GeminiModel+":generateContent" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if r.URL.Query().Get("key") != "test-key" {
					t.Errorf("key = %q", r.URL.Query().Get("key"))
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hello "},{"text":"there"}]}}],"usageMetadata":{"totalTokenCount":17}}`))
			},
			wantText:   "Hello there",
			wantTokens: 17,
		},
		{
			name: "no candidates",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"candidates":[]}`))
			},
			wantErr:  true,
			wantKind: Fatal,
		},
		{
			name: "resource exhausted",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
			},
			wantErr:  true,
			wantKind: RateLimited,
		},
		{
			name: "unavailable",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			wantErr:  true,
			wantKind: Transient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			client := NewGeminiClient(server.URL, "test-key")
			result, err := client.Complete(context.Background(), CompletionRequest{Prompt: "hi"})

			if tt.wantErr {
				if err == nil {
					t.Fatal("Complete() expected error, got nil")
				}
				if KindOf(err) != tt.wantKind {
					t.Errorf("Complete() kind = %v, want %v", KindOf(err), tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("Complete() unexpected error: %v", err)
			}
			if result.Text != tt.wantText {
				t.Errorf("Complete() text = %q, want %q", result.Text, tt.wantText)
			}
			if result.TokensUsed != tt.wantTokens || !result.UsageReported {
				t.Errorf("Complete() tokens = %d (reported %v), want %d", result.TokensUsed, result.UsageReported, tt.wantTokens)
			}
			if result.Provider != Tertiary {
				t.Errorf("Complete() provider = %v, want tertiary", result.Provider)
			}
		})
	}
}

func TestGeminiClient_JSONMode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body geminiRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.GenerationConfig.ResponseMIMEType != "application/json" {
			t.Errorf("ResponseMIMEType = %q", body.GenerationConfig.ResponseMIMEType)
		}
		_, _ = w.Write([]byte("{\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"```json\\n{\\\"words\\\":[]}\\n```\"}]}}]}"))
	}))
	defer server.Close()

	client := NewGeminiClient(server.URL, "key")
	result, err := client.Complete(context.Background(), CompletionRequest{Prompt: "hi", JSONMode: true})
	if err != nil {
		t.Fatalf("Complete() unexpected error: %v", err)
	}
	if !result.Parsed() {
		t.Fatalf("expected parsed JSON, got text %q", result.Text)
	}
	if result.UsageReported {
		t.Error("UsageReported should be false without usageMetadata")
	}
}
