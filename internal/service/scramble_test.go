package service_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"english-assistant/internal/llm"
	llm_mocks "english-assistant/internal/llm/mocks"
	"english-assistant/internal/service"
	"english-assistant/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

// fencedWords is what a chat model typically returns despite JSON mode.
const fencedWords = "```json\n" + `{"words":[
	{"word":"apple","scrambled":"pplea","hint":"a fruit","explanation":"quả táo"},
	{"word":"Bread","scrambled":"dbrea","hint":"bakery","explanation":{"meaning":"bánh mì","partOfSpeech":"noun"}},
	{"id":3,"word":"chair","scrambled":"riach","hint":"furniture"},
	{"word":"dance","scrambled":"ecnad","hint":"move to music"},
	{"word":"eagle","scrambled":"gleae","hint":"a bird"}
]}` + "\n```\u200b"

// chatUpstream serves an OpenAI-compatible completion with the given content.
func chatUpstream(t *testing.T, content string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req llm.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
			t.Error("scramble requests should ask for a JSON object")
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(llm.ChatResponse{
			Choices: []llm.ChatChoice{{Message: llm.Message{Role: llm.RoleAssistant, Content: content}, FinishReason: "stop"}},
			Usage:   &llm.ChatUsage{PromptTokens: 300, CompletionTokens: 200, TotalTokens: 500},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestScrambleService_Generate_ThroughChain(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var calls atomic.Int32
	upstream := chatUpstream(t, fencedWords, &calls)

	secondary := llm_mocks.NewMockProvider(ctrl)
	secondary.EXPECT().ID().Return(llm.Secondary).AnyTimes()
	secondary.EXPECT().Complete(gomock.Any(), gomock.Any()).Times(0)

	chain := llm.NewChain(time.Second, llm.NewGroqClient(upstream.URL, "test-key"), secondary)
	svc := service.NewScrambleService(chain, service.DefaultRequestTimeout)

	got, err := svc.Generate(testContext(), service.ScrambleParams{
		Difficulty: "Basic",
		Quantity:   5,
		Topics:     []string{"food", "animals"},
	})
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("upstream calls = %d, want 1", calls.Load())
	}
	if len(got.Words) != 5 {
		t.Fatalf("words = %d, want 5", len(got.Words))
	}

	for i, w := range got.Words {
		if w.Word != strings.ToUpper(w.Word) || w.Scrambled != strings.ToUpper(w.Scrambled) {
			t.Errorf("word %d not upper-cased: %+v", i, w)
		}
		if w.ID != i+1 {
			t.Errorf("word %d id = %d, want %d", i, w.ID, i+1)
		}
	}
	if got.Words[1].Word != "BREAD" || got.Words[1].Explanation.Detail == nil || got.Words[1].Explanation.Detail.Meaning != "bánh mì" {
		t.Errorf("object explanation lost: %+v", got.Words[1])
	}
	if got.Words[0].Explanation.Text != "quả táo" {
		t.Errorf("string explanation = %q", got.Words[0].Explanation.Text)
	}
}

func TestScrambleService_Generate_FallsBackOnRateLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	primary := llm_mocks.NewMockProvider(ctrl)
	primary.EXPECT().ID().Return(llm.Primary).AnyTimes()
	primary.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return(llm.CompletionResult{}, &llm.ProviderError{Provider: llm.Primary, Kind: llm.RateLimited, StatusCode: http.StatusTooManyRequests})

	var calls atomic.Int32
	upstream := chatUpstream(t, fencedWords, &calls)

	chain := llm.NewChain(time.Second, primary, llm.NewOpenRouterClient(upstream.URL, "test-key", "http://localhost:3000"))
	got, err := service.NewScrambleService(chain, 0).Generate(testContext(), service.ScrambleParams{
		Difficulty: "Cơ bản",
		Quantity:   5,
		Topics:     []string{"food"},
	})
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if calls.Load() != 1 || len(got.Words) != 5 {
		t.Errorf("secondary calls = %d, words = %d", calls.Load(), len(got.Words))
	}
}

func TestScrambleService_Generate_Errors(t *testing.T) {
	tests := []struct {
		name         string
		params       service.ScrambleParams
		result       *llm.CompletionResult
		checkErrType func(error) bool
	}{
		{
			name:   "no topics",
			params: service.ScrambleParams{Difficulty: "Basic", Quantity: 5},
			checkErrType: func(err error) bool {
				var validationErr *service.ValidationError
				return errors.As(err, &validationErr) && validationErr.Field == "topics"
			},
		},
		{
			name:   "quantity above limit",
			params: service.ScrambleParams{Difficulty: "Basic", Quantity: 31, Topics: []string{"x"}},
			checkErrType: func(err error) bool {
				var validationErr *service.ValidationError
				return errors.As(err, &validationErr) && validationErr.Field == "quantity"
			},
		},
		{
			name:   "empty word",
			params: service.ScrambleParams{Difficulty: "Advanced", Quantity: 1, Topics: []string{"x"}},
			result: func() *llm.CompletionResult {
				r := parsedResult(t, `{"words":[{"word":"  ","scrambled":"x"}]}`)
				return &r
			}(),
			checkErrType: func(err error) bool {
				var parseErr *service.ResponseParseError
				return errors.As(err, &parseErr) && strings.Contains(parseErr.Raw, `"words"`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			gen := mocks.NewMockGenerator(ctrl)
			if tt.result != nil {
				gen.EXPECT().GenerateWithFallback(gomock.Any(), gomock.Any()).Return(*tt.result, nil)
			} else {
				gen.EXPECT().GenerateWithFallback(gomock.Any(), gomock.Any()).Times(0)
			}

			_, err := service.NewScrambleService(gen, 0).Generate(testContext(), tt.params)
			if err == nil {
				t.Fatal("Generate() expected error")
			}
			if !tt.checkErrType(err) {
				t.Errorf("Generate() error type = %T (%v), want matching error", err, err)
			}
		})
	}
}

func TestWordLengthRange(t *testing.T) {
	tests := []struct {
		difficulty string
		min, max   int
	}{
		{"Cơ bản", 3, 5},
		{"Basic", 3, 5},
		{"Trung bình", 5, 7},
		{"Intermediate", 5, 7},
		{"Nâng cao", 7, 9},
		{"Advanced", 7, 9},
		{"", 3, 9},
	}
	for _, tt := range tests {
		t.Run(tt.difficulty, func(t *testing.T) {
			minLen, maxLen := service.WordLengthRange(tt.difficulty)
			if minLen != tt.min || maxLen != tt.max {
				t.Errorf("WordLengthRange(%q) = %d, %d, want %d, %d", tt.difficulty, minLen, maxLen, tt.min, tt.max)
			}
		})
	}
}
