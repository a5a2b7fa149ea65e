package service

import (
	"encoding/json"
	"math/rand/v2"
	"strings"
	"testing"
	"time"
)

func TestQuizService_pickTopics(t *testing.T) {
	s := &quizService{intN: rand.New(rand.NewPCG(1, 2)).IntN}

	for i := 0; i < 50; i++ {
		topics := s.pickTopics(quickQuizTopics)
		if len(topics) != quickQuizTopics {
			t.Fatalf("pickTopics() = %d topics, want %d", len(topics), quickQuizTopics)
		}
		seen := map[string]bool{}
		for _, topic := range topics {
			if seen[topic] {
				t.Fatalf("pickTopics() returned duplicate %q", topic)
			}
			seen[topic] = true
		}
	}

	if got := s.pickTopics(100); len(got) != len(QuickQuizTopics) {
		t.Errorf("pickTopics(100) = %d topics, want the whole pool", len(got))
	}
}

func TestQuizService_randomDistribution(t *testing.T) {
	s := &quizService{intN: rand.New(rand.NewPCG(3, 4)).IntN}

	for i := 0; i < 100; i++ {
		d := s.randomDistribution()
		if d.Total() != quickQuizQuestions {
			t.Fatalf("distribution total = %d, want %d", d.Total(), quickQuizQuestions)
		}
		if d.Vocabulary < 2 || d.Grammar < 2 || d.Communication < 2 {
			t.Fatalf("every kind needs at least two questions: %+v", d)
		}
	}
}

func TestScramblePrompt(t *testing.T) {
	s := &scrambleService{
		intN: func(n int) int { return n - 1 },
		now:  func() time.Time { return time.UnixMilli(1700000000000) },
	}
	minLen, maxLen := WordLengthRange("Trung bình")
	prompt := buildScramblePrompt(scramblePromptInput{
		Params:      ScrambleParams{Difficulty: "Trung bình", Quantity: 4, Topics: []string{"sports", "music"}},
		Perspective: scramblePerspectives[s.intN(len(scramblePerspectives))],
		Approach:    scrambleApproaches[s.intN(len(scrambleApproaches))],
		Seed:        "999-1700000000000",
		MinLength:   minLen,
		MaxLength:   maxLen,
	})

	for _, want := range []string{"Generate 4", "sports, music", "999-1700000000000", scramblePerspectives[4], scrambleApproaches[3]} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestExplanation_JSON(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantText   string
		wantDetail bool
		wantOut    string
		wantErr    bool
	}{
		{name: "string", in: `"ngắn gọn"`, wantText: "ngắn gọn", wantOut: `"ngắn gọn"`},
		{name: "object", in: `{"summary":"s","note":"n"}`, wantDetail: true, wantOut: `{"summary":"s","note":"n"}`},
		{name: "null", in: `null`, wantOut: `""`},
		{name: "number", in: `42`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Explanation[QuizExplanationDetail]
			err := json.Unmarshal([]byte(tt.in), &e)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if e.Text != tt.wantText || (e.Detail != nil) != tt.wantDetail {
				t.Errorf("Unmarshal() = %+v", e)
			}
			out, err := json.Marshal(e)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(out) != tt.wantOut {
				t.Errorf("Marshal() = %s, want %s", out, tt.wantOut)
			}
		})
	}
}

func TestValidateStruct(t *testing.T) {
	err := validateStruct(QuizParams{
		Language:   "French",
		Quantity:   0,
		MainTopic:  "  ",
		Subtopics:  []string{strings.Repeat("x", 101)},
		Difficulty: "Basic",
	})
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("validateStruct() error = %T, want *ValidationError", err)
	}

	got := map[string]string{}
	for _, d := range ve.Details {
		got[d.Field] = d.Message
	}
	want := map[string]string{
		"language":     "must be one of: Tiếng Anh English Tiếng Việt Vietnamese",
		"quantity":     "is required",
		"mainTopic":    "is required",
		"subtopics[0]": "must be at most 100 characters",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("detail[%s] = %q, want %q", field, got[field], msg)
		}
	}
	if ve.Field != ve.Details[0].Field {
		t.Error("Field should mirror the first detail")
	}

	if err := validateStruct(ScrambleParams{Difficulty: "Basic", Quantity: 3, Topics: []string{"a"}}); err != nil {
		t.Errorf("validateStruct() valid params error = %v", err)
	}
}

func TestNewValidator_NotBlank(t *testing.T) {
	v := newValidator()
	type form struct {
		Name string `json:"name" validate:"notblank"`
	}
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "text", value: "travel"},
		{name: "spaces only", value: " \t ", wantErr: true},
		{name: "ideographic space", value: "　", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(form{Name: tt.value})
			if (err != nil) != tt.wantErr {
				t.Errorf("Struct(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}
