package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_quiz_service.go -package=mocks english-assistant/internal/service QuizService

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"english-assistant/internal/contextutil"
	"english-assistant/internal/llm"
)

const (
	quizMaxTokens      = 8192
	quickQuizQuestions = 10
	quickQuizTopics    = 3
)

// QuickQuizTopics is the pool quick quizzes draw their topics from.
var QuickQuizTopics = []string{
	"giao tiếp hàng ngày",
	"công việc văn phòng",
	"du lịch và khách sạn",
	"mạng xã hội",
	"giải trí và thể thao",
	"ẩm thực và nhà hàng",
	"mua sắm và tiêu dùng",
	"giáo dục và học tập",
	"công nghệ thông tin",
	"sức khỏe và thể chất",
	"môi trường và thiên nhiên",
	"nghệ thuật và văn hóa",
}

// QuizParams are the caller-supplied parameters of a custom quiz.
type QuizParams struct {
	Language   string   `json:"language" validate:"required,oneof='Tiếng Anh' English 'Tiếng Việt' Vietnamese"`
	Quantity   int      `json:"quantity" validate:"required,min=1,max=50"`
	MainTopic  string   `json:"mainTopic" validate:"required,notblank,min=1,max=200"`
	Subtopics  []string `json:"subtopics" validate:"max=10,dive,min=1,max=100"`
	Difficulty string   `json:"difficulty" validate:"required,oneof='Cơ bản' 'Trung bình' 'Nâng cao' Basic Intermediate Advanced"`
	Audience   string   `json:"audience" validate:"max=100"`
	Category   string   `json:"category" validate:"omitempty,oneof=vocabulary grammar communication mixed"`
}

// withDefaults fills the optional fields.
func (p QuizParams) withDefaults() QuizParams {
	if strings.TrimSpace(p.Audience) == "" {
		p.Audience = "general"
	}
	if p.Category == "" {
		p.Category = "mixed"
	}
	if p.Subtopics == nil {
		p.Subtopics = []string{}
	}
	return p
}

// QuizExplanationDetail is the structured form of a question explanation.
type QuizExplanationDetail struct {
	Summary string `json:"summary"`
	Formula string `json:"formula,omitempty"`
	Note    string `json:"note,omitempty"`
}

// NewWord is a vocabulary item extracted from a question.
type NewWord struct {
	Word          string `json:"word"`
	Pronunciation string `json:"pronunciation"`
	Meaning       string `json:"meaning"`
}

// QuizQuestion is one multiple-choice question.
type QuizQuestion struct {
	ID            int                                `json:"id"`
	Question      string                             `json:"question"`
	Options       []string                           `json:"options"`
	CorrectAnswer int                                `json:"correct_answer"`
	Explanation   Explanation[QuizExplanationDetail] `json:"explanation"`
	NewWords      []NewWord                          `json:"new_words"`
}

// Quiz is the generated question set.
type Quiz struct {
	Questions []QuizQuestion `json:"questions"`
}

// Distribution splits the quick-quiz questions across question kinds.
type Distribution struct {
	Vocabulary    int `json:"vocabulary"`
	Grammar       int `json:"grammar"`
	Communication int `json:"communication"`
}

// Total returns the number of questions.
func (d Distribution) Total() int {
	return d.Vocabulary + d.Grammar + d.Communication
}

// QuizService generates multiple-choice quizzes.
type QuizService interface {
	// Generate builds a quiz from caller-supplied parameters.
	Generate(ctx context.Context, params QuizParams) (Quiz, error)
	// GenerateQuick builds a ten-question English quiz on randomly chosen topics.
	GenerateQuick(ctx context.Context) (Quiz, error)
}

type quizService struct {
	gen     Generator
	timeout time.Duration
	intN    func(n int) int
}

// NewQuizService creates a new QuizService.
// timeout bounds each request across all provider attempts; 0 means no bound.
func NewQuizService(gen Generator, timeout time.Duration) QuizService {
	return &quizService{
		gen:     gen,
		timeout: timeout,
		intN:    rand.IntN,
	}
}

// Generate validates params before any provider is called.
func (s *quizService) Generate(ctx context.Context, params QuizParams) (Quiz, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := validateStruct(params); err != nil {
		logger.WarnContext(ctx, "invalid quiz request", "error", err)
		return Quiz{}, err
	}
	params = params.withDefaults()

	return s.run(ctx, llm.CompletionRequest{
		Prompt:          buildQuizPrompt(params),
		SystemMessage:   "You are a helpful assistant that only answers with JSON.",
		MaxOutputTokens: quizMaxTokens,
		Tag:             "Quiz",
	})
}

// GenerateQuick picks topics and a distribution locally, then generates.
func (s *quizService) GenerateQuick(ctx context.Context) (Quiz, error) {
	topics := s.pickTopics(quickQuizTopics)
	dist := s.randomDistribution()

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "quick quiz parameters", "topics", topics, "distribution", dist)

	return s.run(ctx, llm.CompletionRequest{
		Prompt:          buildQuickQuizPrompt(topics, dist),
		SystemMessage:   "You are a helpful assistant that only answers with JSON.",
		MaxOutputTokens: quizMaxTokens,
		Tag:             "QuickQuiz",
	})
}

func (s *quizService) run(ctx context.Context, req llm.CompletionRequest) (Quiz, error) {
	logger := contextutil.LoggerFromContext(ctx)

	out, err := generateJSON(ctx, s.gen, s.timeout, req, ProcessQuiz)
	if err != nil {
		logger.ErrorContext(ctx, "failed to generate quiz", "tag", req.Tag, "error", err)
		return Quiz{}, WrapError(err, "failed to generate quiz")
	}

	logger.InfoContext(ctx, "quiz generated",
		"tag", req.Tag,
		"questions", len(out.Value.Questions),
		"provider", out.Provider.String(),
		"tokens_used", out.TokensUsed,
	)
	return out.Value, nil
}

// pickTopics returns n distinct topics using a partial Fisher-Yates shuffle.
func (s *quizService) pickTopics(n int) []string {
	pool := append([]string(nil), QuickQuizTopics...)
	if n > len(pool) {
		n = len(pool)
	}
	for i := 0; i < n; i++ {
		j := i + s.intN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

// randomDistribution gives each kind two questions and spreads the rest at random.
func (s *quizService) randomDistribution() Distribution {
	d := Distribution{Vocabulary: 2, Grammar: 2, Communication: 2}
	for remaining := quickQuizQuestions - d.Total(); remaining > 0; remaining-- {
		switch s.intN(3) {
		case 0:
			d.Vocabulary++
		case 1:
			d.Grammar++
		default:
			d.Communication++
		}
	}
	return d
}

// ProcessQuiz is the quiz post-processor. It coerces numeric-string
// correct_answer and id values to integers, fills missing ids, and checks that
// every answer index points at an option.
func ProcessQuiz(content any) (Quiz, error) {
	root, ok := content.(map[string]any)
	if !ok {
		return Quiz{}, errors.New("expected a JSON object")
	}
	rawQuestions, ok := root["questions"].([]any)
	if !ok {
		return Quiz{}, errors.New(`missing "questions" array`)
	}

	for i, item := range rawQuestions {
		q, ok := item.(map[string]any)
		if !ok {
			return Quiz{}, fmt.Errorf("question %d is not an object", i+1)
		}
		answer, err := coerceInt(q["correct_answer"])
		if err != nil {
			return Quiz{}, fmt.Errorf("question %d: correct_answer: %w", i+1, err)
		}
		q["correct_answer"] = answer

		if id, err := coerceInt(q["id"]); err == nil && id > 0 {
			q["id"] = id
		} else {
			q["id"] = i + 1
		}
	}

	quiz, err := reshape[Quiz](map[string]any{"questions": rawQuestions})
	if err != nil {
		return Quiz{}, err
	}
	for i, q := range quiz.Questions {
		if q.NewWords == nil {
			quiz.Questions[i].NewWords = []NewWord{}
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return Quiz{}, fmt.Errorf("question %d: correct_answer %d out of range for %d options", i+1, q.CorrectAnswer, len(q.Options))
		}
	}
	return quiz, nil
}

// coerceInt accepts a JSON number or a numeric string.
func coerceInt(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int(n), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", n)
		}
		return i, nil
	case nil:
		return 0, errors.New("missing")
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
