package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_scramble_service.go -package=mocks english-assistant/internal/service ScrambleService

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"english-assistant/internal/contextutil"
	"english-assistant/internal/llm"
)

const scrambleMaxTokens = 4096

// ScrambleParams are the caller-supplied parameters of a scramble set.
type ScrambleParams struct {
	Difficulty string   `json:"difficulty" validate:"required,oneof='Cơ bản' 'Trung bình' 'Nâng cao' Basic Intermediate Advanced"`
	Quantity   int      `json:"quantity" validate:"required,min=1,max=30"`
	Topics     []string `json:"topics" validate:"required,min=1,max=10,dive,min=1,max=100"`
}

// WordExplanationDetail is the structured form of a word explanation.
type WordExplanationDetail struct {
	Meaning            string `json:"meaning"`
	Pronunciation      string `json:"pronunciation"`
	PartOfSpeech       string `json:"partOfSpeech"`
	Example            string `json:"example"`
	ExampleTranslation string `json:"exampleTranslation"`
}

// ScrambleWord is one puzzle entry.
type ScrambleWord struct {
	ID          int                                `json:"id"`
	Word        string                             `json:"word"`
	Scrambled   string                             `json:"scrambled"`
	Hint        string                             `json:"hint"`
	Explanation Explanation[WordExplanationDetail] `json:"explanation"`
}

// Scramble is the generated puzzle set.
type Scramble struct {
	Words []ScrambleWord `json:"words"`
}

// ScrambleService generates word scramble puzzles.
type ScrambleService interface {
	Generate(ctx context.Context, params ScrambleParams) (Scramble, error)
}

type scrambleService struct {
	gen     Generator
	timeout time.Duration
	intN    func(n int) int
	now     func() time.Time
}

// NewScrambleService creates a new ScrambleService.
func NewScrambleService(gen Generator, timeout time.Duration) ScrambleService {
	return &scrambleService{
		gen:     gen,
		timeout: timeout,
		intN:    rand.IntN,
		now:     time.Now,
	}
}

// WordLengthRange returns the letter-count bounds for a difficulty level.
func WordLengthRange(difficulty string) (minLen, maxLen int) {
	switch difficulty {
	case "Cơ bản", "Basic":
		return 3, 5
	case "Trung bình", "Intermediate":
		return 5, 7
	case "Nâng cao", "Advanced":
		return 7, 9
	default:
		return 3, 9
	}
}

func (s *scrambleService) Generate(ctx context.Context, params ScrambleParams) (Scramble, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := validateStruct(params); err != nil {
		logger.WarnContext(ctx, "invalid scramble request", "error", err)
		return Scramble{}, err
	}

	minLen, maxLen := WordLengthRange(params.Difficulty)
	prompt := buildScramblePrompt(scramblePromptInput{
		Params:      params,
		Perspective: scramblePerspectives[s.intN(len(scramblePerspectives))],
		Approach:    scrambleApproaches[s.intN(len(scrambleApproaches))],
		Seed:        fmt.Sprintf("%d-%d", s.intN(1000), s.now().UnixMilli()),
		MinLength:   minLen,
		MaxLength:   maxLen,
	})

	out, err := generateJSON(ctx, s.gen, s.timeout, llm.CompletionRequest{
		Prompt:          prompt,
		SystemMessage:   "You are a helpful assistant that only answers with JSON.",
		MaxOutputTokens: scrambleMaxTokens,
		Tag:             "Scramble",
	}, ProcessScramble)
	if err != nil {
		logger.ErrorContext(ctx, "failed to generate scramble", "error", err)
		return Scramble{}, WrapError(err, "failed to generate scramble")
	}

	logger.InfoContext(ctx, "scramble generated",
		"words", len(out.Value.Words),
		"requested", params.Quantity,
		"provider", out.Provider.String(),
		"tokens_used", out.TokensUsed,
	)
	return out.Value, nil
}

// ProcessScramble is the scramble post-processor. It upper-cases word and
// scrambled and numbers entries that arrived without an id.
func ProcessScramble(content any) (Scramble, error) {
	root, ok := content.(map[string]any)
	if !ok {
		return Scramble{}, errors.New("expected a JSON object")
	}
	rawWords, ok := root["words"].([]any)
	if !ok {
		return Scramble{}, errors.New(`missing "words" array`)
	}

	for i, item := range rawWords {
		w, ok := item.(map[string]any)
		if !ok {
			return Scramble{}, fmt.Errorf("word %d is not an object", i+1)
		}
		if id, err := coerceInt(w["id"]); err == nil && id > 0 {
			w["id"] = id
		} else {
			w["id"] = i + 1
		}
	}

	scramble, err := reshape[Scramble](map[string]any{"words": rawWords})
	if err != nil {
		return Scramble{}, err
	}
	for i := range scramble.Words {
		w := &scramble.Words[i]
		w.Word = strings.ToUpper(strings.TrimSpace(w.Word))
		w.Scrambled = strings.ToUpper(strings.TrimSpace(w.Scrambled))
		if w.Word == "" {
			return Scramble{}, fmt.Errorf("word %d is empty", i+1)
		}
	}
	return scramble, nil
}
