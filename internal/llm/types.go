package llm

import (
	"encoding/json"
	"fmt"
)

// Message represents a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ProviderID identifies one upstream in the fallback chain.
// The numeric order is the fallback order.
type ProviderID int

const (
	// Primary is the fast, cheap first choice (Groq).
	Primary ProviderID = iota + 1
	// Secondary is tried when Primary fails (OpenRouter).
	Secondary
	// Tertiary is the final fallback (Gemini).
	Tertiary
)

func (p ProviderID) String() string {
	switch p {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	case Tertiary:
		return "tertiary"
	default:
		return fmt.Sprintf("provider(%d)", int(p))
	}
}

// ProviderOptions holds sampling parameters passed through to the upstream.
// Zero values mean "use the adapter default".
type ProviderOptions struct {
	Temperature float32
	TopK        int
	TopP        float32
}

// CompletionRequest is the provider-neutral request built by a feature service.
type CompletionRequest struct {
	// Prompt is the new user turn.
	Prompt string
	// SystemMessage is sent before the history.
	SystemMessage string
	// JSONMode asks the upstream for a JSON object and makes parse failures visible.
	JSONMode bool
	// History holds prior turns in chronological order.
	History []Message
	// MaxOutputTokens caps the completion length. If 0, the adapter default is used.
	MaxOutputTokens int
	Options         ProviderOptions
	// Tag names the calling feature in logs and metrics.
	Tag string
}

// Messages returns the OpenAI-style message list: system first, then history,
// then the prompt as the final user turn.
func (r CompletionRequest) Messages() []Message {
	msgs := make([]Message, 0, len(r.History)+2)
	if r.SystemMessage != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: r.SystemMessage})
	}
	msgs = append(msgs, r.History...)
	msgs = append(msgs, Message{Role: RoleUser, Content: r.Prompt})
	return msgs
}

// CompletionResult is the normalized output of a provider call.
type CompletionResult struct {
	// Provider is the upstream that produced the result.
	Provider ProviderID
	// RawText is the completion text exactly as extracted from the provider body.
	RawText string
	// Text is RawText after sanitization.
	Text string
	// Content is the parsed JSON value of Text, or nil when Text was not parsed.
	Content any
	// JSON is Text as raw JSON when Content is set.
	JSON json.RawMessage
	// ParseErr is set when JSON mode was requested and Text did not parse.
	ParseErr *ParseError
	// TokensUsed is the total token count reported by the provider.
	TokensUsed int
	// UsageReported is false when the provider omitted usage metadata.
	UsageReported bool
}

// Parsed reports whether Content holds a parsed JSON value.
func (r CompletionResult) Parsed() bool {
	return r.JSON != nil
}
