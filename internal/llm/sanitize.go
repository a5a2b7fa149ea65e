package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// fencePattern matches a markdown code-fence delimiter with its optional language tag.
var fencePattern = regexp.MustCompile("`{3,}[A-Za-z0-9_+.#-]*")

// Sanitize cleans raw model output.
//
// It trims surrounding whitespace, removes code-fence delimiters (keeping the
// fenced content) and drops control characters, zero-width characters and
// byte-order marks. With preserveWhitespace set, tabs and line breaks are kept
// so Markdown renders; otherwise they are dropped too. Invalid UTF-8 bytes
// are dropped.
func Sanitize(text string, preserveWhitespace bool) string {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return ""
	}
	cleaned = fencePattern.ReplaceAllString(cleaned, "")

	var b strings.Builder
	b.Grow(len(cleaned))
	for i := 0; i < len(cleaned); {
		r, size := utf8.DecodeRuneInString(cleaned[i:])
		i += size
		if r == utf8.RuneError && size == 1 {
			continue
		}
		if stripped(r, preserveWhitespace) {
			continue
		}
		b.WriteRune(r)
	}
	// Dropping invisible characters can join backtick runs into a new fence.
	return strings.TrimSpace(fencePattern.ReplaceAllString(b.String(), ""))
}

// stripped reports whether r is removed by Sanitize.
func stripped(r rune, preserveWhitespace bool) bool {
	if preserveWhitespace && (r == '\n' || r == '\t' || r == '\r') {
		return false
	}
	switch {
	case r <= 0x1F:
		return true
	case r >= 0x7F && r <= 0x9F:
		return true
	case r >= 0x200B && r <= 0x200F:
		return true
	case r == 0xFEFF:
		return true
	}
	return false
}

// LooksLikeJSON reports whether text starts like a JSON object or array.
func LooksLikeJSON(text string) bool {
	return strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[")
}

// ParseJSON decodes sanitized text into a generic JSON value.
// On failure it returns a *ParseError carrying text.
func ParseJSON(text string) (any, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Text: text, Err: errors.New("empty response")}
	}
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, &ParseError{Text: text, Err: err}
	}
	return v, nil
}

// normalize sanitizes raw provider text and, when JSON is expected or the text
// looks like JSON, parses it. A parse failure is only recorded in JSON mode.
func normalize(id ProviderID, raw string, req CompletionRequest) CompletionResult {
	text := Sanitize(raw, !req.JSONMode)
	res := CompletionResult{
		Provider: id,
		RawText:  raw,
		Text:     text,
	}
	if !req.JSONMode && !LooksLikeJSON(text) {
		return res
	}

	v, err := ParseJSON(text)
	if err != nil {
		if req.JSONMode {
			var pe *ParseError
			if errors.As(err, &pe) {
				res.ParseErr = pe
			}
		}
		return res
	}
	res.Content = v
	res.JSON = json.RawMessage(text)
	return res
}
