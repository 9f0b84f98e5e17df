package core

import (
	"strings"
)

// greetingPrefixes are leading tokens that mark boilerplate (salutations,
// sign-offs) which is never worth a model invocation.
var greetingPrefixes = []string{
	"dear", "hello", "hi", "hey",
	"sincerely", "best", "regards", "thank", "thanks",
}

// ShouldCorrect decides whether a text fragment is eligible for grammar
// correction. Corrections cost a model inference, so only text that looks
// like a completed sentence and is not boilerplate qualifies.
// Rules are evaluated in order; the first match wins.
func ShouldCorrect(text string) bool {
	if text == "" {
		return false
	}

	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < 3 {
		return false
	}

	leading := strings.ToLower(leadingToken(trimmed))
	for _, prefix := range greetingPrefixes {
		if leading == prefix {
			return false
		}
	}

	if !strings.HasSuffix(strings.TrimRight(text, " \t"), "\n") && !endsWithTerminal(trimmed) {
		return false
	}

	return true
}

// leadingToken returns the first whitespace-delimited token with any
// trailing punctuation removed, so "Dear John," yields "Dear".
func leadingToken(text string) string {
	token := text
	if i := strings.IndexFunc(text, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n'
	}); i >= 0 {
		token = text[:i]
	}
	return strings.TrimRight(token, ".,!?;:")
}

func endsWithTerminal(text string) bool {
	return strings.HasSuffix(text, ".") ||
		strings.HasSuffix(text, "!") ||
		strings.HasSuffix(text, "?")
}
