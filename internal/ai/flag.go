package ai

import "strings"

const (
	flagPrefix = "[[FLAGGED:"
	flagSuffix = "]]"
)

// ParseFlag reports whether a model reply opens with the safety tag
// "[[FLAGGED: reason]]". It returns the reason and the reply with the tag
// removed. An unterminated tag is not a flag.
func ParseFlag(text string) (reason, clean string, ok bool) {
	if !strings.HasPrefix(text, flagPrefix) {
		return "", text, false
	}
	end := strings.Index(text, flagSuffix)
	if end < 0 {
		return "", text, false
	}
	reason = strings.TrimSpace(text[len(flagPrefix):end])
	clean = strings.TrimSpace(text[end+len(flagSuffix):])
	return reason, clean, true
}
