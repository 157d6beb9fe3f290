// chat/chat.go
package chat

import (
	"errors"
	"strings"
	"unicode"
)

// MaxMessageLength bounds a single chat message after cleaning.
const MaxMessageLength = 300

// ErrEmptyMessage is returned when nothing remains after sanitizing.
var ErrEmptyMessage = errors.New("chat: empty message")

// Sanitize cleans free text before it is broadcast: control characters are
// dropped, whitespace runs collapse to one space, and the result is trimmed
// and capped at MaxMessageLength.
func Sanitize(text string) (string, error) {
	var b strings.Builder
	lastSpace := false
	for _, r := range text {
		if unicode.IsControl(r) {
			continue
		}
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteRune(' ')
			}
			lastSpace = true
			continue
		}
		lastSpace = false
		b.WriteRune(r)
	}
	clean := strings.TrimSpace(b.String())
	if clean == "" {
		return "", ErrEmptyMessage
	}
	if runes := []rune(clean); len(runes) > MaxMessageLength {
		clean = strings.TrimSpace(string(runes[:MaxMessageLength]))
	}
	return clean, nil
}
