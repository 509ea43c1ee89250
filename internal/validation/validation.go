package validation

import (
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

func MaxMessageLength() int {
	maxStr := os.Getenv("MAX_MESSAGE_LENGTH")
	if maxStr == "" {
		return 4000
	}
	max, err := strconv.Atoi(maxStr)
	if err != nil || max < 1 {
		return 4000
	}
	return max
}

// TrimAndLimit trims surrounding whitespace and caps the result at max
// bytes, backing up to a rune boundary so a multi-byte character is never
// split into invalid UTF-8.
func TrimAndLimit(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func ValidateMessageType(messageType string) bool {
	switch messageType {
	case "text", "image", "file":
		return true
	}
	return false
}

// MaxEmojiLength bounds a reaction emoji: a handful of runes covers
// multi-codepoint sequences (skin tones, ZWJ compositions).
const MaxEmojiLength = 32

// ValidateEmoji accepts short non-letter rune sequences. Reactions carry
// emoji, not words; anything containing letters, digits or spaces is
// rejected.
func ValidateEmoji(emoji string) bool {
	if emoji == "" || len(emoji) > MaxEmojiLength {
		return false
	}
	if !utf8.ValidString(emoji) {
		return false
	}
	for _, r := range emoji {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return false
		}
		if r < utf8.RuneSelf {
			// Plain ASCII punctuation is not an emoji either.
			return false
		}
	}
	return true
}
