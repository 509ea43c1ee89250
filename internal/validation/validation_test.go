package validation

import (
	"os"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestMaxMessageLength(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected int
	}{
		{"Default when unset", "", 4000},
		{"Custom value", "2000", 2000},
		{"Invalid value falls back", "abc", 4000},
		{"Zero falls back", "0", 4000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue == "" {
				os.Unsetenv("MAX_MESSAGE_LENGTH")
			} else {
				os.Setenv("MAX_MESSAGE_LENGTH", tt.envValue)
			}
			defer os.Unsetenv("MAX_MESSAGE_LENGTH")

			if got := MaxMessageLength(); got != tt.expected {
				t.Errorf("MaxMessageLength() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestTrimAndLimit(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"Trims whitespace", "  hello  ", 100, "hello"},
		{"Limits length", strings.Repeat("a", 10), 5, "aaaaa"},
		{"Empty input", "   ", 100, ""},
		{"No limit when zero", "hello", 0, "hello"},
		{"Backs up to rune boundary", "héllo", 2, "h"},
		{"Keeps whole rune at boundary", "héllo", 3, "hé"},
		{"Emoji split backs up", "a👍b", 3, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndLimit(tt.input, tt.max)
			if got != tt.expected {
				t.Errorf("TrimAndLimit(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.expected)
			}
			if !utf8.ValidString(got) {
				t.Errorf("TrimAndLimit(%q, %d) produced invalid UTF-8", tt.input, tt.max)
			}
		})
	}
}

func TestValidateMessageType(t *testing.T) {
	tests := []struct {
		messageType string
		valid       bool
	}{
		{"text", true},
		{"image", true},
		{"file", true},
		{"", false},
		{"video", false},
		{"TEXT", false},
	}

	for _, tt := range tests {
		t.Run(tt.messageType, func(t *testing.T) {
			if got := ValidateMessageType(tt.messageType); got != tt.valid {
				t.Errorf("ValidateMessageType(%q) = %v, want %v", tt.messageType, got, tt.valid)
			}
		})
	}
}

func TestValidateEmoji(t *testing.T) {
	tests := []struct {
		name  string
		emoji string
		valid bool
	}{
		{"Thumbs up", "👍", true},
		{"Heart", "❤️", true},
		{"Fire", "🔥", true},
		{"Skin tone modifier", "👍🏽", true},
		{"Empty", "", false},
		{"Plain word", "nice", false},
		{"Digit", "1", false},
		{"ASCII punctuation", ":)", false},
		{"Emoji with space", "👍 ", false},
		{"Too long", strings.Repeat("🔥", 10), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateEmoji(tt.emoji); got != tt.valid {
				t.Errorf("ValidateEmoji(%q) = %v, want %v", tt.emoji, got, tt.valid)
			}
		})
	}
}
