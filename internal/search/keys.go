package search

import (
	"strings"
	"unicode/utf8"
)

// DefaultMinQueryLength is the shortest free-text query that filters results
const DefaultMinQueryLength = 3

// controlKeys never change the query text and never trigger a search
var controlKeys = map[string]bool{
	"tab":       true,
	"shift+tab": true,
	"up":        true,
	"down":      true,
	"left":      true,
	"right":     true,
	"esc":       true,
	"enter":     true,
	"home":      true,
	"end":       true,
	"pgup":      true,
	"pgdown":    true,
	"insert":    true,
}

// IsControlKey reports whether a key press (bubbletea key string) is a
// navigation or modifier key that must not re-evaluate the search
func IsControlKey(key string) bool {
	if controlKeys[key] {
		return true
	}
	if strings.HasPrefix(key, "ctrl+") || strings.HasPrefix(key, "alt+") || strings.HasPrefix(key, "shift+") {
		return true
	}
	// f1..f20
	if len(key) >= 2 && key[0] == 'f' && key[1] >= '0' && key[1] <= '9' {
		return true
	}
	return false
}

// EffectiveQuery maps typed text to the query that is actually searched.
// The empty string clears the text filter. Text shorter than minLength runes
// also means "no text filter".
func EffectiveQuery(text string, minLength int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if utf8.RuneCountInString(text) < minLength {
		return ""
	}
	return text
}
