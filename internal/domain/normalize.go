package domain

import (
	"strings"
	"unicode"
)

// NormalizeText prepares free text for comparison and key building:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses any run of whitespace into a single space
func NormalizeText(text string) string {
	return joinFields(text, " ")
}

// DestinationKey turns a destination name into the token used inside cache
// fingerprints: trimmed, lower-cased, whitespace runs collapsed to "_".
func DestinationKey(destination string) string {
	return joinFields(destination, "_")
}

// CatalogKey is the lookup key into the activity catalog: lower-cased with
// all whitespace removed ("New York" -> "newyork").
func CatalogKey(destination string) string {
	return joinFields(destination, "")
}

func joinFields(text, sep string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !prevSpace {
				b.WriteString(sep)
			}
			prevSpace = true
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
