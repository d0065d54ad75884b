package telegram

import (
	"strings"
	"unicode/utf8"
)

// SplitMessage splits text into chunks of at most maxLen runes, preferring
// to break after a newline, then after a space, in the second half of a chunk.
func SplitMessage(text string, maxLen int) []string {
	if maxLen <= 0 || utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > maxLen {
		chunk := string(runes[:maxLen])
		splitAt := maxLen

		if i := strings.LastIndex(chunk, "\n"); i >= 0 && utf8.RuneCountInString(chunk[:i]) > maxLen/2 {
			splitAt = utf8.RuneCountInString(chunk[:i]) + 1
		} else if i := strings.LastIndex(chunk, " "); i >= 0 && utf8.RuneCountInString(chunk[:i]) > maxLen/2 {
			splitAt = utf8.RuneCountInString(chunk[:i]) + 1
		}

		parts = append(parts, string(runes[:splitAt]))
		runes = runes[splitAt:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}

// Truncate cuts s to maxLen runes, ending with suffix when cut.
func Truncate(s string, maxLen int, suffix string) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	keep := maxLen - utf8.RuneCountInString(suffix)
	if keep < 0 {
		keep = 0
	}
	return string([]rune(s)[:keep]) + suffix
}
