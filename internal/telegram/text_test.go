package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		want   []string
	}{
		{"short", "hello", 10, []string{"hello"}},
		{"exact", "abcde", 5, []string{"abcde"}},
		{"hard cut", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"newline", "line one\nline two", 12, []string{"line one\n", "line two"}},
		{"space", "alpha beta gamma", 12, []string{"alpha beta ", "gamma"}},
		{"newline too early", "a\nbcdefghijk", 6, []string{"a\nbcde", "fghijk"}},
		{"runes", "ёжикёжик", 4, []string{"ёжик", "ёжик"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitMessage(tt.text, tt.maxLen)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.text, strings.Join(got, ""))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10, "..."))
	assert.Equal(t, "abcd...", Truncate("abcdefghij", 7, "..."))
	assert.Equal(t, "...", Truncate("abcdef", 2, "..."))
}
