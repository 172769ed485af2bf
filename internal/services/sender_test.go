package services

import (
	"strings"
	"testing"
)

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		desc  string
		text  string
		want  int // chunk count
		limit int
	}{
		{"short stays whole", "hello", 1, 4096},
		{"exactly at limit", strings.Repeat("a", 4096), 1, 4096},
		{"one over limit", strings.Repeat("a", 4097), 2, 4096},
		{"three chunks", strings.Repeat("a", 4096*2 + 1), 3, 4096},
	}

	for _, tt := range tests {
		chunks := SplitMessage(tt.text, tt.limit)
		if len(chunks) != tt.want {
			t.Errorf("%s: %d chunks, want %d", tt.desc, len(chunks), tt.want)
		}
		if strings.Join(chunks, "") != tt.text {
			t.Errorf("%s: chunks do not reassemble to the original", tt.desc)
		}
		for i, c := range chunks {
			if n := len([]rune(c)); n > tt.limit {
				t.Errorf("%s: chunk %d has %d runes", tt.desc, i, n)
			}
		}
	}
}

func TestSplitMessageRuneSafe(t *testing.T) {
	// Multi-byte runes must not be cut in half at chunk boundaries.
	text := strings.Repeat("д", 5000)
	for _, c := range SplitMessage(text, 4096) {
		for _, r := range c {
			if r != 'д' {
				t.Fatalf("rune corrupted at chunk boundary: %q", r)
			}
		}
	}
}
