package utils

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitTextShortInput(t *testing.T) {
	got := SplitText("short text", 1000, 200)
	if len(got) != 1 || got[0] != "short text" {
		t.Errorf("SplitText() = %v, want single unchanged chunk", got)
	}
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("a", 2500)
	chunks := SplitText(text, 1000, 200)

	if len(chunks) != 3 {
		t.Fatalf("SplitText() produced %d chunks, want 3", len(chunks))
	}
	if len(chunks[0]) != 1000 {
		t.Errorf("first chunk length = %d, want 1000", len(chunks[0]))
	}
	if chunks[1][:200] != chunks[0][800:] {
		t.Error("second chunk does not start with the overlap tail of the first")
	}
	if len(chunks[2]) != 900 {
		t.Errorf("last chunk length = %d, want 900", len(chunks[2]))
	}
}

func TestSplitTextCoversAllContent(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 60)
	chunks := SplitText(text, 300, 60)

	step := 300 - 60
	runes := []rune(text)
	for i, chunk := range chunks {
		start := i * step
		if !strings.HasPrefix(string(runes[start:]), chunk) {
			t.Fatalf("chunk %d does not align with source at offset %d", i, start)
		}
	}

	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(text, last) {
		t.Error("last chunk is not a suffix of the source text")
	}
}

func TestSplitTextBreaksAtWordBoundary(t *testing.T) {
	// Eight-char words put the 100-rune chunk boundary mid-word, so the
	// splitter has to retreat to the preceding space.
	text := strings.Repeat("abcdefg ", 30)
	chunks := SplitText(text, 100, 20)

	if len(chunks) < 2 {
		t.Fatalf("SplitText() produced %d chunks, want at least 2", len(chunks))
	}
	for i, chunk := range chunks[:len(chunks)-1] {
		if !strings.HasSuffix(chunk, " ") {
			t.Errorf("chunk %d ends mid-word: %q", i, chunk[len(chunk)-8:])
		}
	}
}

func TestSplitTextPreservesRunes(t *testing.T) {
	text := strings.Repeat("文章生成系统", 300)
	chunks := SplitText(text, 500, 100)

	for i, chunk := range chunks {
		if !utf8.ValidString(chunk) {
			t.Errorf("chunk %d contains invalid UTF-8", i)
		}
	}
}
