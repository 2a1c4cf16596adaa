package article

import (
	"testing"
)

func TestSplitChapters(t *testing.T) {
	text := "# One\nfirst body\n\n## One point one\nnested body\n# Two\nsecond body"
	chapters := SplitChapters(text)
	if len(chapters) != 3 {
		t.Fatalf("len(chapters) = %d, want 3", len(chapters))
	}
	if chapters[0] != "# One\nfirst body" {
		t.Errorf("chapters[0] = %q", chapters[0])
	}
	if chapters[2] != "# Two\nsecond body" {
		t.Errorf("chapters[2] = %q", chapters[2])
	}
}

func TestSplitChaptersKeepsLeadingProse(t *testing.T) {
	chapters := SplitChapters("preamble line\n# One\nbody")
	if len(chapters) != 2 {
		t.Fatalf("len(chapters) = %d, want 2", len(chapters))
	}
	if chapters[0] != "preamble line" {
		t.Errorf("chapters[0] = %q, want preamble", chapters[0])
	}
}

func TestJoinChaptersSkipsEmpty(t *testing.T) {
	got := JoinChapters([]string{"# A\nbody", "", "  ", "# B"})
	want := "# A\nbody\n\n# B"
	if got != want {
		t.Errorf("JoinChapters = %q, want %q", got, want)
	}
}

func TestChapterTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"## Background\ntext", "Background"},
		{"\n# Intro", "Intro"},
		{"no heading here\nmore", "no heading here"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ChapterTitle(tt.in); got != tt.want {
			t.Errorf("ChapterTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
