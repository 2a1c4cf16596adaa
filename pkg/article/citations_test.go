package article

import (
	"strings"
	"testing"
)

func TestCitationOrder(t *testing.T) {
	text := "First claim [3]. Second [1], then [3] again and [7]."
	got := CitationOrder(text)
	want := []int{3, 1, 7}
	if len(got) != len(want) {
		t.Fatalf("CitationOrder = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CitationOrder[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRemapCitations(t *testing.T) {
	text := "A [3] and B [1] and C [9]."
	got := RemapCitations(text, map[int]int{3: 1, 1: 2})
	want := "A [1] and B [2] and C ."
	if got != want {
		t.Errorf("RemapCitations = %q, want %q", got, want)
	}
}

func TestStripCitations(t *testing.T) {
	got := StripCitations("Claim [1] and grouped [2, 3] text.")
	want := "Claim  and grouped  text."
	if got != want {
		t.Errorf("StripCitations = %q, want %q", got, want)
	}
}

func TestSplitCitationGroups(t *testing.T) {
	got := SplitCitationGroups("Fact [1, 2] and [4].")
	want := "Fact [1][2] and [4]."
	if got != want {
		t.Errorf("SplitCitationGroups = %q, want %q", got, want)
	}
}

func TestDedupeCitationRuns(t *testing.T) {
	got := DedupeCitationRuns("Fact [2][1][2] end.")
	want := "Fact [1][2] end."
	if got != want {
		t.Errorf("DedupeCitationRuns = %q, want %q", got, want)
	}
}

func TestTrimIncompleteSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "drops trailing fragment",
			in:   "Complete sentence. [1] And then the model stopped mid",
			want: "Complete sentence. [1]",
		},
		{
			name: "normalizes grouped citations",
			in:   "Fact [2, 1]. Unfinished tail",
			want: "Fact [1][2].",
		},
		{
			name: "no terminal punctuation",
			in:   "fragment without end",
			want: "fragment without end",
		},
		{
			name: "cjk punctuation",
			in:   "完整句子。残缺",
			want: "完整句子。",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimIncompleteSentences(tt.in); got != tt.want {
				t.Errorf("TrimIncompleteSentences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanSection(t *testing.T) {
	in := "# Topic\nSolid paragraph one. [1]\nOverall, this wraps up.\n# Summary\nsummary body\n# Next\nmore text."
	got := CleanSection(in)
	if strings.Contains(got, "Overall") {
		t.Errorf("CleanSection kept summary paragraph: %q", got)
	}
	if strings.Contains(got, "summary body") {
		t.Errorf("CleanSection kept summary block body: %q", got)
	}
	if !strings.Contains(got, "# Next") || !strings.Contains(got, "more text.") {
		t.Errorf("CleanSection dropped content after summary block: %q", got)
	}
}

func TestLimitWords(t *testing.T) {
	in := "one two three\nfour five"
	if got := LimitWords(in, 4); got != "one two three\nfour" {
		t.Errorf("LimitWords(4) = %q", got)
	}
	if got := LimitWords(in, 10); got != in {
		t.Errorf("LimitWords(10) = %q, want unchanged", got)
	}
	if got := LimitWords(in, 0); got != "" {
		t.Errorf("LimitWords(0) = %q, want empty", got)
	}
}

