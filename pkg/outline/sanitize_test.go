package outline

import (
	"regexp"
	"strings"
	"testing"
)

func TestStripPrefix(t *testing.T) {
	s := NewSanitizer()
	tests := []struct {
		in   string
		want string
	}{
		{"一、引言", "引言"},
		{"（一）背景", "背景"},
		{"1. Overview", "Overview"},
		{"2.1.3 Deep Section", "Deep Section"},
		{"(3) Parenthesized", "Parenthesized"},
		{"IV. Results", "Results"},
		{"a) Alternatives", "Alternatives"},
		{"Plain Heading", "Plain Heading"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := s.StripPrefix(tt.in); got != tt.want {
				t.Errorf("StripPrefix(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsIntroductory(t *testing.T) {
	s := NewSanitizer()
	tests := []struct {
		in   string
		want bool
	}{
		{"以下是为您生成的提纲", true},
		{"下面是文章结构", true},
		{"文章提纲内容如下：", true},
		{"Main sections:", true},
		{"Introduction", false},
		{"AI 的历史", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := s.IsIntroductory(tt.in); got != tt.want {
				t.Errorf("IsIntroductory(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanLine(t *testing.T) {
	s := NewSanitizer()
	tests := []struct {
		name string
		in   string
		want string
		keep bool
	}{
		{"numbered heading", "## 1. Background", "## Background", true},
		{"chinese numbered heading", "# 一、引言", "# 引言", true},
		{"intro heading dropped", "# 以下是提纲", "", false},
		{"colon heading dropped", "# Sections:", "", false},
		{"plain heading kept", "### Details", "### Details", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, keep := s.CleanLine(tt.in)
			if keep != tt.keep {
				t.Fatalf("CleanLine(%q) keep = %v, want %v", tt.in, keep, tt.keep)
			}
			if keep && got != tt.want {
				t.Errorf("CleanLine(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanOutlineEmptyFallsBack(t *testing.T) {
	s := NewSanitizer()
	if got := s.CleanOutline("", "AI"); got != DefaultSkeleton {
		t.Errorf("CleanOutline(\"\") = %q, want skeleton", got)
	}
	if got := s.CleanOutline("以下是提纲：\n", "AI"); got != DefaultSkeleton {
		t.Errorf("CleanOutline(intro only) = %q, want skeleton", got)
	}
}

func TestCleanOutlineTopicRestartsAccumulation(t *testing.T) {
	s := NewSanitizer()
	raw := "# Stale Heading\nArtificial Intelligence\n# Real Intro\n## Detail"
	got := s.CleanOutline(raw, "Artificial Intelligence")
	if strings.Contains(got, "Stale") {
		t.Errorf("CleanOutline kept content before the topic line: %q", got)
	}
	if !strings.Contains(got, "# Real Intro") || !strings.Contains(got, "## Detail") {
		t.Errorf("CleanOutline dropped content after the topic line: %q", got)
	}
}

func TestCleanOutlinePromotesFirstProseLine(t *testing.T) {
	s := NewSanitizer()
	got := s.CleanOutline("History of Computing\n## Early Machines", "")
	want := "# History of Computing\n## Early Machines"
	if got != want {
		t.Errorf("CleanOutline = %q, want %q", got, want)
	}
}

func TestCleanOutlineSkipsErrorLines(t *testing.T) {
	s := NewSanitizer()
	got := s.CleanOutline("Request failed: upstream error\n# Intro", "")
	if strings.Contains(got, "failed") {
		t.Errorf("CleanOutline kept error line: %q", got)
	}
}

func TestCleanOutlineDropsTrailingSections(t *testing.T) {
	s := NewSanitizer()
	raw := "# Intro\n## Scope\n# References\n## Source A\n# Conclusion"
	got := s.CleanOutline(raw, "")
	if strings.Contains(got, "References") || strings.Contains(got, "Source A") {
		t.Errorf("CleanOutline kept references block: %q", got)
	}
	if !strings.Contains(got, "# Conclusion") {
		t.Errorf("CleanOutline dropped conclusion: %q", got)
	}
}

func TestCleanOutlineKeepsAnnotationLines(t *testing.T) {
	s := NewSanitizer()
	got := s.CleanOutline("# Intro\n@focus on history", "")
	if !strings.Contains(got, "@focus on history") {
		t.Errorf("CleanOutline dropped @ line: %q", got)
	}
}

func TestSanitizerCustomPatterns(t *testing.T) {
	s := NewSanitizer().AddDropPattern(regexp.MustCompile(`^NOTE\b`))
	if !s.IsIntroductory("NOTE this outline is a draft") {
		t.Error("custom drop pattern not applied")
	}
	s = NewSanitizer().WithPrefixPatterns(regexp.MustCompile(`^>>\s*`))
	if got := s.StripPrefix(">> Heading"); got != "Heading" {
		t.Errorf("StripPrefix with custom pattern = %q, want %q", got, "Heading")
	}
	if got := s.StripPrefix("1. Heading"); got != "1. Heading" {
		t.Errorf("replaced pattern list should not strip default prefixes, got %q", got)
	}
}
