package service

import (
	"reflect"
	"testing"

	"ai-writing-be/pkg/search"
)

func TestBuildChapterPlan(t *testing.T) {
	tests := []struct {
		name    string
		outline string
		want    []chapterPlan
	}{
		{
			name:    "flat chapters",
			outline: "# Intro\n# Body\n# Close",
			want: []chapterPlan{
				{index: 0, title: "Intro"},
				{index: 1, title: "Body"},
				{index: 2, title: "Close"},
			},
		},
		{
			name:    "subsections mark the parent as overview",
			outline: "# Intro\n## Scope\n## Terms\n# Close",
			want: []chapterPlan{
				{index: 0, title: "Intro", overview: true},
				{index: 1, title: "Close"},
			},
		},
		{
			name:    "leading subsection without a parent is skipped",
			outline: "## Orphan\n# Only",
			want: []chapterPlan{
				{index: 0, title: "Only"},
			},
		},
		{
			name:    "empty outline",
			outline: "",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildChapterPlan(tt.outline)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("buildChapterPlan(%q) = %+v, want %+v", tt.outline, got, tt.want)
			}
		})
	}
}

func TestParseKeywords(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "well formed",
			raw:  `<begin>["go channels", "goroutine leaks", "select"]<end>`,
			want: []string{"go channels", "goroutine leaks", "select"},
		},
		{
			name: "surrounding chatter is ignored",
			raw:  "Sure, here you go:\n<begin>[alpha, beta]<end>\nHope that helps.",
			want: []string{"alpha", "beta"},
		},
		{
			name: "more than three keywords are capped",
			raw:  "<begin>[a, b, c, d, e]<end>",
			want: []string{"a", "b", "c"},
		},
		{
			name: "empty entries dropped",
			raw:  "<begin>[a, , b]<end>",
			want: []string{"a", "b"},
		},
		{
			name: "missing markers",
			raw:  "[a, b, c]",
			want: nil,
		},
		{
			name: "markers reversed",
			raw:  "<end>[a]<begin>",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseKeywords(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseKeywords(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestBindReferencesRenumbersDensely(t *testing.T) {
	results := []search.Result{
		{Title: "first", URL: "https://a.example", Description: "about a"},
		{Title: "second", URL: "https://b.example", Snippets: []string{"snippet b"}},
		{Title: "third", URL: "https://c.example", Description: "about c"},
	}

	// The model cited sources 3 and 1 and skipped 2.
	text, refs := bindReferences("Claim one [3]. Claim two [1]. Claim again [3].", results)

	if want := "Claim one [1]. Claim two [2]. Claim again [1]."; text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
	if len(refs) != 2 {
		t.Fatalf("len(refs) = %d, want 2", len(refs))
	}
	if refs["1"].Title != "third" || refs["2"].Title != "first" {
		t.Errorf("refs = %+v, want [3]->1 and [1]->2", refs)
	}
}

func TestBindReferencesPrefersSnippetOverDescription(t *testing.T) {
	results := []search.Result{
		{Title: "src", URL: "https://x.example", Description: "desc", Snippets: []string{"snippet wins"}},
	}
	_, refs := bindReferences("Fact [1].", results)
	if refs["1"].Content != "snippet wins" {
		t.Errorf("reference content = %q, want the first snippet", refs["1"].Content)
	}
}

func TestBindReferencesDropsOutOfRangeMarkers(t *testing.T) {
	results := []search.Result{{Title: "only", URL: "https://x.example"}}
	text, refs := bindReferences("Real [1], ghost [7].", results)
	if len(refs) != 1 {
		t.Fatalf("len(refs) = %d, want 1", len(refs))
	}
	// A marker pointing past the result list is removed entirely.
	if want := "Real [1], ghost ."; text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}
