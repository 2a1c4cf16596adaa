package search

import "testing"

func TestFormatResults(t *testing.T) {
	tests := []struct {
		name    string
		results []Result
		want    string
	}{
		{
			name:    "empty",
			results: nil,
			want:    "",
		},
		{
			name: "snippets listed under the result number",
			results: []Result{
				{Title: "A", Snippets: []string{"first fact", "second fact"}},
			},
			want: "[1]- first fact\n- second fact",
		},
		{
			name: "description used when snippets missing",
			results: []Result{
				{Title: "A", Description: "only description"},
			},
			want: "[1]- only description",
		},
		{
			name: "numbering continues across results",
			results: []Result{
				{Snippets: []string{"alpha"}},
				{Snippets: []string{"beta"}},
			},
			want: "[1]- alpha\n\n[2]- beta",
		},
		{
			name: "result without content still consumes a number",
			results: []Result{
				{Title: "empty"},
				{Snippets: []string{"gamma"}},
			},
			want: "[1]\n\n[2]- gamma",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatResults(tt.results); got != tt.want {
				t.Errorf("FormatResults() = %q, want %q", got, tt.want)
			}
		})
	}
}
