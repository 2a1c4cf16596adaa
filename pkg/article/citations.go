package article

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	citationPattern      = regexp.MustCompile(`\[(\d+)\]`)
	citationGroupPattern = regexp.MustCompile(`\[([\d,\s]+)\]`)
	citationRunPattern   = regexp.MustCompile(`(\[\d+\])+`)
	sentenceEndPattern   = regexp.MustCompile(`[.!?。！？](\s*\[\d+\])*`)
)

// CitationOrder returns the distinct citation numbers in text, ordered by
// first appearance. The renumbering pass assigns new indices in this order.
func CitationOrder(text string) []int {
	seen := make(map[int]bool)
	var order []int
	for _, m := range citationPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || seen[n] {
			continue
		}
		seen[n] = true
		order = append(order, n)
	}
	return order
}

// RemapCitations rewrites every [old] marker through the mapping. Markers
// without a mapping entry are removed, matching the behavior for citations
// that point past the available search results.
func RemapCitations(text string, mapping map[int]int) string {
	return citationPattern.ReplaceAllStringFunc(text, func(marker string) string {
		n, err := strconv.Atoi(marker[1 : len(marker)-1])
		if err != nil {
			return marker
		}
		if replacement, ok := mapping[n]; ok {
			return fmt.Sprintf("[%d]", replacement)
		}
		return ""
	})
}

// StripCitations removes every citation marker, including grouped forms like
// [1, 2].
func StripCitations(text string) string {
	return citationGroupPattern.ReplaceAllString(text, "")
}

// SplitCitationGroups rewrites grouped citations ([1, 2]) into adjacent
// single markers ([1][2]).
func SplitCitationGroups(text string) string {
	return citationGroupPattern.ReplaceAllStringFunc(text, func(group string) string {
		inner := group[1 : len(group)-1]
		if !strings.ContainsAny(inner, ", ") {
			return group
		}
		var b strings.Builder
		for _, part := range strings.Split(inner, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			b.WriteString("[" + part + "]")
		}
		return b.String()
	})
}

// DedupeCitationRuns sorts each run of adjacent markers ascending and drops
// duplicates, so [2][1][2] becomes [1][2].
func DedupeCitationRuns(text string) string {
	return citationRunPattern.ReplaceAllStringFunc(text, func(run string) string {
		seen := make(map[int]bool)
		var nums []int
		for _, m := range citationPattern.FindAllStringSubmatch(run, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil || seen[n] {
				continue
			}
			seen[n] = true
			nums = append(nums, n)
		}
		sort.Ints(nums)
		var b strings.Builder
		for _, n := range nums {
			fmt.Fprintf(&b, "[%d]", n)
		}
		return b.String()
	})
}

// TrimIncompleteSentences normalizes citations and cuts the model's trailing
// half-finished sentence: everything after the last sentence-ending
// punctuation (and its citations) is dropped. Text without any complete
// sentence is returned unchanged apart from citation normalization.
func TrimIncompleteSentences(text string) string {
	text = SplitCitationGroups(text)
	text = DedupeCitationRuns(text)
	locs := sentenceEndPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return strings.TrimSpace(text)
	}
	last := locs[len(locs)-1]
	return strings.TrimSpace(text[:last[1]])
}
