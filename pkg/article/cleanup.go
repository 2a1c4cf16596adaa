package article

import (
	"strings"
)

var summaryParagraphPrefixes = []string{"Overall", "In summary", "In conclusion"}

// CleanSection tidies one generated section: citation markers are normalized
// and half-finished sentences trimmed per paragraph, boilerplate summary
// paragraphs are removed, and a trailing Summary/Conclusion block is dropped
// together with its body.
func CleanSection(text string) string {
	var kept []string
	inSummaryBlock := false
	for _, para := range strings.Split(text, "\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if !strings.HasPrefix(para, "#") {
			para = TrimIncompleteSentences(para)
			if para == "" {
				continue
			}
		}
		if inSummaryBlock {
			if strings.HasPrefix(para, "#") {
				inSummaryBlock = false
			} else {
				continue
			}
		}
		if hasSummaryPrefix(para) {
			continue
		}
		if strings.Contains(para, "# Summary") || strings.Contains(para, "# Conclusion") {
			inSummaryBlock = true
			continue
		}
		kept = append(kept, para)
	}
	return strings.Join(kept, "\n\n")
}

func hasSummaryPrefix(para string) bool {
	for _, prefix := range summaryParagraphPrefixes {
		if strings.HasPrefix(para, prefix) {
			return true
		}
	}
	return false
}

// LimitWords truncates text to at most max whitespace-separated words while
// keeping the original line structure.
func LimitWords(text string, max int) string {
	if max <= 0 {
		return ""
	}
	count := 0
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if count >= max {
			break
		}
		words := strings.Fields(line)
		if count+len(words) <= max {
			lines = append(lines, line)
			count += len(words)
			continue
		}
		lines = append(lines, strings.Join(words[:max-count], " "))
		count = max
	}
	return strings.Join(lines, "\n")
}
