package outline

import (
	"regexp"
	"strings"
)

// DefaultSkeleton is saved when a model response yields no usable headings.
const DefaultSkeleton = "# Introduction\n# Main Content\n# Conclusion"

// Enumeration prefixes the model mixes into heading text. Numbering is
// computed by the editor, so any prefix the model emits is noise.
var defaultPrefixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[一二三四五六七八九十百]+[、.．:：]\s*`),
	regexp.MustCompile(`^[(（][一二三四五六七八九十百]+[)）][、.．:：]?\s*`),
	regexp.MustCompile(`^[IVXLCDMivxlcdm]+[、.．]\s+`),
	regexp.MustCompile(`^\d+(\.\d+)*[、.．:：)）]?\s+`),
	regexp.MustCompile(`^[(（]\d+[)）][、.．:：]?\s*`),
	regexp.MustCompile(`^[A-Za-z][、.．)）]\s+`),
}

// Introductory statements the model wraps around the outline proper. Matched
// against the line with heading markers already removed.
var defaultDropPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^以下`),
	regexp.MustCompile(`^下面是`),
	regexp.MustCompile(`.*提纲.*如下.*：?$`),
	regexp.MustCompile(`.*大纲.*如下.*：?$`),
	regexp.MustCompile(`[:：]\s*$`),
}

var trailingSectionPattern = regexp.MustCompile(`(?i)^(see also|notes|references|external links|bibliography|further reading|summary|appendix|appendices)$`)

var errorLinePattern = regexp.MustCompile(`(?i)(error|failed|出错)`)

// Sanitizer cleans model-generated outline text before it is parsed into
// nodes. The pattern lists are heuristics tied to observed model phrasing;
// both are replaceable so deployments can tune them without touching the
// cleanup control flow.
type Sanitizer struct {
	prefixPatterns []*regexp.Regexp
	dropPatterns   []*regexp.Regexp
}

// NewSanitizer returns a sanitizer with the default pattern lists.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		prefixPatterns: append([]*regexp.Regexp(nil), defaultPrefixPatterns...),
		dropPatterns:   append([]*regexp.Regexp(nil), defaultDropPatterns...),
	}
}

// WithPrefixPatterns replaces the enumeration-prefix list.
func (s *Sanitizer) WithPrefixPatterns(patterns ...*regexp.Regexp) *Sanitizer {
	s.prefixPatterns = patterns
	return s
}

// WithDropPatterns replaces the introductory-line list.
func (s *Sanitizer) WithDropPatterns(patterns ...*regexp.Regexp) *Sanitizer {
	s.dropPatterns = patterns
	return s
}

// AddDropPattern appends a pattern to the introductory-line list.
func (s *Sanitizer) AddDropPattern(pattern *regexp.Regexp) *Sanitizer {
	s.dropPatterns = append(s.dropPatterns, pattern)
	return s
}

// StripPrefix removes one leading enumeration prefix from heading text.
func (s *Sanitizer) StripPrefix(text string) string {
	trimmed := strings.TrimSpace(text)
	for _, p := range s.prefixPatterns {
		if loc := p.FindStringIndex(trimmed); loc != nil {
			return strings.TrimSpace(trimmed[loc[1]:])
		}
	}
	return trimmed
}

// IsIntroductory reports whether a line is model preamble rather than a
// heading, e.g. "以下是文章提纲：".
func (s *Sanitizer) IsIntroductory(text string) bool {
	trimmed := strings.TrimSpace(text)
	for _, p := range s.dropPatterns {
		if p.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// CleanLine sanitizes a single heading line. The returned bool is false when
// the line should be dropped entirely.
func (s *Sanitizer) CleanLine(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	m := headingPattern.FindStringSubmatch(trimmed)
	if m == nil {
		if s.IsIntroductory(trimmed) {
			return "", false
		}
		return s.StripPrefix(trimmed), trimmed != ""
	}
	text := s.StripPrefix(m[2])
	if text == "" || s.IsIntroductory(text) {
		return "", false
	}
	return m[1] + " " + text, true
}

// CleanOutline normalizes a raw model response into heading-only outline
// text. A line equal to the topic restarts accumulation so that everything
// the model printed before repeating the title is discarded. The first
// non-heading line is promoted to a top-level heading unless it reads like an
// error message; later non-heading prose is dropped. Trailing boilerplate
// sections (references, bibliography, ...) are removed. An empty result
// falls back to DefaultSkeleton.
func (s *Sanitizer) CleanOutline(raw string, topic string) string {
	topic = strings.TrimSpace(topic)
	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if topic != "" && (trimmed == topic || trimmed == "# "+topic) {
			kept = kept[:0]
			continue
		}
		switch {
		case strings.HasPrefix(trimmed, "#"):
			if cleaned, ok := s.CleanLine(trimmed); ok {
				kept = append(kept, cleaned)
			}
		case strings.HasPrefix(trimmed, "@"):
			kept = append(kept, trimmed)
		case len(kept) == 0:
			if errorLinePattern.MatchString(trimmed) || s.IsIntroductory(trimmed) {
				continue
			}
			kept = append(kept, "# "+s.StripPrefix(trimmed))
		}
	}
	kept = dropTrailingSections(kept)
	if len(kept) == 0 {
		return DefaultSkeleton
	}
	return strings.Join(kept, "\n")
}

// dropTrailingSections removes boilerplate blocks such as "# References"
// together with everything nested under them.
func dropTrailingSections(lines []string) []string {
	var out []string
	skipDeeperThan := -1
	for _, line := range lines {
		m := headingPattern.FindStringSubmatch(line)
		if m == nil {
			if skipDeeperThan < 0 {
				out = append(out, line)
			}
			continue
		}
		level := len(m[1])
		if skipDeeperThan >= 0 && level > skipDeeperThan {
			continue
		}
		skipDeeperThan = -1
		if trailingSectionPattern.MatchString(strings.TrimSpace(m[2])) {
			skipDeeperThan = level
			continue
		}
		out = append(out, line)
	}
	return out
}
