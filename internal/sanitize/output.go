package sanitize

import (
	"regexp"
	"strings"
)

var outputInjectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)\bon\w+\s*=`),
	regexp.MustCompile(`(?i)<iframe[^>]*>`),
	regexp.MustCompile(`(?i)<object[^>]*>`),
	regexp.MustCompile(`(?i)<embed[^>]*>`),
}

var outputReplacer = strings.NewReplacer(
	"\u2018", "'", // left single quote
	"\u2019", "'", // right single quote
	"\u201c", `"`, // left double quote
	"\u201d", `"`, // right double quote
	"\u2013", "-", // en dash
	"\u2014", "-", // em dash
	"\u2026", "...", // ellipsis
	"\u00a0", " ", // non-breaking space
)

var (
	multiSpace   = regexp.MustCompile(` +`)
	multiNewline = regexp.MustCompile(`\n{3,}`)
)

// CleanOutput strips markup injection from generated content and normalizes
// it: HTML/JS injection patterns removed, typographic punctuation replaced
// with ASCII, runs of spaces collapsed, blank-line runs reduced to one.
// Single line breaks are preserved.
func CleanOutput(content string) string {
	if content == "" {
		return ""
	}

	for _, p := range outputInjectionPatterns {
		content = p.ReplaceAllString(content, "")
	}
	content = outputReplacer.Replace(content)

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(multiSpace.ReplaceAllString(line, " "))
	}
	content = strings.Join(lines, "\n")
	content = multiNewline.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}
