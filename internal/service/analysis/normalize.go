package analysis

import (
	"regexp"
	"strings"
)

// leading phrases stripped from bullet text, applied in order, once each
var prefixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:hi|hello|hey)\b[\s,!.]*`),
	regexp.MustCompile(`(?i)^(?:regarding|about)\b\s*`),
	regexp.MustCompile(`(?i)^(?:i am|i'm)\b\s*`),
	regexp.MustCompile(`(?i)^(?:please|kindly)\b\s*`),
}

// summarize lightly normalizes text for display.
func summarize(text string) string {
	text = strings.TrimSpace(text)
	for _, re := range prefixPatterns {
		text = re.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}
