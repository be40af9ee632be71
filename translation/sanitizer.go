package translation

import (
	"regexp"
	"strings"
)

// The backend occasionally wraps its answer in commentary despite the prompt.
// These patterns cover everything observed so far; keeping them here means a
// prompt change never touches the orchestrator.
var (
	reNoChanges      = regexp.MustCompile(`(?i)\(No changes needed.*?\)`)
	reAlreadyIn      = regexp.MustCompile(`(?i)\(Already in .*?\)`)
	reTranslatedFrom = regexp.MustCompile(`(?i)\(.*?translated from.*?\)`)
	reLabel          = regexp.MustCompile(`(?i)Translation:?\s*`)
	reThinkBlock     = regexp.MustCompile(`(?is)<think>.*?</think>`)
	reQuotes         = regexp.MustCompile(`^["']|["']$`)
)

// sanitize strips backend meta-commentary so the returned text is the
// translation only. An empty result is success-with-empty: the caller falls
// back to the canonical text.
func sanitize(raw string) string {
	result := strings.TrimSpace(raw)
	result = strings.TrimSpace(reThinkBlock.ReplaceAllString(result, ""))
	result = strings.TrimSpace(reNoChanges.ReplaceAllString(result, ""))
	result = strings.TrimSpace(reAlreadyIn.ReplaceAllString(result, ""))
	result = strings.TrimSpace(reTranslatedFrom.ReplaceAllString(result, ""))
	result = strings.TrimSpace(reLabel.ReplaceAllString(result, ""))
	result = strings.TrimSpace(reQuotes.ReplaceAllString(result, ""))
	return result
}
