package agent

import (
	"fmt"
	"regexp"
	"strings"
)

// Input limits enforced by the validator.
const (
	maxPromptLength  = 5000
	maxURLLength     = 2048
	maxRepeatedChars = 50
)

var sqlInjectionPatterns = compilePatterns([]string{
	`(\b(SELECT|INSERT|UPDATE|DELETE|DROP|CREATE|ALTER|EXEC|EXECUTE|UNION|DECLARE)\b)`,
	`(--|#|/\*|\*/)`,
	`(\bOR\b.*=.*)`,
	`(\bAND\b.*=.*)`,
	`(;.*\b(SELECT|INSERT|UPDATE|DELETE|DROP)\b)`,
	`(\bxp_\w+)`,
	`(\bsp_\w+)`,
})

var commandInjectionPatterns = compilePatterns([]string{
	"(&&|\\|\\||;|\\||`)",
	`(\$\(.*\))`,
	`(\bwget\b|\bcurl\b|\bchmod\b|\bchown\b)`,
	`(\brm\b.*-rf)`,
	`(\bmkdir\b|\btouch\b|\bcat\b.*/etc)`,
})

var pathTraversalPatterns = compilePatterns([]string{
	`(\.\./|\.\.\\)`,
	`(/etc/passwd|/etc/shadow)`,
	`(\\windows\\system32)`,
})

var scriptInjectionPatterns = compilePatterns([]string{
	`(<script[^>]*>.*?</script>)`,
	`(javascript:)`,
	`(onerror\s*=)`,
	`(onload\s*=)`,
	`(eval\s*\()`,
	`(<iframe[^>]*>)`,
})

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f-\x9f]`)

func compilePatterns(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(`(?i)` + p)
	}
	return compiled
}

// SecurityValidator screens user prompts for injection attempts and
// abuse patterns before they reach any downstream service.
type SecurityValidator struct{}

// NewSecurityValidator creates a new validator.
func NewSecurityValidator() *SecurityValidator {
	return &SecurityValidator{}
}

// Validate checks the input against all security rules. It returns
// false with a description of the first violated rule, or true with an
// empty string when the input is safe.
func (v *SecurityValidator) Validate(text string) (bool, string) {
	if text == "" {
		return false, "Invalid input: text must be a non-empty string"
	}

	if len(text) > maxPromptLength {
		return false, fmt.Sprintf("Input exceeds maximum length of %d characters", maxPromptLength)
	}

	for _, url := range urlPattern.FindAllString(text, -1) {
		if len(url) > maxURLLength {
			return false, fmt.Sprintf("URL exceeds maximum length of %d characters", maxURLLength)
		}
	}

	if hasExcessiveRepetition(text) {
		return false, "Excessive character repetition detected"
	}

	if strings.ContainsRune(text, 0) {
		return false, "Null bytes detected in input"
	}

	checks := []struct {
		patterns []*regexp.Regexp
		threat   string
	}{
		{sqlInjectionPatterns, "SQL injection"},
		{commandInjectionPatterns, "command injection"},
		{pathTraversalPatterns, "path traversal"},
		{scriptInjectionPatterns, "script injection"},
	}
	for _, check := range checks {
		for _, p := range check.patterns {
			if p.MatchString(text) {
				return false, fmt.Sprintf("Potential %s detected", check.threat)
			}
		}
	}

	return true, ""
}

// hasExcessiveRepetition reports whether any character run exceeds
// maxRepeatedChars consecutive repeats.
func hasExcessiveRepetition(text string) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev {
			run++
			if run >= maxRepeatedChars {
				return true
			}
		} else {
			prev = r
			run = 0
		}
	}
	return false
}

// SanitizeForLog strips control characters and truncates the text so it
// can be logged safely.
func SanitizeForLog(text string, maxLength int) string {
	sanitized := controlChars.ReplaceAllString(text, "")
	if len(sanitized) > maxLength {
		return sanitized[:maxLength] + "..."
	}
	return sanitized
}
