// Package redact strips sensitive fragments from strings before they
// are logged or attached to error responses: connection strings,
// passwords, JWTs, email addresses, file paths, and SQL fragments.
package redact

import "regexp"

// Redaction placeholders
const (
	credentialPlaceholder = "[REDACTED_CREDENTIAL]"
	jwtPlaceholder        = "[REDACTED_JWT]"
	emailPlaceholder      = "[REDACTED_EMAIL]"
	pathPlaceholder       = "[REDACTED_PATH]"
	sqlPlaceholder        = "[REDACTED_SQL]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// rules are applied in order; earlier rules take precedence over later,
// broader ones (a connection string is redacted before the path rule
// can chew on it).
var rules = []rule{
	{regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`), credentialPlaceholder},
	{regexp.MustCompile(`(?i)(password|passwd|secret|token)([=:\s]['"]?)[^'"&\s]{3,}`), credentialPlaceholder},
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`), jwtPlaceholder},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), emailPlaceholder},
	{regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE)\s[\s\w,*()='"]*(FROM|INTO|SET)\s[\s\w,*()='"$]+`), sqlPlaceholder},
	{regexp.MustCompile(`(/[\w.-]+){2,}`), pathPlaceholder},
}

// String redacts sensitive fragments from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive fragments from an error's message.
// Returns an empty string for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
