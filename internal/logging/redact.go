package logging

import (
	"regexp"
	"strings"
)

// Patterns for secrets that should be redacted.
var secretPatterns = []*regexp.Regexp{
	// key=value pairs in DSN query strings and error messages
	regexp.MustCompile(`(?i)(password|passwd|pwd|secret)=([^&\s;]+)`),

	// Bearer tokens
	regexp.MustCompile(`(?i)bearer\s+([a-zA-Z0-9._-]{20,})`),
}

// dsnCredentials matches the user:password@ prefix of MySQL and URL style DSNs.
var dsnCredentials = regexp.MustCompile(`^((?:[a-z0-9+]+://)?[^:/@]*):([^@]*)@`)

// RedactedValue is the replacement for sensitive values.
const RedactedValue = "[REDACTED]"

// Redact replaces sensitive information in a string.
func Redact(s string) string {
	result := s
	for _, pattern := range secretPatterns {
		result = pattern.ReplaceAllStringFunc(result, func(match string) string {
			if i := strings.IndexByte(match, '='); i >= 0 {
				return match[:i+1] + RedactedValue
			}
			return RedactedValue
		})
	}
	return result
}

// RedactDSN hides the password of a data source name so it can be logged.
func RedactDSN(dsn string) string {
	result := dsnCredentials.ReplaceAllString(dsn, "${1}:"+RedactedValue+"@")
	return Redact(result)
}
