// Package redact scrubs sensitive fragments from strings before they are
// logged. Errors bubbling up from the object store or the media services
// can embed credentials, internal endpoints or scratch-file paths; those
// must never reach log output verbatim.
package redact

import "regexp"

const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedHostPlaceholder       = "[REDACTED_HOST]"
)

var (
	// Object-store credentials: access keys and secrets in messages or URLs.
	credentialRegex = regexp.MustCompile(
		`(?i)(access[_-]?key|secret[_-]?key|secret|credential|signature)(['"\s:=]+)[A-Za-z0-9_\-.~+/%]{8,}`,
	)
	urlUserinfoRegex = regexp.MustCompile(`(?i)[a-z][a-z0-9+.-]*://[^@/\s]+@`)

	// Scratch and upload file paths.
	unixPathRegex = regexp.MustCompile(`(/[\w.-]+){2,}`)
	winPathRegex  = regexp.MustCompile(`[A-Za-z]:\\[^\\]+(\\[^\\]+)+`)

	// Internal service endpoints.
	hostPortRegex = regexp.MustCompile(
		`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`,
	)

	replacements = []struct {
		pattern     *regexp.Regexp
		placeholder string
	}{
		{credentialRegex, RedactedCredentialPlaceholder},
		{urlUserinfoRegex, RedactedCredentialPlaceholder + "@"},
		{unixPathRegex, RedactedPathPlaceholder},
		{winPathRegex, RedactedPathPlaceholder},
		{hostPortRegex, RedactedHostPlaceholder},
	}
)

// String redacts sensitive fragments from the input string.
func String(input string) string {
	if input == "" {
		return input
	}
	result := input
	for _, r := range replacements {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive fragments from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
