package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// ValidateIdentifier validates a platform identifier (meeting id, user id,
// room id, record id) before it is placed in a request path.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateIdentifier(field, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", field)
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "%s too long (max 128 characters)", field)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", field)
		}
	}

	for _, pattern := range []string{"..", "/", "\\", "?", "#"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "%s contains invalid characters: %q", field, pattern)
		}
	}

	return nil
}

// ValidateURL validates an absolute URL string.
// It ensures the URL parses, has a host, and uses an http or https scheme.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL must include a host")
	}

	return nil
}
