package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateSeedURL validates the article URL a mind map is generated from.
//
// Only the shape of the URL is checked here. Whether the host belongs to a
// supported encyclopedia is decided during the crawl, where an unrecognised
// page is skipped rather than failing the run.
func ValidateSeedURL(rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "seed URL cannot be empty")
	}
	if err := ValidateURL(rawURL); err != nil {
		return Wrap(ErrCodeInvalidURL, err, "invalid seed URL %q", rawURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidURL, err, "invalid seed URL %q", rawURL)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidURL, "seed URL has no host: %q", rawURL)
	}
	return nil
}

// ValidateMaxDepth rejects zero and negative traversal depths.
func ValidateMaxDepth(depth int) error {
	if depth <= 0 {
		return New(ErrCodeInvalidDepth, "max depth must be positive, got %d", depth)
	}
	return nil
}

// ValidateSnapshotName validates the name a mind map snapshot is stored under.
// It ensures the name is a simple basename without path components.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 128 characters
//   - No control characters
//   - No path separators or traversal sequences
//   - No hidden names (leading dot)
func ValidateSnapshotName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "snapshot name cannot be empty")
	}

	const maxNameLength = 128
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "snapshot name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "snapshot name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidName, "snapshot name cannot contain path separators")
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "snapshot name cannot contain path traversal sequences (..)")
	}
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidName, "snapshot name cannot be a hidden file")
	}

	return nil
}
