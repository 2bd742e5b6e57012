package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxTags      = 10
	MaxTagLength = 20
)

// ErrTagTooLong rejects the whole tag list when any single tag exceeds
// MaxTagLength characters.
var ErrTagTooLong = errors.New("tag exceeds maximum length")

var (
	slugPattern    = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	nonAlphanum    = regexp.MustCompile(`[^a-z0-9]+`)
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// GenerateSlug derives a URL-safe slug from a title: lowercase, runs of
// non-alphanumeric characters collapsed to single hyphens, no leading or
// trailing hyphen. Returns "" when the title has no alphanumeric characters.
func GenerateSlug(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = nonAlphanum.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// IsValidSlug reports whether s matches the canonical slug format.
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// SuggestSlug appends the last four digits of the current timestamp to a
// conflicting slug. The suggestion is advisory, it is never auto-applied.
func SuggestSlug(slug string) string {
	ts := fmt.Sprintf("%d", time.Now().UnixMilli())
	return fmt.Sprintf("%s-%s", slug, ts[len(ts)-4:])
}

// GenerateExcerpt strips HTML tags from content and truncates the plain text
// to length characters, appending "..." when truncated. Truncation counts
// runes, never splitting a multibyte character.
func GenerateExcerpt(content string, length int) string {
	plain := htmlTagPattern.ReplaceAllString(content, "")
	runes := []rune(plain)
	if len(runes) > length {
		return string(runes[:length]) + "..."
	}
	return plain
}

// IsValidURL reports whether s parses as an absolute URL.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// MediaHost returns the trusted media host image URLs must point at.
func MediaHost() string {
	if host := os.Getenv("TRUSTED_MEDIA_HOST"); host != "" {
		return host
	}
	return "cloudinary.com"
}

// ParseTags normalizes the tag field of a project payload. Clients send tags
// as a native JSON array, a JSON-encoded string of an array, or a plain
// comma-separated string; all three shapes normalize to the same list. The
// list is capped at MaxTags entries, each tag trimmed; a tag longer than
// MaxTagLength fails with ErrTagTooLong.
func ParseTags(raw interface{}) ([]string, error) {
	if raw == nil {
		return []string{}, nil
	}

	var tags []string
	switch v := raw.(type) {
	case []string:
		tags = v
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				tags = append(tags, s)
			}
		}
	case string:
		var decoded []string
		if err := json.Unmarshal([]byte(v), &decoded); err == nil {
			tags = decoded
		} else {
			tags = strings.Split(v, ",")
		}
	default:
		return []string{}, nil
	}

	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		normalized = append(normalized, trimmed)
		if len(normalized) == MaxTags {
			break
		}
	}

	for _, tag := range normalized {
		if utf8.RuneCountInString(tag) > MaxTagLength {
			return nil, ErrTagTooLong
		}
	}

	return normalized, nil
}
