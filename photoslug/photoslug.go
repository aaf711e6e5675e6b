// Package photoslug builds deterministic, human-readable slugs for gallery
// photos. The prefix encodes the strongest association the upload has:
// band+event beats event beats band beats photographer, with a generic
// fallback. A per-prefix sequence number makes the full slug unique.
package photoslug

import (
	"fmt"
	"regexp"
	"strings"
)

// FallbackPrefix is used when an upload has no associations at all.
const FallbackPrefix = "photo"

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases and reduces a name to URL-safe hyphenated tokens.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Prefix selects the slug prefix for a photo from its associations. Empty
// strings mean the association is absent.
func Prefix(bandName, eventSlug, photographerName string) string {
	band := Slugify(bandName)
	photographer := Slugify(photographerName)
	event := strings.Trim(eventSlug, "-")

	switch {
	case band != "" && event != "":
		return band + "-" + event
	case event != "":
		return event
	case band != "":
		return band
	case photographer != "":
		return photographer
	default:
		return FallbackPrefix
	}
}

// Format renders the final slug from a prefix and its sequence number.
func Format(prefix string, seq int) string {
	return fmt.Sprintf("%s-%03d", prefix, seq)
}
