package store

import "strings"

// Slugify normalizes a title into a URL path segment: lowercased, runs of
// non-alphanumerics collapsed to single dashes, leading/trailing dashes trimmed.
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// SlugifyOr returns Slugify(s), or fallback when the name has no
// alphanumerics to build a slug from, so deep links never end in a bare "/".
func SlugifyOr(s, fallback string) string {
	if slug := Slugify(s); slug != "" {
		return slug
	}
	return fallback
}
