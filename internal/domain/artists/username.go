package artists

import (
	"regexp"
	"strings"
)

var (
	nonSlug   = regexp.MustCompile(`[^a-z0-9_\-]+`)
	multiDash = regexp.MustCompile(`-+`)
)

// NormalizeUsername turns user input into the public URL slug.
// Example: "  Jane Doe " -> "jane-doe". Returns "" when nothing usable is left.
//
// Lookups are case-insensitive because every stored username went through
// this function.
func NormalizeUsername(raw string) string {
	base := strings.ToLower(strings.TrimSpace(raw))
	base = strings.ReplaceAll(base, " ", "-")
	base = nonSlug.ReplaceAllString(base, "")
	base = multiDash.ReplaceAllString(base, "-")
	return strings.Trim(base, "-")
}

// ProfilePath is the public detail page of an artist.
func ProfilePath(username string) string {
	return "/vo/" + username
}
