// Package sanitize strips markup from user supplied text.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

const maxPasses = 8

// Text removes every tag and trims the result. Entities are decoded so
// "Tom & Jerry" survives a round trip, and the decoded text goes through
// the policy again until it stops changing, so "&lt;script&gt;" cannot
// come back out as a tag. The templates escape on output.
func Text(s string) string {
	cur := s
	for i := 0; i < maxPasses; i++ {
		next := html.UnescapeString(strict.Sanitize(cur))
		if next == cur {
			return strings.TrimSpace(next)
		}
		cur = next
	}
	// still changing: keep the escaped form
	return strings.TrimSpace(strict.Sanitize(cur))
}

// Value sanitises every string inside a decoded JSON value.
func Value(v interface{}) interface{} {
	switch t := v.(type) {
	case string:
		return Text(t)
	case map[string]interface{}:
		for k, inner := range t {
			t[k] = Value(inner)
		}
		return t
	case []interface{}:
		for i, inner := range t {
			t[i] = Value(inner)
		}
		return t
	default:
		return v
	}
}
