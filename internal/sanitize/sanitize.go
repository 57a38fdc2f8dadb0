// Package sanitize cleans user-authored text before it is stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// maxPasses bounds how many layers of entity encoding Text will peel.
const maxPasses = 8

var strict = bluemonday.StrictPolicy()

// Text strips every HTML tag and trims surrounding whitespace. Entities are
// unescaped so the mobile client receives plain text; the policy runs again
// on each unescaped result until nothing changes, so encoded markup such as
// "&lt;script&gt;" cannot turn back into a tag.
func Text(s string) string {
	for i := 0; i < maxPasses; i++ {
		clean := strict.Sanitize(s)
		plain := html.UnescapeString(clean)
		if plain == s {
			return strings.TrimSpace(plain)
		}
		s = plain
	}
	// Still decoding after maxPasses: keep the escaped form.
	return strings.TrimSpace(strict.Sanitize(s))
}

// Line is Text collapsed to a single line, for subjects and names.
func Line(s string) string {
	return strings.Join(strings.Fields(Text(s)), " ")
}
