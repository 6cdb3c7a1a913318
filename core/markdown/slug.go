package markdown

import (
	"regexp"
	"strings"
)

// slugSeparator matches every run of characters that is neither a word
// character (any script, CJK included) nor a hyphen.
var slugSeparator = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_-]+`)

// Slug derives the anchor id for a heading title. Equal titles produce
// equal slugs; collisions are not disambiguated.
func Slug(title string) string {
	s := slugSeparator.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}
