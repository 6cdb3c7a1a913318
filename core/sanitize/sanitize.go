// Package sanitize cleans rendered HTML for display of untrusted sources.
// The dialect renderer does not escape prose or inline code, so a page
// built from user input goes through a Policy before it is served.
package sanitize

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var anchorID = regexp.MustCompile(`^[\p{L}\p{M}\p{N}_-]+$`)

// Policy wraps a bluemonday policy tuned to the renderer's markup.
type Policy struct {
	p *bluemonday.Policy
}

// New returns the UGC policy extended with the class hooks, heading
// anchors and link targets the renderer emits.
func New() *Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("id").Matching(anchorID).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.RequireNoReferrerOnLinks(true)
	return &Policy{p: p}
}

// Sanitize returns html with everything outside the policy removed.
func (s *Policy) Sanitize(html string) string {
	return s.p.Sanitize(html)
}
