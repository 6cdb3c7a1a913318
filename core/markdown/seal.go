package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

// sealedRef is the placeholder left behind for a sealed fragment. It keeps
// the fragment's tag name so line passes still see "<pre", "<h2" or "<code".
var sealedRef = regexp.MustCompile("<([a-z][a-z0-9]*)\x00([0-9]+)\x00>")

// sealedFence is the placeholder of a fenced code block.
var sealedFence = regexp.MustCompile("<pre\x00[0-9]+\x00>")

var tagName = regexp.MustCompile(`^<([a-z][a-z0-9]*)`)

// vault holds markup emitted by earlier passes so later passes cannot
// rewrite it. One vault lives for exactly one Render call.
type vault struct {
	frags []string
}

func (v *vault) seal(s string, re *regexp.Regexp) string {
	return re.ReplaceAllStringFunc(s, func(frag string) string {
		name := "x"
		if m := tagName.FindStringSubmatch(frag); m != nil {
			name = m[1]
		}
		ref := "<" + name + "\x00" + strconv.Itoa(len(v.frags)) + "\x00>"
		v.frags = append(v.frags, frag)
		return ref
	})
}

// open restores every sealed fragment. A fragment may itself contain an
// older placeholder (a fence inside an inline code span), so it repeats
// until none remain.
func (v *vault) open(s string) string {
	for range len(v.frags) + 1 {
		if !strings.Contains(s, "\x00") {
			break
		}
		s = sealedRef.ReplaceAllStringFunc(s, func(ref string) string {
			m := sealedRef.FindStringSubmatch(ref)
			i, err := strconv.Atoi(m[2])
			if err != nil || i >= len(v.frags) {
				return ref
			}
			return v.frags[i]
		})
	}
	return s
}
