// Package frontmatter splits a leading YAML block off a Markdown source.
//
//	---
//	title: Release notes
//	tags: [billing]
//	---
//	# Body starts here
package frontmatter

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnterminated is returned when the opening fence has no closing fence.
var ErrUnterminated = errors.New("front matter has no closing ---")

const fence = "---"

// Matter holds the recognised front matter keys. Unknown keys are ignored.
type Matter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Lang        string   `yaml:"lang"`
	Tags        []string `yaml:"tags"`
}

// Split separates front matter from the body. A source that does not start
// with a "---" line has no front matter and is returned unchanged.
func Split(source string) (Matter, string, error) {
	first, rest, ok := cutLine(source)
	if !ok || first != fence {
		return Matter{}, source, nil
	}

	var block strings.Builder
	for {
		line, tail, more := cutLine(rest)
		if line == fence {
			var m Matter
			if err := yaml.Unmarshal([]byte(block.String()), &m); err != nil {
				return Matter{}, source, fmt.Errorf("parsing front matter: %w", err)
			}
			return m, tail, nil
		}
		if !more {
			return Matter{}, source, ErrUnterminated
		}
		block.WriteString(line)
		block.WriteByte('\n')
		rest = tail
	}
}

// cutLine returns the first line of s without its line ending, the rest of
// s, and whether a line ending was found.
func cutLine(s string) (line, rest string, found bool) {
	line, rest, found = strings.Cut(s, "\n")
	return strings.TrimSuffix(line, "\r"), rest, found
}
