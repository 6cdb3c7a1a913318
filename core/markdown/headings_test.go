package markdown

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestExtractHeadings(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   []Heading
	}{
		{
			name:   "punctuation",
			source: "# Hello, World!",
			want:   []Heading{{ID: "hello-world", Title: "Hello, World!", Level: 1}},
		},
		{
			name:   "cjk",
			source: "## 你好 世界",
			want:   []Heading{{ID: "你好-世界", Title: "你好 世界", Level: 2}},
		},
		{
			name:   "document order and levels",
			source: "# Intro\ntext\n### Deep\n## Back up\n###### Six",
			want: []Heading{
				{ID: "intro", Title: "Intro", Level: 1},
				{ID: "deep", Title: "Deep", Level: 3},
				{ID: "back-up", Title: "Back up", Level: 2},
				{ID: "six", Title: "Six", Level: 6},
			},
		},
		{
			name:   "title is trimmed",
			source: "#   Spaced out   ",
			want:   []Heading{{ID: "spaced-out", Title: "Spaced out", Level: 1}},
		},
		{
			name:   "crlf",
			source: "# a\r\n## b\r\n",
			want: []Heading{
				{ID: "a", Title: "a", Level: 1},
				{ID: "b", Title: "b", Level: 2},
			},
		},
		{
			name:   "duplicates keep the same id",
			source: "## Setup\n## Setup",
			want: []Heading{
				{ID: "setup", Title: "Setup", Level: 2},
				{ID: "setup", Title: "Setup", Level: 2},
			},
		},
		{
			name:   "inline code in title",
			source: "## Use `fmt`",
			want:   []Heading{{ID: "use-fmt", Title: "Use `fmt`", Level: 2}},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if diff := cmp.Diff(c.want, ExtractHeadings(c.source)); diff != "" {
				t.Fatalf("headings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractHeadingsRejects(t *testing.T) {
	for _, source := range []string{
		"####### seven is too many",
		"#no-space",
		"plain text",
		"  # indented",
		"```\n# inside a fence\n```",
		"# ```\ncode only\n```",
		"#  \t",
		"",
	} {
		assert.Empty(t, ExtractHeadings(source), "source %q", source)
	}
}

func TestHeadingsRestartable(t *testing.T) {
	seq := Headings("# one\n## two")
	var first, second []string
	for h := range seq {
		first = append(first, h.ID)
	}
	for h := range seq {
		second = append(second, h.ID)
	}
	assert.Equal(t, []string{"one", "two"}, first)
	assert.Equal(t, first, second)
}

func TestHeadingsStopEarly(t *testing.T) {
	n := 0
	for range Headings("# a\n# b\n# c") {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestLines(t *testing.T) {
	var got []Line
	for l := range Lines("a ```x\ny\n```\n# b\n```\n# c") {
		got = append(got, l)
	}
	want := []Line{
		{Text: "a ", Code: []string{"y"}},
		{Text: "# b", Heading: Heading{ID: "b", Title: "b", Level: 1}, IsHeading: true},
		{Text: "```"},
		{Text: "# c", Heading: Heading{ID: "c", Title: "c", Level: 1}, IsHeading: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestLinesTitleAroundFence(t *testing.T) {
	var got []Line
	for l := range Lines("# Setup ```sh\nmake\n``` done") {
		got = append(got, l)
	}
	assert.Equal(t, []Line{{
		Text:      "# Setup  done",
		Code:      []string{"make"},
		Heading:   Heading{ID: "setup-done", Title: "Setup  done", Level: 1},
		IsHeading: true,
	}}, got)
}
