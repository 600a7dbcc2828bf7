package mdview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	doc := Render("# Title\n[x](http://y)")
	require.Contains(t, doc, "<h1>Title</h1>")
	require.Contains(t, doc, `<a href="http://y">x</a>`)
	// the newline between the two lines becomes a break
	require.Contains(t, doc, `<h1>Title</h1><br><a href="http://y">x</a>`)
}

func TestRenderHeadingLevels(t *testing.T) {
	doc := Render("# One\n## Two\n### Three\n#### Four")
	require.Contains(t, doc, "<h1>One</h1>")
	require.Contains(t, doc, "<h2>Two</h2>")
	require.Contains(t, doc, "<h3>Three</h3>")
	// level four headings are not converted
	require.Contains(t, doc, "#### Four")
	require.NotContains(t, doc, "<h4>")
}

func TestRenderCodeBlock(t *testing.T) {
	doc := Render("```\nlibrary(tidyverse)\n```")
	require.Contains(t, doc, "<pre><code><br>library(tidyverse)<br></code></pre>")
}

func TestRenderShell(t *testing.T) {
	doc := Render("")
	require.True(t, strings.HasPrefix(doc, "\n        <!DOCTYPE html>"))
	require.Contains(t, doc, "<title>TidyTuesday README</title>")
	require.Contains(t, doc, "body { font-family: Arial, sans-serif; margin: 20px; line-height: 1.6; }")
	require.Contains(t, doc, "a { color: #0366d6; }")
	require.True(t, strings.HasSuffix(doc, "</html>\n        "))
}

func TestTitle(t *testing.T) {
	testCases := []struct {
		name     string
		markdown string
		title    string
		found    bool
	}{
		{
			name:     "plain_heading",
			markdown: "# English Monarchs\n\nsome notes",
			title:    "English Monarchs",
			found:    true,
		},
		{
			name:     "subheading_counts",
			markdown: "## Data Dictionary\n",
			title:    "Data Dictionary",
			found:    true,
		},
		{
			name:     "heading_after_preamble",
			markdown: "preamble text\n# Later Heading\nbody",
			title:    "Later Heading",
			found:    true,
		},
		{
			name:     "padded_heading",
			markdown: "#   Spaced Out   \n",
			title:    "Spaced Out",
			found:    true,
		},
		{
			name:     "no_heading",
			markdown: "just prose, nothing else",
			found:    false,
		},
		{
			name:     "hash_without_space",
			markdown: "#nospace here",
			found:    false,
		},
		{
			name:     "empty",
			markdown: "",
			found:    false,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			title, found := Title(testCase.markdown)
			require.Equal(t, testCase.found, found)
			require.Equal(t, testCase.title, title)
		})
	}
}
