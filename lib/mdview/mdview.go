// Package mdview turns dataset description documents into html for
// display. The conversion is intentionally partial: headings up to
// level three, links and fenced code blocks, everything else passes
// through verbatim with newlines as <br>. Output shape is kept
// byte-compatible with the rendering the dataset publisher's tooling
// produces, so it must not grow into a full markdown parser.
package mdview

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	h1Pattern   = regexp.MustCompile(`(?m)^# (.*?)$`)
	h2Pattern   = regexp.MustCompile(`(?m)^## (.*?)$`)
	h3Pattern   = regexp.MustCompile(`(?m)^### (.*?)$`)
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	codePattern = regexp.MustCompile("(?s)```(.*?)```")
)

const documentShell = `
        <!DOCTYPE html>
        <html>
        <head>
            <title>TidyTuesday README</title>
            <style>
                body { font-family: Arial, sans-serif; margin: 20px; line-height: 1.6; }
                h1, h2, h3 { color: #333; }
                pre { background-color: #f4f4f4; padding: 10px; border-radius: 5px; }
                a { color: #0366d6; }
            </style>
        </head>
        <body>
            %s
        </body>
        </html>
        `

// Render converts a description document to a standalone html page.
// Pure function of its input.
func Render(markdown string) string {
	html := markdown
	html = h1Pattern.ReplaceAllString(html, "<h1>$1</h1>")
	html = h2Pattern.ReplaceAllString(html, "<h2>$1</h2>")
	html = h3Pattern.ReplaceAllString(html, "<h3>$1</h3>")
	html = linkPattern.ReplaceAllString(html, `<a href="$2">$1</a>`)
	html = codePattern.ReplaceAllString(html, "<pre><code>$1</code></pre>")
	html = strings.ReplaceAll(html, "\n", "<br>")
	return fmt.Sprintf(documentShell, html)
}

var titlePattern = regexp.MustCompile(`#\s+(.*?)(?:\n|$)`)

// Title extracts the text of the first heading anywhere in the
// document. Reports false when no heading exists.
func Title(markdown string) (string, bool) {
	match := titlePattern.FindStringSubmatch(markdown)
	if match == nil {
		return "", false
	}
	return strings.TrimSpace(match[1]), true
}
